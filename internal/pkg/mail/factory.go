package mail

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DriverSMTP   = "smtp"
	DriverGomail = "gomail"
	DriverLog    = "log"
)

var ErrUnknownDriver = errors.New("mail: unknown driver")

// NewFromDriver builds the Mail implementation named by driver.
func NewFromDriver(driver string, cfg SMTPConfig) (Mail, error) {
	switch strings.TrimSpace(driver) {
	case DriverSMTP:
		return NewSMTP(cfg)
	case DriverGomail:
		return NewGomail(cfg)
	case DriverLog, "":
		return NewLog(cfg.From), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
