package entity

const (
	DeliverySubject            = "Verify Your Email"
	DeliveryTemplateActivation = "user-activation-mail"

	VarDisplayName = "DisplayName"
	VarCode        = "Code"
)

// Delivery is the notification sent after a code is issued.
type Delivery struct {
	Identity   string
	Subject    string
	TemplateID string
	Variables  map[string]string
}

// NewActivationDelivery builds the standard verification email for code.
func NewActivationDelivery(identity, displayName, code string) Delivery {
	return Delivery{
		Identity:   identity,
		Subject:    DeliverySubject,
		TemplateID: DeliveryTemplateActivation,
		Variables: map[string]string{
			VarDisplayName: displayName,
			VarCode:        code,
		},
	}
}
