package inbound

type RequestOTPRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	AccountType string `json:"account_type"`
	PhoneNumber string `json:"phone_number"`
	Country     string `json:"country"`
}

type RequestOTPResponse struct {
	ExpiresInSeconds   int `json:"expires_in_seconds"`
	CooldownForSeconds int `json:"cooldown_for_seconds"`
}

func (RequestOTPResponse) Message() string {
	return "OTP sent to email. Please verify your account."
}

type RedeliverOTPRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type RedeliverOTPResponse struct{}

func (RedeliverOTPResponse) Message() string {
	return "OTP sent again. Please check your email."
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type VerifyOTPResponse struct {
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

func (VerifyOTPResponse) Message() string {
	return "OTP verified successfully."
}

type StatusResponse struct {
	State                   string `json:"state"`
	CodeExpiresInSeconds    int    `json:"code_expires_in_seconds"`
	AccountLockedForSeconds int    `json:"account_locked_for_seconds"`
	SpamLockedForSeconds    int    `json:"spam_locked_for_seconds"`
	CooldownForSeconds      int    `json:"cooldown_for_seconds"`
	AttemptsRemaining       int    `json:"attempts_remaining"`
	RequestsRemaining       int    `json:"requests_remaining"`
}

func (StatusResponse) Message() string {
	return "OTP status"
}
