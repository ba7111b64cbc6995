package event

const OTPDeliveryDestination string = "otp_delivery"
const OTPDeliveryConsumerNotification string = "otp_delivery_notification"

// OTPDeliveryMessage asks the notification module to email a code. DeliveryID
// is unique per publish and is used to drop broker redeliveries.
type OTPDeliveryMessage struct {
	DeliveryID  string `json:"delivery_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Subject     string `json:"subject"`
	TemplateID  string `json:"template_id"`
	Code        string `json:"code"`
}
