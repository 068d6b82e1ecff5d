package payment

import "encoding/json"

const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventPaymentFailed     = "payment_intent.payment_failed"
)

// Event is a verified webhook delivery. Object is the raw data.object payload.
type Event struct {
	ID     string
	Type   string
	Object json.RawMessage
}

type WebhookResponse struct {
	Received bool `json:"received"`
}
