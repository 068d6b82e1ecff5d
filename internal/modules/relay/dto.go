package relay

import "encoding/json"

type SendRequest struct {
	WebhookURL string          `json:"webhookUrl"`
	Data       json.RawMessage `json:"data"`
}

type SendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
