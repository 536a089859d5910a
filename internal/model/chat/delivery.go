package chat

// DeliveryType distinguishes the outbound envelopes pushed to the front end.
type DeliveryType string

const (
	DeliveryMessage      DeliveryType = "message"
	DeliveryError        DeliveryType = "error"
	DeliveryDisconnected DeliveryType = "disconnected"
	DeliveryPromptStart  DeliveryType = "prompt_start"
)

// Delivery is one outbound item for a user's front-end channel.
type Delivery struct {
	Type DeliveryType `json:"type"`
	Text string       `json:"text,omitempty"`
}
