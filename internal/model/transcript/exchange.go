package transcript

import "time"

const (
	// ReceivedLabel prefixes the incoming message of every exchange.
	ReceivedLabel = "Message Received"
	// ResponseLabel prefixes the generated reply of every exchange.
	ResponseLabel = "My Response"
)

// Exchange is one finished turn: the message someone sent and the reply we produced for it.
type Exchange struct {
	IncomingMessage string    `json:"incomingMessage"`
	Reply           string    `json:"reply"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Segment is a labeled piece of text for presentation.
type Segment struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}
