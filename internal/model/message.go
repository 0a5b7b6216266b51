package model

import (
	"time"

	"github.com/google/uuid"
)

// Message is a single inbound email held in the store. MessageID is the
// Gmail message identifier and acts as the deduplication key; ID is the
// store row identifier.
type Message struct {
	ID         string    `json:"id" db:"id"`
	MessageID  string    `json:"message_id" db:"message_id"`
	ThreadID   string    `json:"thread_id" db:"thread_id"`
	Sender     string    `json:"sender" db:"sender"`
	Recipient  string    `json:"recipient" db:"recipient"`
	Subject    string    `json:"subject" db:"subject"`
	BodyPlain  string    `json:"body_plain" db:"body_plain"`
	BodyHTML   string    `json:"body_html" db:"body_html"`
	ReceivedAt time.Time `json:"received_at" db:"received_at"`
	StoredAt   time.Time `json:"stored_at" db:"stored_at"`
	Processed  bool      `json:"processed" db:"processed"`
}

func NewMessage(messageID, threadID, sender, recipient, subject, bodyPlain, bodyHTML string, receivedAt time.Time) *Message {
	return &Message{
		ID:         uuid.New().String(),
		MessageID:  messageID,
		ThreadID:   threadID,
		Sender:     sender,
		Recipient:  recipient,
		Subject:    subject,
		BodyPlain:  bodyPlain,
		BodyHTML:   bodyHTML,
		ReceivedAt: receivedAt,
		StoredAt:   time.Now(),
	}
}
