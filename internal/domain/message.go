package domain

import "time"

// ContactMessage is one contact form submission as kept in the inbox.
// Delivered is false when the SMTP relay failed; DeliveryError says why.
type ContactMessage struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Message       string    `json:"message"`
	Delivered     bool      `json:"delivered"`
	DeliveryError string    `json:"deliveryError,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
