package notifications

import (
	"encoding/json"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/bookings"
	"github.com/harshnandal981/Advermo-sub000/internal/users"

	"github.com/google/uuid"
)

// NotificationType tells subscribers which booking transition happened
type NotificationType string

const (
	NotificationTypeBookingRequested NotificationType = "BOOKING_REQUESTED"
	NotificationTypeBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
	NotificationTypeBookingRejected  NotificationType = "BOOKING_REJECTED"
	NotificationTypeBookingCancelled NotificationType = "BOOKING_CANCELLED"
	NotificationTypeBookingActivated NotificationType = "BOOKING_ACTIVATED"
	NotificationTypeBookingCompleted NotificationType = "BOOKING_COMPLETED"
)

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "LOW"
	NotificationPriorityMedium NotificationPriority = "MEDIUM"
	NotificationPriorityHigh   NotificationPriority = "HIGH"
)

// Recipient is a party the delivery subsystem may notify, subject to its own preferences.
type Recipient struct {
	UserID uuid.UUID  `json:"user_id"`
	Email  string     `json:"email,omitempty"`
	Role   users.Role `json:"role"`
}

// TransitionNotification is the message written to the booking transition topic.
type TransitionNotification struct {
	ID         uuid.UUID                    `json:"id"`
	Type       NotificationType             `json:"type"`
	Priority   NotificationPriority         `json:"priority"`
	Recipients []Recipient                  `json:"recipients"`
	Transition bookings.BookingTransitioned `json:"transition"`
	Version    string                       `json:"version"`
	CreatedAt  time.Time                    `json:"created_at"`
}

const messageVersion = "1.0"

// NotificationBuilder assembles a TransitionNotification from a committed transition
type NotificationBuilder struct {
	notification *TransitionNotification
}

func NewNotificationBuilder(event bookings.BookingTransitioned) *NotificationBuilder {
	createdAt := event.OccurredAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	notType := TypeForStatus(event.To)
	return &NotificationBuilder{
		notification: &TransitionNotification{
			ID:         uuid.New(),
			Type:       notType,
			Priority:   GetDefaultPriority(notType),
			Transition: event,
			Version:    messageVersion,
			CreatedAt:  createdAt,
		},
	}
}

func (nb *NotificationBuilder) WithRecipient(userID uuid.UUID, email string, role users.Role) *NotificationBuilder {
	if userID == uuid.Nil {
		return nb
	}
	nb.notification.Recipients = append(nb.notification.Recipients, Recipient{UserID: userID, Email: email, Role: role})
	return nb
}

func (nb *NotificationBuilder) Build() *TransitionNotification {
	return nb.notification
}

// FromTransition builds the message for event, addressed to the parties who care about it.
func FromTransition(event bookings.BookingTransitioned) *TransitionNotification {
	builder := NewNotificationBuilder(event)
	switch event.To {
	case bookings.StatusPending:
		builder.WithRecipient(event.OwnerID, event.OwnerEmail, users.RoleVenueOwner)
	case bookings.StatusCancelled:
		builder.
			WithRecipient(event.BrandID, event.BrandEmail, users.RoleBrand).
			WithRecipient(event.OwnerID, event.OwnerEmail, users.RoleVenueOwner)
	default:
		builder.WithRecipient(event.BrandID, event.BrandEmail, users.RoleBrand)
	}
	return builder.Build()
}

// Helper functions
func TypeForStatus(status bookings.Status) NotificationType {
	switch status {
	case bookings.StatusPending:
		return NotificationTypeBookingRequested
	case bookings.StatusConfirmed:
		return NotificationTypeBookingConfirmed
	case bookings.StatusRejected:
		return NotificationTypeBookingRejected
	case bookings.StatusCancelled:
		return NotificationTypeBookingCancelled
	case bookings.StatusActive:
		return NotificationTypeBookingActivated
	default:
		return NotificationTypeBookingCompleted
	}
}

func GetDefaultPriority(notType NotificationType) NotificationPriority {
	switch notType {
	case NotificationTypeBookingRequested, NotificationTypeBookingCancelled:
		return NotificationPriorityHigh
	case NotificationTypeBookingActivated, NotificationTypeBookingCompleted:
		return NotificationPriorityLow
	default:
		return NotificationPriorityMedium
	}
}

// Utility methods

// GetPartitionKey keeps every message of one booking on the same partition, in order.
func (n *TransitionNotification) GetPartitionKey() string {
	return n.Transition.BookingID.String()
}

func (n *TransitionNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}
