package store

import (
	"time"

	"gorm.io/gorm"

	"github.com/infigaming-com/notification-service/util"
)

// NotificationStatus is the lifecycle state of a persisted request.
type NotificationStatus string

const (
	StatusPending  NotificationStatus = "PENDING"
	StatusAccepted NotificationStatus = "ACCEPTED"
	StatusRejected NotificationStatus = "REJECTED"
)

// Base carries the columns shared by every table. IDs are UUID v7 strings
// assigned at insert time.
type Base struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = util.NewUUID()
	}
	return nil
}

// Client is an API consumer. Only the SHA-256 hash of its api key is stored.
type Client struct {
	Base
	ClientName string `gorm:"uniqueIndex;not null" json:"client_name"`
	APIKeyHash string `gorm:"uniqueIndex;not null" json:"-"`
	IsActive   bool   `gorm:"default:true" json:"is_active"`
}

// Channel is a delivery channel such as "push_notification", "email", "sms".
type Channel struct {
	Base
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

// Provider is a concrete delivery backend attached to a channel.
type Provider struct {
	Base
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	ChannelID   string `gorm:"index;not null" json:"channel_id"`
	Description string `json:"description"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

// Receiver is a notification destination owned by a client. UserID is the
// recipient identity used as the stream partition key.
type Receiver struct {
	Base
	ClientID    string `gorm:"index:idx_receiver_client_user,unique;not null" json:"client_id"`
	UserID      string `gorm:"index:idx_receiver_client_user,unique" json:"user_id"`
	Email       string `gorm:"index" json:"email,omitempty"`
	PhoneNumber string `gorm:"index" json:"phone_number,omitempty"`
	Metadata    []byte `json:"metadata,omitempty"`
}

// Template is a reusable message body attached to a channel and optionally
// a provider. Rendering is out of scope; templates are stored verbatim.
type Template struct {
	Base
	Name       string  `gorm:"not null" json:"name"`
	ChannelID  string  `gorm:"index" json:"channel_id"`
	ProviderID *string `json:"provider_id,omitempty"`
	Content    string  `json:"content"`
	IsActive   bool    `gorm:"default:true" json:"is_active"`
}

// Request is one notification request accepted from a client, recorded for
// request tracking. Payload is the raw notification body as received.
type Request struct {
	Base
	ClientID      string             `gorm:"index;not null" json:"client_id"`
	ChannelID     string             `gorm:"not null" json:"channel_id"`
	ProviderID    *string            `json:"provider_id,omitempty"`
	ReceiverID    string             `gorm:"index;not null" json:"receiver_id"`
	TemplateID    *string            `json:"template_id,omitempty"`
	Payload       []byte             `gorm:"not null" json:"payload"`
	Status        NotificationStatus `gorm:"default:PENDING;not null" json:"status"`
	ErrorMessage  string             `json:"error_message,omitempty"`
	RequestSource string             `json:"request_source,omitempty"`
}
