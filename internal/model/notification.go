package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationSource identifies where a feed item came from.
type NotificationSource string

const (
	SourceAppointment NotificationSource = "appointment"
	SourceMaterial    NotificationSource = "material"
	SourceHealth      NotificationSource = "health"
	SourceSystem      NotificationSource = "system"
)

// FeedItem is a compiled notification. Items are produced fresh per view and
// never persisted.
type FeedItem struct {
	ID        uuid.UUID          `json:"id"`
	Title     string             `json:"title"`
	Message   string             `json:"message"`
	Source    NotificationSource `json:"source_type"`
	Timestamp time.Time          `json:"timestamp"`
}
