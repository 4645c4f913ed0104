package domain

import (
	"context"
	"time"
)

type EventType string

const (
	EventProfileUpserted   EventType = "profile.upserted"
	EventExperienceAdded   EventType = "profile.experience_added"
	EventExperienceRemoved EventType = "profile.experience_removed"
	EventAccountDeleted    EventType = "account.deleted"
)

type ProfileEvent struct {
	Type         EventType `json:"type"`
	UserID       string    `json:"user_id"`
	ProfileID    string    `json:"profile_id,omitempty"`
	ExperienceID string    `json:"experience_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// EventPublisher announces committed profile changes. Publishing happens after
// the store write, so a failed publish never rolls a change back.
type EventPublisher interface {
	Publish(ctx context.Context, event ProfileEvent) error
}
