// Package models defines data structures shared across the application.
package models

import (
	"time"
)

// Issue represents a GitLab issue with the fields the SLA engine needs.
type Issue struct {
	// ID is the globally unique issue id.
	ID int

	// IID is the per-project sequential display number (e.g., 42 in "#42")
	IID int

	// Title is the issue's title or summary
	Title string

	// WebURL is the browser link to the issue
	WebURL string

	// State is the current state of the issue ("opened" or "closed")
	State string

	// CreatedAt is the timestamp when the issue was created
	CreatedAt time.Time

	// ClosedAt is the timestamp when the issue was closed, nil while open
	ClosedAt *time.Time

	// Labels is a slice of raw label strings attached to the issue
	Labels []string

	// Author is the display name of the issue's author
	Author string

	// UserNotesCount is the number of user comments on the issue
	UserNotesCount int

	// Upvotes is the number of thumbs-up reactions on the issue
	Upvotes int
}

// LabelAction describes a label timeline event kind.
type LabelAction string

const (
	// LabelAdded records a label being attached to an issue.
	LabelAdded LabelAction = "add"

	// LabelRemoved records a label being detached from an issue.
	LabelRemoved LabelAction = "remove"
)

// LabelEvent is one entry of an issue's label history, ordered by timestamp.
type LabelEvent struct {
	// Timestamp is when the label was added or removed
	Timestamp time.Time

	// Label is the raw label name the event refers to
	Label string

	// Action is whether the label was added or removed
	Action LabelAction
}
