package preferences

import "github.com/pkg/errors"

var (
	// ErrInvalidPreferences is returned when preferences fail structural validation.
	ErrInvalidPreferences = errors.New("invalid notification preferences")

	// ErrUnknownCategory is returned for a category that isn't part of the schema.
	ErrUnknownCategory = errors.New("unknown notification category")

	// ErrUnknownChannel is returned for a delivery channel that isn't part of the schema.
	ErrUnknownChannel = errors.New("unknown delivery channel")

	// ErrInvalidTime is returned for a time of day that isn't in the HH:MM format.
	ErrInvalidTime = errors.New("invalid time of day")

	// ErrUnreadablePreferences is returned when stored preferences can't be decoded, migrated or validated.
	ErrUnreadablePreferences = errors.New("stored notification preferences are unreadable")

	// ErrInvalidEmail is returned for an email address that can't be parsed.
	ErrInvalidEmail = errors.New("invalid email address")
)
