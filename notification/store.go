package notification

import "context"

// Store is the persistence interface for notification preferences.
type Store interface {
	GetPreference(ctx context.Context, userID string) (*Preference, error)
	PutPreference(ctx context.Context, p *Preference) error
}
