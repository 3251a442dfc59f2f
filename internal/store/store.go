// Package store persists extracted contacts. The extraction pipeline never
// touches it; callers decide when a draft is worth keeping.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/cardlink/cardscan/internal/config"
	"github.com/cardlink/cardscan/internal/model"
)

// ErrNotFound is returned when a contact ID does not exist.
var ErrNotFound = eris.New("store: contact not found")

// ContactFilter specifies criteria for listing contacts.
type ContactFilter struct {
	Favorite *bool  `json:"favorite,omitempty"`
	Search   string `json:"search,omitempty"` // matches name, company, email
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for contacts.
type Store interface {
	SaveContact(ctx context.Context, draft model.ContactDraft) (*model.Contact, error)
	GetContact(ctx context.Context, id string) (*model.Contact, error)
	ListContacts(ctx context.Context, filter ContactFilter) ([]model.Contact, error)
	DeleteContact(ctx context.Context, id string) error
	SetFavorite(ctx context.Context, id string, favorite bool) (*model.Contact, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// New creates a Store based on config.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
