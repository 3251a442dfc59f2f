package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/cardlink/cardscan/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS contacts (
	id          TEXT PRIMARY KEY,
	draft       TEXT NOT NULL,
	first_name  TEXT NOT NULL DEFAULT '',
	last_name   TEXT NOT NULL DEFAULT '',
	company     TEXT NOT NULL DEFAULT '',
	email       TEXT NOT NULL DEFAULT '',
	is_favorite INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email);
CREATE INDEX IF NOT EXISTS idx_contacts_company ON contacts(company);
CREATE INDEX IF NOT EXISTS idx_contacts_favorite ON contacts(is_favorite);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveContact(ctx context.Context, draft model.ContactDraft) (*model.Contact, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	draftJSON, err := json.Marshal(draft)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal draft")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO contacts (id, draft, first_name, last_name, company, email, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, string(draftJSON),
		draft.FirstName.Value, draft.LastName.Value, draft.Company.Value, draft.Email.Value,
		now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert contact")
	}

	return &model.Contact{
		ID:        id,
		Draft:     draft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) GetContact(ctx context.Context, id string) (*model.Contact, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, draft, is_favorite, created_at, updated_at FROM contacts WHERE id = ?`,
		id,
	)
	return scanContact(row)
}

func (s *SQLiteStore) ListContacts(ctx context.Context, filter ContactFilter) ([]model.Contact, error) {
	query := `SELECT id, draft, is_favorite, created_at, updated_at FROM contacts WHERE 1=1`
	var args []any

	if filter.Favorite != nil {
		query += ` AND is_favorite = ?`
		args = append(args, boolToInt(*filter.Favorite))
	}
	if filter.Search != "" {
		query += ` AND (first_name LIKE ? OR last_name LIKE ? OR company LIKE ? OR email LIKE ?)`
		like := "%" + filter.Search + "%"
		args = append(args, like, like, like, like)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list contacts")
	}
	defer rows.Close() //nolint:errcheck

	var contacts []model.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, eris.Wrap(rows.Err(), "sqlite: iterate contacts")
}

func (s *SQLiteStore) DeleteContact(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete contact %s", id)
	}
	return checkRowsAffected(res)
}

func (s *SQLiteStore) SetFavorite(ctx context.Context, id string, favorite bool) (*model.Contact, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE contacts SET is_favorite = ?, updated_at = ? WHERE id = ?`,
		boolToInt(favorite), time.Now().UTC(), id,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: set favorite %s", id)
	}
	if err := checkRowsAffected(res); err != nil {
		return nil, err
	}
	return s.GetContact(ctx, id)
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*model.Contact, error) {
	var c model.Contact
	var draftJSON string
	var fav int

	err := row.Scan(&c.ID, &draftJSON, &fav, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan contact")
	}

	if err := json.Unmarshal([]byte(draftJSON), &c.Draft); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal draft")
	}
	c.IsFavorite = fav != 0
	return &c, nil
}

func checkRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ Store = (*SQLiteStore)(nil)
