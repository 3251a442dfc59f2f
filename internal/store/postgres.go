package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/cardlink/cardscan/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool creates a PostgresStore over an existing pool.
// Used by tests with pgxmock.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS contacts (
	id          TEXT PRIMARY KEY,
	draft       JSONB NOT NULL,
	first_name  TEXT NOT NULL DEFAULT '',
	last_name   TEXT NOT NULL DEFAULT '',
	company     TEXT NOT NULL DEFAULT '',
	email       TEXT NOT NULL DEFAULT '',
	is_favorite BOOLEAN NOT NULL DEFAULT false,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email);
CREATE INDEX IF NOT EXISTS idx_contacts_company ON contacts(company);
CREATE INDEX IF NOT EXISTS idx_contacts_favorite ON contacts(is_favorite);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveContact(ctx context.Context, draft model.ContactDraft) (*model.Contact, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	draftJSON, err := json.Marshal(draft)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal draft")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO contacts (id, draft, first_name, last_name, company, email, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, draftJSON,
		draft.FirstName.Value, draft.LastName.Value, draft.Company.Value, draft.Email.Value,
		now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert contact")
	}

	return &model.Contact{
		ID:        id,
		Draft:     draft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) GetContact(ctx context.Context, id string) (*model.Contact, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, draft, is_favorite, created_at, updated_at FROM contacts WHERE id = $1`,
		id,
	)
	return scanPgContact(row)
}

func (s *PostgresStore) ListContacts(ctx context.Context, filter ContactFilter) ([]model.Contact, error) {
	query := `SELECT id, draft, is_favorite, created_at, updated_at FROM contacts WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Favorite != nil {
		query += ` AND is_favorite = ` + arg(*filter.Favorite)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		p := arg(like)
		query += ` AND (first_name ILIKE ` + p +
			` OR last_name ILIKE ` + p +
			` OR company ILIKE ` + p +
			` OR email ILIKE ` + p + `)`
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list contacts")
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		c, err := scanPgContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, eris.Wrap(rows.Err(), "postgres: iterate contacts")
}

func (s *PostgresStore) DeleteContact(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete contact %s", id)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SetFavorite(ctx context.Context, id string, favorite bool) (*model.Contact, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE contacts SET is_favorite = $1, updated_at = $2 WHERE id = $3`,
		favorite, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: set favorite %s", id)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.GetContact(ctx, id)
}

func scanPgContact(row pgx.Row) (*model.Contact, error) {
	var c model.Contact
	var draftJSON []byte

	err := row.Scan(&c.ID, &draftJSON, &c.IsFavorite, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan contact")
	}

	if err := json.Unmarshal(draftJSON, &c.Draft); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal draft")
	}
	return &c, nil
}

var _ Store = (*PostgresStore)(nil)
