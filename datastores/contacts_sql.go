package datastores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// ContactsSQL implements [ContactsStore] over a relational contacts table.
// Queries are written with ? placeholders and rebound for the active driver,
// so the same store serves both SQLite and PostgreSQL.
//
// Uniqueness of non-empty email and phone_number is enforced by partial
// unique indexes; Create and Update convert constraint violations into
// [ErrDuplicateEmail] / [ErrDuplicatePhone], which makes the database the
// authoritative duplicate check rather than the pre-submission lookup.
type ContactsSQL struct {
	db *sqlx.DB
}

var _ ContactsStore = (*ContactsSQL)(nil)

func NewContactsSQL(db *sqlx.DB) *ContactsSQL {
	return &ContactsSQL{db: db}
}

const (
	schemaSQLite = `
CREATE TABLE IF NOT EXISTS contacts (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name   TEXT NOT NULL,
	last_name    TEXT NOT NULL,
	phone_number TEXT NOT NULL DEFAULT '',
	email        TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMP NOT NULL
)`

	schemaPostgres = `
CREATE TABLE IF NOT EXISTS contacts (
	id           BIGSERIAL PRIMARY KEY,
	first_name   TEXT NOT NULL,
	last_name    TEXT NOT NULL,
	phone_number TEXT NOT NULL DEFAULT '',
	email        TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL
)`

	// Partial indexes: any number of contacts may leave email or phone
	// empty, only non-empty values must be unique.
	indexEmail = `CREATE UNIQUE INDEX IF NOT EXISTS contacts_email_uniq ON contacts (email) WHERE email <> ''`
	indexPhone = `CREATE UNIQUE INDEX IF NOT EXISTS contacts_phone_uniq ON contacts (phone_number) WHERE phone_number <> ''`
)

// EnsureSchema creates the contacts table and its unique indexes for the
// dialect matching the connection's driver.
func (s *ContactsSQL) EnsureSchema(ctx context.Context) error {
	schema := schemaSQLite
	if s.db.DriverName() == "postgres" {
		schema = schemaPostgres
	}
	for _, stmt := range []string{schema, indexEmail, indexPhone} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *ContactsSQL) Create(ctx context.Context, n *NewContact) (*Contact, error) {
	c := &Contact{CreatedAt: time.Now().UTC().Truncate(time.Microsecond)}
	n.ApplyTo(c)

	q := s.db.Rebind(`INSERT INTO contacts (first_name, last_name, phone_number, email, created_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`)
	err := s.db.QueryRowxContext(ctx, q,
		c.FirstName, c.LastName, c.PhoneNumber, c.Email, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return c, nil
}

func (s *ContactsSQL) Update(ctx context.Context, c *Contact) error {
	q := s.db.Rebind(`UPDATE contacts SET first_name = ?, last_name = ?, phone_number = ?, email = ?
		WHERE id = ?`)
	_, err := s.db.ExecContext(ctx, q,
		c.FirstName, c.LastName, c.PhoneNumber, c.Email, c.ID)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("update contact %d: %w", c.ID, err)
	}
	return nil
}

func (s *ContactsSQL) Delete(ctx context.Context, id ContactID) error {
	q := s.db.Rebind(`DELETE FROM contacts WHERE id = ?`)
	if _, err := s.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	return nil
}

func (s *ContactsSQL) Get(ctx context.Context, id ContactID) (*Contact, error) {
	var c Contact
	q := s.db.Rebind(`SELECT id, first_name, last_name, phone_number, email, created_at
		FROM contacts WHERE id = ?`)
	err := s.db.GetContext(ctx, &c, q, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrObjectNotFound
	case err != nil:
		return nil, fmt.Errorf("get contact %d: %w", id, err)
	}
	return &c, nil
}

func (s *ContactsSQL) List(ctx context.Context, page, perPage int) ([]*Contact, error) {
	page, perPage = clampPage(page, perPage)

	contacts := []*Contact{}
	q := s.db.Rebind(`SELECT id, first_name, last_name, phone_number, email, created_at
		FROM contacts ORDER BY id ASC LIMIT ? OFFSET ?`)
	err := s.db.SelectContext(ctx, &contacts, q, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

func (s *ContactsSQL) Search(ctx context.Context, term string, page, perPage int) ([]*Contact, error) {
	page, perPage = clampPage(page, perPage)
	pattern := "%" + term + "%"

	contacts := []*Contact{}
	q := s.db.Rebind(`SELECT id, first_name, last_name, phone_number, email, created_at
		FROM contacts WHERE first_name LIKE ? OR last_name LIKE ?
		ORDER BY id ASC LIMIT ? OFFSET ?`)
	err := s.db.SelectContext(ctx, &contacts, q, pattern, pattern, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	return contacts, nil
}

func (s *ContactsSQL) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM contacts WHERE email = ?)`, email)
}

func (s *ContactsSQL) PhoneExists(ctx context.Context, phone string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM contacts WHERE phone_number = ?)`, phone)
}

func (s *ContactsSQL) exists(ctx context.Context, query, value string) (bool, error) {
	var found bool
	err := s.db.GetContext(ctx, &found, s.db.Rebind(query), value)
	if err != nil {
		return false, fmt.Errorf("existence check: %w", err)
	}
	return found, nil
}

// duplicateError maps a driver unique-constraint violation to the matching
// sentinel, or returns nil when err is anything else.
func duplicateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "contacts_email_uniq":
			return ErrDuplicateEmail
		case "contacts_phone_uniq":
			return ErrDuplicatePhone
		}
		return nil
	}

	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) && sqErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		msg := sqErr.Error()
		switch {
		case strings.Contains(msg, "contacts_email_uniq") || strings.Contains(msg, "contacts.email"):
			return ErrDuplicateEmail
		case strings.Contains(msg, "contacts_phone_uniq") || strings.Contains(msg, "contacts.phone_number"):
			return ErrDuplicatePhone
		}
	}
	return nil
}
