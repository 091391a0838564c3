package datastores

import (
	"context"
	"errors"
	"time"
)

type (
	ContactID = int64

	// Contact is a persisted contact record. ID and CreatedAt are assigned
	// by the store at creation and never mutated afterwards.
	Contact struct {
		ID          ContactID `db:"id"`
		FirstName   string    `db:"first_name"`
		LastName    string    `db:"last_name"`
		PhoneNumber string    `db:"phone_number"`
		Email       string    `db:"email"`
		CreatedAt   time.Time `db:"created_at"`
	}

	// NewContact carries the user-supplied fields of a contact about to be
	// created or applied to an existing record.
	NewContact struct {
		FirstName   string
		LastName    string
		PhoneNumber string
		Email       string
	}
)

// ApplyTo overwrites the mutable fields of c. Useful when updating a contact
// from an edit submission without touching id or created_at.
func (n *NewContact) ApplyTo(c *Contact) {
	c.FirstName = n.FirstName
	c.LastName = n.LastName
	c.PhoneNumber = n.PhoneNumber
	c.Email = n.Email
}

// ContactsStore is the persistence contract for contact records.
//
// List and Search are 1-indexed and ordered by ascending id; both clamp
// page and perPage to a minimum of 1. Search restricts rows to those whose
// first or last name contains term as an ASCII case-insensitive substring,
// so an empty term matches every row.
type ContactsStore interface {
	Create(ctx context.Context, n *NewContact) (*Contact, error)
	Update(ctx context.Context, c *Contact) error
	Delete(ctx context.Context, id ContactID) error
	Get(ctx context.Context, id ContactID) (*Contact, error)
	List(ctx context.Context, page, perPage int) ([]*Contact, error)
	Search(ctx context.Context, term string, page, perPage int) ([]*Contact, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
}

var (
	ErrObjectNotFound = errors.New("store: object not found")
	ErrDuplicateEmail = errors.New("store: email already in use")
	ErrDuplicatePhone = errors.New("store: phone number already in use")
)

func clampPage(page, perPage int) (int, int) {
	return max(page, 1), max(perPage, 1)
}
