// Package validation decides whether a prospective contact submission
// collides with records already in the store. It is a friendly pre-check
// for the UI; the store's unique indexes remain the authoritative word.
package validation

import "context"

// ExistenceStore is the slice of the record store the service needs.
type ExistenceStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	PhoneExists(ctx context.Context, phone string) (bool, error)
}

// Kind names the outcome of the 2x2 decision table.
type Kind string

const (
	KindNone          Kind = "none"
	KindEmailConflict Kind = "email-conflict"
	KindPhoneConflict Kind = "phone-conflict"
	KindBothConflict  Kind = "both-conflict"
)

// Result is a pure function of the two existence booleans.
type Result struct {
	EmailExists bool
	PhoneExists bool
}

// Allowed reports whether the submission may proceed.
func (r Result) Allowed() bool { return !r.EmailExists && !r.PhoneExists }

func (r Result) Kind() Kind {
	switch {
	case r.EmailExists && r.PhoneExists:
		return KindBothConflict
	case r.EmailExists:
		return KindEmailConflict
	case r.PhoneExists:
		return KindPhoneConflict
	default:
		return KindNone
	}
}

// Message returns the user-facing text for the outcome, empty when allowed.
func (r Result) Message() string {
	switch r.Kind() {
	case KindBothConflict:
		return "Email and phone number already exist in your contacts"
	case KindEmailConflict:
		return "This email already exists in your contacts"
	case KindPhoneConflict:
		return "This phone number already exists in your contacts"
	default:
		return ""
	}
}

type Service struct {
	store ExistenceStore
}

func NewService(store ExistenceStore) *Service {
	return &Service{store: store}
}

// Validate checks the candidate email and phone against the store. An empty
// field counts as not provided and never conflicts. Both fields are always
// checked together; short-circuiting on the first conflict would let fixing
// one field re-enable submission while the other is still taken.
func (s *Service) Validate(ctx context.Context, email, phone string) (Result, error) {
	var r Result

	if email != "" {
		exists, err := s.store.EmailExists(ctx, email)
		if err != nil {
			return Result{}, err
		}
		r.EmailExists = exists
	}

	if phone != "" {
		exists, err := s.store.PhoneExists(ctx, phone)
		if err != nil {
			return Result{}, err
		}
		r.PhoneExists = exists
	}

	return r, nil
}
