package datastores

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// ContactsInmem implements [ContactsStore] without any storage engine.
// Records are held in a slice ordered by ascending id, which keeps the
// List/Search contract trivial. Used by tests and as a no-setup dev store.
type ContactsInmem struct {
	mu       sync.Mutex
	nextID   ContactID
	index    map[ContactID]int
	contacts []*Contact
}

var _ ContactsStore = (*ContactsInmem)(nil)

func NewContactsInmem() *ContactsInmem {
	return &ContactsInmem{nextID: 1, index: make(map[ContactID]int)}
}

func (s *ContactsInmem) Create(_ context.Context, n *NewContact) (*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conflicts(n.Email, n.PhoneNumber, 0); err != nil {
		return nil, err
	}

	c := &Contact{ID: s.nextID, CreatedAt: time.Now().UTC()}
	n.ApplyTo(c)
	s.nextID++
	s.index[c.ID] = len(s.contacts)
	s.contacts = append(s.contacts, c)

	clone := *c
	return &clone, nil
}

func (s *ContactsInmem) Update(_ context.Context, c *Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, ok := s.index[c.ID]
	if !ok {
		return nil // absent id is a no-op success
	}
	if err := s.conflicts(c.Email, c.PhoneNumber, c.ID); err != nil {
		return err
	}

	stored := s.contacts[index]
	stored.FirstName = c.FirstName
	stored.LastName = c.LastName
	stored.PhoneNumber = c.PhoneNumber
	stored.Email = c.Email
	return nil
}

func (s *ContactsInmem) Delete(_ context.Context, id ContactID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, ok := s.index[id]
	if ok {
		delete(s.index, id)
		s.contacts = slices.Delete(s.contacts, index, index+1)
		for i := index; i < len(s.contacts); i++ {
			s.index[s.contacts[i].ID] = i
		}
	}
	return nil
}

func (s *ContactsInmem) Get(_ context.Context, id ContactID) (*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, ok := s.index[id]
	if !ok {
		return nil, ErrObjectNotFound
	}
	clone := *s.contacts[index]
	return &clone, nil
}

func (s *ContactsInmem) List(_ context.Context, page, perPage int) ([]*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window(s.contacts, page, perPage), nil
}

func (s *ContactsInmem) Search(_ context.Context, term string, page, perPage int) ([]*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	term = strings.ToLower(term)
	var matched []*Contact
	for _, c := range s.contacts {
		if strings.Contains(strings.ToLower(c.FirstName), term) ||
			strings.Contains(strings.ToLower(c.LastName), term) {
			matched = append(matched, c)
		}
	}
	return s.window(matched, page, perPage), nil
}

func (s *ContactsInmem) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.contacts {
		if c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *ContactsInmem) PhoneExists(_ context.Context, phone string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.contacts {
		if c.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

// window slices out one page of contacts, cloning each record so callers
// never alias store-owned memory. Callers must hold s.mu.
func (s *ContactsInmem) window(contacts []*Contact, page, perPage int) []*Contact {
	page, perPage = clampPage(page, perPage)
	offset := (page - 1) * perPage
	lo := min(offset, len(contacts))
	hi := min(offset+perPage, len(contacts))

	out := make([]*Contact, 0, hi-lo)
	for _, c := range contacts[lo:hi] {
		clone := *c
		out = append(out, &clone)
	}
	return out
}

// conflicts reports a duplicate sentinel when a non-empty email or phone is
// already held by a contact other than exclude. Both fields are checked so
// the first conflict found is email, matching the SQL store's index order.
func (s *ContactsInmem) conflicts(email, phone string, exclude ContactID) error {
	for _, c := range s.contacts {
		if c.ID == exclude {
			continue
		}
		if email != "" && c.Email == email {
			return ErrDuplicateEmail
		}
	}
	for _, c := range s.contacts {
		if c.ID == exclude {
			continue
		}
		if phone != "" && c.PhoneNumber == phone {
			return ErrDuplicatePhone
		}
	}
	return nil
}
