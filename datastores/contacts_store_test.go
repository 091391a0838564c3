package datastores

import (
	"context"
	"errors"
	"testing"
)

// runContactsStoreTests exercises the ContactsStore contract against a fresh
// store produced by newStore, so both implementations answer for the same
// semantics.
func runContactsStoreTests(t *testing.T, newStore func(t *testing.T) ContactsStore) {
	t.Helper()
	ctx := context.Background()

	seed := func(t *testing.T, s ContactsStore, n int) []*Contact {
		t.Helper()
		contacts := make([]*Contact, 0, n)
		for i := 0; i < n; i++ {
			c, err := s.Create(ctx, &NewContact{
				FirstName:   "First" + string(rune('A'+i)),
				LastName:    "Last" + string(rune('A'+i)),
				PhoneNumber: "555-01" + string(rune('0'+i%10)) + string(rune('0'+i/10)),
				Email:       "user" + string(rune('a'+i)) + "@example.com",
			})
			if err != nil {
				t.Fatalf("seed create %d: %v", i, err)
			}
			contacts = append(contacts, c)
		}
		return contacts
	}

	t.Run("create then get roundtrip", func(t *testing.T) {
		s := newStore(t)
		n := &NewContact{FirstName: "Jane", LastName: "Doe", PhoneNumber: "555-0100", Email: "jane@x.com"}

		created, err := s.Create(ctx, n)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.ID == 0 {
			t.Error("expected store-assigned id")
		}
		if created.CreatedAt.IsZero() {
			t.Error("expected store-assigned created_at")
		}

		got, err := s.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.FirstName != n.FirstName || got.LastName != n.LastName ||
			got.PhoneNumber != n.PhoneNumber || got.Email != n.Email {
			t.Errorf("roundtrip mismatch: got %+v", got)
		}
	})

	t.Run("get unknown id", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, 12345)
		if !errors.Is(err, ErrObjectNotFound) {
			t.Fatalf("expected ErrObjectNotFound, got %v", err)
		}
	})

	t.Run("existence predicates", func(t *testing.T) {
		s := newStore(t)

		for _, check := range []func(context.Context, string) (bool, error){s.EmailExists, s.PhoneExists} {
			exists, err := check(ctx, "nobody@example.com")
			if err != nil {
				t.Fatalf("exists: %v", err)
			}
			if exists {
				t.Error("expected false on empty store")
			}
		}

		if _, err := s.Create(ctx, &NewContact{FirstName: "A", LastName: "B", PhoneNumber: "555-0101", Email: "a@x.com"}); err != nil {
			t.Fatalf("create: %v", err)
		}

		exists, err := s.EmailExists(ctx, "a@x.com")
		if err != nil || !exists {
			t.Errorf("EmailExists(a@x.com) = %v, %v; want true, nil", exists, err)
		}
		exists, err = s.PhoneExists(ctx, "555-0101")
		if err != nil || !exists {
			t.Errorf("PhoneExists(555-0101) = %v, %v; want true, nil", exists, err)
		}
	})

	t.Run("update overwrites fields and preserves created_at", func(t *testing.T) {
		s := newStore(t)
		created, err := s.Create(ctx, &NewContact{FirstName: "Jane", LastName: "Doe", PhoneNumber: "555-0100", Email: "jane@x.com"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		created.FirstName = "Janet"
		created.LastName = "Doette"
		created.PhoneNumber = "555-0199"
		created.Email = "janet@x.com"
		if err := s.Update(ctx, created); err != nil {
			t.Fatalf("update: %v", err)
		}

		got, err := s.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.FirstName != "Janet" || got.LastName != "Doette" ||
			got.PhoneNumber != "555-0199" || got.Email != "janet@x.com" {
			t.Errorf("update not reflected: got %+v", got)
		}
		if !got.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("created_at changed: %v != %v", got.CreatedAt, created.CreatedAt)
		}
	})

	t.Run("update of unknown id is a no-op success", func(t *testing.T) {
		s := newStore(t)
		err := s.Update(ctx, &Contact{ID: 999, FirstName: "X", LastName: "Y"})
		if err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		s := newStore(t)
		created, err := s.Create(ctx, &NewContact{FirstName: "Jane", LastName: "Doe", PhoneNumber: "555-0100", Email: "jane@x.com"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		if err := s.Delete(ctx, created.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := s.Get(ctx, created.ID); !errors.Is(err, ErrObjectNotFound) {
			t.Fatalf("expected ErrObjectNotFound after delete, got %v", err)
		}
		if err := s.Delete(ctx, created.ID); err != nil {
			t.Fatalf("second delete: %v", err)
		}
		if err := s.Delete(ctx, 424242); err != nil {
			t.Fatalf("delete of unknown id: %v", err)
		}
	})

	t.Run("list pages have no duplicates or gaps", func(t *testing.T) {
		s := newStore(t)
		seed(t, s, 6)

		page1, err := s.List(ctx, 1, 2)
		if err != nil {
			t.Fatalf("list page 1: %v", err)
		}
		page2, err := s.List(ctx, 2, 2)
		if err != nil {
			t.Fatalf("list page 2: %v", err)
		}
		wide, err := s.List(ctx, 1, 4)
		if err != nil {
			t.Fatalf("list wide: %v", err)
		}

		joined := append(append([]*Contact{}, page1...), page2...)
		if len(joined) != len(wide) {
			t.Fatalf("expected %d records, got %d", len(wide), len(joined))
		}
		for i := range joined {
			if joined[i].ID != wide[i].ID {
				t.Errorf("page concatenation mismatch at %d: %d != %d", i, joined[i].ID, wide[i].ID)
			}
		}
	})

	t.Run("list orders by ascending id", func(t *testing.T) {
		s := newStore(t)
		seed(t, s, 5)

		contacts, err := s.List(ctx, 1, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		for i := 1; i < len(contacts); i++ {
			if contacts[i-1].ID >= contacts[i].ID {
				t.Fatalf("not ascending: %d before %d", contacts[i-1].ID, contacts[i].ID)
			}
		}
	})

	t.Run("page below 1 is clamped", func(t *testing.T) {
		s := newStore(t)
		seed(t, s, 3)

		first, err := s.List(ctx, 1, 2)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		for _, page := range []int{0, -3} {
			got, err := s.List(ctx, page, 2)
			if err != nil {
				t.Fatalf("list page %d: %v", page, err)
			}
			if len(got) != len(first) || got[0].ID != first[0].ID {
				t.Errorf("page %d not clamped to page 1", page)
			}
		}
	})

	t.Run("empty search term matches everything", func(t *testing.T) {
		s := newStore(t)
		seed(t, s, 4)

		listed, err := s.List(ctx, 1, 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		searched, err := s.Search(ctx, "", 1, 10)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(searched) != len(listed) {
			t.Fatalf("search(\"\") returned %d records, list returned %d", len(searched), len(listed))
		}
		for i := range searched {
			if searched[i].ID != listed[i].ID {
				t.Errorf("order mismatch at %d", i)
			}
		}
	})

	t.Run("search matches name substrings case-insensitively", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Create(ctx, &NewContact{FirstName: "Jane", LastName: "Doe", PhoneNumber: "555-0100", Email: "jane@x.com"}); err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := s.Create(ctx, &NewContact{FirstName: "Bob", LastName: "Smith", PhoneNumber: "555-0101", Email: "bob@x.com"}); err != nil {
			t.Fatalf("create: %v", err)
		}

		for _, term := range []string{"Jane", "jane", "ANE", "Doe"} {
			got, err := s.Search(ctx, term, 1, 10)
			if err != nil {
				t.Fatalf("search %q: %v", term, err)
			}
			if len(got) != 1 || got[0].FirstName != "Jane" {
				t.Errorf("search %q: expected only Jane, got %d records", term, len(got))
			}
		}

		got, err := s.Search(ctx, "zzz", 1, 10)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no matches, got %d", len(got))
		}
	})

	t.Run("duplicate email and phone are rejected", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Create(ctx, &NewContact{FirstName: "Jane", LastName: "Doe", PhoneNumber: "555-0100", Email: "jane@x.com"}); err != nil {
			t.Fatalf("create: %v", err)
		}

		_, err := s.Create(ctx, &NewContact{FirstName: "Fake", LastName: "Jane", PhoneNumber: "555-0999", Email: "jane@x.com"})
		if !errors.Is(err, ErrDuplicateEmail) {
			t.Errorf("expected ErrDuplicateEmail, got %v", err)
		}
		_, err = s.Create(ctx, &NewContact{FirstName: "Fake", LastName: "Jane", PhoneNumber: "555-0100", Email: "other@x.com"})
		if !errors.Is(err, ErrDuplicatePhone) {
			t.Errorf("expected ErrDuplicatePhone, got %v", err)
		}

		other, err := s.Create(ctx, &NewContact{FirstName: "Bob", LastName: "Smith", PhoneNumber: "555-0101", Email: "bob@x.com"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		other.Email = "jane@x.com"
		if err := s.Update(ctx, other); !errors.Is(err, ErrDuplicateEmail) {
			t.Errorf("expected ErrDuplicateEmail on update, got %v", err)
		}
	})

	t.Run("empty email and phone never conflict", func(t *testing.T) {
		s := newStore(t)
		for i := 0; i < 2; i++ {
			_, err := s.Create(ctx, &NewContact{FirstName: "Nameless", LastName: "Person"})
			if err != nil {
				t.Fatalf("create %d with empty email/phone: %v", i, err)
			}
		}
	})

	t.Run("updating a contact with its own values is not a conflict", func(t *testing.T) {
		s := newStore(t)
		created, err := s.Create(ctx, &NewContact{FirstName: "Jane", LastName: "Doe", PhoneNumber: "555-0100", Email: "jane@x.com"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		created.LastName = "Doe-Smith"
		if err := s.Update(ctx, created); err != nil {
			t.Fatalf("update keeping email/phone: %v", err)
		}
	})
}
