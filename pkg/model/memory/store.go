package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-xmlform/pkg/model"
)

// Store holds forms by id. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	forms map[string]*Form
}

var _ model.Store = (*Store)(nil)

// NewStore returns a store seeded with forms.
func NewStore(forms ...*Form) (*Store, error) {
	store := &Store{forms: make(map[string]*Form, len(forms))}
	for _, form := range forms {
		if err := store.Register(form); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// Register adds a form. Duplicate ids return an error.
func (s *Store) Register(form *Form) error {
	if form == nil {
		return fmt.Errorf("memory: form is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.forms == nil {
		s.forms = make(map[string]*Form)
	}
	if _, exists := s.forms[form.ID()]; exists {
		return fmt.Errorf("memory: form %q already registered", form.ID())
	}
	s.forms[form.ID()] = form
	return nil
}

// MustRegister panics on registration failure. Useful for test wiring.
func (s *Store) MustRegister(form *Form) {
	if err := s.Register(form); err != nil {
		panic(err)
	}
}

// LookupForm implements model.Store.
func (s *Store) LookupForm(ctx context.Context, id string) (model.Form, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	form, ok := s.Form(id)
	if !ok {
		return nil, fmt.Errorf("memory: form %q: %w", id, model.ErrFormNotFound)
	}
	return form, nil
}

// Form returns the concrete form for id.
func (s *Store) Form(id string) (*Form, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	form, ok := s.forms[id]
	return form, ok
}

// IDs returns the registered form ids in sorted order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
