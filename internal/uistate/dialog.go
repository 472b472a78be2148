// Package uistate tracks which interactive surface is currently open.
// At most one dialog can be open at a time; the state is a tagged
// variant so an impossible combination cannot be represented.
package uistate

import (
	"sync"

	"pricewatch/internal/domain"
)

// Dialog is one variant of the open-dialog state. Implementations are
// the only values a Store will hold.
type Dialog interface {
	dialog()
}

// DialogNone means no dialog is open.
type DialogNone struct{}

// DialogAddProduct is the new-product form.
type DialogAddProduct struct{}

// DialogEditProduct is the edit form for one product.
type DialogEditProduct struct {
	Product *domain.Product
}

// DialogConfirmDelete asks before removing a product.
type DialogConfirmDelete struct {
	ProductID string
	Name      string
}

// DialogAddRetailerLink is the new-link form within a product.
type DialogAddRetailerLink struct {
	ProductID string
}

// DialogBulkProgress shows a running bulk check.
type DialogBulkProgress struct {
	RunID   string
	Current int
	Total   int
}

// DialogVerification prompts the operator to resolve an anti-bot
// challenge in a browser.
type DialogVerification struct {
	URL    string
	Domain string
}

func (DialogNone) dialog()            {}
func (DialogAddProduct) dialog()      {}
func (DialogEditProduct) dialog()     {}
func (DialogConfirmDelete) dialog()   {}
func (DialogAddRetailerLink) dialog() {}
func (DialogBulkProgress) dialog()    {}
func (DialogVerification) dialog()    {}

// Store holds the current dialog. Opening a dialog replaces whatever
// was open before.
type Store struct {
	mu      sync.Mutex
	current Dialog
	watcher func(Dialog)
}

// NewStore creates a store with no dialog open.
func NewStore() *Store {
	return &Store{current: DialogNone{}}
}

// OnChange registers a single observer called on every transition,
// with the store unlocked.
func (s *Store) OnChange(fn func(Dialog)) {
	s.mu.Lock()
	s.watcher = fn
	s.mu.Unlock()
}

// Open replaces the current dialog.
func (s *Store) Open(d Dialog) {
	if d == nil {
		d = DialogNone{}
	}
	s.mu.Lock()
	s.current = d
	watcher := s.watcher
	s.mu.Unlock()

	if watcher != nil {
		watcher(d)
	}
}

// Close returns the store to the no-dialog state.
func (s *Store) Close() {
	s.Open(DialogNone{})
}

// Current returns the open dialog, DialogNone when nothing is open.
func (s *Store) Current() Dialog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// IsOpen reports whether any dialog is open.
func (s *Store) IsOpen() bool {
	_, none := s.Current().(DialogNone)
	return !none
}
