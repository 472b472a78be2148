package uistate

import (
	"testing"

	"pricewatch/internal/domain"
)

func TestStoreStartsClosed(t *testing.T) {
	s := NewStore()
	if s.IsOpen() {
		t.Fatal("new store should have no dialog open")
	}
	if _, ok := s.Current().(DialogNone); !ok {
		t.Fatalf("Current() = %T, want DialogNone", s.Current())
	}
}

func TestOpenReplacesCurrentDialog(t *testing.T) {
	s := NewStore()

	s.Open(DialogAddProduct{})
	if _, ok := s.Current().(DialogAddProduct); !ok {
		t.Fatalf("Current() = %T, want DialogAddProduct", s.Current())
	}

	// A second dialog displaces the first; two cannot be open at once.
	s.Open(DialogConfirmDelete{ProductID: "p1", Name: "Camera"})
	d, ok := s.Current().(DialogConfirmDelete)
	if !ok {
		t.Fatalf("Current() = %T, want DialogConfirmDelete", s.Current())
	}
	if d.ProductID != "p1" || d.Name != "Camera" {
		t.Errorf("payload = %+v", d)
	}
}

func TestVariantPayloads(t *testing.T) {
	s := NewStore()

	p := &domain.Product{ID: "p1", Name: "Camera"}
	s.Open(DialogEditProduct{Product: p})
	if got := s.Current().(DialogEditProduct); got.Product != p {
		t.Error("edit dialog should carry the product it was opened with")
	}

	s.Open(DialogVerification{URL: "https://shop.example/x", Domain: "shop.example"})
	if got := s.Current().(DialogVerification); got.Domain != "shop.example" {
		t.Errorf("Domain = %q", got.Domain)
	}
}

func TestCloseReturnsToNone(t *testing.T) {
	s := NewStore()
	s.Open(DialogBulkProgress{RunID: "r1", Current: 1, Total: 3})
	s.Close()
	if s.IsOpen() {
		t.Fatal("Close() should leave no dialog open")
	}
}

func TestOpenNilMeansNone(t *testing.T) {
	s := NewStore()
	s.Open(DialogAddProduct{})
	s.Open(nil)
	if s.IsOpen() {
		t.Fatal("Open(nil) should close the dialog")
	}
}

func TestOnChangeObservesTransitions(t *testing.T) {
	s := NewStore()

	var seen []Dialog
	s.OnChange(func(d Dialog) { seen = append(seen, d) })

	s.Open(DialogAddProduct{})
	s.Close()

	if len(seen) != 2 {
		t.Fatalf("observer saw %d transitions, want 2", len(seen))
	}
	if _, ok := seen[0].(DialogAddProduct); !ok {
		t.Errorf("first transition = %T", seen[0])
	}
	if _, ok := seen[1].(DialogNone); !ok {
		t.Errorf("second transition = %T", seen[1])
	}
}
