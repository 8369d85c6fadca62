package stock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/joaofarias/doafacil/internal/domain/models"
)

func clothing(entryID, name string, qty int) models.ItemEntry {
	return models.ItemEntry{
		EntryID:  entryID,
		Category: models.CategoryClothing,
		Name:     name,
		Quantity: qty,
		Gender:   models.GenderUnisex,
		Size:     "M",
	}
}

func TestAggregateKeysByReceiptAndEntry(t *testing.T) {
	receipts := []models.Receipt{
		{ID: "a", OwnerID: "u1", Items: []models.ItemEntry{clothing("1", "T-shirt", 5)}},
		{ID: "b", OwnerID: "u1", Items: []models.ItemEntry{clothing("1", "T-shirt", 3), clothing("2", "Coat", 1)}},
	}

	view := Aggregate("u1", receipts)
	if len(view.Entries) != 3 {
		t.Fatalf("expected 3 stock entries, got %d", len(view.Entries))
	}

	shirt := receipts[0].Items[0].Identity()
	if got := view.Total(shirt); got != 8 {
		t.Errorf("expected shirt total 8, got %d", got)
	}
}

func TestAggregateSkipsEmptyNames(t *testing.T) {
	receipts := []models.Receipt{
		{ID: "a", OwnerID: "u1", Items: []models.ItemEntry{
			clothing("1", "T-shirt", 5),
			clothing("2", "   ", 4),
		}},
	}

	view := Aggregate("u1", receipts)
	if len(view.Entries) != 1 {
		t.Fatalf("expected 1 stock entry, got %d", len(view.Entries))
	}
}

func TestAggregateAccumulatesDuplicateEntryIDs(t *testing.T) {
	// Entry ids are assigned once per intake, but the fold must tolerate a
	// receipt that carries the same id twice.
	receipts := []models.Receipt{
		{ID: "a", OwnerID: "u1", Items: []models.ItemEntry{
			clothing("1", "T-shirt", 5),
			clothing("1", "T-shirt", 2),
		}},
	}

	view := Aggregate("u1", receipts)
	if len(view.Entries) != 1 {
		t.Fatalf("expected duplicate ids folded into 1 entry, got %d", len(view.Entries))
	}
	if view.Entries[0].Quantity != 7 {
		t.Errorf("expected accumulated quantity 7, got %d", view.Entries[0].Quantity)
	}
}

// fakeSource is a controllable ReceiptSource for the live-view tests.
type fakeSource struct {
	mu            sync.Mutex
	receipts      []models.Receipt
	listErr       error
	watchErr      error
	notifications chan struct{}
}

func (f *fakeSource) ListByOwner(ctx context.Context, ownerID string) ([]models.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Receipt(nil), f.receipts...), nil
}

func (f *fakeSource) Watch(ctx context.Context, ownerID string) (<-chan struct{}, error) {
	if f.watchErr != nil {
		return nil, f.watchErr
	}
	return f.notifications, nil
}

func (f *fakeSource) set(receipts []models.Receipt, listErr error) {
	f.mu.Lock()
	f.receipts = receipts
	f.listErr = listErr
	f.mu.Unlock()
}

func TestStockViewKeepsLastKnownGoodOnFailure(t *testing.T) {
	source := &fakeSource{
		receipts: []models.Receipt{{ID: "a", OwnerID: "u1", Items: []models.ItemEntry{clothing("1", "T-shirt", 5)}}},
		watchErr: errors.New("change streams unavailable"),
	}
	svc := NewService(source, nil)
	defer svc.Close()
	ctx := context.Background()

	view, err := svc.StockView(ctx, "u1")
	if err != nil {
		t.Fatalf("StockView: %v", err)
	}
	if len(view.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(view.Entries))
	}

	source.set(nil, errors.New("store down"))

	view, err = svc.StockView(ctx, "u1")
	if err == nil {
		t.Fatal("expected error when the store is down")
	}
	if len(view.Entries) != 1 || view.Entries[0].Quantity != 5 {
		t.Errorf("expected last-known-good view to survive, got %+v", view.Entries)
	}
}

func TestStockViewRecomputesOnPush(t *testing.T) {
	source := &fakeSource{
		receipts:      []models.Receipt{{ID: "a", OwnerID: "u1", Items: []models.ItemEntry{clothing("1", "T-shirt", 5)}}},
		notifications: make(chan struct{}, 1),
	}
	svc := NewService(source, nil)
	defer svc.Close()
	ctx := context.Background()

	view, err := svc.StockView(ctx, "u1")
	if err != nil {
		t.Fatalf("StockView: %v", err)
	}
	shirt := view.Entries[0].Identity

	source.set([]models.Receipt{{ID: "a", OwnerID: "u1", Items: []models.ItemEntry{clothing("1", "T-shirt", 2)}}}, nil)
	source.notifications <- struct{}{}

	deadline := time.Now().Add(2 * time.Second)
	for {
		view, err = svc.StockView(ctx, "u1")
		if err != nil {
			t.Fatalf("StockView: %v", err)
		}
		if view.Total(shirt) == 2 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("view never caught up with the push, total still %d", view.Total(shirt))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStockViewResubscribesAfterSubscriptionDies(t *testing.T) {
	notifications := make(chan struct{})
	source := &fakeSource{
		receipts:      []models.Receipt{{ID: "a", OwnerID: "u1", Items: []models.ItemEntry{clothing("1", "T-shirt", 5)}}},
		notifications: notifications,
	}
	svc := NewService(source, nil)
	defer svc.Close()
	ctx := context.Background()

	view, err := svc.StockView(ctx, "u1")
	if err != nil {
		t.Fatalf("StockView: %v", err)
	}
	shirt := view.Entries[0].Identity

	// The subscription dies and the stock changes while nobody is listening.
	// Later reads must not keep serving the pre-death snapshot.
	close(notifications)
	source.set([]models.Receipt{{ID: "a", OwnerID: "u1", Items: []models.ItemEntry{clothing("1", "T-shirt", 2)}}}, nil)

	deadline := time.Now().Add(2 * time.Second)
	for {
		view, err = svc.StockView(ctx, "u1")
		if err != nil {
			t.Fatalf("StockView: %v", err)
		}
		if view.Total(shirt) == 2 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("stale view survived subscription death, total still %d", view.Total(shirt))
		}
		time.Sleep(10 * time.Millisecond)
	}
}
