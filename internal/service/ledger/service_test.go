package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/joaofarias/doafacil/internal/domain/models"
	"github.com/joaofarias/doafacil/internal/repository/memory"
)

func shirt(entryID string, qty int) models.ItemEntry {
	return models.ItemEntry{
		EntryID:  entryID,
		Category: models.CategoryClothing,
		Name:     "T-shirt",
		Quantity: qty,
		Gender:   models.GenderUnisex,
		Size:     "M",
	}
}

func sneaker(entryID string, qty int) models.ItemEntry {
	return models.ItemEntry{
		EntryID:  entryID,
		Category: models.CategoryFootwear,
		Name:     "Sneaker",
		Quantity: qty,
		Gender:   models.GenderMale,
		ShoeSize: "42",
	}
}

var (
	shirtID   = shirt("x", 0).Identity()
	sneakerID = sneaker("x", 0).Identity()
)

func seed(t *testing.T, store *memory.ReceiptStore, receipts ...models.Receipt) {
	t.Helper()
	for _, receipt := range receipts {
		if _, err := store.Insert(context.Background(), receipt); err != nil {
			t.Fatalf("seed receipt %s: %v", receipt.ID, err)
		}
	}
}

func ownerTotal(t *testing.T, store *memory.ReceiptStore, ownerID string, identity models.ItemIdentity) int {
	t.Helper()
	receipts, err := store.ListByOwner(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("list receipts: %v", err)
	}
	total := 0
	for _, receipt := range receipts {
		for _, entry := range receipt.Items {
			if entry.Quantity < 0 {
				t.Fatalf("negative quantity persisted: %+v", entry)
			}
			if identity.Matches(entry) {
				total += entry.Quantity
			}
		}
	}
	return total
}

func TestWithdrawExactDrainDeletesReceipt(t *testing.T) {
	store := memory.NewReceiptStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	seed(t, store, models.Receipt{ID: "a", OwnerID: "u1", Items: []models.ItemEntry{shirt("1", 5)}})

	result, err := svc.Withdraw(ctx, "u1", shirtID, 5)
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if result.Status != WithdrawComplete || result.Removed != 5 || result.Shortfall != 0 {
		t.Errorf("unexpected result: %+v", result)
	}

	receipts, _ := store.ListByOwner(ctx, "u1")
	if len(receipts) != 0 {
		t.Errorf("emptied receipt must be deleted, still have %d", len(receipts))
	}
}

func TestWithdrawSpansMultipleReceipts(t *testing.T) {
	store := memory.NewReceiptStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	seed(t, store,
		models.Receipt{ID: "a", OwnerID: "u1", Items: []models.ItemEntry{shirt("1", 5)}},
		models.Receipt{ID: "b", OwnerID: "u1", Items: []models.ItemEntry{shirt("1", 3)}},
	)

	result, err := svc.Withdraw(ctx, "u1", shirtID, 6)
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if result.Status != WithdrawComplete {
		t.Errorf("expected complete, got %+v", result)
	}

	receipts, _ := store.ListByOwner(ctx, "u1")
	if len(receipts) != 1 || receipts[0].ID != "b" {
		t.Fatalf("expected only receipt b to survive, got %+v", receipts)
	}
	if got := ownerTotal(t, store, "u1", shirtID); got != 2 {
		t.Errorf("expected 2 remaining, got %d", got)
	}
}

func TestWithdrawOverdraftDrainsAndReportsShortfall(t *testing.T) {
	store := memory.NewReceiptStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	seed(t, store,
		models.Receipt{ID: "a", OwnerID: "u1", Items: []models.ItemEntry{shirt("1", 5)}},
		models.Receipt{ID: "b", OwnerID: "u1", Items: []models.ItemEntry{shirt("1", 3)}},
	)

	result, err := svc.Withdraw(ctx, "u1", shirtID, 100)
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if result.Status != WithdrawPartial || result.Shortfall != 92 || result.Removed != 8 {
		t.Errorf("unexpected result: %+v", result)
	}

	receipts, _ := store.ListByOwner(ctx, "u1")
	if len(receipts) != 0 {
		t.Errorf("expected all emptied receipts deleted, got %+v", receipts)
	}
}

func TestWithdrawDuplicateIdentityWithinOneReceipt(t *testing.T) {
	store := memory.NewReceiptStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	seed(t, store, models.Receipt{ID: "a", OwnerID: "u1", Items: []models.ItemEntry{
		sneaker("1", 2),
		sneaker("2", 3),
	}})

	result, err := svc.Withdraw(ctx, "u1", sneakerID, 4)
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if result.Status != WithdrawComplete {
		t.Errorf("expected complete, got %+v", result)
	}

	receipts, _ := store.ListByOwner(ctx, "u1")
	if len(receipts) != 1 {
		t.Fatalf("receipt must be retained, got %d receipts", len(receipts))
	}
	items := receipts[0].Items
	if len(items) != 1 || items[0].EntryID != "2" || items[0].Quantity != 1 {
		t.Errorf("expected only entry 2 with quantity 1, got %+v", items)
	}
}

func TestWithdrawRejectsNonPositiveQuantity(t *testing.T) {
	store := memory.NewReceiptStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	seed(t, store, models.Receipt{ID: "a", OwnerID: "u1", Items: []models.ItemEntry{shirt("1", 5)}})

	for _, qty := range []int{0, -3} {
		if _, err := svc.Withdraw(ctx, "u1", shirtID, qty); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("quantity %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}

	if got := ownerTotal(t, store, "u1", shirtID); got != 5 {
		t.Errorf("rejected withdrawal must not mutate stock, total %d", got)
	}
}

func TestWithdrawIdentityIsolation(t *testing.T) {
	store := memory.NewReceiptStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	seed(t, store, models.Receipt{ID: "a", OwnerID: "u1", Items: []models.ItemEntry{
		shirt("1", 5),
		sneaker("2", 4),
	}})

	if _, err := svc.Withdraw(ctx, "u1", shirtID, 5); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}

	if got := ownerTotal(t, store, "u1", sneakerID); got != 4 {
		t.Errorf("withdrawing shirts must not touch sneakers, total %d", got)
	}
}

func TestWithdrawScopedToOwner(t *testing.T) {
	store := memory.NewReceiptStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	seed(t, store,
		models.Receipt{ID: "a", OwnerID: "u1", Items: []models.ItemEntry{shirt("1", 5)}},
		models.Receipt{ID: "b", OwnerID: "u2", Items: []models.ItemEntry{shirt("1", 5)}},
	)

	result, err := svc.Withdraw(ctx, "u1", shirtID, 8)
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if result.Status != WithdrawPartial || result.Shortfall != 3 {
		t.Errorf("expected partial shortfall 3, got %+v", result)
	}
	if got := ownerTotal(t, store, "u2", shirtID); got != 5 {
		t.Errorf("another owner's stock must be untouched, total %d", got)
	}
}

func TestWithdrawConservation(t *testing.T) {
	store := memory.NewReceiptStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	if _, err := svc.Receive(ctx, "u1", "", []NewItem{
		{Category: models.CategoryClothing, Name: "T-shirt", Quantity: 5, Gender: models.GenderUnisex, Size: "M"},
	}); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if _, err := svc.Receive(ctx, "u1", "", []NewItem{
		{Category: models.CategoryClothing, Name: "T-shirt", Quantity: 3, Gender: models.GenderUnisex, Size: "M"},
	}); err != nil {
		t.Fatalf("Receive: %v", err)
	}

	total := 8
	for _, qty := range []int{2, 4, 1} {
		result, err := svc.Withdraw(ctx, "u1", shirtID, qty)
		if err != nil {
			t.Fatalf("Withdraw %d: %v", qty, err)
		}
		total -= result.Removed
		if got := ownerTotal(t, store, "u1", shirtID); got != total {
			t.Fatalf("conservation broken after withdrawing %d: have %d, want %d", qty, got, total)
		}
	}
}

func TestWithdrawShortfallIsIdempotent(t *testing.T) {
	store := memory.NewReceiptStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	seed(t, store, models.Receipt{ID: "a", OwnerID: "u1", Items: []models.ItemEntry{shirt("1", 7)}})

	result, err := svc.Withdraw(ctx, "u1", shirtID, 10)
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if result.Status != WithdrawPartial || result.Shortfall != 3 {
		t.Fatalf("expected shortfall 3, got %+v", result)
	}

	// Retrying the unsatisfied remainder re-reads fresh state and must not
	// conjure stock out of nothing.
	retry, err := svc.Withdraw(ctx, "u1", shirtID, 3)
	if err != nil {
		t.Fatalf("retry Withdraw: %v", err)
	}
	if retry.Status != WithdrawPartial || retry.Shortfall != 3 || retry.Removed != 0 {
		t.Errorf("expected the same shortfall again, got %+v", retry)
	}
}

func TestWithdrawAbortsOnStoreFailureMidLoop(t *testing.T) {
	store := memory.NewReceiptStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	seed(t, store,
		models.Receipt{ID: "a", OwnerID: "u1", Items: []models.ItemEntry{shirt("1", 5), sneaker("2", 1)}},
		models.Receipt{ID: "b", OwnerID: "u1", Items: []models.ItemEntry{shirt("1", 5)}},
	)

	// First receipt update succeeds, second fails.
	store.ReplaceErr = errors.New("store down")
	store.ReplaceErrAfter = 1

	result, err := svc.Withdraw(ctx, "u1", shirtID, 8)
	if err == nil {
		t.Fatal("expected store failure to surface")
	}
	if result.Removed != 5 {
		t.Errorf("only the committed mutation counts as removed, got %+v", result)
	}

	// The committed mutation stays committed, the failed one is untouched.
	if got := ownerTotal(t, store, "u1", shirtID); got != 5 {
		t.Errorf("expected 5 shirts left after aborted withdrawal, got %d", got)
	}
}

func TestReceiveAssignsEntryIDsAndValidates(t *testing.T) {
	store := memory.NewReceiptStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	receipt, err := svc.Receive(ctx, "u1", "cp-1", []NewItem{
		{Category: models.CategoryClothing, Name: "Coat", Quantity: 2, Gender: models.GenderFemale, Size: "G"},
		{Category: models.CategoryFootwear, Name: "Boot", Quantity: 1, Gender: models.GenderMale, ShoeSize: "41"},
	})
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}

	if receipt.CollectionPointID != "cp-1" {
		t.Errorf("expected collection point to be kept, got %q", receipt.CollectionPointID)
	}
	if len(receipt.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(receipt.Items))
	}
	if receipt.Items[0].EntryID == "" || receipt.Items[0].EntryID == receipt.Items[1].EntryID {
		t.Errorf("entry ids must be unique and non-empty: %+v", receipt.Items)
	}

	if _, err := svc.Receive(ctx, "u1", "", []NewItem{
		{Category: models.CategoryClothing, Name: "Coat", Quantity: 0, Gender: models.GenderFemale, Size: "G"},
	}); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("zero intake quantity: expected ErrInvalidQuantity, got %v", err)
	}

	if _, err := svc.Receive(ctx, "u1", "", []NewItem{
		{Category: models.CategoryFootwear, Name: "Boot", Quantity: 1, Gender: models.GenderMale},
	}); !errors.Is(err, models.ErrInvalidEntry) {
		t.Errorf("footwear without shoe size: expected ErrInvalidEntry, got %v", err)
	}
}

func TestEditEntryReplacesFieldsInPlace(t *testing.T) {
	store := memory.NewReceiptStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	seed(t, store,
		models.Receipt{ID: "a", OwnerID: "u1", Items: []models.ItemEntry{shirt("1", 5), sneaker("2", 2)}},
		models.Receipt{ID: "b", OwnerID: "u1", Items: []models.ItemEntry{shirt("1", 3)}},
	)

	updated, err := svc.EditEntry(ctx, "u1", "a", "1", EntryUpdate{
		Category: models.CategoryClothing,
		Name:     "Polo shirt",
		Quantity: 4,
		Gender:   models.GenderMale,
		Size:     "G",
		// Stale shoe size from a category switch must be dropped.
		ShoeSize: "40",
	})
	if err != nil {
		t.Fatalf("EditEntry: %v", err)
	}

	var edited models.ItemEntry
	for _, entry := range updated.Items {
		if entry.EntryID == "1" {
			edited = entry
		}
	}
	if edited.Name != "Polo shirt" || edited.Quantity != 4 || edited.Size != "G" || edited.ShoeSize != "" {
		t.Errorf("unexpected edited entry: %+v", edited)
	}

	// A direct edit never reconciles against other receipts.
	if got := ownerTotal(t, store, "u1", shirtID); got != 3 {
		t.Errorf("receipt b must be untouched by the edit, shirt total %d", got)
	}

	if _, err := svc.EditEntry(ctx, "u1", "a", "missing", EntryUpdate{
		Category: models.CategoryClothing, Name: "Coat", Quantity: 1, Gender: models.GenderMale, Size: "M",
	}); !errors.Is(err, models.ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}

	if _, err := svc.EditEntry(ctx, "u2", "a", "1", EntryUpdate{
		Category: models.CategoryClothing, Name: "Coat", Quantity: 1, Gender: models.GenderMale, Size: "M",
	}); !errors.Is(err, models.ErrReceiptNotFound) {
		t.Errorf("foreign owner must see not-found, got %v", err)
	}
}

func TestDeleteReceiptScopedToOwner(t *testing.T) {
	store := memory.NewReceiptStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	seed(t, store, models.Receipt{ID: "a", OwnerID: "u1", Items: []models.ItemEntry{shirt("1", 5)}})

	if err := svc.DeleteReceipt(ctx, "u2", "a"); !errors.Is(err, models.ErrReceiptNotFound) {
		t.Errorf("foreign owner must see not-found, got %v", err)
	}

	if err := svc.DeleteReceipt(ctx, "u1", "a"); err != nil {
		t.Fatalf("DeleteReceipt: %v", err)
	}

	receipts, _ := store.ListByOwner(ctx, "u1")
	if len(receipts) != 0 {
		t.Errorf("expected receipt deleted, got %+v", receipts)
	}
}
