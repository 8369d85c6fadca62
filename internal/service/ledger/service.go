package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joaofarias/doafacil/internal/domain/models"
)

// ErrInvalidQuantity indicates a withdrawal or intake quantity that is not a
// positive integer. Rejected before any mutation.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// ReceiptStore is the document-store capability the ledger mutates. The
// reconciliation loop is the only code path that bulk-decrements quantities
// across receipts.
type ReceiptStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Receipt, error)
	Get(ctx context.Context, receiptID string) (models.Receipt, error)
	Insert(ctx context.Context, receipt models.Receipt) (models.Receipt, error)
	ReplaceItems(ctx context.Context, receiptID string, items []models.ItemEntry) error
	Delete(ctx context.Context, receiptID string) error
}

// WithdrawStatus reports how much of a withdrawal could be satisfied.
type WithdrawStatus string

const (
	// WithdrawComplete means the full requested quantity was removed.
	WithdrawComplete WithdrawStatus = "complete"
	// WithdrawPartial means stock ran out before the request was satisfied.
	// Whatever was already decremented stays decremented; re-invoking for the
	// shortfall is safe because every withdrawal re-reads fresh state.
	WithdrawPartial WithdrawStatus = "partial"
)

// WithdrawResult summarizes one reconciliation pass.
type WithdrawResult struct {
	Status    WithdrawStatus `json:"status"`
	Requested int            `json:"requested"`
	Removed   int            `json:"removed"`
	Shortfall int            `json:"shortfall"`
}

// NewItem is one line of a finalized intake form.
type NewItem struct {
	Category models.Category `json:"category"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Gender   models.Gender   `json:"gender"`
	Size     string          `json:"size"`
	ShoeSize string          `json:"shoeSize"`
}

// EntryUpdate carries the replacement fields for a direct line-entry edit.
type EntryUpdate struct {
	Category models.Category `json:"category"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Gender   models.Gender   `json:"gender"`
	Size     string          `json:"size"`
	ShoeSize string          `json:"shoeSize"`
}

// Service is the donation ledger: receipt intake plus the reconciliation
// engine that satisfies withdrawals across receipts.
type Service struct {
	store  ReceiptStore
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a ledger service instance.
func NewService(store ReceiptStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Receive persists one receipt for a finalized intake session. Entry ids are
// assigned here, once, and never reused.
func (s *Service) Receive(ctx context.Context, ownerID, collectionPointID string, items []NewItem) (models.Receipt, error) {
	if len(items) == 0 {
		return models.Receipt{}, fmt.Errorf("%w: intake needs at least one item", models.ErrInvalidEntry)
	}

	receipt := models.Receipt{
		OwnerID:           ownerID,
		CollectionPointID: collectionPointID,
		ReceivedAt:        s.now().UTC(),
		Items:             make([]models.ItemEntry, 0, len(items)),
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			return models.Receipt{}, ErrInvalidQuantity
		}
		entry := models.ItemEntry{
			EntryID:  uuid.NewString(),
			Category: item.Category,
			Name:     item.Name,
			Quantity: item.Quantity,
			Gender:   item.Gender,
			Size:     item.Size,
			ShoeSize: item.ShoeSize,
		}
		normalizeSizes(&entry)
		if err := entry.Validate(); err != nil {
			return models.Receipt{}, err
		}
		receipt.Items = append(receipt.Items, entry)
	}

	stored, err := s.store.Insert(ctx, receipt)
	if err != nil {
		return models.Receipt{}, err
	}

	s.logger.Info("receipt stored",
		zap.String("owner_id", ownerID),
		zap.String("receipt_id", stored.ID),
		zap.Int("items", len(stored.Items)))
	return stored, nil
}

// Withdraw removes the requested quantity of one stock-keeping unit,
// decrementing and pruning the minimal set of receipts needed. It reads
// fresh state rather than any cached view, so acting on stale quantities is
// impossible within a single session.
//
// When the request exceeds what is actually available, the stock is drained
// and the remainder reported as a shortfall rather than rolled back: records
// are mutated one by one with no cross-record transaction, and compensating
// re-inserts would re-introduce removed stock inconsistently. Concurrent
// withdrawals from two sessions can therefore over-withdraw; see DESIGN.md.
func (s *Service) Withdraw(ctx context.Context, ownerID string, identity models.ItemIdentity, quantity int) (WithdrawResult, error) {
	if quantity <= 0 {
		return WithdrawResult{}, ErrInvalidQuantity
	}

	receipts, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return WithdrawResult{}, fmt.Errorf("withdraw %q: %w", identity.Name, err)
	}

	remaining := quantity

	for _, receipt := range receipts {
		if remaining == 0 {
			break
		}

		// Only mutations persisted so far count as removed if the loop has to
		// abort on a store failure for this receipt.
		committed := remaining

		items := append([]models.ItemEntry(nil), receipt.Items...)
		dirty := false

		for i := range items {
			if !identity.Matches(items[i]) || items[i].Quantity <= 0 {
				continue
			}

			available := items[i].Quantity
			if available >= remaining {
				items[i].Quantity = available - remaining
				remaining = 0
				dirty = true
				break
			}

			items[i].Quantity = 0
			remaining -= available
			dirty = true
		}

		if !dirty {
			continue
		}

		kept := items[:0]
		for _, entry := range items {
			if entry.Quantity > 0 {
				kept = append(kept, entry)
			}
		}

		if len(kept) == 0 {
			// An emptied receipt must not survive as an empty shell.
			if err := s.store.Delete(ctx, receipt.ID); err != nil {
				return s.abortedResult(quantity, committed), fmt.Errorf("delete emptied receipt %s: %w", receipt.ID, err)
			}
			continue
		}

		if err := s.store.ReplaceItems(ctx, receipt.ID, kept); err != nil {
			return s.abortedResult(quantity, committed), fmt.Errorf("update receipt %s: %w", receipt.ID, err)
		}
	}

	result := WithdrawResult{
		Requested: quantity,
		Removed:   quantity - remaining,
		Shortfall: remaining,
		Status:    WithdrawComplete,
	}
	if remaining > 0 {
		result.Status = WithdrawPartial
	}

	s.logger.Info("withdrawal reconciled",
		zap.String("owner_id", ownerID),
		zap.String("item", identity.Name),
		zap.Int("requested", quantity),
		zap.Int("removed", result.Removed),
		zap.Int("shortfall", result.Shortfall))
	return result, nil
}

// EditEntry replaces the descriptive fields (and quantity) of a single
// line-entry inside its owning receipt. This is a direct field replacement,
// never routed through the withdrawal loop.
func (s *Service) EditEntry(ctx context.Context, ownerID, receiptID, entryID string, update EntryUpdate) (models.Receipt, error) {
	receipt, err := s.getOwned(ctx, ownerID, receiptID)
	if err != nil {
		return models.Receipt{}, err
	}

	if update.Quantity <= 0 {
		return models.Receipt{}, ErrInvalidQuantity
	}

	found := false
	items := append([]models.ItemEntry(nil), receipt.Items...)
	for i := range items {
		if items[i].EntryID != entryID {
			continue
		}

		entry := models.ItemEntry{
			EntryID:  entryID,
			Category: update.Category,
			Name:     update.Name,
			Quantity: update.Quantity,
			Gender:   update.Gender,
			Size:     update.Size,
			ShoeSize: update.ShoeSize,
		}
		normalizeSizes(&entry)
		if err := entry.Validate(); err != nil {
			return models.Receipt{}, err
		}

		items[i] = entry
		found = true
		break
	}

	if !found {
		return models.Receipt{}, models.ErrEntryNotFound
	}

	if err := s.store.ReplaceItems(ctx, receiptID, items); err != nil {
		return models.Receipt{}, err
	}

	receipt.Items = items
	return receipt, nil
}

// Receipts lists the owner's receipts.
func (s *Service) Receipts(ctx context.Context, ownerID string) ([]models.Receipt, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// Receipt fetches one receipt, scoped to its owner.
func (s *Service) Receipt(ctx context.Context, ownerID, receiptID string) (models.Receipt, error) {
	return s.getOwned(ctx, ownerID, receiptID)
}

// DeleteReceipt removes an entire receipt and everything it still holds.
func (s *Service) DeleteReceipt(ctx context.Context, ownerID, receiptID string) error {
	if _, err := s.getOwned(ctx, ownerID, receiptID); err != nil {
		return err
	}
	return s.store.Delete(ctx, receiptID)
}

func (s *Service) getOwned(ctx context.Context, ownerID, receiptID string) (models.Receipt, error) {
	receipt, err := s.store.Get(ctx, receiptID)
	if err != nil {
		return models.Receipt{}, err
	}
	// Records are scoped by owning user; a foreign receipt looks absent.
	if receipt.OwnerID != ownerID {
		return models.Receipt{}, models.ErrReceiptNotFound
	}
	return receipt, nil
}

func (s *Service) abortedResult(requested, remaining int) WithdrawResult {
	return WithdrawResult{
		Status:    WithdrawPartial,
		Requested: requested,
		Removed:   requested - remaining,
		Shortfall: remaining,
	}
}

// normalizeSizes clears whichever size field the category does not use, so a
// form that switched category cannot leave a stale value behind.
func normalizeSizes(entry *models.ItemEntry) {
	if entry.Category == models.CategoryFootwear {
		entry.Size = ""
	} else {
		entry.ShoeSize = ""
	}
}
