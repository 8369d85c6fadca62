// Package memory provides an in-memory receipt store with the same contract
// as the MongoDB repository. It backs the service tests and any environment
// where a real document store is unavailable.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/joaofarias/doafacil/internal/domain/models"
)

// ReceiptStore is a mutex-guarded, map-backed receipt store. Iteration order
// is insertion order, giving the deterministic record ordering the
// reconciliation loop relies on.
type ReceiptStore struct {
	mu       sync.Mutex
	receipts map[string]models.Receipt
	order    []string
	watchers []chan struct{}

	// Failure injection used by tests to model store outages. A zero value
	// means the operation succeeds.
	ListErr         error
	InsertErr       error
	ReplaceErr      error
	DeleteErr       error
	ReplaceErrAfter int // number of successful ReplaceItems calls before ReplaceErr fires

	replaceCalls int
}

// NewReceiptStore builds an empty store.
func NewReceiptStore() *ReceiptStore {
	return &ReceiptStore{receipts: make(map[string]models.Receipt)}
}

// ListByOwner returns the owner's receipts in insertion order.
func (s *ReceiptStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ListErr != nil {
		return nil, s.ListErr
	}

	var receipts []models.Receipt
	for _, id := range s.order {
		receipt := s.receipts[id]
		if receipt.OwnerID == ownerID {
			receipts = append(receipts, cloneReceipt(receipt))
		}
	}
	return receipts, nil
}

// Get fetches one receipt by id.
func (s *ReceiptStore) Get(ctx context.Context, receiptID string) (models.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	receipt, ok := s.receipts[receiptID]
	if !ok {
		return models.Receipt{}, models.ErrReceiptNotFound
	}
	return cloneReceipt(receipt), nil
}

// Insert stores a new receipt and returns it with the assigned id.
func (s *ReceiptStore) Insert(ctx context.Context, receipt models.Receipt) (models.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.InsertErr != nil {
		return models.Receipt{}, s.InsertErr
	}

	if receipt.ID == "" {
		receipt.ID = uuid.NewString()
	}
	s.receipts[receipt.ID] = cloneReceipt(receipt)
	s.order = append(s.order, receipt.ID)
	s.notifyLocked()
	return receipt, nil
}

// ReplaceItems overwrites the items array of a receipt.
func (s *ReceiptStore) ReplaceItems(ctx context.Context, receiptID string, items []models.ItemEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ReplaceErr != nil && s.replaceCalls >= s.ReplaceErrAfter {
		return s.ReplaceErr
	}
	s.replaceCalls++

	receipt, ok := s.receipts[receiptID]
	if !ok {
		return models.ErrReceiptNotFound
	}
	receipt.Items = append([]models.ItemEntry(nil), items...)
	s.receipts[receiptID] = receipt
	s.notifyLocked()
	return nil
}

// Delete removes a receipt entirely.
func (s *ReceiptStore) Delete(ctx context.Context, receiptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.DeleteErr != nil {
		return s.DeleteErr
	}

	if _, ok := s.receipts[receiptID]; !ok {
		return models.ErrReceiptNotFound
	}
	delete(s.receipts, receiptID)
	for i, id := range s.order {
		if id == receiptID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.notifyLocked()
	return nil
}

// Watch delivers one notification per mutation until the context is done.
func (s *ReceiptStore) Watch(ctx context.Context, ownerID string) (<-chan struct{}, error) {
	s.mu.Lock()
	watcher := make(chan struct{}, 1)
	s.watchers = append(s.watchers, watcher)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		for i, w := range s.watchers {
			if w == watcher {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		close(watcher)
	}()

	return watcher, nil
}

func (s *ReceiptStore) notifyLocked() {
	for _, watcher := range s.watchers {
		select {
		case watcher <- struct{}{}:
		default:
		}
	}
}

func cloneReceipt(receipt models.Receipt) models.Receipt {
	receipt.Items = append([]models.ItemEntry(nil), receipt.Items...)
	return receipt
}
