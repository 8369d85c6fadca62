package stock

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/joaofarias/doafacil/internal/domain/models"
)

// ReceiptSource is the slice of the document store the aggregator consumes:
// a scoped read plus a push-based subscription that fires whenever the
// owner's result set may have changed.
type ReceiptSource interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Receipt, error)
	Watch(ctx context.Context, ownerID string) (<-chan struct{}, error)
}

// Aggregate folds a set of receipts into a stock view: one entry per
// (receiptId, entryId) pair, labeled by item identity. Entries with an empty
// name are skipped. Entry ids are assigned once per intake and never reused,
// so each key normally occurs once; the accumulation tolerates a receipt
// carrying duplicate entry ids anyway.
func Aggregate(ownerID string, receipts []models.Receipt) models.StockView {
	type entryKey struct {
		receiptID string
		entryID   string
	}

	view := models.StockView{OwnerID: ownerID}
	index := make(map[entryKey]int)

	for _, receipt := range receipts {
		for _, entry := range receipt.Items {
			if strings.TrimSpace(entry.Name) == "" {
				continue
			}

			key := entryKey{receiptID: receipt.ID, entryID: entry.EntryID}
			if i, seen := index[key]; seen {
				view.Entries[i].Quantity += entry.Quantity
				continue
			}

			index[key] = len(view.Entries)
			view.Entries = append(view.Entries, models.StockEntry{
				ReceiptID: receipt.ID,
				EntryID:   entry.EntryID,
				Identity:  entry.Identity(),
				Quantity:  entry.Quantity,
			})
		}
	}

	return view
}

// Service keeps a live stock view per owner, recomputed on every store push.
// Writers never publish views themselves; the subscription drives all
// recomputation, decoupled from the reconciliation write path.
type Service struct {
	source ReceiptSource
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	views    map[string]models.StockView
	watching map[string]bool
}

// NewService wires a new aggregator service instance.
func NewService(source ReceiptSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		source:   source,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		views:    make(map[string]models.StockView),
		watching: make(map[string]bool),
	}
}

// StockView returns the owner's current stock view, starting the live
// subscription on first use. When the underlying read fails, the last known
// view stays in place and the error is surfaced to the caller.
func (s *Service) StockView(ctx context.Context, ownerID string) (models.StockView, error) {
	started, watchErr := s.ensureWatcher(ownerID)
	if watchErr != nil {
		s.logger.Warn("subscription unavailable, serving one-shot reads", zap.String("owner_id", ownerID), zap.Error(watchErr))
	}

	s.mu.RLock()
	last, cached := s.views[ownerID]
	s.mu.RUnlock()

	// With a live subscription the cached snapshot is already current. A
	// freshly started subscription may have missed pushes, so read through
	// once; likewise when there is no snapshot yet or no subscription.
	if cached && watchErr == nil && !started {
		return last, nil
	}

	view, err := s.refresh(ctx, ownerID)
	if err != nil {
		if cached {
			return last, err
		}
		return models.StockView{OwnerID: ownerID}, err
	}
	return view, nil
}

// Close stops every owner subscription.
func (s *Service) Close() {
	s.cancel()
}

// ensureWatcher subscribes the owner on first use. It reports whether this
// call started a new subscription, in which case the cached view may predate
// pushes delivered while nobody was listening.
func (s *Service) ensureWatcher(ownerID string) (bool, error) {
	s.mu.Lock()
	if s.watching[ownerID] {
		s.mu.Unlock()
		return false, nil
	}
	s.watching[ownerID] = true
	s.mu.Unlock()

	notifications, err := s.source.Watch(s.ctx, ownerID)
	if err != nil {
		s.mu.Lock()
		delete(s.watching, ownerID)
		s.mu.Unlock()
		return false, err
	}

	go func() {
		for range notifications {
			if _, err := s.refresh(s.ctx, ownerID); err != nil {
				s.logger.Warn("stock recomputation failed, keeping last view",
					zap.String("owner_id", ownerID), zap.Error(err))
			}
		}
		// A closed channel means the subscription died. Unregister so the
		// next read re-subscribes instead of trusting the cache forever.
		s.mu.Lock()
		delete(s.watching, ownerID)
		s.mu.Unlock()
		s.logger.Warn("stock subscription ended", zap.String("owner_id", ownerID))
	}()

	return true, nil
}

func (s *Service) refresh(ctx context.Context, ownerID string) (models.StockView, error) {
	receipts, err := s.source.ListByOwner(ctx, ownerID)
	if err != nil {
		return models.StockView{}, err
	}

	view := Aggregate(ownerID, receipts)

	s.mu.Lock()
	s.views[ownerID] = view
	s.mu.Unlock()

	return view, nil
}
