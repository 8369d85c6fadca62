package transfer

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/joaofarias/doafacil/internal/domain/models"
	"github.com/joaofarias/doafacil/internal/service/ledger"
)

// ErrNoItems indicates a donation request without any item lines.
var ErrNoItems = errors.New("donation needs at least one item")

// Engine is the reconciliation capability the recorder drives.
type Engine interface {
	Withdraw(ctx context.Context, ownerID string, identity models.ItemIdentity, quantity int) (ledger.WithdrawResult, error)
}

// TransferStore is the append-only history collection.
type TransferStore interface {
	Insert(ctx context.Context, transfer models.RealizedTransfer) (models.RealizedTransfer, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.RealizedTransfer, error)
}

// ItemRequest is one item line of an outbound donation.
type ItemRequest struct {
	Identity models.ItemIdentity `json:"identity"`
	Quantity int                 `json:"quantity"`
}

// ItemOutcome reports what actually happened to one requested item.
type ItemOutcome struct {
	Identity    models.ItemIdentity   `json:"identity"`
	Requested   int                   `json:"requested"`
	Transferred int                   `json:"transferred"`
	Shortfall   int                   `json:"shortfall"`
	Status      ledger.WithdrawStatus `json:"status"`
}

// DonationResult is the full outcome of an outbound donation.
type DonationResult struct {
	Transfer *models.RealizedTransfer `json:"transfer,omitempty"`
	Outcomes []ItemOutcome            `json:"outcomes"`
}

// Service performs outbound donations: it drives the reconciliation engine
// and appends one realized-transfer record per successful donation.
type Service struct {
	engine Engine
	store  TransferStore
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a transfer service instance.
func NewService(engine Engine, store TransferStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{engine: engine, store: store, logger: logger, now: time.Now}
}

// Donate withdraws every requested item and appends one history record with
// the quantities that actually left the stock, which on a partial shortfall
// is less than what was requested. The record is appended on complete and on
// partial success, but never when the engine itself fails with a store error.
func (s *Service) Donate(ctx context.Context, ownerID, destinationID string, requests []ItemRequest) (DonationResult, error) {
	if len(requests) == 0 {
		return DonationResult{}, ErrNoItems
	}

	result := DonationResult{Outcomes: make([]ItemOutcome, 0, len(requests))}
	var transferred []models.TransferredItem

	for _, request := range requests {
		withdrawal, err := s.engine.Withdraw(ctx, ownerID, request.Identity, request.Quantity)
		if err != nil {
			return result, err
		}

		result.Outcomes = append(result.Outcomes, ItemOutcome{
			Identity:    request.Identity,
			Requested:   withdrawal.Requested,
			Transferred: withdrawal.Removed,
			Shortfall:   withdrawal.Shortfall,
			Status:      withdrawal.Status,
		})

		if withdrawal.Removed > 0 {
			transferred = append(transferred, models.TransferredItem{
				Identity: request.Identity,
				Quantity: withdrawal.Removed,
			})
		}
	}

	// Nothing actually left the stock, so there is nothing to historize.
	if len(transferred) == 0 {
		return result, nil
	}

	record, err := s.store.Insert(ctx, models.RealizedTransfer{
		OwnerID:         ownerID,
		DestinationID:   destinationID,
		DestinationType: models.DestinationTypeONG,
		TransferredAt:   s.now().UTC(),
		Items:           transferred,
	})
	if err != nil {
		return result, err
	}

	result.Transfer = &record
	s.logger.Info("donation realized",
		zap.String("owner_id", ownerID),
		zap.String("destination_id", destinationID),
		zap.Int("items", len(transferred)))
	return result, nil
}

// History lists the owner's realized transfers.
func (s *Service) History(ctx context.Context, ownerID string) ([]models.RealizedTransfer, error) {
	return s.store.ListByOwner(ctx, ownerID)
}
