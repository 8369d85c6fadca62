package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/joaofarias/doafacil/internal/domain/models"
	sheetsrepo "github.com/joaofarias/doafacil/internal/repository/sheets"
	"github.com/joaofarias/doafacil/internal/service/stock"
)

const dateLayout = "2006-01-02"

// ReceiptSource is the read-only slice of the store the reporter needs.
type ReceiptSource interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Receipt, error)
}

// SnapshotStore persists the daily aggregates.
type SnapshotStore interface {
	Insert(ctx context.Context, snapshot models.StockSnapshot) (models.StockSnapshot, error)
	DistinctOwners(ctx context.Context) ([]string, error)
}

// Service produces daily stock snapshots per owner, optionally exporting
// each aggregated line to a spreadsheet.
type Service struct {
	receipts    ReceiptSource
	snapshots   SnapshotStore
	exporter    sheetsrepo.Repository // nil when export is disabled
	exportRange string
	logger      *zap.Logger
	now         func() time.Time
}

// NewService wires a reporting service instance.
func NewService(receipts ReceiptSource, snapshots SnapshotStore, exporter sheetsrepo.Repository, exportRange string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		receipts:    receipts,
		snapshots:   snapshots,
		exporter:    exporter,
		exportRange: exportRange,
		logger:      logger,
		now:         time.Now,
	}
}

// SnapshotAll aggregates the current stock of every owner with receipts and
// persists one snapshot each. A failing owner does not stop the others; the
// first error is returned after the full pass.
func (s *Service) SnapshotAll(ctx context.Context) error {
	owners, err := s.snapshots.DistinctOwners(ctx)
	if err != nil {
		return fmt.Errorf("list snapshot owners: %w", err)
	}

	var firstErr error
	for _, owner := range owners {
		if err := s.snapshotOwner(ctx, owner); err != nil {
			s.logger.Error("owner snapshot failed", zap.String("owner_id", owner), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *Service) snapshotOwner(ctx context.Context, ownerID string) error {
	receipts, err := s.receipts.ListByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("load receipts: %w", err)
	}

	view := stock.Aggregate(ownerID, receipts)
	takenAt := s.now().UTC()

	snapshot := models.StockSnapshot{
		OwnerID:   ownerID,
		TakenAt:   takenAt,
		CreatedAt: takenAt,
	}
	for identity, total := range view.Totals() {
		snapshot.Lines = append(snapshot.Lines, models.SnapshotLine{Identity: identity, Quantity: total})
		snapshot.TotalQty += total
	}

	if _, err := s.snapshots.Insert(ctx, snapshot); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}

	if s.exporter != nil {
		s.export(ctx, snapshot)
	}

	s.logger.Info("stock snapshot taken",
		zap.String("owner_id", ownerID),
		zap.Int("identities", len(snapshot.Lines)),
		zap.Int("total_qty", snapshot.TotalQty))
	return nil
}

// export appends one row per aggregated identity. Export failures are logged
// and swallowed: the persisted snapshot is the source of truth.
func (s *Service) export(ctx context.Context, snapshot models.StockSnapshot) {
	for _, line := range snapshot.Lines {
		size := line.Identity.Size
		if line.Identity.Category == models.CategoryFootwear {
			size = line.Identity.ShoeSize
		}

		values := []interface{}{
			snapshot.TakenAt.Format(dateLayout),
			snapshot.OwnerID,
			string(line.Identity.Category),
			line.Identity.Name,
			string(line.Identity.Gender),
			size,
			line.Quantity,
		}
		if err := s.exporter.WriteRow(ctx, s.exportRange, values); err != nil {
			s.logger.Warn("snapshot export row failed", zap.String("owner_id", snapshot.OwnerID), zap.Error(err))
			return
		}
	}
}
