package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/joaofarias/doafacil/internal/domain/models"
)

const snapshotsCollection = "stock_snapshots"

// SnapshotRepository persists the scheduled daily stock aggregates.
type SnapshotRepository struct {
	snapshots *mongo.Collection
	receipts  *mongo.Collection
}

// NewSnapshotRepository builds the snapshot repository.
func NewSnapshotRepository(client *Client) *SnapshotRepository {
	db := client.Database()
	return &SnapshotRepository{
		snapshots: db.Collection(snapshotsCollection),
		receipts:  db.Collection(receiptsCollection),
	}
}

// Insert stores one stock snapshot.
func (r *SnapshotRepository) Insert(ctx context.Context, snapshot models.StockSnapshot) (models.StockSnapshot, error) {
	if snapshot.ID == "" {
		snapshot.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.snapshots.InsertOne(ctx, snapshot); err != nil {
		return models.StockSnapshot{}, fmt.Errorf("insert stock snapshot: %w", err)
	}
	return snapshot, nil
}

// DistinctOwners lists every owner that currently has at least one receipt,
// used by the scheduler to know whose stock to snapshot.
func (r *SnapshotRepository) DistinctOwners(ctx context.Context) ([]string, error) {
	values, err := r.receipts.Distinct(ctx, "ownerId", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct receipt owners: %w", err)
	}

	owners := make([]string, 0, len(values))
	for _, value := range values {
		if owner, ok := value.(string); ok && owner != "" {
			owners = append(owners, owner)
		}
	}
	return owners, nil
}
