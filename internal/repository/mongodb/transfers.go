package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/joaofarias/doafacil/internal/domain/models"
)

const transfersCollection = "transfers"

// TransferRepository persists realized transfers. The collection is
// append-only: no update or delete operation is exposed.
type TransferRepository struct {
	coll *mongo.Collection
}

// NewTransferRepository builds the transfers repository.
func NewTransferRepository(client *Client) *TransferRepository {
	return &TransferRepository{coll: client.Database().Collection(transfersCollection)}
}

// Insert appends a realized transfer record.
func (r *TransferRepository) Insert(ctx context.Context, transfer models.RealizedTransfer) (models.RealizedTransfer, error) {
	if transfer.ID == "" {
		transfer.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.coll.InsertOne(ctx, transfer); err != nil {
		return models.RealizedTransfer{}, fmt.Errorf("insert realized transfer: %w", err)
	}
	return transfer, nil
}

// ListByOwner returns the owner's transfer history, newest first.
func (r *TransferRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.RealizedTransfer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "transferredAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list transfers for owner %s: %w", ownerID, err)
	}

	var transfers []models.RealizedTransfer
	if err := cursor.All(ctx, &transfers); err != nil {
		return nil, fmt.Errorf("decode transfers for owner %s: %w", ownerID, err)
	}
	return transfers, nil
}
