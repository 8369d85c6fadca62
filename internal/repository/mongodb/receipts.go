package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/joaofarias/doafacil/internal/domain/models"
)

const receiptsCollection = "receipts"

// ReceiptRepository persists donation receipts in MongoDB.
type ReceiptRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewReceiptRepository builds the receipts repository.
func NewReceiptRepository(client *Client, logger *zap.Logger) *ReceiptRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptRepository{
		coll:   client.Database().Collection(receiptsCollection),
		logger: logger,
	}
}

// ListByOwner returns every receipt owned by the given user, newest first.
func (r *ReceiptRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Receipt, error) {
	opts := options.Find().SetSort(bson.D{{Key: "receivedAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list receipts for owner %s: %w", ownerID, err)
	}

	var receipts []models.Receipt
	if err := cursor.All(ctx, &receipts); err != nil {
		return nil, fmt.Errorf("decode receipts for owner %s: %w", ownerID, err)
	}
	return receipts, nil
}

// Get fetches a single receipt by id.
func (r *ReceiptRepository) Get(ctx context.Context, receiptID string) (models.Receipt, error) {
	var receipt models.Receipt
	err := r.coll.FindOne(ctx, bson.M{"_id": receiptID}).Decode(&receipt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Receipt{}, models.ErrReceiptNotFound
	}
	if err != nil {
		return models.Receipt{}, fmt.Errorf("get receipt %s: %w", receiptID, err)
	}
	return receipt, nil
}

// Insert stores a new receipt and returns it with the assigned id.
func (r *ReceiptRepository) Insert(ctx context.Context, receipt models.Receipt) (models.Receipt, error) {
	if receipt.ID == "" {
		receipt.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.coll.InsertOne(ctx, receipt); err != nil {
		return models.Receipt{}, fmt.Errorf("insert receipt: %w", err)
	}
	return receipt, nil
}

// ReplaceItems overwrites the items array of a receipt in place. This is the
// only field-level mutation the ledger performs on receipts.
func (r *ReceiptRepository) ReplaceItems(ctx context.Context, receiptID string, items []models.ItemEntry) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": receiptID}, bson.M{"$set": bson.M{"items": items}})
	if err != nil {
		return fmt.Errorf("replace items of receipt %s: %w", receiptID, err)
	}
	if res.MatchedCount == 0 {
		return models.ErrReceiptNotFound
	}
	return nil
}

// Delete removes a receipt document entirely.
func (r *ReceiptRepository) Delete(ctx context.Context, receiptID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": receiptID})
	if err != nil {
		return fmt.Errorf("delete receipt %s: %w", receiptID, err)
	}
	if res.DeletedCount == 0 {
		return models.ErrReceiptNotFound
	}
	return nil
}

// Watch opens a change stream over the receipts collection and delivers one
// notification per change. Delete events carry no document, so owner
// filtering happens when the consumer re-reads the result set; each
// notification only means "the result set may have changed".
func (r *ReceiptRepository) Watch(ctx context.Context, ownerID string) (<-chan struct{}, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "operationType", Value: bson.D{{Key: "$in", Value: bson.A{"insert", "update", "replace", "delete"}}}},
		}}},
	}

	stream, err := r.coll.Watch(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("watch receipts: %w", err)
	}

	notifications := make(chan struct{}, 1)
	go func() {
		defer close(notifications)
		defer func() {
			if err := stream.Close(context.Background()); err != nil {
				r.logger.Warn("failed to close change stream", zap.Error(err))
			}
		}()

		for stream.Next(ctx) {
			select {
			case notifications <- struct{}{}:
			default:
				// A notification is already pending; coalescing is fine because
				// consumers re-read the full result set anyway.
			}
		}

		if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Error("change stream terminated", zap.String("owner_id", ownerID), zap.Error(err))
		}
	}()

	return notifications, nil
}
