package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/joaofarias/doafacil/internal/domain/models"
)

const (
	ngosCollection             = "ngos"
	volunteersCollection       = "volunteers"
	collectionPointsCollection = "collection_points"
)

// PartnerRepository persists the registries the donation flows reference:
// NGOs, volunteers and collection points.
type PartnerRepository struct {
	ngos       *mongo.Collection
	volunteers *mongo.Collection
	points     *mongo.Collection
}

// NewPartnerRepository builds the partner repository.
func NewPartnerRepository(client *Client) *PartnerRepository {
	db := client.Database()
	return &PartnerRepository{
		ngos:       db.Collection(ngosCollection),
		volunteers: db.Collection(volunteersCollection),
		points:     db.Collection(collectionPointsCollection),
	}
}

// InsertNGO stores a new NGO and returns it with the assigned id.
func (r *PartnerRepository) InsertNGO(ctx context.Context, ngo models.NGO) (models.NGO, error) {
	if ngo.ID == "" {
		ngo.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.ngos.InsertOne(ctx, ngo); err != nil {
		return models.NGO{}, fmt.Errorf("insert ngo: %w", err)
	}
	return ngo, nil
}

// ListNGOs returns every NGO registered by the owner.
func (r *PartnerRepository) ListNGOs(ctx context.Context, ownerID string) ([]models.NGO, error) {
	cursor, err := r.ngos.Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return nil, fmt.Errorf("list ngos: %w", err)
	}
	var ngos []models.NGO
	if err := cursor.All(ctx, &ngos); err != nil {
		return nil, fmt.Errorf("decode ngos: %w", err)
	}
	return ngos, nil
}

// GetNGO fetches one NGO by id.
func (r *PartnerRepository) GetNGO(ctx context.Context, id string) (models.NGO, error) {
	var ngo models.NGO
	err := r.ngos.FindOne(ctx, bson.M{"_id": id}).Decode(&ngo)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.NGO{}, models.ErrPartnerNotFound
	}
	if err != nil {
		return models.NGO{}, fmt.Errorf("get ngo %s: %w", id, err)
	}
	return ngo, nil
}

// UpdateNGO replaces the stored NGO document.
func (r *PartnerRepository) UpdateNGO(ctx context.Context, ngo models.NGO) error {
	return r.replaceOne(ctx, r.ngos, ngo.ID, ngo)
}

// DeleteNGO removes an NGO registration.
func (r *PartnerRepository) DeleteNGO(ctx context.Context, id string) error {
	return r.deleteOne(ctx, r.ngos, id)
}

// InsertVolunteer stores a new volunteer and returns it with the assigned id.
func (r *PartnerRepository) InsertVolunteer(ctx context.Context, vol models.Volunteer) (models.Volunteer, error) {
	if vol.ID == "" {
		vol.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.volunteers.InsertOne(ctx, vol); err != nil {
		return models.Volunteer{}, fmt.Errorf("insert volunteer: %w", err)
	}
	return vol, nil
}

// ListVolunteers returns every volunteer registered by the owner.
func (r *PartnerRepository) ListVolunteers(ctx context.Context, ownerID string) ([]models.Volunteer, error) {
	cursor, err := r.volunteers.Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return nil, fmt.Errorf("list volunteers: %w", err)
	}
	var vols []models.Volunteer
	if err := cursor.All(ctx, &vols); err != nil {
		return nil, fmt.Errorf("decode volunteers: %w", err)
	}
	return vols, nil
}

// GetVolunteer fetches one volunteer by id.
func (r *PartnerRepository) GetVolunteer(ctx context.Context, id string) (models.Volunteer, error) {
	var vol models.Volunteer
	err := r.volunteers.FindOne(ctx, bson.M{"_id": id}).Decode(&vol)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Volunteer{}, models.ErrPartnerNotFound
	}
	if err != nil {
		return models.Volunteer{}, fmt.Errorf("get volunteer %s: %w", id, err)
	}
	return vol, nil
}

// UpdateVolunteer replaces the stored volunteer document.
func (r *PartnerRepository) UpdateVolunteer(ctx context.Context, vol models.Volunteer) error {
	return r.replaceOne(ctx, r.volunteers, vol.ID, vol)
}

// DeleteVolunteer removes a volunteer registration.
func (r *PartnerRepository) DeleteVolunteer(ctx context.Context, id string) error {
	return r.deleteOne(ctx, r.volunteers, id)
}

// InsertCollectionPoint stores a new collection point and returns it with the
// assigned id.
func (r *PartnerRepository) InsertCollectionPoint(ctx context.Context, point models.CollectionPoint) (models.CollectionPoint, error) {
	if point.ID == "" {
		point.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.points.InsertOne(ctx, point); err != nil {
		return models.CollectionPoint{}, fmt.Errorf("insert collection point: %w", err)
	}
	return point, nil
}

// ListCollectionPoints returns every collection point registered by the owner.
func (r *PartnerRepository) ListCollectionPoints(ctx context.Context, ownerID string) ([]models.CollectionPoint, error) {
	cursor, err := r.points.Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return nil, fmt.Errorf("list collection points: %w", err)
	}
	var points []models.CollectionPoint
	if err := cursor.All(ctx, &points); err != nil {
		return nil, fmt.Errorf("decode collection points: %w", err)
	}
	return points, nil
}

// GetCollectionPoint fetches one collection point by id.
func (r *PartnerRepository) GetCollectionPoint(ctx context.Context, id string) (models.CollectionPoint, error) {
	var point models.CollectionPoint
	err := r.points.FindOne(ctx, bson.M{"_id": id}).Decode(&point)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.CollectionPoint{}, models.ErrPartnerNotFound
	}
	if err != nil {
		return models.CollectionPoint{}, fmt.Errorf("get collection point %s: %w", id, err)
	}
	return point, nil
}

// UpdateCollectionPoint replaces the stored collection point document.
func (r *PartnerRepository) UpdateCollectionPoint(ctx context.Context, point models.CollectionPoint) error {
	return r.replaceOne(ctx, r.points, point.ID, point)
}

// DeleteCollectionPoint removes a collection point registration.
func (r *PartnerRepository) DeleteCollectionPoint(ctx context.Context, id string) error {
	return r.deleteOne(ctx, r.points, id)
}

func (r *PartnerRepository) replaceOne(ctx context.Context, coll *mongo.Collection, id string, doc any) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("replace %s document %s: %w", coll.Name(), id, err)
	}
	if res.MatchedCount == 0 {
		return models.ErrPartnerNotFound
	}
	return nil
}

func (r *PartnerRepository) deleteOne(ctx context.Context, coll *mongo.Collection, id string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s document %s: %w", coll.Name(), id, err)
	}
	if res.DeletedCount == 0 {
		return models.ErrPartnerNotFound
	}
	return nil
}
