package address

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/valter-tonon/digimenu/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// addressDoc wraps the address with its owning customer. Ids are uuid
// strings assigned on create.
type addressDoc struct {
	CustomerID string         `bson:"customer_id"`
	Address    domain.Address `bson:",inline"`
}

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Service {
	return &mongoRepository{
		collection: db.Collection("addresses"),
	}
}

func (m *mongoRepository) ListAddresses(ctx context.Context, customerID string) ([]domain.Address, error) {
	filter := bson.M{"customer_id": customerID}
	opts := options.Find().SetSort(bson.D{{Key: "is_default", Value: -1}, {Key: "_id", Value: 1}})

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer cursor.Close(ctx)

	var addresses []domain.Address
	for cursor.Next(ctx) {
		var doc addressDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode address: %w", err)
		}
		addresses = append(addresses, doc.Address)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate addresses: %w", err)
	}
	return addresses, nil
}

func (m *mongoRepository) CreateAddress(ctx context.Context, customerID string, addr domain.Address) (domain.Address, error) {
	if addr.ID == "" {
		addr.ID = uuid.NewString()
	}

	doc := addressDoc{CustomerID: customerID, Address: addr}
	if _, err := m.collection.InsertOne(ctx, doc); err != nil {
		return domain.Address{}, fmt.Errorf("failed to create address: %w", err)
	}

	if addr.IsDefault {
		if err := m.SetDefault(ctx, customerID, addr.ID); err != nil {
			return domain.Address{}, err
		}
	}
	return addr, nil
}

func (m *mongoRepository) UpdateAddress(ctx context.Context, id string, addr domain.Address) (domain.Address, error) {
	addr.ID = id
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{
		"street":       addr.Street,
		"number":       addr.Number,
		"complement":   addr.Complement,
		"neighborhood": addr.Neighborhood,
		"city":         addr.City,
		"state":        addr.State,
		"zip_code":     addr.ZipCode,
		"reference":    addr.Reference,
		"label":        addr.Label,
	}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return domain.Address{}, fmt.Errorf("failed to update address: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.Address{}, ErrAddressNotFound
	}
	return addr, nil
}

func (m *mongoRepository) DeleteAddress(ctx context.Context, id string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrAddressNotFound
	}
	return nil
}

// SetDefault flips the flag so exactly one address of the customer is the
// default.
func (m *mongoRepository) SetDefault(ctx context.Context, customerID, id string) error {
	var doc addressDoc
	err := m.collection.FindOne(ctx, bson.M{"_id": id, "customer_id": customerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrAddressNotFound
		}
		return fmt.Errorf("failed to find address: %w", err)
	}

	_, err = m.collection.UpdateMany(ctx,
		bson.M{"customer_id": customerID},
		bson.M{"$set": bson.M{"is_default": false}})
	if err != nil {
		return fmt.Errorf("failed to clear defaults: %w", err)
	}

	_, err = m.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_default": true}})
	if err != nil {
		return fmt.Errorf("failed to set default: %w", err)
	}
	return nil
}

func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "customer_id", Value: 1}},
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
