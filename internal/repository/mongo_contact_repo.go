package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fathima-sithara/contacts-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoContactRepo struct {
	col *mongo.Collection
}

func NewMongoContactRepo(db *mongo.Database, collection string) ContactRepository {
	return &mongoContactRepo{col: db.Collection(collection)}
}

func visibleFilter(id, userID primitive.ObjectID) bson.M {
	return bson.M{
		"_id": id,
		"$or": []bson.M{
			{"owner": userID},
			{"shared_with.user_id": userID.Hex()},
		},
	}
}

func (r *mongoContactRepo) Create(ctx context.Context, c *models.Contact) error {
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	if c.SharedWith == nil {
		c.SharedWith = []models.ShareEntry{}
	}
	res, err := r.col.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid
	}
	return nil
}

func (r *mongoContactRepo) FindVisible(ctx context.Context, userID primitive.ObjectID) ([]models.Contact, error) {
	filter := bson.M{"$or": []bson.M{
		{"owner": userID},
		{"shared_with.user_id": userID.Hex()},
	}}
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var contacts []models.Contact
	if err := cur.All(ctx, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *mongoContactRepo) FindVisibleByID(ctx context.Context, id, userID primitive.ObjectID) (*models.Contact, error) {
	var c models.Contact
	err := r.col.FindOne(ctx, visibleFilter(id, userID)).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *mongoContactRepo) FindOwnedByID(ctx context.Context, id, owner primitive.ObjectID) (*models.Contact, error) {
	var c models.Contact
	err := r.col.FindOne(ctx, bson.M{"_id": id, "owner": owner}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *mongoContactRepo) Update(ctx context.Context, c *models.Contact) error {
	c.UpdatedAt = time.Now().UTC()
	_, err := r.col.UpdateByID(ctx, c.ID, bson.M{"$set": c})
	return err
}

func (r *mongoContactRepo) DeleteOwned(ctx context.Context, id, owner primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "owner": owner})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrContactNotFound
	}
	return nil
}
