package users

import (
	"context"
	"time"

	"authlink-service/internal/app/contracts"
	"authlink-service/internal/app/models"
	"authlink-service/internal/pkg/constvars"
	"authlink-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserMongoRepository struct {
	Collection *mongo.Collection
}

func NewUserMongoRepository(db *mongo.Client, dbName string) contracts.UserRepository {
	return &UserMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionUsers),
	}
}

func (repo *UserMongoRepository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := repo.Collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, exceptions.ErrUserNotExist(err)
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &user, nil
}

// FindByEmail returns (nil, nil) when no user carries the address. Callers
// use the nil result to stay silent about unknown addresses.
func (repo *UserMongoRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := repo.Collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &user, nil
}

func (repo *UserMongoRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	update := bson.M{"$set": bson.M{
		"password":  passwordHash,
		"activated": true,
		"updatedAt": time.Now(),
	}}
	if _, err := repo.Collection.UpdateOne(ctx, bson.M{"_id": userID}, update); err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (repo *UserMongoRepository) UpdateEmail(ctx context.Context, userID, email string) error {
	update := bson.M{"$set": bson.M{
		"email":     email,
		"updatedAt": time.Now(),
	}}
	if _, err := repo.Collection.UpdateOne(ctx, bson.M{"_id": userID}, update); err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
