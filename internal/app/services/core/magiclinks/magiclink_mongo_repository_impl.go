package magiclinks

import (
	"context"
	"strings"
	"time"

	"authlink-service/internal/app/contracts"
	"authlink-service/internal/app/models"
	"authlink-service/internal/pkg/constvars"
	"authlink-service/internal/pkg/exceptions"
	"authlink-service/internal/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MagicLinkMongoRepository struct {
	Collection *mongo.Collection
}

func NewMagicLinkMongoRepository(db *mongo.Client, dbName string) contracts.MagicLinkRepository {
	return &MagicLinkMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionMagicLinks),
	}
}

func (repo *MagicLinkMongoRepository) Create(ctx context.Context, userID string, lifetimeMinutes int, usage models.MagicLinkUsage) (*models.MagicLink, error) {
	id, err := utils.GenerateSecureToken(constvars.MagicLinkIDLength)
	if err != nil {
		return nil, exceptions.ErrSecureTokenGenerate(err)
	}
	csrfToken, err := utils.GenerateSecureToken(constvars.MagicLinkCsrfTokenLength)
	if err != nil {
		return nil, exceptions.ErrSecureTokenGenerate(err)
	}

	link := &models.MagicLink{
		ID:        id,
		UserID:    userID,
		CsrfToken: csrfToken,
		Cookie:    nil,
		Exp:       time.Now().Unix() + int64(lifetimeMinutes)*60,
		State:     models.LinkStateActive,
		Usage:     usage.String(),
	}

	if _, err := repo.Collection.InsertOne(ctx, link); err != nil {
		return nil, exceptions.ErrMongoDBInsertDocument(err)
	}
	return link, nil
}

func (repo *MagicLinkMongoRepository) FindByID(ctx context.Context, id string) (*models.MagicLink, error) {
	var link models.MagicLink
	err := repo.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&link)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, exceptions.ErrMagicLinkNotFound(err)
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &link, nil
}

// FindByUser returns the user's link within the given usage class. Should
// more than one row match, the most recent (highest exp) wins.
func (repo *MagicLinkMongoRepository) FindByUser(ctx context.Context, userID string, usageTags []string) (*models.MagicLink, error) {
	var link models.MagicLink
	opts := options.FindOne().SetSort(bson.D{{Key: "exp", Value: -1}})
	filter := bson.M{
		"userId": userID,
		"usage":  bson.M{"$regex": primitive.Regex{Pattern: "^(" + strings.Join(usageTags, "|") + ")(\\$|$)"}},
	}
	err := repo.Collection.FindOne(ctx, filter, opts).Decode(&link)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, exceptions.ErrMagicLinkNotFound(err)
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &link, nil
}

// InvalidateAllEmailChange removes every email-change link of the user,
// regardless of state or expiry, so at most one such request is ever live.
func (repo *MagicLinkMongoRepository) InvalidateAllEmailChange(ctx context.Context, userID string) error {
	filter := bson.M{
		"userId": userID,
		"usage":  bson.M{"$regex": primitive.Regex{Pattern: "^" + models.UsageTagEmailChange + "\\$"}},
	}
	if _, err := repo.Collection.DeleteMany(ctx, filter); err != nil {
		return exceptions.ErrMongoDBDeleteDocuments(err)
	}
	return nil
}

// Save persists the three fields ever mutated after creation.
func (repo *MagicLinkMongoRepository) Save(ctx context.Context, link *models.MagicLink) error {
	update := bson.M{"$set": bson.M{
		"cookie": link.Cookie,
		"exp":    link.Exp,
		"state":  link.State,
	}}
	_, err := repo.Collection.UpdateOne(ctx, bson.M{"_id": link.ID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

// Invalidate soft-deletes the link while keeping the audit row.
func (repo *MagicLinkMongoRepository) Invalidate(ctx context.Context, link *models.MagicLink) error {
	link.Revoke()
	return repo.Save(ctx, link)
}
