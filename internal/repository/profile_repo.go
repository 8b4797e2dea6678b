package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/prepmind-dev/prepmind-api/internal/models"
)

// UserProfileRepository reads and amends user profile documents. Profiles
// are created by the auth provider's sign-up flow; this service only ever
// appends to the interview history.
type UserProfileRepository interface {
	Get(ctx context.Context, uid string) (models.UserProfile, error)
	AppendInterview(ctx context.Context, uid string, sessionID string) error
}

type profileRepository struct {
	col *mongo.Collection
}

// NewUserProfileRepository builds a Mongo backed profile repository.
func NewUserProfileRepository(db *mongo.Database) UserProfileRepository {
	return &profileRepository{col: db.Collection("users")}
}

func (r *profileRepository) Get(ctx context.Context, uid string) (models.UserProfile, error) {
	var profile models.UserProfile
	err := r.col.FindOne(ctx, bson.M{"_id": uid}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.UserProfile{}, ErrNotFound
	}
	return profile, err
}

func (r *profileRepository) AppendInterview(ctx context.Context, uid string, sessionID string) error {
	// Upsert so a history write never races the provider's profile creation.
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": uid},
		bson.M{
			"$addToSet":    bson.M{"interview_history": sessionID},
			"$setOnInsert": bson.M{"created_at": time.Now().UTC()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}
