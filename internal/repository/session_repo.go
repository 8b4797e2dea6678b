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

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// InterviewSessionRepository persists interview sessions.
type InterviewSessionRepository interface {
	Create(ctx context.Context, session *models.InterviewSession) error
	GetByID(ctx context.Context, id string) (models.InterviewSession, error)
	AppendAnswer(ctx context.Context, id string, answer models.Answer, stage string) error
	Complete(ctx context.Context, id string, evaluation models.OverallEvaluation, endTime time.Time) error
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.InterviewSession, error)
}

type sessionRepository struct {
	col *mongo.Collection
}

// NewInterviewSessionRepository builds a Mongo backed session repository.
func NewInterviewSessionRepository(db *mongo.Database) InterviewSessionRepository {
	return &sessionRepository{col: db.Collection("interviews")}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.InterviewSession) error {
	if session.StartTime.IsZero() {
		session.StartTime = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, session)
	return err
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (models.InterviewSession, error) {
	var session models.InterviewSession
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.InterviewSession{}, ErrNotFound
	}
	return session, err
}

func (r *sessionRepository) AppendAnswer(ctx context.Context, id string, answer models.Answer, stage string) error {
	result, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"answers": answer},
			"$set":  bson.M{"stage": stage},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sessionRepository) Complete(ctx context.Context, id string, evaluation models.OverallEvaluation, endTime time.Time) error {
	result, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"overall_evaluation": evaluation,
			"end_time":           endTime.UTC(),
			"status":             models.SessionStatusCompleted,
			"stage":              models.StageFeedback,
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sessionRepository) ListByUser(ctx context.Context, userID string, limit int64) ([]models.InterviewSession, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []models.InterviewSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
