package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vitrine/catalog-admin/internal/core/domain"
	"github.com/vitrine/catalog-admin/internal/core/ports"
)

const activityCollection = "activities"

var _ ports.ActivityRepository = (*ActivityRepository)(nil)

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	coll *mongo.Collection
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: db.Collection(activityCollection)}
}

type activityDocument struct {
	ID         string    `bson:"_id"`
	Actor      string    `bson:"actor,omitempty"`
	Role       string    `bson:"role,omitempty"`
	Action     string    `bson:"action"`
	Target     string    `bson:"target,omitempty"`
	StatusCode int       `bson:"status_code,omitempty"`
	OccurredAt time.Time `bson:"occurred_at"`
}

// EnsureIndexes creates the lookup indexes used when browsing the trail.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "actor", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}}, Options: options.Index().SetName("action_1")},
	})
	if err != nil {
		return fmt.Errorf("create activity indexes: %w", err)
	}
	return nil
}

// InsertActivity persists a single entry. An ID is generated when missing.
func (r *ActivityRepository) InsertActivity(ctx context.Context, a *domain.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.OccurredAt.IsZero() {
		a.OccurredAt = time.Now()
	}

	doc := activityDocument{
		ID:         a.ID,
		Actor:      a.Actor,
		Role:       a.Role,
		Action:     a.Action,
		Target:     a.Target,
		StatusCode: a.StatusCode,
		OccurredAt: a.OccurredAt.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}
