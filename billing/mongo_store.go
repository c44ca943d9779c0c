package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const plansCollection = "plans"

// planDoc is the stored shape of a plan record. Expiry is kept as an
// RFC 3339 string for portability with existing data.
type planDoc struct {
	ID             string `bson:"_id"`
	Plan           string `bson:"plan"`
	PlanExpiry     string `bson:"planExpiry,omitempty"`
	PublishedBlogs int64  `bson:"publishedBlogs"`
}

// MongoPlanStore stores plan records in MongoDB, one document per user.
type MongoPlanStore struct {
	coll *mongo.Collection
}

// NewMongoPlanStore creates a plan store backed by the given database.
func NewMongoPlanStore(db *mongo.Database) *MongoPlanStore {
	return &MongoPlanStore{coll: db.Collection(plansCollection)}
}

func (s *MongoPlanStore) Get(ctx context.Context, userID string) (PlanRecord, error) {
	var doc planDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return PlanRecord{UserID: userID, Tier: TierBasic}, nil
	}
	if err != nil {
		return PlanRecord{}, fmt.Errorf("%w: %v", ErrFailedToLoadPlan, err)
	}

	rec := PlanRecord{
		UserID:         userID,
		Tier:           TierBasic,
		PublishedCount: doc.PublishedBlogs,
	}
	if tier, err := ParseTier(doc.Plan); err == nil {
		rec.Tier = tier
	}
	if doc.PlanExpiry != "" {
		if expiry, err := time.Parse(time.RFC3339, doc.PlanExpiry); err == nil {
			rec.Expiry = &expiry
		}
	}
	return rec, nil
}

func (s *MongoPlanStore) Apply(ctx context.Context, userID string, update PlanUpdate) error {
	set := bson.M{"plan": update.Tier.String()}
	if update.Expiry != nil {
		set["planExpiry"] = update.Expiry.UTC().Format(time.RFC3339)
	}
	if update.ResetCounter {
		set["publishedBlogs"] = int64(0)
	}

	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": set},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToStorePlan, err)
	}
	return nil
}

func (s *MongoPlanStore) IncrementPublished(ctx context.Context, userID string) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$inc": bson.M{"publishedBlogs": int64(1)}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToCountUsage, err)
	}
	return nil
}
