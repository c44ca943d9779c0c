package blog

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const blogsCollection = "blogs"

// MongoPostStore stores posts in MongoDB.
type MongoPostStore struct {
	coll *mongo.Collection
}

// NewMongoPostStore creates a post store backed by the given database.
func NewMongoPostStore(db *mongo.Database) *MongoPostStore {
	return &MongoPostStore{coll: db.Collection(blogsCollection)}
}

func (s *MongoPostStore) Insert(ctx context.Context, post *Post) error {
	if _, err := s.coll.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSavePost, err)
	}
	return nil
}

func (s *MongoPostStore) Get(ctx context.Context, id string) (*Post, error) {
	var post Post
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToLoadPosts, err)
	}
	return &post, nil
}

func (s *MongoPostStore) List(ctx context.Context, q FeedQuery) ([]Post, error) {
	filter := bson.M{"status": StatusPublished}
	if q.Category != "" {
		filter["category"] = q.Category
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if q.Limit > 0 {
		opts = opts.SetLimit(q.Limit)
	}
	if q.Offset > 0 {
		opts = opts.SetSkip(q.Offset)
	}

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToLoadPosts, err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	posts := []Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToLoadPosts, err)
	}
	return posts, nil
}

func (s *MongoPostStore) AddLike(ctx context.Context, postID, userID string) error {
	return s.updatePost(ctx, postID, bson.M{"$addToSet": bson.M{"likes": userID}})
}

func (s *MongoPostStore) RemoveLike(ctx context.Context, postID, userID string) error {
	return s.updatePost(ctx, postID, bson.M{"$pull": bson.M{"likes": userID}})
}

func (s *MongoPostStore) AddComment(ctx context.Context, postID string, comment Comment) error {
	return s.updatePost(ctx, postID, bson.M{"$push": bson.M{"comments": comment}})
}

func (s *MongoPostStore) updatePost(ctx context.Context, postID string, update bson.M) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": postID}, update)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSavePost, err)
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}
