package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/enchanted-tales/backend/internal/story"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements a MongoDB-backed repository for stories.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	// indexes backing the list filters and the default sort (idempotent)
	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "genre", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	}
	col.Indexes().CreateMany(context.Background(), idx)
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Create(ctx context.Context, s *story.Story) (*story.Story, error) {
	now := time.Now().UTC()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	if _, err := m.col.InsertOne(ctx, s); err != nil {
		return nil, fmt.Errorf("insert story: %w", err)
	}
	return s, nil
}

func (m *MongoRepo) List(ctx context.Context, q story.ListQuery) ([]*story.Story, int64, error) {
	spec := BuildListSpec(q)

	findOpts := options.Find().SetSort(spec.Sort).SetSkip(spec.Skip).SetLimit(spec.Limit)
	cur, err := m.col.Find(ctx, spec.Filter, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("find stories: %w", err)
	}
	defer cur.Close(ctx)

	out := []*story.Story{}
	for cur.Next(ctx) {
		var s story.Story
		if err := cur.Decode(&s); err != nil {
			return nil, 0, fmt.Errorf("decode story: %w", err)
		}
		out = append(out, &s)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate stories: %w", err)
	}

	// count issued as an independent read; not transactional with the page fetch
	total, err := m.col.CountDocuments(ctx, spec.Filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count stories: %w", err)
	}
	return out, total, nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*story.Story, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var s story.Story
	if err := m.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, story.ErrNotFound
		}
		return nil, fmt.Errorf("find story: %w", err)
	}
	return &s, nil
}

func (m *MongoRepo) Update(ctx context.Context, id string, upd story.Update) (*story.Story, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Author != nil {
		set["author"] = *upd.Author
	}
	if upd.Content != nil {
		set["content"] = *upd.Content
	}
	if upd.Tags != nil {
		set["tags"] = *upd.Tags
	}
	if upd.Genre != nil {
		set["genre"] = *upd.Genre
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.Metrics != nil {
		set["wordCount"] = upd.Metrics.WordCount
		set["characterCount"] = upd.Metrics.CharacterCount
		set["readTime"] = upd.Metrics.ReadTime
		set["preview"] = upd.Metrics.Preview
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var s story.Story
	err = m.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&s)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, story.ErrNotFound
		}
		return nil, fmt.Errorf("update story: %w", err)
	}
	return &s, nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete story: %w", err)
	}
	if res.DeletedCount == 0 {
		return story.ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Stats(ctx context.Context) (*StatsSnapshot, error) {
	snap := &StatsSnapshot{}
	var err error

	if snap.Total, err = m.col.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("count stories: %w", err)
	}
	if snap.Published, err = m.col.CountDocuments(ctx, bson.M{"status": story.StatusPublished}); err != nil {
		return nil, fmt.Errorf("count published: %w", err)
	}
	if snap.Draft, err = m.col.CountDocuments(ctx, bson.M{"status": story.StatusDraft}); err != nil {
		return nil, fmt.Errorf("count drafts: %w", err)
	}

	if snap.TotalWords, err = m.sumWordCount(ctx); err != nil {
		return nil, err
	}
	if snap.Genres, err = m.genreDistribution(ctx); err != nil {
		return nil, err
	}
	if snap.Recent, err = m.recentPublished(ctx); err != nil {
		return nil, err
	}
	return snap, nil
}

func (m *MongoRepo) sumWordCount(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$wordCount"}}}},
	}
	cur, err := m.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sum word count: %w", err)
	}
	defer cur.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("decode word count sum: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

func (m *MongoRepo) genreDistribution(ctx context.Context) ([]story.GenreCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$genre", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
		{{Key: "$limit", Value: 10}},
	}
	cur, err := m.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("genre distribution: %w", err)
	}
	defer cur.Close(ctx)

	genres := []story.GenreCount{}
	if err := cur.All(ctx, &genres); err != nil {
		return nil, fmt.Errorf("decode genre distribution: %w", err)
	}
	return genres, nil
}

func (m *MongoRepo) recentPublished(ctx context.Context) ([]story.RecentStory, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(5).
		SetProjection(bson.M{"title": 1, "author": 1, "createdAt": 1, "readTime": 1})
	cur, err := m.col.Find(ctx, bson.M{"status": story.StatusPublished}, opts)
	if err != nil {
		return nil, fmt.Errorf("recent stories: %w", err)
	}
	defer cur.Close(ctx)

	recent := []story.RecentStory{}
	if err := cur.All(ctx, &recent); err != nil {
		return nil, fmt.Errorf("decode recent stories: %w", err)
	}
	return recent, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", story.ErrInvalidID, id)
	}
	return oid, nil
}
