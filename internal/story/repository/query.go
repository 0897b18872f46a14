package repository

import (
	"regexp"

	"github.com/enchanted-tales/backend/internal/story"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListSpec is the Mongo-shaped form of a list query: a filter document, a
// single-field sort and skip/limit pagination.
type ListSpec struct {
	Filter bson.M
	Sort   bson.D
	Skip   int64
	Limit  int64
}

// BuildListSpec translates list query parameters into a Mongo query spec.
// Genre, author and search terms become case-insensitive substring matches
// (patterns are escaped, so user input is matched literally). The search term
// is an $or across title, author, content and tags, ANDed with the other
// filters. Deterministic: identical queries yield identical specs.
func BuildListSpec(q story.ListQuery) ListSpec {
	q.Normalize()

	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Genre != "" {
		filter["genre"] = containsRegex(q.Genre)
	}
	if q.Author != "" {
		filter["author"] = containsRegex(q.Author)
	}
	if q.Search != "" {
		re := containsRegex(q.Search)
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"author": re},
			bson.M{"content": re},
			bson.M{"tags": bson.M{"$in": bson.A{re}}},
		}
	}

	dir := -1
	if q.SortOrder == "asc" {
		dir = 1
	}

	return ListSpec{
		Filter: filter,
		Sort:   bson.D{{Key: q.SortBy, Value: dir}},
		Skip:   q.Skip(),
		Limit:  int64(q.Limit),
	}
}

func containsRegex(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}
