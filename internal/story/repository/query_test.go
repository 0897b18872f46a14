package repository

import (
	"testing"

	"github.com/enchanted-tales/backend/internal/story"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildListSpecDefaults(t *testing.T) {
	spec := BuildListSpec(story.ListQuery{})
	assert.Empty(t, spec.Filter)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, spec.Sort)
	assert.Equal(t, int64(0), spec.Skip)
	assert.Equal(t, int64(10), spec.Limit)
}

func TestBuildListSpecFilters(t *testing.T) {
	spec := BuildListSpec(story.ListQuery{
		Status: story.StatusDraft,
		Genre:  "fantasy",
		Author: "luna",
	})

	assert.Equal(t, story.StatusDraft, spec.Filter["status"])

	genre, ok := spec.Filter["genre"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "fantasy", genre.Pattern)
	assert.Equal(t, "i", genre.Options)

	author, ok := spec.Filter["author"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "luna", author.Pattern)
}

func TestBuildListSpecSearchOr(t *testing.T) {
	spec := BuildListSpec(story.ListQuery{Search: "moon", Status: story.StatusPublished})

	or, ok := spec.Filter["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 4)
	assert.Contains(t, or[0].(bson.M), "title")
	assert.Contains(t, or[1].(bson.M), "author")
	assert.Contains(t, or[2].(bson.M), "content")
	assert.Contains(t, or[3].(bson.M), "tags")

	// search is ANDed with the other filters
	assert.Equal(t, story.StatusPublished, spec.Filter["status"])
}

func TestBuildListSpecEscapesRegexInput(t *testing.T) {
	spec := BuildListSpec(story.ListQuery{Search: "a.b*c"})
	or := spec.Filter["$or"].(bson.A)
	re := or[0].(bson.M)["title"].(primitive.Regex)
	assert.Equal(t, `a\.b\*c`, re.Pattern)
}

func TestBuildListSpecSortAndPagination(t *testing.T) {
	spec := BuildListSpec(story.ListQuery{Page: 3, Limit: 20, SortBy: "title", SortOrder: "asc"})
	assert.Equal(t, bson.D{{Key: "title", Value: 1}}, spec.Sort)
	assert.Equal(t, int64(40), spec.Skip)
	assert.Equal(t, int64(20), spec.Limit)
}

func TestBuildListSpecDeterministic(t *testing.T) {
	q := story.ListQuery{Search: "owl", Genre: "Fantasy", Page: 2, Limit: 5}
	assert.Equal(t, BuildListSpec(q), BuildListSpec(q))
}
