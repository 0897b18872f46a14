package service

import (
	"context"
	"strings"
	"testing"

	"github.com/enchanted-tales/backend/internal/story"
	"github.com/enchanted-tales/backend/internal/story/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() Service {
	return New(repository.NewMemoryRepo())
}

func TestCreateComputesMetricsAndDefaults(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	s, err := svc.Create(ctx, CreateStory{
		Title:   "The Whispering Woods",
		Author:  "Luna Silvermoon",
		Content: "Hello world. This is magic!",
	})
	require.NoError(t, err)
	require.False(t, s.ID.IsZero())

	assert.Equal(t, 5, s.WordCount)
	assert.Equal(t, 27, s.CharacterCount)
	assert.Equal(t, "1 min", s.ReadTime)
	assert.Equal(t, "Hello world. This is magic!", s.Preview)

	// defaults
	assert.Equal(t, story.StatusPublished, s.Status)
	assert.Equal(t, "General", s.Genre)
	assert.NotNil(t, s.Tags)
	assert.Empty(t, s.Tags)
	assert.False(t, s.CreatedAt.IsZero())
}

func TestCreateRoundTrip(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	content := strings.Repeat("enchanted forest tale ", 100)
	created, err := svc.Create(ctx, CreateStory{Title: "T", Author: "A", Content: content})
	require.NoError(t, err)

	fetched, err := svc.Get(ctx, created.ID.Hex())
	require.NoError(t, err)

	want := story.ComputeMetrics(content)
	assert.Equal(t, want.WordCount, fetched.WordCount)
	assert.Equal(t, want.CharacterCount, fetched.CharacterCount)
	assert.Equal(t, want.ReadTime, fetched.ReadTime)
	assert.Equal(t, want.Preview, fetched.Preview)
}

func TestCreateKeepsFileInfo(t *testing.T) {
	svc := newTestService()

	s, err := svc.Create(context.Background(), CreateStory{
		Title:   "Uploaded",
		Author:  "Anonymous",
		Content: "from a file",
		FileInfo: &FileInfo{
			OriginalFilename: "my-story.txt",
			MimeType:         "text/plain",
			FileSize:         11,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "my-story.txt", s.OriginalFilename)
	assert.Equal(t, "text/plain", s.MimeType)
	assert.Equal(t, int64(11), s.FileSize)
}

func TestUpdateContentRecomputesMetrics(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateStory{Title: "Keep Me", Author: "Same Author", Content: "one two three four five"})
	require.NoError(t, err)

	content := "new text"
	updated, err := svc.Update(ctx, created.ID.Hex(), UpdateStory{Content: &content})
	require.NoError(t, err)

	assert.Equal(t, 2, updated.WordCount)
	assert.Equal(t, "1 min", updated.ReadTime)
	assert.Equal(t, "new text", updated.Preview)
	// untouched fields survive
	assert.Equal(t, "Keep Me", updated.Title)
	assert.Equal(t, "Same Author", updated.Author)
}

func TestUpdateWithoutContentKeepsMetrics(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateStory{Title: "T", Author: "A", Content: "five words of story content"})
	require.NoError(t, err)

	status := story.StatusArchived
	updated, err := svc.Update(ctx, created.ID.Hex(), UpdateStory{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, story.StatusArchived, updated.Status)
	assert.Equal(t, created.WordCount, updated.WordCount)
	assert.Equal(t, created.Preview, updated.Preview)
}

func TestGetErrorsAreDistinguishable(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Get(ctx, "not-a-valid-id-format")
	require.ErrorIs(t, err, story.ErrInvalidID)
	require.NotErrorIs(t, err, story.ErrNotFound)

	_, err = svc.Get(ctx, "507f1f77bcf86cd799439011")
	require.ErrorIs(t, err, story.ErrNotFound)
	require.NotErrorIs(t, err, story.ErrInvalidID)
}

func TestDeleteMissing(t *testing.T) {
	svc := newTestService()
	err := svc.Delete(context.Background(), "507f1f77bcf86cd799439011")
	require.ErrorIs(t, err, story.ErrNotFound)
}

func TestListPaginationInvariants(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		_, err := svc.Create(ctx, CreateStory{Title: "T", Author: "A", Content: "some content here"})
		require.NoError(t, err)
	}

	cases := []struct {
		page, limit int
		wantItems   int
	}{
		{1, 3, 3},
		{2, 3, 3},
		{3, 3, 1},
		{4, 3, 0},
		{1, 10, 7},
	}
	for _, tc := range cases {
		page, err := svc.List(ctx, story.ListQuery{Page: tc.page, Limit: tc.limit})
		require.NoError(t, err)
		assert.Equal(t, int64(7), page.Total)
		assert.Equal(t, tc.page, page.Page)
		assert.Equal(t, tc.limit, page.Limit)
		assert.Len(t, page.Items, tc.wantItems, "page=%d limit=%d", tc.page, tc.limit)
	}
}

func TestListEmpty(t *testing.T) {
	svc := newTestService()
	page, err := svc.List(context.Background(), story.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	assert.Empty(t, page.Items)
}

func TestStatsDerivedFigures(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	mk := func(status string, words int) {
		content := strings.TrimSpace(strings.Repeat("word ", words))
		_, err := svc.Create(ctx, CreateStory{Title: "T", Author: "A", Content: content, Status: status})
		require.NoError(t, err)
	}
	mk(story.StatusPublished, 100)
	mk(story.StatusPublished, 200)
	mk(story.StatusDraft, 40)
	mk(story.StatusArchived, 60)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalStories)
	assert.Equal(t, int64(2), stats.PublishedStories)
	assert.Equal(t, int64(1), stats.DraftStories)
	// archived is derived, not separately counted
	assert.Equal(t, int64(1), stats.ArchivedStories)
	assert.Equal(t, int64(400), stats.TotalWordCount)
	assert.Equal(t, int64(100), stats.AverageWordsPerStory)
	assert.Len(t, stats.RecentStories, 2)
}

func TestStatsEmpty(t *testing.T) {
	svc := newTestService()
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalStories)
	assert.Equal(t, int64(0), stats.AverageWordsPerStory)
}
