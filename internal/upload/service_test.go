package upload

import (
	"context"
	"fmt"
	"testing"

	"github.com/enchanted-tales/backend/internal/story"
	"github.com/enchanted-tales/backend/internal/story/repository"
	"github.com/enchanted-tales/backend/internal/story/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUploadService() (*Service, service.Service) {
	stories := service.New(repository.NewMemoryRepo())
	return NewService(stories, nil, 0), stories
}

func txtFile(name, content string) File {
	return File{Name: name, MimeType: "text/plain", Size: int64(len(content)), Data: []byte(content)}
}

func TestUploadStorySingle(t *testing.T) {
	svc, _ := newTestUploadService()

	res, err := svc.UploadStory(context.Background(), txtFile("the_whispering-woods.txt", "Once upon a midnight dreary."), StoryOptions{})
	require.NoError(t, err)

	assert.Equal(t, "The Whispering Woods", res.Story.Title)
	assert.Equal(t, "Anonymous", res.Story.Author)
	assert.Equal(t, "General", res.Story.Genre)
	assert.Equal(t, story.StatusPublished, res.Story.Status)
	assert.Equal(t, "the_whispering-woods.txt", res.Story.OriginalFilename)
	assert.Equal(t, "text/plain", res.Story.MimeType)
	assert.Equal(t, "the_whispering-woods.txt", res.FileInfo.OriginalName)
}

func TestUploadStoryExplicitMetadata(t *testing.T) {
	svc, _ := newTestUploadService()

	res, err := svc.UploadStory(context.Background(), txtFile("raw.txt", "content"), StoryOptions{
		Title:  "My Title",
		Author: "Luna Silvermoon",
		Genre:  "Fantasy",
		Tags:   []string{"magic"},
	})
	require.NoError(t, err)
	assert.Equal(t, "My Title", res.Story.Title)
	assert.Equal(t, "Luna Silvermoon", res.Story.Author)
	assert.Equal(t, "Fantasy", res.Story.Genre)
	assert.Equal(t, []string{"magic"}, res.Story.Tags)
}

func TestUploadStoryRejectsBadTypeAndSize(t *testing.T) {
	svc, _ := newTestUploadService()
	ctx := context.Background()

	// wrong mime
	_, err := svc.UploadStory(ctx, File{Name: "a.txt", MimeType: "application/pdf", Data: []byte("x")}, StoryOptions{})
	require.Error(t, err)

	// wrong extension even with the right mime
	_, err = svc.UploadStory(ctx, File{Name: "a.pdf", MimeType: "text/plain", Data: []byte("x")}, StoryOptions{})
	require.Error(t, err)

	// oversized
	_, err = svc.UploadStory(ctx, File{Name: "a.txt", MimeType: "text/plain", Size: DefaultMaxFileSize + 1}, StoryOptions{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "maximum size")
}

func TestUploadStoryRejectsEmptyContent(t *testing.T) {
	svc, _ := newTestUploadService()
	_, err := svc.UploadStory(context.Background(), txtFile("empty.txt", "   \n\t  "), StoryOptions{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty")
}

func TestIngestBatchEmptyAndTooLarge(t *testing.T) {
	svc, stories := newTestUploadService()
	ctx := context.Background()

	_, err := svc.IngestBatch(ctx, nil, "", "")
	require.Error(t, err)

	files := make([]File, 11)
	for i := range files {
		files[i] = txtFile(fmt.Sprintf("f%d.txt", i), "content")
	}
	_, err = svc.IngestBatch(ctx, files, "", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "maximum 10 files")

	// fail-fast: nothing was written
	page, err := stories.List(ctx, story.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
}

func TestIngestBatchAbortsOnInvalidFile(t *testing.T) {
	svc, stories := newTestUploadService()
	ctx := context.Background()

	// one bad file poisons the whole batch, even though the others are fine
	files := []File{
		txtFile("good-one.txt", "a perfectly fine story"),
		{Name: "bad.pdf", MimeType: "application/pdf", Data: []byte("nope")},
		txtFile("good-two.txt", "another fine story"),
	}
	_, err := svc.IngestBatch(ctx, files, "", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad.pdf")

	page, err := stories.List(ctx, story.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total, "batch-level validation must abort before any write")
}

func TestIngestBatchPartialSuccess(t *testing.T) {
	svc, _ := newTestUploadService()

	// empty-after-trim content is a per-file failure, not a batch failure
	files := []File{
		txtFile("first_story.txt", "Once there was a fox."),
		txtFile("second_story.txt", "Once there was an owl."),
		txtFile("hollow.txt", "   "),
	}
	report, err := svc.IngestBatch(context.Background(), files, "Luna Silvermoon", "Fantasy")
	require.NoError(t, err)

	assert.Len(t, report.Successful, 2)
	assert.Len(t, report.Failed, 1)
	assert.Equal(t, 3, report.Summary.Total)
	assert.Equal(t, 2, report.Summary.Successful)
	assert.Equal(t, 1, report.Summary.Failed)
	assert.Equal(t, "hollow.txt", report.Failed[0].Filename)

	// summary invariant
	assert.Equal(t, report.Summary.Total, report.Summary.Successful+report.Summary.Failed)

	// defaults applied to every ingested file
	for _, res := range report.Successful {
		assert.Equal(t, "Luna Silvermoon", res.Story.Author)
		assert.Equal(t, "Fantasy", res.Story.Genre)
	}
	assert.Equal(t, "First Story", report.Successful[0].Story.Title)
}

func TestValidFileType(t *testing.T) {
	assert.True(t, ValidFileType(File{Name: "a.txt", MimeType: "text/plain"}))
	assert.True(t, ValidFileType(File{Name: "A.TXT", MimeType: "text/plain"}))
	assert.True(t, ValidFileType(File{Name: "a.txt", MimeType: "text/plain; charset=utf-8"}))
	assert.False(t, ValidFileType(File{Name: "a.txt", MimeType: "text/html"}))
	assert.False(t, ValidFileType(File{Name: "a.md", MimeType: "text/plain"}))
}

func TestTitleFromFilename(t *testing.T) {
	cases := map[string]string{
		"my-story.txt":             "My Story",
		"the_whispering_woods.txt": "The Whispering Woods",
		"UPPER_CASE.txt":           "Upper Case",
		"single.txt":               "Single",
		"mixed-up_name.txt":        "Mixed Up Name",
	}
	for in, want := range cases {
		assert.Equal(t, want, TitleFromFilename(in), "filename %q", in)
	}
}
