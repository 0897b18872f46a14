package service

import (
	"context"
	"fmt"
	"math"

	"github.com/enchanted-tales/backend/internal/story"
	"github.com/enchanted-tales/backend/internal/story/repository"
)

// Service defines the story business operations used by the handler and
// upload layers.
type Service interface {
	Create(ctx context.Context, in CreateStory) (*story.Story, error)
	List(ctx context.Context, q story.ListQuery) (*Page, error)
	Get(ctx context.Context, id string) (*story.Story, error)
	Update(ctx context.Context, id string, in UpdateStory) (*story.Story, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*story.Stats, error)
}

// CreateStory is the input for creating a story. Title, Author and Content are
// expected to already satisfy the boundary length constraints; derived metrics
// and defaults are this service's responsibility.
type CreateStory struct {
	Title   string
	Author  string
	Content string
	Tags    []string
	Genre   string
	Status  string

	// File provenance, present only for upload-originated stories.
	FileInfo *FileInfo
}

type FileInfo struct {
	OriginalFilename string
	MimeType         string
	FileSize         int64
}

// UpdateStory is a partial update; nil fields are left untouched. A content
// change triggers recomputation of all derived metrics.
type UpdateStory struct {
	Title   *string
	Author  *string
	Content *string
	Tags    *[]string
	Genre   *string
	Status  *string
}

// Page is one page of list results. The derived pagination block
// (totalPages/hasNext/hasPrev) is built at the response boundary from these
// figures.
type Page struct {
	Items []*story.Story `json:"items"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Total int64          `json:"total"`
}

type storyService struct {
	repo repository.Repository
}

// New returns a Service backed by the given repository.
func New(repo repository.Repository) Service {
	return &storyService{repo: repo}
}

func (s *storyService) Create(ctx context.Context, in CreateStory) (*story.Story, error) {
	m := story.ComputeMetrics(in.Content)

	doc := &story.Story{
		Title:          in.Title,
		Author:         in.Author,
		Content:        in.Content,
		Preview:        m.Preview,
		ReadTime:       m.ReadTime,
		WordCount:      m.WordCount,
		CharacterCount: m.CharacterCount,
		Tags:           in.Tags,
		Genre:          in.Genre,
		Status:         in.Status,
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	if doc.Genre == "" {
		doc.Genre = "General"
	}
	if doc.Status == "" {
		doc.Status = story.StatusPublished
	}
	if in.FileInfo != nil {
		doc.OriginalFilename = in.FileInfo.OriginalFilename
		doc.MimeType = in.FileInfo.MimeType
		doc.FileSize = in.FileInfo.FileSize
	}

	created, err := s.repo.Create(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}
	return created, nil
}

func (s *storyService) List(ctx context.Context, q story.ListQuery) (*Page, error) {
	q.Normalize()
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return &Page{
		Items: items,
		Page:  q.Page,
		Limit: q.Limit,
		Total: total,
	}, nil
}

func (s *storyService) Get(ctx context.Context, id string) (*story.Story, error) {
	return s.repo.Get(ctx, id)
}

func (s *storyService) Update(ctx context.Context, id string, in UpdateStory) (*story.Story, error) {
	upd := story.Update{
		Title:   in.Title,
		Author:  in.Author,
		Content: in.Content,
		Tags:    in.Tags,
		Genre:   in.Genre,
		Status:  in.Status,
	}
	if in.Content != nil {
		m := story.ComputeMetrics(*in.Content)
		upd.Metrics = &m
	}
	return s.repo.Update(ctx, id, upd)
}

func (s *storyService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *storyService) Stats(ctx context.Context) (*story.Stats, error) {
	snap, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	avg := int64(0)
	if snap.Total > 0 {
		avg = int64(math.Round(float64(snap.TotalWords) / float64(snap.Total)))
	}
	return &story.Stats{
		TotalStories:         snap.Total,
		PublishedStories:     snap.Published,
		DraftStories:         snap.Draft,
		ArchivedStories:      snap.Total - snap.Published - snap.Draft,
		TotalWordCount:       snap.TotalWords,
		AverageWordsPerStory: avg,
		GenreDistribution:    snap.Genres,
		RecentStories:        snap.Recent,
	}, nil
}
