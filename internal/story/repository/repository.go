package repository

import (
	"context"

	"github.com/enchanted-tales/backend/internal/story"
)

// Repository is the persistence contract for stories. Implementations return
// story.ErrNotFound when an id matches no record and story.ErrInvalidID when
// an id is not a well-formed ObjectID hex string; the two must stay
// distinguishable for callers.
type Repository interface {
	Create(ctx context.Context, s *story.Story) (*story.Story, error)
	List(ctx context.Context, q story.ListQuery) ([]*story.Story, int64, error)
	Get(ctx context.Context, id string) (*story.Story, error)
	Update(ctx context.Context, id string, upd story.Update) (*story.Story, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*StatsSnapshot, error)
}

// StatsSnapshot holds the raw aggregation results; derived figures
// (archived count, average words) are computed by the service layer.
type StatsSnapshot struct {
	Total      int64
	Published  int64
	Draft      int64
	TotalWords int64
	Genres     []story.GenreCount
	Recent     []story.RecentStory
}
