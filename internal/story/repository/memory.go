package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/enchanted-tales/backend/internal/story"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory repository used for unit tests and for running
// the service without a MongoDB instance. It mirrors the Mongo repository's
// semantics: ObjectID identifiers, case-insensitive substring filters,
// single-field sort and skip/limit pagination.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*story.Story
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*story.Story)}
}

func (m *MemoryRepo) Create(ctx context.Context, s *story.Story) (*story.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	cp := *s
	m.store[s.ID.Hex()] = &cp
	return s, nil
}

func (m *MemoryRepo) List(ctx context.Context, q story.ListQuery) ([]*story.Story, int64, error) {
	q.Normalize()

	m.mu.RLock()
	matched := make([]*story.Story, 0, len(m.store))
	for _, s := range m.store {
		if matches(q, s) {
			cp := *s
			matched = append(matched, &cp)
		}
	}
	m.mu.RUnlock()

	asc := q.SortOrder == "asc"
	sort.SliceStable(matched, func(i, j int) bool {
		less := sortLess(matched[i], matched[j], q.SortBy)
		if asc {
			return less
		}
		return sortLess(matched[j], matched[i], q.SortBy)
	})

	total := int64(len(matched))
	start := q.Skip()
	if start > total {
		start = total
	}
	end := start + int64(q.Limit)
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*story.Story, error) {
	if _, err := parseID(id); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[id]
	if !ok {
		return nil, story.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryRepo) Update(ctx context.Context, id string, upd story.Update) (*story.Story, error) {
	if _, err := parseID(id); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[id]
	if !ok {
		return nil, story.ErrNotFound
	}
	if upd.Title != nil {
		s.Title = *upd.Title
	}
	if upd.Author != nil {
		s.Author = *upd.Author
	}
	if upd.Content != nil {
		s.Content = *upd.Content
	}
	if upd.Tags != nil {
		s.Tags = *upd.Tags
	}
	if upd.Genre != nil {
		s.Genre = *upd.Genre
	}
	if upd.Status != nil {
		s.Status = *upd.Status
	}
	if upd.Metrics != nil {
		s.WordCount = upd.Metrics.WordCount
		s.CharacterCount = upd.Metrics.CharacterCount
		s.ReadTime = upd.Metrics.ReadTime
		s.Preview = upd.Metrics.Preview
	}
	s.UpdatedAt = time.Now().UTC()
	cp := *s
	return &cp, nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := parseID(id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return story.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepo) Stats(ctx context.Context) (*StatsSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := &StatsSnapshot{}
	genreCounts := map[string]int64{}
	published := []*story.Story{}
	for _, s := range m.store {
		snap.Total++
		snap.TotalWords += int64(s.WordCount)
		genreCounts[s.Genre]++
		switch s.Status {
		case story.StatusPublished:
			snap.Published++
			published = append(published, s)
		case story.StatusDraft:
			snap.Draft++
		}
	}

	snap.Genres = make([]story.GenreCount, 0, len(genreCounts))
	for g, n := range genreCounts {
		snap.Genres = append(snap.Genres, story.GenreCount{Genre: g, Count: n})
	}
	sort.Slice(snap.Genres, func(i, j int) bool {
		if snap.Genres[i].Count != snap.Genres[j].Count {
			return snap.Genres[i].Count > snap.Genres[j].Count
		}
		return snap.Genres[i].Genre < snap.Genres[j].Genre
	})
	if len(snap.Genres) > 10 {
		snap.Genres = snap.Genres[:10]
	}

	sort.Slice(published, func(i, j int) bool {
		return published[i].CreatedAt.After(published[j].CreatedAt)
	})
	if len(published) > 5 {
		published = published[:5]
	}
	snap.Recent = make([]story.RecentStory, 0, len(published))
	for _, s := range published {
		snap.Recent = append(snap.Recent, story.RecentStory{
			ID:        s.ID,
			Title:     s.Title,
			Author:    s.Author,
			CreatedAt: s.CreatedAt,
			ReadTime:  s.ReadTime,
		})
	}
	return snap, nil
}

func matches(q story.ListQuery, s *story.Story) bool {
	if q.Status != "" && s.Status != q.Status {
		return false
	}
	if q.Genre != "" && !containsFold(s.Genre, q.Genre) {
		return false
	}
	if q.Author != "" && !containsFold(s.Author, q.Author) {
		return false
	}
	if q.Search != "" {
		if containsFold(s.Title, q.Search) || containsFold(s.Author, q.Search) || containsFold(s.Content, q.Search) {
			return true
		}
		for _, tag := range s.Tags {
			if containsFold(tag, q.Search) {
				return true
			}
		}
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func sortLess(a, b *story.Story, field string) bool {
	switch field {
	case "updatedAt":
		return a.UpdatedAt.Before(b.UpdatedAt)
	case "title":
		return a.Title < b.Title
	case "author":
		return a.Author < b.Author
	case "wordCount":
		return a.WordCount < b.WordCount
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}
