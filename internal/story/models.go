package story

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Publication statuses. The status field is free-form within this set: any
// status may be changed to any other via update.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

var (
	ErrNotFound  = errors.New("story not found")
	ErrInvalidID = errors.New("invalid story id")
)

// ValidStatus reports whether s is one of the known publication statuses.
func ValidStatus(s string) bool {
	return s == StatusDraft || s == StatusPublished || s == StatusArchived
}

// Story is the persisted story document. Preview, ReadTime, WordCount and
// CharacterCount are derived from Content and recomputed on every content
// change (see ComputeMetrics).
type Story struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title            string             `json:"title" bson:"title"`
	Author           string             `json:"author" bson:"author"`
	Content          string             `json:"content" bson:"content"`
	Preview          string             `json:"preview" bson:"preview"`
	ReadTime         string             `json:"readTime" bson:"readTime"`
	WordCount        int                `json:"wordCount" bson:"wordCount"`
	CharacterCount   int                `json:"characterCount" bson:"characterCount"`
	Tags             []string           `json:"tags" bson:"tags"`
	Genre            string             `json:"genre" bson:"genre"`
	Status           string             `json:"status" bson:"status"`
	OriginalFilename string             `json:"originalFilename,omitempty" bson:"originalFilename,omitempty"`
	MimeType         string             `json:"mimeType,omitempty" bson:"mimeType,omitempty"`
	FileSize         int64              `json:"fileSize,omitempty" bson:"fileSize,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Update describes a partial update. Nil fields are left untouched. Metrics
// must be set whenever Content is set so derived fields stay consistent.
type Update struct {
	Title   *string
	Author  *string
	Content *string
	Tags    *[]string
	Genre   *string
	Status  *string
	Metrics *Metrics
}

// GenreCount is one bucket of the genre distribution aggregation.
type GenreCount struct {
	Genre string `json:"genre" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// RecentStory is the trimmed projection used for the stats dashboard.
type RecentStory struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Author    string             `json:"author" bson:"author"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	ReadTime  string             `json:"readTime" bson:"readTime"`
}

// Stats is the aggregate view over the whole collection.
type Stats struct {
	TotalStories         int64         `json:"totalStories"`
	PublishedStories     int64         `json:"publishedStories"`
	DraftStories         int64         `json:"draftStories"`
	ArchivedStories      int64         `json:"archivedStories"`
	TotalWordCount       int64         `json:"totalWordCount"`
	AverageWordsPerStory int64         `json:"averageWordsPerStory"`
	GenreDistribution    []GenreCount  `json:"genreDistribution"`
	RecentStories        []RecentStory `json:"recentStories"`
}
