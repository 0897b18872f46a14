package upload

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/enchanted-tales/backend/internal/storage"
	"github.com/enchanted-tales/backend/internal/story"
	"github.com/enchanted-tales/backend/internal/story/service"
	"github.com/enchanted-tales/backend/pkg/logger"
	"github.com/enchanted-tales/backend/pkg/metrics"
)

const (
	// DefaultMaxFileSize is the per-file size ceiling (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024
	// MaxBatchFiles is the per-request file count ceiling for bulk uploads.
	MaxBatchFiles = 10
)

// File is one uploaded text blob as delivered by the transport layer.
type File struct {
	Name     string
	MimeType string
	Size     int64
	Data     []byte
}

// StoryOptions are the optional metadata fields of a single-file upload.
// Empty fields fall back to defaults (title from filename, author
// "Anonymous", genre "General").
type StoryOptions struct {
	Title  string
	Author string
	Tags   []string
	Genre  string
}

// Result pairs a created story with the file it came from.
type Result struct {
	Story    *story.Story `json:"story"`
	FileInfo FileInfo     `json:"fileInfo"`
}

type FileInfo struct {
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimeType"`
}

// FileError records a per-file ingestion failure.
type FileError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// BatchReport is the partial-success report of a bulk ingestion.
// Summary always satisfies successful+failed == total == input file count.
type BatchReport struct {
	Successful []*Result    `json:"successful"`
	Failed     []FileError  `json:"failed"`
	Summary    BatchSummary `json:"summary"`
}

type BatchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// Service ingests uploaded text files into stories. The archive store is
// optional; when configured, the original file bytes are kept in object
// storage next to the parsed story.
type Service struct {
	stories     service.Service
	archive     *storage.MinIOStorage
	maxFileSize int64
}

func NewService(stories service.Service, archive *storage.MinIOStorage, maxFileSize int64) *Service {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Service{stories: stories, archive: archive, maxFileSize: maxFileSize}
}

// UploadStory validates and ingests a single text file as a story.
func (s *Service) UploadStory(ctx context.Context, f File, opts StoryOptions) (*Result, error) {
	if !ValidFileType(f) {
		metrics.UploadFiles.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("invalid file type for %s: only .txt files are allowed", f.Name)
	}
	if !s.validSize(f) {
		metrics.UploadFiles.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("file %s exceeds the maximum size limit of %dMB", f.Name, s.maxFileSize/(1024*1024))
	}
	res, err := s.ingestFile(ctx, f, opts)
	if err != nil {
		metrics.UploadFiles.WithLabelValues("rejected").Inc()
		return nil, err
	}
	metrics.UploadFiles.WithLabelValues("accepted").Inc()
	return res, nil
}

// IngestBatch ingests up to MaxBatchFiles text files. Batch-level validation
// (empty batch, too many files, any file failing the type or size check)
// aborts the whole batch before any story is written. Creation failures after
// that point are isolated per file and collected into the report instead.
func (s *Service) IngestBatch(ctx context.Context, files []File, defaultAuthor, defaultGenre string) (*BatchReport, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files provided")
	}
	if len(files) > MaxBatchFiles {
		return nil, fmt.Errorf("maximum %d files allowed per upload", MaxBatchFiles)
	}
	for _, f := range files {
		if !ValidFileType(f) {
			return nil, fmt.Errorf("invalid file type for %s: only .txt files are allowed", f.Name)
		}
		if !s.validSize(f) {
			return nil, fmt.Errorf("file %s exceeds the maximum size limit of %dMB", f.Name, s.maxFileSize/(1024*1024))
		}
	}

	report := &BatchReport{Successful: []*Result{}, Failed: []FileError{}}
	for _, f := range files {
		res, err := s.ingestFile(ctx, f, StoryOptions{Author: defaultAuthor, Genre: defaultGenre})
		if err != nil {
			metrics.UploadFiles.WithLabelValues("rejected").Inc()
			report.Failed = append(report.Failed, FileError{Filename: f.Name, Error: err.Error()})
			continue
		}
		metrics.UploadFiles.WithLabelValues("accepted").Inc()
		report.Successful = append(report.Successful, res)
	}
	report.Summary = BatchSummary{
		Total:      len(files),
		Successful: len(report.Successful),
		Failed:     len(report.Failed),
	}
	return report, nil
}

func (s *Service) ingestFile(ctx context.Context, f File, opts StoryOptions) (*Result, error) {
	content := strings.TrimSpace(string(f.Data))
	if content == "" {
		return nil, fmt.Errorf("file is empty or contains no readable content")
	}

	title := opts.Title
	if title == "" {
		title = TitleFromFilename(f.Name)
	}
	author := opts.Author
	if author == "" {
		author = "Anonymous"
	}
	tags := opts.Tags
	if tags == nil {
		tags = []string{}
	}

	created, err := s.stories.Create(ctx, service.CreateStory{
		Title:   title,
		Author:  author,
		Content: content,
		Tags:    tags,
		Genre:   opts.Genre,
		Status:  story.StatusPublished,
		FileInfo: &service.FileInfo{
			OriginalFilename: f.Name,
			MimeType:         f.MimeType,
			FileSize:         f.Size,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to process file: %w", err)
	}
	metrics.StoriesCreated.WithLabelValues("upload").Inc()

	// best effort: archive the original bytes; the story itself is already persisted
	if s.archive != nil {
		key := ArchiveKey(created.ID.Hex(), f.Name)
		if err := s.archive.UploadFile(ctx, key, bytes.NewReader(f.Data), f.Size, f.MimeType); err != nil {
			logger.Warnf("failed to archive original file %s: %v", f.Name, err)
		}
	}

	return &Result{
		Story: created,
		FileInfo: FileInfo{
			OriginalName: f.Name,
			Size:         f.Size,
			MimeType:     f.MimeType,
		},
	}, nil
}

func (s *Service) validSize(f File) bool {
	return f.Size <= s.maxFileSize
}

// ValidFileType accepts only plain-text uploads: the declared mime type must
// be text/plain and the filename must carry a .txt extension.
func ValidFileType(f File) bool {
	mime := f.MimeType
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	return mime == "text/plain" && strings.HasSuffix(strings.ToLower(f.Name), ".txt")
}

// TitleFromFilename derives a story title from an uploaded filename: the
// extension is stripped, underscores and hyphens become spaces, and each word
// is title-cased.
func TitleFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	words := strings.Split(base, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// ArchiveKey is the object storage key for an uploaded original file.
func ArchiveKey(storyID, filename string) string {
	return "uploads/" + storyID + "/" + filepath.Base(filename)
}
