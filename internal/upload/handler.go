package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/enchanted-tales/backend/internal/story"
	"github.com/enchanted-tales/backend/internal/story/service"
	"github.com/enchanted-tales/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type uploadStoryForm struct {
	Title  string   `form:"title" binding:"omitempty,min=1,max=200"`
	Author string   `form:"author" binding:"omitempty,min=1,max=100"`
	Tags   []string `form:"tags"`
	Genre  string   `form:"genre"`
}

type bulkUploadForm struct {
	DefaultAuthor string `form:"defaultAuthor" binding:"omitempty,min=1,max=100"`
	DefaultGenre  string `form:"defaultGenre"`
}

// RegisterUploadRoutes registers the single and bulk file upload endpoints
// and, when an archive store is configured, the original-file download
// endpoint.
func RegisterUploadRoutes(r *gin.Engine, svc *Service, stories service.Service) {
	g := r.Group("/api/v1/upload")
	g.POST("/story", uploadStory(svc))
	g.POST("/stories/bulk", uploadStoriesBulk(svc))

	if svc.archive != nil {
		r.GET("/api/v1/stories/:id/original", downloadOriginal(svc, stories))
	}
}

func uploadStory(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form uploadStoryForm
		if err := c.ShouldBind(&form); err != nil {
			c.JSON(http.StatusBadRequest, response.Err("Validation failed", err.Error()))
			return
		}
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Err("Validation failed", "no file provided"))
			return
		}
		f, err := readFile(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Err("Failed to read file", err.Error()))
			return
		}

		result, err := svc.UploadStory(c.Request.Context(), f, StoryOptions{
			Title:  form.Title,
			Author: form.Author,
			Tags:   form.Tags,
			Genre:  form.Genre,
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Err("Failed to upload story", err.Error()))
			return
		}
		c.JSON(http.StatusCreated, response.OK("Story uploaded successfully", result))
	}
}

func uploadStoriesBulk(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form bulkUploadForm
		if err := c.ShouldBind(&form); err != nil {
			c.JSON(http.StatusBadRequest, response.Err("Validation failed", err.Error()))
			return
		}
		mf, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Err("Validation failed", err.Error()))
			return
		}
		headers := mf.File["files"]

		files := make([]File, 0, len(headers))
		for _, fh := range headers {
			f, err := readFile(fh)
			if err != nil {
				c.JSON(http.StatusBadRequest, response.Err("Failed to read file", err.Error()))
				return
			}
			files = append(files, f)
		}

		report, err := svc.IngestBatch(c.Request.Context(), files, form.DefaultAuthor, form.DefaultGenre)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Err("Failed to process files", err.Error()))
			return
		}
		msg := fmt.Sprintf("Processed %d files. %d successful, %d failed.",
			report.Summary.Total, report.Summary.Successful, report.Summary.Failed)
		c.JSON(http.StatusCreated, response.OK(msg, report))
	}
}

// downloadOriginal streams the archived original file of an uploaded story.
func downloadOriginal(svc *Service, stories service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := stories.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			switch {
			case errors.Is(err, story.ErrNotFound):
				c.JSON(http.StatusNotFound, response.Err("Story not found", err.Error()))
			case errors.Is(err, story.ErrInvalidID):
				c.JSON(http.StatusBadRequest, response.Err("Invalid story ID", err.Error()))
			default:
				c.JSON(http.StatusBadRequest, response.Err("Request failed", err.Error()))
			}
			return
		}
		if s.OriginalFilename == "" {
			c.JSON(http.StatusNotFound, response.Err("Story has no original file", "story was not created from an upload"))
			return
		}

		obj, err := svc.archive.DownloadFile(c.Request.Context(), ArchiveKey(s.ID.Hex(), s.OriginalFilename))
		if err != nil {
			c.JSON(http.StatusNotFound, response.Err("Original file not available", err.Error()))
			return
		}
		defer obj.Close()

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.OriginalFilename))
		c.Header("Content-Type", s.MimeType)
		io.Copy(c.Writer, obj)
	}
}

func readFile(fh *multipart.FileHeader) (File, error) {
	src, err := fh.Open()
	if err != nil {
		return File{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return File{
		Name:     fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Size:     fh.Size,
		Data:     data,
	}, nil
}
