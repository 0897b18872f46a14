package handler

import (
	"errors"
	"net/http"

	"github.com/enchanted-tales/backend/internal/story"
	"github.com/enchanted-tales/backend/internal/story/service"
	"github.com/enchanted-tales/backend/pkg/metrics"
	"github.com/enchanted-tales/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type createStoryRequest struct {
	Title   string   `json:"title" binding:"required,min=1,max=200"`
	Author  string   `json:"author" binding:"required,min=1,max=100"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags"`
	Genre   string   `json:"genre"`
	Status  string   `json:"status" binding:"omitempty,oneof=draft published archived"`
}

type updateStoryRequest struct {
	Title   *string   `json:"title" binding:"omitempty,min=1,max=200"`
	Author  *string   `json:"author" binding:"omitempty,min=1,max=100"`
	Content *string   `json:"content" binding:"omitempty,min=1"`
	Tags    *[]string `json:"tags"`
	Genre   *string   `json:"genre"`
	Status  *string   `json:"status" binding:"omitempty,oneof=draft published archived"`
}

type listStoriesRequest struct {
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	Search    string `form:"search"`
	Status    string `form:"status" binding:"omitempty,oneof=draft published archived"`
	Genre     string `form:"genre"`
	Author    string `form:"author"`
	SortBy    string `form:"sortBy" binding:"omitempty,oneof=createdAt updatedAt title author wordCount"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
}

// RegisterStoryRoutes registers the story CRUD and stats endpoints under
// /api/v1/stories.
func RegisterStoryRoutes(r *gin.Engine, svc service.Service) {
	g := r.Group("/api/v1/stories")
	g.POST("", createStory(svc))
	g.GET("", listStories(svc))
	g.GET("/stats", getStats(svc))
	g.GET("/:id", getStory(svc))
	g.PATCH("/:id", updateStory(svc))
	g.DELETE("/:id", deleteStory(svc))
}

func createStory(svc service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createStoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Err("Validation failed", err.Error()))
			return
		}
		s, err := svc.Create(c.Request.Context(), service.CreateStory{
			Title:   req.Title,
			Author:  req.Author,
			Content: req.Content,
			Tags:    req.Tags,
			Genre:   req.Genre,
			Status:  req.Status,
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Err("Failed to create story", err.Error()))
			return
		}
		metrics.StoriesCreated.WithLabelValues("api").Inc()
		c.JSON(http.StatusCreated, response.OK("Story created successfully", s))
	}
}

func listStories(svc service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req listStoriesRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Err("Validation failed", err.Error()))
			return
		}
		page, err := svc.List(c.Request.Context(), story.ListQuery{
			Page:      req.Page,
			Limit:     req.Limit,
			Search:    req.Search,
			Status:    req.Status,
			Genre:     req.Genre,
			Author:    req.Author,
			SortBy:    req.SortBy,
			SortOrder: req.SortOrder,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.Err("Failed to retrieve stories", err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.Paginated("Stories retrieved successfully", page.Items,
			response.NewPagination(page.Page, page.Limit, page.Total)))
	}
}

func getStats(svc service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.Err("Failed to retrieve statistics", err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OK("Statistics retrieved successfully", stats))
	}
}

func getStory(svc service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OK("Story retrieved successfully", s))
	}
}

func updateStory(svc service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateStoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Err("Validation failed", err.Error()))
			return
		}
		s, err := svc.Update(c.Request.Context(), c.Param("id"), service.UpdateStory{
			Title:   req.Title,
			Author:  req.Author,
			Content: req.Content,
			Tags:    req.Tags,
			Genre:   req.Genre,
			Status:  req.Status,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OK("Story updated successfully", s))
	}
}

func deleteStory(svc service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OK("Story deleted successfully", nil))
	}
}

// respondError maps domain errors to HTTP statuses, keeping NotFound (404)
// and InvalidArgument (400) distinguishable.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, story.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Err("Story not found", err.Error()))
	case errors.Is(err, story.ErrInvalidID):
		c.JSON(http.StatusBadRequest, response.Err("Invalid story ID", err.Error()))
	default:
		c.JSON(http.StatusBadRequest, response.Err("Request failed", err.Error()))
	}
}
