package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the story API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Enchanted Tales API - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the story and upload endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "Enchanted Tales API", "description": "A magical storytelling platform API", "version": "1.0.0" },
  "paths": {
    "/api/v1/stories": {
      "post": {
        "summary": "Create a new story",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["title","author","content"],"properties":{"title":{"type":"string","maxLength":200},"author":{"type":"string","maxLength":100},"content":{"type":"string"},"tags":{"type":"array","items":{"type":"string"}},"genre":{"type":"string"},"status":{"type":"string","enum":["draft","published","archived"]}}}}}},
        "responses": { "201": { "description": "story created" }, "400": { "description": "validation failed" } }
      },
      "get": {
        "summary": "List stories with pagination and filtering",
        "parameters": [
          {"name":"page","in":"query","schema":{"type":"integer","default":1}},
          {"name":"limit","in":"query","schema":{"type":"integer","default":10,"maximum":100}},
          {"name":"search","in":"query","schema":{"type":"string"}},
          {"name":"status","in":"query","schema":{"type":"string","enum":["draft","published","archived"]}},
          {"name":"genre","in":"query","schema":{"type":"string"}},
          {"name":"author","in":"query","schema":{"type":"string"}},
          {"name":"sortBy","in":"query","schema":{"type":"string","enum":["createdAt","updatedAt","title","author","wordCount"]}},
          {"name":"sortOrder","in":"query","schema":{"type":"string","enum":["asc","desc"]}}
        ],
        "responses": { "200": { "description": "paginated stories" } }
      }
    },
    "/api/v1/stories/stats": {
      "get": { "summary": "Get story statistics", "responses": { "200": { "description": "aggregate statistics" } } }
    },
    "/api/v1/stories/{id}": {
      "get": { "summary": "Get a story by ID", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "story" }, "400": { "description": "invalid id" }, "404": { "description": "not found" } } },
      "patch": { "summary": "Update a story", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "updated story" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a story", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/api/v1/upload/story": {
      "post": { "summary": "Upload a single story file (.txt)", "responses": { "201": { "description": "story created from file" }, "400": { "description": "invalid file" } } }
    },
    "/api/v1/upload/stories/bulk": {
      "post": { "summary": "Upload up to 10 story files (.txt)", "responses": { "201": { "description": "partial-success report" }, "400": { "description": "batch rejected" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "health report" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
