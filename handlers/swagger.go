package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for one service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter, title, doc string) {
	page := fmt.Sprintf(swaggerHTML, title)
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, page)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>%s - Swagger</title>
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

const commonPaths = `
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }`

// UserAPIDoc describes the user service.
const UserAPIDoc = `{
  "openapi": "3.0.0",
  "info": { "title": "tasktracker-users", "version": "v1.0.0" },
  "components": { "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } } },
  "paths": {
    "/auth/signup": {
      "post": {
        "summary": "Register a user and return a token",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"name":{"type":"string"},"email":{"type":"string"},"password":{"type":"string"},"role":{"type":"string","enum":["USER","ADMIN"]}}}}}},
        "responses": { "201": { "description": "jwt returned" }, "400": { "description": "missing fields" }, "409": { "description": "email already registered" } }
      }
    },
    "/auth/login": {
      "post": {
        "summary": "Exchange email and password for a token",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "jwt returned" }, "401": { "description": "bad credentials" } }
      }
    },
    "/api/users/profile": { "get": { "summary": "Caller's user record", "security": [{"bearer": []}], "responses": { "200": { "description": "user" }, "401": { "description": "unauthenticated" } } } },
    "/api/users/{id}": { "get": { "summary": "User by id", "security": [{"bearer": []}], "responses": { "200": { "description": "user" }, "404": { "description": "not found" } } } },
    "/api/users": { "get": { "summary": "All users", "security": [{"bearer": []}], "responses": { "200": { "description": "users" } } } },` + commonPaths + `
  }
}`

// TaskAPIDoc describes the task service.
const TaskAPIDoc = `{
  "openapi": "3.0.0",
  "info": { "title": "tasktracker-tasks", "version": "v1.0.0" },
  "components": { "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } } },
  "security": [{"bearer": []}],
  "paths": {
    "/api/tasks": {
      "get": { "summary": "List tasks", "parameters": [{"name":"status","in":"query","schema":{"type":"string","enum":["PENDING","ASSIGNED","COMPLETED"]}}], "responses": { "200": { "description": "tasks" } } },
      "post": { "summary": "Create a task (admin)", "responses": { "201": { "description": "created" }, "400": { "description": "invalid task" }, "403": { "description": "not admin" } } }
    },
    "/api/tasks/user": { "get": { "summary": "Tasks assigned to the caller", "responses": { "200": { "description": "tasks" } } } },
    "/api/tasks/{id}": {
      "get": { "summary": "Get a task", "responses": { "200": { "description": "task" }, "404": { "description": "not found" } } },
      "put": { "summary": "Update a task", "responses": { "200": { "description": "task" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a task", "responses": { "200": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/api/tasks/{id}/user/{userId}/assigned": { "put": { "summary": "Assign a task", "responses": { "200": { "description": "task" } } } },
    "/api/tasks/{id}/complete": { "put": { "summary": "Complete a task", "responses": { "200": { "description": "task" } } } },
    "/api/tasks/{id}/image": {
      "put": { "summary": "Upload a task image (multipart field file)", "responses": { "200": { "description": "task" } } },
      "get": { "summary": "Presigned image URL", "responses": { "200": { "description": "url" } } }
    },` + commonPaths + `
  }
}`

// SubmissionAPIDoc describes the submission service.
const SubmissionAPIDoc = `{
  "openapi": "3.0.0",
  "info": { "title": "tasktracker-submissions", "version": "v1.0.0" },
  "components": { "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } } },
  "security": [{"bearer": []}],
  "paths": {
    "/api/submissions": {
      "get": { "summary": "List submissions", "responses": { "200": { "description": "submissions" } } },
      "post": { "summary": "Submit work for a task", "parameters": [{"name":"taskId","in":"query","required":true,"schema":{"type":"integer"}},{"name":"githubLink","in":"query","required":true,"schema":{"type":"string"}}], "responses": { "201": { "description": "created" }, "404": { "description": "task not found" } } }
    },
    "/api/submissions/{id}": {
      "get": { "summary": "Get a submission", "responses": { "200": { "description": "submission" } } },
      "put": { "summary": "Accept or decline", "parameters": [{"name":"status","in":"query","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "submission" } } },
      "delete": { "summary": "Delete a submission", "responses": { "204": { "description": "deleted" } } }
    },
    "/api/submissions/task/{taskId}": { "get": { "summary": "Submissions for a task", "responses": { "200": { "description": "submissions" } } } },
    "/api/submissions/{id}/update-link": { "put": { "summary": "Replace the link", "parameters": [{"name":"githubLink","in":"query","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "submission" } } } },` + commonPaths + `
  }
}`
