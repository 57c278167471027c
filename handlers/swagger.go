package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(r gin.IRouter) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>prompthub API</title>
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

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "prompthub", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Prompt": {
        "type": "object",
        "properties": {
          "id": {"type":"string"}, "userId": {"type":"string"}, "author": {"type":"string"},
          "username": {"type":"string"}, "title": {"type":"string"}, "content": {"type":"string"},
          "tags": {"type":"array","items":{"type":"string"}}, "category": {"type":"string"},
          "models": {"type":"array","items":{"type":"string"}}, "isPublic": {"type":"boolean"},
          "upvotes": {"type":"integer"}, "views": {"type":"integer"}, "createdAt": {"type":"string","format":"date-time"}
        }
      },
      "User": {
        "type": "object",
        "properties": {
          "id": {"type":"string"}, "externalId": {"type":"string"}, "email": {"type":"string"},
          "fullName": {"type":"string"}, "imageUrl": {"type":"string"}, "username": {"type":"string"}
        }
      }
    }
  },
  "paths": {
    "/api/prompts": {
      "get": {
        "summary": "List prompts newest first",
        "parameters": [
          {"name":"userId","in":"query","schema":{"type":"string"}},
          {"name":"filter","in":"query","schema":{"type":"string","enum":["public","private"]}}
        ],
        "responses": { "200": { "description": "prompt list; unknown filter values list all" } }
      },
      "post": {
        "summary": "Create a prompt",
        "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Prompt"}}}},
        "responses": { "201": { "description": "created" }, "400": { "description": "missing fields" } }
      }
    },
    "/api/prompts/user/{userId}": {
      "get": { "summary": "List one user's prompts", "responses": { "200": { "description": "prompt list" } } }
    },
    "/api/prompts/{id}": {
      "get": { "summary": "Get a prompt and count a view", "responses": { "200": { "description": "prompt" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a prompt", "responses": { "200": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/api/prompts/{id}/upvote": {
      "put": {
        "summary": "Add or remove an upvote",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"action":{"type":"string","enum":["upvote","remove"]}}}}}},
        "responses": { "200": { "description": "new upvote count" }, "400": { "description": "bad action" }, "404": { "description": "not found" } }
      }
    },
    "/api/users/{externalId}": {
      "get": { "summary": "Get a user", "responses": { "200": { "description": "user" }, "404": { "description": "not found" } } },
      "put": {
        "summary": "Set the username",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"username":{"type":"string"}}}}}},
        "responses": { "200": { "description": "user" }, "400": { "description": "missing username" }, "404": { "description": "not found" }, "409": { "description": "username taken" } }
      }
    },
    "/api/users/sync": {
      "post": { "summary": "Create or refresh a user profile on sign-in", "responses": { "200": { "description": "user" } } }
    },
    "/api/users/{externalId}/export": {
      "post": { "summary": "Export a user's prompts to object storage", "responses": { "201": { "description": "download link" }, "503": { "description": "storage not configured" } } }
    },
    "/api/v1/me": {
      "get": { "summary": "Upsert and return the caller from token claims", "responses": { "200": { "description": "user" }, "401": { "description": "invalid token" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
