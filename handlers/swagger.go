package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
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
    <title>portfolio-api — Swagger</title>
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

// Minimal OpenAPI document describing the public and admin endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "portfolio-api", "version": "v0.1.0" },
  "paths": {
    "/api/hero": { "get": { "summary": "Hero section", "responses": { "200": { "description": "hero fields" } } } },
    "/api/about": { "get": { "summary": "About text", "responses": { "200": { "description": "about fields" } } } },
    "/api/services": { "get": { "summary": "List services", "responses": { "200": { "description": "services" } } } },
    "/api/experiences": { "get": { "summary": "List experiences", "responses": { "200": { "description": "experiences" } } } },
    "/api/projects": { "get": { "summary": "List projects", "responses": { "200": { "description": "projects" } } } },
    "/api/testimonials": { "get": { "summary": "List testimonials", "responses": { "200": { "description": "testimonials" } } } },
    "/api/technologies": { "get": { "summary": "List technologies", "responses": { "200": { "description": "technologies" } } } },
    "/api/contact": {
      "post": {
        "summary": "Submit a contact message",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"name":{"type":"string"},"email":{"type":"string"},"message":{"type":"string"}}}}}},
        "responses": { "201": { "description": "message stored" }, "400": { "description": "missing field" } }
      }
    },
    "/auth/login": {
      "post": {
        "summary": "Password or SSO login",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"mode":{"type":"string"},"username":{"type":"string"},"password":{"type":"string"},"id_token":{"type":"string"}}}}}},
        "responses": { "200": { "description": "tokens returned" }, "401": { "description": "authentication failed" } }
      }
    },
    "/auth/refresh": {
      "post": { "summary": "Refresh access token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Logout and invalidate refresh token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "logged out" } } }
    },
    "/api/admin/content/{type}": {
      "get": { "summary": "List records of a content type", "responses": { "200": { "description": "records" }, "404": { "description": "unknown type" } } },
      "post": { "summary": "Create a record (multipart: fields plus asset files)", "responses": { "201": { "description": "created" }, "200": { "description": "singleton merged" }, "400": { "description": "validation failed" } } }
    },
    "/api/admin/content/{type}/{id}": {
      "get": { "summary": "Fetch one record by id", "responses": { "200": { "description": "record" }, "404": { "description": "not found" } } },
      "put": { "summary": "Merge fields into a record", "responses": { "200": { "description": "updated" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a record and its assets", "responses": { "204": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/api/admin/contacts": { "get": { "summary": "List received contact messages", "responses": { "200": { "description": "messages" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
