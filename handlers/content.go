package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/byteedoc/portfolio-api/internal/content"
	"github.com/byteedoc/portfolio-api/internal/storage"
	"github.com/byteedoc/portfolio-api/internal/store"
	"github.com/byteedoc/portfolio-api/pkg/logger"
	"github.com/byteedoc/portfolio-api/pkg/metrics"
)

// ContentHandler serves the public portfolio content and the admin editor
// endpoints. Public reads go through viewers; admin writes go through the
// schema-driven editor.
type ContentHandler struct {
	docs    store.DocumentStore
	blobs   storage.BlobStore
	schemas map[string]content.Schema
}

func NewContentHandler(docs store.DocumentStore, blobs storage.BlobStore) *ContentHandler {
	return &ContentHandler{docs: docs, blobs: blobs, schemas: content.Schemas()}
}

// RegisterPublic registers the read-only site endpoints and the contact
// form. contactLimit middleware applies to the contact route only, so the
// form stays throttled even when the global rate limiter is off.
func (h *ContentHandler) RegisterPublic(rg *gin.RouterGroup, contactLimit ...gin.HandlerFunc) {
	rg.GET("/hero", h.getSingleton("hero"))
	rg.GET("/about", h.getSingleton("about"))
	rg.GET("/services", h.getList("services"))
	rg.GET("/experiences", h.getList("experiences"))
	rg.GET("/projects", h.getList("projects"))
	rg.GET("/testimonials", h.getList("testimonials"))
	rg.GET("/technologies", h.getList("technologies"))
	rg.POST("/contact", append(contactLimit, gin.HandlerFunc(h.SubmitContact))...)
}

// RegisterAdmin registers the editor endpoints. The caller is expected to
// wrap the group with auth middleware.
func (h *ContentHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/content/:type", h.AdminList)
	rg.GET("/content/:type/:id", h.AdminGet)
	rg.POST("/content/:type", h.AdminSave)
	rg.PUT("/content/:type/:id", h.AdminUpdate)
	rg.DELETE("/content/:type/:id", h.AdminDelete)
	rg.GET("/contacts", h.AdminListContacts)
}

func (h *ContentHandler) getSingleton(name string) gin.HandlerFunc {
	schema := h.schemas[name]
	return func(c *gin.Context) {
		v := content.NewViewer(schema, h.docs)
		c.JSON(http.StatusOK, v.LoadOne(c.Request.Context()))
	}
}

func (h *ContentHandler) getList(name string) gin.HandlerFunc {
	schema := h.schemas[name]
	return func(c *gin.Context) {
		v := content.NewViewer(schema, h.docs)
		docs := v.Load(c.Request.Context())
		out := make([]store.Fields, 0, len(docs))
		for _, d := range docs {
			f := d.Fields.Clone()
			f["id"] = d.ID
			out = append(out, f)
		}
		c.JSON(http.StatusOK, out)
	}
}

// SubmitContact accepts a visitor message. The timestamp is assigned
// server-side; client clocks are not trusted.
func (h *ContentHandler) SubmitContact(c *gin.Context) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ed := content.NewEditor(h.schemas["contacts"], h.docs, h.blobs)
	ed.SetField("name", req.Name)
	ed.SetField("email", req.Email)
	ed.SetField("message", req.Message)

	id, err := ed.Submit(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	metrics.ContactMessages.Inc()
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// AdminList returns every record of a content type, including singletons
// (as a one-element list when present).
func (h *ContentHandler) AdminList(c *gin.Context) {
	schema, ok := h.schemas[c.Param("type")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown content type"})
		return
	}
	v := content.NewViewer(schema, h.docs)
	if schema.Singleton() {
		c.JSON(http.StatusOK, v.LoadOne(c.Request.Context()))
		return
	}
	docs := v.Load(c.Request.Context())
	out := make([]store.Fields, 0, len(docs))
	for _, d := range docs {
		f := d.Fields.Clone()
		f["id"] = d.ID
		out = append(out, f)
	}
	c.JSON(http.StatusOK, out)
}

// AdminGet returns one record by id for the edit screen.
func (h *ContentHandler) AdminGet(c *gin.Context) {
	schema, ok := h.schemas[c.Param("type")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown content type"})
		return
	}
	id := c.Param("id")
	fields, err := h.docs.Get(c.Request.Context(), schema.Collection, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		logger.Errorf("content: get %s/%s: %v", schema.Collection, id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read failed"})
		return
	}
	f := fields.Clone()
	f["id"] = id
	c.JSON(http.StatusOK, f)
}

// AdminSave creates a record, or merges the singleton for singleton types.
// The body is multipart form data so text fields and asset files travel in
// one request.
func (h *ContentHandler) AdminSave(c *gin.Context) {
	schema, ok := h.schemas[c.Param("type")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown content type"})
		return
	}
	// write-once types take records from visitors only; admins list and delete
	if schema.WriteOnce {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "content type is write once"})
		return
	}
	h.save(c, schema, "")
}

// AdminUpdate merges the submitted fields into an existing record.
func (h *ContentHandler) AdminUpdate(c *gin.Context) {
	schema, ok := h.schemas[c.Param("type")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown content type"})
		return
	}
	if schema.WriteOnce {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "content type is write once"})
		return
	}
	h.save(c, schema, c.Param("id"))
}

func (h *ContentHandler) save(c *gin.Context, schema content.Schema, id string) {
	ed := content.NewEditor(schema, h.docs, h.blobs)

	ctx := c.Request.Context()
	if schema.Singleton() {
		if err := ed.Load(ctx); err != nil {
			h.writeError(c, err)
			return
		}
	} else if id != "" {
		if err := ed.LoadRecord(ctx, id); err != nil {
			h.writeError(c, err)
			return
		}
	}

	for _, f := range schema.Fields {
		if _, isAsset := schema.AssetFields[f.Name]; isAsset {
			continue
		}
		if f.List {
			if vals, ok := c.GetPostFormArray(f.Name); ok {
				ed.SetField(f.Name, vals)
			}
			continue
		}
		if val, ok := c.GetPostForm(f.Name); ok {
			ed.SetField(f.Name, val)
		}
	}

	var staged int64
	for field := range schema.AssetFields {
		fh, err := c.FormFile(field)
		if err != nil {
			continue // asset fields are optional per request
		}
		data, ct, err := readUpload(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := ed.StageAsset(field, fh.Filename, data, ct); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		staged += int64(len(data))
	}

	docID, err := ed.Submit(ctx)
	if err != nil {
		metrics.DocumentWrites.WithLabelValues(schema.Collection, "error").Inc()
		h.writeError(c, err)
		return
	}
	metrics.DocumentWrites.WithLabelValues(schema.Collection, "ok").Inc()
	if staged > 0 {
		metrics.AssetUploads.WithLabelValues(schema.Name, "ok").Inc()
		metrics.AssetUploadBytes.Add(float64(staged))
	}

	status := http.StatusOK
	if id == "" && !schema.Singleton() {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"id": docID, "fields": ed.Fields()})
}

// AdminDelete removes a record together with its stored assets.
func (h *ContentHandler) AdminDelete(c *gin.Context) {
	schema, ok := h.schemas[c.Param("type")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown content type"})
		return
	}
	ed := content.NewEditor(schema, h.docs, h.blobs)
	if err := ed.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdminListContacts returns received contact messages, newest last.
func (h *ContentHandler) AdminListContacts(c *gin.Context) {
	v := content.NewViewer(h.schemas["contacts"], h.docs)
	docs := v.Load(c.Request.Context())
	out := make([]store.Fields, 0, len(docs))
	for _, d := range docs {
		f := d.Fields.Clone()
		f["id"] = d.ID
		out = append(out, f)
	}
	c.JSON(http.StatusOK, out)
}

func (h *ContentHandler) writeError(c *gin.Context, err error) {
	var ve *content.ValidationError
	var ue *content.UploadError
	var we *content.WriteError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
	case errors.Is(err, content.ErrSubmitInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, content.ErrWriteOnce):
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "content type is write once"})
	case errors.As(err, &ue):
		logger.Errorf("content: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "asset upload failed"})
	case errors.As(err, &we):
		if errors.Is(we.Err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		logger.Errorf("content: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "write failed"})
	default:
		logger.Errorf("content: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, string, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return data, ct, nil
}
