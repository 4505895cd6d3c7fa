// Package api exposes the search service over HTTP. Routes are mounted
// under /index and every response is JSON carrying a status field that
// mirrors the HTTP status code.
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/gramdex/gramdex/internal/errors"
	"github.com/gramdex/gramdex/internal/search"
	"github.com/gramdex/gramdex/model"
	"github.com/gramdex/gramdex/services"
)

// Version is reported by the root route.
const Version = "0.0.2"

// API holds dependencies for the HTTP handlers, primarily the index
// registry.
type API struct {
	engine services.IndexManager
}

// NewAPI creates a new API handler structure.
func NewAPI(engine services.IndexManager) *API {
	return &API{engine: engine}
}

// SetupRoutes defines all routes of the service.
func SetupRoutes(router *gin.Engine, engine services.IndexManager) {
	h := NewAPI(engine)

	router.GET("/", h.VersionHandler)

	indexRoutes := router.Group("/index")
	{
		indexRoutes.DELETE("", h.DeleteAllIndexesHandler)       // Destroy every index
		indexRoutes.PUT("/:name", h.CreateIndexHandler)         // Create an index
		indexRoutes.GET("/:name", h.GetIndexHandler)            // Index size counters
		indexRoutes.POST("/:name", h.AddItemsHandler)           // Bulk add
		indexRoutes.PATCH("/:name", h.UpdateItemsHandler)       // Bulk update by _id
		indexRoutes.DELETE("/:name", h.DeleteItemsHandler)      // Bulk remove by _id
		indexRoutes.POST("/:name/search", h.SearchItemsHandler) // Query
		indexRoutes.DELETE("/:name/delete", h.DeleteIndexHandler)
		indexRoutes.DELETE("/:name/clear", h.ClearIndexHandler)
	}
}

// BulkImport is the body of bulk add/update requests. Fields names the
// top-level document attributes whose text gets indexed.
type BulkImport struct {
	Items  []model.Document `json:"items"`
	Fields []string         `json:"fields"`
}

// BulkDelete is the body of bulk remove requests.
type BulkDelete struct {
	Items []string `json:"items"`
}

// VersionHandler reports the service version.
func (h *API) VersionHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "version": Version})
}

// CreateIndexHandler creates a new empty index. Conflicts with an existing
// name produce 409.
func (h *API) CreateIndexHandler(c *gin.Context) {
	name := c.Param("name")

	if err := h.engine.CreateIndex(name); err != nil {
		if errors.Is(err, apperrors.ErrIndexAlreadyExists) {
			sendError(c, http.StatusConflict, "Index already exists")
			return
		}
		sendError(c, http.StatusBadRequest, err.Error())
		return
	}
	sendMessage(c, http.StatusOK, "Index created")
}

// GetIndexHandler reports the size counters of an index.
func (h *API) GetIndexHandler(c *gin.Context) {
	accessor, err := h.engine.GetIndex(c.Param("name"))
	if err != nil {
		sendIndexNotFound(c)
		return
	}

	stats := accessor.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":       http.StatusOK,
		"items_count":  stats.ItemsCount,
		"tokens_count": stats.TokensCount,
	})
}

// AddItemsHandler bulk-adds documents to an index.
func (h *API) AddItemsHandler(c *gin.Context) {
	accessor, err := h.engine.GetIndex(c.Param("name"))
	if err != nil {
		sendIndexNotFound(c)
		return
	}

	var body BulkImport
	if err := c.ShouldBindJSON(&body); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	applied, err := accessor.AddDocuments(body.Items, body.Fields)
	if err != nil {
		sendBatchError(c, err, applied, len(body.Items))
		return
	}
	sendMessage(c, http.StatusOK, "Items added")
}

// UpdateItemsHandler bulk-updates resident documents by their _id.
func (h *API) UpdateItemsHandler(c *gin.Context) {
	accessor, err := h.engine.GetIndex(c.Param("name"))
	if err != nil {
		sendIndexNotFound(c)
		return
	}

	var body BulkImport
	if err := c.ShouldBindJSON(&body); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	applied, err := accessor.UpdateDocuments(body.Items, body.Fields)
	if err != nil {
		sendBatchError(c, err, applied, len(body.Items))
		return
	}
	sendMessage(c, http.StatusOK, "Items updated")
}

// DeleteItemsHandler bulk-removes documents by their _id. Unknown ids are
// ignored.
func (h *API) DeleteItemsHandler(c *gin.Context) {
	accessor, err := h.engine.GetIndex(c.Param("name"))
	if err != nil {
		sendIndexNotFound(c)
		return
	}

	var body BulkDelete
	if err := c.ShouldBindJSON(&body); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	accessor.DeleteDocuments(body.Items)
	sendMessage(c, http.StatusOK, "Items deleted")
}

// SearchItemsHandler runs the search pipeline: optional free-text query
// (q), optional filter/sort options in the body, and skip/take paging in
// the query string.
func (h *API) SearchItemsHandler(c *gin.Context) {
	accessor, err := h.engine.GetIndex(c.Param("name"))
	if err != nil {
		sendIndexNotFound(c)
		return
	}

	var q *string
	if raw, present := c.GetQuery("q"); present {
		q = &raw
	}

	skip, ok := intQuery(c, "skip", 0)
	if !ok {
		return
	}
	take, ok := intQuery(c, "take", search.DefaultTake)
	if !ok {
		return
	}
	if take < 1 {
		sendError(c, http.StatusBadRequest, "Invalid query parameter 'take': must be positive")
		return
	}
	if skip < 0 {
		skip = 0
	}

	// An absent or empty body means default options, so that pure
	// query-string searches work.
	var opts services.SearchOptions
	if err := c.ShouldBindJSON(&opts); err != nil && !errors.Is(err, io.EOF) {
		sendError(c, http.StatusBadRequest, "Invalid search request body: "+err.Error())
		return
	}

	page, err := accessor.SearchItems(q, opts, skip, take)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Search failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    http.StatusOK,
		"message":   "Search successful",
		"query":     q,
		"items":     page.Items,
		"max_items": page.MaxItems,
		"num_items": page.NumItems,
		"num_pages": page.NumPages,
	})
}

// DeleteIndexHandler destroys an index.
func (h *API) DeleteIndexHandler(c *gin.Context) {
	if err := h.engine.DeleteIndex(c.Param("name")); err != nil {
		sendIndexNotFound(c)
		return
	}
	sendMessage(c, http.StatusOK, "Index deleted")
}

// ClearIndexHandler empties an index without destroying it.
func (h *API) ClearIndexHandler(c *gin.Context) {
	accessor, err := h.engine.GetIndex(c.Param("name"))
	if err != nil {
		sendIndexNotFound(c)
		return
	}
	accessor.DeleteAllDocuments()
	sendMessage(c, http.StatusOK, "Index cleared")
}

// DeleteAllIndexesHandler destroys every index in the process.
func (h *API) DeleteAllIndexesHandler(c *gin.Context) {
	h.engine.DeleteAllIndexes()
	sendMessage(c, http.StatusOK, "Indexes deleted")
}

// sendBatchError reports a fail-fast bulk failure: the applied prefix
// stays, and the message documents how far the batch got. Unknown
// documents on update map to 404, everything else to 400.
func sendBatchError(c *gin.Context, err error, applied, total int) {
	status := http.StatusBadRequest
	if errors.Is(err, apperrors.ErrDocumentNotFound) {
		status = http.StatusNotFound
	}
	sendError(c, status, fmt.Sprintf("%v (%d of %d items applied)", err, applied, total))
}

// intQuery parses an optional integer query parameter. On a malformed
// value it writes a 400 response and reports false.
func intQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw, present := c.GetQuery(name)
	if !present || raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid query parameter '"+name+"': "+err.Error())
		return 0, false
	}
	return value, true
}
