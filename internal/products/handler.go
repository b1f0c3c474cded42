package products

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kalastra-backend/internal/common/errors"
	"kalastra-backend/internal/common/logger"
	"kalastra-backend/internal/models"
)

// Lister serves the catalog read side.
type Lister interface {
	List(ctx context.Context, limit, offset int) ([]*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

// Searcher serves keyword search over the catalog.
type Searcher interface {
	Search(ctx context.Context, q SearchQuery) ([]*models.Product, error)
}

type Handler struct {
	store    Lister
	searcher Searcher
	logger   logger.Logger
}

func NewHandler(store Lister, searcher Searcher, log logger.Logger) *Handler {
	return &Handler{store: store, searcher: searcher, logger: log}
}

type listResponse struct {
	Success  bool              `json:"success"`
	Products []*models.Product `json:"products"`
}

type productResponse struct {
	Success bool            `json:"success"`
	Product *models.Product `json:"product"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// List handles GET /api/products.
func (h *Handler) List(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	out, err := h.store.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.writeError(c, errors.NewSearchQueryError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, listResponse{Success: true, Products: out})
}

// Get handles GET /api/products/:id.
func (h *Handler) Get(c *gin.Context) {
	product, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, productResponse{Success: true, Product: product})
}

// Search handles GET /api/products/search.
func (h *Handler) Search(c *gin.Context) {
	q := SearchQuery{
		Keywords: c.Query("q"),
		Category: c.Query("category"),
		From:     intQuery(c, "from", 0),
		Size:     intQuery(c, "size", 20),
	}

	out, err := h.searcher.Search(c.Request.Context(), q)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse{Success: true, Products: out})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	code := errors.CodeOf(err)
	status := errors.HTTPStatus(err)
	message := err.Error()
	if stdErr := errors.AsStandard(err); stdErr != nil {
		message = stdErr.Message
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("catalog request failed", map[string]interface{}{
			"code":  string(code),
			"error": message,
		})
	}

	c.JSON(status, errorResponse{Code: string(code), Message: message})
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
