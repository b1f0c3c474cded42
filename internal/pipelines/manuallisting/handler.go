package manuallisting

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kalastra-backend/internal/common/errors"
	"kalastra-backend/internal/common/logger"
	"kalastra-backend/internal/common/metrics"
	"kalastra-backend/internal/common/observability"
)

type Handler struct {
	service *Service
	config  *Config
	logger  logger.Logger
	obs     *observability.Observability
}

type HandlerOptions struct {
	Service       *Service
	Config        *Config
	Logger        logger.Logger
	Observability *observability.Observability
}

func NewHandler(opts HandlerOptions) *Handler {
	return &Handler{
		service: opts.Service,
		config:  opts.Config,
		logger:  opts.Logger,
		obs:     opts.Observability,
	}
}

type createResponse struct {
	Success bool `json:"success"`
	Output
}

type errorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Create handles POST /api/products/manual.
func (h *Handler) Create(c *gin.Context) {
	if !h.config.Enabled {
		c.JSON(http.StatusServiceUnavailable, errorResponse{
			Code:    "PIPELINE_DISABLED",
			Message: "manual listing creation is currently disabled",
		})
		return
	}

	start := time.Now()
	metrics.PipelineRequestsTotal.WithLabelValues(PipelineName).Inc()
	metrics.PipelineActive.WithLabelValues(PipelineName).Inc()
	defer metrics.PipelineActive.WithLabelValues(PipelineName).Dec()
	defer func() {
		metrics.PipelineDuration.WithLabelValues(PipelineName).Observe(time.Since(start).Seconds())
	}()

	input, err := h.readInput(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if h.obs != nil {
		h.obs.RecordListingGenerated(c.Request.Context(), PipelineName, "success")
		h.obs.RecordListingDuration(c.Request.Context(), time.Since(start), PipelineName, "success")
	}

	c.JSON(http.StatusCreated, createResponse{Success: true, Output: *out})
}

// readInput decodes the body twice: once into a generic map for schema
// validation with per-field messages, once into the typed input.
func (h *Handler) readInput(c *gin.Context) (*Input, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, errors.NewInvalidListingInputError("failed to read request body: " + err.Error())
	}

	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, errors.NewInvalidListingInputError("request body must be a JSON object")
	}
	if err := ValidateInput(body); err != nil {
		return nil, err
	}

	var input Input
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, errors.NewInvalidListingInputError("malformed listing input: " + err.Error())
	}
	return &input, nil
}

func (h *Handler) writeError(c *gin.Context, err error) {
	code := errors.CodeOf(err)
	status := errors.HTTPStatus(err)
	message := err.Error()
	if stdErr := errors.AsStandard(err); stdErr != nil {
		message = stdErr.Message
	}

	metrics.PipelineFailuresTotal.WithLabelValues(PipelineName, string(code)).Inc()
	if h.obs != nil {
		h.obs.RecordListingGenerated(c.Request.Context(), PipelineName, "failure")
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("manual listing failed", map[string]interface{}{
			"code":  string(code),
			"error": message,
		})
	}

	c.JSON(status, errorResponse{
		Code:    string(code),
		Message: message,
	})
}
