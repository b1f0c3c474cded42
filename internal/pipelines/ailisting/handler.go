package ailisting

import (
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

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

type generateResponse struct {
	Success     bool `json:"success"`
	AIGenerated bool `json:"aiGenerated"`
	Output
}

type errorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Generate handles POST /api/products/ai-generate-listing. The request is a
// multipart form carrying audio_question_{i} clips and optional image_{i}
// photos.
func (h *Handler) Generate(c *gin.Context) {
	if !h.config.Enabled {
		c.JSON(http.StatusServiceUnavailable, errorResponse{
			Code:    "PIPELINE_DISABLED",
			Message: "AI listing generation is currently disabled",
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

	parts, err := h.readUploadParts(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	sub, err := PartitionParts(parts, h.config)
	if err != nil {
		h.writeError(c, err)
		return
	}
	sub.ID = uuid.New().String()

	out, err := h.service.Assemble(c.Request.Context(), sub)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if h.obs != nil {
		h.obs.RecordListingGenerated(c.Request.Context(), PipelineName, "success")
		h.obs.RecordListingDuration(c.Request.Context(), time.Since(start), PipelineName, "success")
	}

	c.JSON(http.StatusCreated, generateResponse{
		Success:     true,
		AIGenerated: true,
		Output:      *out,
	})
}

func (h *Handler) readUploadParts(c *gin.Context) ([]UploadPart, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.config.MaxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		return nil, errors.NewInvalidListingInputError("expected multipart form data: " + err.Error())
	}

	var parts []UploadPart
	for field, headers := range form.File {
		for _, header := range headers {
			data, err := readFileHeader(header)
			if err != nil {
				return nil, errors.NewInvalidListingInputError("failed to read upload " + field + ": " + err.Error())
			}
			parts = append(parts, UploadPart{Field: field, Filename: header.Filename, Data: data})
		}
	}
	return parts, nil
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
		h.logger.Error("listing generation failed", map[string]interface{}{
			"code":  string(code),
			"error": message,
		})
	}

	c.JSON(status, errorResponse{
		Code:    string(code),
		Message: message,
	})
}

func readFileHeader(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
