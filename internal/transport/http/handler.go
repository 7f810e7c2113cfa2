package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	jobapp "github.com/astro-web3/bws-gateway/internal/app/job"
	jobdomain "github.com/astro-web3/bws-gateway/internal/domain/job"
	"github.com/astro-web3/bws-gateway/pkg/logger"
	"github.com/astro-web3/bws-gateway/pkg/tracer"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct {
	appService jobapp.Service
}

func NewHandler(appService jobapp.Service) *Handler {
	return &Handler{
		appService: appService,
	}
}

func (h *Handler) LivenessDetection(c *gin.Context) {
	serve(c, jobapp.OperationLivenessDetection, h.appService.LivenessDetection)
}

func (h *Handler) PhotoVerify(c *gin.Context) {
	serve(c, jobapp.OperationPhotoVerify, h.appService.PhotoVerify)
}

func (h *Handler) VideoLivenessDetection(c *gin.Context) {
	serve(c, jobapp.OperationVideoLivenessDetection, h.appService.VideoLivenessDetection)
}

func serve[In, Out any](
	c *gin.Context,
	operation string,
	execute func(context.Context, *In, string) (*jobapp.Result[Out], error),
) {
	ctx, span := tracer.Start(c.Request.Context(), "transport.http."+operation)
	defer span.End()

	var in In
	if err := c.ShouldBindJSON(&in); err != nil {
		span.RecordError(err)
		logger.ErrorContext(ctx, "failed to decode request body",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	result, err := execute(ctx, &in, c.GetHeader(jobdomain.ReferenceNumberHeader))
	if err != nil {
		span.RecordError(err)
		writeError(c, err)
		return
	}

	copied := copyMetadata(c.Writer.Header(), result.Header)
	span.SetAttributes(attribute.Int("bws.metadata_copied", copied))

	c.JSON(http.StatusOK, result.Body)
}

// writeError maps every failure after authentication to 400 with a plain
// text body. Downstream failures expose only the service's detail message.
func writeError(c *gin.Context, err error) {
	var connectErr *connect.Error
	switch {
	case jobdomain.IsValidationError(err):
		c.String(http.StatusBadRequest, err.Error())
	case errors.As(err, &connectErr):
		c.String(http.StatusBadRequest, connectErr.Message())
	default:
		c.String(http.StatusBadRequest, err.Error())
	}
}

// copyMetadata copies downstream response metadata into dst. A name already
// present in dst is left alone and only the first value of each entry is
// taken. Transport level headers are not metadata and are skipped.
func copyMetadata(dst, src http.Header) int {
	copied := 0
	for key, values := range src {
		key = http.CanonicalHeaderKey(key)
		if len(values) == 0 || isTransportHeader(key) {
			continue
		}
		if _, exists := dst[key]; exists {
			continue
		}
		dst[key] = []string{values[0]}
		copied++
	}
	return copied
}

func isTransportHeader(key string) bool {
	switch key {
	case "Content-Type", "Content-Length", "Content-Encoding", "Transfer-Encoding",
		"Te", "Trailer", "Connection", "Keep-Alive":
		return true
	}
	return strings.HasPrefix(key, "Grpc-") || strings.HasPrefix(key, "Connect-")
}
