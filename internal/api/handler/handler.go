package handler

import (
	"errors"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/contentflow/internal/service"
	"github.com/d60-Lab/contentflow/pkg/logger"
	"github.com/d60-Lab/contentflow/pkg/response"
)

// Handler bundles the service dependencies for all HTTP endpoints.
type Handler struct {
	userSvc     service.UserService
	contentSvc  service.ContentService
	workflowSvc service.WorkflowService
	genSvc      service.GenerationService
}

func New(userSvc service.UserService, contentSvc service.ContentService, workflowSvc service.WorkflowService, genSvc service.GenerationService) *Handler {
	return &Handler{
		userSvc:     userSvc,
		contentSvc:  contentSvc,
		workflowSvc: workflowSvc,
		genSvc:      genSvc,
	}
}

// respondError maps service errors onto the envelope: NotFound → 404,
// Validation → 400, Precondition → 409, anything else → 500.
func respondError(c *gin.Context, err error) {
	var (
		nf *service.NotFoundError
		ve *service.ValidationError
		pe *service.PreconditionError
	)
	switch {
	case errors.As(err, &nf):
		response.NotFound(c, nf.Error())
	case errors.As(err, &ve):
		response.BadRequest(c, ve.Error())
	case errors.As(err, &pe):
		response.Conflict(c, pe.Error())
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		sentry.CaptureException(err)
		response.InternalError(c, err)
	}
}
