package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/contentflow/internal/model"
	"github.com/d60-Lab/contentflow/internal/service"
	"github.com/d60-Lab/contentflow/pkg/response"
)

type stepRequest struct {
	StepOrder  int            `json:"step_order" binding:"required,min=1"`
	StepType   model.StepType `json:"step_type" binding:"required,step_type"`
	Required   *bool          `json:"required"`
	AssigneeID *string        `json:"assignee_id"`
}

type createTemplateRequest struct {
	UserID      string        `json:"user_id" binding:"required"`
	Name        string        `json:"name" binding:"required"`
	Description *string       `json:"description"`
	Steps       []stepRequest `json:"steps" binding:"required,min=1,dive"`
}

// CreateWorkflowTemplate stores a template with its ordered steps
// @Summary Create workflow template
// @Tags workflow
// @Accept json
// @Produce json
// @Param request body createTemplateRequest true "template"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/workflow-templates [post]
func (h *Handler) CreateWorkflowTemplate(c *gin.Context) {
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	in := service.CreateTemplateInput{
		UserID:      req.UserID,
		Name:        req.Name,
		Description: req.Description,
		Steps:       make([]service.StepInput, len(req.Steps)),
	}
	for i, st := range req.Steps {
		required := true
		if st.Required != nil {
			required = *st.Required
		}
		in.Steps[i] = service.StepInput{
			StepOrder:  st.StepOrder,
			StepType:   st.StepType,
			Required:   required,
			AssigneeID: st.AssigneeID,
		}
	}

	tpl, err := h.workflowSvc.CreateTemplate(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, tpl)
}

// ListWorkflowTemplates lists a user's templates with steps
// @Summary List workflow templates
// @Tags workflow
// @Param user_id path string true "user id"
// @Success 200 {object} response.Response
// @Router /api/v1/users/{user_id}/workflow-templates [get]
func (h *Handler) ListWorkflowTemplates(c *gin.Context) {
	tpls, err := h.workflowSvc.ListTemplatesForUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, tpls)
}

// GetWorkflowTemplate fetches one template with steps
// @Summary Get workflow template
// @Tags workflow
// @Param id path string true "template id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/workflow-templates/{id} [get]
func (h *Handler) GetWorkflowTemplate(c *gin.Context) {
	tpl, err := h.workflowSvc.GetTemplateByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, tpl)
}

type startInstanceRequest struct {
	ContentID  string `json:"content_id" binding:"required"`
	TemplateID string `json:"template_id" binding:"required"`
}

// StartWorkflowInstance binds content to a template
// @Summary Start workflow instance
// @Tags workflow
// @Accept json
// @Produce json
// @Param request body startInstanceRequest true "binding"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/workflow-instances [post]
func (h *Handler) StartWorkflowInstance(c *gin.Context) {
	var req startInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	inst, err := h.workflowSvc.StartInstance(c.Request.Context(), req.ContentID, req.TemplateID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, inst)
}

// AdvanceWorkflowInstance completes the current step
// @Summary Advance workflow instance
// @Tags workflow
// @Param id path string true "instance id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/workflow-instances/{id}/advance [post]
func (h *Handler) AdvanceWorkflowInstance(c *gin.Context) {
	inst, err := h.workflowSvc.AdvanceInstance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, inst)
}

// CancelWorkflowInstance cancels an in-progress instance
// @Summary Cancel workflow instance
// @Tags workflow
// @Param id path string true "instance id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/workflow-instances/{id}/cancel [post]
func (h *Handler) CancelWorkflowInstance(c *gin.Context) {
	inst, err := h.workflowSvc.CancelInstance(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, inst)
}

// Health reports liveness
// @Summary Health check
// @Tags system
// @Success 200 {object} response.Response
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
