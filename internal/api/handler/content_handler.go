package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/contentflow/internal/model"
	"github.com/d60-Lab/contentflow/internal/service"
	"github.com/d60-Lab/contentflow/pkg/response"
)

type createContentRequest struct {
	UserID      string            `json:"user_id" binding:"required"`
	Title       string            `json:"title" binding:"required"`
	Caption     string            `json:"caption" binding:"required"`
	Hashtags    *string           `json:"hashtags"`
	Platform    model.Platform    `json:"platform" binding:"required,platform"`
	ContentType model.ContentType `json:"content_type" binding:"required,content_type"`
	AIGenerated bool              `json:"ai_generated"`
	ScheduledAt *time.Time        `json:"scheduled_at"`
}

// CreateContent stores a new draft
// @Summary Create content
// @Tags content
// @Accept json
// @Produce json
// @Param request body createContentRequest true "content"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/content [post]
func (h *Handler) CreateContent(c *gin.Context) {
	var req createContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	content, err := h.contentSvc.CreateContent(c.Request.Context(), service.CreateContentInput{
		UserID:      req.UserID,
		Title:       req.Title,
		Caption:     req.Caption,
		Hashtags:    req.Hashtags,
		Platform:    req.Platform,
		ContentType: req.ContentType,
		AIGenerated: req.AIGenerated,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, content)
}

type generateContentRequest struct {
	UserID          string            `json:"user_id" binding:"required"`
	Prompt          string            `json:"prompt" binding:"required"`
	Platform        model.Platform    `json:"platform" binding:"required,platform"`
	ContentType     model.ContentType `json:"content_type" binding:"required,content_type"`
	IncludeHashtags bool              `json:"include_hashtags"`
	Tone            *string           `json:"tone"`
}

// GenerateContent drafts content from a prompt
// @Summary Generate content
// @Tags content
// @Accept json
// @Produce json
// @Param request body generateContentRequest true "generation request"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/content/generate [post]
func (h *Handler) GenerateContent(c *gin.Context) {
	var req generateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	content, err := h.genSvc.GenerateContent(c.Request.Context(), service.GenerateContentInput{
		UserID:          req.UserID,
		Prompt:          req.Prompt,
		Platform:        req.Platform,
		ContentType:     req.ContentType,
		IncludeHashtags: req.IncludeHashtags,
		Tone:            req.Tone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, content)
}

// GetContentByID fetches one content item
// @Summary Get content by id
// @Tags content
// @Param id path string true "content id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/content/{id} [get]
func (h *Handler) GetContentByID(c *gin.Context) {
	content, err := h.contentSvc.GetContentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, content)
}

// ListUserContent lists a user's content, newest first
// @Summary List user content
// @Tags content
// @Param user_id path string true "user id"
// @Success 200 {object} response.Response
// @Router /api/v1/users/{user_id}/content [get]
func (h *Handler) ListUserContent(c *gin.Context) {
	items, err := h.contentSvc.GetContentForUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, items)
}

// UpdateContent applies a partial patch
// @Summary Update content
// @Tags content
// @Accept json
// @Produce json
// @Param id path string true "content id"
// @Param request body service.UpdateContentInput true "patch"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/content/{id} [patch]
func (h *Handler) UpdateContent(c *gin.Context) {
	var patch service.UpdateContentInput
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	content, err := h.contentSvc.UpdateContent(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, content)
}

type approveContentRequest struct {
	ApprovedBy      string  `json:"approved_by" binding:"required"`
	Approved        *bool   `json:"approved" binding:"required"`
	RejectionReason *string `json:"rejection_reason"`
}

// ApproveContent records an approval decision
// @Summary Approve or reject content
// @Tags content
// @Accept json
// @Produce json
// @Param id path string true "content id"
// @Param request body approveContentRequest true "decision"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/content/{id}/approval [post]
func (h *Handler) ApproveContent(c *gin.Context) {
	var req approveContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	content, err := h.contentSvc.ApproveOrReject(c.Request.Context(), c.Param("id"), req.ApprovedBy, *req.Approved, req.RejectionReason)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, content)
}

type scheduleContentRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

// ScheduleContent moves approved content to scheduled
// @Summary Schedule content
// @Tags content
// @Accept json
// @Produce json
// @Param id path string true "content id"
// @Param request body scheduleContentRequest true "schedule"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/content/{id}/schedule [post]
func (h *Handler) ScheduleContent(c *gin.Context) {
	var req scheduleContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	content, err := h.contentSvc.ScheduleContent(c.Request.Context(), c.Param("id"), req.ScheduledAt)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, content)
}

// UnscheduleContent moves scheduled content back to approved
// @Summary Unschedule content
// @Tags content
// @Param id path string true "content id"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/content/{id}/unschedule [post]
func (h *Handler) UnscheduleContent(c *gin.Context) {
	content, err := h.contentSvc.UnscheduleContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, content)
}

// GetPendingApprovals lists content awaiting the reviewer's decision
// @Summary Pending approvals for a reviewer
// @Tags workflow
// @Param user_id path string true "reviewer id"
// @Success 200 {object} response.Response
// @Router /api/v1/users/{user_id}/approvals/pending [get]
func (h *Handler) GetPendingApprovals(c *gin.Context) {
	items, err := h.workflowSvc.GetPendingApprovals(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, items)
}

// GetContentCalendar lists scheduled content in a date window
// @Summary Content calendar
// @Tags content
// @Param user_id path string true "user id"
// @Param start query string true "window start (RFC3339 or YYYY-MM-DD)"
// @Param end query string true "window end (RFC3339 or YYYY-MM-DD)"
// @Param platform query string false "platform filter"
// @Param status query string false "status filter"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/users/{user_id}/calendar [get]
func (h *Handler) GetContentCalendar(c *gin.Context) {
	start, err := parseTimeParam(c.Query("start"), false)
	if err != nil {
		response.BadRequest(c, "invalid start: "+err.Error())
		return
	}
	end, err := parseTimeParam(c.Query("end"), true)
	if err != nil {
		response.BadRequest(c, "invalid end: "+err.Error())
		return
	}

	q := service.CalendarQuery{UserID: c.Param("user_id"), Start: start, End: end}
	if p := c.Query("platform"); p != "" {
		platform := model.Platform(p)
		q.Platform = &platform
	}
	if s := c.Query("status"); s != "" {
		status := model.ContentStatus(s)
		q.Status = &status
	}

	items, err := h.contentSvc.GetContentCalendar(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, items)
}

// GetContentAnalytics aggregates a user's content counts
// @Summary Content analytics
// @Tags content
// @Param user_id path string true "user id"
// @Param start query string false "range start"
// @Param end query string false "range end"
// @Param platform query string false "platform filter"
// @Success 200 {object} response.Response
// @Router /api/v1/users/{user_id}/analytics [get]
func (h *Handler) GetContentAnalytics(c *gin.Context) {
	q := service.AnalyticsQuery{UserID: c.Param("user_id")}
	if s := c.Query("start"); s != "" {
		t, err := parseTimeParam(s, false)
		if err != nil {
			response.BadRequest(c, "invalid start: "+err.Error())
			return
		}
		q.Start = &t
	}
	if s := c.Query("end"); s != "" {
		t, err := parseTimeParam(s, true)
		if err != nil {
			response.BadRequest(c, "invalid end: "+err.Error())
			return
		}
		q.End = &t
	}
	if p := c.Query("platform"); p != "" {
		platform := model.Platform(p)
		q.Platform = &platform
	}

	stats, err := h.contentSvc.GetContentAnalytics(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, stats)
}

// parseTimeParam accepts RFC3339 or a bare date. Bare end dates extend to the
// end of the day so the window is inclusive.
func parseTimeParam(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
