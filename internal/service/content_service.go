package service

import (
	"context"
	"time"

	"github.com/d60-Lab/contentflow/internal/model"
	"github.com/d60-Lab/contentflow/internal/repository"
	"github.com/d60-Lab/contentflow/pkg/optional"
)

// DefaultRejectionReason is recorded when a rejection carries no reason.
const DefaultRejectionReason = "No reason provided"

type CreateContentInput struct {
	UserID      string
	Title       string
	Caption     string
	Hashtags    *string
	Platform    model.Platform
	ContentType model.ContentType
	AIGenerated bool
	ScheduledAt *time.Time
}

// UpdateContentInput is a partial patch. A field left absent is unchanged; a
// field present as JSON null clears the stored value (nullable columns only).
type UpdateContentInput struct {
	Title       optional.Value[string]              `json:"title"`
	Caption     optional.Value[string]              `json:"caption"`
	Hashtags    optional.Value[string]              `json:"hashtags"`
	Platform    optional.Value[model.Platform]      `json:"platform"`
	ContentType optional.Value[model.ContentType]   `json:"content_type"`
	Status      optional.Value[model.ContentStatus] `json:"status"`
	AIGenerated optional.Value[bool]                `json:"ai_generated"`
	ScheduledAt optional.Value[time.Time]           `json:"scheduled_at"`
}

// ContentAnalytics aggregates a user's content counts.
type ContentAnalytics struct {
	Total       int64            `json:"total"`
	AIGenerated int64            `json:"ai_generated"`
	ByPlatform  map[string]int64 `json:"by_platform"`
	ByStatus    map[string]int64 `json:"by_status"`
}

// CalendarQuery selects scheduled content in a window.
type CalendarQuery struct {
	UserID   string
	Start    time.Time
	End      time.Time
	Platform *model.Platform
	Status   *model.ContentStatus
}

// AnalyticsQuery selects content for aggregation; nil bounds are unbounded.
type AnalyticsQuery struct {
	UserID   string
	Start    *time.Time
	End      *time.Time
	Platform *model.Platform
}

// ContentService is the content lifecycle manager: it owns the status state
// machine and the side effects of each transition.
type ContentService interface {
	CreateContent(ctx context.Context, in CreateContentInput) (*model.Content, error)
	GetContentByID(ctx context.Context, id string) (*model.Content, error)
	GetContentForUser(ctx context.Context, userID string) ([]*model.Content, error)
	UpdateContent(ctx context.Context, id string, in UpdateContentInput) (*model.Content, error)
	ApproveOrReject(ctx context.Context, contentID, approverID string, approved bool, reason *string) (*model.Content, error)
	ScheduleContent(ctx context.Context, contentID string, scheduledAt time.Time) (*model.Content, error)
	UnscheduleContent(ctx context.Context, contentID string) (*model.Content, error)
	GetContentCalendar(ctx context.Context, q CalendarQuery) ([]*model.Content, error)
	GetContentAnalytics(ctx context.Context, q AnalyticsQuery) (*ContentAnalytics, error)
}

type contentService struct {
	contentRepo repository.ContentRepository
	userRepo    repository.UserRepository
	now         func() time.Time
}

func NewContentService(contentRepo repository.ContentRepository, userRepo repository.UserRepository) ContentService {
	return &contentService{contentRepo: contentRepo, userRepo: userRepo, now: time.Now}
}

func (s *contentService) CreateContent(ctx context.Context, in CreateContentInput) (*model.Content, error) {
	ok, err := s.userRepo.Exists(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("user", in.UserID)
	}
	if !model.ValidPlatform(in.Platform) {
		return nil, validationErr("unknown platform: %s", in.Platform)
	}
	if !model.ValidContentType(in.ContentType) {
		return nil, validationErr("unknown content type: %s", in.ContentType)
	}

	content := &model.Content{
		UserID:      in.UserID,
		Title:       in.Title,
		Caption:     in.Caption,
		Hashtags:    in.Hashtags,
		Platform:    in.Platform,
		ContentType: in.ContentType,
		Status:      model.StatusDraft,
		AIGenerated: in.AIGenerated,
		ScheduledAt: in.ScheduledAt,
	}
	if err := s.contentRepo.Create(ctx, content); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *contentService) GetContentByID(ctx context.Context, id string) (*model.Content, error) {
	content, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapRecordErr(err, "content", id)
	}
	return content, nil
}

func (s *contentService) GetContentForUser(ctx context.Context, userID string) ([]*model.Content, error) {
	items, err := s.contentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*model.Content{}
	}
	return items, nil
}

// UpdateContent applies only the fields present in the patch. It enforces no
// cross-field invariants: setting status=approved here does not touch the
// approval fields. ApproveOrReject owns approval semantics.
func (s *contentService) UpdateContent(ctx context.Context, id string, in UpdateContentInput) (*model.Content, error) {
	if _, err := s.contentRepo.GetByID(ctx, id); err != nil {
		return nil, wrapRecordErr(err, "content", id)
	}

	fields := map[string]any{}
	if err := patchRequired(fields, "title", in.Title); err != nil {
		return nil, err
	}
	if err := patchRequired(fields, "caption", in.Caption); err != nil {
		return nil, err
	}
	if in.Hashtags.Present() {
		fields["hashtags"] = in.Hashtags.Ptr()
	}
	if in.Platform.Present() {
		p, ok := in.Platform.Get()
		if !ok {
			return nil, validationErr("platform cannot be null")
		}
		if !model.ValidPlatform(p) {
			return nil, validationErr("unknown platform: %s", p)
		}
		fields["platform"] = p
	}
	if in.ContentType.Present() {
		t, ok := in.ContentType.Get()
		if !ok {
			return nil, validationErr("content_type cannot be null")
		}
		if !model.ValidContentType(t) {
			return nil, validationErr("unknown content type: %s", t)
		}
		fields["content_type"] = t
	}
	if in.Status.Present() {
		st, ok := in.Status.Get()
		if !ok {
			return nil, validationErr("status cannot be null")
		}
		if !model.ValidContentStatus(st) {
			return nil, validationErr("unknown status: %s", st)
		}
		fields["status"] = st
	}
	if in.AIGenerated.Present() {
		v, ok := in.AIGenerated.Get()
		if !ok {
			return nil, validationErr("ai_generated cannot be null")
		}
		fields["ai_generated"] = v
	}
	if in.ScheduledAt.Present() {
		fields["scheduled_at"] = in.ScheduledAt.Ptr()
	}

	fields["updated_at"] = s.now()
	if err := s.contentRepo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.GetContentByID(ctx, id)
}

func patchRequired(fields map[string]any, column string, v optional.Value[string]) error {
	if !v.Present() {
		return nil
	}
	val, ok := v.Get()
	if !ok {
		return validationErr("%s cannot be null", column)
	}
	fields[column] = val
	return nil
}

// ApproveOrReject records an approval decision. Intentionally no guard on the
// current status: the decision may be re-made from any state, including
// already-scheduled or published content.
func (s *contentService) ApproveOrReject(ctx context.Context, contentID, approverID string, approved bool, reason *string) (*model.Content, error) {
	if _, err := s.contentRepo.GetByID(ctx, contentID); err != nil {
		return nil, wrapRecordErr(err, "content", contentID)
	}

	now := s.now()
	var fields map[string]any
	if approved {
		fields = map[string]any{
			"status":          model.StatusApproved,
			"approved_by":     approverID,
			"approved_at":     now,
			"rejected_reason": nil,
			"updated_at":      now,
		}
	} else {
		r := DefaultRejectionReason
		if reason != nil && *reason != "" {
			r = *reason
		}
		fields = map[string]any{
			"status":          model.StatusRejected,
			"rejected_reason": r,
			"approved_by":     nil,
			"approved_at":     nil,
			"updated_at":      now,
		}
	}
	if err := s.contentRepo.Update(ctx, contentID, fields); err != nil {
		return nil, err
	}
	return s.GetContentByID(ctx, contentID)
}

func (s *contentService) ScheduleContent(ctx context.Context, contentID string, scheduledAt time.Time) (*model.Content, error) {
	// Time check comes first: a past timestamp fails regardless of the
	// content's existence or state.
	if !scheduledAt.After(s.now()) {
		return nil, validationErr("cannot schedule for past or current time")
	}
	content, err := s.contentRepo.GetByID(ctx, contentID)
	if err != nil {
		return nil, wrapRecordErr(err, "content", contentID)
	}
	if content.Status != model.StatusApproved {
		return nil, preconditionErr("only approved content can be scheduled (current status: %s)", content.Status)
	}

	fields := map[string]any{
		"scheduled_at": scheduledAt,
		"status":       model.StatusScheduled,
		"updated_at":   s.now(),
	}
	if err := s.contentRepo.Update(ctx, contentID, fields); err != nil {
		return nil, err
	}
	return s.GetContentByID(ctx, contentID)
}

// UnscheduleContent is the strict inverse of ScheduleContent; the previously
// chosen timestamp is discarded.
func (s *contentService) UnscheduleContent(ctx context.Context, contentID string) (*model.Content, error) {
	content, err := s.contentRepo.GetByID(ctx, contentID)
	if err != nil {
		return nil, wrapRecordErr(err, "content", contentID)
	}
	if content.Status != model.StatusScheduled {
		return nil, preconditionErr("only scheduled content can be unscheduled (current status: %s)", content.Status)
	}

	fields := map[string]any{
		"scheduled_at": nil,
		"status":       model.StatusApproved,
		"updated_at":   s.now(),
	}
	if err := s.contentRepo.Update(ctx, contentID, fields); err != nil {
		return nil, err
	}
	return s.GetContentByID(ctx, contentID)
}

func (s *contentService) GetContentCalendar(ctx context.Context, q CalendarQuery) ([]*model.Content, error) {
	if q.Platform != nil && !model.ValidPlatform(*q.Platform) {
		return nil, validationErr("unknown platform: %s", *q.Platform)
	}
	if q.Status != nil && !model.ValidContentStatus(*q.Status) {
		return nil, validationErr("unknown status: %s", *q.Status)
	}
	items, err := s.contentRepo.ListCalendar(ctx, repository.CalendarFilter{
		UserID:   q.UserID,
		Start:    q.Start,
		End:      q.End,
		Platform: q.Platform,
		Status:   q.Status,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*model.Content{}
	}
	return items, nil
}

func (s *contentService) GetContentAnalytics(ctx context.Context, q AnalyticsQuery) (*ContentAnalytics, error) {
	f := repository.AnalyticsFilter{UserID: q.UserID, Start: q.Start, End: q.End, Platform: q.Platform}
	total, ai, err := s.contentRepo.CountTotals(ctx, f)
	if err != nil {
		return nil, err
	}
	byPlatform, err := s.contentRepo.CountByPlatform(ctx, f)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.contentRepo.CountByStatus(ctx, f)
	if err != nil {
		return nil, err
	}

	res := &ContentAnalytics{
		Total:       total,
		AIGenerated: ai,
		ByPlatform:  map[string]int64{},
		ByStatus:    map[string]int64{},
	}
	for _, row := range byPlatform {
		res.ByPlatform[row.Key] = row.Count
	}
	for _, row := range byStatus {
		res.ByStatus[row.Key] = row.Count
	}
	return res, nil
}
