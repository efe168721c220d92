package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/contentflow/internal/model"
)

// CalendarFilter narrows calendar queries to a window and optional facets.
type CalendarFilter struct {
	UserID   string
	Start    time.Time
	End      time.Time
	Platform *model.Platform
	Status   *model.ContentStatus
}

// AnalyticsFilter narrows analytics aggregation; zero time bounds mean
// unbounded.
type AnalyticsFilter struct {
	UserID   string
	Start    *time.Time
	End      *time.Time
	Platform *model.Platform
}

// CountRow is one group in an aggregation result.
type CountRow struct {
	Key   string `gorm:"column:key"`
	Count int64  `gorm:"column:count"`
}

type ContentRepository interface {
	Create(ctx context.Context, content *model.Content) error
	GetByID(ctx context.Context, id string) (*model.Content, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Content, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	ListCalendar(ctx context.Context, f CalendarFilter) ([]*model.Content, error)
	ListPendingApprovals(ctx context.Context, assigneeID string) ([]*model.Content, error)
	CountByPlatform(ctx context.Context, f AnalyticsFilter) ([]CountRow, error)
	CountByStatus(ctx context.Context, f AnalyticsFilter) ([]CountRow, error)
	CountTotals(ctx context.Context, f AnalyticsFilter) (total, aiGenerated int64, err error)
	ClaimDuePublishable(ctx context.Context, now time.Time, limit int) ([]*model.Content, error)
}

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository { return &contentRepository{db: db} }

func (r *contentRepository) Create(ctx context.Context, content *model.Content) error {
	if content.ID == "" {
		content.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(content).Error
}

func (r *contentRepository) GetByID(ctx context.Context, id string) (*model.Content, error) {
	var content model.Content
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&content).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *contentRepository) ListByUser(ctx context.Context, userID string) ([]*model.Content, error) {
	var items []*model.Content
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// Update applies the given columns to one row. Callers include updated_at.
func (r *contentRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&model.Content{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *contentRepository) ListCalendar(ctx context.Context, f CalendarFilter) ([]*model.Content, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", f.UserID).
		Where("scheduled_at IS NOT NULL").
		Where("scheduled_at >= ? AND scheduled_at <= ?", f.Start, f.End)
	if f.Platform != nil {
		q = q.Where("platform = ?", *f.Platform)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	var items []*model.Content
	err := q.Order("scheduled_at ASC").Find(&items).Error
	return items, err
}

// ListPendingApprovals resolves the reviewer's work queue: pending content
// whose in-progress workflow instance currently sits on an approval step
// assigned to assigneeID. Content without a qualifying instance never appears.
func (r *contentRepository) ListPendingApprovals(ctx context.Context, assigneeID string) ([]*model.Content, error) {
	var items []*model.Content
	err := r.db.WithContext(ctx).
		Model(&model.Content{}).
		Joins("JOIN workflow_instances wi ON wi.content_id = contents.id AND wi.status = ?", model.InstanceInProgress).
		Joins("JOIN workflow_steps ws ON ws.id = wi.current_step_id").
		Where("contents.status = ?", model.StatusPendingApproval).
		Where("ws.step_type = ? AND ws.assignee_id = ?", model.StepApproval, assigneeID).
		Order("contents.created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *contentRepository) analyticsQuery(ctx context.Context, f AnalyticsFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Content{}).Where("user_id = ?", f.UserID)
	if f.Start != nil {
		q = q.Where("created_at >= ?", *f.Start)
	}
	if f.End != nil {
		q = q.Where("created_at <= ?", *f.End)
	}
	if f.Platform != nil {
		q = q.Where("platform = ?", *f.Platform)
	}
	return q
}

func (r *contentRepository) CountByPlatform(ctx context.Context, f AnalyticsFilter) ([]CountRow, error) {
	var rows []CountRow
	err := r.analyticsQuery(ctx, f).
		Select("platform AS key, COUNT(*) AS count").
		Group("platform").
		Scan(&rows).Error
	return rows, err
}

func (r *contentRepository) CountByStatus(ctx context.Context, f AnalyticsFilter) ([]CountRow, error) {
	var rows []CountRow
	err := r.analyticsQuery(ctx, f).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *contentRepository) CountTotals(ctx context.Context, f AnalyticsFilter) (int64, int64, error) {
	var total int64
	if err := r.analyticsQuery(ctx, f).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	var ai int64
	if err := r.analyticsQuery(ctx, f).Where("ai_generated = ?", true).Count(&ai).Error; err != nil {
		return 0, 0, err
	}
	return total, ai, nil
}

// ClaimDuePublishable flips due scheduled rows to published inside one
// transaction and returns them. Single-process claim; the transaction is the
// only guard against double publish.
func (r *contentRepository) ClaimDuePublishable(ctx context.Context, now time.Time, limit int) ([]*model.Content, error) {
	var claimed []*model.Content
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var due []*model.Content
		if err := tx.
			Where("status = ? AND scheduled_at <= ?", model.StatusScheduled, now).
			Order("scheduled_at ASC").
			Limit(limit).
			Find(&due).Error; err != nil {
			return err
		}
		if len(due) == 0 {
			return nil
		}
		ids := make([]string, len(due))
		for i, c := range due {
			ids[i] = c.ID
		}
		if err := tx.Model(&model.Content{}).
			Where("id IN ?", ids).
			Updates(map[string]any{"status": model.StatusPublished, "updated_at": now}).Error; err != nil {
			return err
		}
		for _, c := range due {
			c.Status = model.StatusPublished
			c.UpdatedAt = now
		}
		claimed = due
		return nil
	})
	return claimed, err
}
