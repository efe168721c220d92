package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/contentflow/internal/model"
)

func setupRepoDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Content{},
		&model.WorkflowTemplate{},
		&model.WorkflowStep{},
		&model.WorkflowInstance{},
	); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

// seedApprovalRow wires content -> instance -> step by hand so the join is
// exercised without going through the service layer.
func seedApprovalRow(tb testing.TB, db *gorm.DB, i int, assigneeID string, stepType model.StepType, instStatus model.InstanceStatus, contentStatus model.ContentStatus) *model.Content {
	tb.Helper()
	content := &model.Content{
		ID: fmt.Sprintf("c%04d", i), UserID: "owner", Title: "t", Caption: "c",
		Platform: model.PlatformInstagram, ContentType: model.ContentTypePost,
		Status: contentStatus, CreatedAt: time.Unix(int64(1700000000+i), 0),
	}
	step := &model.WorkflowStep{
		ID: fmt.Sprintf("s%04d", i), TemplateID: "tpl", StepOrder: 1,
		StepType: stepType, Required: true, AssigneeID: &assigneeID,
	}
	inst := &model.WorkflowInstance{
		ID: fmt.Sprintf("i%04d", i), ContentID: content.ID, TemplateID: "tpl",
		CurrentStepID: &step.ID, Status: instStatus, StartedAt: time.Now(),
	}
	if err := db.Create(content).Error; err != nil {
		tb.Fatalf("seed content: %v", err)
	}
	if err := db.Create(step).Error; err != nil {
		tb.Fatalf("seed step: %v", err)
	}
	if err := db.Create(inst).Error; err != nil {
		tb.Fatalf("seed instance: %v", err)
	}
	return content
}

func TestListPendingApprovalsJoin(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	match1 := seedApprovalRow(t, db, 1, "rev", model.StepApproval, model.InstanceInProgress, model.StatusPendingApproval)
	match2 := seedApprovalRow(t, db, 2, "rev", model.StepApproval, model.InstanceInProgress, model.StatusPendingApproval)
	seedApprovalRow(t, db, 3, "other", model.StepApproval, model.InstanceInProgress, model.StatusPendingApproval)
	seedApprovalRow(t, db, 4, "rev", model.StepReview, model.InstanceInProgress, model.StatusPendingApproval)
	seedApprovalRow(t, db, 5, "rev", model.StepApproval, model.InstanceCompleted, model.StatusPendingApproval)
	seedApprovalRow(t, db, 6, "rev", model.StepApproval, model.InstanceInProgress, model.StatusDraft)

	items, err := repo.ListPendingApprovals(ctx, "rev")
	require.NoError(t, err)
	require.Len(t, items, 2)
	// newest first
	assert.Equal(t, match2.ID, items[0].ID)
	assert.Equal(t, match1.ID, items[1].ID)
}

func TestUpdateClearsNullableColumns(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	reason := "needs work"
	now := time.Now()
	content := &model.Content{
		UserID: "owner", Title: "t", Caption: "c",
		Platform: model.PlatformTwitter, ContentType: model.ContentTypeTweet,
		Status: model.StatusRejected, RejectedReason: &reason, ScheduledAt: &now,
	}
	require.NoError(t, repo.Create(ctx, content))

	require.NoError(t, repo.Update(ctx, content.ID, map[string]any{
		"rejected_reason": nil,
		"scheduled_at":    nil,
		"updated_at":      time.Now(),
	}))

	got, err := repo.GetByID(ctx, content.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RejectedReason)
	assert.Nil(t, got.ScheduledAt)
}

func BenchmarkListPendingApprovals(b *testing.B) {
	db := setupRepoDB(b)
	repo := NewContentRepository(db)
	ctx := context.Background()

	const N = 2000
	for i := 0; i < N; i++ {
		assignee := "rev"
		if i%4 != 0 {
			assignee = fmt.Sprintf("other%d", i%7)
		}
		seedApprovalRow(b, db, i, assignee, model.StepApproval, model.InstanceInProgress, model.StatusPendingApproval)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := repo.ListPendingApprovals(ctx, "rev"); err != nil {
			b.Fatalf("query: %v", err)
		}
	}
}
