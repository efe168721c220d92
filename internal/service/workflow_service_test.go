package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/contentflow/internal/model"
	"github.com/d60-Lab/contentflow/internal/repository"
)

type workflowFixture struct {
	db           *gorm.DB
	svc          *workflowService
	userRepo     repository.UserRepository
	contentRepo  repository.ContentRepository
	workflowRepo repository.WorkflowRepository
	owner        *model.User
	reviewer     *model.User
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	contentRepo := repository.NewContentRepository(db)
	workflowRepo := repository.NewWorkflowRepository(db)

	ctx := context.Background()
	owner := &model.User{Email: "owner@example.com", Name: "Owner"}
	require.NoError(t, userRepo.Create(ctx, owner))
	reviewer := &model.User{Email: "reviewer@example.com", Name: "Reviewer"}
	require.NoError(t, userRepo.Create(ctx, reviewer))

	return &workflowFixture{
		db:           db,
		svc:          NewWorkflowService(workflowRepo, contentRepo, userRepo).(*workflowService),
		userRepo:     userRepo,
		contentRepo:  contentRepo,
		workflowRepo: workflowRepo,
		owner:        owner,
		reviewer:     reviewer,
	}
}

func (f *workflowFixture) reviewTemplate(t *testing.T) *model.WorkflowTemplate {
	t.Helper()
	tpl, err := f.svc.CreateTemplate(context.Background(), CreateTemplateInput{
		UserID: f.owner.ID,
		Name:   "Standard review",
		Steps: []StepInput{
			{StepOrder: 1, StepType: model.StepReview, Required: true, AssigneeID: &f.reviewer.ID},
			{StepOrder: 2, StepType: model.StepApproval, Required: true, AssigneeID: &f.reviewer.ID},
			{StepOrder: 3, StepType: model.StepScheduling, Required: false},
		},
	})
	require.NoError(t, err)
	return tpl
}

func (f *workflowFixture) pendingContent(t *testing.T, createdAt time.Time) *model.Content {
	t.Helper()
	c := &model.Content{
		UserID: f.owner.ID, Title: "t", Caption: "c",
		Platform: model.PlatformInstagram, ContentType: model.ContentTypePost,
		Status: model.StatusPendingApproval, CreatedAt: createdAt,
	}
	require.NoError(t, f.contentRepo.Create(context.Background(), c))
	return c
}

func TestCreateTemplate(t *testing.T) {
	f := newWorkflowFixture(t)
	tpl := f.reviewTemplate(t)
	assert.NotEmpty(t, tpl.ID)
	require.Len(t, tpl.Steps, 3)
	for _, st := range tpl.Steps {
		assert.Equal(t, tpl.ID, st.TemplateID)
		assert.NotEmpty(t, st.ID)
	}

	// declared order is preserved in the response even when unsorted
	unsorted, err := f.svc.CreateTemplate(context.Background(), CreateTemplateInput{
		UserID: f.owner.ID,
		Name:   "Unsorted",
		Steps: []StepInput{
			{StepOrder: 2, StepType: model.StepApproval},
			{StepOrder: 1, StepType: model.StepReview},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, unsorted.Steps[0].StepOrder)
	assert.Equal(t, 1, unsorted.Steps[1].StepOrder)
}

func TestCreateTemplateNonContiguousSteps(t *testing.T) {
	f := newWorkflowFixture(t)
	_, err := f.svc.CreateTemplate(context.Background(), CreateTemplateInput{
		UserID: f.owner.ID,
		Name:   "Broken",
		Steps: []StepInput{
			{StepOrder: 1, StepType: model.StepGeneration},
			{StepOrder: 3, StepType: model.StepApproval},
		},
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "non-contiguous")

	// duplicate orders are non-contiguous too
	_, err = f.svc.CreateTemplate(context.Background(), CreateTemplateInput{
		UserID: f.owner.ID,
		Name:   "Duplicated",
		Steps: []StepInput{
			{StepOrder: 1, StepType: model.StepGeneration},
			{StepOrder: 1, StepType: model.StepApproval},
		},
	})
	assert.ErrorAs(t, err, &ve)
}

func TestCreateTemplateRequiresSteps(t *testing.T) {
	f := newWorkflowFixture(t)
	_, err := f.svc.CreateTemplate(context.Background(), CreateTemplateInput{
		UserID: f.owner.ID,
		Name:   "Empty",
		Steps:  []StepInput{},
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Error(), "at least one step")

	// nothing persisted for the owner
	tpls, err := f.svc.ListTemplatesForUser(context.Background(), f.owner.ID)
	require.NoError(t, err)
	assert.Empty(t, tpls)
}

func TestCreateTemplateUnknownReferences(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateTemplate(ctx, CreateTemplateInput{UserID: "ghost", Name: "x"})
	assert.True(t, IsNotFound(err))

	missing := "missing-assignee"
	_, err = f.svc.CreateTemplate(ctx, CreateTemplateInput{
		UserID: f.owner.ID,
		Name:   "x",
		Steps: []StepInput{
			{StepOrder: 1, StepType: model.StepApproval, AssigneeID: &missing},
		},
	})
	require.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), missing)

	// nothing half-written after the failure
	var cnt int64
	require.NoError(t, f.db.Model(&model.WorkflowTemplate{}).Count(&cnt).Error)
	assert.Equal(t, int64(0), cnt)
}

func TestListTemplatesForUser(t *testing.T) {
	f := newWorkflowFixture(t)

	tpls, err := f.svc.ListTemplatesForUser(context.Background(), f.owner.ID)
	require.NoError(t, err)
	assert.NotNil(t, tpls)
	assert.Empty(t, tpls)

	f.reviewTemplate(t)
	tpls, err = f.svc.ListTemplatesForUser(context.Background(), f.owner.ID)
	require.NoError(t, err)
	require.Len(t, tpls, 1)
	assert.Len(t, tpls[0].Steps, 3)
}

func TestGetTemplateByID(t *testing.T) {
	f := newWorkflowFixture(t)
	tpl := f.reviewTemplate(t)

	got, err := f.svc.GetTemplateByID(context.Background(), tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, tpl.ID, got.ID)
	// steps come back ordered by step_order
	require.Len(t, got.Steps, 3)
	for i, st := range got.Steps {
		assert.Equal(t, i+1, st.StepOrder)
	}

	_, err = f.svc.GetTemplateByID(context.Background(), "missing")
	assert.True(t, IsNotFound(err))
}

func TestStartInstance(t *testing.T) {
	f := newWorkflowFixture(t)
	tpl := f.reviewTemplate(t)
	c := f.pendingContent(t, time.Now())
	ctx := context.Background()

	inst, err := f.svc.StartInstance(ctx, c.ID, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InstanceInProgress, inst.Status)
	require.NotNil(t, inst.CurrentStepID)
	step, err := f.workflowRepo.GetStepByID(ctx, *inst.CurrentStepID)
	require.NoError(t, err)
	assert.Equal(t, 1, step.StepOrder)

	// one active instance per content item
	_, err = f.svc.StartInstance(ctx, c.ID, tpl.ID)
	var pe *PreconditionError
	assert.ErrorAs(t, err, &pe)

	_, err = f.svc.StartInstance(ctx, "missing", tpl.ID)
	assert.True(t, IsNotFound(err))
	_, err = f.svc.StartInstance(ctx, c.ID, "missing")
	assert.True(t, IsNotFound(err))
}

func TestAdvanceInstanceToCompletion(t *testing.T) {
	f := newWorkflowFixture(t)
	tpl := f.reviewTemplate(t)
	c := f.pendingContent(t, time.Now())
	ctx := context.Background()

	inst, err := f.svc.StartInstance(ctx, c.ID, tpl.ID)
	require.NoError(t, err)

	inst, err = f.svc.AdvanceInstance(ctx, inst.ID)
	require.NoError(t, err)
	step, err := f.workflowRepo.GetStepByID(ctx, *inst.CurrentStepID)
	require.NoError(t, err)
	assert.Equal(t, 2, step.StepOrder)

	inst, err = f.svc.AdvanceInstance(ctx, inst.ID)
	require.NoError(t, err)
	inst, err = f.svc.AdvanceInstance(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InstanceCompleted, inst.Status)
	assert.Nil(t, inst.CurrentStepID)
	assert.NotNil(t, inst.CompletedAt)

	// terminal: cannot advance further
	_, err = f.svc.AdvanceInstance(ctx, inst.ID)
	var pe *PreconditionError
	assert.ErrorAs(t, err, &pe)
}

func TestCancelInstance(t *testing.T) {
	f := newWorkflowFixture(t)
	tpl := f.reviewTemplate(t)
	c := f.pendingContent(t, time.Now())
	ctx := context.Background()

	inst, err := f.svc.StartInstance(ctx, c.ID, tpl.ID)
	require.NoError(t, err)

	inst, err = f.svc.CancelInstance(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InstanceCancelled, inst.Status)
	assert.NotNil(t, inst.CompletedAt)

	_, err = f.svc.CancelInstance(ctx, inst.ID)
	var pe *PreconditionError
	assert.ErrorAs(t, err, &pe)
}

func TestGetPendingApprovals(t *testing.T) {
	f := newWorkflowFixture(t)
	tpl := f.reviewTemplate(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	// older and newer content, both parked on the approval step
	older := f.pendingContent(t, base)
	newer := f.pendingContent(t, base.Add(time.Hour))
	for _, c := range []*model.Content{older, newer} {
		inst, err := f.svc.StartInstance(ctx, c.ID, tpl.ID)
		require.NoError(t, err)
		_, err = f.svc.AdvanceInstance(ctx, inst.ID) // review -> approval
		require.NoError(t, err)
	}

	// still on the review step: must not appear
	onReview := f.pendingContent(t, base.Add(2*time.Hour))
	_, err := f.svc.StartInstance(ctx, onReview.ID, tpl.ID)
	require.NoError(t, err)

	// no workflow instance at all: must not appear
	f.pendingContent(t, base.Add(3*time.Hour))

	// cancelled instance: must not appear
	cancelled := f.pendingContent(t, base.Add(4*time.Hour))
	inst, err := f.svc.StartInstance(ctx, cancelled.ID, tpl.ID)
	require.NoError(t, err)
	_, err = f.svc.AdvanceInstance(ctx, inst.ID)
	require.NoError(t, err)
	_, err = f.svc.CancelInstance(ctx, inst.ID)
	require.NoError(t, err)

	// wrong content status: must not appear
	draft := &model.Content{
		UserID: f.owner.ID, Title: "t", Caption: "c",
		Platform: model.PlatformInstagram, ContentType: model.ContentTypePost,
		Status: model.StatusDraft, CreatedAt: base.Add(5 * time.Hour),
	}
	require.NoError(t, f.contentRepo.Create(ctx, draft))
	inst, err = f.svc.StartInstance(ctx, draft.ID, tpl.ID)
	require.NoError(t, err)
	_, err = f.svc.AdvanceInstance(ctx, inst.ID)
	require.NoError(t, err)

	items, err := f.svc.GetPendingApprovals(ctx, f.reviewer.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, newer.ID, items[0].ID)
	assert.Equal(t, older.ID, items[1].ID)

	// a different reviewer sees nothing
	items, err = f.svc.GetPendingApprovals(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
