package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/contentflow/internal/model"
	"github.com/d60-Lab/contentflow/internal/repository"
)

type StepInput struct {
	StepOrder  int
	StepType   model.StepType
	Required   bool
	AssigneeID *string
}

type CreateTemplateInput struct {
	UserID      string
	Name        string
	Description *string
	Steps       []StepInput
}

// WorkflowService is the template engine, the instance tracker, and the
// approval gate.
type WorkflowService interface {
	CreateTemplate(ctx context.Context, in CreateTemplateInput) (*model.WorkflowTemplate, error)
	ListTemplatesForUser(ctx context.Context, userID string) ([]*model.WorkflowTemplate, error)
	GetTemplateByID(ctx context.Context, id string) (*model.WorkflowTemplate, error)

	StartInstance(ctx context.Context, contentID, templateID string) (*model.WorkflowInstance, error)
	AdvanceInstance(ctx context.Context, instanceID string) (*model.WorkflowInstance, error)
	CancelInstance(ctx context.Context, instanceID string) (*model.WorkflowInstance, error)

	GetPendingApprovals(ctx context.Context, userID string) ([]*model.Content, error)
}

type workflowService struct {
	workflowRepo repository.WorkflowRepository
	contentRepo  repository.ContentRepository
	userRepo     repository.UserRepository
	now          func() time.Time
}

func NewWorkflowService(workflowRepo repository.WorkflowRepository, contentRepo repository.ContentRepository, userRepo repository.UserRepository) WorkflowService {
	return &workflowService{
		workflowRepo: workflowRepo,
		contentRepo:  contentRepo,
		userRepo:     userRepo,
		now:          time.Now,
	}
}

// CreateTemplate validates the step definitions and persists template plus
// steps atomically. Input steps need not arrive sorted; validation works on a
// sorted view of the orders while the response keeps the declared order.
func (s *workflowService) CreateTemplate(ctx context.Context, in CreateTemplateInput) (*model.WorkflowTemplate, error) {
	ok, err := s.userRepo.Exists(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("user", in.UserID)
	}

	if len(in.Steps) == 0 {
		return nil, validationErr("template requires at least one step")
	}
	orders := make([]int, len(in.Steps))
	for i, st := range in.Steps {
		if !model.ValidStepType(st.StepType) {
			return nil, validationErr("unknown step type: %s", st.StepType)
		}
		orders[i] = st.StepOrder
	}
	sort.Ints(orders)
	for i, o := range orders {
		if o != i+1 {
			return nil, validationErr("non-contiguous step order")
		}
	}
	for _, st := range in.Steps {
		if st.AssigneeID == nil {
			continue
		}
		ok, err := s.userRepo.Exists(ctx, *st.AssigneeID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, notFound("assignee", *st.AssigneeID)
		}
	}

	tpl := &model.WorkflowTemplate{
		UserID:      in.UserID,
		Name:        in.Name,
		Description: in.Description,
		IsActive:    true,
		Steps:       make([]model.WorkflowStep, len(in.Steps)),
	}
	for i, st := range in.Steps {
		tpl.Steps[i] = model.WorkflowStep{
			StepOrder:  st.StepOrder,
			StepType:   st.StepType,
			Required:   st.Required,
			AssigneeID: st.AssigneeID,
		}
	}
	if err := s.workflowRepo.CreateTemplate(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *workflowService) ListTemplatesForUser(ctx context.Context, userID string) ([]*model.WorkflowTemplate, error) {
	tpls, err := s.workflowRepo.ListTemplatesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if tpls == nil {
		tpls = []*model.WorkflowTemplate{}
	}
	return tpls, nil
}

func (s *workflowService) GetTemplateByID(ctx context.Context, id string) (*model.WorkflowTemplate, error) {
	tpl, err := s.workflowRepo.GetTemplateByID(ctx, id)
	if err != nil {
		return nil, wrapRecordErr(err, "workflow template", id)
	}
	return tpl, nil
}

// StartInstance binds content to a template and points the instance at the
// first step. One active instance per content item.
func (s *workflowService) StartInstance(ctx context.Context, contentID, templateID string) (*model.WorkflowInstance, error) {
	if _, err := s.contentRepo.GetByID(ctx, contentID); err != nil {
		return nil, wrapRecordErr(err, "content", contentID)
	}
	tpl, err := s.workflowRepo.GetTemplateByID(ctx, templateID)
	if err != nil {
		return nil, wrapRecordErr(err, "workflow template", templateID)
	}

	if _, err := s.workflowRepo.GetActiveInstanceByContent(ctx, contentID); err == nil {
		return nil, preconditionErr("content %s already has an active workflow instance", contentID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	inst := &model.WorkflowInstance{
		ContentID:  contentID,
		TemplateID: tpl.ID,
		Status:     model.InstanceInProgress,
		StartedAt:  s.now(),
	}
	// Steps arrive ordered by step_order; the first one is the entry point.
	if len(tpl.Steps) > 0 {
		inst.CurrentStepID = &tpl.Steps[0].ID
	}
	if err := s.workflowRepo.CreateInstance(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// AdvanceInstance completes the current step. Moving past the last step puts
// the instance in its terminal completed state.
func (s *workflowService) AdvanceInstance(ctx context.Context, instanceID string) (*model.WorkflowInstance, error) {
	inst, err := s.workflowRepo.GetInstanceByID(ctx, instanceID)
	if err != nil {
		return nil, wrapRecordErr(err, "workflow instance", instanceID)
	}
	if inst.Status != model.InstanceInProgress {
		return nil, preconditionErr("workflow instance is %s, not in_progress", inst.Status)
	}

	var next *model.WorkflowStep
	if inst.CurrentStepID != nil {
		current, err := s.workflowRepo.GetStepByID(ctx, *inst.CurrentStepID)
		if err != nil {
			return nil, wrapRecordErr(err, "workflow step", *inst.CurrentStepID)
		}
		steps, err := s.workflowRepo.ListStepsByTemplate(ctx, inst.TemplateID)
		if err != nil {
			return nil, err
		}
		for _, st := range steps {
			if st.StepOrder == current.StepOrder+1 {
				next = st
				break
			}
		}
	}

	fields := map[string]any{}
	if next != nil {
		fields["current_step_id"] = next.ID
	} else {
		now := s.now()
		fields["current_step_id"] = nil
		fields["status"] = model.InstanceCompleted
		fields["completed_at"] = now
	}
	if err := s.workflowRepo.UpdateInstance(ctx, instanceID, fields); err != nil {
		return nil, err
	}
	return s.workflowRepo.GetInstanceByID(ctx, instanceID)
}

func (s *workflowService) CancelInstance(ctx context.Context, instanceID string) (*model.WorkflowInstance, error) {
	inst, err := s.workflowRepo.GetInstanceByID(ctx, instanceID)
	if err != nil {
		return nil, wrapRecordErr(err, "workflow instance", instanceID)
	}
	if inst.Status != model.InstanceInProgress {
		return nil, preconditionErr("workflow instance is %s, not in_progress", inst.Status)
	}

	fields := map[string]any{
		"status":       model.InstanceCancelled,
		"completed_at": s.now(),
	}
	if err := s.workflowRepo.UpdateInstance(ctx, instanceID, fields); err != nil {
		return nil, err
	}
	return s.workflowRepo.GetInstanceByID(ctx, instanceID)
}

// GetPendingApprovals resolves the reviewer's actionable queue, newest first.
func (s *workflowService) GetPendingApprovals(ctx context.Context, userID string) ([]*model.Content, error) {
	items, err := s.contentRepo.ListPendingApprovals(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*model.Content{}
	}
	return items, nil
}
