package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/contentflow/internal/model"
)

type WorkflowRepository interface {
	// CreateTemplate persists a template and its steps in one transaction.
	CreateTemplate(ctx context.Context, template *model.WorkflowTemplate) error
	GetTemplateByID(ctx context.Context, id string) (*model.WorkflowTemplate, error)
	ListTemplatesByUser(ctx context.Context, userID string) ([]*model.WorkflowTemplate, error)

	GetStepByID(ctx context.Context, id string) (*model.WorkflowStep, error)
	ListStepsByTemplate(ctx context.Context, templateID string) ([]*model.WorkflowStep, error)

	CreateInstance(ctx context.Context, instance *model.WorkflowInstance) error
	GetInstanceByID(ctx context.Context, id string) (*model.WorkflowInstance, error)
	GetActiveInstanceByContent(ctx context.Context, contentID string) (*model.WorkflowInstance, error)
	UpdateInstance(ctx context.Context, id string, fields map[string]any) error
}

type workflowRepository struct {
	db *gorm.DB
}

func NewWorkflowRepository(db *gorm.DB) WorkflowRepository { return &workflowRepository{db: db} }

func (r *workflowRepository) CreateTemplate(ctx context.Context, template *model.WorkflowTemplate) error {
	if template.ID == "" {
		template.ID = uuid.New().String()
	}
	for i := range template.Steps {
		if template.Steps[i].ID == "" {
			template.Steps[i].ID = uuid.New().String()
		}
		template.Steps[i].TemplateID = template.ID
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := template.Steps
		template.Steps = nil
		if err := tx.Create(template).Error; err != nil {
			template.Steps = steps
			return err
		}
		template.Steps = steps
		if len(steps) == 0 {
			return nil
		}
		return tx.Create(&template.Steps).Error
	})
}

func (r *workflowRepository) GetTemplateByID(ctx context.Context, id string) (*model.WorkflowTemplate, error) {
	var tpl model.WorkflowTemplate
	err := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
		Where("id = ?", id).
		First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *workflowRepository) ListTemplatesByUser(ctx context.Context, userID string) ([]*model.WorkflowTemplate, error) {
	var tpls []*model.WorkflowTemplate
	err := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tpls).Error
	return tpls, err
}

func (r *workflowRepository) GetStepByID(ctx context.Context, id string) (*model.WorkflowStep, error) {
	var step model.WorkflowStep
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&step).Error; err != nil {
		return nil, err
	}
	return &step, nil
}

func (r *workflowRepository) ListStepsByTemplate(ctx context.Context, templateID string) ([]*model.WorkflowStep, error) {
	var steps []*model.WorkflowStep
	err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("step_order ASC").
		Find(&steps).Error
	return steps, err
}

func (r *workflowRepository) CreateInstance(ctx context.Context, instance *model.WorkflowInstance) error {
	if instance.ID == "" {
		instance.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(instance).Error
}

func (r *workflowRepository) GetInstanceByID(ctx context.Context, id string) (*model.WorkflowInstance, error) {
	var inst model.WorkflowInstance
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&inst).Error; err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *workflowRepository) GetActiveInstanceByContent(ctx context.Context, contentID string) (*model.WorkflowInstance, error) {
	var inst model.WorkflowInstance
	err := r.db.WithContext(ctx).
		Where("content_id = ? AND status = ?", contentID, model.InstanceInProgress).
		First(&inst).Error
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *workflowRepository) UpdateInstance(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&model.WorkflowInstance{}).
		Where("id = ?", id).
		Updates(fields).Error
}
