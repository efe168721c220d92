package model

import "time"

// StepType classifies a workflow step.
type StepType string

const (
	StepGeneration StepType = "generation"
	StepReview     StepType = "review"
	StepApproval   StepType = "approval"
	StepScheduling StepType = "scheduling"
)

// InstanceStatus is the progress state of a workflow instance.
type InstanceStatus string

const (
	InstanceInProgress InstanceStatus = "in_progress"
	InstanceCompleted  InstanceStatus = "completed"
	InstanceCancelled  InstanceStatus = "cancelled"
)

// WorkflowTemplate is a reusable named sequence of steps a content item moves
// through. Steps are created atomically with the template and are immutable
// afterwards.
type WorkflowTemplate struct {
	ID          string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string         `json:"user_id" gorm:"type:varchar(36);index:idx_template_user;not null"`
	Name        string         `json:"name" gorm:"type:varchar(255);not null"`
	Description *string        `json:"description,omitempty" gorm:"type:text"`
	IsActive    bool           `json:"is_active" gorm:"not null;default:true"`
	Steps       []WorkflowStep `json:"steps" gorm:"foreignKey:TemplateID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (WorkflowTemplate) TableName() string { return "workflow_templates" }

// WorkflowStep is one step of a template. StepOrder values form a contiguous
// 1..N sequence unique within the template.
type WorkflowStep struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TemplateID string    `json:"template_id" gorm:"type:varchar(36);index:idx_step_template;not null"`
	StepOrder  int       `json:"step_order" gorm:"not null"`
	StepType   StepType  `json:"step_type" gorm:"type:varchar(16);not null"`
	Required   bool      `json:"required" gorm:"not null;default:true"`
	AssigneeID *string   `json:"assignee_id,omitempty" gorm:"type:varchar(36);index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (WorkflowStep) TableName() string { return "workflow_steps" }

// WorkflowInstance binds one content item to one template and tracks its
// progress through the steps.
type WorkflowInstance struct {
	ID            string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ContentID     string         `json:"content_id" gorm:"type:varchar(36);index:idx_instance_content;not null"`
	TemplateID    string         `json:"template_id" gorm:"type:varchar(36);index;not null"`
	CurrentStepID *string        `json:"current_step_id,omitempty" gorm:"type:varchar(36);index"`
	Status        InstanceStatus `json:"status" gorm:"type:varchar(16);index;not null;default:in_progress"`
	StartedAt     time.Time      `json:"started_at"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
}

func (WorkflowInstance) TableName() string { return "workflow_instances" }

// ValidStepType reports whether t is a known step type.
func ValidStepType(t StepType) bool {
	switch t {
	case StepGeneration, StepReview, StepApproval, StepScheduling:
		return true
	}
	return false
}
