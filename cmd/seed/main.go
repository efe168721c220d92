// Seeds a local database with demo users, a review workflow and content in
// various lifecycle states.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/d60-Lab/contentflow/config"
	"github.com/d60-Lab/contentflow/internal/model"
	"github.com/d60-Lab/contentflow/internal/repository"
	"github.com/d60-Lab/contentflow/internal/service"
	"github.com/d60-Lab/contentflow/pkg/database"
	"github.com/d60-Lab/contentflow/pkg/logger"
	"github.com/d60-Lab/contentflow/pkg/optional"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func main() {
	cfg := must(config.Load())
	_ = logger.Init(cfg.Log.Level)
	db := must(database.InitDB(cfg))

	userRepo := repository.NewUserRepository(db)
	contentRepo := repository.NewContentRepository(db)
	workflowRepo := repository.NewWorkflowRepository(db)

	userSvc := service.NewUserService(userRepo, cfg.Auth)
	contentSvc := service.NewContentService(contentRepo, userRepo)
	workflowSvc := service.NewWorkflowService(workflowRepo, contentRepo, userRepo)
	genSvc := service.NewGenerationService(contentRepo, userRepo)

	ctx := context.Background()

	owner := must(userSvc.CreateUser(ctx, "owner@example.com", "Content Owner", "owner-pass"))
	reviewer := must(userSvc.CreateUser(ctx, "reviewer@example.com", "Reviewer", "reviewer-pass"))
	fmt.Printf("users: owner=%s reviewer=%s\n", owner.ID, reviewer.ID)

	tpl := must(workflowSvc.CreateTemplate(ctx, service.CreateTemplateInput{
		UserID: owner.ID,
		Name:   "Standard review",
		Steps: []service.StepInput{
			{StepOrder: 1, StepType: model.StepGeneration, Required: true},
			{StepOrder: 2, StepType: model.StepReview, Required: true, AssigneeID: &reviewer.ID},
			{StepOrder: 3, StepType: model.StepApproval, Required: true, AssigneeID: &reviewer.ID},
			{StepOrder: 4, StepType: model.StepScheduling, Required: false},
		},
	}))
	fmt.Printf("template: %s (%d steps)\n", tpl.ID, len(tpl.Steps))

	draft := must(genSvc.GenerateContent(ctx, service.GenerateContentInput{
		UserID:          owner.ID,
		Prompt:          "Announcing our spring collection",
		Platform:        model.PlatformInstagram,
		ContentType:     model.ContentTypePost,
		IncludeHashtags: true,
	}))

	pending := must(contentSvc.CreateContent(ctx, service.CreateContentInput{
		UserID:      owner.ID,
		Title:       "Launch teaser",
		Caption:     "Something big is coming next week.",
		Platform:    model.PlatformTwitter,
		ContentType: model.ContentTypeTweet,
	}))
	inst := must(workflowSvc.StartInstance(ctx, pending.ID, tpl.ID))
	// generation and review are done; park the instance on the approval step
	must(workflowSvc.AdvanceInstance(ctx, inst.ID))
	must(workflowSvc.AdvanceInstance(ctx, inst.ID))
	must(contentSvc.UpdateContent(ctx, pending.ID, service.UpdateContentInput{
		Status: optional.Of(model.StatusPendingApproval),
	}))

	approved := must(contentSvc.CreateContent(ctx, service.CreateContentInput{
		UserID:      owner.ID,
		Title:       "Behind the scenes",
		Caption:     "A look at how we make things.",
		Platform:    model.PlatformLinkedIn,
		ContentType: model.ContentTypePost,
	}))
	must(contentSvc.ApproveOrReject(ctx, approved.ID, reviewer.ID, true, nil))
	must(contentSvc.ScheduleContent(ctx, approved.ID, time.Now().Add(48*time.Hour)))

	fmt.Printf("content: draft=%s pending=%s scheduled=%s\n", draft.ID, pending.ID, approved.ID)
}
