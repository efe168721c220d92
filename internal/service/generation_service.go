package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/d60-Lab/contentflow/internal/model"
	"github.com/d60-Lab/contentflow/internal/repository"
)

type GenerateContentInput struct {
	UserID          string
	Prompt          string
	Platform        model.Platform
	ContentType     model.ContentType
	IncludeHashtags bool
	Tone            *string
}

// GenerationService drafts content from a prompt. Pure templating, no model
// calls — the output is deterministic for a given input.
type GenerationService interface {
	GenerateContent(ctx context.Context, in GenerateContentInput) (*model.Content, error)
}

type generationService struct {
	contentRepo repository.ContentRepository
	userRepo    repository.UserRepository
}

func NewGenerationService(contentRepo repository.ContentRepository, userRepo repository.UserRepository) GenerationService {
	return &generationService{contentRepo: contentRepo, userRepo: userRepo}
}

var platformOpeners = map[model.Platform]string{
	model.PlatformInstagram: "✨",
	model.PlatformFacebook:  "Hey everyone!",
	model.PlatformTwitter:   "🔥",
	model.PlatformLinkedIn:  "Sharing some thoughts:",
}

var platformTags = map[model.Platform][]string{
	model.PlatformInstagram: {"#instagood", "#content", "#creator"},
	model.PlatformFacebook:  {"#community", "#share"},
	model.PlatformTwitter:   {"#trending", "#thread"},
	model.PlatformLinkedIn:  {"#professional", "#growth", "#insights"},
}

func (s *generationService) GenerateContent(ctx context.Context, in GenerateContentInput) (*model.Content, error) {
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

	tone := "engaging"
	if in.Tone != nil && *in.Tone != "" {
		tone = *in.Tone
	}

	title := fmt.Sprintf("%s %s: %s", capitalize(string(in.Platform)), in.ContentType, truncate(in.Prompt, 60))
	caption := fmt.Sprintf("%s %s\n\nHere's a %s take on: %s",
		platformOpeners[in.Platform], truncate(in.Prompt, 120), tone, in.Prompt)

	var hashtags *string
	if in.IncludeHashtags {
		h := strings.Join(platformTags[in.Platform], " ")
		hashtags = &h
	}

	content := &model.Content{
		UserID:      in.UserID,
		Title:       title,
		Caption:     caption,
		Hashtags:    hashtags,
		Platform:    in.Platform,
		ContentType: in.ContentType,
		Status:      model.StatusDraft,
		AIGenerated: true,
	}
	if err := s.contentRepo.Create(ctx, content); err != nil {
		return nil, err
	}
	return content, nil
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return strings.ToUpper(string(r)) + s[size:]
}

// truncate cuts on rune boundaries so prompts with multi-byte characters
// never yield invalid UTF-8.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
