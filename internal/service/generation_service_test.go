package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/contentflow/internal/model"
	"github.com/d60-Lab/contentflow/internal/repository"
)

func TestGenerateContent(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	contentRepo := repository.NewContentRepository(db)
	svc := NewGenerationService(contentRepo, userRepo)
	ctx := context.Background()

	user := &model.User{Email: "u@example.com", Name: "U"}
	require.NoError(t, userRepo.Create(ctx, user))

	tone := "playful"
	c, err := svc.GenerateContent(ctx, GenerateContentInput{
		UserID:          user.ID,
		Prompt:          "New product launch",
		Platform:        model.PlatformInstagram,
		ContentType:     model.ContentTypeReel,
		IncludeHashtags: true,
		Tone:            &tone,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, c.Status)
	assert.True(t, c.AIGenerated)
	assert.Contains(t, c.Caption, "New product launch")
	assert.Contains(t, c.Caption, "playful")
	require.NotNil(t, c.Hashtags)
	assert.True(t, strings.HasPrefix(*c.Hashtags, "#"))

	// stored, not just returned
	stored, err := contentRepo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Caption, stored.Caption)
}

func TestGenerateContentWithoutHashtags(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	contentRepo := repository.NewContentRepository(db)
	svc := NewGenerationService(contentRepo, userRepo)
	ctx := context.Background()

	user := &model.User{Email: "u@example.com", Name: "U"}
	require.NoError(t, userRepo.Create(ctx, user))

	c, err := svc.GenerateContent(ctx, GenerateContentInput{
		UserID:      user.ID,
		Prompt:      "Quarterly results",
		Platform:    model.PlatformLinkedIn,
		ContentType: model.ContentTypePost,
	})
	require.NoError(t, err)
	assert.Nil(t, c.Hashtags)

	_, err = svc.GenerateContent(ctx, GenerateContentInput{
		UserID:      "ghost",
		Prompt:      "x",
		Platform:    model.PlatformLinkedIn,
		ContentType: model.ContentTypePost,
	})
	assert.True(t, IsNotFound(err))
}

func TestGenerateContentMultiBytePrompt(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	contentRepo := repository.NewContentRepository(db)
	svc := NewGenerationService(contentRepo, userRepo)
	ctx := context.Background()

	user := &model.User{Email: "u@example.com", Name: "U"}
	require.NoError(t, userRepo.Create(ctx, user))

	// Long enough to force truncation in both title and caption, with
	// multi-byte runes throughout so a byte-index cut would split one.
	prompt := strings.Repeat("café ⚡ 東京 ", 20)
	c, err := svc.GenerateContent(ctx, GenerateContentInput{
		UserID:      user.ID,
		Prompt:      prompt,
		Platform:    model.PlatformTwitter,
		ContentType: model.ContentTypeStory,
	})
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(c.Title))
	assert.True(t, utf8.ValidString(c.Caption))
	assert.True(t, strings.HasSuffix(c.Title, "..."))
}

func TestTruncateRuneBoundary(t *testing.T) {
	assert.Equal(t, "héllo", truncate("héllo", 5))
	assert.Equal(t, "hé...", truncate("héllos", 2))
	assert.True(t, utf8.ValidString(truncate(strings.Repeat("é", 10), 7)))
	assert.Equal(t, "Über", capitalize("über"))
	assert.Equal(t, "", capitalize(""))
}
