package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/contentflow/internal/model"
	"github.com/d60-Lab/contentflow/internal/repository"
)

func TestPublishWorkerProcessOnce(t *testing.T) {
	db := setupTestDB(t)
	contentRepo := repository.NewContentRepository(db)
	userRepo := repository.NewUserRepository(db)
	ctx := context.Background()

	user := &model.User{Email: "u@example.com", Name: "U"}
	require.NoError(t, userRepo.Create(ctx, user))

	mk := func(status model.ContentStatus, at *time.Time) *model.Content {
		c := &model.Content{
			UserID: user.ID, Title: "t", Caption: "c",
			Platform: model.PlatformInstagram, ContentType: model.ContentTypePost,
			Status: status, ScheduledAt: at,
		}
		require.NoError(t, contentRepo.Create(ctx, c))
		return c
	}

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)
	due := mk(model.StatusScheduled, &past)
	notDue := mk(model.StatusScheduled, &future)
	notScheduled := mk(model.StatusApproved, &past)

	w := NewPublishWorker(contentRepo, time.Second, 10)
	n, err := w.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := contentRepo.GetByID(ctx, due.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublished, got.Status)

	got, err = contentRepo.GetByID(ctx, notDue.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusScheduled, got.Status)

	got, err = contentRepo.GetByID(ctx, notScheduled.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)

	// published id shows up on the channel
	select {
	case id := <-w.Published():
		assert.Equal(t, due.ID, id)
	default:
		t.Fatal("expected a published id on the channel")
	}

	// second pass finds nothing to do
	n, err = w.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
