package policy_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/diewo77/go-growth/internal/models"
	"github.com/diewo77/go-growth/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func TestResource_FindIsScopedToOwner(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	bot := &models.Chatbot{Name: "Helper", UserID: 99}
	require.NoError(t, policy.Chatbots.Create(ctx, db, bot, 1))
	assert.Equal(t, uint(1), bot.UserID, "owner comes from the caller, not the payload")

	got, err := policy.Chatbots.Find(ctx, db, bot.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Helper", got.Name)

	_, foreign := policy.Chatbots.Find(ctx, db, bot.ID, 2)
	_, missing := policy.Chatbots.Find(ctx, db, bot.ID+100, 2)
	assert.True(t, errors.Is(foreign, policy.ErrNotFound))
	assert.True(t, errors.Is(missing, policy.ErrNotFound))
	assert.Equal(t, "chatbot_not_found", policy.Chatbots.NotFoundCode())
}

func TestResource_ListAndDelete(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	for _, owner := range []uint{1, 1, 2} {
		require.NoError(t, policy.Forms.Create(ctx, db, &models.Form{Name: "f"}, owner))
	}
	mine, err := policy.Forms.List(ctx, db, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := policy.Forms.List(ctx, db, 2)
	require.NoError(t, err)
	require.Len(t, theirs, 1)

	err = policy.Forms.Delete(ctx, db, theirs[0].ID, 1)
	assert.ErrorIs(t, err, policy.ErrNotFound)
	assert.NoError(t, policy.Forms.Check(ctx, db, theirs[0].ID, 2))

	require.NoError(t, policy.Forms.Delete(ctx, db, theirs[0].ID, 2))
	assert.ErrorIs(t, policy.Forms.Check(ctx, db, theirs[0].ID, 2), policy.ErrNotFound)
}

func TestResource_FindWithOrderedPreload(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	wf := &models.Workflow{Name: "w", Trigger: "lead_created"}
	require.NoError(t, policy.Workflows.Create(ctx, db, wf, 1))
	require.NoError(t, db.Create(&models.WorkflowAction{WorkflowID: wf.ID, Type: "b", Order: 2}).Error)
	require.NoError(t, db.Create(&models.WorkflowAction{WorkflowID: wf.ID, Type: "a", Order: 1}).Error)

	got, err := policy.Workflows.Find(ctx, db, wf.ID, 1, func(q *gorm.DB) *gorm.DB {
		return q.Preload("Actions", policy.OrderedBy("order"))
	})
	require.NoError(t, err)
	require.Len(t, got.Actions, 2)
	assert.Equal(t, "a", got.Actions[0].Type)
	assert.Equal(t, "b", got.Actions[1].Type)
}
