package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
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
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func TestWorkflow_ActivateRequiresActions(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	svc := NewWorkflowService(db)

	wf, err := svc.Create(ctx, WorkflowInput{Name: "Welcome", Trigger: "lead_created"}, 1)
	require.NoError(t, err)

	_, err = svc.Activate(ctx, wf.ID, 1)
	assert.ErrorIs(t, err, models.ErrWorkflowNoActions)

	// a workflow that is already active without actions is still rejected
	require.NoError(t, db.Model(&models.Workflow{}).Where("id = ?", wf.ID).UpdateColumn("status", models.WorkflowActive).Error)
	_, err = svc.Activate(ctx, wf.ID, 1)
	assert.ErrorIs(t, err, models.ErrWorkflowNoActions)
}

func TestWorkflow_ActivateIsIdempotent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	svc := NewWorkflowService(db)

	wf, err := svc.Create(ctx, WorkflowInput{Name: "Nurture", Trigger: "form_submitted"}, 1)
	require.NoError(t, err)
	_, err = svc.AddAction(ctx, wf.ID, 1, ActionInput{Type: "send_email", Config: json.RawMessage(`{"template":"hi"}`)})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		got, err := svc.Activate(ctx, wf.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, models.WorkflowActive, got.Status)
	}
	var stored models.Workflow
	require.NoError(t, db.First(&stored, wf.ID).Error)
	assert.Equal(t, models.WorkflowActive, stored.Status)

	paused, err := svc.Pause(ctx, wf.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowPaused, paused.Status)
}

func TestWorkflow_ForeignAndMissingAreIdentical(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	svc := NewWorkflowService(db)

	wf, err := svc.Create(ctx, WorkflowInput{Name: "Mine", Trigger: "manual"}, 1)
	require.NoError(t, err)

	_, foreign := svc.Activate(ctx, wf.ID, 2)
	_, missing := svc.Activate(ctx, wf.ID+50, 2)
	assert.ErrorIs(t, foreign, policy.ErrNotFound)
	assert.ErrorIs(t, missing, policy.ErrNotFound)

	_, foreign = svc.Pause(ctx, wf.ID, 2)
	assert.ErrorIs(t, foreign, policy.ErrNotFound)
	var stored models.Workflow
	require.NoError(t, db.First(&stored, wf.ID).Error)
	assert.Equal(t, models.WorkflowDraft, stored.Status)

	_, err = svc.AddAction(ctx, wf.ID, 2, ActionInput{Type: "send_email"})
	assert.ErrorIs(t, err, policy.ErrNotFound)
}

func TestWorkflow_ActionsAppendInOrder(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	svc := NewWorkflowService(db)

	wf, err := svc.Create(ctx, WorkflowInput{Name: "Seq", Trigger: "manual"}, 1)
	require.NoError(t, err)
	first, err := svc.AddAction(ctx, wf.ID, 1, ActionInput{Type: "wait"})
	require.NoError(t, err)
	second, err := svc.AddAction(ctx, wf.ID, 1, ActionInput{Type: "send_email"})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 1, second.Order)
	assert.Equal(t, "{}", first.Config)

	got, err := svc.Get(ctx, wf.ID, 1)
	require.NoError(t, err)
	require.Len(t, got.Actions, 2)
	assert.Equal(t, "wait", got.Actions[0].Type)
}

func publishedPage(t *testing.T, db *gorm.DB, owner uint, title string) LandingPageView {
	t.Helper()
	ctx := context.Background()
	svc := NewLandingPageService(db)
	page, err := svc.Create(ctx, LandingPageInput{
		Title:        title,
		Features:     json.RawMessage(`[{"title":"Fast"}]`),
		Testimonials: json.RawMessage(`[]`),
	}, owner)
	require.NoError(t, err)
	page, err = svc.SetPublished(ctx, page.ID, owner, "publish")
	require.NoError(t, err)
	return page
}

func TestLandingPage_SlugFetchCountsOneView(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	svc := NewLandingPageService(db)
	page := publishedPage(t, db, 1, "Black Friday Promo")
	assert.Equal(t, "black-friday-promo", page.Slug)
	assert.NotNil(t, page.PublishedAt)

	got, err := svc.GetPublishedBySlug(ctx, "black-friday-promo")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)
	assert.Equal(t, []any{map[string]any{"title": "Fast"}}, got.Features)
	assert.Equal(t, []any{}, got.Testimonials)

	got, err = svc.GetPublishedBySlug(ctx, "black-friday-promo")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)
}

func TestLandingPage_ConcurrentFetchesAddUp(t *testing.T) {
	db := setupDB(t)
	svc := NewLandingPageService(db)
	publishedPage(t, db, 1, "Launch")

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GetPublishedBySlug(context.Background(), "launch")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	var stored models.LandingPage
	require.NoError(t, db.Where("slug = ?", "launch").First(&stored).Error)
	assert.Equal(t, int64(n), stored.Views)
}

func TestLandingPage_UnpublishedAndMissingAreNotFound(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	svc := NewLandingPageService(db)
	draft, err := svc.Create(ctx, LandingPageInput{Title: "Draft page"}, 1)
	require.NoError(t, err)

	_, err = svc.GetPublishedBySlug(ctx, "draft-page")
	assert.ErrorIs(t, err, policy.ErrNotFound)
	_, err = svc.GetPublishedBySlug(ctx, "does-not-exist")
	assert.ErrorIs(t, err, policy.ErrNotFound)

	var stored models.LandingPage
	require.NoError(t, db.First(&stored, draft.ID).Error)
	assert.Equal(t, int64(0), stored.Views)
}

func TestLandingPage_CorruptJSONIsAnError(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	svc := NewLandingPageService(db)
	page := publishedPage(t, db, 1, "Broken")
	require.NoError(t, db.Model(&models.LandingPage{}).Where("id = ?", page.ID).UpdateColumn("features", "{not json").Error)

	_, err := svc.GetPublishedBySlug(ctx, "broken")
	require.Error(t, err)
	assert.False(t, errors.Is(err, policy.ErrNotFound))
}

func TestLandingPage_SlugTakenAndPublishAction(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	svc := NewLandingPageService(db)
	page, err := svc.Create(ctx, LandingPageInput{Title: "Same"}, 1)
	require.NoError(t, err)
	_, err = svc.Create(ctx, LandingPageInput{Title: "Other", Slug: "same"}, 2)
	assert.ErrorIs(t, err, ErrSlugTaken)

	_, err = svc.SetPublished(ctx, page.ID, 1, "archive")
	assert.ErrorIs(t, err, ErrInvalidPublishAction)
	_, err = svc.SetPublished(ctx, page.ID, 2, "publish")
	assert.ErrorIs(t, err, policy.ErrNotFound)

	unpublished, err := svc.SetPublished(ctx, page.ID, 1, "unpublish")
	require.NoError(t, err)
	assert.Equal(t, models.LandingPageDraft, unpublished.Status)
}

func TestLandingPage_LinkedFormMustBeOwned(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	form, err := NewFormService(db).Create(ctx, FormInput{Name: "Signup"}, 2)
	require.NoError(t, err)
	_, err = NewLandingPageService(db).Create(ctx, LandingPageInput{Title: "Page", FormID: &form.ID}, 1)
	assert.ErrorIs(t, err, policy.ErrNotFound)
}

func TestForm_SubmitChecksRequiredFields(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	svc := NewFormService(db)
	form, err := svc.Create(ctx, FormInput{Name: "Contact", Fields: []FormFieldInput{
		{Label: "Email", Name: "email", Type: "email", Required: true},
		{Label: "Notes", Name: "notes"},
	}}, 1)
	require.NoError(t, err)
	assert.Equal(t, "text", form.Fields[1].Type)

	_, err = svc.Submit(ctx, form.ID, map[string]any{"notes": "hi"})
	var missing *MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"email"}, missing.Fields)

	sub, err := svc.Submit(ctx, form.ID, map[string]any{"email": "a@x.com"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@x.com"}`, sub.Data)

	_, err = svc.Submit(ctx, form.ID+10, map[string]any{})
	assert.ErrorIs(t, err, policy.ErrNotFound)

	subs, err := svc.Submissions(ctx, form.ID, 1)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
	_, err = svc.Submissions(ctx, form.ID, 2)
	assert.ErrorIs(t, err, policy.ErrNotFound)
}

func TestCRM_StatsAndInteractions(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	svc := NewCRMService(db)

	a, err := svc.CreateContact(ctx, ContactInput{Name: "Ana"}, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ContactLead, a.Status)
	_, err = svc.CreateContact(ctx, ContactInput{Name: "Bia", Status: "customer"}, 1)
	require.NoError(t, err)
	_, err = svc.CreateContact(ctx, ContactInput{Name: "Caio", Status: "customer"}, 2)
	require.NoError(t, err)

	_, err = svc.AddInteraction(ctx, a.ID, 1, InteractionInput{Type: "call", Notes: "intro"})
	require.NoError(t, err)
	_, err = svc.AddInteraction(ctx, a.ID, 2, InteractionInput{Type: "call"})
	assert.ErrorIs(t, err, policy.ErrNotFound)

	list, err := svc.Interactions(ctx, a.ID, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "intro", list[0].Notes)

	stats, err := svc.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalContacts)
	assert.Equal(t, int64(1), stats.ByStatus[models.ContactCustomer])
	assert.Equal(t, int64(0), stats.ByStatus[models.ContactChurned])
	assert.Equal(t, int64(1), stats.TotalInteractions)
	assert.Equal(t, map[string]int64{"call": 1}, stats.InteractionsByType)
	assert.InDelta(t, 50.0, stats.ConversionRate, 0.001)

	_, err = svc.AddInteraction(ctx, a.ID, 1, InteractionInput{Type: "email"})
	require.NoError(t, err)
	_, err = svc.AddInteraction(ctx, a.ID, 1, InteractionInput{Type: "call"})
	require.NoError(t, err)
	stats, err = svc.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalInteractions)
	assert.Equal(t, map[string]int64{"call": 2, "email": 1}, stats.InteractionsByType)

	empty, err := svc.Stats(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, empty.InteractionsByType)
	assert.NotNil(t, empty.InteractionsByType)

	got, err := svc.GetContact(ctx, a.ID, 1)
	require.NoError(t, err)
	assert.Len(t, got.Interactions, 3)
}
