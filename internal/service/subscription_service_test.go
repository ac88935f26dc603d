package service

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/boost_stream_server/internal/model"
	"github.com/qs3c/boost_stream_server/internal/model/dto"
	"github.com/qs3c/boost_stream_server/internal/repository"
	"github.com/qs3c/boost_stream_server/internal/testutil"
)

func setupSubscriptionService(t *testing.T) (*SubscriptionService, *gorm.DB, clockwork.FakeClock, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	clock := clockwork.NewFakeClockAt(testNow)
	svc := NewSubscriptionService(db,
		repository.NewSubscriptionRepository(db),
		repository.NewPlanRepository(db),
		repository.NewStreamerRepository(db),
		clock,
	)
	return svc, db, clock, func() { testutil.CleanupTestDB(t, db) }
}

func TestSubscriptionService_SelectPlan_Catalogue(t *testing.T) {
	svc, db, _, cleanup := setupSubscriptionService(t)
	defer cleanup()

	p := testutil.TestPlan(t, db, testutil.WithPlanPrice(29), testutil.WithPlanDays(30))
	s := testutil.TestStreamer(t, db)

	item, err := svc.SelectPlan(s.ID, &dto.SelectPlanRequest{PlanID: &p.ID})
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionStatusPending, item.Status)
	assert.Equal(t, 29.0, item.Amount)
	assert.False(t, item.IsActive)
	assert.Equal(t, "2026-03-11T12:00:00Z", item.StartDate)
	assert.Equal(t, "2026-04-10T12:00:00Z", item.EndDate)
	require.NotNil(t, item.Plan)
	assert.Equal(t, p.Name, item.Plan.Name)
}

func TestSubscriptionService_SelectPlan_Custom(t *testing.T) {
	svc, db, _, cleanup := setupSubscriptionService(t)
	defer cleanup()

	s := testutil.TestStreamer(t, db, testutil.WithStreamerUsername("nightowl"))

	item, err := svc.SelectPlan(s.ID, &dto.SelectPlanRequest{Custom: &dto.CustomPlanRequest{
		Price:          120,
		DurationDays:   14,
		DurationHours:  6,
		ViewsDelivered: 5000,
	}})
	require.NoError(t, err)
	require.NotNil(t, item.Plan)
	assert.Equal(t, "Custom Plan for nightowl", item.Plan.Name)
	assert.False(t, item.Plan.IsActive)
	assert.False(t, item.Plan.IsMostPopular)
	assert.Empty(t, item.Plan.Features)
	assert.Equal(t, 120.0, item.Amount)

	plans, err := repository.NewPlanRepository(db).ListActive()
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestSubscriptionService_SelectPlan_Errors(t *testing.T) {
	svc, db, _, cleanup := setupSubscriptionService(t)
	defer cleanup()

	s := testutil.TestStreamer(t, db)
	hidden := testutil.TestPlan(t, db, testutil.WithPlanInactive())

	_, err := svc.SelectPlan(s.ID, &dto.SelectPlanRequest{})
	assert.ErrorIs(t, err, ErrInvalidSubscription)

	_, err = svc.SelectPlan(s.ID, &dto.SelectPlanRequest{PlanID: &hidden.ID})
	assert.ErrorIs(t, err, ErrPlanNotFound)

	missing := int64(99999)
	_, err = svc.SelectPlan(s.ID, &dto.SelectPlanRequest{PlanID: &missing})
	assert.ErrorIs(t, err, ErrPlanNotFound)

	_, err = svc.SelectPlan(99999, &dto.SelectPlanRequest{PlanID: &hidden.ID})
	assert.ErrorIs(t, err, ErrStreamerNotFound)
}

func TestSubscriptionService_ActiveAndList(t *testing.T) {
	svc, db, _, cleanup := setupSubscriptionService(t)
	defer cleanup()

	p := testutil.TestPlan(t, db)
	s := testutil.TestStreamer(t, db)

	active, err := svc.Active(s.ID)
	require.NoError(t, err)
	assert.Nil(t, active)

	sub := testutil.TestSubscription(t, db, s.ID, p, testNow)
	testutil.TestSubscription(t, db, s.ID, p, testNow, testutil.WithSubscriptionStatus(model.SubscriptionStatusPending))

	active, err = svc.Active(s.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, sub.ID, active.ID)
	assert.Equal(t, 29, active.RemainingDays)

	items, err := svc.List(s.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestSubscriptionService_AdminUpdate(t *testing.T) {
	svc, db, _, cleanup := setupSubscriptionService(t)
	defer cleanup()

	p := testutil.TestPlan(t, db)
	s := testutil.TestStreamer(t, db)
	sub := testutil.TestSubscription(t, db, s.ID, p, testNow, testutil.WithSubscriptionStatus(model.SubscriptionStatusPending))

	status := model.SubscriptionStatusActive
	start := testNow
	end := testNow.AddDate(0, 0, 7)
	item, err := svc.AdminUpdate(sub.ID, &dto.AdminUpdateSubscriptionRequest{
		Status:    &status,
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionStatusActive, item.Status)
	assert.True(t, item.IsActive)
	assert.Equal(t, 7, item.RemainingDays)

	badEnd := testNow.Add(-time.Hour)
	_, err = svc.AdminUpdate(sub.ID, &dto.AdminUpdateSubscriptionRequest{EndDate: &badEnd})
	assert.ErrorIs(t, err, ErrInvalidSubscription)

	unknown := "paused"
	_, err = svc.AdminUpdate(sub.ID, &dto.AdminUpdateSubscriptionRequest{Status: &unknown})
	assert.ErrorIs(t, err, ErrInvalidSubscription)

	_, err = svc.AdminUpdate(99999, &dto.AdminUpdateSubscriptionRequest{})
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestSubscriptionService_ExpireElapsed(t *testing.T) {
	svc, db, clock, cleanup := setupSubscriptionService(t)
	defer cleanup()

	p := testutil.TestPlan(t, db, testutil.WithPlanDays(30))
	s := testutil.TestStreamer(t, db)
	short := testutil.TestSubscription(t, db, s.ID, p, testNow,
		testutil.WithWindow(testNow.AddDate(0, 0, -10), testNow.Add(time.Hour)))
	testutil.TestSubscription(t, db, s.ID, p, testNow)

	n, err := svc.ExpireElapsed()
	require.NoError(t, err)
	assert.Zero(t, n)

	clock.Advance(2 * time.Hour)

	ids, err := svc.ElapsedActiveIDs()
	require.NoError(t, err)
	assert.Equal(t, []int64{short.ID}, ids)

	n, err = svc.ExpireElapsed()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	item, err := svc.Get(short.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionStatusExpired, item.Status)
}
