package service

import (
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/boost_stream_server/internal/model/dto"
	"github.com/qs3c/boost_stream_server/internal/repository"
	"github.com/qs3c/boost_stream_server/internal/testutil"
)

func TestStreamerService_RegisterAndProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewStreamerService(
		repository.NewStreamerRepository(db),
		repository.NewSubscriptionRepository(db),
		clockwork.NewFakeClockAt(testNow),
	)

	profile, err := svc.Register(77, &dto.RegisterStreamerRequest{Username: " speedrunner ", FullName: "Sam Runner"})
	require.NoError(t, err)
	assert.Equal(t, "speedrunner", profile.Username)
	assert.Nil(t, profile.Subscription)

	_, err = svc.Register(77, &dto.RegisterStreamerRequest{Username: "again", FullName: "Again"})
	assert.ErrorIs(t, err, ErrStreamerExists)

	p := testutil.TestPlan(t, db)
	testutil.TestSubscription(t, db, profile.ID, p, testNow)

	profile, err = svc.Profile(77)
	require.NoError(t, err)
	require.NotNil(t, profile.Subscription)
	assert.True(t, profile.Subscription.IsActive)

	_, err = svc.Profile(78)
	assert.ErrorIs(t, err, ErrStreamerNotFound)
}
