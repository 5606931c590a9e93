package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flexcard/internal/card/models"
	cardstore "flexcard/internal/card/store"
	profilemodels "flexcard/internal/profile/models"
	profilestore "flexcard/internal/profile/store"
	id "flexcard/pkg/domain"
	dErrors "flexcard/pkg/domain-errors"
)

func TestActivate_ConcurrentCallersOneWinner(t *testing.T) {
	ctx := context.Background()
	cards := cardstore.NewInMemory()
	profiles := profilestore.NewInMemory()

	card, err := models.NewCard("RACE01", "", time.Now())
	require.NoError(t, err)
	_, _, err = cards.CreateIfAbsent(ctx, card)
	require.NoError(t, err)

	const callers = 64
	users := make([]id.UserID, callers)
	for i := range users {
		users[i] = id.UserID(uuid.New())
		require.NoError(t, profiles.PutProfile(ctx, &profilemodels.Profile{
			Username: id.Username(fmt.Sprintf("user%02d", i)),
			UserID:   users[i],
		}))
	}

	svc, err := New(cards, profiles)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32
	for _, userID := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Activate(ctx, "race01", userID)
			switch {
			case err == nil:
				successCount.Add(1)
			case dErrors.HasCode(err, dErrors.CodeAlreadyActivated):
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successCount.Load())
	assert.Equal(t, int32(callers-1), conflictCount.Load())
}

// The ABC123 walk-through: alice binds the card, bob cannot take it over.
func TestActivate_SecondUserIsRejected(t *testing.T) {
	ctx := context.Background()
	cards := cardstore.NewInMemory()
	profiles := profilestore.NewInMemory()
	alice, bob := id.UserID(uuid.New()), id.UserID(uuid.New())
	require.NoError(t, profiles.PutProfile(ctx, &profilemodels.Profile{Username: "alice", UserID: alice}))
	require.NoError(t, profiles.PutProfile(ctx, &profilemodels.Profile{Username: "bob", UserID: bob}))

	svc, err := New(cards, profiles)
	require.NoError(t, err)
	_, err = svc.Provision(ctx, models.ProvisionRequest{CardIDs: []string{"ABC123"}})
	require.NoError(t, err)

	result, err := svc.Activate(ctx, "abc123", alice)
	require.NoError(t, err)
	assert.Equal(t, id.Username("alice"), result.Username)

	_, err = svc.Activate(ctx, "ABC123", bob)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyActivated))

	status, err := svc.Status(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, id.Username("alice"), status.Username)
}
