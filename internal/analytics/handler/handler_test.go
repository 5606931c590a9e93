package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flexcard/internal/analytics/models"
	"flexcard/internal/analytics/recorder"
	"flexcard/internal/analytics/service"
	analyticsstore "flexcard/internal/analytics/store"
	profilemodels "flexcard/internal/profile/models"
	profilestore "flexcard/internal/profile/store"
	id "flexcard/pkg/domain"
	"flexcard/pkg/requestcontext"
	"flexcard/pkg/testutil"
)

// withUser stands in for RequireAuth.
func withUser(userID id.UserID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(requestcontext.WithUserID(r.Context(), userID)))
		})
	}
}

func TestClickAndSummary(t *testing.T) {
	ctx := context.Background()
	counters := analyticsstore.NewInMemory()
	profiles := profilestore.NewInMemory()
	owner := id.UserID(uuid.New())
	require.NoError(t, profiles.PutProfile(ctx, &profilemodels.Profile{Username: "alice", UserID: owner}))
	link := &profilemodels.Link{ID: profilemodels.LinkID(uuid.New()), Username: "alice", Platform: id.PlatformWebsite, IsActive: true}
	require.NoError(t, profiles.PutLink(ctx, link))

	rec, err := recorder.New(counters, profiles)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rec.Close(context.Background()) })
	summaries, err := service.New(counters, profiles, profiles, service.WithWindow(7))
	require.NoError(t, err)

	h := New(summaries, rec, slog.New(slog.DiscardHandler))
	r := chi.NewRouter()
	h.Register(r)
	r.Group(func(r chi.Router) {
		r.Use(withUser(owner))
		h.RegisterAuthenticated(r)
	})

	testutil.When(t, "a visitor clicks alice's link", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodPost, "/public/alice/click/"+link.ID.String()))
		testutil.AssertStatus(t, rr, http.StatusNoContent)
	})

	testutil.When(t, "a visitor clicks it under bob's name", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodPost, "/public/bob/click/"+link.ID.String()))
		testutil.AssertStatus(t, rr, http.StatusNoContent)
	})

	testutil.Then(t, "alice's summary counts exactly one click", func(t *testing.T) {
		rec.Wait()
		rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/me/analytics"))
		testutil.AssertStatusOK(t, rr)

		summary := testutil.UnmarshalResponse[models.Summary](t, rr)
		assert.Equal(t, int64(1), summary.TotalClicks)
		require.Len(t, summary.Links, 1)
		assert.Equal(t, int64(1), summary.Links[0].Clicks)
		assert.Len(t, summary.Daily, 7)
	})
}
