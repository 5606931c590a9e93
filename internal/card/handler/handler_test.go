package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flexcard/internal/card/models"
	"flexcard/internal/card/service"
	cardstore "flexcard/internal/card/store"
	jwttoken "flexcard/internal/jwt_token"
	profilemodels "flexcard/internal/profile/models"
	profilestore "flexcard/internal/profile/store"
	id "flexcard/pkg/domain"
	adminmw "flexcard/pkg/platform/middleware/admin"
	authmw "flexcard/pkg/platform/middleware/auth"
	"flexcard/pkg/testutil"
)

const adminToken = "secret-token"

type harness struct {
	router   http.Handler
	cards    *cardstore.InMemory
	profiles *profilestore.InMemory
	jwt      *jwttoken.JWTService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	h := &harness{
		cards:    cardstore.NewInMemory(),
		profiles: profilestore.NewInMemory(),
		jwt:      jwttoken.NewJWTService("test-key", "flexcard", "flexcard-api"),
	}
	svc, err := service.New(h.cards, h.profiles, service.WithPublicBaseURL("https://flex.example"))
	require.NoError(t, err)

	handler := New(svc, logger)
	r := chi.NewRouter()
	handler.Register(r)
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(h.jwt.Validator(), logger))
		handler.RegisterAuthenticated(r)
	})
	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(adminToken, logger))
		handler.RegisterAdmin(r)
	})
	h.router = r
	return h
}

func (h *harness) seedCard(t *testing.T, cardID string) {
	t.Helper()
	card, err := models.NewCard(id.CardID(cardID), "", time.Now())
	require.NoError(t, err)
	_, _, err = h.cards.CreateIfAbsent(context.Background(), card)
	require.NoError(t, err)
}

func (h *harness) seedUser(t *testing.T, username string) (id.UserID, string) {
	t.Helper()
	userID := id.UserID(uuid.New())
	if username != "" {
		require.NoError(t, h.profiles.PutProfile(context.Background(), &profilemodels.Profile{
			Username: id.Username(username),
			UserID:   userID,
		}))
	}
	token, err := h.jwt.GenerateAccessToken(uuid.UUID(userID), time.Hour)
	require.NoError(t, err)
	return userID, token
}

func TestCardStatus(t *testing.T) {
	h := newHarness(t)
	h.seedCard(t, "ABC123")

	testutil.Given(t, "an unknown card", func(t *testing.T) {
		rr := testutil.DoRequest(h.router, testutil.NewRequest(t, http.MethodGet, "/cards/NOPE"))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "card_not_found")
	})

	testutil.Given(t, "an unactivated card scanned in lower case", func(t *testing.T) {
		rr := testutil.DoRequest(h.router, testutil.NewRequest(t, http.MethodGet, "/cards/abc123"))
		testutil.AssertStatusOK(t, rr)

		body := testutil.UnmarshalResponse[map[string]any](t, rr)
		assert.Equal(t, "unactivated", (*body)["status"])
		assert.Equal(t, "ABC123", (*body)["card_id"])
		assert.NotContains(t, *body, "username")
	})
}

func TestActivateCard(t *testing.T) {
	h := newHarness(t)
	h.seedCard(t, "ABC123")
	_, aliceToken := h.seedUser(t, "alice")
	_, bobToken := h.seedUser(t, "bob")
	_, nobodyToken := h.seedUser(t, "")

	testutil.When(t, "no token is presented", func(t *testing.T) {
		rr := testutil.DoRequest(h.router, testutil.NewRequest(t, http.MethodPost, "/cards/ABC123/activate"))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	testutil.When(t, "the caller has no profile", func(t *testing.T) {
		req := testutil.WithBearer(testutil.NewRequest(t, http.MethodPost, "/cards/ABC123/activate"), nobodyToken)
		rr := testutil.DoRequest(h.router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "profile_required")
	})

	testutil.When(t, "alice activates", func(t *testing.T) {
		req := testutil.WithBearer(testutil.NewRequest(t, http.MethodPost, "/cards/abc123/activate"), aliceToken)
		rr := testutil.DoRequest(h.router, req)
		testutil.AssertStatusOK(t, rr)

		body := testutil.UnmarshalResponse[models.ActivationResult](t, rr)
		assert.Equal(t, id.CardID("ABC123"), body.CardID)
		assert.Equal(t, id.Username("alice"), body.Username)
		assert.Equal(t, "https://flex.example/public/alice", body.PublicURL)
	})

	testutil.Then(t, "bob gets a conflict", func(t *testing.T) {
		req := testutil.WithBearer(testutil.NewRequest(t, http.MethodPost, "/cards/ABC123/activate"), bobToken)
		rr := testutil.DoRequest(h.router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusConflict, "already_activated")
	})

	testutil.Then(t, "the status shows alice", func(t *testing.T) {
		rr := testutil.DoRequest(h.router, testutil.NewRequest(t, http.MethodGet, "/cards/ABC123"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "username", "alice")
	})

	testutil.Then(t, "alice lists the card", func(t *testing.T) {
		req := testutil.WithBearer(testutil.NewRequest(t, http.MethodGet, "/me/cards"), aliceToken)
		rr := testutil.DoRequest(h.router, req)
		testutil.AssertStatusOK(t, rr)

		body := testutil.UnmarshalResponse[listCardsResponse](t, rr)
		require.Len(t, body.Cards, 1)
		assert.Equal(t, id.CardID("ABC123"), body.Cards[0].CardID)
	})
}

func TestProvisionCards(t *testing.T) {
	h := newHarness(t)

	t.Run("requires the admin token", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/cards", map[string]any{"count": 1})
		rr := testutil.DoRequest(h.router, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("generates cards", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/cards", map[string]any{"count": 3, "batch_name": "launch"})
		req.Header.Set(adminmw.HeaderAdminToken, adminToken)
		rr := testutil.DoRequest(h.router, req)
		testutil.AssertStatus(t, rr, http.StatusCreated)

		body := testutil.UnmarshalResponse[models.ProvisionResult](t, rr)
		require.Len(t, body.Created, 3)
		card, err := h.cards.FindByID(context.Background(), body.Created[0])
		require.NoError(t, err)
		assert.Equal(t, "launch", card.BatchName)
	})

	t.Run("rejects oversized batches", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/cards", map[string]any{"count": 101})
		req.Header.Set(adminmw.HeaderAdminToken, adminToken)
		rr := testutil.DoRequest(h.router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/admin/cards", "{")
		req.Header.Set(adminmw.HeaderAdminToken, adminToken)
		rr := testutil.DoRequest(h.router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})
}
