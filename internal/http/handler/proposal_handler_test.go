package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jason-govender/salesflow-api/internal/auth"
	"github.com/jason-govender/salesflow-api/internal/domain"
	"github.com/jason-govender/salesflow-api/internal/http/handler"
	"github.com/jason-govender/salesflow-api/internal/repository"
	"github.com/jason-govender/salesflow-api/internal/service"
	"github.com/jason-govender/salesflow-api/internal/testutil"
)

// newProposalRouter wires the proposal routes behind a stub authentication
// middleware that injects a sales manager identity.
func newProposalRouter(t *testing.T) (*gorm.DB, http.Handler) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := service.NewProposalService(
		repository.NewProposalRepository(db),
		repository.NewProposalItemRepository(db),
		repository.NewOpportunityRepository(db),
		repository.NewActivityRepository(db),
		repository.NewNotificationRepository(db),
		zap.NewNop(),
	)
	h := handler.NewProposalHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := auth.WithUserContext(req.Context(), &auth.UserContext{
				UserID:      uuid.New(),
				DisplayName: "Test Manager",
				Email:       "manager@example.com",
				Roles:       []domain.UserRoleType{domain.RoleSalesManager},
			})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/api/v1/proposals", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.GetByID)
		r.Post("/{id}/reject", h.Reject)
		r.Post("/{id}/items", h.AddItem)
	})
	return db, r
}

func seedOpportunity(t *testing.T, db *gorm.DB) *domain.Opportunity {
	t.Helper()
	c := testutil.CreateTestClient(t, db, "Acme Mining")
	return testutil.CreateTestOpportunity(t, db, c.ID, uuid.New())
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateProposalEndpoint(t *testing.T) {
	db, router := newProposalRouter(t)
	opp := seedOpportunity(t, db)

	rec := postJSON(t, router, "/api/v1/proposals", domain.CreateProposalRequest{
		OpportunityID: opp.ID,
		ClientID:      opp.ClientID,
		Title:         "Equipment supply",
		Currency:      "ZAR",
		ValidUntil:    "2027-01-31",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.ProposalDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, domain.ProposalStatusDraft, created.Status)
	assert.Equal(t, "/api/v1/proposals/"+created.ID.String(), rec.Header().Get("Location"))
}

func TestCreateProposalValidation(t *testing.T) {
	_, router := newProposalRouter(t)

	// Missing required fields surface per-field messages.
	rec := postJSON(t, router, "/api/v1/proposals", domain.CreateProposalRequest{
		Currency: "ZAR",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var apiErr domain.APIError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
	assert.Contains(t, apiErr.Errors, "title")
	assert.Contains(t, apiErr.Errors, "validUntil")
}

func TestCreateProposalMalformedBody(t *testing.T) {
	_, router := newProposalRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/proposals", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProposalNotFound(t *testing.T) {
	_, router := newProposalRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/proposals/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRejectDraftConflicts(t *testing.T) {
	db, router := newProposalRouter(t)
	opp := seedOpportunity(t, db)

	rec := postJSON(t, router, "/api/v1/proposals", domain.CreateProposalRequest{
		OpportunityID: opp.ID,
		ClientID:      opp.ClientID,
		Title:         "Draft only",
		Currency:      "ZAR",
		ValidUntil:    "2027-01-31",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.ProposalDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	// Rejecting a draft is a conflict: only submitted proposals can be decided.
	rec = postJSON(t, router, fmt.Sprintf("/api/v1/proposals/%s/reject", created.ID),
		domain.RejectProposalRequest{Reason: "Too early"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAddItemReturnsUpdatedProposal(t *testing.T) {
	db, router := newProposalRouter(t)
	opp := seedOpportunity(t, db)

	rec := postJSON(t, router, "/api/v1/proposals", domain.CreateProposalRequest{
		OpportunityID: opp.ID,
		ClientID:      opp.ClientID,
		Title:         "Priced",
		Currency:      "ZAR",
		ValidUntil:    "2027-01-31",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.ProposalDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	rec = postJSON(t, router, fmt.Sprintf("/api/v1/proposals/%s/items", created.ID),
		domain.AddProposalItemRequest{
			Name:           "Drilling rig hire",
			Quantity:       1,
			UnitPrice:      5000,
			TaxRatePercent: 15,
		})
	require.Equal(t, http.StatusCreated, rec.Code)

	var priced domain.ProposalDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&priced))
	require.Len(t, priced.Items, 1)
	assert.InDelta(t, 5750, priced.Total, 0.001)
}
