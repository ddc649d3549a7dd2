package store_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason-govender/salesflow-api/internal/client"
	"github.com/jason-govender/salesflow-api/internal/domain"
	"github.com/jason-govender/salesflow-api/internal/store"
)

var (
	managerRoles = []domain.UserRoleType{domain.RoleSalesManager}
	repRoles     = []domain.UserRoleType{domain.RoleSalesRep}
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]interface{}{
		"type":   "about:blank",
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}

func proposalPage(ids ...uuid.UUID) *domain.PaginatedResponse[domain.ProposalDTO] {
	data := make([]domain.ProposalDTO, len(ids))
	for i, id := range ids {
		data[i] = domain.ProposalDTO{ID: id, Title: "Cached", Status: domain.ProposalStatusSubmitted}
	}
	return &domain.PaginatedResponse[domain.ProposalDTO]{
		Data: data, Total: int64(len(ids)), Page: 1, PageSize: 20, TotalPages: 1,
	}
}

// noCallServer fails the test if any request reaches it.
func noCallServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
	}))
}

func TestRejectGuardBlocksBlankReason(t *testing.T) {
	srv := noCallServer(t)
	defer srv.Close()
	st := store.NewProposalStore(client.New(srv.URL), managerRoles)

	err := st.Reject(context.Background(), uuid.New(), "   ")
	assert.ErrorIs(t, err, store.ErrReasonRequired)

	state := st.State()
	assert.False(t, state.ActionPending)
	assert.False(t, state.IsError)
}

func TestRoleGateBlocksMutationsClientSide(t *testing.T) {
	srv := noCallServer(t)
	defer srv.Close()
	st := store.NewProposalStore(client.New(srv.URL), repRoles)

	id := uuid.New()
	assert.ErrorIs(t, st.Approve(context.Background(), id), store.ErrNotAllowed)
	assert.ErrorIs(t, st.Reject(context.Background(), id, "too costly"), store.ErrNotAllowed)
	assert.ErrorIs(t, st.Delete(context.Background(), id), store.ErrNotAllowed)
}

func TestDraftGuardUsesCachedStatus(t *testing.T) {
	id := uuid.New()
	var mutations int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/proposals/"+id.String(), func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.ProposalDTO{ID: id, Status: domain.ProposalStatusSubmitted})
	})
	mux.HandleFunc("/api/v1/proposals/"+id.String()+"/items", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&mutations, 1)
		writeProblem(w, http.StatusConflict, "should never be reached")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	st := store.NewProposalStore(client.New(srv.URL), managerRoles)
	require.NoError(t, st.Get(context.Background(), id))

	err := st.AddItem(context.Background(), id, &domain.AddProposalItemRequest{
		Name: "Late addition", Quantity: 1, UnitPrice: 100,
	})
	assert.ErrorIs(t, err, store.ErrNotDraft)
	assert.Equal(t, int32(0), atomic.LoadInt32(&mutations))
}

func TestMutationFailureKeepsCachedData(t *testing.T) {
	id := uuid.New()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/proposals", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, proposalPage(id))
	})
	mux.HandleFunc("/api/v1/proposals/"+id.String(), func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.ProposalDTO{ID: id, Status: domain.ProposalStatusSubmitted})
	})
	mux.HandleFunc("/api/v1/proposals/"+id.String()+"/approve", func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, http.StatusConflict, "Proposal must be in submitted status to approve or reject")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	st := store.NewProposalStore(client.New(srv.URL), managerRoles)
	require.NoError(t, st.Load(context.Background(), client.ProposalListParams{}))
	require.NoError(t, st.Get(context.Background(), id))

	err := st.Approve(context.Background(), id)
	require.Error(t, err)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	// The failed mutation flips the flags but leaves the cached data alone.
	state := st.State()
	assert.True(t, state.IsError)
	assert.Equal(t, "Proposal must be in submitted status to approve or reject", state.Err)
	assert.False(t, state.ActionPending)
	require.NotNil(t, state.List)
	assert.Len(t, state.List.Data, 1)
	require.NotNil(t, state.Detail)
	assert.Equal(t, id, state.Detail.ID)
}

func TestListFailureNullsList(t *testing.T) {
	var failing atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/proposals", func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			writeProblem(w, http.StatusInternalServerError, "backend unavailable")
			return
		}
		writeJSON(w, http.StatusOK, proposalPage(uuid.New()))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	st := store.NewProposalStore(client.New(srv.URL), managerRoles)
	require.NoError(t, st.Load(context.Background(), client.ProposalListParams{}))
	require.NotNil(t, st.State().List)

	failing.Store(true)
	err := st.Load(context.Background(), client.ProposalListParams{})
	require.Error(t, err)

	state := st.State()
	assert.Nil(t, state.List)
	assert.True(t, state.IsError)
	assert.Equal(t, "backend unavailable", state.Err)
}

func TestUpdatesApplyInArrivalOrder(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/proposals", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		if page == "1" {
			close(started)
			<-release
		}
		resp := proposalPage(uuid.New())
		if page == "1" {
			resp.Page = 1
		} else {
			resp.Page = 2
		}
		writeJSON(w, http.StatusOK, resp)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	st := store.NewProposalStore(client.New(srv.URL), managerRoles)

	// Fire page 1 first but hold its response at the server.
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- st.Load(context.Background(), client.ProposalListParams{Page: 1})
	}()
	<-started

	require.NoError(t, st.Load(context.Background(), client.ProposalListParams{Page: 2}))
	assert.Equal(t, 2, st.State().List.Page)

	// Page 1 arrives last, so it wins.
	close(release)
	require.NoError(t, <-firstDone)
	assert.Equal(t, 1, st.State().List.Page)
}
