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

func TestOpportunityRoleGate(t *testing.T) {
	srv := noCallServer(t)
	defer srv.Close()
	st := store.NewOpportunityStore(client.New(srv.URL), repRoles)

	id := uuid.New()
	assert.ErrorIs(t, st.Assign(context.Background(), id, uuid.New()), store.ErrNotAllowed)
	assert.ErrorIs(t, st.Delete(context.Background(), id), store.ErrNotAllowed)
}

func TestSetStageRejectsUnknownStageLocally(t *testing.T) {
	srv := noCallServer(t)
	defer srv.Close()
	st := store.NewOpportunityStore(client.New(srv.URL), managerRoles)

	err := st.SetStage(context.Background(), uuid.New(), domain.OpportunityStage("bogus"), "")
	assert.ErrorIs(t, err, store.ErrInvalidStage)
}

func TestSetStageReloadsDetail(t *testing.T) {
	id := uuid.New()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/opportunities/"+id.String()+"/stage", func(w http.ResponseWriter, r *http.Request) {
		var req domain.SetStageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		writeJSON(w, http.StatusOK, domain.OpportunityDTO{
			ID:          id,
			Stage:       req.Stage,
			Probability: domain.DefaultStageProbability(req.Stage),
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	st := store.NewOpportunityStore(client.New(srv.URL), managerRoles)
	require.NoError(t, st.SetStage(context.Background(), id, domain.StageNegotiation, "terms agreed"))

	state := st.State()
	require.NotNil(t, state.Detail)
	assert.Equal(t, domain.StageNegotiation, state.Detail.Stage)
	assert.Equal(t, 75, state.Detail.Probability)
	assert.False(t, state.ActionPending)
}

func TestAssignFailureKeepsDetail(t *testing.T) {
	id := uuid.New()
	var gets int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/opportunities/"+id.String(), func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&gets, 1)
		writeJSON(w, http.StatusOK, domain.OpportunityDTO{ID: id, Stage: domain.StageQualified})
	})
	mux.HandleFunc("/api/v1/opportunities/"+id.String()+"/assign", func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, http.StatusNotFound, "User not found")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	st := store.NewOpportunityStore(client.New(srv.URL), managerRoles)
	require.NoError(t, st.Get(context.Background(), id))

	err := st.Assign(context.Background(), id, uuid.New())
	require.Error(t, err)

	state := st.State()
	assert.True(t, state.IsError)
	assert.Equal(t, "User not found", state.Err)
	require.NotNil(t, state.Detail)
	assert.Equal(t, domain.StageQualified, state.Detail.Stage)
}

func TestLoadHistory(t *testing.T) {
	id := uuid.New()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/opportunities/"+id.String()+"/history", func(w http.ResponseWriter, r *http.Request) {
		from := domain.StageLead
		writeJSON(w, http.StatusOK, []domain.StageHistoryDTO{
			{OpportunityID: id, FromStage: &from, ToStage: domain.StageQualified},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	st := store.NewOpportunityStore(client.New(srv.URL), managerRoles)
	require.NoError(t, st.LoadHistory(context.Background(), id))

	state := st.State()
	require.Len(t, state.History, 1)
	assert.Equal(t, domain.StageQualified, state.History[0].ToStage)
}
