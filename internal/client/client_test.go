package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason-govender/salesflow-api/internal/client"
	"github.com/jason-govender/salesflow-api/internal/domain"
)

func TestAuthHeadersSentOnEveryRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "key-456", r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(domain.PaginatedResponse[domain.ClientDTO]{})
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.WithToken("tok-123"), client.WithAPIKey("key-456"))
	_, err := c.ListClients(context.Background(), 1, 20, "")
	require.NoError(t, err)
}

func TestErrorCarriesBackendDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"type":   "about:blank",
			"title":  "Not Found",
			"status": 404,
			"detail": "Proposal not found",
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	_, err := c.GetProposal(context.Background(), uuid.New())
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Proposal not found", apiErr.Error())
}

func TestErrorFallsBackToOperationMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	_, err := c.SubmitProposal(context.Background(), uuid.New())
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Failed to submit proposal", apiErr.Error())
}

func TestNoContentResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	require.NoError(t, c.DeleteProposal(context.Background(), uuid.New()))
}

func TestListParamsEncodedInQuery(t *testing.T) {
	clientID := uuid.New()
	status := domain.ProposalStatusSubmitted
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, clientID.String(), q.Get("clientId"))
		assert.Equal(t, "submitted", q.Get("status"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "50", q.Get("pageSize"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(domain.PaginatedResponse[domain.ProposalDTO]{Page: 2, PageSize: 50})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	result, err := c.ListProposals(context.Background(), client.ProposalListParams{
		ClientID: &clientID,
		Status:   &status,
		Page:     2,
		PageSize: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Page)
}
