package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jason-govender/salesflow-api/internal/domain"
	"github.com/jason-govender/salesflow-api/internal/repository"
	"github.com/jason-govender/salesflow-api/internal/service"
)

type ProposalHandler struct {
	proposalService *service.ProposalService
	logger          *zap.Logger
}

func NewProposalHandler(proposalService *service.ProposalService, logger *zap.Logger) *ProposalHandler {
	return &ProposalHandler{
		proposalService: proposalService,
		logger:          logger,
	}
}

// List handles GET /proposals
func (h *ProposalHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	filters := &repository.ProposalFilters{}
	if cid := r.URL.Query().Get("clientId"); cid != "" {
		if id, err := uuid.Parse(cid); err == nil {
			filters.ClientID = &id
		}
	}
	if oid := r.URL.Query().Get("opportunityId"); oid != "" {
		if id, err := uuid.Parse(oid); err == nil {
			filters.OpportunityID = &id
		}
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.ProposalStatus(s)
		if !status.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		filters.Status = &status
	}

	result, err := h.proposalService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list proposals", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list proposals")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create handles POST /proposals
func (h *ProposalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	proposal, err := h.proposalService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create proposal", zap.Error(err))
		h.handleProposalError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/proposals/"+proposal.ID.String())
	respondJSON(w, http.StatusCreated, proposal)
}

// GetByID handles GET /proposals/{id}
func (h *ProposalHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	proposal, err := h.proposalService.GetByID(r.Context(), id)
	if err != nil {
		h.handleProposalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// Update handles PUT /proposals/{id}
func (h *ProposalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	var req domain.UpdateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	proposal, err := h.proposalService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update proposal", zap.Error(err), zap.String("proposal_id", id.String()))
		h.handleProposalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// Delete handles DELETE /proposals/{id}
func (h *ProposalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	if err := h.proposalService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete proposal", zap.Error(err), zap.String("proposal_id", id.String()))
		h.handleProposalError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Submit handles POST /proposals/{id}/submit
func (h *ProposalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	proposal, err := h.proposalService.Submit(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to submit proposal", zap.Error(err), zap.String("proposal_id", id.String()))
		h.handleProposalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// Approve handles POST /proposals/{id}/approve
func (h *ProposalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	proposal, err := h.proposalService.Approve(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to approve proposal", zap.Error(err), zap.String("proposal_id", id.String()))
		h.handleProposalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// Reject handles POST /proposals/{id}/reject
func (h *ProposalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	var req domain.RejectProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	proposal, err := h.proposalService.Reject(r.Context(), id, req.Reason)
	if err != nil {
		h.logger.Error("failed to reject proposal", zap.Error(err), zap.String("proposal_id", id.String()))
		h.handleProposalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// AddItem handles POST /proposals/{id}/items
func (h *ProposalHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	proposalID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	var req domain.AddProposalItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	proposal, err := h.proposalService.AddItem(r.Context(), proposalID, &req)
	if err != nil {
		h.logger.Error("failed to add proposal item", zap.Error(err), zap.String("proposal_id", proposalID.String()))
		h.handleProposalError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, proposal)
}

// UpdateItem handles PUT /proposals/{id}/items/{itemId}
func (h *ProposalHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	proposalID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID: must be a valid UUID")
		return
	}

	var req domain.UpdateProposalItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	proposal, err := h.proposalService.UpdateItem(r.Context(), proposalID, itemID, &req)
	if err != nil {
		h.logger.Error("failed to update proposal item", zap.Error(err), zap.String("proposal_id", proposalID.String()))
		h.handleProposalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// RemoveItem handles DELETE /proposals/{id}/items/{itemId}
func (h *ProposalHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	proposalID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID: must be a valid UUID")
		return
	}

	proposal, err := h.proposalService.RemoveItem(r.Context(), proposalID, itemID)
	if err != nil {
		h.logger.Error("failed to remove proposal item", zap.Error(err), zap.String("proposal_id", proposalID.String()))
		h.handleProposalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

func (h *ProposalHandler) handleProposalError(w http.ResponseWriter, err error) {
	if respondServiceError(w, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrProposalNotFound):
		respondWithError(w, http.StatusNotFound, "Proposal not found")
	case errors.Is(err, service.ErrProposalItemNotFound):
		respondWithError(w, http.StatusNotFound, "Proposal item not found")
	case errors.Is(err, service.ErrOpportunityNotFound):
		respondWithError(w, http.StatusBadRequest, "Opportunity not found")
	case errors.Is(err, service.ErrProposalNotDraft):
		respondWithError(w, http.StatusConflict, "Proposal must be in draft status for this operation")
	case errors.Is(err, service.ErrProposalNotSubmitted):
		respondWithError(w, http.StatusConflict, "Proposal must be in submitted status to approve or reject")
	case errors.Is(err, service.ErrRejectionReasonRequired):
		respondWithError(w, http.StatusBadRequest, "A rejection reason is required")
	default:
		respondWithError(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
