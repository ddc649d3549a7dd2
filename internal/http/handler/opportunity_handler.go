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

type OpportunityHandler struct {
	opportunityService *service.OpportunityService
	logger             *zap.Logger
}

func NewOpportunityHandler(opportunityService *service.OpportunityService, logger *zap.Logger) *OpportunityHandler {
	return &OpportunityHandler{
		opportunityService: opportunityService,
		logger:             logger,
	}
}

// List handles GET /opportunities
func (h *OpportunityHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	filters := &repository.OpportunityFilters{}
	if cid := r.URL.Query().Get("clientId"); cid != "" {
		if id, err := uuid.Parse(cid); err == nil {
			filters.ClientID = &id
		}
	}
	if oid := r.URL.Query().Get("ownerId"); oid != "" {
		if id, err := uuid.Parse(oid); err == nil {
			filters.OwnerID = &id
		}
	}
	if s := r.URL.Query().Get("stage"); s != "" {
		stage := domain.OpportunityStage(s)
		if !stage.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid stage filter")
			return
		}
		filters.Stage = &stage
	}
	if q := r.URL.Query().Get("search"); q != "" {
		filters.SearchTerm = &q
	}

	result, err := h.opportunityService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list opportunities", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list opportunities")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create handles POST /opportunities
func (h *OpportunityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOpportunityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	opportunity, err := h.opportunityService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create opportunity", zap.Error(err))
		h.handleOpportunityError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/opportunities/"+opportunity.ID.String())
	respondJSON(w, http.StatusCreated, opportunity)
}

// GetByID handles GET /opportunities/{id}
func (h *OpportunityHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid opportunity ID: must be a valid UUID")
		return
	}

	opportunity, err := h.opportunityService.GetByID(r.Context(), id)
	if err != nil {
		h.handleOpportunityError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, opportunity)
}

// Update handles PUT /opportunities/{id}
func (h *OpportunityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid opportunity ID: must be a valid UUID")
		return
	}

	var req domain.UpdateOpportunityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	opportunity, err := h.opportunityService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update opportunity", zap.Error(err), zap.String("opportunity_id", id.String()))
		h.handleOpportunityError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, opportunity)
}

// SetStage handles POST /opportunities/{id}/stage
func (h *OpportunityHandler) SetStage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid opportunity ID: must be a valid UUID")
		return
	}

	var req domain.SetStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	opportunity, err := h.opportunityService.SetStage(r.Context(), id, req.Stage, req.Reason)
	if err != nil {
		h.logger.Error("failed to set opportunity stage", zap.Error(err), zap.String("opportunity_id", id.String()))
		h.handleOpportunityError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, opportunity)
}

// Assign handles POST /opportunities/{id}/assign
func (h *OpportunityHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid opportunity ID: must be a valid UUID")
		return
	}

	var req domain.AssignOpportunityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	opportunity, err := h.opportunityService.Assign(r.Context(), id, req.UserID)
	if err != nil {
		h.logger.Error("failed to assign opportunity", zap.Error(err), zap.String("opportunity_id", id.String()))
		h.handleOpportunityError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, opportunity)
}

// GetStageHistory handles GET /opportunities/{id}/history
func (h *OpportunityHandler) GetStageHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid opportunity ID: must be a valid UUID")
		return
	}

	history, err := h.opportunityService.GetStageHistory(r.Context(), id)
	if err != nil {
		h.handleOpportunityError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Delete handles DELETE /opportunities/{id}
func (h *OpportunityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid opportunity ID: must be a valid UUID")
		return
	}

	if err := h.opportunityService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete opportunity", zap.Error(err), zap.String("opportunity_id", id.String()))
		h.handleOpportunityError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (h *OpportunityHandler) handleOpportunityError(w http.ResponseWriter, err error) {
	if respondServiceError(w, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrOpportunityNotFound):
		respondWithError(w, http.StatusNotFound, "Opportunity not found")
	case errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusBadRequest, "User not found")
	case errors.Is(err, service.ErrInvalidStage):
		respondWithError(w, http.StatusBadRequest, "Invalid opportunity stage")
	default:
		respondWithError(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
