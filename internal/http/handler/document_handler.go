package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jason-govender/salesflow-api/internal/config"
	"github.com/jason-govender/salesflow-api/internal/service"
)

type DocumentHandler struct {
	documentService *service.DocumentService
	maxUploadBytes  int64
	logger          *zap.Logger
}

func NewDocumentHandler(documentService *service.DocumentService, storageCfg *config.StorageConfig, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		maxUploadBytes:  storageCfg.MaxUploadSizeMB * 1024 * 1024,
		logger:          logger,
	}
}

// Upload handles POST /proposals/{id}/documents (multipart form, field "file")
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	proposalID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Upload too large or malformed; limit is %d bytes", h.maxUploadBytes))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file field in multipart form")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	doc, err := h.documentService.Upload(r.Context(), proposalID, header.Filename, contentType, file)
	if err != nil {
		h.logger.Error("failed to upload document", zap.Error(err), zap.String("proposal_id", proposalID.String()))
		h.handleDocumentError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, doc)
}

// ListByProposal handles GET /proposals/{id}/documents
func (h *DocumentHandler) ListByProposal(w http.ResponseWriter, r *http.Request) {
	proposalID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	docs, err := h.documentService.ListByProposal(r.Context(), proposalID)
	if err != nil {
		h.handleDocumentError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, docs)
}

// Download handles GET /documents/{id}
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid document ID: must be a valid UUID")
		return
	}

	doc, reader, err := h.documentService.Download(r.Context(), id)
	if err != nil {
		h.handleDocumentError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("failed streaming document to client",
			zap.String("document_id", id.String()),
			zap.Error(err))
	}
}

// Delete handles DELETE /documents/{id}
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid document ID: must be a valid UUID")
		return
	}

	if err := h.documentService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete document", zap.Error(err), zap.String("document_id", id.String()))
		h.handleDocumentError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (h *DocumentHandler) handleDocumentError(w http.ResponseWriter, err error) {
	if respondServiceError(w, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrDocumentNotFound):
		respondWithError(w, http.StatusNotFound, "Document not found")
	case errors.Is(err, service.ErrProposalNotFound):
		respondWithError(w, http.StatusNotFound, "Proposal not found")
	default:
		respondWithError(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
