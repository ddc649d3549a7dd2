package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jason-govender/salesflow-api/internal/auth"
	"github.com/jason-govender/salesflow-api/internal/domain"
	"github.com/jason-govender/salesflow-api/internal/mapper"
	"github.com/jason-govender/salesflow-api/internal/repository"
	"github.com/jason-govender/salesflow-api/internal/storage"
)

// DocumentService manages files attached to proposals. Bytes go to blob
// storage, metadata to the database.
type DocumentService struct {
	documentRepo *repository.DocumentRepository
	proposalRepo *repository.ProposalRepository
	storage      storage.Storage
	logger       *zap.Logger
}

func NewDocumentService(
	documentRepo *repository.DocumentRepository,
	proposalRepo *repository.ProposalRepository,
	store storage.Storage,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		proposalRepo: proposalRepo,
		storage:      store,
		logger:       logger,
	}
}

// Upload stores a document against a proposal
func (s *DocumentService) Upload(ctx context.Context, proposalID uuid.UUID, filename, contentType string, data io.Reader) (*domain.ProposalDocumentDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if _, err := s.proposalRepo.GetByID(ctx, proposalID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}

	storagePath, size, err := s.storage.Upload(ctx, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	doc := &domain.ProposalDocument{
		ProposalID:  proposalID,
		FileName:    filename,
		ContentType: contentType,
		SizeBytes:   size,
		StoragePath: storagePath,
		UploadedBy:  userCtx.DisplayName,
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to clean up orphaned blob",
				zap.String("storage_path", storagePath),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to save document metadata: %w", err)
	}

	s.logger.Info("document uploaded",
		zap.String("document_id", doc.ID.String()),
		zap.String("proposal_id", proposalID.String()),
		zap.String("file_name", filename))

	dto := mapper.ToDocumentDTO(doc)
	return &dto, nil
}

// Download streams a document's content. The caller owns closing the reader.
func (s *DocumentService) Download(ctx context.Context, id uuid.UUID) (*domain.ProposalDocumentDTO, io.ReadCloser, error) {
	doc, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrDocumentNotFound
		}
		return nil, nil, fmt.Errorf("failed to get document: %w", err)
	}

	reader, err := s.storage.Download(ctx, doc.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to download document: %w", err)
	}

	dto := mapper.ToDocumentDTO(doc)
	return &dto, reader, nil
}

// ListByProposal returns a proposal's documents, newest first
func (s *DocumentService) ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]domain.ProposalDocumentDTO, error) {
	if _, err := s.proposalRepo.GetByID(ctx, proposalID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}

	docs, err := s.documentRepo.ListByProposal(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	dtos := make([]domain.ProposalDocumentDTO, len(docs))
	for i := range docs {
		dtos[i] = mapper.ToDocumentDTO(&docs[i])
	}
	return dtos, nil
}

// Delete removes a document's metadata and its stored bytes
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("failed to get document: %w", err)
	}

	if err := s.documentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if err := s.storage.Delete(ctx, doc.StoragePath); err != nil {
		s.logger.Warn("failed to delete stored bytes",
			zap.String("storage_path", doc.StoragePath),
			zap.Error(err))
	}
	return nil
}
