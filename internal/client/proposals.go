package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/jason-govender/salesflow-api/internal/domain"
)

// ProposalListParams narrow the proposal listing. Zero values are omitted
// from the query string.
type ProposalListParams struct {
	ClientID      *uuid.UUID
	OpportunityID *uuid.UUID
	Status        *domain.ProposalStatus
	Page          int
	PageSize      int
}

func (p ProposalListParams) values() url.Values {
	q := url.Values{}
	if p.ClientID != nil {
		q.Set("clientId", p.ClientID.String())
	}
	if p.OpportunityID != nil {
		q.Set("opportunityId", p.OpportunityID.String())
	}
	if p.Status != nil {
		q.Set("status", string(*p.Status))
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	return q
}

func (c *Client) ListProposals(ctx context.Context, params ProposalListParams) (*domain.PaginatedResponse[domain.ProposalDTO], error) {
	var out domain.PaginatedResponse[domain.ProposalDTO]
	if err := c.do(ctx, http.MethodGet, "/proposals", params.values(), nil, &out, "Failed to list proposals"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProposal(ctx context.Context, id uuid.UUID) (*domain.ProposalDTO, error) {
	var out domain.ProposalDTO
	if err := c.do(ctx, http.MethodGet, "/proposals/"+id.String(), nil, nil, &out, "Failed to load proposal"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProposal(ctx context.Context, req *domain.CreateProposalRequest) (*domain.ProposalDTO, error) {
	var out domain.ProposalDTO
	if err := c.do(ctx, http.MethodPost, "/proposals", nil, req, &out, "Failed to create proposal"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProposal(ctx context.Context, id uuid.UUID, req *domain.UpdateProposalRequest) (*domain.ProposalDTO, error) {
	var out domain.ProposalDTO
	if err := c.do(ctx, http.MethodPut, "/proposals/"+id.String(), nil, req, &out, "Failed to update proposal"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProposal(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/proposals/"+id.String(), nil, nil, nil, "Failed to delete proposal")
}

func (c *Client) SubmitProposal(ctx context.Context, id uuid.UUID) (*domain.ProposalDTO, error) {
	var out domain.ProposalDTO
	if err := c.do(ctx, http.MethodPost, "/proposals/"+id.String()+"/submit", nil, nil, &out, "Failed to submit proposal"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ApproveProposal(ctx context.Context, id uuid.UUID) (*domain.ProposalDTO, error) {
	var out domain.ProposalDTO
	if err := c.do(ctx, http.MethodPost, "/proposals/"+id.String()+"/approve", nil, nil, &out, "Failed to approve proposal"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RejectProposal(ctx context.Context, id uuid.UUID, reason string) (*domain.ProposalDTO, error) {
	req := domain.RejectProposalRequest{Reason: reason}
	var out domain.ProposalDTO
	if err := c.do(ctx, http.MethodPost, "/proposals/"+id.String()+"/reject", nil, &req, &out, "Failed to reject proposal"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddProposalItem(ctx context.Context, proposalID uuid.UUID, req *domain.AddProposalItemRequest) (*domain.ProposalDTO, error) {
	var out domain.ProposalDTO
	if err := c.do(ctx, http.MethodPost, "/proposals/"+proposalID.String()+"/items", nil, req, &out, "Failed to add line item"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProposalItem(ctx context.Context, proposalID, itemID uuid.UUID, req *domain.UpdateProposalItemRequest) (*domain.ProposalDTO, error) {
	var out domain.ProposalDTO
	if err := c.do(ctx, http.MethodPut, "/proposals/"+proposalID.String()+"/items/"+itemID.String(), nil, req, &out, "Failed to update line item"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveProposalItem(ctx context.Context, proposalID, itemID uuid.UUID) (*domain.ProposalDTO, error) {
	var out domain.ProposalDTO
	if err := c.do(ctx, http.MethodDelete, "/proposals/"+proposalID.String()+"/items/"+itemID.String(), nil, nil, &out, "Failed to remove line item"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListProposalDocuments(ctx context.Context, proposalID uuid.UUID) ([]domain.ProposalDocumentDTO, error) {
	var out []domain.ProposalDocumentDTO
	if err := c.do(ctx, http.MethodGet, "/proposals/"+proposalID.String()+"/documents", nil, nil, &out, "Failed to list documents"); err != nil {
		return nil, err
	}
	return out, nil
}
