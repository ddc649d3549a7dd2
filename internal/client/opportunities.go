package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/jason-govender/salesflow-api/internal/domain"
)

type OpportunityListParams struct {
	ClientID *uuid.UUID
	OwnerID  *uuid.UUID
	Stage    *domain.OpportunityStage
	Search   string
	Page     int
	PageSize int
}

func (p OpportunityListParams) values() url.Values {
	q := url.Values{}
	if p.ClientID != nil {
		q.Set("clientId", p.ClientID.String())
	}
	if p.OwnerID != nil {
		q.Set("ownerId", p.OwnerID.String())
	}
	if p.Stage != nil {
		q.Set("stage", string(*p.Stage))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	return q
}

func (c *Client) ListOpportunities(ctx context.Context, params OpportunityListParams) (*domain.PaginatedResponse[domain.OpportunityDTO], error) {
	var out domain.PaginatedResponse[domain.OpportunityDTO]
	if err := c.do(ctx, http.MethodGet, "/opportunities", params.values(), nil, &out, "Failed to list opportunities"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetOpportunity(ctx context.Context, id uuid.UUID) (*domain.OpportunityDTO, error) {
	var out domain.OpportunityDTO
	if err := c.do(ctx, http.MethodGet, "/opportunities/"+id.String(), nil, nil, &out, "Failed to load opportunity"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOpportunity(ctx context.Context, req *domain.CreateOpportunityRequest) (*domain.OpportunityDTO, error) {
	var out domain.OpportunityDTO
	if err := c.do(ctx, http.MethodPost, "/opportunities", nil, req, &out, "Failed to create opportunity"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOpportunity(ctx context.Context, id uuid.UUID, req *domain.UpdateOpportunityRequest) (*domain.OpportunityDTO, error) {
	var out domain.OpportunityDTO
	if err := c.do(ctx, http.MethodPut, "/opportunities/"+id.String(), nil, req, &out, "Failed to update opportunity"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteOpportunity(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/opportunities/"+id.String(), nil, nil, nil, "Failed to delete opportunity")
}

func (c *Client) SetOpportunityStage(ctx context.Context, id uuid.UUID, stage domain.OpportunityStage, reason string) (*domain.OpportunityDTO, error) {
	req := domain.SetStageRequest{Stage: stage, Reason: reason}
	var out domain.OpportunityDTO
	if err := c.do(ctx, http.MethodPost, "/opportunities/"+id.String()+"/stage", nil, &req, &out, "Failed to change stage"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AssignOpportunity(ctx context.Context, id, userID uuid.UUID) (*domain.OpportunityDTO, error) {
	req := domain.AssignOpportunityRequest{UserID: userID}
	var out domain.OpportunityDTO
	if err := c.do(ctx, http.MethodPost, "/opportunities/"+id.String()+"/assign", nil, &req, &out, "Failed to assign opportunity"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetStageHistory(ctx context.Context, id uuid.UUID) ([]domain.StageHistoryDTO, error) {
	var out []domain.StageHistoryDTO
	if err := c.do(ctx, http.MethodGet, "/opportunities/"+id.String()+"/history", nil, nil, &out, "Failed to load stage history"); err != nil {
		return nil, err
	}
	return out, nil
}
