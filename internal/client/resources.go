package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/jason-govender/salesflow-api/internal/domain"
)

// Identity is the caller identity echoed by GET /auth/me.
type Identity struct {
	UserID      string   `json:"userId"`
	DisplayName string   `json:"displayName"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
}

func (c *Client) Me(ctx context.Context) (*Identity, error) {
	var out Identity
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out, "Failed to load identity"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListClients(ctx context.Context, page, pageSize int, search string) (*domain.PaginatedResponse[domain.ClientDTO], error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	if search != "" {
		q.Set("search", search)
	}
	var out domain.PaginatedResponse[domain.ClientDTO]
	if err := c.do(ctx, http.MethodGet, "/clients", q, nil, &out, "Failed to list clients"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetClient(ctx context.Context, id uuid.UUID) (*domain.ClientDTO, error) {
	var out domain.ClientDTO
	if err := c.do(ctx, http.MethodGet, "/clients/"+id.String(), nil, nil, &out, "Failed to load client"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateClient(ctx context.Context, req *domain.CreateClientRequest) (*domain.ClientDTO, error) {
	var out domain.ClientDTO
	if err := c.do(ctx, http.MethodPost, "/clients", nil, req, &out, "Failed to create client"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListAssignableUsers(ctx context.Context) ([]domain.UserDTO, error) {
	var out []domain.UserDTO
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, &out, "Failed to list users"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListNotifications(ctx context.Context, unreadOnly bool, limit int) ([]domain.NotificationDTO, error) {
	q := url.Values{}
	if unreadOnly {
		q.Set("unreadOnly", "true")
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []domain.NotificationDTO
	if err := c.do(ctx, http.MethodGet, "/notifications", q, nil, &out, "Failed to list notifications"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/notifications/"+id.String()+"/read", nil, nil, nil, "Failed to mark notification read")
}
