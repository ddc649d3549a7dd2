// Package store holds the client-side state containers. Each container keeps
// an immutable state record that is replaced wholesale by a pure reducer over
// a tagged action union; reducers never perform I/O and never partially apply
// a payload. Updates land in response-arrival order (last write wins), and the
// pending flags are advisory only.
package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jason-govender/salesflow-api/internal/authz"
	"github.com/jason-govender/salesflow-api/internal/client"
	"github.com/jason-govender/salesflow-api/internal/domain"
)

// ProposalState is the cached proposal view. Values are snapshots; callers
// must not mutate the slices or structs they point into.
type ProposalState struct {
	List    *domain.PaginatedResponse[domain.ProposalDTO]
	Detail  *domain.ProposalDTO
	Filters client.ProposalListParams

	IsPending     bool
	ActionPending bool
	IsError       bool
	Err           string
}

type proposalAction interface{ isProposalAction() }

type proposalListPending struct{}
type proposalListSuccess struct {
	list    *domain.PaginatedResponse[domain.ProposalDTO]
	filters client.ProposalListParams
}
type proposalListError struct{ err string }
type proposalDetailPending struct{}
type proposalDetailSuccess struct{ detail *domain.ProposalDTO }
type proposalDetailError struct{ err string }
type proposalActionPending struct{}
type proposalActionSuccess struct{ detail *domain.ProposalDTO }
type proposalActionError struct{ err string }

func (proposalListPending) isProposalAction()   {}
func (proposalListSuccess) isProposalAction()   {}
func (proposalListError) isProposalAction()     {}
func (proposalDetailPending) isProposalAction() {}
func (proposalDetailSuccess) isProposalAction() {}
func (proposalDetailError) isProposalAction()   {}
func (proposalActionPending) isProposalAction() {}
func (proposalActionSuccess) isProposalAction() {}
func (proposalActionError) isProposalAction()   {}

// reduceProposal produces the next state. A list-load failure nulls the
// cached list; a mutation failure keeps the last known-good data and only
// flips the error flags.
func reduceProposal(s ProposalState, a proposalAction) ProposalState {
	switch a := a.(type) {
	case proposalListPending:
		s.IsPending = true
		s.IsError = false
		s.Err = ""
	case proposalListSuccess:
		s.IsPending = false
		s.List = a.list
		s.Filters = a.filters
		s.IsError = false
		s.Err = ""
	case proposalListError:
		s.IsPending = false
		s.List = nil
		s.IsError = true
		s.Err = a.err
	case proposalDetailPending:
		s.IsPending = true
		s.IsError = false
		s.Err = ""
	case proposalDetailSuccess:
		s.IsPending = false
		s.Detail = a.detail
		s.IsError = false
		s.Err = ""
	case proposalDetailError:
		s.IsPending = false
		s.IsError = true
		s.Err = a.err
	case proposalActionPending:
		s.ActionPending = true
		s.IsError = false
		s.Err = ""
	case proposalActionSuccess:
		s.ActionPending = false
		s.Detail = a.detail
		s.IsError = false
		s.Err = ""
	case proposalActionError:
		s.ActionPending = false
		s.IsError = true
		s.Err = a.err
	}
	return s
}

// ProposalStore drives the proposal state through the API client.
type ProposalStore struct {
	mu    sync.Mutex
	state ProposalState
	api   *client.Client
	roles []domain.UserRoleType
}

func NewProposalStore(api *client.Client, roles []domain.UserRoleType) *ProposalStore {
	return &ProposalStore{api: api, roles: roles}
}

// State returns a snapshot of the current state.
func (st *ProposalStore) State() ProposalState {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

func (st *ProposalStore) dispatch(a proposalAction) {
	st.mu.Lock()
	st.state = reduceProposal(st.state, a)
	st.mu.Unlock()
}

// Load fetches a proposal page. On failure the cached list is dropped.
func (st *ProposalStore) Load(ctx context.Context, params client.ProposalListParams) error {
	st.dispatch(proposalListPending{})
	list, err := st.api.ListProposals(ctx, params)
	if err != nil {
		st.dispatch(proposalListError{err: err.Error()})
		return err
	}
	st.dispatch(proposalListSuccess{list: list, filters: params})
	return nil
}

// Get fetches a single proposal into the detail slot.
func (st *ProposalStore) Get(ctx context.Context, id uuid.UUID) error {
	st.dispatch(proposalDetailPending{})
	detail, err := st.api.GetProposal(ctx, id)
	if err != nil {
		st.dispatch(proposalDetailError{err: err.Error()})
		return err
	}
	st.dispatch(proposalDetailSuccess{detail: detail})
	return nil
}

func (st *ProposalStore) Create(ctx context.Context, req *domain.CreateProposalRequest) error {
	st.dispatch(proposalActionPending{})
	detail, err := st.api.CreateProposal(ctx, req)
	if err != nil {
		st.dispatch(proposalActionError{err: err.Error()})
		return err
	}
	st.dispatch(proposalActionSuccess{detail: detail})
	return nil
}

func (st *ProposalStore) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateProposalRequest) error {
	if err := st.requireDraft(id); err != nil {
		return err
	}
	st.dispatch(proposalActionPending{})
	detail, err := st.api.UpdateProposal(ctx, id, req)
	if err != nil {
		st.dispatch(proposalActionError{err: err.Error()})
		return err
	}
	st.dispatch(proposalActionSuccess{detail: detail})
	return nil
}

func (st *ProposalStore) Submit(ctx context.Context, id uuid.UUID) error {
	st.dispatch(proposalActionPending{})
	detail, err := st.api.SubmitProposal(ctx, id)
	if err != nil {
		st.dispatch(proposalActionError{err: err.Error()})
		return err
	}
	st.dispatch(proposalActionSuccess{detail: detail})
	return nil
}

func (st *ProposalStore) Approve(ctx context.Context, id uuid.UUID) error {
	if !authz.CanPerform(authz.ActionApproveProposal, st.roles) {
		return ErrNotAllowed
	}
	st.dispatch(proposalActionPending{})
	detail, err := st.api.ApproveProposal(ctx, id)
	if err != nil {
		st.dispatch(proposalActionError{err: err.Error()})
		return err
	}
	st.dispatch(proposalActionSuccess{detail: detail})
	return nil
}

// Reject requires a non-blank reason; a blank one never reaches the network.
func (st *ProposalStore) Reject(ctx context.Context, id uuid.UUID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}
	if !authz.CanPerform(authz.ActionRejectProposal, st.roles) {
		return ErrNotAllowed
	}
	st.dispatch(proposalActionPending{})
	detail, err := st.api.RejectProposal(ctx, id, reason)
	if err != nil {
		st.dispatch(proposalActionError{err: err.Error()})
		return err
	}
	st.dispatch(proposalActionSuccess{detail: detail})
	return nil
}

func (st *ProposalStore) Delete(ctx context.Context, id uuid.UUID) error {
	if !authz.CanPerform(authz.ActionDeleteProposal, st.roles) {
		return ErrNotAllowed
	}
	if err := st.requireDraft(id); err != nil {
		return err
	}
	st.dispatch(proposalActionPending{})
	if err := st.api.DeleteProposal(ctx, id); err != nil {
		st.dispatch(proposalActionError{err: err.Error()})
		return err
	}
	st.dispatch(proposalActionSuccess{detail: nil})
	return nil
}

func (st *ProposalStore) AddItem(ctx context.Context, proposalID uuid.UUID, req *domain.AddProposalItemRequest) error {
	if err := st.requireDraft(proposalID); err != nil {
		return err
	}
	st.dispatch(proposalActionPending{})
	detail, err := st.api.AddProposalItem(ctx, proposalID, req)
	if err != nil {
		st.dispatch(proposalActionError{err: err.Error()})
		return err
	}
	st.dispatch(proposalActionSuccess{detail: detail})
	return nil
}

func (st *ProposalStore) UpdateItem(ctx context.Context, proposalID, itemID uuid.UUID, req *domain.UpdateProposalItemRequest) error {
	if err := st.requireDraft(proposalID); err != nil {
		return err
	}
	st.dispatch(proposalActionPending{})
	detail, err := st.api.UpdateProposalItem(ctx, proposalID, itemID, req)
	if err != nil {
		st.dispatch(proposalActionError{err: err.Error()})
		return err
	}
	st.dispatch(proposalActionSuccess{detail: detail})
	return nil
}

func (st *ProposalStore) RemoveItem(ctx context.Context, proposalID, itemID uuid.UUID) error {
	if err := st.requireDraft(proposalID); err != nil {
		return err
	}
	st.dispatch(proposalActionPending{})
	detail, err := st.api.RemoveProposalItem(ctx, proposalID, itemID)
	if err != nil {
		st.dispatch(proposalActionError{err: err.Error()})
		return err
	}
	st.dispatch(proposalActionSuccess{detail: detail})
	return nil
}

// requireDraft rejects field and item edits when the cached record for the
// given id is known to be past draft. An unknown record passes; the backend
// makes the final call either way.
func (st *ProposalStore) requireDraft(id uuid.UUID) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.state.Detail != nil && st.state.Detail.ID == id && st.state.Detail.Status != domain.ProposalStatusDraft {
		return ErrNotDraft
	}
	return nil
}
