package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jason-govender/salesflow-api/internal/authz"
	"github.com/jason-govender/salesflow-api/internal/client"
	"github.com/jason-govender/salesflow-api/internal/domain"
)

// OpportunityState is the cached opportunity view, including the stage
// history of the record in the detail slot.
type OpportunityState struct {
	List    *domain.PaginatedResponse[domain.OpportunityDTO]
	Detail  *domain.OpportunityDTO
	History []domain.StageHistoryDTO
	Filters client.OpportunityListParams

	IsPending     bool
	ActionPending bool
	IsError       bool
	Err           string
}

type opportunityAction interface{ isOpportunityAction() }

type opportunityListPending struct{}
type opportunityListSuccess struct {
	list    *domain.PaginatedResponse[domain.OpportunityDTO]
	filters client.OpportunityListParams
}
type opportunityListError struct{ err string }
type opportunityDetailPending struct{}
type opportunityDetailSuccess struct{ detail *domain.OpportunityDTO }
type opportunityDetailError struct{ err string }
type opportunityHistorySuccess struct{ history []domain.StageHistoryDTO }
type opportunityActionPending struct{}
type opportunityActionSuccess struct{ detail *domain.OpportunityDTO }
type opportunityActionError struct{ err string }

func (opportunityListPending) isOpportunityAction()    {}
func (opportunityListSuccess) isOpportunityAction()    {}
func (opportunityListError) isOpportunityAction()      {}
func (opportunityDetailPending) isOpportunityAction()  {}
func (opportunityDetailSuccess) isOpportunityAction()  {}
func (opportunityDetailError) isOpportunityAction()    {}
func (opportunityHistorySuccess) isOpportunityAction() {}
func (opportunityActionPending) isOpportunityAction()  {}
func (opportunityActionSuccess) isOpportunityAction()  {}
func (opportunityActionError) isOpportunityAction()    {}

func reduceOpportunity(s OpportunityState, a opportunityAction) OpportunityState {
	switch a := a.(type) {
	case opportunityListPending:
		s.IsPending = true
		s.IsError = false
		s.Err = ""
	case opportunityListSuccess:
		s.IsPending = false
		s.List = a.list
		s.Filters = a.filters
		s.IsError = false
		s.Err = ""
	case opportunityListError:
		s.IsPending = false
		s.List = nil
		s.IsError = true
		s.Err = a.err
	case opportunityDetailPending:
		s.IsPending = true
		s.IsError = false
		s.Err = ""
	case opportunityDetailSuccess:
		s.IsPending = false
		s.Detail = a.detail
		s.IsError = false
		s.Err = ""
	case opportunityDetailError:
		s.IsPending = false
		s.IsError = true
		s.Err = a.err
	case opportunityHistorySuccess:
		s.IsPending = false
		s.History = a.history
		s.IsError = false
		s.Err = ""
	case opportunityActionPending:
		s.ActionPending = true
		s.IsError = false
		s.Err = ""
	case opportunityActionSuccess:
		s.ActionPending = false
		s.Detail = a.detail
		s.IsError = false
		s.Err = ""
	case opportunityActionError:
		s.ActionPending = false
		s.IsError = true
		s.Err = a.err
	}
	return s
}

// OpportunityStore drives the opportunity state through the API client.
type OpportunityStore struct {
	mu    sync.Mutex
	state OpportunityState
	api   *client.Client
	roles []domain.UserRoleType
}

func NewOpportunityStore(api *client.Client, roles []domain.UserRoleType) *OpportunityStore {
	return &OpportunityStore{api: api, roles: roles}
}

func (st *OpportunityStore) State() OpportunityState {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

func (st *OpportunityStore) dispatch(a opportunityAction) {
	st.mu.Lock()
	st.state = reduceOpportunity(st.state, a)
	st.mu.Unlock()
}

func (st *OpportunityStore) Load(ctx context.Context, params client.OpportunityListParams) error {
	st.dispatch(opportunityListPending{})
	list, err := st.api.ListOpportunities(ctx, params)
	if err != nil {
		st.dispatch(opportunityListError{err: err.Error()})
		return err
	}
	st.dispatch(opportunityListSuccess{list: list, filters: params})
	return nil
}

func (st *OpportunityStore) Get(ctx context.Context, id uuid.UUID) error {
	st.dispatch(opportunityDetailPending{})
	detail, err := st.api.GetOpportunity(ctx, id)
	if err != nil {
		st.dispatch(opportunityDetailError{err: err.Error()})
		return err
	}
	st.dispatch(opportunityDetailSuccess{detail: detail})
	return nil
}

func (st *OpportunityStore) Create(ctx context.Context, req *domain.CreateOpportunityRequest) error {
	st.dispatch(opportunityActionPending{})
	detail, err := st.api.CreateOpportunity(ctx, req)
	if err != nil {
		st.dispatch(opportunityActionError{err: err.Error()})
		return err
	}
	st.dispatch(opportunityActionSuccess{detail: detail})
	return nil
}

func (st *OpportunityStore) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateOpportunityRequest) error {
	st.dispatch(opportunityActionPending{})
	detail, err := st.api.UpdateOpportunity(ctx, id, req)
	if err != nil {
		st.dispatch(opportunityActionError{err: err.Error()})
		return err
	}
	st.dispatch(opportunityActionSuccess{detail: detail})
	return nil
}

// SetStage moves the record to any valid stage; the reason is optional.
func (st *OpportunityStore) SetStage(ctx context.Context, id uuid.UUID, stage domain.OpportunityStage, reason string) error {
	if !stage.IsValid() {
		return ErrInvalidStage
	}
	st.dispatch(opportunityActionPending{})
	detail, err := st.api.SetOpportunityStage(ctx, id, stage, reason)
	if err != nil {
		st.dispatch(opportunityActionError{err: err.Error()})
		return err
	}
	st.dispatch(opportunityActionSuccess{detail: detail})
	return nil
}

func (st *OpportunityStore) Assign(ctx context.Context, id, userID uuid.UUID) error {
	if !authz.CanPerform(authz.ActionAssignOpportunity, st.roles) {
		return ErrNotAllowed
	}
	st.dispatch(opportunityActionPending{})
	detail, err := st.api.AssignOpportunity(ctx, id, userID)
	if err != nil {
		st.dispatch(opportunityActionError{err: err.Error()})
		return err
	}
	st.dispatch(opportunityActionSuccess{detail: detail})
	return nil
}

func (st *OpportunityStore) Delete(ctx context.Context, id uuid.UUID) error {
	if !authz.CanPerform(authz.ActionDeleteOpportunity, st.roles) {
		return ErrNotAllowed
	}
	st.dispatch(opportunityActionPending{})
	if err := st.api.DeleteOpportunity(ctx, id); err != nil {
		st.dispatch(opportunityActionError{err: err.Error()})
		return err
	}
	st.dispatch(opportunityActionSuccess{detail: nil})
	return nil
}

func (st *OpportunityStore) LoadHistory(ctx context.Context, id uuid.UUID) error {
	st.dispatch(opportunityDetailPending{})
	history, err := st.api.GetStageHistory(ctx, id)
	if err != nil {
		st.dispatch(opportunityDetailError{err: err.Error()})
		return err
	}
	st.dispatch(opportunityHistorySuccess{history: history})
	return nil
}
