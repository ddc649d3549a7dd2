package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason-govender/salesflow-api/internal/config"
	"github.com/jason-govender/salesflow-api/internal/domain"
)

func newTestValidator() *JWTValidator {
	return NewJWTValidator(&config.AuthConfig{
		JWTSecret: "test-secret-at-least-32-bytes-long!",
		Issuer:    "salesflow-test",
		Audience:  "salesflow-api",
	})
}

func TestIssueAndValidateToken(t *testing.T) {
	v := newTestValidator()
	user := &UserContext{
		UserID:      uuid.New(),
		DisplayName: "Thandi Nkosi",
		Email:       "thandi@example.com",
		Roles:       []domain.UserRoleType{domain.RoleSalesManager, domain.RoleSalesRep},
	}

	token, err := v.IssueToken(user, time.Hour)
	require.NoError(t, err)

	got, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, got.UserID)
	assert.Equal(t, user.DisplayName, got.DisplayName)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.Roles, got.Roles)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	v := newTestValidator()
	token, err := v.IssueToken(&UserContext{UserID: uuid.New()}, -time.Minute)
	require.NoError(t, err)

	_, err = v.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	v := newTestValidator()
	other := NewJWTValidator(&config.AuthConfig{
		JWTSecret: "a-completely-different-signing-key!",
		Issuer:    "salesflow-test",
		Audience:  "salesflow-api",
	})

	token, err := other.IssueToken(&UserContext{UserID: uuid.New()}, time.Hour)
	require.NoError(t, err)

	_, err = v.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	v := newTestValidator()
	other := NewJWTValidator(&config.AuthConfig{
		JWTSecret: "test-secret-at-least-32-bytes-long!",
		Issuer:    "someone-else",
		Audience:  "salesflow-api",
	})

	token, err := other.IssueToken(&UserContext{UserID: uuid.New()}, time.Hour)
	require.NoError(t, err)

	_, err = v.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSalesRepOnlyScoping(t *testing.T) {
	repOnly := &UserContext{Roles: []domain.UserRoleType{domain.RoleSalesRep}}
	assert.True(t, repOnly.IsSalesRepOnly())

	manager := &UserContext{Roles: []domain.UserRoleType{domain.RoleSalesRep, domain.RoleSalesManager}}
	assert.False(t, manager.IsSalesRepOnly())

	noRoles := &UserContext{}
	assert.False(t, noRoles.IsSalesRepOnly())
}
