package service

import (
	"testing"

	"go-equipment-loan/internal/model"
	"go-equipment-loan/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginByEmailOrIdentityNumber(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepo(db), nil)

	user := &model.User{
		Email:          "budi@example.com",
		FullName:       "Budi Santoso",
		IdentityNumber: "2110512345",
		IsActive:       true,
	}
	require.NoError(t, user.SetPassword("rahasia1"))
	require.NoError(t, db.Create(user).Error)

	resp, err := svc.Login("budi@example.com", "rahasia1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "2110512345", resp.User.IdentityNumber)

	// NIM works as the identifier too
	resp, err = svc.Login("2110512345", "rahasia1")
	require.NoError(t, err)
	assert.Equal(t, "budi@example.com", resp.User.Email)

	_, err = svc.Login("2110512345", "salah")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("tidak-terdaftar", "rahasia1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepo(db), nil)

	user := &model.User{Email: "nonaktif@example.com", FullName: "Nonaktif", IsActive: true}
	require.NoError(t, user.SetPassword("rahasia1"))
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, err := svc.Login("nonaktif@example.com", "rahasia1")
	assert.ErrorIs(t, err, ErrUserInactive)
}
