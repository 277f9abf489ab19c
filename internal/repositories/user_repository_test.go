package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sg44_backend/internal/models"
	"sg44_backend/internal/repositories"
	"sg44_backend/internal/testutil"
)

func TestUserRepository_EmailIsUniqueAndCaseInsensitive(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewUserRepository()

	require.NoError(t, repo.Create(db, &models.User{Name: "A", Email: "Ann@Example.com", PasswordHash: "x", Role: models.UserRoleUser}))
	err := repo.Create(db, &models.User{Name: "B", Email: "ann@example.com", PasswordHash: "x", Role: models.UserRoleUser})
	assert.ErrorIs(t, err, repositories.ErrUserAlreadyExists)

	u, err := repo.FindByEmail(db, " ANN@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "A", u.Name)
}

func TestUserRepository_UpdateRoleAndFilter(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewUserRepository()
	u := testutil.CreateUser(t, db, &models.User{Email: "rev@example.com", Name: "Reviewer Rae"})
	testutil.CreateUser(t, db, &models.User{Email: "other@example.com"})

	require.NoError(t, repo.UpdateRole(db, u.ID, models.UserRoleReviewer))
	assert.ErrorIs(t, repo.UpdateRole(db, "missing", models.UserRoleAdmin), repositories.ErrUserNotFound)

	reviewers, total, err := repo.FindWithFilter(db, repositories.UserFilter{Role: models.UserRoleReviewer})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, reviewers, 1)
	assert.Equal(t, u.ID, reviewers[0].ID)

	found, _, err := repo.FindWithFilter(db, repositories.UserFilter{Search: "rae"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
