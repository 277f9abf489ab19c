package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sg44_backend/internal/models"
	"sg44_backend/internal/repositories"
	"sg44_backend/internal/testutil"
)

func TestRegistrationRepository_CreateIsUniquePerUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewRegistrationRepository()
	user := testutil.CreateUser(t, db, &models.User{Email: "ann@example.com"})

	// Arrange / Act
	require.NoError(t, repo.Create(db, testutil.NewRegistration(user.ID)))
	err := repo.Create(db, testutil.NewRegistration(user.ID))

	// Assert
	assert.ErrorIs(t, err, repositories.ErrRegistrationExists)

	var count int64
	require.NoError(t, db.Model(&models.Registration{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegistrationRepository_FindByUserID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewRegistrationRepository()
	user := testutil.CreateUser(t, db, &models.User{Email: "ann@example.com", Name: "Ann"})

	_, err := repo.FindByUserID(db, user.ID)
	assert.ErrorIs(t, err, repositories.ErrRegistrationNotFound)

	reg := testutil.CreateRegistration(t, db, testutil.NewRegistration(user.ID))

	found, err := repo.FindByUserID(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, found.ID)
	require.NotNil(t, found.User)
	assert.Equal(t, "Ann", found.User.Name)
	assert.Equal(t, "2026-05-01", found.PaymentDateString())
}

func TestRegistrationRepository_UpdatePaymentStatusTouchesOnlyStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewRegistrationRepository()
	user := testutil.CreateUser(t, db, &models.User{Email: "ann@example.com"})
	reg := testutil.CreateRegistration(t, db, testutil.NewRegistration(user.ID))

	require.NoError(t, repo.UpdatePaymentStatus(db, reg.ID, models.PaymentStatusPaid))

	after, err := repo.FindByID(db, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, after.PaymentStatus)
	assert.Equal(t, reg.Amount, after.Amount)
	assert.Equal(t, reg.PaymentAccountLast5, after.PaymentAccountLast5)
	assert.Equal(t, reg.ContactAddress, after.ContactAddress)

	err = repo.UpdatePaymentStatus(db, "missing", models.PaymentStatusPaid)
	assert.ErrorIs(t, err, repositories.ErrRegistrationNotFound)
}

func TestRegistrationRepository_SaveClearsNullableFields(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewRegistrationRepository()
	user := testutil.CreateUser(t, db, &models.User{Email: "ann@example.com"})

	reg := testutil.NewRegistration(user.ID)
	reg.MealDay1 = models.Yes
	diet := models.DietOther
	other := "no nuts"
	reg.DietaryPreference = &diet
	reg.DietaryOther = &other
	testutil.CreateRegistration(t, db, reg)

	reg.MealDay1 = models.No
	reg.DietaryPreference = nil
	reg.DietaryOther = nil
	require.NoError(t, repo.Save(db, reg))

	after, err := repo.FindByID(db, reg.ID)
	require.NoError(t, err)
	assert.Nil(t, after.DietaryPreference)
	assert.Nil(t, after.DietaryOther)
}

func TestRegistrationRepository_ListFiltersAndPages(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewRegistrationRepository()

	for i, status := range []models.PaymentStatus{
		models.PaymentStatusPending, models.PaymentStatusPaid, models.PaymentStatusPaid,
	} {
		u := testutil.CreateUser(t, db, &models.User{Email: string(rune('a'+i)) + "@example.com"})
		reg := testutil.NewRegistration(u.ID)
		reg.PaymentStatus = status
		testutil.CreateRegistration(t, db, reg)
	}

	paid, total, err := repo.List(db, repositories.RegistrationFilter{PaymentStatus: models.PaymentStatusPaid, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, paid, 1)

	all, err := repo.ListAll(db, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
