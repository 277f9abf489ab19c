package registration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"sg44_backend/internal/auth"
	"sg44_backend/internal/models"
)

func strPtr(s string) *string { return &s }

func dietPtr(d models.DietaryPreference) *models.DietaryPreference { return &d }

func validRecord() *models.Registration {
	return &models.Registration{
		UserID:              "u1",
		TicketType:          models.TicketStandardRegular,
		ContactAddress:      "1 Main St",
		ParticipantRole:     models.ParticipantAttendee,
		PaymentAccountLast5: "12345",
		PaymentDate:         datatypes.Date(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)),
		MealDay1:            models.No,
		MealDay2:            models.No,
		Banquet:             models.No,
	}
}

func TestPrepare_AmountComesFromPriceTable(t *testing.T) {
	cases := map[models.TicketType]int{
		models.TicketEarlyBirdStudent: 1500,
		models.TicketEarlyBirdRegular: 2000,
		models.TicketStandardStudent:  2200,
		models.TicketStandardRegular:  2700,
	}

	for ticket, want := range cases {
		t.Run(string(ticket), func(t *testing.T) {
			r := validRecord()
			r.TicketType = ticket
			r.Amount = 1 // client-supplied, must be ignored

			require.Nil(t, Prepare(r))
			assert.Equal(t, want, r.Amount)
			assert.Equal(t, models.PaymentStatusPending, r.PaymentStatus)
		})
	}
}

func TestPrepare_UnknownTicket(t *testing.T) {
	r := validRecord()
	r.TicketType = "vip-pass"

	errs := Prepare(r)
	assert.Contains(t, errs, FieldTicketType)
}

func TestValidate_DietaryOptionalWithoutMeals(t *testing.T) {
	r := validRecord()
	assert.Nil(t, Prepare(r))
	assert.Nil(t, r.DietaryPreference)
}

func TestValidate_DietaryRequiredWithAnyMeal(t *testing.T) {
	for _, set := range []func(*models.Registration){
		func(r *models.Registration) { r.MealDay1 = models.Yes },
		func(r *models.Registration) { r.MealDay2 = models.Yes },
		func(r *models.Registration) { r.Banquet = models.Yes },
	} {
		r := validRecord()
		set(r)
		errs := Prepare(r)
		assert.Contains(t, errs, FieldDietaryPreference)
	}
}

func TestValidate_DietaryOtherRequiredForOther(t *testing.T) {
	r := validRecord()
	r.Banquet = models.Yes
	r.DietaryPreference = dietPtr(models.DietOther)

	errs := Prepare(r)
	assert.Contains(t, errs, FieldDietaryOther)

	r.DietaryOther = strPtr("  no peanuts ")
	assert.Nil(t, Prepare(r))
	assert.Equal(t, "no peanuts", *r.DietaryOther)
}

func TestPrepare_VeganLunchScenario(t *testing.T) {
	r := validRecord()
	r.MealDay1 = models.Yes
	r.DietaryPreference = dietPtr(models.DietVegan)
	r.DietaryOther = strPtr("leftover from a previous edit")

	require.Nil(t, Prepare(r))
	assert.Equal(t, models.DietVegan, *r.DietaryPreference)
	assert.Nil(t, r.DietaryOther)
}

func TestNormalize_ClearsUntriggeredFields(t *testing.T) {
	r := validRecord()
	r.DietaryPreference = dietPtr(models.DietOther)
	r.DietaryOther = strPtr("halal")
	r.ParticipantRoleOther = strPtr("photographer")

	Normalize(r)

	assert.Nil(t, r.DietaryPreference)
	assert.Nil(t, r.DietaryOther)
	assert.Nil(t, r.ParticipantRoleOther)
	assert.Equal(t, models.PresentationNone, r.PresentationType)
}

func TestValidate_ParticipantRoleOther(t *testing.T) {
	r := validRecord()
	r.ParticipantRole = models.ParticipantOther

	assert.Contains(t, Prepare(r), FieldParticipantRoleOther)

	r.ParticipantRoleOther = strPtr("photographer")
	assert.Nil(t, Prepare(r))
	assert.Equal(t, "photographer", *r.ParticipantRoleOther)
}

func TestIsValidLast5(t *testing.T) {
	assert.True(t, IsValidLast5("00000"))
	assert.True(t, IsValidLast5("98765"))

	for _, bad := range []string{"1234", "123456", "12a45", "", "１２３４５", " 1234"} {
		assert.False(t, IsValidLast5(bad), bad)
	}
}

func TestValidate_PaymentTime(t *testing.T) {
	r := validRecord()
	r.PaymentTime = strPtr("25:00")
	assert.Contains(t, Prepare(r), FieldPaymentTime)

	r.PaymentTime = strPtr("09:30")
	assert.Nil(t, Prepare(r))
}

func TestValidate_RequiredFields(t *testing.T) {
	errs := Validate(&models.Registration{PaymentStatus: models.PaymentStatusPending, PresentationType: models.PresentationNone})

	for _, f := range []string{
		FieldTicketType, FieldContactAddress, FieldParticipantRole,
		FieldPaymentAccountLast5, FieldPaymentDate, FieldMealDay1, FieldMealDay2, FieldBanquet,
	} {
		assert.Contains(t, errs, f)
	}
}

func TestCheckWrite(t *testing.T) {
	owner := auth.Actor{UserID: "u1", Role: models.UserRoleUser}
	admin := auth.Actor{UserID: "a1", Role: models.UserRoleAdmin}
	stranger := auth.Actor{UserID: "u2", Role: models.UserRoleUser}

	assert.Empty(t, CheckWrite(owner, "u1", []string{FieldTicketType, FieldAmount, FieldRemarks}))
	assert.Equal(t, []string{FieldPaymentStatus}, CheckWrite(owner, "u1", []string{FieldRemarks, FieldPaymentStatus}))
	assert.Empty(t, CheckWrite(admin, "u1", []string{FieldPaymentStatus}))
	assert.Equal(t, []string{FieldRemarks}, CheckWrite(admin, "u1", []string{FieldRemarks}))
	assert.Equal(t, []string{FieldRemarks}, CheckWrite(stranger, "u1", []string{FieldRemarks}))
	assert.Equal(t, []string{FieldUser}, CheckWrite(owner, "u1", []string{FieldUser}))
}

func TestTickets_ReturnsCopy(t *testing.T) {
	list := Tickets()
	require.Len(t, list, 4)
	list[0].Price = 0

	price, err := PriceFor(models.TicketEarlyBirdStudent)
	require.NoError(t, err)
	assert.Equal(t, 1500, price)
}
