package registration

import (
	"strings"

	"sg44_backend/internal/models"
)

// Normalize trims free text and clears conditional fields whose trigger is not
// set. It is idempotent and runs before validation on every write, so edits
// that turn off the last meal also drop the stale dietary answers.
func Normalize(r *models.Registration) {
	r.ContactAddress = strings.TrimSpace(r.ContactAddress)
	r.PaymentAccountLast5 = strings.TrimSpace(r.PaymentAccountLast5)
	r.Remarks = strings.TrimSpace(r.Remarks)
	r.ParticipantRoleOther = trimOrNil(r.ParticipantRoleOther)
	r.DietaryOther = trimOrNil(r.DietaryOther)
	r.PaymentTime = trimOrNil(r.PaymentTime)

	if r.PresentationType == "" {
		r.PresentationType = models.PresentationNone
	}

	if r.ParticipantRole != models.ParticipantOther {
		r.ParticipantRoleOther = nil
	}

	if r.DietaryPreference != nil && *r.DietaryPreference == "" {
		r.DietaryPreference = nil
	}
	if !r.AnyMeal() {
		r.DietaryPreference = nil
		r.DietaryOther = nil
	}
	if r.DietaryPreference == nil || *r.DietaryPreference != models.DietOther {
		r.DietaryOther = nil
	}
}

func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
