package registration

import (
	"regexp"
	"time"

	"sg44_backend/internal/models"
)

var (
	last5Pattern = regexp.MustCompile(`^[0-9]{5}$`)
	hhmmPattern  = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// Field names as they appear on the wire. Validation and policy errors are
// keyed by these.
const (
	FieldID                   = "id"
	FieldUser                 = "user_id"
	FieldTicketType           = "ticket_type"
	FieldAmount               = "amount"
	FieldContactAddress       = "contact_address"
	FieldParticipantRole      = "participant_role"
	FieldParticipantRoleOther = "participant_role_other"
	FieldPresentationType     = "presentation_type"
	FieldPaymentAccountLast5  = "payment_account_last5"
	FieldPaymentDate          = "payment_date"
	FieldPaymentTime          = "payment_time"
	FieldMealDay1             = "meal_day1"
	FieldMealDay2             = "meal_day2"
	FieldBanquet              = "banquet"
	FieldDietaryPreference    = "dietary_preference"
	FieldDietaryOther         = "dietary_other"
	FieldRemarks              = "remarks"
	FieldPaymentStatus        = "payment_status"
	FieldCreatedAt            = "created_at"
	FieldUpdatedAt            = "updated_at"
)

// IsValidLast5 reports whether s is exactly five ASCII digits.
func IsValidLast5(s string) bool {
	return last5Pattern.MatchString(s)
}

// IsValidHHMM reports whether s is a 24h "HH:MM" time.
func IsValidHHMM(s string) bool {
	return hhmmPattern.MatchString(s)
}

// Validate checks a normalised record as a unit and returns a field -> message
// map, or nil when the record is valid. Conditional requirements are evaluated
// against sibling values of the same record, so the same call covers both a
// fresh submission and a merged edit.
func Validate(r *models.Registration) map[string]string {
	errs := make(map[string]string)

	if r.TicketType == "" {
		errs[FieldTicketType] = "This field is required"
	} else if !IsKnownTicket(r.TicketType) {
		errs[FieldTicketType] = "Unknown ticket type"
	}

	if r.ContactAddress == "" {
		errs[FieldContactAddress] = "This field is required"
	}

	switch {
	case r.ParticipantRole == "":
		errs[FieldParticipantRole] = "This field is required"
	case !r.ParticipantRole.IsValid():
		errs[FieldParticipantRole] = "Invalid participant role"
	case r.ParticipantRole == models.ParticipantOther && r.ParticipantRoleOther == nil:
		errs[FieldParticipantRoleOther] = "Please describe your role"
	}

	if !r.PresentationType.IsValid() {
		errs[FieldPresentationType] = "Invalid presentation type"
	}

	if !IsValidLast5(r.PaymentAccountLast5) {
		errs[FieldPaymentAccountLast5] = "Must be exactly 5 digits"
	}

	if time.Time(r.PaymentDate).IsZero() {
		errs[FieldPaymentDate] = "This field is required"
	}
	if r.PaymentTime != nil && !IsValidHHMM(*r.PaymentTime) {
		errs[FieldPaymentTime] = "Must be a time in HH:MM format"
	}

	checkYesNo(errs, FieldMealDay1, r.MealDay1)
	checkYesNo(errs, FieldMealDay2, r.MealDay2)
	checkYesNo(errs, FieldBanquet, r.Banquet)

	if r.AnyMeal() {
		switch {
		case r.DietaryPreference == nil:
			errs[FieldDietaryPreference] = "Required when any meal or the banquet is selected"
		case !r.DietaryPreference.IsValid():
			errs[FieldDietaryPreference] = "Invalid dietary preference"
		case *r.DietaryPreference == models.DietOther && r.DietaryOther == nil:
			errs[FieldDietaryOther] = "Please describe your dietary needs"
		}
	}

	if !r.PaymentStatus.IsValid() {
		errs[FieldPaymentStatus] = "Invalid payment status"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkYesNo(errs map[string]string, field string, v models.YesNo) {
	if v == "" {
		errs[field] = "This field is required"
	} else if !v.IsValid() {
		errs[field] = "Must be yes or no"
	}
}

// Prepare runs the full write pipeline on a candidate record: normalise,
// price, validate. A non-nil map means nothing may be written.
func Prepare(r *models.Registration) map[string]string {
	Normalize(r)
	if r.PaymentStatus == "" {
		r.PaymentStatus = models.PaymentStatusPending
	}
	errs := Validate(r)
	if errs != nil {
		return errs
	}
	if err := ApplyPrice(r); err != nil {
		return map[string]string{FieldTicketType: "Unknown ticket type"}
	}
	return nil
}
