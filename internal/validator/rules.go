package validator

import (
	"log"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"sg44_backend/internal/models"
	"sg44_backend/internal/registration"
)

// registerCustomRules registers every custom tag on v. Empty values pass;
// presence is the job of 'required'.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// a broken tag is a startup bug
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// statuses.go
	mustRegister("user-role", stringRule(func(s string) bool { return models.UserRole(s).IsValid() }))
	mustRegister("gender", stringRule(func(s string) bool { return models.Gender(s).IsValid() }))
	mustRegister("payment-status", stringRule(func(s string) bool { return models.PaymentStatus(s).IsValid() }))
	mustRegister("submission-status", stringRule(func(s string) bool { return models.SubmissionStatus(s).IsValid() }))

	// registration.go
	mustRegister("ticket-type", stringRule(func(s string) bool { return registration.IsKnownTicket(models.TicketType(s)) }))
	mustRegister("participant-role", stringRule(func(s string) bool { return models.ParticipantRole(s).IsValid() }))
	mustRegister("presentation-type", stringRule(func(s string) bool { return models.PresentationType(s).IsValid() }))
	mustRegister("dietary-preference", stringRule(func(s string) bool { return models.DietaryPreference(s).IsValid() }))
	mustRegister("yes-no", stringRule(func(s string) bool { return models.YesNo(s).IsValid() }))
	mustRegister("last5-digits", stringRule(registration.IsValidLast5))
	mustRegister("hhmm", stringRule(registration.IsValidHHMM))

	mustRegister("slug", stringRule(slugPattern.MatchString))

	mustRegister("date-only", stringRule(func(s string) bool {
		_, err := time.Parse(time.DateOnly, s)
		return err == nil
	}))
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// stringRule adapts a string predicate to a validator.Func. Pointer fields are
// dereferenced by the validator before the call.
func stringRule(ok func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return ok(value)
	}
}

var tagMessages = map[string]string{
	"user-role":          "Must be one of: admin, user, reviewer",
	"gender":             "Must be one of: male, female, other",
	"payment-status":     "Must be one of: pending, paid, failed",
	"submission-status":  "Must be one of: processing, reviewing, accepted, rejected",
	"ticket-type":        "Unknown ticket type",
	"participant-role":   "Invalid participant role",
	"presentation-type":  "Must be one of: none, oral, poster, both",
	"dietary-preference": "Must be one of: regular, vegan, other",
	"yes-no":             "Must be yes or no",
	"last5-digits":       "Must be exactly 5 digits",
	"hhmm":               "Must be a time in HH:MM format",
	"date-only":          "Must be a date in YYYY-MM-DD format",
	"slug":               "Must contain only lowercase letters, digits and dashes",
}
