package registration

import (
	"sg44_backend/internal/auth"
)

// WritePolicy lists who may write each registration field. The owner edits
// everything they entered; only administrators move the payment status;
// identity, price and timestamps are server-owned.
var WritePolicy = auth.FieldPolicy{
	FieldTicketType:           auth.OwnerOnly,
	FieldContactAddress:       auth.OwnerOnly,
	FieldParticipantRole:      auth.OwnerOnly,
	FieldParticipantRoleOther: auth.OwnerOnly,
	FieldPresentationType:     auth.OwnerOnly,
	FieldPaymentAccountLast5:  auth.OwnerOnly,
	FieldPaymentDate:          auth.OwnerOnly,
	FieldPaymentTime:          auth.OwnerOnly,
	FieldMealDay1:             auth.OwnerOnly,
	FieldMealDay2:             auth.OwnerOnly,
	FieldBanquet:              auth.OwnerOnly,
	FieldDietaryPreference:    auth.OwnerOnly,
	FieldDietaryOther:         auth.OwnerOnly,
	FieldRemarks:              auth.OwnerOnly,
	FieldPaymentStatus:        auth.AdminOnly,
	FieldAmount:               auth.Nobody,
	FieldUser:                 auth.Nobody,
	FieldID:                   auth.Nobody,
	FieldCreatedAt:            auth.Nobody,
	FieldUpdatedAt:            auth.Nobody,
}

// serverComputed fields may appear in a client body and are silently dropped
// rather than rejected; the amount is always re-derived from the ticket type.
var serverComputed = map[string]bool{
	FieldAmount: true,
	FieldID:     true,
}

// CheckWrite returns the fields in the request that actor may not write on a
// record owned by ownerID. Server-computed fields are ignored.
func CheckWrite(actor auth.Actor, ownerID string, fields []string) []string {
	var considered []string
	for _, f := range fields {
		if !serverComputed[f] {
			considered = append(considered, f)
		}
	}
	return WritePolicy.Denied(actor, ownerID, considered)
}
