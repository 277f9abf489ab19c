// Package registration holds the conference registration rules that do not
// touch storage: the ticket price table, normalisation of conditional fields,
// cross-field validation and the per-field write policy.
package registration

import (
	"errors"

	"sg44_backend/internal/models"
)

var ErrUnknownTicketType = errors.New("unknown ticket type")

// Ticket is one entry of the public price table.
type Ticket struct {
	Type   models.TicketType `json:"id"`
	Title  string            `json:"title"`
	Price  int               `json:"price"`
	Period string            `json:"period"`
}

var tickets = []Ticket{
	{Type: models.TicketEarlyBirdStudent, Title: "早鳥報名 - 學生 (Student)", Price: 1500, Period: "2026.04.01 ~ 2026.06.15"},
	{Type: models.TicketEarlyBirdRegular, Title: "早鳥報名 - 一般人士 (Regular)", Price: 2000, Period: "2026.04.01 ~ 2026.06.15"},
	{Type: models.TicketStandardStudent, Title: "一般報名 - 學生 (Student)", Price: 2200, Period: "2026.06.16 起"},
	{Type: models.TicketStandardRegular, Title: "一般報名 - 一般人士 (Regular)", Price: 2700, Period: "2026.06.16 起"},
}

// Tickets returns a copy of the price table in display order.
func Tickets() []Ticket {
	out := make([]Ticket, len(tickets))
	copy(out, tickets)
	return out
}

// PriceFor looks up the canonical amount for a ticket type.
func PriceFor(t models.TicketType) (int, error) {
	for _, tk := range tickets {
		if tk.Type == t {
			return tk.Price, nil
		}
	}
	return 0, ErrUnknownTicketType
}

// IsKnownTicket reports whether t is in the price table.
func IsKnownTicket(t models.TicketType) bool {
	_, err := PriceFor(t)
	return err == nil
}

// TicketTitle returns the display title, or the raw identifier when unknown.
func TicketTitle(t models.TicketType) string {
	for _, tk := range tickets {
		if tk.Type == t {
			return tk.Title
		}
	}
	return string(t)
}

// ApplyPrice overwrites r.Amount from the price table. Whatever amount the
// client sent is discarded.
func ApplyPrice(r *models.Registration) error {
	price, err := PriceFor(r.TicketType)
	if err != nil {
		return err
	}
	r.Amount = price
	return nil
}
