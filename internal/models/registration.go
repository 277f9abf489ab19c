package models

import (
	"time"

	"gorm.io/datatypes"
)

type TicketType string
type ParticipantRole string
type PresentationType string
type YesNo string
type DietaryPreference string

const (
	TicketEarlyBirdStudent TicketType = "early-bird-student"
	TicketEarlyBirdRegular TicketType = "early-bird-regular"
	TicketStandardStudent  TicketType = "standard-student"
	TicketStandardRegular  TicketType = "standard-regular"

	ParticipantPresenter  ParticipantRole = "presenter"
	ParticipantKeynote    ParticipantRole = "keynote"
	ParticipantHost       ParticipantRole = "host"
	ParticipantDiscussant ParticipantRole = "discussant"
	ParticipantAttendee   ParticipantRole = "attendee"
	ParticipantStaff      ParticipantRole = "staff"
	ParticipantVIP        ParticipantRole = "vip"
	ParticipantOther      ParticipantRole = "other"

	PresentationNone   PresentationType = "none"
	PresentationOral   PresentationType = "oral"
	PresentationPoster PresentationType = "poster"
	PresentationBoth   PresentationType = "both"

	Yes YesNo = "yes"
	No  YesNo = "no"

	DietRegular DietaryPreference = "regular"
	DietVegan   DietaryPreference = "vegan"
	DietOther   DietaryPreference = "other"
)

var ParticipantRoles = []ParticipantRole{
	ParticipantPresenter, ParticipantKeynote, ParticipantHost, ParticipantDiscussant,
	ParticipantAttendee, ParticipantStaff, ParticipantVIP, ParticipantOther,
}

var PresentationTypes = []PresentationType{
	PresentationNone, PresentationOral, PresentationPoster, PresentationBoth,
}

var DietaryPreferences = []DietaryPreference{DietRegular, DietVegan, DietOther}

func (r ParticipantRole) IsValid() bool {
	for _, v := range ParticipantRoles {
		if v == r {
			return true
		}
	}
	return false
}

func (p PresentationType) IsValid() bool {
	for _, v := range PresentationTypes {
		if v == p {
			return true
		}
	}
	return false
}

func (d DietaryPreference) IsValid() bool {
	for _, v := range DietaryPreferences {
		if v == d {
			return true
		}
	}
	return false
}

func (y YesNo) IsValid() bool {
	return y == Yes || y == No
}

// Registration is a user's conference sign-up together with the
// self-reported bank transfer that an administrator reconciles by hand.
type Registration struct {
	BaseModel
	UserID string `gorm:"type:varchar(36);not null;uniqueIndex"`
	User   *User  `gorm:"foreignKey:UserID"`

	TicketType TicketType `gorm:"type:varchar(32);not null"`
	Amount     int        `gorm:"not null"`

	ContactAddress       string           `gorm:"type:varchar(500);not null"`
	ParticipantRole      ParticipantRole  `gorm:"type:varchar(20);not null"`
	ParticipantRoleOther *string          `gorm:"type:varchar(200)"`
	PresentationType     PresentationType `gorm:"type:varchar(10);not null;default:'none'"`

	PaymentAccountLast5 string         `gorm:"type:varchar(5);not null"`
	PaymentDate         datatypes.Date `gorm:"not null"`
	PaymentTime         *string        `gorm:"type:varchar(5)"` // HH:MM, optional

	MealDay1          YesNo              `gorm:"type:varchar(3);not null"`
	MealDay2          YesNo              `gorm:"type:varchar(3);not null"`
	Banquet           YesNo              `gorm:"type:varchar(3);not null"`
	DietaryPreference *DietaryPreference `gorm:"type:varchar(10)"`
	DietaryOther      *string            `gorm:"type:varchar(200)"`

	Remarks       string        `gorm:"type:text"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(10);not null;default:'pending';index"`
}

// AnyMeal reports whether any of the catered events was selected.
func (r *Registration) AnyMeal() bool {
	return r.MealDay1 == Yes || r.MealDay2 == Yes || r.Banquet == Yes
}

// PaymentDateString formats the transfer date as YYYY-MM-DD, or "" when unset.
func (r *Registration) PaymentDateString() string {
	t := time.Time(r.PaymentDate)
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
