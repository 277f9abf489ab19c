package models

// Submission is an abstract proposed for the programme and its review state.
type Submission struct {
	BaseModel
	OwnerID            string           `gorm:"type:varchar(36);not null;index"`
	Owner              *User            `gorm:"foreignKey:OwnerID"`
	Title              string           `gorm:"type:varchar(300);not null"`
	Abstract           string           `gorm:"type:text;not null"`
	Topic              string           `gorm:"type:varchar(100)"`
	Status             SubmissionStatus `gorm:"type:varchar(20);not null;default:'processing';index"`
	AssignedReviewerID *string          `gorm:"type:varchar(36);index"`
	ReviewComments     string           `gorm:"type:text"`
}
