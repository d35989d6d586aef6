package models

import "time"

// LeadStatus represents valid lead statuses
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusQuoted    LeadStatus = "quoted"
	LeadStatusWon       LeadStatus = "won"
	LeadStatusLost      LeadStatus = "lost"
)

// Lead represents a sales lead captured by the website
type Lead struct {
	ID        string     `json:"id" db:"id"`
	FirstName *string    `json:"first_name,omitempty" db:"first_name"`
	LastName  *string    `json:"last_name,omitempty" db:"last_name"`
	Email     *string    `json:"email,omitempty" db:"email"`
	Phone     *string    `json:"phone,omitempty" db:"phone"`
	Status    LeadStatus `json:"status" db:"status"`
	Source    *string    `json:"source,omitempty" db:"source"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// FullName returns the lead's full name, falling back to a neutral
// greeting when no name is on file
func (l *Lead) FullName() string {
	var firstName, lastName string

	if l.FirstName != nil {
		firstName = *l.FirstName
	}
	if l.LastName != nil {
		lastName = *l.LastName
	}

	if firstName != "" && lastName != "" {
		return firstName + " " + lastName
	}
	if firstName != "" {
		return firstName
	}
	if lastName != "" {
		return lastName
	}
	return "there"
}

// HasEmail checks if the lead has an email address on file
func (l *Lead) HasEmail() bool {
	return l.Email != nil && *l.Email != ""
}

// HasPhone checks if the lead has a phone number on file
func (l *Lead) HasPhone() bool {
	return l.Phone != nil && *l.Phone != ""
}
