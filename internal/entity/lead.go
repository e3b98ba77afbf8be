package entity

import (
	"time"
)

type LeadStatus string

const (
	LeadStatusNew          LeadStatus = "new"
	LeadStatusContacted    LeadStatus = "contacted"
	LeadStatusQualified    LeadStatus = "qualified"
	LeadStatusProposalSent LeadStatus = "proposal-sent"
	LeadStatusWon          LeadStatus = "won"
	LeadStatusLost         LeadStatus = "lost"
)

// Valid reports whether s is one of the six pipeline states.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified,
		LeadStatusProposalSent, LeadStatusWon, LeadStatusLost:
		return true
	}
	return false
}

type LeadSource string

const (
	LeadSourceChatbot     LeadSource = "chatbot"
	LeadSourceContactForm LeadSource = "contact-form"
	LeadSourceManual      LeadSource = "manual"
)

func (s LeadSource) Valid() bool {
	switch s {
	case LeadSourceChatbot, LeadSourceContactForm, LeadSourceManual:
		return true
	}
	return false
}

// Lead is a sales prospect. ID is the creation time in unix milliseconds.
type Lead struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Company   string     `json:"company,omitempty"`
	Service   string     `json:"service,omitempty"`
	Message   string     `json:"message,omitempty"`
	Budget    string     `json:"budget,omitempty"`
	Timeline  string     `json:"timeline,omitempty"`
	Source    LeadSource `json:"source"`
	Status    LeadStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Recipient returns the outreach view of the lead.
func (l Lead) Recipient() Recipient {
	return Recipient{
		Name:    l.Name,
		Email:   l.Email,
		Company: l.Company,
	}
}
