package domain

import "time"

// LeadStatus tracks how far a prospect has progressed.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusLost      LeadStatus = "lost"
)

// Valid reports whether s is a known lead status.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusLost:
		return true
	}
	return false
}

// Lead is a sales prospect managed by admins. Leads are not owned by users.
type Lead struct {
	ID        string
	Name      string
	Email     string
	Source    string
	Status    LeadStatus
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
