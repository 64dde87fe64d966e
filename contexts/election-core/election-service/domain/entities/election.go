package entities

import "time"

const (
	StatusUpcoming  = "upcoming"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Election is the administrative aggregate for one contest. TotalVoters is
// the eligible electorate size set by the operator; cast counts are never
// stored here and are always derived from session rows.
type Election struct {
	ElectionID  string
	Title       string
	Description string
	Status      string
	StartDate   time.Time
	EndDate     time.Time
	TotalVoters int
	CreatedAt   time.Time
}

type Position struct {
	PositionID    string
	ElectionID    string
	Title         string
	Description   string
	MinSelections int
	MaxSelections int
}

type Candidate struct {
	CandidateID string
	PositionID  string
	Name        string
	Party       string
	Bio         string
}

// ValidStatus reports whether s is one of the three election lifecycle states.
func ValidStatus(s string) bool {
	switch s {
	case StatusUpcoming, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// ValidTransition reports whether an election may move from one status to the
// next. The lifecycle only moves forward: upcoming to active to completed.
func ValidTransition(from string, to string) bool {
	switch from {
	case StatusUpcoming:
		return to == StatusActive
	case StatusActive:
		return to == StatusCompleted
	}
	return false
}
