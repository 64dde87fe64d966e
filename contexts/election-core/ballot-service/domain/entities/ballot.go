package entities

import "time"

// Ballot is one persisted record of a voter's choice for one position within
// one election. Ballots are append-only; they are never updated or deleted in
// normal operation.
type Ballot struct {
	BallotID    string
	SessionID   string
	VoterID     string
	ElectionID  string
	PositionID  string
	CandidateID string
	CastAt      time.Time
}

// BallotSession records the act of one voter submitting selections for all
// positions of one election in a single cast call. The store enforces at most
// one session per (voter, election).
type BallotSession struct {
	SessionID  string
	VoterID    string
	ElectionID string
	CastAt     time.Time
}

type Selection struct {
	PositionID  string
	CandidateID string
}

type CandidateResult struct {
	CandidateID string
	Name        string
	Party       string
	Votes       int
	Percentage  float64
}

type PositionResult struct {
	PositionID string
	Title      string
	TotalVotes int
	Candidates []CandidateResult
}

type ElectionResults struct {
	ElectionID        string
	VotesCast         int
	TotalVoters       int
	ParticipationRate float64
	Positions         []PositionResult
	ComputedAt        time.Time
}
