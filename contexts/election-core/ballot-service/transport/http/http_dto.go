package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CastVoteRequest mirrors the browser client payload, which sends camelCase
// keys unlike the rest of the API surface.
type CastVoteRequest struct {
	UserID     string          `json:"userId"`
	ElectionID string          `json:"electionId"`
	Votes      []VoteSelection `json:"votes"`
}

type VoteSelection struct {
	PositionID  string `json:"positionId"`
	CandidateID string `json:"candidateId"`
}

// CastVoteResponse keeps the success wrapper the browser client checks on
// every vote submission.
type CastVoteResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	SessionID   string `json:"session_id"`
	ElectionID  string `json:"election_id"`
	BallotCount int    `json:"ballot_count"`
	CastAt      string `json:"cast_at"`
}

type ResultRow struct {
	Position       string  `json:"position"`
	CandidateName  string  `json:"candidate_name"`
	CandidateParty string  `json:"candidate_party"`
	VoteCount      int     `json:"vote_count"`
	Percentage     float64 `json:"percentage"`
}

type ResultsResponse struct {
	Success           bool        `json:"success"`
	ElectionID        string      `json:"election_id"`
	VotesCast         int         `json:"votes_cast"`
	TotalVoters       int         `json:"total_voters"`
	ParticipationRate float64     `json:"participation_rate"`
	ComputedAt        string      `json:"computed_at"`
	Results           []ResultRow `json:"results"`
}

type VoteStatusResponse struct {
	ElectionID string `json:"election_id"`
	UserID     string `json:"user_id"`
	HasVoted   bool   `json:"has_voted"`
}
