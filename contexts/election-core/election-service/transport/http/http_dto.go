package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateElectionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	TotalVoters int    `json:"total_voters"`
}

type AddPositionRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	MinSelections int    `json:"min_selections"`
	MaxSelections int    `json:"max_selections"`
}

type AddCandidateRequest struct {
	Name  string `json:"name"`
	Party string `json:"party"`
	Bio   string `json:"bio"`
}

type TransitionStatusRequest struct {
	Status string `json:"status"`
}

type ElectionResponse struct {
	ElectionID        string  `json:"election_id"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	Status            string  `json:"status"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date"`
	TotalVoters       int     `json:"total_voters"`
	VotesCast         int     `json:"votes_cast"`
	ParticipationRate float64 `json:"participation_rate"`
	CreatedAt         string  `json:"created_at"`
}

type ElectionListResponse struct {
	Items []ElectionResponse `json:"items"`
}

type PositionResponse struct {
	PositionID    string              `json:"position_id"`
	ElectionID    string              `json:"election_id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	MinSelections int                 `json:"min_selections"`
	MaxSelections int                 `json:"max_selections"`
	Candidates    []CandidateResponse `json:"candidates,omitempty"`
}

type CandidateResponse struct {
	CandidateID string `json:"candidate_id"`
	PositionID  string `json:"position_id"`
	Name        string `json:"name"`
	Party       string `json:"party"`
	Bio         string `json:"bio"`
}

type ElectionDetailResponse struct {
	ElectionResponse
	Positions []PositionResponse `json:"positions"`
}
