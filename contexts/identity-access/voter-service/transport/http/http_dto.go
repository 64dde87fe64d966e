package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterVoterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginVoterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VoterResponse struct {
	VoterID     string `json:"voter_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	CreatedAt   string `json:"created_at"`
	LastLoginAt string `json:"last_login_at,omitempty"`
}

type RegisterAdminRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AdminResponse struct {
	AdminID  string `json:"admin_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type AdminSessionResponse struct {
	Token string        `json:"token"`
	Admin AdminResponse `json:"admin"`
}

type DashboardStatsResponse struct {
	TotalVoters     int `json:"total_voters"`
	TotalElections  int `json:"total_elections"`
	ActiveElections int `json:"active_elections"`
	VotesCast       int `json:"votes_cast"`
}

type VoterOverviewItem struct {
	VoterID        string `json:"voter_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ElectionsVoted int    `json:"elections_voted"`
	CreatedAt      string `json:"created_at"`
	LastLoginAt    string `json:"last_login_at,omitempty"`
}

type VoterListResponse struct {
	Items []VoterOverviewItem `json:"items"`
}
