package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	ballotservice "securevote/contexts/election-core/ballot-service"
	balloterrors "securevote/contexts/election-core/ballot-service/domain/errors"
	ballothttp "securevote/contexts/election-core/ballot-service/transport/http"
	electionservice "securevote/contexts/election-core/election-service"
	electionerrors "securevote/contexts/election-core/election-service/domain/errors"
	electionhttp "securevote/contexts/election-core/election-service/transport/http"
	voterservice "securevote/contexts/identity-access/voter-service"
	votererrors "securevote/contexts/identity-access/voter-service/domain/errors"
	voterhttp "securevote/contexts/identity-access/voter-service/transport/http"
	"securevote/internal/platform/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "securevote/internal/platform/httpserver/docs"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	ballots   ballotservice.Module
	elections electionservice.Module
	voters    voterservice.Module
}

func New(
	ballots ballotservice.Module,
	elections electionservice.Module,
	voters voterservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		ballots:   ballots,
		elections: elections,
		voters:    voters,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the route table for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.Handle("GET /metrics", promhttp.Handler())

	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	s.mux.HandleFunc("POST /api/votes/cast", s.handleCastVote)
	s.mux.HandleFunc("GET /api/votes/results/{election_id}", s.handleElectionResults)
	s.mux.HandleFunc("GET /api/votes/status/{election_id}", s.handleVoteStatus)

	s.mux.HandleFunc("GET /api/elections", s.handleListElections)
	s.mux.HandleFunc("GET /api/elections/{election_id}", s.handleGetElection)

	s.mux.HandleFunc("POST /api/auth/register", s.handleRegisterVoter)
	s.mux.HandleFunc("POST /api/auth/login", s.handleLoginVoter)
	s.mux.HandleFunc("POST /api/admin/auth/register", s.handleRegisterAdmin)
	s.mux.HandleFunc("POST /api/admin/auth/login", s.handleLoginAdmin)

	s.mux.HandleFunc("GET /api/admin/dashboard/stats", s.requireAdmin(s.handleDashboardStats))
	s.mux.HandleFunc("GET /api/admin/users", s.requireAdmin(s.handleListVoters))
	s.mux.HandleFunc("POST /api/admin/elections", s.requireAdmin(s.handleCreateElection))
	s.mux.HandleFunc("POST /api/admin/elections/{election_id}/positions", s.requireAdmin(s.handleAddPosition))
	s.mux.HandleFunc("POST /api/admin/positions/{position_id}/candidates", s.requireAdmin(s.handleAddCandidate))
	s.mux.HandleFunc("PATCH /api/admin/elections/{election_id}/status", s.requireAdmin(s.handleTransitionStatus))
}

// requireAdmin rejects requests without a valid Bearer admin token before the
// wrapped handler runs.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			writeVoterError(w, r, http.StatusUnauthorized, "missing_token", "Authorization bearer token is required")
			return
		}
		claims, err := s.voters.Handler.VerifyAdminToken(token)
		if err != nil {
			writeVoterError(w, r, http.StatusUnauthorized, "invalid_token", "session token is invalid or expired")
			return
		}
		s.logger.Debug("admin request authorized",
			"event", "http_admin_authorized",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"admin_id", claims.AdminID,
			"role", claims.Role,
			"path", r.URL.Path,
		)
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	var req ballothttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBallotError(w, r, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ballots.Handler.CastVoteHandler(r.Context(), req)
	if err != nil {
		if errors.Is(err, balloterrors.ErrAlreadyVoted) {
			metrics.DuplicateVotes.Inc()
		}
		writeBallotDomainError(w, r, err)
		return
	}
	metrics.BallotsCast.Inc()
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleElectionResults(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("election_id")
	resp, err := s.ballots.Handler.ElectionResultsHandler(r.Context(), electionID)
	if err != nil {
		writeBallotDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleVoteStatus(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("election_id")
	voterID := r.URL.Query().Get("user_id")
	if strings.TrimSpace(voterID) == "" {
		voterID = r.Header.Get("X-User-Id")
	}
	if strings.TrimSpace(voterID) == "" {
		writeBallotError(w, r, http.StatusBadRequest, "missing_user", "user_id query parameter is required")
		return
	}
	resp, err := s.ballots.Handler.VoteStatusHandler(r.Context(), voterID, electionID)
	if err != nil {
		writeBallotDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleListElections(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ListElectionsHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleGetElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("election_id")
	resp, err := s.elections.Handler.GetElectionHandler(r.Context(), electionID)
	if err != nil {
		writeElectionDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleRegisterVoter(w http.ResponseWriter, r *http.Request) {
	var req voterhttp.RegisterVoterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVoterError(w, r, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voters.Handler.RegisterVoterHandler(r.Context(), req)
	if err != nil {
		writeVoterDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, resp)
}

func (s *Server) handleLoginVoter(w http.ResponseWriter, r *http.Request) {
	var req voterhttp.LoginVoterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVoterError(w, r, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voters.Handler.LoginVoterHandler(r.Context(), req)
	if err != nil {
		writeVoterDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleRegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var req voterhttp.RegisterAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVoterError(w, r, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voters.Handler.RegisterAdminHandler(r.Context(), req)
	if err != nil {
		writeVoterDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, resp)
}

func (s *Server) handleLoginAdmin(w http.ResponseWriter, r *http.Request) {
	var req voterhttp.LoginAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVoterError(w, r, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voters.Handler.LoginAdminHandler(r.Context(), req)
	if err != nil {
		writeVoterDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voters.Handler.DashboardStatsHandler(r.Context())
	if err != nil {
		writeVoterDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleListVoters(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voters.Handler.ListVotersHandler(r.Context())
	if err != nil {
		writeVoterDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.CreateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, r, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.CreateElectionHandler(r.Context(), req)
	if err != nil {
		writeElectionDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, resp)
}

func (s *Server) handleAddPosition(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("election_id")
	var req electionhttp.AddPositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, r, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.AddPositionHandler(r.Context(), electionID, req)
	if err != nil {
		writeElectionDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, resp)
}

func (s *Server) handleAddCandidate(w http.ResponseWriter, r *http.Request) {
	positionID := r.PathValue("position_id")
	var req electionhttp.AddCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, r, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.AddCandidateHandler(r.Context(), positionID, req)
	if err != nil {
		writeElectionDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, resp)
}

func (s *Server) handleTransitionStatus(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("election_id")
	var req electionhttp.TransitionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, r, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.TransitionStatusHandler(r.Context(), electionID, req)
	if err != nil {
		writeElectionDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func writeBallotDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, balloterrors.ErrAlreadyVoted):
		writeBallotError(w, r, http.StatusBadRequest, "already_voted", err.Error())
	case errors.Is(err, balloterrors.ErrInvalidBallotInput),
		errors.Is(err, balloterrors.ErrIncompleteSelection),
		errors.Is(err, balloterrors.ErrInvalidReference):
		writeBallotError(w, r, http.StatusBadRequest, "invalid_ballot", err.Error())
	case errors.Is(err, balloterrors.ErrElectionNotFound),
		errors.Is(err, balloterrors.ErrVoterNotFound):
		writeBallotError(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, balloterrors.ErrElectionNotActive):
		writeBallotError(w, r, http.StatusConflict, "election_not_active", err.Error())
	case errors.Is(err, balloterrors.ErrVerificationFailed):
		writeBallotError(w, r, http.StatusForbidden, "verification_failed", err.Error())
	default:
		writeBallotError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeElectionDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, electionerrors.ErrInvalidElectionInput),
		errors.Is(err, electionerrors.ErrInvalidStatus):
		writeElectionError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, electionerrors.ErrElectionNotFound),
		errors.Is(err, electionerrors.ErrPositionNotFound):
		writeElectionError(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, electionerrors.ErrDuplicateElection),
		errors.Is(err, electionerrors.ErrInvalidTransition):
		writeElectionError(w, r, http.StatusConflict, "conflict", err.Error())
	default:
		writeElectionError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVoterDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, votererrors.ErrInvalidAccountInput):
		writeVoterError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, votererrors.ErrEmailTaken),
		errors.Is(err, votererrors.ErrUsernameTaken):
		writeVoterError(w, r, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, votererrors.ErrInvalidCredentials),
		errors.Is(err, votererrors.ErrInvalidToken):
		writeVoterError(w, r, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, votererrors.ErrVoterNotFound),
		errors.Is(err, votererrors.ErrAdminNotFound):
		writeVoterError(w, r, http.StatusNotFound, "not_found", err.Error())
	default:
		writeVoterError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeBallotError(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	writeJSON(w, r, status, ballothttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeElectionError(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	writeJSON(w, r, status, electionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeVoterError(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	writeJSON(w, r, status, voterhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	metrics.Request.WithLabelValues(routeLabel(r), strconv.Itoa(status)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// routeLabel collapses the path to its leading segments so path parameters
// never explode the metric cardinality.
func routeLabel(r *http.Request) string {
	if r == nil {
		return "unknown"
	}
	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(segments) > 3 {
		segments = segments[:3]
	}
	return r.Method + " /" + strings.Join(segments, "/")
}
