package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	ballotservice "securevote/contexts/election-core/ballot-service"
	ballotports "securevote/contexts/election-core/ballot-service/ports"
	electionservice "securevote/contexts/election-core/election-service"
	voterservice "securevote/contexts/identity-access/voter-service"
)

func newTestServer() *Server {
	ballots := ballotservice.NewInMemoryModule(nil, nil)
	elections := electionservice.NewInMemoryModule(nil)
	voters := voterservice.NewInMemoryModule("test-secret", nil)

	ballots.Store.SetElection(ballotports.ElectionProjection{
		ElectionID:  "election-1",
		Title:       "Student Union Election",
		Status:      "active",
		TotalVoters: 10,
	})
	ballots.Store.SetPosition(ballotports.PositionProjection{
		PositionID:    "position-1",
		ElectionID:    "election-1",
		Title:         "President",
		MinSelections: 1,
		MaxSelections: 1,
	})
	ballots.Store.SetCandidate(ballotports.CandidateProjection{
		CandidateID: "candidate-1",
		PositionID:  "position-1",
		Name:        "Dana Abel",
		Party:       "Unity",
	})
	ballots.Store.SetCandidate(ballotports.CandidateProjection{
		CandidateID: "candidate-2",
		PositionID:  "position-1",
		Name:        "Efe Ojo",
		Party:       "Progress",
	})
	ballots.Store.SetVoter(ballotports.VoterProjection{VoterID: "voter-1", Name: "Ada"})

	return New(ballots, elections, voters, nil, ":0")
}

func postJSON(t *testing.T, server *Server, path string, payload string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestCastVoteThenDuplicateRejected(t *testing.T) {
	server := newTestServer()
	body := `{"userId":"voter-1","electionId":"election-1","votes":[{"positionId":"position-1","candidateId":"candidate-1"}]}`

	first := postJSON(t, server, "/api/votes/cast", body)
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200 on first cast, got %d body=%s", first.Code, first.Body.String())
	}
	var castResp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(first.Body.Bytes(), &castResp); err != nil {
		t.Fatalf("decode cast body failed: %v", err)
	}
	if !castResp.Success || castResp.Message == "" {
		t.Fatalf("expected success wrapper on cast response, got %s", first.Body.String())
	}

	second := postJSON(t, server, "/api/votes/cast", body)
	if second.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on duplicate cast, got %d body=%s", second.Code, second.Body.String())
	}
	var errResp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(second.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error body failed: %v", err)
	}
	if errResp.Code != "already_voted" {
		t.Fatalf("expected already_voted code, got %s", errResp.Code)
	}
}

func TestCastVoteRejectsMalformedBody(t *testing.T) {
	server := newTestServer()
	rr := postJSON(t, server, "/api/votes/cast", `{"userId":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", rr.Code)
	}
}

func TestElectionResultsEndpoint(t *testing.T) {
	server := newTestServer()
	cast := postJSON(t, server, "/api/votes/cast",
		`{"userId":"voter-1","electionId":"election-1","votes":[{"positionId":"position-1","candidateId":"candidate-1"}]}`)
	if cast.Code != http.StatusOK {
		t.Fatalf("cast failed: %d %s", cast.Code, cast.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/votes/results/election-1", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Success           bool    `json:"success"`
		VotesCast         int     `json:"votes_cast"`
		ParticipationRate float64 `json:"participation_rate"`
		Results           []struct {
			CandidateName string  `json:"candidate_name"`
			VoteCount     int     `json:"vote_count"`
			Percentage    float64 `json:"percentage"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode results failed: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success wrapper on results response")
	}
	if resp.VotesCast != 1 || resp.ParticipationRate != 10.0 {
		t.Fatalf("unexpected turnout: %+v", resp)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 result rows, got %d", len(resp.Results))
	}
	if resp.Results[0].CandidateName != "Dana Abel" || resp.Results[0].VoteCount != 1 || resp.Results[0].Percentage != 100.0 {
		t.Fatalf("unexpected leading row: %+v", resp.Results[0])
	}
}

func TestVoteStatusRequiresUser(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/votes/status/election-1", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without user, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/votes/status/election-1?user_id=voter-1", nil)
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAdminRoutesRequireValidToken(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard/stats", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", rr.Code)
	}

	register := postJSON(t, server, "/api/admin/auth/register",
		`{"username":"superadmin","email":"root@securevote.local","password":"superadmin123","role":"super_admin"}`)
	if register.Code != http.StatusCreated {
		t.Fatalf("admin register failed: %d %s", register.Code, register.Body.String())
	}
	login := postJSON(t, server, "/api/admin/auth/login",
		`{"username":"superadmin","password":"superadmin123"}`)
	if login.Code != http.StatusOK {
		t.Fatalf("admin login failed: %d %s", login.Code, login.Body.String())
	}
	var session struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(login.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode login failed: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected a token")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/dashboard/stats", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAdminElectionManagementFlow(t *testing.T) {
	server := newTestServer()

	register := postJSON(t, server, "/api/admin/auth/register",
		`{"username":"ops","email":"ops@securevote.local","password":"password1"}`)
	if register.Code != http.StatusCreated {
		t.Fatalf("admin register failed: %d %s", register.Code, register.Body.String())
	}
	login := postJSON(t, server, "/api/admin/auth/login", `{"username":"ops","password":"password1"}`)
	var session struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(login.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode login failed: %v", err)
	}

	adminPost := func(path string, payload string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(payload)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+session.Token)
		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)
		return rr
	}

	created := adminPost("/api/admin/elections",
		`{"title":"Faculty Election","description":"Board seats","total_voters":50}`)
	if created.Code != http.StatusCreated {
		t.Fatalf("create election failed: %d %s", created.Code, created.Body.String())
	}
	var election struct {
		ElectionID string `json:"election_id"`
		Status     string `json:"status"`
	}
	if err := json.Unmarshal(created.Body.Bytes(), &election); err != nil {
		t.Fatalf("decode election failed: %v", err)
	}
	if election.Status != "upcoming" {
		t.Fatalf("expected upcoming, got %s", election.Status)
	}

	position := adminPost("/api/admin/elections/"+election.ElectionID+"/positions", `{"title":"Chair"}`)
	if position.Code != http.StatusCreated {
		t.Fatalf("add position failed: %d %s", position.Code, position.Body.String())
	}
	var positionResp struct {
		PositionID string `json:"position_id"`
	}
	if err := json.Unmarshal(position.Body.Bytes(), &positionResp); err != nil {
		t.Fatalf("decode position failed: %v", err)
	}

	candidate := adminPost("/api/admin/positions/"+positionResp.PositionID+"/candidates",
		`{"name":"Dana Abel","party":"Unity"}`)
	if candidate.Code != http.StatusCreated {
		t.Fatalf("add candidate failed: %d %s", candidate.Code, candidate.Body.String())
	}

	activateReq := httptest.NewRequest(http.MethodPatch,
		"/api/admin/elections/"+election.ElectionID+"/status",
		bytes.NewReader([]byte(`{"status":"active"}`)))
	activateReq.Header.Set("Content-Type", "application/json")
	activateReq.Header.Set("Authorization", "Bearer "+session.Token)
	activateRR := httptest.NewRecorder()
	server.mux.ServeHTTP(activateRR, activateReq)
	if activateRR.Code != http.StatusOK {
		t.Fatalf("activate failed: %d %s", activateRR.Code, activateRR.Body.String())
	}

	listReq := httptest.NewRequest(http.MethodGet, "/api/elections", nil)
	listRR := httptest.NewRecorder()
	server.mux.ServeHTTP(listRR, listReq)
	if listRR.Code != http.StatusOK {
		t.Fatalf("list elections failed: %d", listRR.Code)
	}
	var list struct {
		Items []struct {
			Status string `json:"status"`
		} `json:"items"`
	}
	if err := json.Unmarshal(listRR.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list failed: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].Status != "active" {
		t.Fatalf("unexpected election list: %+v", list)
	}
}

func TestVoterRegistrationAndLoginEndpoints(t *testing.T) {
	server := newTestServer()

	register := postJSON(t, server, "/api/auth/register",
		`{"name":"Ada Nwosu","email":"ada@example.com","password":"password1"}`)
	if register.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", register.Code, register.Body.String())
	}

	login := postJSON(t, server, "/api/auth/login", `{"email":"ada@example.com","password":"password1"}`)
	if login.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", login.Code, login.Body.String())
	}

	bad := postJSON(t, server, "/api/auth/login", `{"email":"ada@example.com","password":"nope"}`)
	if bad.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", bad.Code)
	}
}
