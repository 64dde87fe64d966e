package queries

import (
	"context"
	"testing"
	"time"

	"securevote/contexts/election-core/ballot-service/adapters/memory"
	"securevote/contexts/election-core/ballot-service/domain/entities"
	"securevote/contexts/election-core/ballot-service/ports"
)

func seedResultsStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	store.SetElection(ports.ElectionProjection{
		ElectionID:  "election-1",
		Title:       "Student Union Election",
		Status:      "active",
		TotalVoters: 4,
	})
	store.SetPosition(ports.PositionProjection{
		PositionID:    "position-president",
		ElectionID:    "election-1",
		Title:         "President",
		MinSelections: 1,
		MaxSelections: 1,
	})
	store.SetPosition(ports.PositionProjection{
		PositionID:    "position-treasurer",
		ElectionID:    "election-1",
		Title:         "Treasurer",
		MinSelections: 0,
		MaxSelections: 1,
	})
	store.SetCandidate(ports.CandidateProjection{
		CandidateID: "candidate-a", PositionID: "position-president", Name: "Dana Abel", Party: "Unity",
	})
	store.SetCandidate(ports.CandidateProjection{
		CandidateID: "candidate-b", PositionID: "position-president", Name: "Efe Ojo", Party: "Progress",
	})
	store.SetCandidate(ports.CandidateProjection{
		CandidateID: "candidate-c", PositionID: "position-treasurer", Name: "Femi Ade", Party: "Unity",
	})

	castAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sessions := []struct {
		voter     string
		candidate string
	}{
		{"voter-1", "candidate-a"},
		{"voter-2", "candidate-a"},
		{"voter-3", "candidate-b"},
	}
	for i, cast := range sessions {
		session := entities.BallotSession{
			SessionID:  cast.voter + "-session",
			VoterID:    cast.voter,
			ElectionID: "election-1",
			CastAt:     castAt.Add(time.Duration(i) * time.Minute),
		}
		err := store.RecordSession(context.Background(), session, []entities.Ballot{{
			BallotID:    cast.voter + "-ballot",
			SessionID:   session.SessionID,
			VoterID:     cast.voter,
			ElectionID:  "election-1",
			PositionID:  "position-president",
			CandidateID: cast.candidate,
			CastAt:      session.CastAt,
		}}, ports.EventEnvelope{
			EventID:      cast.voter + "-event",
			EventType:    "ballot.recorded",
			OccurredAt:   session.CastAt,
			PartitionKey: "election-1",
		})
		if err != nil {
			t.Fatalf("seed session failed: %v", err)
		}
	}
	return store
}

func TestComputeResultsTalliesAndPercentages(t *testing.T) {
	store := seedResultsStore(t)
	uc := ResultsUseCase{Ballots: store, Elections: store, Clock: store}

	results, err := uc.ComputeResults(context.Background(), "election-1")
	if err != nil {
		t.Fatalf("compute results failed: %v", err)
	}
	if results.VotesCast != 3 {
		t.Fatalf("expected 3 sessions, got %d", results.VotesCast)
	}
	if results.ParticipationRate != 75.0 {
		t.Fatalf("expected participation 75.0, got %v", results.ParticipationRate)
	}
	if len(results.Positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(results.Positions))
	}

	president := results.Positions[0]
	if president.Title != "President" || president.TotalVotes != 3 {
		t.Fatalf("unexpected president row: %+v", president)
	}
	if len(president.Candidates) != 2 {
		t.Fatalf("expected 2 president candidates, got %d", len(president.Candidates))
	}
	// Sorted by votes descending.
	if president.Candidates[0].Name != "Dana Abel" || president.Candidates[0].Votes != 2 {
		t.Fatalf("unexpected leader: %+v", president.Candidates[0])
	}
	if president.Candidates[0].Percentage != 66.7 {
		t.Fatalf("expected 66.7, got %v", president.Candidates[0].Percentage)
	}
	if president.Candidates[1].Percentage != 33.3 {
		t.Fatalf("expected 33.3, got %v", president.Candidates[1].Percentage)
	}
}

func TestComputeResultsEmptyPositionReportsZero(t *testing.T) {
	store := seedResultsStore(t)
	uc := ResultsUseCase{Ballots: store, Elections: store, Clock: store}

	results, err := uc.ComputeResults(context.Background(), "election-1")
	if err != nil {
		t.Fatalf("compute results failed: %v", err)
	}
	treasurer := results.Positions[1]
	if treasurer.TotalVotes != 0 {
		t.Fatalf("expected no treasurer votes, got %d", treasurer.TotalVotes)
	}
	if len(treasurer.Candidates) != 1 {
		t.Fatalf("expected 1 treasurer candidate, got %d", len(treasurer.Candidates))
	}
	if treasurer.Candidates[0].Percentage != 0 {
		t.Fatalf("expected 0%% with no votes, got %v", treasurer.Candidates[0].Percentage)
	}
}

func TestComputeResultsZeroElectorate(t *testing.T) {
	store := memory.NewStore()
	store.SetElection(ports.ElectionProjection{
		ElectionID: "election-empty",
		Title:      "Empty",
		Status:     "active",
	})
	uc := ResultsUseCase{Ballots: store, Elections: store, Clock: store}

	results, err := uc.ComputeResults(context.Background(), "election-empty")
	if err != nil {
		t.Fatalf("compute results failed: %v", err)
	}
	if results.ParticipationRate != 0 {
		t.Fatalf("expected participation 0 for empty electorate, got %v", results.ParticipationRate)
	}
}

func TestHasVotedDerivedFromSessions(t *testing.T) {
	store := seedResultsStore(t)
	uc := ResultsUseCase{Ballots: store, Elections: store, Clock: store}

	voted, err := uc.HasVoted(context.Background(), "voter-1", "election-1")
	if err != nil {
		t.Fatalf("has voted failed: %v", err)
	}
	if !voted {
		t.Fatalf("expected voter-1 to have voted")
	}
	voted, err = uc.HasVoted(context.Background(), "voter-9", "election-1")
	if err != nil {
		t.Fatalf("has voted failed: %v", err)
	}
	if voted {
		t.Fatalf("expected voter-9 to not have voted")
	}
}
