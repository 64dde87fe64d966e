package commands

import (
	"context"
	"errors"
	"sync"
	"testing"

	"securevote/contexts/election-core/ballot-service/adapters/memory"
	"securevote/contexts/election-core/ballot-service/adapters/verifier"
	"securevote/contexts/election-core/ballot-service/domain/entities"
	domainerrors "securevote/contexts/election-core/ballot-service/domain/errors"
	"securevote/contexts/election-core/ballot-service/ports"
)

func newSeededStore() *memory.Store {
	store := memory.NewStore()
	store.SetElection(ports.ElectionProjection{
		ElectionID:  "election-1",
		Title:       "Student Union Election",
		Status:      "active",
		TotalVoters: 10,
	})
	store.SetPosition(ports.PositionProjection{
		PositionID:    "position-president",
		ElectionID:    "election-1",
		Title:         "President",
		MinSelections: 1,
		MaxSelections: 1,
	})
	store.SetPosition(ports.PositionProjection{
		PositionID:    "position-senate",
		ElectionID:    "election-1",
		Title:         "Senate",
		MinSelections: 1,
		MaxSelections: 2,
	})
	store.SetCandidate(ports.CandidateProjection{
		CandidateID: "candidate-a",
		PositionID:  "position-president",
		Name:        "Dana Abel",
		Party:       "Unity",
	})
	store.SetCandidate(ports.CandidateProjection{
		CandidateID: "candidate-b",
		PositionID:  "position-president",
		Name:        "Efe Ojo",
		Party:       "Progress",
	})
	store.SetCandidate(ports.CandidateProjection{
		CandidateID: "candidate-c",
		PositionID:  "position-senate",
		Name:        "Femi Ade",
		Party:       "Unity",
	})
	store.SetCandidate(ports.CandidateProjection{
		CandidateID: "candidate-d",
		PositionID:  "position-senate",
		Name:        "Gozie Obi",
		Party:       "Progress",
	})
	store.SetVoter(ports.VoterProjection{VoterID: "voter-1", Name: "Ada"})
	store.SetVoter(ports.VoterProjection{VoterID: "voter-2", Name: "Ben"})
	return store
}

func newUseCase(store *memory.Store) BallotUseCase {
	return BallotUseCase{
		Ballots:   store,
		Elections: store,
		Voters:    store,
		Clock:     store,
		IDGen:     store,
	}
}

func fullSlate() []entities.Selection {
	return []entities.Selection{
		{PositionID: "position-president", CandidateID: "candidate-a"},
		{PositionID: "position-senate", CandidateID: "candidate-c"},
		{PositionID: "position-senate", CandidateID: "candidate-d"},
	}
}

func TestCastVoteRecordsSessionAndBallots(t *testing.T) {
	store := newSeededStore()
	uc := newUseCase(store)

	result, err := uc.CastVote(context.Background(), CastVoteCommand{
		VoterID:    "voter-1",
		ElectionID: "election-1",
		Selections: fullSlate(),
	})
	if err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}
	if result.SessionID == "" {
		t.Fatalf("expected a session id")
	}
	if result.BallotCount != 3 {
		t.Fatalf("expected 3 ballots, got %d", result.BallotCount)
	}

	voted, err := store.HasVoted(context.Background(), "voter-1", "election-1")
	if err != nil {
		t.Fatalf("has voted failed: %v", err)
	}
	if !voted {
		t.Fatalf("expected voter to be marked as voted")
	}

	ballots, err := store.ListBallotsByElection(context.Background(), "election-1")
	if err != nil {
		t.Fatalf("list ballots failed: %v", err)
	}
	if len(ballots) != 3 {
		t.Fatalf("expected 3 ballot rows, got %d", len(ballots))
	}
	for _, ballot := range ballots {
		if ballot.SessionID != result.SessionID {
			t.Fatalf("ballot %s not linked to session %s", ballot.BallotID, result.SessionID)
		}
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 outbox row, got %d", len(pending))
	}
	if pending[0].EventType != "ballot.recorded" {
		t.Fatalf("unexpected event type %s", pending[0].EventType)
	}
}

func TestCastVoteRejectsSecondAttempt(t *testing.T) {
	store := newSeededStore()
	uc := newUseCase(store)

	if _, err := uc.CastVote(context.Background(), CastVoteCommand{
		VoterID:    "voter-1",
		ElectionID: "election-1",
		Selections: fullSlate(),
	}); err != nil {
		t.Fatalf("first cast failed: %v", err)
	}

	// A retry with different candidates must still be rejected.
	_, err := uc.CastVote(context.Background(), CastVoteCommand{
		VoterID:    "voter-1",
		ElectionID: "election-1",
		Selections: []entities.Selection{
			{PositionID: "position-president", CandidateID: "candidate-b"},
			{PositionID: "position-senate", CandidateID: "candidate-c"},
		},
	})
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}

	ballots, err := store.ListBallotsByElection(context.Background(), "election-1")
	if err != nil {
		t.Fatalf("list ballots failed: %v", err)
	}
	if len(ballots) != 3 {
		t.Fatalf("expected first session's 3 ballots only, got %d", len(ballots))
	}

	// The rejected retry must not stage an event either.
	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 outbox row after rejected retry, got %d", len(pending))
	}
}

func TestCastVoteConcurrentAttemptsSingleWinner(t *testing.T) {
	store := newSeededStore()
	uc := newUseCase(store)

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.CastVote(context.Background(), CastVoteCommand{
				VoterID:    "voter-1",
				ElectionID: "election-1",
				Selections: fullSlate(),
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domainerrors.ErrAlreadyVoted):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one successful cast, got %d", successes)
	}

	ballots, err := store.ListBallotsByElection(context.Background(), "election-1")
	if err != nil {
		t.Fatalf("list ballots failed: %v", err)
	}
	if len(ballots) != 3 {
		t.Fatalf("expected 3 ballots after concurrent attempts, got %d", len(ballots))
	}
}

// failingBallotStore simulates a store where the atomic write cannot commit.
type failingBallotStore struct {
	*memory.Store
}

func (f failingBallotStore) RecordSession(
	_ context.Context,
	_ entities.BallotSession,
	_ []entities.Ballot,
	_ ports.EventEnvelope,
) error {
	return domainerrors.ErrStoreFailure
}

func TestCastVoteFailedWriteLeavesNoState(t *testing.T) {
	store := newSeededStore()
	uc := newUseCase(store)
	uc.Ballots = failingBallotStore{Store: store}

	_, err := uc.CastVote(context.Background(), CastVoteCommand{
		VoterID:    "voter-1",
		ElectionID: "election-1",
		Selections: fullSlate(),
	})
	if !errors.Is(err, domainerrors.ErrStoreFailure) {
		t.Fatalf("expected ErrStoreFailure, got %v", err)
	}

	// A caller who saw an error must not have a counted vote or a staged event.
	voted, err := store.HasVoted(context.Background(), "voter-1", "election-1")
	if err != nil {
		t.Fatalf("has voted failed: %v", err)
	}
	if voted {
		t.Fatalf("failed write must not leave a session behind")
	}
	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("failed write must not leave outbox rows, got %d", len(pending))
	}
}

func TestCastVoteRejectsInactiveElection(t *testing.T) {
	store := newSeededStore()
	store.SetElection(ports.ElectionProjection{
		ElectionID:  "election-1",
		Title:       "Student Union Election",
		Status:      "completed",
		TotalVoters: 10,
	})
	uc := newUseCase(store)

	_, err := uc.CastVote(context.Background(), CastVoteCommand{
		VoterID:    "voter-1",
		ElectionID: "election-1",
		Selections: fullSlate(),
	})
	if !errors.Is(err, domainerrors.ErrElectionNotActive) {
		t.Fatalf("expected ErrElectionNotActive, got %v", err)
	}
}

func TestCastVoteRejectsInvalidSelections(t *testing.T) {
	store := newSeededStore()
	uc := newUseCase(store)

	cases := []struct {
		name       string
		selections []entities.Selection
		want       error
	}{
		{
			name:       "empty selections",
			selections: nil,
			want:       domainerrors.ErrInvalidBallotInput,
		},
		{
			name: "unknown candidate",
			selections: []entities.Selection{
				{PositionID: "position-president", CandidateID: "candidate-x"},
				{PositionID: "position-senate", CandidateID: "candidate-c"},
			},
			want: domainerrors.ErrInvalidReference,
		},
		{
			name: "candidate from another position",
			selections: []entities.Selection{
				{PositionID: "position-president", CandidateID: "candidate-c"},
				{PositionID: "position-senate", CandidateID: "candidate-d"},
			},
			want: domainerrors.ErrInvalidReference,
		},
		{
			name: "duplicate selection pair",
			selections: []entities.Selection{
				{PositionID: "position-president", CandidateID: "candidate-a"},
				{PositionID: "position-senate", CandidateID: "candidate-c"},
				{PositionID: "position-senate", CandidateID: "candidate-c"},
			},
			want: domainerrors.ErrInvalidReference,
		},
		{
			name: "missing position selection",
			selections: []entities.Selection{
				{PositionID: "position-president", CandidateID: "candidate-a"},
			},
			want: domainerrors.ErrIncompleteSelection,
		},
		{
			name: "too many selections for position",
			selections: []entities.Selection{
				{PositionID: "position-president", CandidateID: "candidate-a"},
				{PositionID: "position-president", CandidateID: "candidate-b"},
				{PositionID: "position-senate", CandidateID: "candidate-c"},
			},
			want: domainerrors.ErrIncompleteSelection,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CastVote(context.Background(), CastVoteCommand{
				VoterID:    "voter-1",
				ElectionID: "election-1",
				Selections: tc.selections,
			})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if voted, _ := store.HasVoted(context.Background(), "voter-1", "election-1"); voted {
		t.Fatalf("no session should be recorded after failed validations")
	}
}

func TestCastVoteRejectsUnknownVoterAndElection(t *testing.T) {
	store := newSeededStore()
	uc := newUseCase(store)

	_, err := uc.CastVote(context.Background(), CastVoteCommand{
		VoterID:    "ghost",
		ElectionID: "election-1",
		Selections: fullSlate(),
	})
	if !errors.Is(err, domainerrors.ErrVoterNotFound) {
		t.Fatalf("expected ErrVoterNotFound, got %v", err)
	}

	_, err = uc.CastVote(context.Background(), CastVoteCommand{
		VoterID:    "voter-1",
		ElectionID: "election-missing",
		Selections: fullSlate(),
	})
	if !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected ErrElectionNotFound, got %v", err)
	}
}

func TestCastVoteHonorsIdentityVerifier(t *testing.T) {
	store := newSeededStore()
	uc := newUseCase(store)
	gate := verifier.NewStatic()
	gate.Deny("voter-1")
	uc.Verifier = gate

	_, err := uc.CastVote(context.Background(), CastVoteCommand{
		VoterID:    "voter-1",
		ElectionID: "election-1",
		Selections: fullSlate(),
	})
	if !errors.Is(err, domainerrors.ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}

	gate.Allow("voter-1")
	if _, err := uc.CastVote(context.Background(), CastVoteCommand{
		VoterID:    "voter-1",
		ElectionID: "election-1",
		Selections: fullSlate(),
	}); err != nil {
		t.Fatalf("cast after allow failed: %v", err)
	}
}
