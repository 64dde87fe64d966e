package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"securevote/contexts/election-core/election-service/domain/entities"
	domainerrors "securevote/contexts/election-core/election-service/domain/errors"

	"github.com/google/uuid"
)

// Store is the in-memory catalog adapter backing local wiring and tests.
type Store struct {
	mu sync.RWMutex

	elections  map[string]entities.Election
	positions  map[string]entities.Position
	candidates map[string]entities.Candidate
	sessions   map[string]int
}

func NewStore() *Store {
	return &Store{
		elections:  make(map[string]entities.Election),
		positions:  make(map[string]entities.Position),
		candidates: make(map[string]entities.Candidate),
		sessions:   make(map[string]int),
	}
}

// SetSessionCount seeds the derived votes-cast number normally read from the
// ballot side.
func (s *Store) SetSessionCount(electionID string, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[strings.TrimSpace(electionID)] = count
}

func (s *Store) CreateElection(_ context.Context, election entities.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(election.ElectionID)
	if _, exists := s.elections[id]; exists {
		return domainerrors.ErrDuplicateElection
	}
	s.elections[id] = election
	return nil
}

func (s *Store) GetElection(_ context.Context, electionID string) (entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	election, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	return election, nil
}

func (s *Store) ListElections(_ context.Context) ([]entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Election, 0, len(s.elections))
	for _, election := range s.elections {
		items = append(items, election)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ElectionID < items[j].ElectionID
	})
	return items, nil
}

func (s *Store) UpdateElectionStatus(_ context.Context, electionID string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(electionID)
	election, ok := s.elections[id]
	if !ok {
		return domainerrors.ErrElectionNotFound
	}
	election.Status = status
	s.elections[id] = election
	return nil
}

func (s *Store) CreatePosition(_ context.Context, position entities.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[strings.TrimSpace(position.PositionID)] = position
	return nil
}

func (s *Store) GetPosition(_ context.Context, positionID string) (entities.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	position, ok := s.positions[strings.TrimSpace(positionID)]
	if !ok {
		return entities.Position{}, domainerrors.ErrPositionNotFound
	}
	return position, nil
}

func (s *Store) ListPositionsByElection(_ context.Context, electionID string) ([]entities.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Position, 0)
	for _, position := range s.positions {
		if position.ElectionID == strings.TrimSpace(electionID) {
			items = append(items, position)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].PositionID < items[j].PositionID
	})
	return items, nil
}

func (s *Store) CreateCandidate(_ context.Context, candidate entities.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[strings.TrimSpace(candidate.CandidateID)] = candidate
	return nil
}

func (s *Store) ListCandidatesByElection(_ context.Context, electionID string) ([]entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	positionIDs := make(map[string]bool)
	for _, position := range s.positions {
		if position.ElectionID == strings.TrimSpace(electionID) {
			positionIDs[position.PositionID] = true
		}
	}
	items := make([]entities.Candidate, 0)
	for _, candidate := range s.candidates {
		if positionIDs[candidate.PositionID] {
			items = append(items, candidate)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CandidateID < items[j].CandidateID
	})
	return items, nil
}

func (s *Store) CountSessionsByElection(_ context.Context, electionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[strings.TrimSpace(electionID)], nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
