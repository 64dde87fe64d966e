package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"securevote/contexts/election-core/ballot-service/domain/entities"
	domainerrors "securevote/contexts/election-core/ballot-service/domain/errors"
	"securevote/contexts/election-core/ballot-service/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory adapter backing local wiring and tests. RecordSession
// holds the write lock across the duplicate check and all inserts, session,
// ballots, and outbox event alike, matching the transactional guarantee of the
// postgres adapter.
type Store struct {
	mu sync.RWMutex

	sessions map[string]entities.BallotSession
	ballots  map[string]entities.Ballot
	outbox   map[string]outboxRecord

	elections  map[string]ports.ElectionProjection
	positions  map[string]ports.PositionProjection
	candidates map[string]ports.CandidateProjection
	voters     map[string]ports.VoterProjection
}

func NewStore() *Store {
	return &Store{
		sessions:   make(map[string]entities.BallotSession),
		ballots:    make(map[string]entities.Ballot),
		outbox:     make(map[string]outboxRecord),
		elections:  make(map[string]ports.ElectionProjection),
		positions:  make(map[string]ports.PositionProjection),
		candidates: make(map[string]ports.CandidateProjection),
		voters:     make(map[string]ports.VoterProjection),
	}
}

func (s *Store) SetElection(election ports.ElectionProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elections[strings.TrimSpace(election.ElectionID)] = election
}

func (s *Store) SetPosition(position ports.PositionProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[strings.TrimSpace(position.PositionID)] = position
}

func (s *Store) SetCandidate(candidate ports.CandidateProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[strings.TrimSpace(candidate.CandidateID)] = candidate
}

func (s *Store) SetVoter(voter ports.VoterProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voters[strings.TrimSpace(voter.VoterID)] = voter
}

func (s *Store) RecordSession(
	_ context.Context,
	session entities.BallotSession,
	ballots []entities.Ballot,
	event ports.EventEnvelope,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey(session.VoterID, session.ElectionID)
	if _, exists := s.sessions[key]; exists {
		return domainerrors.ErrAlreadyVoted
	}
	// Encode the event before mutating so a bad envelope aborts the whole
	// write, exactly as a failed outbox insert rolls back the transaction.
	record, err := outboxRecordFromEnvelope(event)
	if err != nil {
		return err
	}

	s.sessions[key] = session
	for _, ballot := range ballots {
		s.ballots[strings.TrimSpace(ballot.BallotID)] = ballot
	}
	s.outbox[record.message.OutboxID] = record
	return nil
}

func (s *Store) HasVoted(_ context.Context, voterID string, electionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.sessions[sessionKey(voterID, electionID)]
	return exists, nil
}

func (s *Store) ListBallotsByElection(_ context.Context, electionID string) ([]entities.Ballot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Ballot, 0)
	for _, ballot := range s.ballots {
		if ballot.ElectionID == strings.TrimSpace(electionID) {
			items = append(items, ballot)
		}
	}
	sortBallotsByCast(items)
	return items, nil
}

func (s *Store) ListBallotsByCandidate(_ context.Context, candidateID string) ([]entities.Ballot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Ballot, 0)
	for _, ballot := range s.ballots {
		if ballot.CandidateID == strings.TrimSpace(candidateID) {
			items = append(items, ballot)
		}
	}
	sortBallotsByCast(items)
	return items, nil
}

func (s *Store) CountSessionsByElection(_ context.Context, electionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, session := range s.sessions {
		if session.ElectionID == strings.TrimSpace(electionID) {
			count++
		}
	}
	return count, nil
}

func (s *Store) GetElection(_ context.Context, electionID string) (ports.ElectionProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return ports.ElectionProjection{}, domainerrors.ErrElectionNotFound
	}
	return item, nil
}

func (s *Store) ListPositions(_ context.Context, electionID string) ([]ports.PositionProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.PositionProjection, 0)
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

func (s *Store) ListCandidates(_ context.Context, electionID string) ([]ports.CandidateProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	positionIDs := make(map[string]bool)
	for _, position := range s.positions {
		if position.ElectionID == strings.TrimSpace(electionID) {
			positionIDs[position.PositionID] = true
		}
	}
	items := make([]ports.CandidateProjection, 0)
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

func (s *Store) GetVoter(_ context.Context, voterID string) (ports.VoterProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.voters[strings.TrimSpace(voterID)]
	if !ok {
		return ports.VoterProjection{}, domainerrors.ErrVoterNotFound
	}
	return item, nil
}

// AppendOutbox stages an event outside a cast session, used by relay wiring
// and tests that need outbox rows without ballots attached.
func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := outboxRecordFromEnvelope(envelope)
	if err != nil {
		return err
	}
	if existing, ok := s.outbox[record.message.OutboxID]; ok {
		if !bytes.Equal(existing.message.Payload, record.message.Payload) {
			return domainerrors.ErrStoreFailure
		}
		return nil
	}
	s.outbox[record.message.OutboxID] = record
	return nil
}

func outboxRecordFromEnvelope(envelope ports.EventEnvelope) (outboxRecord, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return outboxRecord{}, err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			CreatedAt:    createdAt,
		},
	}, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrStoreFailure
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func sessionKey(voterID string, electionID string) string {
	return strings.TrimSpace(voterID) + "|" + strings.TrimSpace(electionID)
}

func sortBallotsByCast(items []entities.Ballot) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CastAt.Equal(items[j].CastAt) {
			return items[i].BallotID < items[j].BallotID
		}
		return items[i].CastAt.Before(items[j].CastAt)
	})
}
