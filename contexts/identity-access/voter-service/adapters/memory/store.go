package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"securevote/contexts/identity-access/voter-service/domain/entities"
	domainerrors "securevote/contexts/identity-access/voter-service/domain/errors"

	"github.com/google/uuid"
)

// Store is the in-memory account adapter backing local wiring and tests.
type Store struct {
	mu sync.RWMutex

	voters map[string]entities.Voter
	admins map[string]entities.Admin

	electionCount       int
	activeElectionCount int
	sessionCount        int
	sessionsByVoter     map[string]int
}

func NewStore() *Store {
	return &Store{
		voters:          make(map[string]entities.Voter),
		admins:          make(map[string]entities.Admin),
		sessionsByVoter: make(map[string]int),
	}
}

// SetElectionStats seeds the election-core counts normally read from the
// catalog and ballot tables.
func (s *Store) SetElectionStats(elections int, active int, sessions int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.electionCount = elections
	s.activeElectionCount = active
	s.sessionCount = sessions
}

func (s *Store) SetVoterSessions(voterID string, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionsByVoter[strings.TrimSpace(voterID)] = count
}

func (s *Store) CreateVoter(_ context.Context, voter entities.Voter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.voters {
		if strings.EqualFold(existing.Email, voter.Email) {
			return domainerrors.ErrEmailTaken
		}
	}
	s.voters[strings.TrimSpace(voter.VoterID)] = voter
	return nil
}

func (s *Store) GetVoter(_ context.Context, voterID string) (entities.Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	voter, ok := s.voters[strings.TrimSpace(voterID)]
	if !ok {
		return entities.Voter{}, domainerrors.ErrVoterNotFound
	}
	return voter, nil
}

func (s *Store) GetVoterByEmail(_ context.Context, email string) (entities.Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, voter := range s.voters {
		if strings.EqualFold(voter.Email, strings.TrimSpace(email)) {
			return voter, nil
		}
	}
	return entities.Voter{}, domainerrors.ErrVoterNotFound
}

func (s *Store) ListVoters(_ context.Context) ([]entities.Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Voter, 0, len(s.voters))
	for _, voter := range s.voters {
		items = append(items, voter)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].VoterID < items[j].VoterID
	})
	return items, nil
}

func (s *Store) CountVoters(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.voters), nil
}

func (s *Store) RecordVoterLogin(_ context.Context, voterID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	voter, ok := s.voters[strings.TrimSpace(voterID)]
	if !ok {
		return domainerrors.ErrVoterNotFound
	}
	voter.LastLoginAt = at
	s.voters[voter.VoterID] = voter
	return nil
}

func (s *Store) CreateAdmin(_ context.Context, admin entities.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.admins {
		if strings.EqualFold(existing.Username, admin.Username) {
			return domainerrors.ErrUsernameTaken
		}
	}
	s.admins[strings.TrimSpace(admin.AdminID)] = admin
	return nil
}

func (s *Store) GetAdminByUsername(_ context.Context, username string) (entities.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, admin := range s.admins {
		if strings.EqualFold(admin.Username, strings.TrimSpace(username)) {
			return admin, nil
		}
	}
	return entities.Admin{}, domainerrors.ErrAdminNotFound
}

func (s *Store) CountAdmins(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.admins), nil
}

func (s *Store) RecordAdminLogin(_ context.Context, adminID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	admin, ok := s.admins[strings.TrimSpace(adminID)]
	if !ok {
		return domainerrors.ErrAdminNotFound
	}
	admin.LastLoginAt = at
	s.admins[admin.AdminID] = admin
	return nil
}

func (s *Store) CountElections(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.electionCount, nil
}

func (s *Store) CountActiveElections(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeElectionCount, nil
}

func (s *Store) CountSessions(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionCount, nil
}

func (s *Store) CountSessionsByVoter(_ context.Context, voterID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionsByVoter[strings.TrimSpace(voterID)], nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
