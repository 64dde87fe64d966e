// Package verifier provides the identity verification adapter consulted
// before a ballot session is recorded.
package verifier

import (
	"context"
	"strings"
	"sync"
)

// Static approves every voter except those explicitly denied. It stands in
// for an external eligibility check and gives operators a kill switch per
// voter without touching ballot data.
type Static struct {
	mu     sync.RWMutex
	denied map[string]bool
}

func NewStatic() *Static {
	return &Static{denied: make(map[string]bool)}
}

func (v *Static) Deny(voterID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.denied[strings.TrimSpace(voterID)] = true
}

func (v *Static) Allow(voterID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.denied, strings.TrimSpace(voterID))
}

func (v *Static) Verify(_ context.Context, voterID string) (bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return !v.denied[strings.TrimSpace(voterID)], nil
}
