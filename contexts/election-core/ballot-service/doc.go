// Package ballotservice implements vote casting inside the election-core
// context.
//
// The module owns the integrity-critical cast workflow (verification, slate
// validation, atomic session plus ballot persistence, one session per voter
// per election), live results aggregation, and ballot event production
// through an outbox-backed relay. Business rules live in the application and
// domain layers; storage, identity checks, and transport sit behind ports and
// adapters.
package ballotservice
