// Package electionservice implements election catalog management inside the
// election-core context.
//
// The module owns election, position, and candidate administration, the
// forward-only election lifecycle, and the public catalog read model with
// derived turnout numbers. The ballot side consumes the catalog tables as
// read-only projections.
package electionservice
