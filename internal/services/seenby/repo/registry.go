package repo

import (
	"strings"

	perr "seenby/internal/platform/errors"

	"seenby/internal/modkit/repokit"
)

// Strategy names the tracking implementation behind the Storage contract
type Strategy string

// The closed set of strategies. Adding one means a new repo file plus a row
// in the registry table below; nothing else changes
const (
	StrategySimpleCounter Strategy = "simple-counter"
	StrategySimpleHstore  Strategy = "simple-hstore"
	StrategyAssocTable    Strategy = "assoc-table"
	StrategyHLL           Strategy = "hll"
)

// Descriptor is everything the rest of the system needs to know about a
// strategy: how to bind its storage, what its answers mean, and what schema
// it needs on top of the base tables
type Descriptor struct {
	Strategy Strategy
	Binder   repokit.Binder[Storage]

	// TracksUsers reports whether Users returns per-user counts
	TracksUsers bool

	// DistinctCount reports whether Count estimates distinct viewers rather
	// than totalling recorded views
	DistinctCount bool

	// Schema is the DDL applied on top of the base schema
	Schema []string
}

var registry = map[Strategy]Descriptor{
	StrategySimpleCounter: {
		Strategy: StrategySimpleCounter,
		Binder:   NewCounterPG(),
		Schema:   counterSchema,
	},
	StrategySimpleHstore: {
		Strategy:    StrategySimpleHstore,
		Binder:      NewHstorePG(),
		TracksUsers: true,
		Schema:      hstoreSchema,
	},
	StrategyAssocTable: {
		Strategy:    StrategyAssocTable,
		Binder:      NewAssocPG(),
		TracksUsers: true,
		Schema:      assocSchema,
	},
	StrategyHLL: {
		Strategy:      StrategyHLL,
		Binder:        NewHLLPG(),
		TracksUsers:   true,
		DistinctCount: true,
		Schema:        hllSchema,
	},
}

// Strategies lists the known strategy names in a stable order
func Strategies() []Strategy {
	return []Strategy{StrategySimpleCounter, StrategySimpleHstore, StrategyAssocTable, StrategyHLL}
}

// Resolve maps a configured name to its Descriptor. An empty or unknown name
// is a deploy-time mistake and fails with a configuration error before any
// storage is touched
func Resolve(name string) (Descriptor, error) {
	n := Strategy(strings.TrimSpace(strings.ToLower(name)))
	if n == "" {
		return Descriptor{}, perr.Configf("tracking strategy not configured, want one of %v", Strategies())
	}
	d, ok := registry[n]
	if !ok {
		return Descriptor{}, perr.Configf("unknown tracking strategy %q, want one of %v", name, Strategies())
	}
	return d, nil
}
