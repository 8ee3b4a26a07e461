package config

import (
	"github.com/rs/zerolog"

	"usure/checking"
	"usure/explorer"
)

// Configures the order in which discovered states are expanded

// Default value is depth-first.
type OrderOption struct {
	Order explorer.Order
}

func (oo OrderOption) CheckOpt() {}

// Configures the maximum number of distinct states that are explored

// Default value is no limit.
type MaxStatesOption struct{ MaxStates int }

func (mso MaxStatesOption) CheckOpt() {}

// Configures the maximum number of transitions from the initial state to an explored state

// Default value is no limit.
type MaxDepthOption struct{ MaxDepth int }

func (mdo MaxDepthOption) CheckOpt() {}

// Configures the number of goroutines expanding states concurrently

// Default value is 1.
type WorkersOption struct{ N int }

func (wo WorkersOption) CheckOpt() {}

// Configures the checker to treat states without enabled transitions as unsafe

// Default value is to accept terminal states.
type DeadlockOption struct{}

func (do DeadlockOption) CheckOpt() {}

// Configures named invariants that must hold in every reachable state

// Can be applied multiple times to add more invariants.
// Default value is no invariants.
type InvariantOption[S any] struct {
	Invariants []checking.Invariant[S]
}

func (io InvariantOption[S]) CheckOpt() {}

// Configures the logger used to report progress

// Default value is a logger that discards everything.
type LoggerOption struct {
	Logger zerolog.Logger
}

func (lo LoggerOption) CheckOpt() {}
