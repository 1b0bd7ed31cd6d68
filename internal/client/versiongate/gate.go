// Package versiongate enforces the server-declared minimum and recommended
// client versions. A client below the minimum is blocked until updated; one
// below the recommended release only gets a dismissible hint. A forced
// update always suppresses the recommendation.
package versiongate

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/carblock/internal/client/api"
	"github.com/dmitrijs2005/carblock/internal/logging"
	"github.com/dmitrijs2005/carblock/internal/versionx"
)

// CheckInterval is how often the gate re-fetches server info while running.
const CheckInterval = 5 * time.Minute

type State int

const (
	// StateOK means the running version satisfies both thresholds.
	StateOK State = iota
	// StateRecommended means a newer release exists; usage is allowed.
	StateRecommended
	// StateForced means the running version is below the minimum; all
	// further use must be blocked until the client updates.
	StateForced
)

func (s State) String() string {
	switch s {
	case StateRecommended:
		return "update recommended"
	case StateForced:
		return "update required"
	default:
		return "ok"
	}
}

// InfoFetcher is the one server call the gate needs.
type InfoFetcher interface {
	ServerInfo(ctx context.Context) (*api.ServerInfo, error)
}

type Gate struct {
	fetcher InfoFetcher
	version string
	logger  logging.Logger

	mu    sync.Mutex
	state State
	info  *api.ServerInfo
}

func New(fetcher InfoFetcher, clientVersion string, logger logging.Logger) *Gate {
	return &Gate{fetcher: fetcher, version: clientVersion, logger: logger}
}

// Check fetches server info and recomputes the state. A fetch failure keeps
// the previous state: an unreachable server must not lock the user out.
func (g *Gate) Check(ctx context.Context) (State, error) {
	info, err := g.fetcher.ServerInfo(ctx)
	if err != nil {
		g.logger.Warn(ctx, "version check failed", "error", err)
		return g.State(), err
	}

	state := Evaluate(g.version, info)

	g.mu.Lock()
	g.state = state
	g.info = info
	g.mu.Unlock()

	if state != StateOK {
		g.logger.Info(ctx, "version gate", "state", state.String(),
			"running", g.version, "min", info.MinClientVersion, "release", info.ReleaseClientVersion)
	}
	return state, nil
}

// Evaluate applies the gate rule to a fetched server info.
func Evaluate(running string, info *api.ServerInfo) State {
	if versionx.Less(running, info.MinClientVersion) {
		return StateForced
	}
	if versionx.Less(running, info.ReleaseClientVersion) {
		return StateRecommended
	}
	return StateOK
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Blocked reports whether the client must refuse further operations.
func (g *Gate) Blocked() bool {
	return g.State() == StateForced
}

// Info returns the last successfully fetched server info, or nil.
func (g *Gate) Info() *api.ServerInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.info
}

// Run checks immediately and then every CheckInterval until ctx is
// cancelled. onChange fires whenever the state moves; it may be nil.
func (g *Gate) Run(ctx context.Context, onChange func(State)) {
	prev := g.State()
	notify := func(s State) {
		if s != prev && onChange != nil {
			onChange(s)
		}
		prev = s
	}

	if s, err := g.Check(ctx); err == nil {
		notify(s)
	}

	ticker := time.NewTicker(CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s, err := g.Check(ctx); err == nil {
				notify(s)
			}
		case <-ctx.Done():
			return
		}
	}
}
