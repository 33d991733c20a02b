// Package cbs has services for interacting with the cmdblock server backend
// decoupled from the API that accesses it.
package cbs

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/dekarrin/cmdblock/internal/blocks"
	"github.com/dekarrin/cmdblock/internal/cberrors"
	"github.com/dekarrin/cmdblock/internal/cbw"
	"github.com/dekarrin/cmdblock/internal/command"
	"github.com/dekarrin/cmdblock/internal/commands"
	"github.com/dekarrin/cmdblock/internal/dispatch"
	"github.com/dekarrin/cmdblock/internal/geom"
	"github.com/dekarrin/cmdblock/internal/logging"
	"github.com/dekarrin/cmdblock/internal/suggest"
	"github.com/dekarrin/cmdblock/internal/world/sim"
	"github.com/dekarrin/cmdblock/server/dao"
	"github.com/dekarrin/cmdblock/server/serr"
)

// Service is a service for interacting with and modifying the cmdblock server
// backend. It runs commands against a single world and makes calls to server
// persistence to preserve named points and history.
//
// Service is safe for concurrent use; commands and completions are run one at
// a time.
type Service struct {
	mtx    sync.Mutex
	world  *sim.World
	reg    *dispatch.Registry
	db     dao.Store
	anchor geom.Point3
	log    logging.Logger

	operatorSecret []byte

	// last is the result of the most recent top-level dispatch. Guarded by
	// mtx.
	last dispatch.Result

	// shown collects the messages shown during the current dispatch. Guarded
	// by mtx.
	shown []sim.Message
}

// DispatchResult is the outcome of running one command line.
type DispatchResult struct {
	Success bool

	// Messages is every message shown to players while the command ran.
	Messages []sim.Message
}

// New creates a Service for a world populated from scen. Commands run without
// an agent or anchor are run from the scenario's anchor. operatorSecret is
// what Login checks against. If log is nil, nothing is logged.
func New(db dao.Store, scen cbw.Scenario, operatorSecret []byte, log logging.Logger) (*Service, error) {
	if log == nil {
		log = logging.Discard()
	}
	if len(operatorSecret) == 0 {
		return nil, fmt.Errorf("operator secret is empty")
	}

	svc := &Service{
		world:          sim.New(),
		db:             db,
		anchor:         scen.Anchor,
		log:            log,
		operatorSecret: operatorSecret,
	}

	svc.world.OnMessage = func(m sim.Message) {
		svc.shown = append(svc.shown, m)
	}

	chain := blocks.New()
	if err := scen.Populate(svc.world, chain); err != nil {
		return nil, fmt.Errorf("populating world: %w", err)
	}
	if err := scen.SavePoints(context.Background(), db.Points()); err != nil {
		return nil, serr.WrapDB("saving scenario points", err)
	}

	env := &commands.Env{
		Host:   svc.world,
		Points: db.Points(),
		Blocks: chain,
	}
	reg, err := commands.Build(env, dispatch.Options{
		Broadcaster: svc.world,
		Log:         log,
		Observer: func(r dispatch.Result) {
			svc.last = r
		},
	})
	if err != nil {
		return nil, fmt.Errorf("registering commands: %w", err)
	}
	svc.reg = reg

	return svc, nil
}

// Login checks the operator secret.
//
// The returned error, if non-nil, will match serr.ErrBadCredentials when
// checked with errors.Is.
func (svc *Service) Login(secret string) error {
	if subtle.ConstantTimeCompare([]byte(secret), svc.operatorSecret) != 1 {
		return serr.ErrBadCredentials
	}
	return nil
}

// Dispatch runs a command line and records it in the history. The command is
// run as the agent with the given name if agent is not empty, otherwise from
// anchor if it is not nil, otherwise from the scenario anchor.
//
// A command that fails is not an error; the returned error, if non-nil, will
// match serr.ErrBadArgument if the arguments do not describe a command to run.
func (svc *Service) Dispatch(ctx context.Context, line, agent string, anchor *geom.Point3) (DispatchResult, error) {
	if strings.TrimSpace(line) == "" {
		return DispatchResult{}, serr.New("line is blank", serr.ErrBadArgument)
	}
	if agent != "" && anchor != nil {
		return DispatchResult{}, serr.New("only one of agent or anchor may be given", serr.ErrBadArgument)
	}

	svc.mtx.Lock()
	defer svc.mtx.Unlock()

	origin := command.AnchorOrigin(svc.anchor)
	if anchor != nil {
		origin = command.AnchorOrigin(*anchor)
	} else if agent != "" {
		a, ok := svc.findAgent(agent)
		if !ok {
			return DispatchResult{}, serr.New(fmt.Sprintf("no agent named %q", agent), serr.ErrBadArgument)
		}
		origin = command.AgentOrigin(a)
	}

	svc.last = dispatch.Result{}
	svc.shown = nil
	ok := svc.reg.DispatchContext(ctx, origin, line)
	shown := svc.shown
	svc.shown = nil

	entry := dao.HistoryEntry{
		Line:    line,
		Origin:  origin.Describe(),
		Success: ok,
	}
	if svc.last.Err != nil {
		entry.Message = cberrors.UserMessage(svc.last.Err)
	}
	if _, err := svc.db.History().Create(ctx, entry); err != nil {
		svc.log.Warn("could not record history", "line", line, "error", err)
	}

	return DispatchResult{Success: ok, Messages: shown}, nil
}

// findAgent returns the living agent with the given name, preferring players.
func (svc *Service) findAgent(name string) (*sim.Creature, bool) {
	var found *sim.Creature
	for _, a := range svc.world.Agents() {
		if a.Name() != name {
			continue
		}
		c, err := svc.world.Creature(a)
		if err != nil {
			continue
		}
		if c.IsPlayer() {
			return c, true
		}
		if found == nil {
			found = c
		}
	}
	return found, found != nil
}

// Autocomplete returns the suggestion for a partially typed command line. The
// returned bool is false if there is nothing to suggest.
func (svc *Service) Autocomplete(line string) (suggest.Suggestion, bool) {
	svc.mtx.Lock()
	defer svc.mtx.Unlock()

	rec := &suggest.Recorder{}
	svc.reg.Autocomplete(line, rec)
	return rec.Suggestion, rec.Got
}

// Usages returns the usage of every command.
func (svc *Service) Usages() dispatch.Usages {
	return svc.reg.Usages()
}

// History returns up to n of the most recently run command lines, newest
// first.
func (svc *Service) History(ctx context.Context, n int) ([]dao.HistoryEntry, error) {
	if n < 1 {
		return nil, serr.New("limit must be at least 1", serr.ErrBadArgument)
	}

	entries, err := svc.db.History().GetRecent(ctx, n)
	if err != nil {
		return nil, serr.WrapDB("could not get history", err)
	}
	return entries, nil
}

// GetAllPoints returns every named point ordered by name.
func (svc *Service) GetAllPoints(ctx context.Context) ([]dao.Point, error) {
	points, err := svc.db.Points().GetAll(ctx)
	if err != nil {
		return nil, serr.WrapDB("could not get points", err)
	}
	return points, nil
}

// GetPoint returns the named point.
//
// The returned error, if non-nil, will match serr.ErrNotFound if there is no
// point with that name, or serr.ErrDB if there was a problem with the DB.
func (svc *Service) GetPoint(ctx context.Context, name string) (dao.Point, error) {
	p, err := svc.db.Points().GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Point{}, serr.ErrNotFound
		}
		return dao.Point{}, serr.WrapDB("could not get point", err)
	}
	return p, nil
}

// SetPoint saves a position under a name, replacing any point already saved
// under it. The name must be something that can be typed as a single command
// argument.
//
// The returned error, if non-nil, will match serr.ErrBadArgument if the name
// is not valid, or serr.ErrDB if there was a problem with the DB.
func (svc *Service) SetPoint(ctx context.Context, name string, at geom.Point3) (dao.Point, error) {
	if name == "" {
		return dao.Point{}, serr.New("name cannot be blank", serr.ErrBadArgument)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 || strings.ContainsAny(name, `"\@`) {
		return dao.Point{}, serr.New("name cannot contain whitespace, quotes, backslashes, or @", serr.ErrBadArgument)
	}

	p, err := svc.db.Points().Upsert(ctx, dao.Point{Name: name, At: at})
	if err != nil {
		return dao.Point{}, serr.WrapDB("could not save point", err)
	}
	return p, nil
}

// DeletePoint forgets the named point and returns it as it was just before
// deletion.
//
// The returned error, if non-nil, will match serr.ErrNotFound if there is no
// point with that name, or serr.ErrDB if there was a problem with the DB.
func (svc *Service) DeletePoint(ctx context.Context, name string) (dao.Point, error) {
	p, err := svc.db.Points().Delete(ctx, name)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Point{}, serr.ErrNotFound
		}
		return dao.Point{}, serr.WrapDB("could not delete point", err)
	}
	return p, nil
}
