// Package cmdblock contains a CLI-driven engine for reading command lines and
// running them against a world continuously until the user quits.
package cmdblock

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/cmdblock/internal/blocks"
	"github.com/dekarrin/cmdblock/internal/cberrors"
	"github.com/dekarrin/cmdblock/internal/cbw"
	"github.com/dekarrin/cmdblock/internal/command"
	"github.com/dekarrin/cmdblock/internal/commands"
	"github.com/dekarrin/cmdblock/internal/dispatch"
	"github.com/dekarrin/cmdblock/internal/input"
	"github.com/dekarrin/cmdblock/internal/logging"
	"github.com/dekarrin/cmdblock/internal/suggest"
	"github.com/dekarrin/cmdblock/internal/version"
	"github.com/dekarrin/cmdblock/internal/world"
	"github.com/dekarrin/cmdblock/internal/world/sim"
	"github.com/dekarrin/cmdblock/server/dao"
	"github.com/dekarrin/cmdblock/server/dao/inmem"
	"github.com/dekarrin/rosed"
)

// ConsoleName is the name of the player the console runs commands as when the
// scenario does not have any players.
const ConsoleName = "console"

const consoleOutputWidth = 80

// Engine contains the things needed to run commands from an interactive shell
// attached to an input stream and an output stream.
type Engine struct {
	world   *sim.World
	reg     *dispatch.Registry
	history dao.HistoryRepository
	console world.Agent
	log     logging.Logger

	in          command.Reader
	out         *bufio.Writer
	outErr      error
	forceDirect bool
	running     bool

	// last is the result of the most recent top-level dispatch.
	last dispatch.Result
}

// New creates a new engine ready to operate on the given input and output
// streams. It will immediately open a buffered reader on the input stream and a
// buffered writer on the output stream.
//
// If nil is given for the input stream, a bufio.Reader is opened on stdin. If
// nil is given for the output stream, a bufio.Writer is opened on stdout. If
// scenarioPath is empty, the world starts empty. If store is nil, named points
// and history are kept in memory. If log is nil, nothing is logged.
func New(inputStream io.Reader, outputStream io.Writer, scenarioPath string, store dao.Store, log logging.Logger, forceDirectInput bool) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}
	if store == nil {
		store = inmem.NewDatastore()
	}
	if log == nil {
		log = logging.Discard()
	}

	var scen cbw.Scenario
	if scenarioPath != "" {
		var err error
		scen, err = cbw.LoadResourceBundle(scenarioPath)
		if err != nil {
			return nil, err
		}
	}

	eng := &Engine{
		world:       sim.New(),
		history:     store.History(),
		log:         log,
		out:         bufio.NewWriter(outputStream),
		forceDirect: forceDirectInput,
	}

	chain := blocks.New()
	if err := scen.Populate(eng.world, chain); err != nil {
		return nil, fmt.Errorf("populating world: %w", err)
	}
	if err := scen.SavePoints(context.Background(), store.Points()); err != nil {
		return nil, fmt.Errorf("saving points: %w", err)
	}

	if players := eng.world.Players(); len(players) > 0 {
		eng.console = players[0]
	} else {
		p := sim.NewPlayer(ConsoleName, scen.Anchor.Vector())
		eng.world.Spawn(p)
		eng.console = p
	}
	eng.world.OnMessage = eng.showMessage

	env := &commands.Env{
		Host:   eng.world,
		Points: store.Points(),
		Blocks: chain,
	}
	reg, err := commands.Build(env, dispatch.Options{
		Broadcaster: eng.world,
		Log:         log,
		Observer: func(r dispatch.Result) {
			eng.last = r
		},
	})
	if err != nil {
		return nil, fmt.Errorf("registering commands: %w", err)
	}
	eng.reg = reg

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		eng.in, err = input.NewInteractiveReader(eng.complete)
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

// World returns the world that commands run against.
func (eng *Engine) World() *sim.World {
	return eng.world
}

// Console returns the player that commands are run as.
func (eng *Engine) Console() world.Agent {
	return eng.console
}

// RunUntilQuit begins reading command lines from the streams and running them
// until "quit" is read or input ends.
func (eng *Engine) RunUntilQuit() error {
	introMsg := "cmdblock console v" + version.Current + "\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "========================\n"
	introMsg += "\n"
	introMsg += fmt.Sprintf("You are %s at %s.\n", eng.console.Name(), eng.console.Position())
	introMsg += "Type \"help\" for commands, \"?\" and part of a command for a hint, or \"quit\" to exit.\n"

	if err := eng.write(introMsg); err != nil {
		return err
	}

	eng.running = true
	// so we dont have to remember to do this on every returned error condition
	defer func() {
		eng.running = false
	}()

	ctx := context.Background()
	for eng.running {
		line, err := eng.in.ReadCommand()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		switch {
		case strings.TrimSpace(line) == "":
			continue
		case strings.EqualFold(strings.TrimSpace(line), "quit"):
			eng.running = false
		case strings.HasPrefix(line, "?"):
			if err := eng.write(eng.Suggest(line[1:]) + "\n"); err != nil {
				return err
			}
		default:
			eng.Run(ctx, line)
		}

		if eng.outErr != nil {
			return eng.outErr
		}
	}

	return eng.write("Goodbye\n")
}

// Run runs a command line as the console player and records it in the
// history. It returns whether the command succeeded.
func (eng *Engine) Run(ctx context.Context, line string) bool {
	eng.last = dispatch.Result{}
	ok := eng.reg.DispatchContext(ctx, command.AgentOrigin(eng.console), line)

	entry := dao.HistoryEntry{
		Line:    line,
		Origin:  eng.console.Name(),
		Success: ok,
	}
	if eng.last.Err != nil {
		entry.Message = cberrors.UserMessage(eng.last.Err)
	}
	if _, err := eng.history.Create(ctx, entry); err != nil {
		eng.log.Warn("could not record history", "line", line, "error", err)
	}

	return ok
}

// Suggest describes what could be typed next after partial.
func (eng *Engine) Suggest(partial string) string {
	rec := &suggest.Recorder{}
	eng.reg.Autocomplete(partial, rec)
	if !rec.Got {
		return "nothing more is needed"
	}
	return suggest.Describe(rec.Suggestion)
}

func (eng *Engine) complete(line string) (typed string, words []string) {
	rec := &suggest.Recorder{}
	eng.reg.Autocomplete(line, rec)

	switch rec.Suggestion.Kind {
	case suggest.KindChoose:
		return "", suggest.Values(rec.Suggestion.Options)
	case suggest.KindNarrow:
		return rec.Suggestion.Partial, suggest.Values(rec.Suggestion.Matches)
	default:
		return "", nil
	}
}

func (eng *Engine) showMessage(m sim.Message) {
	text := m.Text
	if m.Title != "" {
		text = "== " + m.Title + " =="
		if m.Text != "" {
			text += "\n" + m.Text
		}
	}
	if m.To != "" && m.To != eng.console.Name() {
		text = "(to " + m.To + ") " + text
	}

	if err := eng.write(text + "\n"); err != nil && eng.outErr == nil {
		eng.outErr = err
	}
}

// write wraps each line of s to the console width before writing it.
func (eng *Engine) write(s string) error {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if len(lines[i]) > consoleOutputWidth {
			lines[i] = rosed.Edit(lines[i]).Wrap(consoleOutputWidth).String()
		}
	}
	s = strings.Join(lines, "\n")

	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}
