// Package blocks holds command blocks: commands stored at block positions that
// run when triggered. A block may link to the next block in a chain, and
// triggering the first block of a chain runs every block in it in order.
package blocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dekarrin/cmdblock/internal/command"
	"github.com/dekarrin/cmdblock/internal/geom"
)

var (
	// ErrChainCycle is returned when following the links of a chain leads
	// back to a block already in it.
	ErrChainCycle = errors.New("command block chain loops back on itself")

	// ErrNoBlock is returned when there is no command block at a position.
	ErrNoBlock = errors.New("no command block at that position")
)

// Block is a command block.
type Block struct {
	At      geom.Point3
	Command string

	// Next is the position of the block that runs after this one, or nil if
	// this block ends its chain.
	Next *geom.Point3
}

// ExecFunc runs a single command line from origin and returns whether it
// succeeded. The DispatchContext method of a dispatch.Registry is an
// ExecFunc.
type ExecFunc func(ctx context.Context, origin command.Origin, line string) bool

// Chain is the set of command blocks in a world. It is safe for concurrent
// use.
type Chain struct {
	mtx    sync.RWMutex
	blocks map[geom.Point3]Block
}

// New returns an empty Chain.
func New() *Chain {
	return &Chain{blocks: map[geom.Point3]Block{}}
}

// Place puts b at b.At, replacing any block already there.
func (c *Chain) Place(b Block) error {
	if strings.TrimSpace(b.Command) == "" {
		return fmt.Errorf("block at %s: command is empty", b.At)
	}
	if b.Next != nil && *b.Next == b.At {
		return fmt.Errorf("block at %s: %w", b.At, ErrChainCycle)
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.blocks[b.At] = b
	return nil
}

// Remove deletes the block at p. It returns whether there was one.
func (c *Chain) Remove(p geom.Point3) bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	_, ok := c.blocks[p]
	delete(c.blocks, p)
	return ok
}

// Get returns the block at p.
func (c *Chain) Get(p geom.Point3) (Block, bool) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	b, ok := c.blocks[p]
	return b, ok
}

// Blocks returns every block ordered by position.
func (c *Chain) Blocks() []Block {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	all := make([]Block, 0, len(c.blocks))
	for _, b := range c.blocks {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i].At, all[j].At
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	return all
}

// Path returns the blocks that triggering the block at p would run, in
// order. A link to a position with no block ends the chain there.
func (c *Chain) Path(p geom.Point3) ([]Block, error) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	b, ok := c.blocks[p]
	if !ok {
		return nil, ErrNoBlock
	}

	seen := map[geom.Point3]bool{}
	var path []Block
	for {
		if seen[b.At] {
			return nil, fmt.Errorf("%w at %s", ErrChainCycle, b.At)
		}
		seen[b.At] = true
		path = append(path, b)

		if b.Next == nil {
			return path, nil
		}
		b, ok = c.blocks[*b.Next]
		if !ok {
			return path, nil
		}
	}
}

// Trigger runs the chain that starts at p. Each command runs with an anchor
// origin at its own block. A failing command does not stop the chain. The
// number of commands that succeeded is returned. A chain that loops is not
// run at all.
func (c *Chain) Trigger(ctx context.Context, p geom.Point3, exec ExecFunc) (int, error) {
	path, err := c.Path(p)
	if err != nil {
		return 0, err
	}

	var succeeded int
	for _, b := range path {
		if err := ctx.Err(); err != nil {
			return succeeded, err
		}
		if exec(ctx, command.AnchorOrigin(b.At), b.Command) {
			succeeded++
		}
	}
	return succeeded, nil
}
