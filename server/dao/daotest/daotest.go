// Package daotest has checks that every dao.Store implementation must pass.
package daotest

import (
	"context"
	"errors"
	"testing"

	"github.com/dekarrin/cmdblock/internal/geom"
	"github.com/dekarrin/cmdblock/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// RunPoints checks the point repository of the store returned by newStore.
func RunPoints(t *testing.T, newStore func(t *testing.T) dao.Store) {
	ctx := context.Background()

	t.Run("upsert then get", func(t *testing.T) {
		assert := assert.New(t)
		st := newStore(t)
		defer st.Close()

		created, err := st.Points().Upsert(ctx, dao.Point{Name: "home", At: geom.Point3{X: 1, Y: -2, Z: 3}})
		if !assert.NoError(err) {
			return
		}
		assert.Equal("home", created.Name)
		assert.NotEqual(uuid.Nil, created.ID)

		got, err := st.Points().GetByName(ctx, "home")
		if !assert.NoError(err) {
			return
		}
		assert.Equal(created.ID, got.ID)
		assert.Equal(geom.Point3{X: 1, Y: -2, Z: 3}, got.At)
	})

	t.Run("upsert replaces position and keeps ID", func(t *testing.T) {
		assert := assert.New(t)
		st := newStore(t)
		defer st.Close()

		first, err := st.Points().Upsert(ctx, dao.Point{Name: "home", At: geom.Point3{X: 1}})
		if !assert.NoError(err) {
			return
		}
		second, err := st.Points().Upsert(ctx, dao.Point{Name: "home", At: geom.Point3{Y: 9}})
		if !assert.NoError(err) {
			return
		}

		assert.Equal(first.ID, second.ID)
		assert.Equal(geom.Point3{Y: 9}, second.At)

		all, err := st.Points().GetAll(ctx)
		assert.NoError(err)
		assert.Len(all, 1)
	})

	t.Run("get all is ordered by name", func(t *testing.T) {
		assert := assert.New(t)
		st := newStore(t)
		defer st.Close()

		for _, name := range []string{"zeta", "alpha", "mid"} {
			_, err := st.Points().Upsert(ctx, dao.Point{Name: name})
			if !assert.NoError(err) {
				return
			}
		}

		all, err := st.Points().GetAll(ctx)
		if !assert.NoError(err) {
			return
		}
		var names []string
		for _, p := range all {
			names = append(names, p.Name)
		}
		assert.Equal([]string{"alpha", "mid", "zeta"}, names)
	})

	t.Run("missing point is not found", func(t *testing.T) {
		assert := assert.New(t)
		st := newStore(t)
		defer st.Close()

		_, err := st.Points().GetByName(ctx, "nowhere")
		assert.True(errors.Is(err, dao.ErrNotFound))

		_, err = st.Points().Delete(ctx, "nowhere")
		assert.True(errors.Is(err, dao.ErrNotFound))
	})

	t.Run("delete returns removed point", func(t *testing.T) {
		assert := assert.New(t)
		st := newStore(t)
		defer st.Close()

		_, err := st.Points().Upsert(ctx, dao.Point{Name: "spawn", At: geom.Point3{Z: 4}})
		if !assert.NoError(err) {
			return
		}

		removed, err := st.Points().Delete(ctx, "spawn")
		assert.NoError(err)
		assert.Equal(geom.Point3{Z: 4}, removed.At)

		_, err = st.Points().GetByName(ctx, "spawn")
		assert.True(errors.Is(err, dao.ErrNotFound))
	})
}

// RunHistory checks the history repository of the store returned by
// newStore.
func RunHistory(t *testing.T, newStore func(t *testing.T) dao.Store) {
	ctx := context.Background()

	record := func(t *testing.T, st dao.Store, lines ...string) {
		for i, l := range lines {
			_, err := st.History().Create(ctx, dao.HistoryEntry{
				Line:    l,
				Origin:  "Alice",
				Success: i%2 == 0,
			})
			if err != nil {
				t.Fatalf("create %q: %v", l, err)
			}
		}
	}

	t.Run("get all is oldest first", func(t *testing.T) {
		assert := assert.New(t)
		st := newStore(t)
		defer st.Close()

		record(t, st, "one", "two", "three")

		all, err := st.History().GetAll(ctx)
		if !assert.NoError(err) {
			return
		}
		if !assert.Len(all, 3) {
			return
		}
		assert.Equal("one", all[0].Line)
		assert.True(all[0].Success)
		assert.False(all[1].Success)
		assert.Equal("three", all[2].Line)
		assert.Equal("Alice", all[2].Origin)
	})

	testCases := []struct {
		name   string
		n      int
		expect []string
	}{
		{name: "fewer than recorded", n: 2, expect: []string{"three", "two"}},
		{name: "more than recorded", n: 10, expect: []string{"three", "two", "one"}},
		{name: "zero", n: 0, expect: nil},
	}

	for _, tc := range testCases {
		t.Run("recent "+tc.name, func(t *testing.T) {
			assert := assert.New(t)
			st := newStore(t)
			defer st.Close()

			record(t, st, "one", "two", "three")

			recent, err := st.History().GetRecent(ctx, tc.n)
			if !assert.NoError(err) {
				return
			}
			var lines []string
			for _, e := range recent {
				lines = append(lines, e.Line)
			}
			assert.Equal(tc.expect, lines)
		})
	}
}
