package table

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateThenFind(t *testing.T) {
	r := NewRegistry()

	tbl, err := r.Create("t")
	require.NoError(t, err)
	assert.Same(t, tbl, r.Find("t"))
}

func TestRegistry_DuplicateCreateFails(t *testing.T) {
	r := NewRegistry()

	_, err := r.Create("t")
	require.NoError(t, err)

	_, err = r.Create("t")
	assert.ErrorIs(t, err, ErrTableExists)
}

func TestRegistry_FindMissingReturnsNil(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Find("nosuch"))
}

func TestRegistry_ConcurrentCreateRacesToOneWinner(t *testing.T) {
	r := NewRegistry()

	const n = 50
	var wg sync.WaitGroup
	successes := make(chan *Table, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if tbl, err := r.Create("contended"); err == nil {
				successes <- tbl
			}
		}()
	}
	wg.Wait()
	close(successes)

	var won []*Table
	for tbl := range successes {
		won = append(won, tbl)
	}
	require.Len(t, won, 1, "exactly one concurrent Create for the same name must succeed")
	assert.Same(t, won[0], r.Find("contended"))
}
