package table

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_GetPrefersStagedOverCommitted(t *testing.T) {
	tbl := New("t")
	tbl.Lock()
	defer tbl.Unlock()

	tbl.Set("k", "staged-value")
	tbl.Commit()
	tbl.Set("k", "newer-staged-value")

	v, err := tbl.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "newer-staged-value", v)
}

func TestTable_GetMissingKeyFails(t *testing.T) {
	tbl := New("t")
	tbl.Lock()
	defer tbl.Unlock()

	_, err := tbl.Get("nosuch")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestTable_CommitMergesAndClearsStaged(t *testing.T) {
	tbl := New("t")
	tbl.Lock()
	defer tbl.Unlock()

	tbl.Set("a", "1")
	tbl.Set("b", "2")
	tbl.Commit()

	assert.True(t, tbl.Has("a"))
	assert.True(t, tbl.Has("b"))

	v, err := tbl.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestTable_RollbackDiscardsStagedOnly(t *testing.T) {
	tbl := New("t")
	tbl.Lock()
	tbl.Set("a", "1")
	tbl.Commit()
	tbl.Unlock()

	tbl.Lock()
	tbl.Set("a", "2")
	tbl.Set("b", "new")
	tbl.Rollback()
	tbl.Unlock()

	tbl.Lock()
	defer tbl.Unlock()

	v, err := tbl.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "1", v, "committed value must survive a rollback of a later staged write")
	assert.False(t, tbl.Has("b"))
}

func TestTable_TryLockFailsWhileHeld(t *testing.T) {
	tbl := New("t")
	tbl.Lock()
	defer tbl.Unlock()

	assert.False(t, tbl.TryLock())
}

func TestTable_LockIsMutuallyExclusive(t *testing.T) {
	tbl := New("t")
	tbl.Lock()
	tbl.Set("k", "1")

	var wg sync.WaitGroup
	wg.Add(1)
	unlocked := make(chan struct{})
	go func() {
		defer wg.Done()
		tbl.Lock()
		defer tbl.Unlock()
		v, err := tbl.Get("k")
		assert.NoError(t, err)
		assert.Equal(t, "1", v)
		close(unlocked)
	}()

	select {
	case <-unlocked:
		t.Fatal("second locker proceeded before first released the lock")
	default:
	}

	tbl.Commit()
	tbl.Unlock()
	wg.Wait()
}
