package cart

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/merawaalameetha/meetha-backend/pkg/logger"
)

func TestStoreNotifiesListenersWithPostMutationSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	var seen []Snapshot
	unsubscribe := store.Subscribe(func(_ context.Context, snap Snapshot) error {
		seen = append(seen, snap)
		return nil
	})

	store.AddItem(ctx, candidate("a", "100", "1", ""), dec("2"))
	store.UpdateQuantity(ctx, "a", dec("3"))
	unsubscribe()
	store.Clear(ctx)

	require.Len(t, seen, 2)
	assert.True(t, seen[0].TotalPrice.Equal(dec("200")))
	assert.True(t, seen[1].TotalItems.Equal(dec("3")))
	assert.True(t, store.Snapshot().IsEmpty())
}

func TestStoreListenerErrorsAreCombinedAndNeverRollBack(t *testing.T) {
	ctx := context.Background()
	var hooked error
	store := NewStore(WithErrorHook(func(_ context.Context, err error) { hooked = err }))

	errA := errors.New("listener a")
	errB := errors.New("listener b")
	store.Subscribe(func(context.Context, Snapshot) error { return errA })
	store.Subscribe(func(context.Context, Snapshot) error { return nil })
	store.Subscribe(func(context.Context, Snapshot) error { return errB })

	snap := store.AddItem(ctx, candidate("a", "100", "1", ""), dec("2"))

	require.Error(t, hooked)
	assert.ElementsMatch(t, []error{errA, errB}, multierr.Errors(hooked))
	assert.Len(t, snap.Items, 1)
	assert.Len(t, store.Snapshot().Items, 1)
}

func TestStoreConcurrentMutationsKeepTotalsConsistent(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	var (
		mu   sync.Mutex
		last Snapshot
	)
	store.Subscribe(func(_ context.Context, snap Snapshot) error {
		mu.Lock()
		last = snap
		mu.Unlock()
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AddItem(ctx, candidate("a", "10", "0.5", ""), dec("1"))
		}()
	}
	wg.Wait()

	final := store.Snapshot()
	assert.True(t, final.TotalItems.Equal(dec("50")))
	assert.True(t, final.TotalPrice.Equal(dec("500")))
	assert.True(t, last.TotalItems.Equal(final.TotalItems), "last notification must carry the final state")
}

func TestRehydrateFailuresLeaveEmptyCart(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*memorySlot)
		phase string
	}{
		{
			name:  "slot unavailable",
			setup: func(m *memorySlot) { m.loadErr = errors.New("connection refused") },
			phase: "load",
		},
		{
			name:  "corrupt payload",
			setup: func(m *memorySlot) { m.data["s1"] = []byte("{not json") },
			phase: "decode",
		},
		{
			name:  "future schema",
			setup: func(m *memorySlot) { m.data["s1"] = []byte(`{"version":7,"items":[]}`) },
			phase: "decode",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
			slot := newMemorySlot()
			tc.setup(slot)

			store := NewStore(WithLogger(logg))
			err := store.Rehydrate(context.Background(), slot, "s1")

			var perr *PersistError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tc.phase, perr.Phase)
			assert.True(t, store.Snapshot().IsEmpty())
			assert.Contains(t, buf.String(), "cart.rehydrate.failed")
		})
	}
}

func TestRehydrateEmptySlotIsNotAnError(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Rehydrate(context.Background(), newMemorySlot(), "unknown"))
	assert.True(t, store.Snapshot().IsEmpty())
}

func TestWriteThroughSavesAndDeletes(t *testing.T) {
	ctx := context.Background()
	slot := newMemorySlot()
	store := NewStore()
	store.Subscribe(WriteThrough(slot, "s1", nil))

	store.AddItem(ctx, candidate("a", "100", "1", ""), dec("2"))
	require.Contains(t, slot.data, "s1")
	assert.Equal(t, 1, slot.saves)

	decoded, err := DecodeSnapshot(slot.data["s1"])
	require.NoError(t, err)
	assert.True(t, decoded.TotalPrice.Equal(dec("200")))

	store.RemoveItem(ctx, "a")
	assert.NotContains(t, slot.data, "s1")
	assert.Equal(t, 1, slot.deletes)
}

func TestWriteThroughFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	slot := newMemorySlot()
	slot.saveErr = errors.New("disk full")

	var hooked error
	store := NewStore(WithErrorHook(func(_ context.Context, err error) { hooked = err }))
	store.Subscribe(WriteThrough(slot, "s1", logg))

	snap := store.AddItem(ctx, candidate("a", "100", "1", ""), dec("2"))
	assert.Len(t, snap.Items, 1)

	var perr *PersistError
	require.True(t, errors.As(hooked, &perr))
	assert.Equal(t, "save", perr.Phase)
	assert.Equal(t, "memory", perr.Slot)
	assert.Contains(t, buf.String(), "cart.persist.write_failed")
}
