package consult

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSlotsSortsAndDedupes(t *testing.T) {
	store := NewAvailabilityStore()

	require.NoError(t, store.AddSlots(1, "2025-04-20", []string{"11:00", "10:00", "11:00"}))
	require.NoError(t, store.AddSlots(1, "2025-04-20", []string{"10:00", "14:00"}))

	assert.Equal(t, []string{"10:00", "11:00", "14:00"}, store.ListDay(1, "2025-04-20"))
}

func TestAddSlotsIdempotent(t *testing.T) {
	store := NewAvailabilityStore()
	slots := []string{"09:30", "15:00"}

	require.NoError(t, store.AddSlots(1, "2025-04-21", slots))
	require.NoError(t, store.AddSlots(1, "2025-04-21", slots))

	assert.Equal(t, []string{"09:30", "15:00"}, store.ListDay(1, "2025-04-21"))
}

func TestAddSlotsInvalidDate(t *testing.T) {
	store := NewAvailabilityStore()

	err := store.AddSlots(1, "2025-13-40", []string{"10:00"})
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Empty(t, store.ListAll(1))

	err = store.AddSlots(1, "20-04-2025", []string{"10:00"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestAddSlotsInvalidSlot(t *testing.T) {
	store := NewAvailabilityStore()

	for _, slot := range []string{"9:00", "25:00", "10:60", "1000", ""} {
		err := store.AddSlots(1, "2025-04-20", []string{"10:00", slot})
		assert.ErrorIs(t, err, ErrInvalidSlot, "slot %q", slot)
	}

	// a rejected batch must not leave its valid members behind
	assert.Empty(t, store.ListDay(1, "2025-04-20"))
}

func TestTakeSlotRemoves(t *testing.T) {
	store := NewAvailabilityStore()
	require.NoError(t, store.AddSlots(1, "2025-04-20", []string{"10:00", "11:00"}))

	assert.True(t, store.HasSlot(1, "2025-04-20", "10:00"))
	assert.True(t, store.TakeSlot(1, "2025-04-20", "10:00"))

	assert.False(t, store.HasSlot(1, "2025-04-20", "10:00"))
	assert.False(t, store.TakeSlot(1, "2025-04-20", "10:00"))
	assert.Equal(t, []string{"11:00"}, store.ListDay(1, "2025-04-20"))
}

func TestTakeSlotAbsent(t *testing.T) {
	store := NewAvailabilityStore()

	assert.False(t, store.TakeSlot(1, "2025-04-20", "10:00"))

	require.NoError(t, store.AddSlots(1, "2025-04-20", []string{"10:00"}))
	assert.False(t, store.TakeSlot(1, "2025-04-20", "10:30"))
	assert.False(t, store.TakeSlot(1, "2025-04-21", "10:00"))
	assert.False(t, store.TakeSlot(2, "2025-04-20", "10:00"))
}

func TestListDayUnknownDoctor(t *testing.T) {
	store := NewAvailabilityStore()
	assert.Empty(t, store.ListDay(42, "2025-04-20"))
}

func TestListAllOrdersDatesAndSkipsConsumed(t *testing.T) {
	store := NewAvailabilityStore()
	require.NoError(t, store.AddSlots(1, "2025-04-21", []string{"09:30"}))
	require.NoError(t, store.AddSlots(1, "2025-04-20", []string{"10:00", "11:00"}))
	require.NoError(t, store.AddSlots(1, "2025-04-19", []string{"08:00"}))

	require.True(t, store.TakeSlot(1, "2025-04-19", "08:00"))

	all := store.ListAll(1)
	require.Len(t, all, 2)
	assert.Equal(t, DaySlots{Date: "2025-04-20", Slots: []string{"10:00", "11:00"}}, all[0])
	assert.Equal(t, DaySlots{Date: "2025-04-21", Slots: []string{"09:30"}}, all[1])
}

func TestTakeSlotConcurrentSingleWinner(t *testing.T) {
	store := NewAvailabilityStore()
	require.NoError(t, store.AddSlots(1, "2025-04-20", []string{"10:00"}))

	const callers = 64

	var wins int64
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-start
			if store.TakeSlot(1, "2025-04-20", "10:00") {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int64(1), wins)
	assert.Empty(t, store.ListDay(1, "2025-04-20"))
}
