package consult

import (
	"sort"
	"sync"
	"time"
)

// AvailabilityStore tracks each doctor's open slots as a date-keyed set of
// "HH:MM" values kept in ascending order. One lock serializes all access, so
// TakeSlot's check-and-remove is indivisible with respect to concurrent
// bookings: no two callers can both observe a slot as present and both
// remove it.
type AvailabilityStore struct {
	mu    sync.Mutex
	slots map[int64]map[string][]string // doctor id -> date -> sorted slots
}

func NewAvailabilityStore() *AvailabilityStore {
	return &AvailabilityStore{
		slots: make(map[int64]map[string][]string),
	}
}

// AddSlots merges slots into the doctor's set for the date. The merge is a
// union: duplicates within the input or against already stored slots
// collapse, and the stored set stays sorted, so repeating a call changes
// nothing. Fails before any mutation on a malformed date or slot value.
func (s *AvailabilityStore) AddSlots(doctorID int64, date string, slots []string) error {
	if !validDate(date) {
		return ErrInvalidDate
	}
	for _, slot := range slots {
		if !validSlot(slot) {
			return ErrInvalidSlot
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byDate, ok := s.slots[doctorID]
	if !ok {
		byDate = make(map[string][]string)
		s.slots[doctorID] = byDate
	}

	merged := byDate[date]
	for _, slot := range slots {
		if !containsSlot(merged, slot) {
			merged = append(merged, slot)
		}
	}
	sort.Strings(merged)
	byDate[date] = merged
	return nil
}

// HasSlot reports whether the doctor has an unconsumed slot at that exact
// date and time. A doctor or date with no entry reads as unavailable.
func (s *AvailabilityStore) HasSlot(doctorID int64, date, timeOfDay string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return containsSlot(s.slots[doctorID][date], timeOfDay)
}

// TakeSlot removes the slot if present and reports whether it did. Check and
// removal happen under a single lock acquisition; of any number of
// concurrent callers asking for the same slot, exactly one sees true. A
// missing slot is not an error here, the caller decides what false means.
func (s *AvailabilityStore) TakeSlot(doctorID int64, date, timeOfDay string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := s.slots[doctorID][date]
	for i, slot := range day {
		if slot == timeOfDay {
			s.slots[doctorID][date] = append(day[:i], day[i+1:]...)
			return true
		}
	}
	return false
}

// ListDay returns the doctor's open slots for one date, sorted ascending,
// possibly empty.
func (s *AvailabilityStore) ListDay(doctorID int64, date string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := s.slots[doctorID][date]
	out := make([]string, len(day))
	copy(out, day)
	return out
}

// ListAll returns the doctor's full availability map, dates ascending.
// Dates whose slots have all been consumed are omitted; they are
// indistinguishable from dates never published.
func (s *AvailabilityStore) ListAll(doctorID int64) []DaySlots {
	s.mu.Lock()
	defer s.mu.Unlock()

	byDate := s.slots[doctorID]
	dates := make([]string, 0, len(byDate))
	for date, day := range byDate {
		if len(day) > 0 {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)

	out := make([]DaySlots, 0, len(dates))
	for _, date := range dates {
		day := make([]string, len(byDate[date]))
		copy(day, byDate[date])
		out = append(out, DaySlots{Date: date, Slots: day})
	}
	return out
}

func validDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// validSlot accepts only zero-padded 24-hour "HH:MM". time.Parse alone would
// let single-digit hours through, hence the length check.
func validSlot(slot string) bool {
	if len(slot) != len(TimeLayout) {
		return false
	}
	_, err := time.Parse(TimeLayout, slot)
	return err == nil
}

func containsSlot(day []string, slot string) bool {
	for _, s := range day {
		if s == slot {
			return true
		}
	}
	return false
}
