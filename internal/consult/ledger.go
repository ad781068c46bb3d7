package consult

import "sync"

// Ledger stores every appointment ever booked, indexed by id, patient and
// doctor. It allocates appointment ids from its own counter, so id order and
// creation order coincide and the per-patient and per-doctor index slices
// are ascending by construction. Reads hand out snapshots, never the stored
// structs: notes and prescriptions mutate appointments under the ledger
// lock, and a live pointer would let readers race those writes.
type Ledger struct {
	mu           sync.Mutex
	appointments map[int64]*Appointment
	byPatient    map[int64][]int64
	byDoctor     map[int64][]int64
	nextID       int64
}

func NewLedger() *Ledger {
	return &Ledger{
		appointments: make(map[int64]*Appointment),
		byPatient:    make(map[int64][]int64),
		byDoctor:     make(map[int64][]int64),
		nextID:       1,
	}
}

// Record assigns the next appointment id, stores the appointment under it
// and returns a snapshot of it.
func (l *Ledger) Record(a *Appointment) *Appointment {
	l.mu.Lock()
	defer l.mu.Unlock()

	a.ID = l.nextID
	l.nextID++
	l.appointments[a.ID] = a
	l.byPatient[a.PatientID] = append(l.byPatient[a.PatientID], a.ID)
	l.byDoctor[a.DoctorID] = append(l.byDoctor[a.DoctorID], a.ID)

	cp := *a
	return &cp
}

func (l *Ledger) Get(id int64) (*Appointment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

// ByPatient returns the patient's appointments in appointment-id order.
func (l *Ledger) ByPatient(patientID int64) []*Appointment {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.collect(l.byPatient[patientID])
}

// ByDoctor returns the doctor's appointments in appointment-id order.
func (l *Ledger) ByDoctor(doctorID int64) []*Appointment {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.collect(l.byDoctor[doctorID])
}

// collect runs with the lock held and copies each appointment out.
func (l *Ledger) collect(ids []int64) []*Appointment {
	out := make([]*Appointment, 0, len(ids))
	for _, id := range ids {
		cp := *l.appointments[id]
		out = append(out, &cp)
	}
	return out
}

func (l *Ledger) AttachNotes(id int64, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.appointments[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	a.Notes = text
	return nil
}

func (l *Ledger) AttachPrescription(id int64, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.appointments[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	a.Prescription = text
	return nil
}

func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.appointments)
}
