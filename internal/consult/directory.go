package consult

import "sync"

// Directory holds every registered patient and doctor. Ids come from two
// independent counters, strictly increasing from 1 and never reused;
// registrations are never deleted.
type Directory struct {
	mu            sync.Mutex
	patients      map[int64]*Patient
	doctors       map[int64]*Doctor
	nextPatientID int64
	nextDoctorID  int64
}

func NewDirectory() *Directory {
	return &Directory{
		patients:      make(map[int64]*Patient),
		doctors:       make(map[int64]*Doctor),
		nextPatientID: 1,
		nextDoctorID:  1,
	}
}

func (d *Directory) RegisterPatient(name, dob, gender, contact, email string) *Patient {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := &Patient{
		ID:      d.nextPatientID,
		Name:    name,
		DOB:     dob,
		Gender:  gender,
		Contact: contact,
		Email:   email,
	}
	d.patients[p.ID] = p
	d.nextPatientID++

	cp := *p
	return &cp
}

func (d *Directory) RegisterDoctor(name, specialization, contact, email string) *Doctor {
	d.mu.Lock()
	defer d.mu.Unlock()

	doc := &Doctor{
		ID:             d.nextDoctorID,
		Name:           name,
		Specialization: specialization,
		Contact:        contact,
		Email:          email,
	}
	d.doctors[doc.ID] = doc
	d.nextDoctorID++
	return doc
}

// Patient returns a snapshot of the patient. History is appended to under
// the directory lock, so the stored struct must not escape to readers.
func (d *Directory) Patient(id int64) (*Patient, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}

	cp := *p
	cp.History = make([]HistoryEntry, len(p.History))
	copy(cp.History, p.History)
	return &cp, nil
}

func (d *Directory) Doctor(id int64) (*Doctor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	doc, ok := d.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	return doc, nil
}

// AddHistory appends an entry to a patient's medical history.
func (d *Directory) AddHistory(patientID int64, entry HistoryEntry) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.patients[patientID]
	if !ok {
		return ErrPatientNotFound
	}
	p.History = append(p.History, entry)
	return nil
}

// Doctors returns every registered doctor in registration order. Ids are
// dense from 1, so walking the counter gives that order. Doctor structs are
// immutable after registration, so sharing the pointers is safe.
func (d *Directory) Doctors() []*Doctor {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]*Doctor, 0, len(d.doctors))
	for id := int64(1); id < d.nextDoctorID; id++ {
		out = append(out, d.doctors[id])
	}
	return out
}

func (d *Directory) PatientCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.patients)
}

func (d *Directory) DoctorCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.doctors)
}
