package consult

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Service is the booking engine. It owns the directory, the availability
// store and the appointment ledger as explicit state; callers hold a single
// *Service and drive everything through it. All failures are sentinel errors
// and leave state untouched.
type Service struct {
	log       zerolog.Logger
	directory *Directory
	store     *AvailabilityStore
	ledger    *Ledger
}

func NewService(log zerolog.Logger) *Service {
	return &Service{
		log:       log,
		directory: NewDirectory(),
		store:     NewAvailabilityStore(),
		ledger:    NewLedger(),
	}
}

func (s *Service) RegisterPatient(name, dob, gender, contact, email string) *Patient {
	p := s.directory.RegisterPatient(name, dob, gender, contact, email)
	s.log.Info().Int64("patient_id", p.ID).Str("name", p.Name).Msg("patient registered")
	return p
}

func (s *Service) RegisterDoctor(name, specialization, contact, email string) *Doctor {
	doc := s.directory.RegisterDoctor(name, specialization, contact, email)
	s.log.Info().Int64("doctor_id", doc.ID).Str("name", doc.Name).
		Str("specialization", doc.Specialization).Msg("doctor registered")
	return doc
}

// AddMedicalHistory appends a diagnosis line to a patient's history.
func (s *Service) AddMedicalHistory(patientID int64, condition, date, notes string) error {
	if !validDate(date) {
		return ErrInvalidDate
	}
	return s.directory.AddHistory(patientID, HistoryEntry{
		Condition: condition,
		Date:      date,
		Notes:     notes,
	})
}

func (s *Service) Patient(id int64) (*Patient, error) {
	return s.directory.Patient(id)
}

func (s *Service) Doctor(id int64) (*Doctor, error) {
	return s.directory.Doctor(id)
}

// AddAvailability publishes open slots for a doctor on a date. The doctor
// must exist; the store validates formats and merges as a set.
func (s *Service) AddAvailability(doctorID int64, date string, slots []string) error {
	if _, err := s.directory.Doctor(doctorID); err != nil {
		return err
	}
	if err := s.store.AddSlots(doctorID, date, slots); err != nil {
		return err
	}
	s.log.Info().Int64("doctor_id", doctorID).Str("date", date).
		Strs("slots", slots).Msg("availability added")
	return nil
}

// DoctorSchedule returns the doctor's full availability map, dates ascending.
func (s *Service) DoctorSchedule(doctorID int64) ([]DaySlots, error) {
	if _, err := s.directory.Doctor(doctorID); err != nil {
		return nil, err
	}
	return s.store.ListAll(doctorID), nil
}

// DoctorScheduleForDate returns the doctor's open slots for one date.
func (s *Service) DoctorScheduleForDate(doctorID int64, date string) ([]string, error) {
	if _, err := s.directory.Doctor(doctorID); err != nil {
		return nil, err
	}
	if !validDate(date) {
		return nil, ErrInvalidDate
	}
	return s.store.ListDay(doctorID, date), nil
}

// AvailableDoctors filters registered doctors. A specialization filter is a
// case-insensitive exact match; a date filter keeps only doctors with at
// least one open slot that day and includes those slots in the row. Empty
// filters match everything.
func (s *Service) AvailableDoctors(specialization, date string) ([]DoctorAvailability, error) {
	if date != "" && !validDate(date) {
		return nil, ErrInvalidDate
	}

	out := []DoctorAvailability{}
	for _, doc := range s.directory.Doctors() {
		if specialization != "" && !strings.EqualFold(doc.Specialization, specialization) {
			continue
		}
		row := DoctorAvailability{Doctor: *doc}
		if date != "" {
			slots := s.store.ListDay(doc.ID, date)
			if len(slots) == 0 {
				continue
			}
			row.OpenSlots = slots
		}
		out = append(out, row)
	}
	return out, nil
}

// BookAppointment converts an open slot into an appointment. The slot check
// and its removal are one atomic store operation, so across any set of
// concurrent requests for the same (doctor, date, time) at most one gets
// past it; the rest fail with ErrSlotUnavailable, which deliberately does
// not distinguish a slot that never existed from one that was just taken.
// Slot consumption happens before the ledger insert; a failure at any step
// leaves no trace.
func (s *Service) BookAppointment(patientID, doctorID int64, timestamp, issue string) (*Appointment, error) {
	patient, err := s.directory.Patient(patientID)
	if err != nil {
		return nil, err
	}
	doctor, err := s.directory.Doctor(doctorID)
	if err != nil {
		return nil, err
	}

	ts, err := time.Parse(TimestampLayout, timestamp)
	if err != nil {
		return nil, ErrInvalidTimestamp
	}
	date := ts.Format(DateLayout)
	timeOfDay := ts.Format(TimeLayout)

	if !s.store.TakeSlot(doctorID, date, timeOfDay) {
		s.log.Info().Int64("patient_id", patientID).Int64("doctor_id", doctorID).
			Str("date", date).Str("time", timeOfDay).Msg("booking rejected, slot unavailable")
		return nil, ErrSlotUnavailable
	}

	appt := s.ledger.Record(&Appointment{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		Date:      date,
		Time:      timeOfDay,
		Issue:     issue,
		CreatedAt: time.Now(),
	})

	s.log.Info().Int64("appointment_id", appt.ID).Int64("patient_id", patientID).
		Int64("doctor_id", doctorID).Str("date", date).Str("time", timeOfDay).
		Msg("appointment booked")
	return appt, nil
}

// AppointmentDetail returns one appointment hydrated with its participants.
func (s *Service) AppointmentDetail(id int64) (*AppointmentDetail, error) {
	appt, err := s.ledger.Get(id)
	if err != nil {
		return nil, err
	}
	return s.hydrate(appt), nil
}

// AppointmentsForPatient returns the patient's appointments, id ascending.
func (s *Service) AppointmentsForPatient(patientID int64) ([]AppointmentDetail, error) {
	if _, err := s.directory.Patient(patientID); err != nil {
		return nil, err
	}
	return s.hydrateAll(s.ledger.ByPatient(patientID)), nil
}

// AppointmentsForDoctor returns the doctor's appointments, id ascending.
func (s *Service) AppointmentsForDoctor(doctorID int64) ([]AppointmentDetail, error) {
	if _, err := s.directory.Doctor(doctorID); err != nil {
		return nil, err
	}
	return s.hydrateAll(s.ledger.ByDoctor(doctorID)), nil
}

func (s *Service) AttachNotes(id int64, text string) error {
	return s.ledger.AttachNotes(id, text)
}

func (s *Service) AttachPrescription(id int64, text string) error {
	return s.ledger.AttachPrescription(id, text)
}

func (s *Service) hydrate(a *Appointment) *AppointmentDetail {
	// Participants outlive their appointments and are never deleted, so both
	// lookups succeed for any recorded appointment.
	patient, _ := s.directory.Patient(a.PatientID)
	doctor, _ := s.directory.Doctor(a.DoctorID)
	return &AppointmentDetail{Appointment: *a, Patient: patient, Doctor: doctor}
}

func (s *Service) hydrateAll(appts []*Appointment) []AppointmentDetail {
	out := make([]AppointmentDetail, 0, len(appts))
	for _, a := range appts {
		out = append(out, *s.hydrate(a))
	}
	return out
}

// Stats reports entity counts, used by the readiness endpoint.
type Stats struct {
	Patients     int
	Doctors      int
	Appointments int
}

func (s *Service) Stats() Stats {
	return Stats{
		Patients:     s.directory.PatientCount(),
		Doctors:      s.directory.DoctorCount(),
		Appointments: s.ledger.Count(),
	}
}
