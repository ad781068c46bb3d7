package consult

import "time"

// Layouts for the fixed wire formats. Availability dates are bare
// "YYYY-MM-DD" strings, slots are zero-padded 24-hour "HH:MM", and a
// booking request carries both as one timestamp.
const (
	DateLayout      = "2006-01-02"
	TimeLayout      = "15:04"
	TimestampLayout = "2006-01-02 15:04"
)

// HistoryEntry is one append-only line of a patient's medical history.
type HistoryEntry struct {
	Condition string
	Date      string
	Notes     string
}

type Patient struct {
	ID      int64
	Name    string
	DOB     string
	Gender  string
	Contact string
	Email   string
	History []HistoryEntry
}

type Doctor struct {
	ID             int64
	Name           string
	Specialization string
	Contact        string
	Email          string
}

// Appointment references its patient and doctor by id. The (DoctorID, Date,
// Time) triple it consumed is gone from the availability store the moment
// the appointment exists, so the two can never disagree.
type Appointment struct {
	ID           int64
	PatientID    int64
	DoctorID     int64
	Date         string // YYYY-MM-DD
	Time         string // HH:MM
	Issue        string
	Notes        string
	Prescription string
	CreatedAt    time.Time
}

// AppointmentDetail is an appointment hydrated with its participants.
type AppointmentDetail struct {
	Appointment
	Patient *Patient
	Doctor  *Doctor
}

// DoctorAvailability is one row of a discovery query. OpenSlots is populated
// only when the query filtered by date.
type DoctorAvailability struct {
	Doctor
	OpenSlots []string
}

// DaySlots is one date of a doctor's availability map.
type DaySlots struct {
	Date  string
	Slots []string
}
