package consult

import "errors"

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidSlot         = errors.New("invalid time slot, expected HH:MM")
	ErrInvalidTimestamp    = errors.New("invalid timestamp, expected YYYY-MM-DD HH:MM")
	ErrSlotUnavailable     = errors.New("slot is not available")
)
