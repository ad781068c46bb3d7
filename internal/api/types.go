package api

import "github.com/medibook/consult/internal/consult"

type RegisterPatientRequest struct {
	Name    string `json:"name"`
	DOB     string `json:"dob"`
	Gender  string `json:"gender"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
}

type RegisterPatientResponse struct {
	PatientID int64 `json:"patient_id"`
}

type RegisterDoctorRequest struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Contact        string `json:"contact"`
	Email          string `json:"email"`
}

type RegisterDoctorResponse struct {
	DoctorID int64 `json:"doctor_id"`
}

type AddHistoryRequest struct {
	Condition string `json:"condition"`
	Date      string `json:"date"`
	Notes     string `json:"notes,omitempty"`
}

type AddAvailabilityRequest struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

type DoctorResponse struct {
	DoctorID       int64    `json:"doctor_id"`
	Name           string   `json:"name"`
	Specialization string   `json:"specialization"`
	AvailableSlots []string `json:"available_slots,omitempty"`
}

type DayScheduleResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

type BookAppointmentRequest struct {
	PatientID int64  `json:"patient_id"`
	DoctorID  int64  `json:"doctor_id"`
	Time      string `json:"time"` // "YYYY-MM-DD HH:MM"
	Issue     string `json:"issue"`
}

type AppointmentResponse struct {
	AppointmentID int64  `json:"appointment_id"`
	PatientID     int64  `json:"patient_id"`
	PatientName   string `json:"patient_name,omitempty"`
	DoctorID      int64  `json:"doctor_id"`
	DoctorName    string `json:"doctor_name,omitempty"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Issue         string `json:"issue,omitempty"`
	Notes         string `json:"notes,omitempty"`
	Prescription  string `json:"prescription,omitempty"`
}

type AttachTextRequest struct {
	Text string `json:"text"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toAppointmentResponse(d consult.AppointmentDetail) AppointmentResponse {
	resp := AppointmentResponse{
		AppointmentID: d.ID,
		PatientID:     d.PatientID,
		DoctorID:      d.DoctorID,
		Date:          d.Date,
		Time:          d.Time,
		Issue:         d.Issue,
		Notes:         d.Notes,
		Prescription:  d.Prescription,
	}
	if d.Patient != nil {
		resp.PatientName = d.Patient.Name
	}
	if d.Doctor != nil {
		resp.DoctorName = d.Doctor.Name
	}
	return resp
}
