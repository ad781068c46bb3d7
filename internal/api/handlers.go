package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/medibook/consult/internal/consult"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

func urlID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// handleServiceError maps the engine's sentinel errors onto HTTP statuses.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, consult.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, consult.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, consult.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, consult.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
	case errors.Is(err, consult.ErrInvalidSlot):
		writeError(w, http.StatusBadRequest, "invalid_slot", err.Error())
	case errors.Is(err, consult.ErrInvalidTimestamp):
		writeError(w, http.StatusBadRequest, "invalid_timestamp", err.Error())
	case errors.Is(err, consult.ErrSlotUnavailable):
		writeError(w, http.StatusConflict, "slot_unavailable", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func registerPatientHandler(svc *consult.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "missing_name", "name is required")
			return
		}

		p := svc.RegisterPatient(req.Name, req.DOB, req.Gender, req.Contact, req.Email)
		writeJSON(w, http.StatusCreated, RegisterPatientResponse{PatientID: p.ID})
	}
}

func registerDoctorHandler(svc *consult.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterDoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "missing_name", "name is required")
			return
		}

		doc := svc.RegisterDoctor(req.Name, req.Specialization, req.Contact, req.Email)
		writeJSON(w, http.StatusCreated, RegisterDoctorResponse{DoctorID: doc.ID})
	}
}

func addHistoryHandler(svc *consult.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "id must be a positive integer")
			return
		}

		var req AddHistoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if err := svc.AddMedicalHistory(id, req.Condition, req.Date, req.Notes); err != nil {
			handleServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func addAvailabilityHandler(svc *consult.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a positive integer")
			return
		}

		var req AddAvailabilityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if err := svc.AddAvailability(id, req.Date, req.Slots); err != nil {
			handleServiceError(w, err)
			return
		}

		// respond with the stored day, the union of this and earlier calls
		slots, err := svc.DoctorScheduleForDate(id, req.Date)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, DayScheduleResponse{Date: req.Date, Slots: slots})
	}
}

func doctorScheduleHandler(svc *consult.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a positive integer")
			return
		}

		if date := r.URL.Query().Get("date"); date != "" {
			slots, err := svc.DoctorScheduleForDate(id, date)
			if err != nil {
				handleServiceError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, DayScheduleResponse{Date: date, Slots: slots})
			return
		}

		schedule, err := svc.DoctorSchedule(id)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		resp := make([]DayScheduleResponse, 0, len(schedule))
		for _, day := range schedule {
			resp = append(resp, DayScheduleResponse{Date: day.Date, Slots: day.Slots})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func listDoctorsHandler(svc *consult.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		rows, err := svc.AvailableDoctors(q.Get("specialization"), q.Get("date"))
		if err != nil {
			handleServiceError(w, err)
			return
		}

		resp := make([]DoctorResponse, 0, len(rows))
		for _, row := range rows {
			resp = append(resp, DoctorResponse{
				DoctorID:       row.ID,
				Name:           row.Name,
				Specialization: row.Specialization,
				AvailableSlots: row.OpenSlots,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func bookAppointmentHandler(svc *consult.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appt, err := svc.BookAppointment(req.PatientID, req.DoctorID, req.Time, req.Issue)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, AppointmentResponse{
			AppointmentID: appt.ID,
			PatientID:     appt.PatientID,
			DoctorID:      appt.DoctorID,
			Date:          appt.Date,
			Time:          appt.Time,
			Issue:         appt.Issue,
		})
	}
}

func getAppointmentHandler(svc *consult.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a positive integer")
			return
		}

		detail, err := svc.AppointmentDetail(id)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(*detail))
	}
}

func patientAppointmentsHandler(svc *consult.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "id must be a positive integer")
			return
		}

		appts, err := svc.AppointmentsForPatient(id)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appointmentList(appts))
	}
}

func doctorAppointmentsHandler(svc *consult.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a positive integer")
			return
		}

		appts, err := svc.AppointmentsForDoctor(id)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appointmentList(appts))
	}
}

func appointmentList(appts []consult.AppointmentDetail) []AppointmentResponse {
	resp := make([]AppointmentResponse, 0, len(appts))
	for _, a := range appts {
		resp = append(resp, toAppointmentResponse(a))
	}
	return resp
}

func attachNotesHandler(svc *consult.Service) http.HandlerFunc {
	return attachTextHandler(svc.AttachNotes)
}

func attachPrescriptionHandler(svc *consult.Service) http.HandlerFunc {
	return attachTextHandler(svc.AttachPrescription)
}

func attachTextHandler(attach func(int64, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a positive integer")
			return
		}

		var req AttachTextRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if err := attach(id, req.Text); err != nil {
			handleServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
