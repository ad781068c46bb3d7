package consult

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAssignsSequentialIDsAndIndexes(t *testing.T) {
	ledger := NewLedger()

	a1 := ledger.Record(&Appointment{PatientID: 1, DoctorID: 1, Date: "2025-04-20", Time: "10:00"})
	a2 := ledger.Record(&Appointment{PatientID: 2, DoctorID: 1, Date: "2025-04-20", Time: "11:00"})
	a3 := ledger.Record(&Appointment{PatientID: 1, DoctorID: 2, Date: "2025-04-21", Time: "09:30"})

	assert.Equal(t, int64(1), a1.ID)
	assert.Equal(t, int64(2), a2.ID)
	assert.Equal(t, int64(3), a3.ID)

	got, err := ledger.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "11:00", got.Time)

	byPatient := ledger.ByPatient(1)
	require.Len(t, byPatient, 2)
	assert.Equal(t, int64(1), byPatient[0].ID)
	assert.Equal(t, int64(3), byPatient[1].ID)

	byDoctor := ledger.ByDoctor(1)
	require.Len(t, byDoctor, 2)
	assert.Equal(t, int64(1), byDoctor[0].ID)
	assert.Equal(t, int64(2), byDoctor[1].ID)

	assert.Empty(t, ledger.ByPatient(99))
}

func TestGetUnknownAppointment(t *testing.T) {
	ledger := NewLedger()
	_, err := ledger.Get(1)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestReadsReturnSnapshots(t *testing.T) {
	ledger := NewLedger()
	a := ledger.Record(&Appointment{PatientID: 1, DoctorID: 1, Date: "2025-04-20", Time: "10:00"})

	before, err := ledger.Get(a.ID)
	require.NoError(t, err)
	listed := ledger.ByPatient(1)
	require.Len(t, listed, 1)

	require.NoError(t, ledger.AttachNotes(a.ID, "updated"))

	// earlier reads are unaffected, later reads see the write
	assert.Empty(t, before.Notes)
	assert.Empty(t, listed[0].Notes)
	after, err := ledger.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", after.Notes)
}

func TestAttachNotesAndPrescription(t *testing.T) {
	ledger := NewLedger()
	a := ledger.Record(&Appointment{PatientID: 1, DoctorID: 1, Date: "2025-04-20", Time: "10:00"})

	require.NoError(t, ledger.AttachNotes(a.ID, "Patient reported mild chest pain."))
	require.NoError(t, ledger.AttachPrescription(a.ID, "Aspirin 75mg once daily."))

	got, err := ledger.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Patient reported mild chest pain.", got.Notes)
	assert.Equal(t, "Aspirin 75mg once daily.", got.Prescription)

	assert.ErrorIs(t, ledger.AttachNotes(99, "x"), ErrAppointmentNotFound)
	assert.ErrorIs(t, ledger.AttachPrescription(99, "x"), ErrAppointmentNotFound)
}
