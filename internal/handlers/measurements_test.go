package handlers_test

import (
	"net/http"
	"testing"

	"icancare-server/internal/models"
)

func TestMeasurementAppendDoctorOnly(t *testing.T) {
	env := newTestEnv(t)
	patient, patientToken := env.createPatient("p@example.com")
	doctor, doctorToken := env.createDoctor("d@example.com", models.ApprovalApproved)
	cs := env.newCase(patient, "case")
	env.assignDoctor(cs, doctor, models.CaseDoctorApproved)

	// Patients cannot append measurements.
	rec := env.do(http.MethodPost, "/api/case/"+cs.ID+"/lymph-log", patientToken, map[string]interface{}{
		"date": "2026-01-10",
		"size": 2.5,
	})
	expectStatus(t, rec, http.StatusForbidden)

	rec = env.do(http.MethodPost, "/api/case/"+cs.ID+"/lymph-log", doctorToken, map[string]interface{}{
		"date": "2026-01-10",
		"size": 2.5,
	})
	expectStatus(t, rec, http.StatusCreated)
}

func TestMeasurementRequiresDateAndSize(t *testing.T) {
	env := newTestEnv(t)
	patient, _ := env.createPatient("p@example.com")
	doctor, doctorToken := env.createDoctor("d@example.com", models.ApprovalApproved)
	cs := env.newCase(patient, "case")
	env.assignDoctor(cs, doctor, models.CaseDoctorApproved)

	rec := env.do(http.MethodPost, "/api/case/"+cs.ID+"/lymph-log", doctorToken, map[string]interface{}{
		"date": "2026-01-10",
	})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = env.do(http.MethodPost, "/api/case/"+cs.ID+"/lymph-log", doctorToken, map[string]interface{}{
		"size": 1.0,
	})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = env.do(http.MethodPost, "/api/case/"+cs.ID+"/lymph-log", doctorToken, map[string]interface{}{
		"date": "not-a-date",
		"size": 1.0,
	})
	expectStatus(t, rec, http.StatusBadRequest)

	// A zero size is still a valid numeric observation.
	rec = env.do(http.MethodPost, "/api/case/"+cs.ID+"/lymph-log", doctorToken, map[string]interface{}{
		"date": "2026-01-10",
		"size": 0,
	})
	expectStatus(t, rec, http.StatusCreated)
}

func TestMeasurementSeriesSortedAndIndependent(t *testing.T) {
	env := newTestEnv(t)
	patient, patientToken := env.createPatient("p@example.com")
	doctor, doctorToken := env.createDoctor("d@example.com", models.ApprovalApproved)
	cs := env.newCase(patient, "case")
	env.assignDoctor(cs, doctor, models.CaseDoctorApproved)

	// Append out of date order across both series.
	for _, entry := range []struct {
		path string
		date string
		size float64
	}{
		{"/lymph-log", "2026-02-01", 3.1},
		{"/lymph-log", "2026-01-01", 2.0},
		{"/p2-log", "2026-01-15", 9.9},
	} {
		rec := env.do(http.MethodPost, "/api/case/"+cs.ID+entry.path, doctorToken, map[string]interface{}{
			"date": entry.date,
			"size": entry.size,
		})
		expectStatus(t, rec, http.StatusCreated)
	}

	rec := env.do(http.MethodGet, "/api/case/"+cs.ID+"/lymph-logs", patientToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var lymph []models.MeasurementEntry
	decodeData(t, rec, &lymph)
	if len(lymph) != 2 {
		t.Fatalf("expected 2 lymph entries, got %d", len(lymph))
	}
	if !lymph[0].RecordedAt.Before(lymph[1].RecordedAt) {
		t.Error("expected entries sorted by date ascending")
	}
	if lymph[0].Size != 2.0 {
		t.Errorf("expected earliest entry first, got size %v", lymph[0].Size)
	}

	rec = env.do(http.MethodGet, "/api/case/"+cs.ID+"/p2-logs", patientToken, nil)
	expectStatus(t, rec, http.StatusOK)
	var p2 []models.MeasurementEntry
	decodeData(t, rec, &p2)
	if len(p2) != 1 || p2[0].Size != 9.9 {
		t.Errorf("expected the p2 series to hold its own single entry, got %v", p2)
	}
}

func TestUnassignedDoctorCannotAppend(t *testing.T) {
	env := newTestEnv(t)
	patient, _ := env.createPatient("p@example.com")
	_, strangerToken := env.createDoctor("stranger@example.com", models.ApprovalApproved)
	cs := env.newCase(patient, "case")

	rec := env.do(http.MethodPost, "/api/case/"+cs.ID+"/lymph-log", strangerToken, map[string]interface{}{
		"date": "2026-01-10",
		"size": 2.5,
	})
	expectStatus(t, rec, http.StatusForbidden)
}
