package handlers_test

import (
	"net/http"
	"testing"

	"icancare-server/internal/models"
)

func TestAdminApprovalWorkflow(t *testing.T) {
	env := newTestEnv(t)
	doctor, _ := env.createDoctor("pending@example.com", models.ApprovalPending)
	_, adminToken := env.createAdmin("admin@example.com")

	rec := env.do(http.MethodGet, "/api/doctor/pending", adminToken, nil)
	expectStatus(t, rec, http.StatusOK)

	var pending []models.UserSanitized
	decodeData(t, rec, &pending)
	if len(pending) != 1 || pending[0].ID != doctor.ID {
		t.Fatalf("expected the pending doctor in the queue, got %v", pending)
	}

	rec = env.do(http.MethodPut, "/api/doctor/approve/"+doctor.ID, adminToken, map[string]interface{}{
		"status": "approved",
	})
	expectStatus(t, rec, http.StatusOK)

	var updated models.User
	if err := env.db.First(&updated, "id = ?", doctor.ID).Error; err != nil {
		t.Fatalf("failed to reload doctor: %v", err)
	}
	if updated.ApprovalStatus != models.ApprovalApproved {
		t.Errorf("expected approved, got %q", updated.ApprovalStatus)
	}

	// The transition is one-way: a decided doctor cannot be re-decided.
	rec = env.do(http.MethodPut, "/api/doctor/approve/"+doctor.ID, adminToken, map[string]interface{}{
		"status": "denied",
	})
	expectStatus(t, rec, http.StatusBadRequest)
}

// An admin authenticates over HTTP like any other account and can then
// drive the approval transition with the issued token.
func TestAdminLoginDrivesApproval(t *testing.T) {
	env := newTestEnv(t)
	doctor, _ := env.createDoctor("pending@example.com", models.ApprovalPending)
	env.createAdmin("admin@example.com")

	rec := env.do(http.MethodPost, "/api/admin/login", "", map[string]interface{}{
		"email":    "admin@example.com",
		"password": "password123",
	})
	expectStatus(t, rec, http.StatusOK)

	var login struct {
		AccessToken string      `json:"accessToken"`
		Role        models.Role `json:"role"`
	}
	decodeData(t, rec, &login)
	if login.Role != models.RoleAdmin {
		t.Fatalf("expected admin role, got %q", login.Role)
	}

	rec = env.do(http.MethodPut, "/api/doctor/approve/"+doctor.ID, login.AccessToken, map[string]interface{}{
		"status": "approved",
	})
	expectStatus(t, rec, http.StatusOK)

	var updated models.User
	if err := env.db.First(&updated, "id = ?", doctor.ID).Error; err != nil {
		t.Fatalf("failed to reload doctor: %v", err)
	}
	if updated.ApprovalStatus != models.ApprovalApproved {
		t.Errorf("expected approved, got %q", updated.ApprovalStatus)
	}
}

// Admin credentials work only on the admin endpoint.
func TestAdminCannotLoginThroughOtherRoles(t *testing.T) {
	env := newTestEnv(t)
	env.createAdmin("admin@example.com")

	for _, path := range []string{"/api/patient/login", "/api/doctor/login"} {
		rec := env.do(http.MethodPost, path, "", map[string]interface{}{
			"email":    "admin@example.com",
			"password": "password123",
		})
		expectStatus(t, rec, http.StatusUnauthorized)
	}
}

func TestApprovalRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	doctor, doctorToken := env.createDoctor("doc@example.com", models.ApprovalApproved)
	_, patientToken := env.createPatient("pat@example.com")

	for _, token := range []string{doctorToken, patientToken} {
		rec := env.do(http.MethodPut, "/api/doctor/approve/"+doctor.ID, token, map[string]interface{}{
			"status": "approved",
		})
		expectStatus(t, rec, http.StatusForbidden)
	}
}

func TestPatientFacingDoctorListExcludesUnapproved(t *testing.T) {
	env := newTestEnv(t)
	approved, _ := env.createDoctor("approved@example.com", models.ApprovalApproved)
	env.createDoctor("pending@example.com", models.ApprovalPending)
	env.createDoctor("denied@example.com", models.ApprovalDenied)
	_, patientToken := env.createPatient("pat@example.com")

	rec := env.do(http.MethodGet, "/api/doctor/list", patientToken, nil)
	expectStatus(t, rec, http.StatusOK)

	var doctors []models.UserSanitized
	decodeData(t, rec, &doctors)
	if len(doctors) != 1 {
		t.Fatalf("expected exactly one visible doctor, got %d", len(doctors))
	}
	if doctors[0].ID != approved.ID {
		t.Errorf("expected only the approved doctor to be listed")
	}
}
