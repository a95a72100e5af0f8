package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"icancare-server/internal/config"
	"icancare-server/internal/handlers"
	"icancare-server/internal/models"
	"icancare-server/internal/routes"
	"icancare-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	auth   *handlers.AuthHandler
}

// newTestEnv builds a router backed by a fresh in-memory database. Optional
// funcs tweak the config before routes are wired.
func newTestEnv(t *testing.T, opts ...func(*config.Config)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	cfg := &config.Config{
		Environment:               "test",
		JWTSecret:                 "test-jwt-secret",
		JWTRefreshSecret:          "test-refresh-secret",
		JWTExpirationMinutes:      15,
		JWTRefreshExpirationHours: 24,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	authHandler := handlers.NewAuthHandler(db, cfg)
	router := gin.New()
	routes.SetupRoutesWithAuth(router, db, cfg, authHandler)

	return &testEnv{t: t, router: router, db: db, cfg: cfg, auth: authHandler}
}

// stubGoogle makes the Google verifier return a fixed identity.
func (env *testEnv) stubGoogle(identity *handlers.GoogleIdentity, err error) {
	env.auth.VerifyGoogle = func(ctx context.Context, credential, audience string) (*handlers.GoogleIdentity, error) {
		if err != nil {
			return nil, err
		}
		return identity, nil
	}
}

// createUser inserts a user directly and returns it with a valid access token.
func (env *testEnv) createUser(user models.User) (models.User, string) {
	env.t.Helper()
	if err := user.SetPassword("password123"); err != nil {
		env.t.Fatalf("failed to hash password: %v", err)
	}
	if err := env.db.Create(&user).Error; err != nil {
		env.t.Fatalf("failed to create user: %v", err)
	}
	token, _, err := utils.GenerateTokens(&user, env.cfg)
	if err != nil {
		env.t.Fatalf("failed to generate token: %v", err)
	}
	return user, token
}

func (env *testEnv) createPatient(email string) (models.User, string) {
	return env.createUser(models.User{
		Email:     email,
		FirstName: "Pat",
		LastName:  "Example",
		Role:      models.RolePatient,
	})
}

func (env *testEnv) createDoctor(email string, status models.ApprovalStatus) (models.User, string) {
	return env.createUser(models.User{
		Email:          email,
		FirstName:      "Doc",
		LastName:       "Example",
		Role:           models.RoleDoctor,
		Specialization: "Oncology",
		ApprovalStatus: status,
	})
}

func (env *testEnv) createAdmin(email string) (models.User, string) {
	return env.createUser(models.User{
		Email:     email,
		FirstName: "Ada",
		LastName:  "Admin",
		Role:      models.RoleAdmin,
	})
}

// do issues a JSON request against the test router.
func (env *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	env.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			env.t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

// decodeData unmarshals the envelope's data field into out.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response envelope: %v (body: %s)", err, rec.Body.String())
	}
	if out != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			t.Fatalf("failed to decode response data: %v (body: %s)", err, rec.Body.String())
		}
	}
}

// newCase creates a case owned by the patient, optionally with assigned doctors.
func (env *testEnv) newCase(patient models.User, name string) models.Case {
	env.t.Helper()
	cs := models.Case{PatientID: patient.ID, Name: name}
	if err := env.db.Create(&cs).Error; err != nil {
		env.t.Fatalf("failed to create case: %v", err)
	}
	return cs
}

// assignDoctor adds a doctor to the case with the given per-case status.
func (env *testEnv) assignDoctor(cs models.Case, doctor models.User, status models.CaseDoctorStatus) {
	env.t.Helper()
	assignment := models.CaseDoctor{CaseID: cs.ID, DoctorID: doctor.ID, Status: status}
	if err := env.db.Create(&assignment).Error; err != nil {
		env.t.Fatalf("failed to assign doctor: %v", err)
	}
}

// setPrimary marks the doctor as the case's primary.
func (env *testEnv) setPrimary(cs models.Case, doctor models.User) {
	env.t.Helper()
	if err := env.db.Model(&models.Case{}).Where("id = ?", cs.ID).
		Update("primary_doctor_id", doctor.ID).Error; err != nil {
		env.t.Fatalf("failed to set primary doctor: %v", err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d (body: %s)", want, rec.Code, rec.Body.String())
	}
}
