package routes

import (
	"ClinicRecords/cache"
	"ClinicRecords/config"
	"ClinicRecords/database/dbtest"
	"ClinicRecords/models"
	"ClinicRecords/repositories"
	"ClinicRecords/utils"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

const testPassword = "Str0ng!pass"

type APISuite struct {
	suite.Suite
	db      *gorm.DB
	handler http.Handler

	doctorToken  string
	patientToken string
	nobodyToken  string
}

func (s *APISuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *APISuite) SetupTest() {
	s.db = dbtest.NewDB(s.T())
	client, _ := dbtest.NewRedis(s.T())
	c, err := cache.NewCache(client, time.Minute)
	s.Require().NoError(err)

	cfg := &config.AppConfig{
		Env:             "test",
		SymmetricKey:    "0123456789abcdef0123456789abcdef",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		CORSOrigins:     []string{"http://localhost:3000"},
		RateLimitRPS:    1000,
		RateLimitBurst:  1000,
	}
	s.handler, err = SetupRoutes(Dependencies{Config: cfg, DB: s.db, Redis: client, Cache: c})
	s.Require().NoError(err)

	users := repositories.NewUserRepository(s.db, c)
	s.doctorToken = s.provision(users, "doctor1", &models.Profile{Role: models.RoleDoctor})
	s.patientToken = s.provision(users, "patient1", &models.Profile{Role: models.RolePatient})
	s.nobodyToken = s.provision(users, "nobody", nil)
}

func (s *APISuite) provision(users repositories.UserRepository, username string, profile *models.Profile) string {
	hash, err := utils.HashPassword(testPassword)
	s.Require().NoError(err)
	s.Require().NoError(users.CreateUser(context.Background(), &models.User{
		Username: username, Password: hash, IsActive: true, Profile: profile,
	}))

	w := s.do(http.MethodPost, "/auth/token/", "", map[string]string{"username": username, "password": testPassword})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var pair map[string]string
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &pair))
	return pair["access"]
}

func (s *APISuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *APISuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *APISuite) count(model interface{}) int64 {
	var n int64
	s.Require().NoError(s.db.Model(model).Count(&n).Error)
	return n
}

func (s *APISuite) createDoctor(email string) uint {
	w := s.do(http.MethodPost, "/doctors/", s.doctorToken, map[string]string{
		"first_name": "Alice", "last_name": "Brown", "specialty": "Cardiology", "email": email, "phone": "5551234567",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return uint(s.decode(w)["id"].(float64))
}

func (s *APISuite) createPatient(email string) uint {
	w := s.do(http.MethodPost, "/patients/", s.patientToken, map[string]string{
		"first_name": "Jane", "last_name": "Smith", "date_of_birth": "1985-05-15", "email": email, "phone": "1234567890",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return uint(s.decode(w)["id"].(float64))
}

func (s *APISuite) createAppointment(patientID, doctorID uint) uint {
	w := s.do(http.MethodPost, "/appointments/", s.patientToken, map[string]interface{}{
		"patient_id": patientID, "doctor_id": doctorID, "appointment_datetime": "2025-10-01T10:00:00Z",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return uint(s.decode(w)["id"].(float64))
}

func (s *APISuite) TestRoleGate() {
	tokens := map[string]string{
		"doctor":    s.doctorToken,
		"patient":   s.patientToken,
		"noProfile": s.nobodyToken,
		"anonymous": "",
	}
	expected := map[string]map[string]int{
		"/patients/":       {"doctor": 403, "patient": 200, "noProfile": 403, "anonymous": 401},
		"/doctors/":        {"doctor": 200, "patient": 403, "noProfile": 403, "anonymous": 401},
		"/appointments/":   {"doctor": 403, "patient": 200, "noProfile": 403, "anonymous": 401},
		"/prescriptions/":  {"doctor": 200, "patient": 403, "noProfile": 403, "anonymous": 401},
		"/health-records/": {"doctor": 200, "patient": 200, "noProfile": 200, "anonymous": 401},
	}

	for path, byRole := range expected {
		for role, status := range byRole {
			w := s.do(http.MethodGet, path, tokens[role], nil)
			s.Equal(status, w.Code, "%s as %s", path, role)
		}
	}
}

func (s *APISuite) TestGateAppliesToEveryOperation() {
	denied := []struct {
		resource string
		role     string
		status   int
	}{
		{"patients", "doctor", http.StatusForbidden},
		{"patients", "noProfile", http.StatusForbidden},
		{"doctors", "patient", http.StatusForbidden},
		{"doctors", "noProfile", http.StatusForbidden},
		{"appointments", "doctor", http.StatusForbidden},
		{"appointments", "noProfile", http.StatusForbidden},
		{"prescriptions", "patient", http.StatusForbidden},
		{"prescriptions", "noProfile", http.StatusForbidden},
		{"health-records", "anonymous", http.StatusUnauthorized},
	}
	tokens := map[string]string{
		"doctor":    s.doctorToken,
		"patient":   s.patientToken,
		"noProfile": s.nobodyToken,
		"anonymous": "",
	}
	body := map[string]string{"email": "jane@example.com"}

	for _, tc := range denied {
		list := "/" + tc.resource + "/"
		detail := list + "1/"
		requests := []struct {
			method, path string
			body         interface{}
		}{
			{http.MethodGet, list, nil},
			{http.MethodPost, list, body},
			{http.MethodGet, detail, nil},
			{http.MethodPut, detail, body},
			{http.MethodPatch, detail, body},
			{http.MethodDelete, detail, nil},
		}
		for _, r := range requests {
			w := s.do(r.method, r.path, tokens[tc.role], r.body)
			s.Equal(tc.status, w.Code, "%s %s as %s", r.method, r.path, tc.role)
		}
	}

	s.Zero(s.count(&models.Patient{}))
	s.Zero(s.count(&models.Doctor{}))
}

func (s *APISuite) TestGateLetsMatchingRoleReachDetailRoutes() {
	doctorID := s.createDoctor("alice@example.com")
	path := fmt.Sprintf("/doctors/%d/", doctorID)

	s.Equal(http.StatusForbidden, s.do(http.MethodDelete, path, s.patientToken, nil).Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, path, s.doctorToken, nil).Code)
}

func (s *APISuite) TestCreatePatientAsPatient() {
	payload := map[string]string{
		"first_name": "Jane", "last_name": "Smith", "date_of_birth": "1985-05-15",
		"email": "jane@example.com", "phone": "1234567890",
	}

	w := s.do(http.MethodPost, "/patients/", s.patientToken, payload)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	body := s.decode(w)
	s.Equal("Jane", body["first_name"])
	s.Equal("1985-05-15", body["date_of_birth"])
	s.NotZero(body["id"])
}

func (s *APISuite) TestCreatePatientAsDoctorIsForbidden() {
	payload := map[string]string{
		"first_name": "Jane", "last_name": "Smith", "date_of_birth": "1985-05-15",
		"email": "jane@example.com", "phone": "1234567890",
	}

	w := s.do(http.MethodPost, "/patients/", s.doctorToken, payload)
	s.Equal(http.StatusForbidden, w.Code)
	s.Zero(s.count(&models.Patient{}))
}

func (s *APISuite) TestRoundTrip() {
	id := s.createPatient("jane@example.com")

	w := s.do(http.MethodGet, fmt.Sprintf("/patients/%d/", id), s.patientToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(fmt.Sprintf(`{
		"id": %d, "first_name": "Jane", "last_name": "Smith", "date_of_birth": "1985-05-15",
		"email": "jane@example.com", "phone": "1234567890"
	}`, id), w.Body.String())

	w = s.do(http.MethodGet, "/patients/", s.patientToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var list []map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	s.Len(list, 1)
}

func (s *APISuite) TestPatchDoctorPhone() {
	id := s.createDoctor("alice@example.com")

	w := s.do(http.MethodPatch, fmt.Sprintf("/doctors/%d/", id), s.doctorToken, map[string]string{"phone": "5550001111"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	body := s.decode(w)
	s.Equal("5550001111", body["phone"])
	s.Equal("Alice", body["first_name"])
	s.Equal("Cardiology", body["specialty"])
	s.Equal("alice@example.com", body["email"])
}

func (s *APISuite) TestPutRequiresAllFields() {
	id := s.createDoctor("alice@example.com")

	w := s.do(http.MethodPut, fmt.Sprintf("/doctors/%d/", id), s.doctorToken, map[string]string{"phone": "5550001111"})
	s.Require().Equal(http.StatusBadRequest, w.Code)
	errs := s.decode(w)["errors"].(map[string]interface{})
	s.Contains(errs, "first_name")
	s.Contains(errs, "email")
}

func (s *APISuite) TestDeleteAppointment() {
	appointmentID := s.createAppointment(s.createPatient("jane@example.com"), s.createDoctor("alice@example.com"))
	path := fmt.Sprintf("/appointments/%d/", appointmentID)

	w := s.do(http.MethodDelete, path, s.patientToken, nil)
	s.Equal(http.StatusNoContent, w.Code)
	s.Empty(w.Body.String())

	s.Equal(http.StatusNotFound, s.do(http.MethodGet, path, s.patientToken, nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, path, s.patientToken, nil).Code)
}

func (s *APISuite) TestAppointmentDefaultsAndStatusChanges() {
	appointmentID := s.createAppointment(s.createPatient("jane@example.com"), s.createDoctor("alice@example.com"))
	path := fmt.Sprintf("/appointments/%d/", appointmentID)

	body := s.decode(s.do(http.MethodGet, path, s.patientToken, nil))
	s.Equal("scheduled", body["status"])
	s.Equal("2025-10-01T10:00:00Z", body["appointment_datetime"])

	w := s.do(http.MethodPatch, path, s.patientToken, map[string]string{"status": "completed"})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("completed", s.decode(w)["status"])

	w = s.do(http.MethodPatch, path, s.patientToken, map[string]string{"status": "lost"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APISuite) TestDeletePatientCascadesAppointments() {
	patientID := s.createPatient("jane@example.com")
	doctorID := s.createDoctor("alice@example.com")
	appointmentID := s.createAppointment(patientID, doctorID)

	w := s.do(http.MethodPost, "/prescriptions/", s.doctorToken, map[string]interface{}{
		"appointment_id": appointmentID, "medication": "Ibuprofen", "dosage": "200mg", "instructions": "Take after meals",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	prescriptionID := uint(s.decode(w)["id"].(float64))

	s.Require().Equal(http.StatusNoContent, s.do(http.MethodDelete, fmt.Sprintf("/patients/%d/", patientID), s.patientToken, nil).Code)

	s.Equal(http.StatusNotFound, s.do(http.MethodGet, fmt.Sprintf("/appointments/%d/", appointmentID), s.patientToken, nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, fmt.Sprintf("/prescriptions/%d/", prescriptionID), s.doctorToken, nil).Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, fmt.Sprintf("/doctors/%d/", doctorID), s.doctorToken, nil).Code)
}

func (s *APISuite) TestDeleteDoctorNullifiesHealthRecord() {
	patientID := s.createPatient("tom@example.com")
	doctorID := s.createDoctor("sue@example.com")

	w := s.do(http.MethodPost, "/health-records/", s.nobodyToken, map[string]interface{}{
		"patient_id": patientID, "doctor_id": doctorID, "record_date": "2025-09-01",
		"diagnosis": "Flu", "treatment": "Rest and fluids",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	created := s.decode(w)
	s.Equal("sue@example.com", created["doctor"].(map[string]interface{})["email"])
	s.Equal("tom@example.com", created["patient"].(map[string]interface{})["email"])
	recordPath := fmt.Sprintf("/health-records/%d/", uint(created["id"].(float64)))

	s.Require().Equal(http.StatusNoContent, s.do(http.MethodDelete, fmt.Sprintf("/doctors/%d/", doctorID), s.doctorToken, nil).Code)

	w = s.do(http.MethodGet, recordPath, s.patientToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	body := s.decode(w)
	s.Nil(body["doctor"])
	s.Equal("Flu", body["diagnosis"])
	s.Equal(float64(patientID), body["patient"].(map[string]interface{})["id"])
}

func (s *APISuite) TestUnknownReferenceIsNotFound() {
	patientID := s.createPatient("jane@example.com")

	w := s.do(http.MethodPost, "/appointments/", s.patientToken, map[string]interface{}{
		"patient_id": patientID, "doctor_id": 404, "appointment_datetime": "2025-10-01T10:00:00Z",
	})
	s.Equal(http.StatusNotFound, w.Code)
	s.Zero(s.count(&models.Appointment{}))
}

func (s *APISuite) TestValidationErrors() {
	w := s.do(http.MethodPost, "/patients/", s.patientToken, map[string]string{
		"first_name": "Jane", "date_of_birth": "May 15th", "email": "nope",
	})
	s.Require().Equal(http.StatusBadRequest, w.Code)
	errs := s.decode(w)["errors"].(map[string]interface{})
	s.Contains(errs, "last_name")
	s.Contains(errs, "date_of_birth")
	s.Contains(errs, "email")

	s.createPatient("jane@example.com")
	w = s.do(http.MethodPost, "/patients/", s.patientToken, map[string]string{
		"first_name": "Jane", "last_name": "Doe", "date_of_birth": "1985-05-15", "email": "jane@example.com",
	})
	s.Require().Equal(http.StatusBadRequest, w.Code)
	s.Contains(s.decode(w)["errors"], "email")

	req := httptest.NewRequest(http.MethodPost, "/patients/", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+s.patientToken)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)

	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/patients/abc/", s.patientToken, nil).Code)
}

func (s *APISuite) TestAuthFlow() {
	w := s.do(http.MethodPost, "/auth/register/", "", map[string]string{
		"username": "newdoctor", "password": testPassword, "role": "doctor",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal("doctor", s.decode(w)["role"])

	w = s.do(http.MethodPost, "/auth/token/", "", map[string]string{"username": "newdoctor", "password": "wrong"})
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/auth/token/", "", map[string]string{"username": "newdoctor", "password": testPassword})
	s.Require().Equal(http.StatusOK, w.Code)
	pair := s.decode(w)
	access, refresh := pair["access"].(string), pair["refresh"].(string)

	w = s.do(http.MethodGet, "/auth/me/", access, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("newdoctor", s.decode(w)["username"])

	// a refresh token is not an access token
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/doctors/", refresh, nil).Code)

	w = s.do(http.MethodPost, "/auth/token/refresh/", "", map[string]string{"refresh": refresh})
	s.Require().Equal(http.StatusOK, w.Code)
	s.NotEmpty(s.decode(w)["access"])

	// another account cannot revoke it
	s.Equal(http.StatusForbidden, s.do(http.MethodPost, "/auth/logout/", s.patientToken, map[string]string{"refresh": refresh}).Code)
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/auth/token/refresh/", "", map[string]string{"refresh": refresh}).Code)

	s.Equal(http.StatusNoContent, s.do(http.MethodPost, "/auth/logout/", access, map[string]string{"refresh": refresh}).Code)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodPost, "/auth/token/refresh/", "", map[string]string{"refresh": refresh}).Code)
}

func (s *APISuite) TestMeWithoutProfile() {
	w := s.do(http.MethodGet, "/auth/me/", s.nobodyToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Nil(s.decode(w)["role"])
}

func (s *APISuite) TestHealthz() {
	w := s.do(http.MethodGet, "/healthz", "", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}
