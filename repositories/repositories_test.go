package repositories

import (
	"ClinicRecords/cache"
	"ClinicRecords/database/dbtest"
	"ClinicRecords/models"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type RepositorySuite struct {
	suite.Suite
	ctx   context.Context
	db    *gorm.DB
	cache *cache.Cache

	patients      *PatientRepository
	doctors       *DoctorRepository
	appointments  *AppointmentRepository
	prescriptions *PrescriptionRepository
	records       *HealthRecordRepository
	users         UserRepository
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.db = dbtest.NewDB(s.T())
	client, _ := dbtest.NewRedis(s.T())

	var err error
	s.cache, err = cache.NewCache(client, time.Minute)
	s.Require().NoError(err)

	s.patients = NewPatientRepository(s.db, s.cache)
	s.doctors = NewDoctorRepository(s.db, s.cache)
	s.appointments = NewAppointmentRepository(s.db, s.cache)
	s.prescriptions = NewPrescriptionRepository(s.db, s.cache)
	s.records = NewHealthRecordRepository(s.db, s.cache)
	s.users = NewUserRepository(s.db, s.cache)
}

func (s *RepositorySuite) seedPatient(email string) *models.Patient {
	p := &models.Patient{FirstName: "John", LastName: "Doe", DateOfBirth: "1990-01-01", Email: email, Phone: "1234567890"}
	s.Require().NoError(s.patients.Create(s.ctx, p))
	return p
}

func (s *RepositorySuite) seedDoctor(email string) *models.Doctor {
	d := &models.Doctor{FirstName: "Alice", LastName: "Brown", Specialty: "Cardiology", Email: email, Phone: "5551234567"}
	s.Require().NoError(s.doctors.Create(s.ctx, d))
	return d
}

func (s *RepositorySuite) seedAppointment(patientID, doctorID uint) *models.Appointment {
	a := &models.Appointment{
		PatientID:           patientID,
		DoctorID:            doctorID,
		AppointmentDatetime: time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.appointments.Create(s.ctx, a))
	return a
}

func (s *RepositorySuite) seedPrescription(appointmentID uint) *models.Prescription {
	p := &models.Prescription{AppointmentID: appointmentID, Medication: "Ibuprofen", Dosage: "200mg", Instructions: "Take after meals"}
	s.Require().NoError(s.prescriptions.Create(s.ctx, p))
	return p
}

func (s *RepositorySuite) TestCreateAssignsIDAndDefaultsStatus() {
	patient := s.seedPatient("john@example.com")
	doctor := s.seedDoctor("alice@example.com")
	appointment := s.seedAppointment(patient.ID, doctor.ID)

	s.NotZero(patient.ID)
	s.NotZero(appointment.ID)
	s.Equal(models.StatusScheduled, appointment.Status)
}

func (s *RepositorySuite) TestGetByIDUnknownReturnsNotFound() {
	_, err := s.patients.GetByID(s.ctx, 42)
	s.ErrorIs(err, ErrNotFound)
	_, err = s.records.GetByID(s.ctx, 42)
	s.ErrorIs(err, ErrNotFound)
	s.ErrorIs(s.prescriptions.Delete(s.ctx, 42), ErrNotFound)
	s.ErrorIs(s.appointments.Delete(s.ctx, 42), ErrNotFound)
}

func (s *RepositorySuite) TestUpdateChangesOnlyGivenColumns() {
	doctor := s.seedDoctor("alice@example.com")

	updated, err := s.doctors.Update(s.ctx, doctor.ID, map[string]interface{}{"phone": "5550001111"})
	s.Require().NoError(err)

	s.Equal("5550001111", updated.Phone)
	s.Equal(doctor.FirstName, updated.FirstName)
	s.Equal(doctor.Specialty, updated.Specialty)
	s.Equal(doctor.Email, updated.Email)
}

func (s *RepositorySuite) TestUpdateRefreshesCachedRead() {
	doctor := s.seedDoctor("alice@example.com")

	_, err := s.doctors.GetByID(s.ctx, doctor.ID)
	s.Require().NoError(err)

	_, err = s.doctors.Update(s.ctx, doctor.ID, map[string]interface{}{"specialty": "Neurology"})
	s.Require().NoError(err)

	got, err := s.doctors.GetByID(s.ctx, doctor.ID)
	s.Require().NoError(err)
	s.Equal("Neurology", got.Specialty)
}

// commitDuringLoad runs write once, right after the next query on table has
// read its rows and before the caller stores them in the cache.
func (s *RepositorySuite) commitDuringLoad(table string, write func()) {
	name := "test:commit_during_load_" + table
	armed := true
	s.Require().NoError(s.db.Callback().Query().After("gorm:query").Register(name, func(tx *gorm.DB) {
		if !armed || tx.Statement.Table != table {
			return
		}
		armed = false
		write()
	}))
	s.T().Cleanup(func() { _ = s.db.Callback().Query().Remove(name) })
}

func (s *RepositorySuite) TestConcurrentUpdateDropsStaleFill() {
	doctor := s.seedDoctor("alice@example.com")

	s.commitDuringLoad("doctors", func() {
		_, err := s.doctors.Update(s.ctx, doctor.ID, map[string]interface{}{"specialty": "Neurology"})
		s.Require().NoError(err)
	})

	first, err := s.doctors.GetByID(s.ctx, doctor.ID)
	s.Require().NoError(err)
	s.Equal("Cardiology", first.Specialty)

	got, err := s.doctors.GetByID(s.ctx, doctor.ID)
	s.Require().NoError(err)
	s.Equal("Neurology", got.Specialty)
}

func (s *RepositorySuite) TestConcurrentDeleteDropsStaleFill() {
	patient := s.seedPatient("john@example.com")
	doctor := s.seedDoctor("alice@example.com")
	appointment := s.seedAppointment(patient.ID, doctor.ID)

	s.commitDuringLoad("appointments", func() {
		s.Require().NoError(s.appointments.Delete(s.ctx, appointment.ID))
	})

	_, err := s.appointments.GetByID(s.ctx, appointment.ID)
	s.Require().NoError(err)

	_, err = s.appointments.GetByID(s.ctx, appointment.ID)
	s.ErrorIs(err, ErrNotFound)

	cached, err := s.cache.Exists(s.ctx, itemCacheKey(appointmentKind, appointment.ID))
	s.Require().NoError(err)
	s.False(cached)
}

func (s *RepositorySuite) TestDeletePatientCascades() {
	patient := s.seedPatient("john@example.com")
	doctor := s.seedDoctor("alice@example.com")
	appointment := s.seedAppointment(patient.ID, doctor.ID)
	prescription := s.seedPrescription(appointment.ID)
	record := &models.HealthRecord{PatientID: patient.ID, DoctorID: &doctor.ID, RecordDate: "2025-09-01", Diagnosis: "Flu"}
	s.Require().NoError(s.records.Create(s.ctx, record))

	// warm the caches so stale entries would show up
	_, err := s.appointments.GetAll(s.ctx)
	s.Require().NoError(err)
	_, err = s.prescriptions.GetByID(s.ctx, prescription.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.patients.Delete(s.ctx, patient.ID))

	_, err = s.appointments.GetByID(s.ctx, appointment.ID)
	s.ErrorIs(err, ErrNotFound)
	_, err = s.prescriptions.GetByID(s.ctx, prescription.ID)
	s.ErrorIs(err, ErrNotFound)
	_, err = s.records.GetByID(s.ctx, record.ID)
	s.ErrorIs(err, ErrNotFound)

	all, err := s.appointments.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)

	_, err = s.doctors.GetByID(s.ctx, doctor.ID)
	s.NoError(err)
}

func (s *RepositorySuite) TestDeleteDoctorNullifiesHealthRecords() {
	patient := s.seedPatient("tom@example.com")
	doctor := s.seedDoctor("sue@example.com")
	appointment := s.seedAppointment(patient.ID, doctor.ID)
	record := &models.HealthRecord{PatientID: patient.ID, DoctorID: &doctor.ID, RecordDate: "2025-09-01", Diagnosis: "Flu", Treatment: "Rest and fluids"}
	s.Require().NoError(s.records.Create(s.ctx, record))
	s.Require().NotNil(record.Doctor)

	s.Require().NoError(s.doctors.Delete(s.ctx, doctor.ID))

	got, err := s.records.GetByID(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Nil(got.DoctorID)
	s.Nil(got.Doctor)
	s.Equal(patient.ID, got.Patient.ID)

	_, err = s.appointments.GetByID(s.ctx, appointment.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *RepositorySuite) TestDeleteAppointmentRemovesPrescriptions() {
	patient := s.seedPatient("ann@example.com")
	doctor := s.seedDoctor("greg@example.com")
	appointment := s.seedAppointment(patient.ID, doctor.ID)
	prescription := s.seedPrescription(appointment.ID)

	s.Require().NoError(s.appointments.Delete(s.ctx, appointment.ID))

	_, err := s.prescriptions.GetByID(s.ctx, prescription.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *RepositorySuite) TestHealthRecordEmbedsParties() {
	patient := s.seedPatient("tom@example.com")
	doctor := s.seedDoctor("sue@example.com")
	record := &models.HealthRecord{PatientID: patient.ID, DoctorID: &doctor.ID, RecordDate: "2025-09-01", Diagnosis: "Flu"}
	s.Require().NoError(s.records.Create(s.ctx, record))

	all, err := s.records.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal(patient.Email, all[0].Patient.Email)
	s.Require().NotNil(all[0].Doctor)
	s.Equal(doctor.Email, all[0].Doctor.Email)

	updated, err := s.records.Update(s.ctx, record.ID, map[string]interface{}{"doctor_id": nil})
	s.Require().NoError(err)
	s.Nil(updated.Doctor)
	s.Equal("Flu", updated.Diagnosis)
}

func (s *RepositorySuite) TestPatientUpdateRefreshesEmbeddedRecord() {
	patient := s.seedPatient("tom@example.com")
	record := &models.HealthRecord{PatientID: patient.ID, RecordDate: "2025-09-01", Diagnosis: "Flu"}
	s.Require().NoError(s.records.Create(s.ctx, record))

	_, err := s.records.GetByID(s.ctx, record.ID)
	s.Require().NoError(err)

	_, err = s.patients.Update(s.ctx, patient.ID, map[string]interface{}{"last_name": "Green"})
	s.Require().NoError(err)

	got, err := s.records.GetByID(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Equal("Green", got.Patient.LastName)
}

func (s *RepositorySuite) TestEmailTaken() {
	patient := s.seedPatient("john@example.com")

	taken, err := s.patients.EmailTaken(s.ctx, "john@example.com", 0)
	s.Require().NoError(err)
	s.True(taken)

	taken, err = s.patients.EmailTaken(s.ctx, "john@example.com", patient.ID)
	s.Require().NoError(err)
	s.False(taken)
}

func (s *RepositorySuite) TestDuplicateEmailIsTranslated() {
	s.seedPatient("john@example.com")

	err := s.patients.Create(s.ctx, &models.Patient{FirstName: "Jo", LastName: "Doe", DateOfBirth: "1991-02-02", Email: "john@example.com"})
	s.ErrorIs(err, ErrDuplicateEmail)

	s.seedDoctor("alice@example.com")
	err = s.doctors.Create(s.ctx, &models.Doctor{FirstName: "Al", LastName: "Brown", Specialty: "Dermatology", Email: "alice@example.com"})
	s.ErrorIs(err, ErrDuplicateEmail)
}

func (s *RepositorySuite) TestDuplicateUsernameIsTranslated() {
	s.Require().NoError(s.users.CreateUser(s.ctx, &models.User{Username: "doctor1", Password: "hash", IsActive: true}))

	err := s.users.CreateUser(s.ctx, &models.User{Username: "doctor1", Password: "hash", IsActive: true, Profile: &models.Profile{Role: models.RoleDoctor}})
	s.ErrorIs(err, ErrDuplicateUsername)
}

func (s *RepositorySuite) TestUserIdentityCarriesProfile() {
	withRole := &models.User{Username: "doctor1", Password: "hash", IsActive: true, Profile: &models.Profile{Role: models.RoleDoctor}}
	withoutRole := &models.User{Username: "nobody", Password: "hash", IsActive: true}
	s.Require().NoError(s.users.CreateUser(s.ctx, withRole))
	s.Require().NoError(s.users.CreateUser(s.ctx, withoutRole))

	identity, err := s.users.GetIdentity(s.ctx, withRole.ID)
	s.Require().NoError(err)
	s.Require().NotNil(identity.Profile)
	s.Equal(models.RoleDoctor, identity.Profile.Role)
	s.Empty(identity.Password)

	identity, err = s.users.GetIdentity(s.ctx, withoutRole.ID)
	s.Require().NoError(err)
	s.Nil(identity.Profile)

	byName, err := s.users.GetUserByUsername(s.ctx, "doctor1")
	s.Require().NoError(err)
	s.Equal("hash", byName.Password)

	_, err = s.users.GetUserByUsername(s.ctx, "ghost")
	s.ErrorIs(err, ErrNotFound)
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "patient_cache:7", itemCacheKey(patientKind, 7))
	assert.Equal(t, "health_record_cache:list", listCacheKey(healthRecordKind))
}

func TestTranslateError(t *testing.T) {
	require.NoError(t, translateError(nil, "noop"))
	assert.ErrorIs(t, translateError(gorm.ErrRecordNotFound, "get"), ErrNotFound)
	assert.ErrorIs(t, translateError(gorm.ErrDuplicatedKey, "create"), ErrDuplicateEmail)
	assert.ErrorContains(t, translateError(gorm.ErrInvalidData, "save"), "save")
}
