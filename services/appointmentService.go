package services

import (
	"ClinicRecords/dtos"
	"ClinicRecords/logger"
	"ClinicRecords/models"
	"ClinicRecords/repositories"
	"ClinicRecords/utils"
	"context"

	"go.uber.org/zap"
)

type AppointmentService struct {
	repository *repositories.AppointmentRepository
	patients   *repositories.PatientRepository
	doctors    *repositories.DoctorRepository
	notifier   utils.Notifier
}

func NewAppointmentService(
	repository *repositories.AppointmentRepository,
	patients *repositories.PatientRepository,
	doctors *repositories.DoctorRepository,
	notifier utils.Notifier,
) *AppointmentService {
	if notifier == nil {
		notifier = utils.NoopNotifier{}
	}
	return &AppointmentService{repository: repository, patients: patients, doctors: doctors, notifier: notifier}
}

func (s *AppointmentService) Create(ctx context.Context, req dtos.AppointmentRequest) (*models.Appointment, error) {
	if err := req.Validate(false); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}
	appointment := req.ToModel()
	if err := s.repository.Create(ctx, appointment); err != nil {
		return nil, err
	}
	s.notify(ctx, appointment, false)
	return appointment, nil
}

func (s *AppointmentService) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *AppointmentService) GetAll(ctx context.Context) ([]models.Appointment, error) {
	return s.repository.GetAll(ctx)
}

// Update applies the supplied fields. Any status may follow any other.
func (s *AppointmentService) Update(ctx context.Context, id uint, req dtos.AppointmentRequest, partial bool) (*models.Appointment, error) {
	before, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(partial); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}
	appointment, err := s.repository.Update(ctx, id, req.Fields())
	if err != nil {
		return nil, err
	}
	if appointment.Status != before.Status {
		s.notify(ctx, appointment, true)
	}
	return appointment, nil
}

// Delete removes the appointment and its prescriptions.
func (s *AppointmentService) Delete(ctx context.Context, id uint) error {
	return s.repository.Delete(ctx, id)
}

func (s *AppointmentService) checkReferences(ctx context.Context, req dtos.AppointmentRequest) error {
	if err := checkReference(ctx, "patient_id", req.PatientID, s.patients); err != nil {
		return err
	}
	return checkReference(ctx, "doctor_id", req.DoctorID, s.doctors)
}

// notify tells the patient about the appointment. Delivery problems are
// logged and never fail the request.
func (s *AppointmentService) notify(ctx context.Context, appointment *models.Appointment, changed bool) {
	patient, err := s.patients.GetByID(ctx, appointment.PatientID)
	if err != nil {
		logger.LogWarn("failed to load patient for notification", zap.Uint("appointment_id", appointment.ID), zap.Error(err))
		return
	}
	doctor, err := s.doctors.GetByID(ctx, appointment.DoctorID)
	if err != nil {
		logger.LogWarn("failed to load doctor for notification", zap.Uint("appointment_id", appointment.ID), zap.Error(err))
		return
	}

	notice := utils.AppointmentNotice{
		To:          patient.Email,
		PatientName: patient.String(),
		DoctorName:  doctor.String(),
		When:        appointment.AppointmentDatetime,
		Status:      string(appointment.Status),
		Changed:     changed,
	}
	if err := s.notifier.NotifyAppointment(ctx, notice); err != nil {
		logger.LogWarn("failed to send appointment notification", zap.Stringer("appointment", appointment), zap.Error(err))
	}
}
