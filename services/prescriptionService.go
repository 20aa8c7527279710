package services

import (
	"ClinicRecords/dtos"
	"ClinicRecords/models"
	"ClinicRecords/repositories"
	"context"
)

type PrescriptionService struct {
	repository   *repositories.PrescriptionRepository
	appointments *repositories.AppointmentRepository
}

func NewPrescriptionService(repository *repositories.PrescriptionRepository, appointments *repositories.AppointmentRepository) *PrescriptionService {
	return &PrescriptionService{repository: repository, appointments: appointments}
}

func (s *PrescriptionService) Create(ctx context.Context, req dtos.PrescriptionRequest) (*models.Prescription, error) {
	if err := req.Validate(false); err != nil {
		return nil, err
	}
	if err := checkReference(ctx, "appointment_id", req.AppointmentID, s.appointments); err != nil {
		return nil, err
	}
	prescription := req.ToModel()
	if err := s.repository.Create(ctx, prescription); err != nil {
		return nil, err
	}
	return prescription, nil
}

func (s *PrescriptionService) GetByID(ctx context.Context, id uint) (*models.Prescription, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *PrescriptionService) GetAll(ctx context.Context) ([]models.Prescription, error) {
	return s.repository.GetAll(ctx)
}

func (s *PrescriptionService) Update(ctx context.Context, id uint, req dtos.PrescriptionRequest, partial bool) (*models.Prescription, error) {
	if err := ensureExists(ctx, id, s.repository); err != nil {
		return nil, err
	}
	if err := req.Validate(partial); err != nil {
		return nil, err
	}
	if err := checkReference(ctx, "appointment_id", req.AppointmentID, s.appointments); err != nil {
		return nil, err
	}
	return s.repository.Update(ctx, id, req.Fields())
}

func (s *PrescriptionService) Delete(ctx context.Context, id uint) error {
	return s.repository.Delete(ctx, id)
}
