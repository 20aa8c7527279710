package services

import (
	"ClinicRecords/dtos"
	"ClinicRecords/models"
	"ClinicRecords/repositories"
	"context"
)

type PatientService struct {
	repository *repositories.PatientRepository
}

func NewPatientService(repository *repositories.PatientRepository) *PatientService {
	return &PatientService{repository: repository}
}

func (s *PatientService) Create(ctx context.Context, req dtos.PatientRequest) (*models.Patient, error) {
	if err := req.Validate(false); err != nil {
		return nil, err
	}
	if err := checkEmail(ctx, "patient", req.Email, 0, s.repository); err != nil {
		return nil, err
	}
	patient := req.ToModel()
	if err := s.repository.Create(ctx, patient); err != nil {
		return nil, emailConflict("patient", err)
	}
	return patient, nil
}

func (s *PatientService) GetByID(ctx context.Context, id uint) (*models.Patient, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *PatientService) GetAll(ctx context.Context) ([]models.Patient, error) {
	return s.repository.GetAll(ctx)
}

// Update applies the supplied fields. A full update requires every
// mandatory field, a partial one only validates what is present.
func (s *PatientService) Update(ctx context.Context, id uint, req dtos.PatientRequest, partial bool) (*models.Patient, error) {
	if err := ensureExists(ctx, id, s.repository); err != nil {
		return nil, err
	}
	if err := req.Validate(partial); err != nil {
		return nil, err
	}
	if err := checkEmail(ctx, "patient", req.Email, id, s.repository); err != nil {
		return nil, err
	}
	patient, err := s.repository.Update(ctx, id, req.Fields())
	if err != nil {
		return nil, emailConflict("patient", err)
	}
	return patient, nil
}

// Delete removes the patient with its appointments, prescriptions and
// health records.
func (s *PatientService) Delete(ctx context.Context, id uint) error {
	return s.repository.Delete(ctx, id)
}
