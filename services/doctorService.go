package services

import (
	"ClinicRecords/dtos"
	"ClinicRecords/models"
	"ClinicRecords/repositories"
	"context"
)

type DoctorService struct {
	repository *repositories.DoctorRepository
}

func NewDoctorService(repository *repositories.DoctorRepository) *DoctorService {
	return &DoctorService{repository: repository}
}

func (s *DoctorService) Create(ctx context.Context, req dtos.DoctorRequest) (*models.Doctor, error) {
	if err := req.Validate(false); err != nil {
		return nil, err
	}
	if err := checkEmail(ctx, "doctor", req.Email, 0, s.repository); err != nil {
		return nil, err
	}
	doctor := req.ToModel()
	if err := s.repository.Create(ctx, doctor); err != nil {
		return nil, emailConflict("doctor", err)
	}
	return doctor, nil
}

func (s *DoctorService) GetByID(ctx context.Context, id uint) (*models.Doctor, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *DoctorService) GetAll(ctx context.Context) ([]models.Doctor, error) {
	return s.repository.GetAll(ctx)
}

func (s *DoctorService) Update(ctx context.Context, id uint, req dtos.DoctorRequest, partial bool) (*models.Doctor, error) {
	if err := ensureExists(ctx, id, s.repository); err != nil {
		return nil, err
	}
	if err := req.Validate(partial); err != nil {
		return nil, err
	}
	if err := checkEmail(ctx, "doctor", req.Email, id, s.repository); err != nil {
		return nil, err
	}
	doctor, err := s.repository.Update(ctx, id, req.Fields())
	if err != nil {
		return nil, emailConflict("doctor", err)
	}
	return doctor, nil
}

// Delete removes the doctor and its appointments. Health records written by
// the doctor are kept with their doctor cleared.
func (s *DoctorService) Delete(ctx context.Context, id uint) error {
	return s.repository.Delete(ctx, id)
}
