package services

import (
	"ClinicRecords/dtos"
	"ClinicRecords/models"
	"ClinicRecords/repositories"
	"context"
)

type HealthRecordService struct {
	repository *repositories.HealthRecordRepository
	patients   *repositories.PatientRepository
	doctors    *repositories.DoctorRepository
}

func NewHealthRecordService(repository *repositories.HealthRecordRepository, patients *repositories.PatientRepository, doctors *repositories.DoctorRepository) *HealthRecordService {
	return &HealthRecordService{repository: repository, patients: patients, doctors: doctors}
}

func (s *HealthRecordService) Create(ctx context.Context, req dtos.HealthRecordRequest) (*models.HealthRecord, error) {
	if err := req.Validate(false); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}
	record := req.ToModel()
	if err := s.repository.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *HealthRecordService) GetByID(ctx context.Context, id uint) (*models.HealthRecord, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *HealthRecordService) GetAll(ctx context.Context) ([]models.HealthRecord, error) {
	return s.repository.GetAll(ctx)
}

// Update applies the supplied fields. An explicit null doctor_id clears the
// doctor.
func (s *HealthRecordService) Update(ctx context.Context, id uint, req dtos.HealthRecordRequest, partial bool) (*models.HealthRecord, error) {
	if err := ensureExists(ctx, id, s.repository); err != nil {
		return nil, err
	}
	if err := req.Validate(partial); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}
	return s.repository.Update(ctx, id, req.Fields())
}

func (s *HealthRecordService) Delete(ctx context.Context, id uint) error {
	return s.repository.Delete(ctx, id)
}

func (s *HealthRecordService) checkReferences(ctx context.Context, req dtos.HealthRecordRequest) error {
	if err := checkReference(ctx, "patient_id", req.PatientID, s.patients); err != nil {
		return err
	}
	return checkReference(ctx, "doctor_id", req.DoctorID.Ptr(), s.doctors)
}
