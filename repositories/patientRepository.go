package repositories

import (
	"ClinicRecords/cache"
	"ClinicRecords/models"
	"context"

	"gorm.io/gorm"
)

type PatientRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewPatientRepository(db *gorm.DB, cache *cache.Cache) *PatientRepository {
	return &PatientRepository{db: db, cache: cache}
}

func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	if err := r.db.WithContext(ctx).Omit("Appointments", "HealthRecords").Create(patient).Error; err != nil {
		return translateError(err, "failed to create patient")
	}
	invalidate(ctx, r.cache, patientKind)
	return nil
}

func (r *PatientRepository) GetByID(ctx context.Context, id uint) (*models.Patient, error) {
	return readThrough(ctx, r.cache, patientKind, itemCacheKey(patientKind, id), func(ctx context.Context) (*models.Patient, error) {
		var patient models.Patient
		if err := r.db.WithContext(ctx).First(&patient, "id = ?", id).Error; err != nil {
			return nil, translateError(err, "failed to get patient")
		}
		return &patient, nil
	})
}

func (r *PatientRepository) GetAll(ctx context.Context) ([]models.Patient, error) {
	return readThrough(ctx, r.cache, patientKind, listCacheKey(patientKind), func(ctx context.Context) ([]models.Patient, error) {
		patients := []models.Patient{}
		if err := r.db.WithContext(ctx).Order("id ASC").Find(&patients).Error; err != nil {
			return nil, translateError(err, "failed to get all patients")
		}
		return patients, nil
	})
}

// Update writes only the given columns and returns the stored row.
func (r *PatientRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.Patient, error) {
	var patient models.Patient
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&patient, "id = ?", id).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&patient).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&patient, "id = ?", id).Error
	})
	if err != nil {
		return nil, translateError(err, "failed to update patient")
	}
	// health records embed the patient
	invalidate(ctx, r.cache, patientKind, healthRecordKind)
	return &patient, nil
}

// Delete removes the patient together with its appointments, their
// prescriptions and the patient's health records.
func (r *PatientRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var patient models.Patient
		if err := tx.Select("id").First(&patient, "id = ?", id).Error; err != nil {
			return err
		}

		var appointmentIDs []uint
		if err := tx.Model(&models.Appointment{}).Where("patient_id = ?", id).Pluck("id", &appointmentIDs).Error; err != nil {
			return err
		}
		if err := deleteAppointments(tx, appointmentIDs); err != nil {
			return err
		}
		if err := tx.Where("patient_id = ?", id).Delete(&models.HealthRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Patient{}, id).Error
	})
	if err != nil {
		return translateError(err, "failed to delete patient")
	}
	invalidate(ctx, r.cache, patientKind, appointmentKind, prescriptionKind, healthRecordKind)
	return nil
}

func (r *PatientRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &models.Patient{}, id)
}

// EmailTaken reports whether another patient than excludeID uses email.
func (r *PatientRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return emailTaken(ctx, r.db, &models.Patient{}, email, excludeID)
}

// deleteAppointments removes the given appointments and their prescriptions.
func deleteAppointments(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("appointment_id IN ?", ids).Delete(&models.Prescription{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Appointment{}).Error
}
