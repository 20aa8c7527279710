package repositories

import (
	"ClinicRecords/cache"
	"ClinicRecords/models"
	"context"

	"gorm.io/gorm"
)

type DoctorRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewDoctorRepository(db *gorm.DB, cache *cache.Cache) *DoctorRepository {
	return &DoctorRepository{db: db, cache: cache}
}

func (r *DoctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	if err := r.db.WithContext(ctx).Omit("Appointments", "HealthRecords").Create(doctor).Error; err != nil {
		return translateError(err, "failed to create doctor")
	}
	invalidate(ctx, r.cache, doctorKind)
	return nil
}

func (r *DoctorRepository) GetByID(ctx context.Context, id uint) (*models.Doctor, error) {
	return readThrough(ctx, r.cache, doctorKind, itemCacheKey(doctorKind, id), func(ctx context.Context) (*models.Doctor, error) {
		var doctor models.Doctor
		if err := r.db.WithContext(ctx).First(&doctor, "id = ?", id).Error; err != nil {
			return nil, translateError(err, "failed to get doctor")
		}
		return &doctor, nil
	})
}

func (r *DoctorRepository) GetAll(ctx context.Context) ([]models.Doctor, error) {
	return readThrough(ctx, r.cache, doctorKind, listCacheKey(doctorKind), func(ctx context.Context) ([]models.Doctor, error) {
		doctors := []models.Doctor{}
		if err := r.db.WithContext(ctx).Order("id ASC").Find(&doctors).Error; err != nil {
			return nil, translateError(err, "failed to get all doctors")
		}
		return doctors, nil
	})
}

// Update writes only the given columns and returns the stored row.
func (r *DoctorRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.Doctor, error) {
	var doctor models.Doctor
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&doctor, "id = ?", id).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&doctor).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&doctor, "id = ?", id).Error
	})
	if err != nil {
		return nil, translateError(err, "failed to update doctor")
	}
	invalidate(ctx, r.cache, doctorKind, healthRecordKind)
	return &doctor, nil
}

// Delete removes the doctor and its appointments (with their prescriptions).
// Health records authored by the doctor are kept with the reference cleared.
func (r *DoctorRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doctor models.Doctor
		if err := tx.Select("id").First(&doctor, "id = ?", id).Error; err != nil {
			return err
		}

		var appointmentIDs []uint
		if err := tx.Model(&models.Appointment{}).Where("doctor_id = ?", id).Pluck("id", &appointmentIDs).Error; err != nil {
			return err
		}
		if err := deleteAppointments(tx, appointmentIDs); err != nil {
			return err
		}
		if err := tx.Model(&models.HealthRecord{}).Where("doctor_id = ?", id).Update("doctor_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Doctor{}, id).Error
	})
	if err != nil {
		return translateError(err, "failed to delete doctor")
	}
	invalidate(ctx, r.cache, doctorKind, appointmentKind, prescriptionKind, healthRecordKind)
	return nil
}

func (r *DoctorRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &models.Doctor{}, id)
}

// EmailTaken reports whether another doctor than excludeID uses email.
func (r *DoctorRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return emailTaken(ctx, r.db, &models.Doctor{}, email, excludeID)
}
