package repositories

import (
	"ClinicRecords/cache"
	"ClinicRecords/models"
	"context"

	"gorm.io/gorm"
)

type PrescriptionRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewPrescriptionRepository(db *gorm.DB, cache *cache.Cache) *PrescriptionRepository {
	return &PrescriptionRepository{db: db, cache: cache}
}

func (r *PrescriptionRepository) Create(ctx context.Context, prescription *models.Prescription) error {
	if err := r.db.WithContext(ctx).Create(prescription).Error; err != nil {
		return translateError(err, "failed to create prescription")
	}
	invalidate(ctx, r.cache, prescriptionKind)
	return nil
}

func (r *PrescriptionRepository) GetByID(ctx context.Context, id uint) (*models.Prescription, error) {
	return readThrough(ctx, r.cache, prescriptionKind, itemCacheKey(prescriptionKind, id), func(ctx context.Context) (*models.Prescription, error) {
		var prescription models.Prescription
		if err := r.db.WithContext(ctx).First(&prescription, "id = ?", id).Error; err != nil {
			return nil, translateError(err, "failed to get prescription")
		}
		return &prescription, nil
	})
}

func (r *PrescriptionRepository) GetAll(ctx context.Context) ([]models.Prescription, error) {
	return readThrough(ctx, r.cache, prescriptionKind, listCacheKey(prescriptionKind), func(ctx context.Context) ([]models.Prescription, error) {
		prescriptions := []models.Prescription{}
		if err := r.db.WithContext(ctx).Order("id ASC").Find(&prescriptions).Error; err != nil {
			return nil, translateError(err, "failed to get all prescriptions")
		}
		return prescriptions, nil
	})
}

func (r *PrescriptionRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.Prescription, error) {
	var prescription models.Prescription
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&prescription, "id = ?", id).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&prescription).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&prescription, "id = ?", id).Error
	})
	if err != nil {
		return nil, translateError(err, "failed to update prescription")
	}
	invalidate(ctx, r.cache, prescriptionKind)
	return &prescription, nil
}

func (r *PrescriptionRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Prescription{}, id)
	if result.Error != nil {
		return translateError(result.Error, "failed to delete prescription")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	invalidate(ctx, r.cache, prescriptionKind)
	return nil
}

func (r *PrescriptionRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &models.Prescription{}, id)
}
