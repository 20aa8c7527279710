package repositories

import (
	"ClinicRecords/cache"
	"ClinicRecords/models"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HealthRecordRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewHealthRecordRepository(db *gorm.DB, cache *cache.Cache) *HealthRecordRepository {
	return &HealthRecordRepository{db: db, cache: cache}
}

// withParties preloads the embedded patient and doctor.
func withParties(db *gorm.DB) *gorm.DB {
	return db.Preload("Patient").Preload("Doctor")
}

// Create stores the record and reloads it with its patient and doctor.
func (r *HealthRecordRepository) Create(ctx context.Context, record *models.HealthRecord) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(record).Error; err != nil {
		return translateError(err, "failed to create health record")
	}
	if err := withParties(db).First(record, "id = ?", record.ID).Error; err != nil {
		return translateError(err, "failed to reload health record")
	}
	invalidate(ctx, r.cache, healthRecordKind)
	return nil
}

func (r *HealthRecordRepository) GetByID(ctx context.Context, id uint) (*models.HealthRecord, error) {
	return readThrough(ctx, r.cache, healthRecordKind, itemCacheKey(healthRecordKind, id), func(ctx context.Context) (*models.HealthRecord, error) {
		var record models.HealthRecord
		if err := withParties(r.db.WithContext(ctx)).First(&record, "id = ?", id).Error; err != nil {
			return nil, translateError(err, "failed to get health record")
		}
		return &record, nil
	})
}

func (r *HealthRecordRepository) GetAll(ctx context.Context) ([]models.HealthRecord, error) {
	return readThrough(ctx, r.cache, healthRecordKind, listCacheKey(healthRecordKind), func(ctx context.Context) ([]models.HealthRecord, error) {
		records := []models.HealthRecord{}
		if err := withParties(r.db.WithContext(ctx)).Order("id ASC").Find(&records).Error; err != nil {
			return nil, translateError(err, "failed to get all health records")
		}
		return records, nil
	})
}

// Update writes only the given columns and returns the stored row with its
// patient and doctor.
func (r *HealthRecordRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.HealthRecord, error) {
	var record models.HealthRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&record, "id = ?", id).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&models.HealthRecord{}).Where("id = ?", id).Updates(fields).Error; err != nil {
				return err
			}
		}
		record = models.HealthRecord{}
		return withParties(tx).First(&record, "id = ?", id).Error
	})
	if err != nil {
		return nil, translateError(err, "failed to update health record")
	}
	invalidate(ctx, r.cache, healthRecordKind)
	return &record, nil
}

func (r *HealthRecordRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.HealthRecord{}, id)
	if result.Error != nil {
		return translateError(result.Error, "failed to delete health record")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	invalidate(ctx, r.cache, healthRecordKind)
	return nil
}

func (r *HealthRecordRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &models.HealthRecord{}, id)
}
