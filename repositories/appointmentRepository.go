package repositories

import (
	"ClinicRecords/cache"
	"ClinicRecords/models"
	"context"

	"gorm.io/gorm"
)

type AppointmentRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewAppointmentRepository(db *gorm.DB, cache *cache.Cache) *AppointmentRepository {
	return &AppointmentRepository{db: db, cache: cache}
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if appointment.Status == "" {
		appointment.Status = models.StatusScheduled
	}
	if err := r.db.WithContext(ctx).Omit("Prescriptions").Create(appointment).Error; err != nil {
		return translateError(err, "failed to create appointment")
	}
	invalidate(ctx, r.cache, appointmentKind)
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	return readThrough(ctx, r.cache, appointmentKind, itemCacheKey(appointmentKind, id), func(ctx context.Context) (*models.Appointment, error) {
		var appointment models.Appointment
		if err := r.db.WithContext(ctx).First(&appointment, "id = ?", id).Error; err != nil {
			return nil, translateError(err, "failed to get appointment")
		}
		return &appointment, nil
	})
}

func (r *AppointmentRepository) GetAll(ctx context.Context) ([]models.Appointment, error) {
	return readThrough(ctx, r.cache, appointmentKind, listCacheKey(appointmentKind), func(ctx context.Context) ([]models.Appointment, error) {
		appointments := []models.Appointment{}
		if err := r.db.WithContext(ctx).Order("id ASC").Find(&appointments).Error; err != nil {
			return nil, translateError(err, "failed to get all appointments")
		}
		return appointments, nil
	})
}

// Update writes only the given columns and returns the stored row.
func (r *AppointmentRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&appointment, "id = ?", id).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&appointment).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&appointment, "id = ?", id).Error
	})
	if err != nil {
		return nil, translateError(err, "failed to update appointment")
	}
	invalidate(ctx, r.cache, appointmentKind)
	return &appointment, nil
}

// Delete removes the appointment and its prescriptions.
func (r *AppointmentRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var appointment models.Appointment
		if err := tx.Select("id").First(&appointment, "id = ?", id).Error; err != nil {
			return err
		}
		return deleteAppointments(tx, []uint{id})
	})
	if err != nil {
		return translateError(err, "failed to delete appointment")
	}
	invalidate(ctx, r.cache, appointmentKind, prescriptionKind)
	return nil
}

func (r *AppointmentRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &models.Appointment{}, id)
}
