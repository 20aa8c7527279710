package repositories

import (
	"ClinicRecords/cache"
	"ClinicRecords/models"
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	UsernameExists(ctx context.Context, username string) (bool, error)
	// GetUserByUsername returns the user including its password hash.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetIdentity returns the user with its profile, without the password hash.
	GetIdentity(ctx context.Context, userID uint) (*models.User, error)
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewUserRepository(db *gorm.DB, cache *cache.Cache) UserRepository {
	return &userRepository{db: db, cache: cache}
}

// CreateUser stores the user and, when set, its profile in one transaction.
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile := user.Profile
		if err := tx.Omit("Profile").Create(user).Error; err != nil {
			return err
		}
		if profile == nil {
			return nil
		}
		profile.UserID = user.ID
		return tx.Create(profile).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateUsername
	}
	return translateError(err, "failed to create user")
}

func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, translateError(err, "failed to check username existence")
	}
	return count > 0, nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, translateError(err, "failed to get user")
	}
	return &user, nil
}

func (r *userRepository) GetIdentity(ctx context.Context, userID uint) (*models.User, error) {
	return readThrough(ctx, r.cache, userKind, itemCacheKey(userKind, userID), func(ctx context.Context) (*models.User, error) {
		var user models.User
		err := r.db.WithContext(ctx).
			Select("id, username, is_active, created_at").
			Preload("Profile").
			First(&user, "id = ?", userID).Error
		if err != nil {
			return nil, translateError(err, "failed to get user")
		}
		return &user, nil
	})
}
