package repositories

import (
	"ClinicRecords/cache"
	"ClinicRecords/logger"
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no row matches the requested identifier.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a patient or doctor email is taken.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrDuplicateUsername is returned when an account name is taken.
	ErrDuplicateUsername = errors.New("username already exists")
)

// Cache namespaces. Every key of a resource lives under "<kind>_cache:".
const (
	patientKind      = "patient"
	doctorKind       = "doctor"
	appointmentKind  = "appointment"
	prescriptionKind = "prescription"
	healthRecordKind = "health_record"
	userKind         = "user"
)

const queryTimeout = 5 * time.Second

func itemCacheKey(kind string, id uint) string {
	return fmt.Sprintf("%s_cache:%d", kind, id)
}

func listCacheKey(kind string) string {
	return fmt.Sprintf("%s_cache:list", kind)
}

// generationKey sits outside the "<kind>_cache:" namespace so pattern
// invalidation never resets it.
func generationKey(kind string) string {
	return kind + "_gen"
}

// readThrough serves key from the cache when present, otherwise runs load
// and stores its result. The fill is dropped when an invalidation of kind
// happened after the load started. Cache failures are logged and never fail
// the read.
func readThrough[T any](ctx context.Context, c *cache.Cache, kind, key string, load func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var cached T
	var gen int64
	fill := c != nil
	if c != nil {
		hit, err := c.GetJSON(ctx, key, &cached)
		if err != nil {
			logger.LogWarn("failed to read from cache", zap.String("key", key), zap.Error(err))
		} else if hit {
			return cached, nil
		}
		if gen, err = c.Generation(ctx, generationKey(kind)); err != nil {
			logger.LogWarn("failed to read cache generation", zap.String("kind", kind), zap.Error(err))
			fill = false
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if fill {
		written, err := c.SetJSONIfGeneration(ctx, generationKey(kind), gen, key, value)
		if err != nil {
			logger.LogWarn("failed to write to cache", zap.String("key", key), zap.Error(err))
		} else if !written {
			logger.LogDebug("dropped stale cache fill", zap.String("key", key))
		}
	}
	return value, nil
}

// invalidate drops every cached entry of the given kinds. It runs after the
// write has been committed, so failures are logged rather than returned.
// The generation is bumped before the delete so a fill racing with this
// write cannot land after it.
func invalidate(ctx context.Context, c *cache.Cache, kinds ...string) {
	if c == nil {
		return
	}
	for _, kind := range kinds {
		if err := c.Bump(ctx, generationKey(kind)); err != nil {
			logger.LogWarn("failed to bump cache generation", zap.String("kind", kind), zap.Error(err))
		}
		pattern := kind + "_cache:*"
		if err := c.DeleteAll(ctx, pattern); err != nil {
			logger.LogWarn("failed to invalidate cache", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}

// translateError maps gorm errors onto the repository's sentinel errors.
func translateError(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateEmail
	default:
		return errors.Wrap(err, action)
	}
}

func exists(ctx context.Context, db *gorm.DB, model interface{}, id uint) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check existence")
	}
	return count > 0, nil
}

func emailTaken(ctx context.Context, db *gorm.DB, model interface{}, email string, excludeID uint) (bool, error) {
	var count int64
	query := db.WithContext(ctx).Model(model).Where("email = ?", email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check email existence")
	}
	return count > 0, nil
}
