package services

import (
	"ClinicRecords/repositories"
	"ClinicRecords/utils"
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidCredentials is returned for unknown accounts, wrong
	// passwords, inactive accounts and tokens of accounts that are gone.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenRevoked is returned for refresh tokens invalidated by logout.
	ErrTokenRevoked = errors.New("token has been revoked")
	// ErrTokenNotOwned is returned when a caller tries to revoke a refresh
	// token issued to another account.
	ErrTokenNotOwned = errors.New("token belongs to another account")
)

// ReferenceNotFoundError reports a write that points at a missing row.
type ReferenceNotFoundError struct {
	Field string
	ID    uint
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s %d does not exist", e.Field, e.ID)
}

// IsAuthenticationError reports whether err means the caller could not be
// authenticated.
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrTokenRevoked) ||
		errors.Is(err, utils.ErrInvalidToken) ||
		errors.Is(err, utils.ErrExpiredToken) ||
		errors.Is(err, utils.ErrWrongTokenType)
}

type existenceChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// checkReference fails with ReferenceNotFoundError when id is set and no
// row with that id exists.
func checkReference(ctx context.Context, field string, id *uint, repository existenceChecker) error {
	if id == nil {
		return nil
	}
	found, err := repository.Exists(ctx, *id)
	if err != nil {
		return err
	}
	if !found {
		return &ReferenceNotFoundError{Field: field, ID: *id}
	}
	return nil
}

type emailChecker interface {
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
}

// checkEmail reports a taken email as a field error on "email".
func checkEmail(ctx context.Context, kind string, email *string, excludeID uint, repository emailChecker) error {
	if email == nil {
		return nil
	}
	taken, err := repository.EmailTaken(ctx, *email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return duplicateEmail(kind)
	}
	return nil
}

// emailConflict turns a unique violation lost to a concurrent writer into
// the same field error checkEmail reports.
func emailConflict(kind string, err error) error {
	if errors.Is(err, repositories.ErrDuplicateEmail) {
		return duplicateEmail(kind)
	}
	return err
}

func duplicateEmail(kind string) error {
	return validation.Errors{"email": errors.Errorf("%s with this email already exists.", kind)}
}

// ensureExists returns repositories.ErrNotFound when no row with id exists.
func ensureExists(ctx context.Context, id uint, repository existenceChecker) error {
	found, err := repository.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return repositories.ErrNotFound
	}
	return nil
}
