package dtos

import (
	"ClinicRecords/models"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
)

var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordNotComplex = errors.New("password must include at least one uppercase letter, one lowercase letter, one digit, and one special character")

	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	lowercaseRegex  = regexp.MustCompile(`[a-z]`)
	uppercaseRegex  = regexp.MustCompile(`[A-Z]`)
	digitRegex      = regexp.MustCompile(`\d`)
	specialRegex    = regexp.MustCompile(`[^\w\s]|_`)
)

// RegisterRequest provisions an account together with its role.
type RegisterRequest struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 150),
			validation.Match(usernamePattern).Error("may contain only letters, digits and @/./+/-/_")),
		validation.Field(&r.Password, validation.Required, validation.By(validatePassword)),
		validation.Field(&r.Role, validation.Required, validation.In(models.Roles...).Error("must be doctor or patient")),
	)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// RefreshRequest carries a refresh token, for both refresh and logout.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Refresh, validation.Required),
	)
}

type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type AccessTokenResponse struct {
	Access string `json:"access"`
}

type IdentityResponse struct {
	ID       uint         `json:"id"`
	Username string       `json:"username"`
	Role     *models.Role `json:"role"`
	IsActive bool         `json:"is_active"`
}

func NewIdentityResponse(u *models.User) IdentityResponse {
	response := IdentityResponse{ID: u.ID, Username: u.Username, IsActive: u.IsActive}
	if u.Profile != nil {
		role := u.Profile.Role
		response.Role = &role
	}
	return response
}

// validatePassword checks the password for length and complexity.
func validatePassword(value interface{}) error {
	password, _ := value.(string)
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	if !lowercaseRegex.MatchString(password) ||
		!uppercaseRegex.MatchString(password) ||
		!digitRegex.MatchString(password) ||
		!specialRegex.MatchString(password) {
		return ErrPasswordNotComplex
	}
	return nil
}
