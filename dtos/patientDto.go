package dtos

import (
	"ClinicRecords/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const dateLayout = "2006-01-02"

// PatientResponse is the read shape of a patient.
type PatientResponse struct {
	ID          uint   `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

// PatientRequest is the write shape of a patient. Fields are pointers so a
// partial update can tell which ones were supplied.
type PatientRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	DateOfBirth *string `json:"date_of_birth"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
}

// Validate checks the request. With partial set, absent fields are allowed
// but supplied ones must still be valid.
func (r PatientRequest) Validate(partial bool) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, required(partial), validation.Length(1, 100)),
		validation.Field(&r.LastName, required(partial), validation.Length(1, 100)),
		validation.Field(&r.DateOfBirth, required(partial), validation.Date(dateLayout).Error("must be a valid date in YYYY-MM-DD format")),
		validation.Field(&r.Email, required(partial), validation.Length(1, 254), is.Email),
		validation.Field(&r.Phone, validation.Length(0, 20)),
	)
}

func (r PatientRequest) ToModel() *models.Patient {
	return &models.Patient{
		FirstName:   deref(r.FirstName),
		LastName:    deref(r.LastName),
		DateOfBirth: deref(r.DateOfBirth),
		Email:       deref(r.Email),
		Phone:       deref(r.Phone),
	}
}

// Fields returns the supplied columns keyed by column name.
func (r PatientRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	setString(fields, "first_name", r.FirstName)
	setString(fields, "last_name", r.LastName)
	setString(fields, "date_of_birth", r.DateOfBirth)
	setString(fields, "email", r.Email)
	setString(fields, "phone", r.Phone)
	return fields
}

func NewPatientResponse(p *models.Patient) PatientResponse {
	return PatientResponse{
		ID:          p.ID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		DateOfBirth: p.DateOfBirth,
		Email:       p.Email,
		Phone:       p.Phone,
	}
}

func NewPatientResponses(patients []models.Patient) []PatientResponse {
	out := make([]PatientResponse, 0, len(patients))
	for i := range patients {
		out = append(out, NewPatientResponse(&patients[i]))
	}
	return out
}

// required makes a field mandatory on full writes and non-blank whenever it
// is supplied.
func required(partial bool) validation.Rule {
	if partial {
		return validation.NilOrNotEmpty
	}
	return validation.Required
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func setString(fields map[string]interface{}, column string, value *string) {
	if value != nil {
		fields[column] = *value
	}
}
