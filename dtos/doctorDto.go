package dtos

import (
	"ClinicRecords/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type DoctorResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Specialty string `json:"specialty"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type DoctorRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Specialty *string `json:"specialty"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

func (r DoctorRequest) Validate(partial bool) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, required(partial), validation.Length(1, 100)),
		validation.Field(&r.LastName, required(partial), validation.Length(1, 100)),
		validation.Field(&r.Specialty, validation.Length(0, 100)),
		validation.Field(&r.Email, required(partial), validation.Length(1, 254), is.Email),
		validation.Field(&r.Phone, validation.Length(0, 20)),
	)
}

func (r DoctorRequest) ToModel() *models.Doctor {
	return &models.Doctor{
		FirstName: deref(r.FirstName),
		LastName:  deref(r.LastName),
		Specialty: deref(r.Specialty),
		Email:     deref(r.Email),
		Phone:     deref(r.Phone),
	}
}

func (r DoctorRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	setString(fields, "first_name", r.FirstName)
	setString(fields, "last_name", r.LastName)
	setString(fields, "specialty", r.Specialty)
	setString(fields, "email", r.Email)
	setString(fields, "phone", r.Phone)
	return fields
}

func NewDoctorResponse(d *models.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:        d.ID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Specialty: d.Specialty,
		Email:     d.Email,
		Phone:     d.Phone,
	}
}

func NewDoctorResponses(doctors []models.Doctor) []DoctorResponse {
	out := make([]DoctorResponse, 0, len(doctors))
	for i := range doctors {
		out = append(out, NewDoctorResponse(&doctors[i]))
	}
	return out
}
