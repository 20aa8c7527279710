package dtos

import (
	"ClinicRecords/models"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type AppointmentResponse struct {
	ID                  uint                     `json:"id"`
	PatientID           uint                     `json:"patient_id"`
	DoctorID            uint                     `json:"doctor_id"`
	AppointmentDatetime time.Time                `json:"appointment_datetime"`
	Status              models.AppointmentStatus `json:"status"`
}

// AppointmentRequest is the write shape of an appointment. The datetime is
// accepted as an RFC 3339 string.
type AppointmentRequest struct {
	PatientID           *uint                     `json:"patient_id"`
	DoctorID            *uint                     `json:"doctor_id"`
	AppointmentDatetime *string                   `json:"appointment_datetime"`
	Status              *models.AppointmentStatus `json:"status"`
}

func (r AppointmentRequest) Validate(partial bool) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PatientID, required(partial)),
		validation.Field(&r.DoctorID, required(partial)),
		validation.Field(&r.AppointmentDatetime, required(partial), validation.Date(time.RFC3339).Error("must be a valid RFC 3339 datetime")),
		validation.Field(&r.Status, validation.NilOrNotEmpty, validation.In(models.AppointmentStatuses...).Error("must be one of scheduled, completed, cancelled")),
	)
}

// ToModel builds the appointment of a validated request.
func (r AppointmentRequest) ToModel() *models.Appointment {
	appointment := &models.Appointment{Status: models.StatusScheduled}
	if r.PatientID != nil {
		appointment.PatientID = *r.PatientID
	}
	if r.DoctorID != nil {
		appointment.DoctorID = *r.DoctorID
	}
	if when, ok := r.datetime(); ok {
		appointment.AppointmentDatetime = when
	}
	if r.Status != nil {
		appointment.Status = *r.Status
	}
	return appointment
}

// Fields returns the supplied columns of a validated request.
func (r AppointmentRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if r.PatientID != nil {
		fields["patient_id"] = *r.PatientID
	}
	if r.DoctorID != nil {
		fields["doctor_id"] = *r.DoctorID
	}
	if when, ok := r.datetime(); ok {
		fields["appointment_datetime"] = when
	}
	if r.Status != nil {
		fields["status"] = *r.Status
	}
	return fields
}

func (r AppointmentRequest) datetime() (time.Time, bool) {
	if r.AppointmentDatetime == nil {
		return time.Time{}, false
	}
	when, err := time.Parse(time.RFC3339, *r.AppointmentDatetime)
	if err != nil {
		return time.Time{}, false
	}
	return when.UTC(), true
}

func NewAppointmentResponse(a *models.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:                  a.ID,
		PatientID:           a.PatientID,
		DoctorID:            a.DoctorID,
		AppointmentDatetime: a.AppointmentDatetime.UTC(),
		Status:              a.Status,
	}
}

func NewAppointmentResponses(appointments []models.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		out = append(out, NewAppointmentResponse(&appointments[i]))
	}
	return out
}
