package dtos

import (
	"ClinicRecords/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type PrescriptionResponse struct {
	ID            uint   `json:"id"`
	AppointmentID uint   `json:"appointment_id"`
	Medication    string `json:"medication"`
	Dosage        string `json:"dosage"`
	Instructions  string `json:"instructions"`
}

type PrescriptionRequest struct {
	AppointmentID *uint   `json:"appointment_id"`
	Medication    *string `json:"medication"`
	Dosage        *string `json:"dosage"`
	Instructions  *string `json:"instructions"`
}

func (r PrescriptionRequest) Validate(partial bool) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AppointmentID, required(partial)),
		validation.Field(&r.Medication, required(partial), validation.Length(1, 200)),
		validation.Field(&r.Dosage, required(partial), validation.Length(1, 100)),
	)
}

func (r PrescriptionRequest) ToModel() *models.Prescription {
	prescription := &models.Prescription{
		Medication:   deref(r.Medication),
		Dosage:       deref(r.Dosage),
		Instructions: deref(r.Instructions),
	}
	if r.AppointmentID != nil {
		prescription.AppointmentID = *r.AppointmentID
	}
	return prescription
}

func (r PrescriptionRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if r.AppointmentID != nil {
		fields["appointment_id"] = *r.AppointmentID
	}
	setString(fields, "medication", r.Medication)
	setString(fields, "dosage", r.Dosage)
	setString(fields, "instructions", r.Instructions)
	return fields
}

func NewPrescriptionResponse(p *models.Prescription) PrescriptionResponse {
	return PrescriptionResponse{
		ID:            p.ID,
		AppointmentID: p.AppointmentID,
		Medication:    p.Medication,
		Dosage:        p.Dosage,
		Instructions:  p.Instructions,
	}
}

func NewPrescriptionResponses(prescriptions []models.Prescription) []PrescriptionResponse {
	out := make([]PrescriptionResponse, 0, len(prescriptions))
	for i := range prescriptions {
		out = append(out, NewPrescriptionResponse(&prescriptions[i]))
	}
	return out
}
