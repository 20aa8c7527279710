package dtos

import (
	"ClinicRecords/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// HealthRecordResponse embeds the full patient and doctor shapes. Doctor is
// null once the doctor has been deleted.
type HealthRecordResponse struct {
	ID         uint            `json:"id"`
	Patient    PatientResponse `json:"patient"`
	Doctor     *DoctorResponse `json:"doctor"`
	RecordDate string          `json:"record_date"`
	Diagnosis  string          `json:"diagnosis"`
	Treatment  string          `json:"treatment"`
}

// HealthRecordRequest references the patient and doctor by id. doctor_id
// must be present on create and full update but may be null.
type HealthRecordRequest struct {
	PatientID  *uint      `json:"patient_id"`
	DoctorID   NullableID `json:"doctor_id"`
	RecordDate *string    `json:"record_date"`
	Diagnosis  *string    `json:"diagnosis"`
	Treatment  *string    `json:"treatment"`
}

func (r HealthRecordRequest) Validate(partial bool) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PatientID, required(partial)),
		validation.Field(&r.DoctorID, validation.By(func(interface{}) error {
			if !partial && !r.DoctorID.Set {
				return validation.ErrRequired
			}
			return nil
		})),
		validation.Field(&r.RecordDate, required(partial), validation.Date(dateLayout).Error("must be a valid date in YYYY-MM-DD format")),
		validation.Field(&r.Diagnosis, required(partial)),
	)
}

func (r HealthRecordRequest) ToModel() *models.HealthRecord {
	record := &models.HealthRecord{
		DoctorID:   r.DoctorID.Ptr(),
		RecordDate: deref(r.RecordDate),
		Diagnosis:  deref(r.Diagnosis),
		Treatment:  deref(r.Treatment),
	}
	if r.PatientID != nil {
		record.PatientID = *r.PatientID
	}
	return record
}

func (r HealthRecordRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if r.PatientID != nil {
		fields["patient_id"] = *r.PatientID
	}
	if r.DoctorID.Set {
		fields["doctor_id"] = r.DoctorID.Ptr()
	}
	setString(fields, "record_date", r.RecordDate)
	setString(fields, "diagnosis", r.Diagnosis)
	setString(fields, "treatment", r.Treatment)
	return fields
}

func NewHealthRecordResponse(h *models.HealthRecord) HealthRecordResponse {
	response := HealthRecordResponse{
		ID:         h.ID,
		Patient:    NewPatientResponse(&h.Patient),
		RecordDate: h.RecordDate,
		Diagnosis:  h.Diagnosis,
		Treatment:  h.Treatment,
	}
	if h.Doctor != nil {
		doctor := NewDoctorResponse(h.Doctor)
		response.Doctor = &doctor
	}
	return response
}

func NewHealthRecordResponses(records []models.HealthRecord) []HealthRecordResponse {
	out := make([]HealthRecordResponse, 0, len(records))
	for i := range records {
		out = append(out, NewHealthRecordResponse(&records[i]))
	}
	return out
}
