package models

import (
	"fmt"
	"time"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// AppointmentStatuses lists every accepted status value.
var AppointmentStatuses = []interface{}{StatusScheduled, StatusCompleted, StatusCancelled}

// Patient model
type Patient struct {
	ID            uint           `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	FirstName     string         `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName      string         `gorm:"column:last_name;size:100;not null;index" json:"last_name"`
	DateOfBirth   string         `gorm:"column:date_of_birth;size:10;not null" json:"date_of_birth"`
	Email         string         `gorm:"column:email;size:254;not null;uniqueIndex" json:"email"`
	Phone         string         `gorm:"column:phone;size:20" json:"phone"`
	Appointments  []Appointment  `gorm:"foreignKey:PatientID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	HealthRecords []HealthRecord `gorm:"foreignKey:PatientID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Patient) TableName() string {
	return "patient"
}

func (p Patient) String() string {
	return fmt.Sprintf("%s %s", p.FirstName, p.LastName)
}

// Doctor model
type Doctor struct {
	ID            uint           `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	FirstName     string         `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName      string         `gorm:"column:last_name;size:100;not null;index" json:"last_name"`
	Specialty     string         `gorm:"column:specialty;size:100" json:"specialty"`
	Email         string         `gorm:"column:email;size:254;not null;uniqueIndex" json:"email"`
	Phone         string         `gorm:"column:phone;size:20" json:"phone"`
	Appointments  []Appointment  `gorm:"foreignKey:DoctorID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	HealthRecords []HealthRecord `gorm:"foreignKey:DoctorID;references:ID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Doctor) TableName() string {
	return "doctor"
}

func (d Doctor) String() string {
	return fmt.Sprintf("Dr. %s %s", d.FirstName, d.LastName)
}

// Appointment model
type Appointment struct {
	ID                  uint              `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PatientID           uint              `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DoctorID            uint              `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	AppointmentDatetime time.Time         `gorm:"column:appointment_datetime;not null;index" json:"appointment_datetime"`
	Status              AppointmentStatus `gorm:"column:status;size:20;check:status IN ('scheduled', 'completed', 'cancelled');not null;default:scheduled" json:"status"`
	Prescriptions       []Prescription    `gorm:"foreignKey:AppointmentID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Appointment) TableName() string {
	return "appointment"
}

func (a Appointment) String() string {
	return fmt.Sprintf("Appointment %d: patient %d with doctor %d at %s", a.ID, a.PatientID, a.DoctorID, a.AppointmentDatetime.Format(time.RFC3339))
}

// Prescription model
type Prescription struct {
	ID            uint   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AppointmentID uint   `gorm:"column:appointment_id;not null;index" json:"appointment_id"`
	Medication    string `gorm:"column:medication;size:200;not null" json:"medication"`
	Dosage        string `gorm:"column:dosage;size:100;not null" json:"dosage"`
	Instructions  string `gorm:"column:instructions;type:text" json:"instructions"`
}

func (Prescription) TableName() string {
	return "prescription"
}

func (p Prescription) String() string {
	return fmt.Sprintf("Prescription for appointment %d - %s", p.AppointmentID, p.Medication)
}

// HealthRecord model. The doctor reference is nullable and survives the
// doctor's deletion as NULL.
type HealthRecord struct {
	ID         uint    `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PatientID  uint    `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DoctorID   *uint   `gorm:"column:doctor_id;index" json:"doctor_id"`
	RecordDate string  `gorm:"column:record_date;size:10;not null" json:"record_date"`
	Diagnosis  string  `gorm:"column:diagnosis;type:text;not null" json:"diagnosis"`
	Treatment  string  `gorm:"column:treatment;type:text" json:"treatment"`
	Patient    Patient `gorm:"foreignKey:PatientID;references:ID" json:"patient"`
	Doctor     *Doctor `gorm:"foreignKey:DoctorID;references:ID" json:"doctor"`
}

func (HealthRecord) TableName() string {
	return "health_record"
}

func (h HealthRecord) String() string {
	return fmt.Sprintf("Record for patient %d on %s", h.PatientID, h.RecordDate)
}
