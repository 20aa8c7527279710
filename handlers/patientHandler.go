package handlers

import (
	"ClinicRecords/dtos"
	"ClinicRecords/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service *services.PatientService
}

func NewPatientHandler(service *services.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req dtos.PatientRequest
	if !bindJSON(c, &req) {
		return
	}
	patient, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.NewPatientResponse(patient))
}

func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	patient, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewPatientResponse(patient))
}

func (h *PatientHandler) GetAllPatients(c *gin.Context) {
	patients, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewPatientResponses(patients))
}

// UpdatePatient serves both PUT and PATCH.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dtos.PatientRequest
	if !bindJSON(c, &req) {
		return
	}
	patient, err := h.service.Update(c.Request.Context(), id, req, isPartial(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewPatientResponse(patient))
}

func (h *PatientHandler) DeletePatient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
