package handlers

import (
	"ClinicRecords/dtos"
	"ClinicRecords/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PrescriptionHandler struct {
	service *services.PrescriptionService
}

func NewPrescriptionHandler(service *services.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{service: service}
}

func (h *PrescriptionHandler) CreatePrescription(c *gin.Context) {
	var req dtos.PrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}
	prescription, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.NewPrescriptionResponse(prescription))
}

func (h *PrescriptionHandler) GetPrescriptionByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	prescription, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewPrescriptionResponse(prescription))
}

func (h *PrescriptionHandler) GetAllPrescriptions(c *gin.Context) {
	prescriptions, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewPrescriptionResponses(prescriptions))
}

// UpdatePrescription serves both PUT and PATCH.
func (h *PrescriptionHandler) UpdatePrescription(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dtos.PrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}
	prescription, err := h.service.Update(c.Request.Context(), id, req, isPartial(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewPrescriptionResponse(prescription))
}

func (h *PrescriptionHandler) DeletePrescription(c *gin.Context) {
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
