package handlers

import (
	"ClinicRecords/dtos"
	"ClinicRecords/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type DoctorHandler struct {
	service *services.DoctorService
}

func NewDoctorHandler(service *services.DoctorService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var req dtos.DoctorRequest
	if !bindJSON(c, &req) {
		return
	}
	doctor, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.NewDoctorResponse(doctor))
}

func (h *DoctorHandler) GetDoctorByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	doctor, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewDoctorResponse(doctor))
}

func (h *DoctorHandler) GetAllDoctors(c *gin.Context) {
	doctors, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewDoctorResponses(doctors))
}

// UpdateDoctor serves both PUT and PATCH.
func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dtos.DoctorRequest
	if !bindJSON(c, &req) {
		return
	}
	doctor, err := h.service.Update(c.Request.Context(), id, req, isPartial(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewDoctorResponse(doctor))
}

func (h *DoctorHandler) DeleteDoctor(c *gin.Context) {
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
