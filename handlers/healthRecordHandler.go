package handlers

import (
	"ClinicRecords/dtos"
	"ClinicRecords/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthRecordHandler struct {
	service *services.HealthRecordService
}

func NewHealthRecordHandler(service *services.HealthRecordService) *HealthRecordHandler {
	return &HealthRecordHandler{service: service}
}

func (h *HealthRecordHandler) CreateHealthRecord(c *gin.Context) {
	var req dtos.HealthRecordRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.NewHealthRecordResponse(record))
}

func (h *HealthRecordHandler) GetHealthRecordByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	record, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewHealthRecordResponse(record))
}

func (h *HealthRecordHandler) GetAllHealthRecords(c *gin.Context) {
	records, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewHealthRecordResponses(records))
}

// UpdateHealthRecord serves both PUT and PATCH.
func (h *HealthRecordHandler) UpdateHealthRecord(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dtos.HealthRecordRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := h.service.Update(c.Request.Context(), id, req, isPartial(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewHealthRecordResponse(record))
}

func (h *HealthRecordHandler) DeleteHealthRecord(c *gin.Context) {
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
