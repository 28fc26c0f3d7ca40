package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookify/services/scheduling"
)

// CreateAppointment handles POST /api/appointments.
func (h *SchedulingHandler) CreateAppointment(c *gin.Context) {
	var input struct {
		ClientID string `json:"clientId"`
		SlotID   string `json:"slotId"`
		Priority string `json:"priority"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	detail, err := h.svc.CreateAppointment(c.Request.Context(), scheduling.AppointmentRequest{
		ClientID: input.ClientID,
		SlotID:   input.SlotID,
		Priority: input.Priority,
		Notes:    input.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// ListAppointments handles GET /api/appointments?clientId=.
func (h *SchedulingHandler) ListAppointments(c *gin.Context) {
	appts, err := h.svc.ListClientAppointments(c.Request.Context(), c.Query("clientId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts, "count": len(appts)})
}

// SlotAppointment handles GET /api/slots/:slotID/appointment.
func (h *SchedulingHandler) SlotAppointment(c *gin.Context) {
	detail, err := h.svc.AppointmentForSlot(c.Request.Context(), c.Param("slotID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CancelAppointment handles POST /api/appointments/:appointmentID/cancel.
func (h *SchedulingHandler) CancelAppointment(c *gin.Context) {
	var input struct {
		ActorID   string `json:"actorId"`
		ActorRole string `json:"actorRole"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.svc.CancelAppointment(c.Request.Context(), c.Param("appointmentID"), input.ActorID, input.ActorRole); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// RescheduleAppointment handles POST /api/appointments/:appointmentID/reschedule.
func (h *SchedulingHandler) RescheduleAppointment(c *gin.Context) {
	var input struct {
		NewSlotID string `json:"newSlotId"`
		ActorID   string `json:"actorId"`
		ActorRole string `json:"actorRole"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	detail, err := h.svc.RescheduleAppointment(c.Request.Context(), c.Param("appointmentID"), input.NewSlotID, input.ActorID, input.ActorRole)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
