package routes

import (
	"github.com/gin-gonic/gin"

	"bookify/handlers"
)

// RegisterSchedulingRoutes registers all endpoints of the scheduling core.
func RegisterSchedulingRoutes(r *gin.Engine, h *handlers.SchedulingHandler) {
	slots := r.Group("/api/slots")
	{
		slots.GET("", h.ListSlots)
		slots.POST("", h.CreateSlot)
		slots.POST("/batch", h.GenerateBatch)
		slots.POST("/:slotID/book", h.BookSlot)
		slots.POST("/:slotID/release", h.ReleaseSlot)
		slots.DELETE("/:slotID", h.DeleteSlot)
		slots.GET("/:slotID/conflicts", h.DetectConflicts)
		slots.GET("/:slotID/alternatives", h.SuggestAlternatives)
		slots.GET("/:slotID/appointment", h.SlotAppointment)
	}

	appointments := r.Group("/api/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.POST("", h.CreateAppointment)
		appointments.POST("/:appointmentID/cancel", h.CancelAppointment)
		appointments.POST("/:appointmentID/reschedule", h.RescheduleAppointment)
	}
}
