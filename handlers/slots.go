package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookify/services/scheduling"
)

// CreateSlot handles POST /api/slots.
func (h *SchedulingHandler) CreateSlot(c *gin.Context) {
	var input struct {
		StaffID    string    `json:"staffId"`
		ResourceID string    `json:"resourceId"`
		Start      time.Time `json:"start"`
		End        time.Time `json:"end"`
		Recurring  bool      `json:"recurring"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	slot, err := h.svc.CreateSlot(c.Request.Context(), scheduling.CreateSlotRequest{
		StaffID:    input.StaffID,
		ResourceID: input.ResourceID,
		Start:      input.Start,
		End:        input.End,
		Recurring:  input.Recurring,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// GenerateBatch handles POST /api/slots/batch.
func (h *SchedulingHandler) GenerateBatch(c *gin.Context) {
	var input struct {
		StaffID    string    `json:"staffId"`
		ResourceID string    `json:"resourceId"`
		BaseStart  time.Time `json:"baseStart"`
		BaseEnd    time.Time `json:"baseEnd"`
		DaysOfWeek []int     `json:"daysOfWeek"`
		WeekCount  int       `json:"weekCount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	days := make([]time.Weekday, len(input.DaysOfWeek))
	for i, d := range input.DaysOfWeek {
		days[i] = time.Weekday(d)
	}

	slots, err := h.svc.GenerateBatch(c.Request.Context(), scheduling.BatchRequest{
		StaffID:    input.StaffID,
		ResourceID: input.ResourceID,
		BaseStart:  input.BaseStart,
		BaseEnd:    input.BaseEnd,
		DaysOfWeek: days,
		WeekCount:  input.WeekCount,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"slots": slots, "count": len(slots)})
}

// ListSlots handles GET /api/slots?staffId=&date=. The date defaults to
// today (UTC) and selects the day window [date, date+24h).
func (h *SchedulingHandler) ListSlots(c *gin.Context) {
	day := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	slots, err := h.svc.ListSlots(c.Request.Context(), c.Query("staffId"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots, "count": len(slots)})
}

// BookSlot handles POST /api/slots/:slotID/book.
func (h *SchedulingHandler) BookSlot(c *gin.Context) {
	slot, err := h.svc.BookSlot(c.Request.Context(), c.Param("slotID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// ReleaseSlot handles POST /api/slots/:slotID/release.
func (h *SchedulingHandler) ReleaseSlot(c *gin.Context) {
	if err := h.svc.ReleaseSlot(c.Request.Context(), c.Param("slotID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "released"})
}

// DeleteSlot handles DELETE /api/slots/:slotID.
func (h *SchedulingHandler) DeleteSlot(c *gin.Context) {
	if err := h.svc.SoftDeleteSlot(c.Request.Context(), c.Param("slotID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// DetectConflicts handles GET /api/slots/:slotID/conflicts.
func (h *SchedulingHandler) DetectConflicts(c *gin.Context) {
	report, err := h.svc.DetectConflicts(c.Request.Context(), c.Param("slotID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// SuggestAlternatives handles GET /api/slots/:slotID/alternatives.
func (h *SchedulingHandler) SuggestAlternatives(c *gin.Context) {
	slots, err := h.svc.SuggestAlternatives(c.Request.Context(), c.Param("slotID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alternatives": slots})
}
