package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookify/services/scheduling"
	"bookify/utils"
)

// SchedulingHandler exposes the scheduling core over HTTP.
type SchedulingHandler struct {
	svc scheduling.SchedulingService
}

// NewSchedulingHandler constructs a handler around the given service.
func NewSchedulingHandler(svc scheduling.SchedulingService) *SchedulingHandler {
	return &SchedulingHandler{svc: svc}
}

// respondError maps the core's error kinds onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case scheduling.IsValidation(err):
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
	case scheduling.IsNotFound(err):
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
	case scheduling.IsConflict(err):
		utils.JSONError(c, http.StatusConflict, "scheduling conflict", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
