package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/otabekshirinov/testhub/internal/dto"
	"github.com/otabekshirinov/testhub/internal/service"
	"github.com/rs/zerolog/log"
)

// RespondError maps service error kinds onto HTTP responses. Not-found and
// validation conditions are surfaced with their message; already-completed
// points the client at the existing result; anything unrecognized is a
// storage/internal failure reported generically with the cause logged.
func RespondError(c *gin.Context, err error) {
	var completed *service.AlreadyCompletedError
	switch {
	case errors.As(err, &completed):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Message:  "Attempt is already completed",
			Code:     "already_completed",
			ResultID: &completed.ResultID,
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error(), Code: "not_found"})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error(), Code: "validation_failed"})
	case errors.Is(err, service.ErrEmptyTest):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Message: "This test has no questions yet",
			Code:    "empty_test",
		})
	case errors.Is(err, service.ErrNoAnswersSelected):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Message: "No answers were selected",
			Code:    "no_answers_selected",
		})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
	}
}
