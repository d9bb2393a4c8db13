package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/G3Ram/liftingdiary/internal/service"
)

// errorResponse is the failure half of the mutation envelope: success is
// always false, error is a safe human-readable message, and details carries
// per-field validation problems when there are any.
type errorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// respondError writes the failure envelope and aborts the request.
func respondError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, errorResponse{Success: false, Error: message})
}

// respondInvalid writes the validation failure envelope with field details.
func respondInvalid(c *gin.Context, details map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
		Success: false,
		Error:   service.ErrInvalidInput.Error(),
		Details: details,
	})
}

// respondServiceError translates gateway errors into envelope responses.
// Anything unrecognized is an internal failure: it gets logged here with
// full detail and leaves as the operation's generic fallback message, never
// as raw database or driver text.
func respondServiceError(c *gin.Context, err error, fallback string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondInvalid(c, verr.Fields)
	case errors.Is(err, service.ErrInvalidInput):
		respondInvalid(c, nil)
	case errors.Is(err, service.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrWorkoutNotFound),
		errors.Is(err, service.ErrExerciseNotFound),
		errors.Is(err, service.ErrEntryNotFound),
		errors.Is(err, service.ErrSetNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrExerciseInUse):
		respondError(c, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unexpected storage failure")
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

// bindingDetails converts a ShouldBindJSON error into the envelope's details
// map. Validator tags produce per-field messages; type mismatches name the
// offending field; anything else is reported against the body as a whole.
func bindingDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[lowerFirst(fe.Field())] = messageForTag(fe)
		}
		return details
	}
	var terr *json.UnmarshalTypeError
	if errors.As(err, &terr) && terr.Field != "" {
		return map[string]string{terr.Field: "has the wrong type"}
	}
	return map[string]string{"body": "must be valid JSON matching the request schema"}
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}

// lowerFirst maps Go field names onto their JSON spelling (Name -> name,
// StartedAt -> startedAt), which is all this API's DTOs need.
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
