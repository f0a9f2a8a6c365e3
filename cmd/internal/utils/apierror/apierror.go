package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"meetboard/cmd/internal/domain"
)

type ErrorResponse interface {
	Code() int
}

type apiError struct {
	Status  int      `json:"-"`
	Kind    string   `json:"error"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func (e *apiError) Code() int {
	return e.Status
}

func (e *apiError) Error() string {
	return e.Message
}

var (
	InternalServerError   = &apiError{Status: http.StatusInternalServerError, Kind: "unknown", Message: "Something went wrong, please try again later"}
	MalformedBodyError    = &apiError{Status: http.StatusBadRequest, Kind: "malformed_body", Message: "Request body could not be read"}
	InvalidAuthTokenError = &apiError{Status: http.StatusUnauthorized, Kind: "invalid_token", Message: "Missing or invalid auth token"}
	PermissionDeniedError = &apiError{Status: http.StatusForbidden, Kind: "permission_denied", Message: "Only the meeting creator or an administrator can do this"}
	NotFoundError         = &apiError{Status: http.StatusNotFound, Kind: "not_found", Message: "The meeting does not exist or was already cancelled"}
	DraftGoneError        = &apiError{Status: http.StatusGone, Kind: "draft_expired", Message: "The pending meeting expired, please create it again"}
	ExternalAuthError     = &apiError{Status: http.StatusBadGateway, Kind: "auth", Message: "The calendar or chat credentials were rejected"}
	UnknownJobError       = &apiError{Status: http.StatusNotFound, Kind: "not_found", Message: "No job with that name"}
)

func NewMissingParamError(param string) ErrorResponse {
	return &apiError{Status: http.StatusBadRequest, Kind: "validation", Message: fmt.Sprintf("Missing parameter %q", param)}
}

func NewInvalidParamError(param, expected string) ErrorResponse {
	return &apiError{Status: http.StatusBadRequest, Kind: "validation",
		Message: fmt.Sprintf("Parameter %q must be %s", param, expected)}
}

// FromValidationError turns validator or domain validation failures into a 422 listing every problem.
func FromValidationError(err error) ErrorResponse {
	resp := &apiError{Status: http.StatusUnprocessableEntity, Kind: "validation", Message: "Some fields are invalid"}

	var verrs validator.ValidationErrors
	var derr *domain.ValidationError
	var ferr *domain.FormatError
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			resp.Details = append(resp.Details, describeField(fe))
		}
	case errors.As(err, &derr):
		resp.Details = append(resp.Details, derr.Problems...)
	case errors.As(err, &ferr):
		resp.Details = append(resp.Details, ferr.Error())
	default:
		resp.Details = append(resp.Details, err.Error())
	}
	return resp
}

// FromError maps the domain error kinds to their user-visible response.
func FromError(err error) ErrorResponse {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return FromValidationError(err)
	case errors.Is(err, domain.ErrForbidden):
		return PermissionDeniedError
	case errors.Is(err, domain.ErrNotFound):
		return NotFoundError
	case errors.Is(err, domain.ErrDraftGone):
		return DraftGoneError
	case errors.Is(err, domain.ErrAuth):
		return ExternalAuthError
	default:
		return InternalServerError
	}
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "unique":
		return fmt.Sprintf("%s must not contain duplicates", fe.Field())
	case "meetingtype":
		return fmt.Sprintf("%s must be ONLINE or OFFLINE", fe.Field())
	case "civildate":
		return fmt.Sprintf("%s must look like 2025-12-25, 25/12/25, 2025.12.25 or 20251225", fe.Field())
	case "civiltime":
		return fmt.Sprintf("%s must look like 9:30 or 14:00", fe.Field())
	default:
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
}
