package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	Unauthorized = NewApiErr(http.StatusUnauthorized, "unauthorized")
)

// Authentication & Authorization Errors
var (
	ErrMissingToken     = errors.New("missing access token")
	ErrInvalidToken     = errors.New("invalid access token")
	ErrInsufficientRole = errors.New("insufficient role")
	ErrValidationFailed = errors.New("validation failed")
)

func Malformed(payloadName string) *ApiErr {
	return NewApiErr(http.StatusBadRequest, payloadName+" malformed")
}

func BadRequest(message string) *ApiErr {
	return NewApiErr(http.StatusBadRequest, message)
}

// Authentication & Authorization Error Constructors
func NewMissingTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        ErrMissingToken,
		Details:    "Access Denied: No token provided",
		Field:      "authorization",
	}
}

func NewInvalidTokenError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrInvalidToken,
		Details:    "Access Denied: Invalid token",
		Field:      "authorization",
		Cause:      cause,
	}
}

// NewInsufficientRoleError reports a role denial and echoes both the
// required role set and the role the caller actually holds.
func NewInsufficientRoleError(required []string, current string) *ApiErr {
	return &ApiErr{
		StatusCode:    http.StatusForbidden,
		err:           ErrInsufficientRole,
		Details:       fmt.Sprintf("Access denied. Required: %s", strings.Join(required, ", ")),
		Field:         "authorization",
		RequiredRoles: required,
		CurrentRole:   current,
	}
}

// NewValidationError carries one message per failed field.
func NewValidationError(fieldMessages ...string) *ApiErr {
	return &ApiErr{
		StatusCode:  http.StatusBadRequest,
		err:         ErrValidationFailed,
		FieldErrors: fieldMessages,
	}
}

// NewInvalidCredentialsError is the uniform login failure. It does not
// say whether the identifier or the password was wrong.
func NewInvalidCredentialsError() *ApiErr {
	return NewUnauthorizedError("invalid credentials")
}

// NewInactiveAccountError is deliberately distinct from the uniform
// credentials failure; the panel's clients depend on telling the two
// apart. Flagged to stakeholders as an information-disclosure
// inconsistency, kept as-is.
func NewInactiveAccountError() *ApiErr {
	return NewForbiddenError("account is inactive")
}
