package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserExists is returned when registering an email that is taken.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned on unknown email or bad password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrProjectNotFound is returned when a project is absent or not owned
	// by the caller. The two cases are deliberately indistinguishable.
	ErrProjectNotFound = errors.New("project not found")
	// ErrSessionNotFound is returned when no open session matches the
	// given id, project and owner. Covers already-stopped sessions too.
	ErrSessionNotFound = errors.New("session not found or already finished")
	// ErrSessionActive is returned when starting a timer on a project
	// that already has an open session.
	ErrSessionActive = errors.New("session already active")
	// ErrNoteNotFound is returned when a note is absent or not owned.
	ErrNoteNotFound = errors.New("note not found")
	// ErrContentRequired is returned when note content is empty after trim.
	ErrContentRequired = errors.New("content is required")
	// ErrNameRequired is returned when a project name is missing.
	ErrNameRequired = errors.New("name is required")
)

// ErrorResponse is the body of every error reply: {"error": "..."}.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HTTPError pairs a status code with the client-facing message.
// Client messages are Spanish, matching the served UI; internal error
// text stays out of responses.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserExists):
		return NewHTTPError(http.StatusConflict, "El usuario ya existe")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, "Credenciales inválidas")
	case errors.Is(err, ErrProjectNotFound):
		return NewHTTPError(http.StatusNotFound, "Proyecto no encontrado")
	case errors.Is(err, ErrSessionNotFound):
		return NewHTTPError(http.StatusNotFound, "Sesión no encontrada o ya finalizada")
	case errors.Is(err, ErrSessionActive):
		return NewHTTPError(http.StatusConflict, "Ya hay una sesión activa para este proyecto")
	case errors.Is(err, ErrNoteNotFound):
		return NewHTTPError(http.StatusNotFound, "Nota no encontrada")
	case errors.Is(err, ErrContentRequired):
		return NewHTTPError(http.StatusBadRequest, "El contenido es requerido")
	case errors.Is(err, ErrNameRequired):
		return NewHTTPError(http.StatusBadRequest, "El nombre es requerido")
	default:
		return NewHTTPError(http.StatusInternalServerError, "Error interno del servidor")
	}
}
