package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "tempus/internal/errors"
	"tempus/internal/service"
)

// SessionHandler handles timer session endpoints.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// SessionRequest starts or stops a timer depending on its shape: a
// body with sessionId and endTime stops that session, anything else
// starts a new one.
type SessionRequest struct {
	SessionID uint       `json:"sessionId"`
	EndTime   *time.Time `json:"endTime"`
	Comment   *string    `json:"comment"`
}

// List godoc
// @Summary List a project's sessions, newest first
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(30)
// @Success 200 {object} service.SessionPage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /projects/{id}/sessions [get]
func (h *SessionHandler) List(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.sessionService.List(c.Request().Context(), uid, projectID, page, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// StartOrStop godoc
// @Summary Start or stop the project's timer
// @Description Without sessionId/endTime the timer starts; with both, the matching open session is stopped.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body SessionRequest true "Empty (or comment only) to start; sessionId and endTime to stop"
// @Success 200 {object} model.TimeSession
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /projects/{id}/sessions [post]
func (h *SessionHandler) StartOrStop(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	// An empty or absent body binds cleanly and starts the timer;
	// malformed JSON must not reach the ledger.
	var req SessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: "Solicitud inválida"})
	}

	if req.SessionID != 0 && req.EndTime != nil {
		session, err := h.sessionService.Stop(c.Request().Context(), uid, projectID, req.SessionID, *req.EndTime, req.Comment)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(http.StatusOK, session)
	}

	var comment string
	if req.Comment != nil {
		comment = *req.Comment
	}
	session, err := h.sessionService.Start(c.Request().Context(), uid, projectID, comment)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// Stats godoc
// @Summary Aggregate statistics over a project's sessions
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} service.ProjectStats
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /projects/{id}/stats [get]
func (h *SessionHandler) Stats(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}
	projectID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	stats, err := h.sessionService.Stats(c.Request().Context(), uid, projectID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
