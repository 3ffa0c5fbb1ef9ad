package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tempus/internal/auth"
	"tempus/internal/model"
	"tempus/internal/repository"
	"tempus/internal/service"
)

func newSessionFixture(t *testing.T) (*gorm.DB, *SessionHandler, *model.User, *model.Project) {
	t.Helper()

	db := newHandlerTestDB(t)
	user := &model.User{Email: "owner@example.com", PasswordHash: "x", Name: "Owner"}
	require.NoError(t, db.Create(user).Error)
	project := &model.Project{UserID: user.ID, Name: "Book"}
	require.NoError(t, db.Create(project).Error)

	svc := service.NewSessionService(
		repository.NewProjectRepository(db),
		repository.NewSessionRepository(db),
		nil,
	)
	return db, NewSessionHandler(svc), user, project
}

func postSessions(t *testing.T, h *SessionHandler, uid, projectID uint, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/projects/:id/sessions")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(projectID))
	c.Set("user", &auth.Claims{UserID: uid})

	require.NoError(t, h.StartOrStop(c))
	return rec
}

func TestSessionHandler_StartThenStop(t *testing.T) {
	_, h, user, project := newSessionFixture(t)

	// An empty body starts the timer.
	rec := postSessions(t, h, user.ID, project.ID, `{}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var started model.TimeSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	assert.Nil(t, started.EndTime)
	assert.NotZero(t, started.ID)

	// Starting again while running conflicts.
	rec = postSessions(t, h, user.ID, project.ID, `{"comment":"again"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"Ya hay una sesión activa para este proyecto"}`, rec.Body.String())

	// A body with sessionId and endTime stops that session.
	end := started.StartTime.Add(time.Hour).UTC().Format(time.RFC3339Nano)
	body := fmt.Sprintf(`{"sessionId":%d,"endTime":%q,"comment":"chapter 1"}`, started.ID, end)
	rec = postSessions(t, h, user.ID, project.ID, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var stopped model.TimeSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stopped))
	require.NotNil(t, stopped.EndTime)
	assert.Equal(t, "chapter 1", stopped.Comment)

	// Stopping a closed session is not found.
	rec = postSessions(t, h, user.ID, project.ID, body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Sesión no encontrada o ya finalizada"}`, rec.Body.String())
}

func TestSessionHandler_MalformedBodyIsRejected(t *testing.T) {
	db, h, user, project := newSessionFixture(t)

	// Truncated JSON must not touch the ledger.
	rec := postSessions(t, h, user.ID, project.ID, `{"sessionId": "oops`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Solicitud inválida"}`, rec.Body.String())

	var sessions int64
	require.NoError(t, db.Model(&model.TimeSession{}).Count(&sessions).Error)
	assert.Zero(t, sessions)
}

func TestSessionHandler_ForeignProjectIsNotFound(t *testing.T) {
	db, h, _, project := newSessionFixture(t)

	intruder := &model.User{Email: "intruder@example.com", PasswordHash: "x", Name: "Intruder"}
	require.NoError(t, db.Create(intruder).Error)

	rec := postSessions(t, h, intruder.ID, project.ID, `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Proyecto no encontrado"}`, rec.Body.String())
}

func TestSessionHandler_StatsShape(t *testing.T) {
	db, h, user, project := newSessionFixture(t)

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	require.NoError(t, db.Create(&model.TimeSession{
		ProjectID: project.ID,
		UserID:    user.ID,
		StartTime: start,
		EndTime:   &end,
		Comment:   "chapter 1",
	}).Error)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/projects/:id/stats")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(project.ID))
	c.Set("user", &auth.Claims{UserID: user.ID})

	require.NoError(t, h.Stats(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats service.ProjectStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.InDelta(t, 1.0, stats.TotalHours, 1e-9)
	assert.Equal(t, int64(1), stats.TotalSessions)
	assert.Equal(t, int64(1), stats.CompletedSessions)
	assert.Equal(t, 1, stats.UniqueDays)
}
