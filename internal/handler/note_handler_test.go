package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tempus/internal/auth"
	"tempus/internal/model"
	"tempus/internal/repository"
	"tempus/internal/service"
)

func newHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Project{}, &model.TimeSession{}, &model.Note{}))
	return db
}

// newNoteContext builds an echo context carrying the verified claims
// the JWT middleware would have set.
func newNoteContext(t *testing.T, method, body string, uid uint) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, "/notes", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &auth.Claims{UserID: uid})
	return c, rec
}

func TestNoteHandler_CreateRejectsBlankContent(t *testing.T) {
	db := newHandlerTestDB(t)
	user := &model.User{Email: "owner@example.com", PasswordHash: "x", Name: "Owner"}
	require.NoError(t, db.Create(user).Error)

	h := NewNoteHandler(service.NewNoteService(repository.NewNoteRepository(db)))

	c, rec := newNoteContext(t, http.MethodPost, `{"content":"  "}`, user.ID)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"El contenido es requerido"}`, rec.Body.String())
}

func TestNoteHandler_CreateTrimsAndReturnsNote(t *testing.T) {
	db := newHandlerTestDB(t)
	user := &model.User{Email: "owner@example.com", PasswordHash: "x", Name: "Owner"}
	require.NoError(t, db.Create(user).Error)

	h := NewNoteHandler(service.NewNoteService(repository.NewNoteRepository(db)))

	c, rec := newNoteContext(t, http.MethodPost, `{"content":"  remember this  "}`, user.ID)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var note model.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &note))
	assert.Equal(t, "remember this", note.Content)
	assert.Equal(t, user.ID, note.UserID)
	assert.NotZero(t, note.ID)
}

func TestNoteHandler_DeleteForeignNoteIsNotFound(t *testing.T) {
	db := newHandlerTestDB(t)
	owner := &model.User{Email: "owner@example.com", PasswordHash: "x", Name: "Owner"}
	intruder := &model.User{Email: "intruder@example.com", PasswordHash: "x", Name: "Intruder"}
	require.NoError(t, db.Create(owner).Error)
	require.NoError(t, db.Create(intruder).Error)

	note := &model.Note{UserID: owner.ID, Content: "private"}
	require.NoError(t, db.Create(note).Error)

	h := NewNoteHandler(service.NewNoteService(repository.NewNoteRepository(db)))

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/notes/:id")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(note.ID))
	c.Set("user", &auth.Claims{UserID: intruder.ID})

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Nota no encontrada"}`, rec.Body.String())
}
