package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tempus/internal/auth"
	apperrors "tempus/internal/errors"
)

// userID extracts the authenticated user id placed in the context by
// the JWT middleware.
func userID(c echo.Context) (uint, error) {
	claims, ok := c.Get("user").(*auth.Claims)
	if !ok || claims.UserID == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "Token inválido")
	}
	return claims.UserID, nil
}

// pathID parses a numeric :id path parameter.
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "ID inválido")
	}
	return uint(id), nil
}

// fail logs the underlying error and answers with the mapped status
// and its generic client message.
func fail(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(httpErr.StatusCode, apperrors.ErrorResponse{Error: httpErr.Message})
}
