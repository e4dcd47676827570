package handler

import (
	"net/http"
	"strconv"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	apperrors "teamhub/internal/errors"
	"teamhub/internal/model"
	"teamhub/internal/service"
)

// UserHandler bundles the user HTTP handlers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateUserRequest is the update payload. Absent fields are left
// untouched; id defaults to the authenticated caller.
type UpdateUserRequest struct {
	ID *uint `json:"id,omitempty"`
	service.UserUpdate
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param show query bool false "Visibility flag"
// @Param team_role query int false "Team display role"
// @Param role_id query int false "Role id"
// @Param name query string false "Exact name"
// @Param email query string false "Exact email"
// @Success 200 {array} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	filter, err := listFilter(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	users, err := h.svc.ListUsers(c.Request().Context(), filter)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, users)
}

// CurrentUser godoc
// @Summary Fetch the authenticated caller's record
// @Tags users
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/current-user [get]
func (h *UserHandler) CurrentUser(c echo.Context) error {
	id, ok := currentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	user, err := h.svc.CheckUserExists(c.Request().Context(), service.UserQuery{ID: &id})
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if user == nil {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrUserNotFound)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser godoc
// @Summary Update a user record
// @Description Name, bio and password are always writable. Role and
// @Description permission lists require the target to hold the
// @Description UpdateProfile permission.
// @Tags users
// @Accept json
// @Produce json
// @Param request body UpdateUserRequest true "Fields to update"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/update-user [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	callerID, ok := currentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	targetID := callerID
	if req.ID != nil {
		targetID = *req.ID
	}

	user, err := h.svc.UpdateUser(c.Request().Context(), targetID, req.UserUpdate)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}

// listFilter maps allow-listed query params onto store columns. Anything
// else in the query string is ignored.
func listFilter(c echo.Context) (map[string]interface{}, error) {
	filter := map[string]interface{}{}

	if v := c.QueryParam("show"); v != "" {
		show, err := strconv.ParseBool(v)
		if err != nil {
			return nil, err
		}
		filter["show"] = show
	}
	if v := c.QueryParam("team_role"); v != "" {
		tr, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		if !model.TeamRole(tr).Valid() {
			return nil, apperrors.ErrInvalidTeamRole
		}
		filter["team_role"] = tr
	}
	if v := c.QueryParam("role_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		filter["role_id"] = id
	}
	if v := c.QueryParam("name"); v != "" {
		filter["name"] = v
	}
	if v := c.QueryParam("email"); v != "" {
		filter["email"] = v
	}
	return filter, nil
}

// currentUserID extracts the caller's user id from the JWT placed in the
// context by the auth middleware.
func currentUserID(c echo.Context) (uint, bool) {
	token, ok := c.Get("user").(*jwtv5.Token)
	if !ok {
		return 0, false
	}
	claims, ok := token.Claims.(jwtv5.MapClaims)
	if !ok {
		return 0, false
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false
	}
	return uint(id), true
}
