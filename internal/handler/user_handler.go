package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskhub/internal/model"
	"taskhub/internal/service"
)

// UserHandler handles the admin-facing user registry endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest represents an admin user-creation request.
type CreateUserRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required"`
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Role     *string `json:"role" validate:"omitempty,oneof=USER MANAGER ADMIN"`
}

// UpdateUserRequest represents an admin partial-update request.
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty"`
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Role     *string `json:"role" validate:"omitempty,oneof=USER MANAGER ADMIN"`
}

// ListUsersRequest represents the users list query.
type ListUsersRequest struct {
	Role  *string `query:"role" validate:"omitempty,oneof=USER MANAGER ADMIN"`
	Sort  string  `query:"sort"`
	Page  string  `query:"page" validate:"omitempty,number"`
	Limit string  `query:"limit" validate:"omitempty,number"`
}

func roleParam(raw *string) *model.Role {
	if raw == nil {
		return nil
	}
	role := model.Role(*raw)
	return &role
}

// Create godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User data"
// @Success 201 {object} model.PublicUser
// @Failure 409 {object} apperr.ErrorResponse
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.Create(c.Request().Context(), service.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     roleParam(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user.Public())
}

// FindAll godoc
// @Summary List users with role filter, sorting and pagination
// @Tags users
// @Produce json
// @Param role query string false "Role filter"
// @Param sort query string false "Sort expression field:asc|desc"
// @Param page query string false "Page number"
// @Param limit query string false "Items per page"
// @Success 200 {object} ListResponse
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) FindAll(c echo.Context) error {
	var req ListUsersRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	users, meta, err := h.userService.FindAll(c.Request().Context(), service.ListUsersQuery{
		Role:  roleParam(req.Role),
		Sort:  req.Sort,
		Page:  req.Page,
		Limit: req.Limit,
	})
	if err != nil {
		return err
	}

	public := make([]model.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	return c.JSON(http.StatusOK, ListResponse{Data: public, Meta: meta})
}

// FindOne godoc
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} model.PublicUser
// @Failure 404 {object} apperr.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) FindOne(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.userService.FindOne(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.Public())
}

// Update godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "Fields to update"
// @Success 200 {object} model.PublicUser
// @Failure 404 {object} apperr.ErrorResponse
// @Failure 409 {object} apperr.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.Update(c.Request().Context(), id, service.UpdateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     roleParam(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.Public())
}

// Remove godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} model.PublicUser
// @Failure 404 {object} apperr.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *UserHandler) Remove(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Remove(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.Public())
}
