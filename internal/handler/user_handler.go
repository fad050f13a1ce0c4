package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/middleware"
	"github.com/marginalwallet/wallet-api/internal/service"
	"github.com/rs/zerolog/log"
)

// HeaderConfirmPassword carries the password confirming an account deletion
const HeaderConfirmPassword = "X-Confirm-Password"

// UserHandler handles registration and account self-service
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateDetailsRequest represents a partial profile update
type UpdateDetailsRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UpdatePasswordRequest represents the password change request body
type UpdatePasswordRequest struct {
	CurrentPassword    string `json:"current_password"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID    int32  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Register handles POST /users/register
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, DetailInvalidRequestBody, nil)
	}

	user, err := h.userService.Register(c.Request().Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err, 0, "Failed to register user")
	}

	log.Info().Int32("user_id", user.ID).Msg("User registered")

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Me handles GET /users/me
func (h *UserHandler) Me(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Not authenticated")
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateDetails handles PATCH /users/me/update_details
func (h *UserHandler) UpdateDetails(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	var req UpdateDetailsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, DetailInvalidRequestBody, nil)
	}

	updated, err := h.userService.UpdateDetails(c.Request().Context(), user.ID, service.UpdateDetailsInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return respondError(c, err, user.ID, "Failed to update user details")
	}

	log.Info().Int32("user_id", user.ID).Msg("User details updated")

	return c.JSON(http.StatusOK, toUserResponse(updated))
}

// UpdatePassword handles PATCH /users/me/update_password
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	var req UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, DetailInvalidRequestBody, nil)
	}

	err := h.userService.ChangePassword(c.Request().Context(), user, service.ChangePasswordInput{
		CurrentPassword:    req.CurrentPassword,
		NewPassword:        req.NewPassword,
		ConfirmNewPassword: req.ConfirmNewPassword,
	})
	if err != nil {
		return respondError(c, err, user.ID, "Failed to update password")
	}

	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /users/me; the password is confirmed in the X-Confirm-Password header
func (h *UserHandler) Delete(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return NewUnauthorizedError(c, "Not authenticated")
	}

	err := h.userService.DeleteAccount(c.Request().Context(), user, c.Request().Header.Get(HeaderConfirmPassword))
	if err != nil {
		if errors.Is(err, domain.ErrIncorrectPassword) {
			return NewForbiddenError(c, "Incorrect password, cannot delete user account.")
		}
		return respondError(c, err, user.ID, "Failed to delete user")
	}

	log.Info().Int32("user_id", user.ID).Msg("User deleted")

	return c.NoContent(http.StatusNoContent)
}
