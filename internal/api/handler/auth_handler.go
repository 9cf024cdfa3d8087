package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitrine/catalog-admin/internal/api/metrics"
	"github.com/vitrine/catalog-admin/internal/core/domain"
	"github.com/vitrine/catalog-admin/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  domain.Principal
// @Failure      400   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /cadastro [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		case errors.Is(err, domain.ErrValidation):
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, user)
}

// Login authenticates an admin or a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.LoginsTotal.WithLabelValues("unknown", "invalid").Inc()
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("unknown", loginFailureReason(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues(result.Principal.Role, "success").Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: result.Token, User: result.Principal})
}

func loginFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrWrongPassword):
		return "wrong_password"
	case errors.Is(err, domain.ErrUnknownEmail):
		return "unknown_email"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}

// Me returns the principal the bearer token was issued to.
//
// @Summary      Current principal
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.PublicPrincipal
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /user [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	p, err := h.authService.CurrentPrincipal(c.Request().Context(), *claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p.Public())
}

// CheckEmail reports whether a user account already uses the given email.
//
// @Summary      Email availability
// @Tags         auth
// @Produce      json
// @Param        email  query     string  true  "Email to check"
// @Success      200    {object}  emailExistsResponse
// @Failure      400    {object}  messageResponse
// @Router       /check-email [get]
func (h *AuthHandler) CheckEmail(c echo.Context) error {
	exists, err := h.authService.EmailExists(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, emailExistsResponse{Exists: exists})
}
