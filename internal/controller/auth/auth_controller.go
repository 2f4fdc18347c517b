package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/otabekshirinov/testhub/internal/controller"
	"github.com/otabekshirinov/testhub/internal/dto"
	"github.com/otabekshirinov/testhub/internal/middleware"
	"github.com/otabekshirinov/testhub/internal/service"
	"github.com/rs/zerolog/log"
)

const sessionCookieMaxAge = 72 * 60 * 60

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register godoc
// @Summary Register a new user account
// @Description Creates a regular (non-admin) user. The login must be unique.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.RegisterDTO true "Registration data"
// @Success 201 {object} dto.UserResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid payload or login already taken"
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (ctl *AuthController) Register(c *gin.Context) {
	var req dto.RegisterDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Register: failed to bind JSON")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	user, err := ctl.authService.Register(req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Log in and open a session
// @Description Verifies credentials, returns the session token and also sets it as a cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginDTO true "Login data"
// @Success 200 {object} dto.AuthResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Wrong username or password"
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (ctl *AuthController) Login(c *gin.Context) {
	var req dto.LoginDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := ctl.authService.Login(req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}

	c.SetCookie(middleware.SessionCookieName, resp.Token, sessionCookieMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Close the current session
// @Tags Auth
// @Produce json
// @Success 204 "Session cookie cleared"
// @Router /auth/logout [post]
func (ctl *AuthController) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}
