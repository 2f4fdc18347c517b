package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/otabekshirinov/testhub/internal/controller"
	"github.com/otabekshirinov/testhub/internal/service"
)

type AdminUserController struct {
	authService service.AuthService
}

func NewAdminUserController(authService service.AuthService) *AdminUserController {
	return &AdminUserController{authService: authService}
}

// ListUsers godoc
// @Summary (Admin) List registered users
// @Description Returns all non-admin accounts for the admin dashboard.
// @Tags Admin - Users
// @Produce json
// @Success 200 {array} dto.UserResponseDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/users [get]
func (ctl *AdminUserController) ListUsers(c *gin.Context) {
	users, err := ctl.authService.ListUsers()
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
