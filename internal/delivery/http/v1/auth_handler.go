package v1

import (
	"net/http"

	"devconnector-api/internal/delivery/http/middleware"
	"devconnector-api/internal/delivery/http/response"
	"devconnector-api/internal/domain"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

func NewAuthHandler(protected *gin.RouterGroup, authUC domain.AuthUsecase) {
	handler := &AuthHandler{authUC: authUC}

	protected.GET("/auth", handler.Me)
}

// Me godoc
// @Summary      Current user
// @Description  Returns the authenticated user without the credential hash
// @Tags         auth
// @Produce      json
// @Security     TokenAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  response.Message
// @Failure      500  {object}  response.Message
// @Router       /auth [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, user)
}
