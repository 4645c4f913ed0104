package v1

import (
	"errors"
	"io"
	"net/http"

	"devconnector-api/internal/delivery/http/middleware"
	"devconnector-api/internal/delivery/http/response"
	"devconnector-api/internal/domain"
	"devconnector-api/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const msgUserDeleted = "User deleted"

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

func NewProfileHandler(public *gin.RouterGroup, protected *gin.RouterGroup, profileUC domain.ProfileUsecase) {
	handler := &ProfileHandler{profileUC: profileUC}

	publicProfile := public.Group("/profile")
	{
		publicProfile.GET("", handler.List)
		publicProfile.GET("/user/:user_id", handler.GetByUser)
	}

	protectedProfile := protected.Group("/profile")
	{
		protectedProfile.GET("/me", handler.Me)
		protectedProfile.POST("", handler.Upsert)
		protectedProfile.DELETE("", handler.Delete)
		protectedProfile.PUT("/experience", handler.AddExperience)
		protectedProfile.DELETE("/experience/:exp_id", handler.RemoveExperience)
	}
}

// Me godoc
// @Summary      Current user's profile
// @Tags         profile
// @Produce      json
// @Security     TokenAuth
// @Success      200  {object}  domain.Profile
// @Failure      400  {object}  response.Message  "There is no profile for this user"
// @Failure      401  {object}  response.Message
// @Failure      500  {object}  response.Message
// @Router       /profile/me [get]
func (h *ProfileHandler) Me(c *gin.Context) {
	profile, err := h.profileUC.GetSelf(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// List godoc
// @Summary      List all profiles
// @Tags         profile
// @Produce      json
// @Success      200  {array}   domain.Profile
// @Failure      500  {object}  response.Message
// @Router       /profile [get]
func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.profileUC.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, profiles)
}

// GetByUser godoc
// @Summary      Profile by user id
// @Tags         profile
// @Produce      json
// @Param        user_id  path      string  true  "User ID"
// @Success      200      {object}  domain.Profile
// @Failure      400      {object}  response.Message  "Profile not found"
// @Failure      500      {object}  response.Message
// @Router       /profile/user/{user_id} [get]
func (h *ProfileHandler) GetByUser(c *gin.Context) {
	profile, err := h.profileUC.GetByUserID(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// Upsert godoc
// @Summary      Create or update the current user's profile
// @Description  Status and skills are required. Skills is a comma separated list. Optional fields left empty keep their stored value.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        profile  body      domain.ProfileInput  true  "Profile fields"
// @Success      200      {object}  domain.Profile
// @Failure      400      {object}  response.Errors
// @Failure      401      {object}  response.Message
// @Failure      500      {object}  response.Message
// @Router       /profile [post]
func (h *ProfileHandler) Upsert(c *gin.Context) {
	var input domain.ProfileInput
	if err := bindBody(c, &input); err != nil {
		c.Error(err)
		return
	}

	profile, err := h.profileUC.Upsert(c.Request.Context(), middleware.IdentityFrom(c), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// Delete godoc
// @Summary      Delete the current user and profile
// @Tags         profile
// @Produce      json
// @Security     TokenAuth
// @Success      200  {object}  response.Message
// @Failure      401  {object}  response.Message
// @Failure      500  {object}  response.Message
// @Router       /profile [delete]
func (h *ProfileHandler) Delete(c *gin.Context) {
	if err := h.profileUC.Delete(c.Request.Context(), middleware.IdentityFrom(c)); err != nil {
		c.Error(err)
		return
	}
	response.Msg(c, http.StatusOK, msgUserDeleted)
}

// AddExperience godoc
// @Summary      Add an experience entry
// @Description  The new entry is placed first in the list.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        experience  body      domain.ExperienceInput  true  "Experience"
// @Success      200         {object}  domain.Profile
// @Failure      400         {object}  response.Errors
// @Failure      401         {object}  response.Message
// @Failure      500         {object}  response.Message
// @Router       /profile/experience [put]
func (h *ProfileHandler) AddExperience(c *gin.Context) {
	var input domain.ExperienceInput
	if err := bindBody(c, &input); err != nil {
		c.Error(err)
		return
	}

	profile, err := h.profileUC.AddExperience(c.Request.Context(), middleware.IdentityFrom(c), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// RemoveExperience godoc
// @Summary      Remove an experience entry
// @Tags         profile
// @Produce      json
// @Security     TokenAuth
// @Param        exp_id  path      string  true  "Experience ID"
// @Success      200     {object}  domain.Profile
// @Failure      400     {object}  response.Message  "Profile not found or Experience not found"
// @Failure      401     {object}  response.Message
// @Failure      500     {object}  response.Message
// @Router       /profile/experience/{exp_id} [delete]
func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	profile, err := h.profileUC.RemoveExperience(c.Request.Context(), middleware.IdentityFrom(c), c.Param("exp_id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// bindBody decodes a JSON body. An empty body decodes to the zero value so the
// usecase reports the missing fields as violations.
func bindBody(c *gin.Context, out interface{}) error {
	if err := c.ShouldBindJSON(out); err != nil && !errors.Is(err, io.EOF) {
		return apperror.BadRequest("Invalid request body")
	}
	return nil
}
