// Package user provides HTTP handlers for profile and account utility endpoints.
package user

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shivpratapmithapalli/jobassist/internal/database"
	"github.com/shivpratapmithapalli/jobassist/internal/model"
	"github.com/shivpratapmithapalli/jobassist/internal/utilities"
)

// UserController handles profile related endpoints
type UserController struct {
	DB *database.DBinstanceStruct
}

// NewUserController creates a new instance of UserController
func NewUserController(db *database.DBinstanceStruct) *UserController {
	return &UserController{
		DB: db,
	}
}

// EmailCheckResponse is the body of the check-email endpoint.
type EmailCheckResponse struct {
	Exists bool `json:"exists"`
}

// GetProfile returns the authenticated user's profile.
// @Summary Get the current user's profile
// @Tags User
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.User "Profile of the authenticated user"
// @Failure 401 {object} utilities.ErrorResponse "Missing or invalid token"
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.NewErrorResponse("Profile fetch failed", err.Error()))
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile applies the non-empty fields of the request to the profile
// and recomputes the derived profile_completed flag.
// @Summary Update the current user's profile
// @Description Only non-empty fields are applied; absent fields keep their stored values
// @Tags User
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Info body model.EditableUserInfo true "Partial profile fields"
// @Success 200 {object} model.User "Updated profile"
// @Failure 400 {object} utilities.ErrorResponse "Invalid experience level"
// @Failure 401 {object} utilities.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /user/profile [put]
func (uc *UserController) UpdateProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.NewErrorResponse("Profile update failed", err.Error()))
		return
	}

	var info model.EditableUserInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.NewErrorResponse(
			"Profile update failed", fmt.Sprintf("Invalid request body: %s", err.Error()),
		))
		return
	}

	if info.ExperienceLevel != "" && !model.ExperienceLevel(info.ExperienceLevel).Valid() {
		c.JSON(http.StatusBadRequest, utilities.NewErrorResponse(
			"Profile update failed", fmt.Sprintf("Experience level '%s' not allowed", info.ExperienceLevel),
		))
		return
	}

	if info.Name != "" {
		user.Name = info.Name
	}
	if info.Phone != "" {
		user.Phone = info.Phone
	}
	if info.Location != "" {
		user.Location = info.Location
	}
	if info.CurrentRole != "" {
		user.CurrentRole = info.CurrentRole
	}
	if info.ExperienceLevel != "" {
		user.ExperienceLevel = model.ExperienceLevel(info.ExperienceLevel)
	}
	if info.SalaryExpectation != "" {
		user.SalaryExpectation = info.SalaryExpectation
	}

	user.RecomputeProfileCompleted()

	err = uc.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Save(&user).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.NewErrorResponse(
			"Profile update failed", fmt.Sprintf("Failed to update profile: %s", err.Error()),
		))
		return
	}

	c.JSON(http.StatusOK, user)
}

// CheckEmail reports whether an email is already registered, for client-side
// form validation. Matching is case-sensitive, same as registration.
// @Summary Check whether an email is already registered
// @Tags User
// @Produce json
// @Param email query string true "Email to probe"
// @Success 200 {object} EmailCheckResponse
// @Failure 400 {object} utilities.ErrorResponse "Missing email parameter"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /user/check-email [get]
func (uc *UserController) CheckEmail(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		c.JSON(http.StatusBadRequest, utilities.NewErrorResponse(
			"Email check failed", "Email query parameter must be provided",
		))
		return
	}

	var count int64
	if err := uc.DB.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.NewErrorResponse(
			"Email check failed", "Please try again later",
		))
		return
	}

	c.JSON(http.StatusOK, EmailCheckResponse{Exists: count > 0})
}

// Health is a plain-text liveness probe.
// @Summary Health check
// @Tags User
// @Produce plain
// @Success 200 {string} string "User service is running"
// @Router /user/health [get]
func (uc *UserController) Health(c *gin.Context) {
	c.String(http.StatusOK, "User service is running")
}
