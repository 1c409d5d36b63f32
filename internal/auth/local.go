// Package auth contain token service and local credential handlers.
package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/shivpratapmithapalli/jobassist/internal/apperror"
	"github.com/shivpratapmithapalli/jobassist/internal/database"
	"github.com/shivpratapmithapalli/jobassist/internal/model"
	"github.com/shivpratapmithapalli/jobassist/internal/utilities"
)

// One message for every login failure so callers cannot probe which emails
// are registered.
const invalidCredentialsMessage = "Invalid email or password"

// pgUniqueViolation is the Postgres error code for a unique index violation.
const pgUniqueViolation = "23505"

// LocalAuthHandler holds the dependencies of the register and login endpoints.
type LocalAuthHandler struct {
	DB     *database.DBinstanceStruct
	Tokens *TokenService
}

// NewLocalAuthHandler creates a new LocalAuthHandler with the provided
// database connection and token service.
func NewLocalAuthHandler(db *database.DBinstanceStruct, tokens *TokenService) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB:     db,
		Tokens: tokens,
	}
}

type registerInfo struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

type loginInfo struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterHandler creates a new account and issues an access token.
// @Summary Register a new user with name, email and password
// @Description Email must not already be registered and password must be at least 8 characters
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body registerInfo true "Registration fields; phone and location are optional"
// @Success 201 {object} model.AuthResponse "Token plus the stored profile"
// @Failure 400 {object} utilities.ErrorResponse "Missing/invalid fields or email already registered"
// @Failure 500 {object} utilities.ErrorResponse "Signing key misconfigured or database error"
// @Router /user/register [post]
func (lh *LocalAuthHandler) RegisterHandler(c *gin.Context) {
	var info registerInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.NewErrorResponse(
			"Registration failed",
			"Name, a valid email, and a password of at least 8 characters must be provided",
		))
		return
	}

	// The signing key must be usable before anything is written; a
	// misconfigured deployment must not persist an account it cannot issue a
	// token for.
	if err := lh.Tokens.CheckSigningKey(); err != nil {
		utilities.RenderError(c, "Registration failed", err)
		return
	}

	var existing model.User
	err := lh.DB.Where("email = ?", info.Email).First(&existing).Error

	switch {
	case err == nil:
		utilities.RenderError(c, "Registration failed",
			apperror.Conflict("Email is already registered", nil))
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.NewErrorResponse(
			"Registration failed", fmt.Sprintf("Database error: %s", err.Error()),
		))
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.NewErrorResponse(
			"Registration failed", fmt.Sprintf("Failed hash password: %s", err.Error()),
		))
		return
	}

	user := model.User{
		Name:     info.Name,
		Email:    info.Email,
		Password: hashedPassword,
		Phone:    info.Phone,
		Location: info.Location,
		// Auto-verified for now; a real verification flow would flip this
		// after a confirmation step.
		EmailVerified:    true,
		ProfileCompleted: false,
		ExperienceLevel:  model.ExperienceEntry,
	}

	if err := lh.DB.Create(&user).Error; err != nil {
		// The unique index closes the race left open by the probe above.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			utilities.RenderError(c, "Registration failed",
				apperror.Conflict("Email is already registered", err))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.NewErrorResponse(
			"Registration failed", fmt.Sprintf("Failed to create user: %s", err.Error()),
		))
		return
	}

	accessToken, err := lh.Tokens.Generate(user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.NewErrorResponse(
			"Registration failed", fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		))
		return
	}

	c.JSON(http.StatusCreated, model.NewAuthResponse(accessToken, user))
}

// LoginHandler authenticates an email/password pair and issues an access token.
// @Summary Log in with email and password
// @Description Any failure returns the same generic message
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials for login"
// @Success 200 {object} model.AuthResponse "Token plus the stored profile"
// @Failure 400 {object} utilities.ErrorResponse "Missing fields or invalid credentials"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /user/login [post]
func (lh *LocalAuthHandler) LoginHandler(c *gin.Context) {
	var info loginInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.NewErrorResponse(
			"Login failed", "Email or password is not provided",
		))
		return
	}

	var user model.User
	err := lh.DB.Where("email = ?", info.Email).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusBadRequest, utilities.NewErrorResponse(
			"Login failed", invalidCredentialsMessage,
		))
		return

	case err == nil:
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.NewErrorResponse(
			"Login failed", fmt.Sprintf("Database error: %s", err.Error()),
		))
		return
	}

	if user.Password == "" || !utilities.VerifyPassword(info.Password, user.Password) {
		c.JSON(http.StatusBadRequest, utilities.NewErrorResponse(
			"Login failed", invalidCredentialsMessage,
		))
		return
	}

	accessToken, err := lh.Tokens.Generate(user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.NewErrorResponse(
			"Login failed", fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		))
		return
	}

	c.JSON(http.StatusOK, model.NewAuthResponse(accessToken, user))
}
