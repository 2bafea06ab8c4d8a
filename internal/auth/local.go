package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/database"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/utilities"
)

// LocalAuthHandler holds DB reference and the revoked token store for handler methods.
type LocalAuthHandler struct {
	DB        *database.DBinstanceStruct
	Blacklist JwtBlacklistStore
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler
func NewLocalAuthHandler(db *database.DBinstanceStruct, blacklist JwtBlacklistStore) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB:        db,
		Blacklist: blacklist,
	}
}

// Register creates an account and signs it in.
// Email must not already exist and password must be at least 8 characters long.
// @Router /auth/register/ [post]
func (lh *LocalAuthHandler) Register(c *gin.Context) {
	var info model.RegisterRequest
	if err := c.ShouldBindJSON(&info); err != nil {
		utilities.ValidationFailed(c, err)
		return
	}
	info.Email = strings.ToLower(strings.TrimSpace(info.Email))

	if info.Password != info.PasswordConfirm {
		c.JSON(http.StatusBadRequest, utilities.ValidationErrorResponse{
			Error:   "Passwords do not match",
			Details: map[string][]string{"password_confirm": {"Passwords do not match."}},
		})
		return
	}

	var existing model.User
	err := lh.DB.Where("email = ?", info.Email).First(&existing).Error
	switch {
	case err == nil:
		LogAuthAttempt("info", "Register", "Fail", info.Email, "email already exists")
		c.JSON(http.StatusBadRequest, utilities.ValidationErrorResponse{
			Error:   "Email already exist",
			Details: map[string][]string{"email": {"A user with this email already exists."}},
		})
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing
	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	user := model.User{
		Email:     info.Email,
		Password:  hashedPassword,
		FirstName: info.FirstName,
		LastName:  info.LastName,
	}
	if err := lh.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
		})
		return
	}

	LogAuthAttempt("info", "Register", "Success", user.Email, "")
	lh.respondWithTokens(c, http.StatusCreated, user)
}

// Login checks email and password and returns a token pair with the user
// @Router /auth/login/ [post]
func (lh *LocalAuthHandler) Login(c *gin.Context) {
	var info model.LoginRequest
	if err := c.ShouldBindJSON(&info); err != nil {
		utilities.ValidationFailed(c, err)
		return
	}
	info.Email = strings.ToLower(strings.TrimSpace(info.Email))

	var user model.User
	err := lh.DB.Preload("Profile").Where("email = ?", info.Email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		LogAuthAttempt("info", "Login", "Fail", info.Email, "unknown email")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "Email or password is incorrect"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if user.Password == "" || !utilities.VerifyPassword(info.Password, user.Password) {
		LogAuthAttempt("info", "Login", "Fail", info.Email, "wrong password")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "Email or password is incorrect"})
		return
	}

	LogAuthAttempt("info", "Login", "Success", user.Email, "")
	lh.respondWithTokens(c, http.StatusOK, user)
}

func (lh *LocalAuthHandler) respondWithTokens(c *gin.Context, status int, user model.User) {
	tokens, err := GenerateTokens(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}
	c.JSON(status, model.AuthResponse{TokenPair: tokens, User: user})
}

// Refresh exchanges a refresh token for a new pair, the presented refresh token is revoked
// @Router /auth/refresh/ [post]
func (lh *LocalAuthHandler) Refresh(c *gin.Context) {
	var body model.RefreshRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utilities.ValidationFailed(c, err)
		return
	}

	claims, err := ParseClaims(body.Refresh, AudienceRefresh)
	if err != nil {
		LogAuthAttempt("info", "Refresh", "Fail", "", err.Error())
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "Invalid refresh token"})
		return
	}

	revoked, err := lh.Blacklist.IsBlacklisted(claims.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	if revoked {
		LogAuthAttempt("warning", "Refresh", "Fail", claims.Subject, "revoked token reused")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "Token has been revoked"})
		return
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "Invalid refresh token"})
		return
	}
	var count int64
	if err := lh.DB.Model(&model.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	if count == 0 {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "User not exist"})
		return
	}

	if err := lh.Blacklist.AddToBlacklist(claims.ID, claims.ExpiresAt.Time); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to rotate token"})
		return
	}

	tokens, err := GenerateTokens(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	LogAuthAttempt("info", "Refresh", "Success", claims.Subject, "")
	c.JSON(http.StatusOK, tokens)
}

// Logout revokes the refresh token of the body and the bearer access token when one is sent
// @Router /auth/logout/ [post]
func (lh *LocalAuthHandler) Logout(c *gin.Context) {
	var body model.RefreshRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utilities.ValidationFailed(c, err)
		return
	}

	claims, err := ParseClaims(body.Refresh, AudienceRefresh)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid refresh token"})
		return
	}
	if err := lh.Blacklist.AddToBlacklist(claims.ID, claims.ExpiresAt.Time); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to logout"})
		return
	}

	if token, err := utilities.ExtractBearerToken(c); err == nil {
		if access, err := ParseClaims(token, AudienceAccess); err == nil {
			_ = lh.Blacklist.AddToBlacklist(access.ID, access.ExpiresAt.Time)
		}
	}

	LogAuthAttempt("info", "Logout", "Success", claims.Subject, "")
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Successfully logged out"})
}

// Profile returns the signed in user
// @Router /auth/profile/ [get]
func (lh *LocalAuthHandler) Profile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile patches name and profile fields of the signed in user
// @Router /auth/profile/ [patch]
func (lh *LocalAuthHandler) UpdateProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var input model.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utilities.ValidationFailed(c, err)
		return
	}
	input.Apply(&user)
	user.Profile.UserID = user.ID

	err = lh.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Save(&user).Error; err != nil {
			return err
		}
		return tx.Save(&user.Profile).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update user information: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, user)
}
