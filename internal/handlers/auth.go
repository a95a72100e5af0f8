package handlers

import (
	"context"
	"time"

	"icancare-server/internal/config"
	"icancare-server/internal/middleware"
	"icancare-server/internal/models"
	"icancare-server/internal/utils"

	"github.com/gin-gonic/gin"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

// GoogleIdentity holds the fields extracted from a verified Google ID token.
type GoogleIdentity struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
}

// GoogleVerifier validates a Google ID token against an OAuth client ID.
type GoogleVerifier func(ctx context.Context, credential, audience string) (*GoogleIdentity, error)

// AuthHandler handles signup, login and profile requests.
type AuthHandler struct {
	DB           *gorm.DB
	Cfg          *config.Config
	VerifyGoogle GoogleVerifier
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg, VerifyGoogle: verifyGoogleIDToken}
}

func verifyGoogleIDToken(ctx context.Context, credential, audience string) (*GoogleIdentity, error) {
	payload, err := idtoken.Validate(ctx, credential, audience)
	if err != nil {
		return nil, err
	}
	identity := &GoogleIdentity{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		identity.Email = email
	}
	if given, ok := payload.Claims["given_name"].(string); ok {
		identity.FirstName = given
	}
	if family, ok := payload.Claims["family_name"].(string); ok {
		identity.LastName = family
	}
	return identity, nil
}

// SignupRequest represents the request body for account signup.
type SignupRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`

	// Doctor signup fields
	Specialization  string `json:"specialization"`
	ExperienceYears int    `json:"experienceYears"`
	Education       string `json:"education"`
	Bio             string `json:"bio"`
}

// Signup returns a handler that registers a new account with the given role.
// Doctors start with a pending approval status.
func (h *AuthHandler) Signup(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if !utils.BindAndValidate(c, &req) {
			return
		}

		var existing models.User
		if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			utils.BadRequest(c, "User with this email already exists")
			return
		} else if err != gorm.ErrRecordNotFound {
			utils.InternalServerError(c, "Database error: "+err.Error())
			return
		}

		if role == models.RoleDoctor && req.Specialization == "" {
			utils.BadRequest(c, "Specialization is required for doctor signup")
			return
		}

		user := models.User{
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			Email:           req.Email,
			Role:            role,
			Specialization:  req.Specialization,
			ExperienceYears: req.ExperienceYears,
			Education:       req.Education,
			Bio:             req.Bio,
		}
		if role == models.RoleDoctor {
			user.ApprovalStatus = models.ApprovalPending
		}

		if err := user.SetPassword(req.Password); err != nil {
			utils.InternalServerError(c, "Failed to hash password: "+err.Error())
			return
		}

		if err := h.DB.Create(&user).Error; err != nil {
			utils.InternalServerError(c, "Failed to create user: "+err.Error())
			return
		}

		utils.Created(c, "Account registered successfully", user.Sanitize())
	}
}

// LoginRequest represents the request body for password login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for a successful login.
type LoginResponse struct {
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
	Role         models.Role          `json:"role"`
	User         models.UserSanitized `json:"user"`
}

// Login returns a handler for password login with the given role. A doctor
// whose approval status is not "approved" is blocked, with the status
// reported back to the client.
func (h *AuthHandler) Login(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if !utils.BindAndValidate(c, &req) {
			return
		}

		var user models.User
		if err := h.DB.Where("email = ? AND role = ?", req.Email, role).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.Unauthorized(c, "Invalid email or password")
			} else {
				utils.InternalServerError(c, "Database error: "+err.Error())
			}
			return
		}

		if !user.CheckPassword(req.Password) {
			utils.Unauthorized(c, "Invalid email or password")
			return
		}

		if role == models.RoleDoctor && user.ApprovalStatus != models.ApprovalApproved {
			utils.Forbidden(c, "Doctor account is not approved for clinical use (status: "+string(user.ApprovalStatus)+")")
			return
		}

		resp, err := h.issueTokens(&user)
		if err != nil {
			utils.InternalServerError(c, err.Error())
			return
		}
		utils.Success(c, "Login successful", resp)
	}
}

// GoogleLoginRequest carries the Google ID token issued to the client.
type GoogleLoginRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// GoogleLogin returns a handler for Google sign-in with the given role. The
// ID token is verified against the configured OAuth client ID; the account
// is created on first sign-in. The doctor approval gate applies here too.
func (h *AuthHandler) GoogleLogin(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GoogleLoginRequest
		if !utils.BindAndValidate(c, &req) {
			return
		}

		identity, err := h.VerifyGoogle(c.Request.Context(), req.Credential, h.Cfg.Google.ClientID)
		if err != nil {
			utils.Unauthorized(c, "Google token verification failed: "+err.Error())
			return
		}
		if identity.Email == "" {
			utils.Unauthorized(c, "Google token did not include an email address")
			return
		}

		var user models.User
		err = h.DB.Where("email = ?", identity.Email).First(&user).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			user = models.User{
				FirstName: identity.FirstName,
				LastName:  identity.LastName,
				Email:     identity.Email,
				Role:      role,
				GoogleID:  identity.Subject,
			}
			if role == models.RoleDoctor {
				user.ApprovalStatus = models.ApprovalPending
			}
			if err := h.DB.Create(&user).Error; err != nil {
				utils.InternalServerError(c, "Failed to create user: "+err.Error())
				return
			}
		case err != nil:
			utils.InternalServerError(c, "Database error: "+err.Error())
			return
		default:
			if user.Role != role {
				utils.Forbidden(c, "This email is registered under a different role")
				return
			}
			if user.GoogleID == "" {
				user.GoogleID = identity.Subject
				if err := h.DB.Model(&user).Update("google_id", identity.Subject).Error; err != nil {
					utils.InternalServerError(c, "Failed to link Google account: "+err.Error())
					return
				}
			}
		}

		if role == models.RoleDoctor && user.ApprovalStatus != models.ApprovalApproved {
			utils.Forbidden(c, "Doctor account is not approved for clinical use (status: "+string(user.ApprovalStatus)+")")
			return
		}

		resp, err := h.issueTokens(&user)
		if err != nil {
			utils.InternalServerError(c, err.Error())
			return
		}
		utils.Success(c, "Login successful", resp)
	}
}

// issueTokens mints an access/refresh token pair and persists the refresh
// token so it can be rotated and revoked.
func (h *AuthHandler) issueTokens(user *models.User) (*LoginResponse, error) {
	accessToken, refreshTokenString, err := utils.GenerateTokens(user, h.Cfg)
	if err != nil {
		return nil, err
	}

	refreshToken := models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().Add(time.Duration(h.Cfg.JWTRefreshExpirationHours) * time.Hour),
		IsRevoked: false,
	}
	if err := h.DB.Create(&refreshToken).Error; err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		Role:         user.Role,
		User:         user.Sanitize(),
	}, nil
}

// RefreshTokenRequest represents the request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshToken rotates a refresh token and returns a new token pair.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	claims, err := utils.ValidateToken(req.RefreshToken, h.Cfg.JWTRefreshSecret)
	if err != nil {
		utils.Unauthorized(c, "Invalid refresh token: "+err.Error())
		return
	}

	var storedToken models.RefreshToken
	if err := h.DB.Where("token = ? AND user_id = ? AND is_revoked = ? AND expires_at > ?",
		req.RefreshToken, claims.UserID, false, time.Now()).First(&storedToken).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Unauthorized(c, "Refresh token not found, expired, or revoked")
		} else {
			utils.InternalServerError(c, "Database error checking refresh token: "+err.Error())
		}
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		utils.InternalServerError(c, "Failed to find user associated with token: "+err.Error())
		return
	}

	// Rotate: revoke the old refresh token before issuing a new pair.
	storedToken.Revoke()
	if err := h.DB.Save(&storedToken).Error; err != nil {
		utils.InternalServerError(c, "Failed to revoke refresh token: "+err.Error())
		return
	}

	resp, err := h.issueTokens(&user)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.Success(c, "Access token refreshed successfully", resp)
}

// Logout revokes a refresh token.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req RefreshTokenRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var storedToken models.RefreshToken
	if err := h.DB.Where("token = ? AND is_revoked = ?", req.RefreshToken, false).First(&storedToken).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// Token not found or already revoked, which is acceptable for logout.
			utils.Success(c, "Logout successful", nil)
		} else {
			utils.InternalServerError(c, "Database error during logout: "+err.Error())
		}
		return
	}

	storedToken.Revoke()
	if err := h.DB.Save(&storedToken).Error; err != nil {
		utils.InternalServerError(c, "Failed to revoke refresh token: "+err.Error())
		return
	}

	utils.Success(c, "Logout successful. Refresh token has been invalidated.", nil)
}

// GetProfile handles fetching the currently authenticated user's profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "User profile not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Profile fetched successfully", user.Sanitize())
}

// CompleteProfileRequest represents the role-dependent profile fields.
type CompleteProfileRequest struct {
	// Patient fields
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`

	// Doctor fields
	Specialization  string `json:"specialization"`
	ExperienceYears int    `json:"experienceYears"`
	Education       string `json:"education"`
	Bio             string `json:"bio"`
}

// CompleteProfile updates the authenticated user's profile fields. For
// patients this also marks the profile as complete.
func (h *AuthHandler) CompleteProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req CompleteProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	switch user.Role {
	case models.RolePatient:
		if req.DateOfBirth != "" {
			dob, err := time.Parse("2006-01-02", req.DateOfBirth)
			if err != nil {
				utils.BadRequest(c, "Invalid dateOfBirth, expected YYYY-MM-DD")
				return
			}
			user.DateOfBirth = &dob
		}
		if req.Gender != "" {
			user.Gender = req.Gender
		}
		if req.PhoneNumber != "" {
			user.PhoneNumber = req.PhoneNumber
		}
		if req.Address != "" {
			user.Address = req.Address
		}
		user.ProfileComplete = true
	case models.RoleDoctor:
		if req.Specialization != "" {
			user.Specialization = req.Specialization
		}
		if req.ExperienceYears > 0 {
			user.ExperienceYears = req.ExperienceYears
		}
		if req.Education != "" {
			user.Education = req.Education
		}
		if req.Bio != "" {
			user.Bio = req.Bio
		}
		user.ProfileComplete = true
	default:
		utils.Forbidden(c, "Profile completion is only available to patients and doctors")
		return
	}

	if err := h.DB.Save(&user).Error; err != nil {
		utils.InternalServerError(c, "Failed to update profile: "+err.Error())
		return
	}

	utils.Success(c, "Profile updated successfully", user.Sanitize())
}
