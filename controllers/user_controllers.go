package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/restopos/backend/models"
	"github.com/restopos/backend/poserr"
	"github.com/restopos/backend/rbac"
	"github.com/restopos/backend/services"
	"github.com/restopos/backend/utils"
)

type UserController struct {
	DB  *gorm.DB
	OTP *services.OTPService
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db, OTP: services.NewOTPService(db)}
}

// Register -> POST /register
func (uc *UserController) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}
	if !rbac.Valid(rbac.Role(req.Role)) {
		utils.RespondError(c, poserr.Validationf("unknown role %q", req.Role))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     req.Role,
		Active:   true,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{"user_id": user.ID})
}

// Login -> POST /login. When the account has 2FA enabled the TOTP code
// must accompany the credentials.
func (uc *UserController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		OTPCode  string `json:"otp_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.RespondErrorCode(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}
	if !user.Active {
		utils.RespondErrorCode(c, http.StatusForbidden, errors.New("account is deactivated"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.RespondErrorCode(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if user.TwoFAOn {
		if req.OTPCode == "" {
			utils.RespondErrorCode(c, http.StatusUnauthorized, errors.New("otp_code required"))
			return
		}
		ok, err := uc.OTP.Verify(user.ID, req.OTPCode)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		if !ok {
			utils.RespondErrorCode(c, http.StatusUnauthorized, errors.New("invalid otp code"))
			return
		}
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondErrorCode(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("User %s logged in", user.Email)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout -> POST /logout; the presented token is blacklisted until it
// would have expired anyway.
func (uc *UserController) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		utils.RespondError(c, poserr.Validationf("no token to revoke"))
		return
	}

	utils.BlacklistToken(token)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// Setup2FA -> POST /auth/setup-2fa for the authenticated user.
func (uc *UserController) Setup2FA(c *gin.Context) {
	userID, _ := c.Get("userID")
	id, ok := userID.(uint)
	if !ok {
		utils.RespondErrorCode(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	setup, err := uc.OTP.Setup(id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "2FA provisioning created", setup)
}

// Verify2FA -> POST /auth/verify-2fa {code}; first success turns 2FA on.
func (uc *UserController) Verify2FA(c *gin.Context) {
	userID, _ := c.Get("userID")
	id, ok := userID.(uint)
	if !ok {
		utils.RespondErrorCode(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	var body struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	ok, err := uc.OTP.Verify(id, body.Code)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if !ok {
		utils.RespondErrorCode(c, http.StatusUnauthorized, errors.New("invalid otp code"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "2FA verified", nil)
}

// GetAllUsers -> GET /users
func (uc *UserController) GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := uc.DB.Order("id asc").Find(&users).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of users", users)
}

// UpdateUser -> PATCH /users/:user_id. Role and activation changes are
// limited to users the actor outranks.
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, poserr.Validationf("user id must be numeric"))
		return
	}

	var target models.User
	if err := uc.DB.First(&target, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, poserr.NotFound("user", id))
			return
		}
		utils.RespondError(c, err)
		return
	}

	actorRole, _ := c.Get("role")
	role, _ := actorRole.(string)
	if !rbac.CanManageUser(rbac.Role(role), rbac.Role(target.Role)) {
		utils.RespondErrorCode(c, http.StatusForbidden, errors.New("cannot manage a user of equal or higher rank"))
		return
	}

	var body struct {
		Name   *string `json:"name"`
		Role   *string `json:"role"`
		Active *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil {
		target.Name = *body.Name
	}
	if body.Role != nil {
		if !rbac.Valid(rbac.Role(*body.Role)) {
			utils.RespondError(c, poserr.Validationf("unknown role %q", *body.Role))
			return
		}
		if !rbac.CanManageUser(rbac.Role(role), rbac.Role(*body.Role)) {
			utils.RespondErrorCode(c, http.StatusForbidden, errors.New("cannot promote beyond own rank"))
			return
		}
		target.Role = *body.Role
	}
	if body.Active != nil {
		target.Active = *body.Active
	}
	target.UpdatedAt = time.Now()

	if err := uc.DB.Save(&target).Error; err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User updated", target)
}
