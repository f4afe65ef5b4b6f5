package controllers

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/aronh-dev/GuestSphere/config"
	"github.com/aronh-dev/GuestSphere/models"
	"github.com/aronh-dev/GuestSphere/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
}

// RegistrationData represents the registration data stored in session
// until the OTP is verified
type RegistrationData struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	OTP        string `json:"otp"`
	OTPExpires int64  `json:"otp_expires"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
}

// RegisterUser validates registration input, emails an OTP and parks the
// pending registration in the session
func RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Registration attempt failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}
	utils.LogInfo("Registration attempt for email: %s, username: %s", req.Email, req.Username)

	if valid, msg := utils.ValidateUsername(req.Username); !valid {
		utils.LogError("Registration attempt failed - Invalid username: %s - %s", req.Username, msg)
		utils.BadRequest(c, "Invalid username", msg)
		return
	}
	if valid, msg := utils.ValidateEmail(req.Email); !valid {
		utils.LogError("Registration attempt failed - Invalid email: %s - %s", req.Email, msg)
		utils.BadRequest(c, "Invalid email", msg)
		return
	}
	if valid, msg := utils.ValidatePassword(req.Password); !valid {
		utils.LogError("Registration attempt failed - Invalid password for email: %s - %s", req.Email, msg)
		utils.BadRequest(c, "Invalid password", msg)
		return
	}
	if req.Password != req.ConfirmPassword {
		utils.LogError("Registration attempt failed - Passwords do not match for email: %s", req.Email)
		utils.BadRequest(c, "Passwords do not match", nil)
		return
	}
	if req.Phone != "" {
		valid, formatted := utils.ValidatePhone(req.Phone)
		if !valid {
			utils.LogError("Registration attempt failed - Invalid phone: %s", req.Phone)
			utils.BadRequest(c, "Invalid phone", formatted)
			return
		}
		req.Phone = formatted
	}

	// Existing account check
	var existing models.User
	if err := config.DB.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error; err == nil {
		utils.LogError("Registration attempt failed - Account already exists: %s", req.Email)
		utils.BadRequest(c, "An account with this email or username already exists", nil)
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash password for email: %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to process registration", nil)
		return
	}

	otp := fmt.Sprintf("%06d", rand.Intn(1000000))
	session := sessions.Default(c)
	session.Set("registration", RegistrationData{
		Email:      req.Email,
		Password:   hashed,
		OTP:        otp,
		OTPExpires: time.Now().Add(15 * time.Minute).Unix(),
		Username:   req.Username,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
	})
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save registration session for email: %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to process registration", nil)
		return
	}

	if err := utils.SendOTP(req.Email, otp); err != nil {
		utils.LogError("Failed to send OTP to email: %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to send verification email", nil)
		return
	}

	utils.LogInfo("Registration OTP sent to email: %s", req.Email)
	utils.Success(c, "Verification OTP sent to your email", gin.H{
		"email": req.Email,
	})
}

// VerifyOTPRequest represents the OTP verification request body
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// VerifyOTP completes registration once the emailed OTP matches
func VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("OTP verification failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}
	utils.LogInfo("OTP verification attempt for email: %s", req.Email)

	session := sessions.Default(c)
	data, ok := session.Get("registration").(RegistrationData)
	if !ok || data.Email != req.Email {
		utils.LogError("OTP verification failed - No pending registration for email: %s", req.Email)
		utils.BadRequest(c, "No pending registration found. Please register again", nil)
		return
	}

	if time.Now().Unix() > data.OTPExpires {
		utils.LogError("OTP verification failed - OTP expired for email: %s", req.Email)
		utils.BadRequest(c, "OTP has expired. Please register again", nil)
		return
	}
	if data.OTP != req.OTP {
		utils.LogError("OTP verification failed - Wrong OTP for email: %s", req.Email)
		utils.BadRequest(c, "Invalid OTP", nil)
		return
	}

	user := models.User{
		Username:   data.Username,
		Email:      data.Email,
		Password:   data.Password,
		FirstName:  data.FirstName,
		LastName:   data.LastName,
		Phone:      data.Phone,
		IsVerified: true,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			utils.LogError("OTP verification failed - Account already exists: %s", req.Email)
			utils.BadRequest(c, "An account with this email or username already exists", nil)
			return
		}
		utils.LogError("Failed to create user for email: %s: %v", req.Email, err)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}

	session.Delete("registration")
	_ = session.Save()

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to generate token for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Account created but login failed. Please log in", nil)
		return
	}

	utils.LogInfo("User registered successfully - ID: %d, email: %s", user.ID, user.Email)
	utils.Created(c, "Account created successfully", gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginUser handles user login
func LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Login attempt failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid email or password", err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.LogError("Login attempt failed - User not found: %s", req.Email)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		utils.LogError("Login attempt failed - Invalid password for user: %s", req.Email)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	if user.IsBlocked {
		utils.LogError("Login attempt failed - Blocked account: %s", req.Email)
		utils.Forbidden(c, "Account is blocked")
		return
	}

	user.LastLoginAt = time.Now()
	if err := config.DB.Save(&user).Error; err != nil {
		utils.LogError("Failed to update last login time for user: %s", req.Email)
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Failed to generate token for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	utils.LogInfo("User logged in successfully - ID: %d, email: %s", user.ID, user.Email)
	utils.Success(c, "Login successful", gin.H{
		"token": token,
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
		},
	})
}
