package utils

import (
	"regexp"
	"strings"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex    = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	hexColorRegex = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)
	// Password character classes
	hasLower  = regexp.MustCompile(`[a-z]`)
	hasUpper  = regexp.MustCompile(`[A-Z]`)
	hasNumber = regexp.MustCompile(`[0-9]`)
)

// ValidateUsername checks if the username meets the requirements
func ValidateUsername(username string) (bool, string) {
	if len(username) < 3 {
		return false, "Username must be at least 3 characters long"
	}
	if len(username) > 20 {
		return false, "Username must not exceed 20 characters"
	}
	if !usernameRegex.MatchString(username) {
		return false, "Username can only contain letters, numbers, and underscores"
	}
	return true, ""
}

// ValidateEmail checks if the email is valid
func ValidateEmail(email string) (bool, string) {
	if !emailRegex.MatchString(email) {
		return false, "Invalid email format"
	}
	return true, ""
}

// ValidatePhone checks a phone number and returns it in E.164-ish form
func ValidatePhone(phone string) (bool, string) {
	formatted := strings.ReplaceAll(phone, " ", "")
	formatted = strings.ReplaceAll(formatted, "-", "")
	if !phoneRegex.MatchString(formatted) {
		return false, "Invalid phone number format"
	}
	return true, formatted
}

// ValidatePassword checks if the password meets the requirements
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters long"
	}
	if !hasLower.MatchString(password) {
		return false, "Password must contain at least one lowercase letter"
	}
	if !hasUpper.MatchString(password) {
		return false, "Password must contain at least one uppercase letter"
	}
	if !hasNumber.MatchString(password) {
		return false, "Password must contain at least one number"
	}
	return true, ""
}

// ValidateHexColor checks a 6-hex-digit color string (no leading '#')
func ValidateHexColor(color string) (bool, string) {
	if !hexColorRegex.MatchString(color) {
		return false, "Color must be a 6-digit hex value"
	}
	return true, ""
}

// ValidateCodeName checks a code template or setting name
func ValidateCodeName(name string) (bool, string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false, "Name is required"
	}
	if len(trimmed) > 50 {
		return false, "Name must not exceed 50 characters"
	}
	return true, ""
}
