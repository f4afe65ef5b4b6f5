package controllers

import (
	"strconv"

	"github.com/aronh-dev/GuestSphere/config"
	"github.com/aronh-dev/GuestSphere/models"
	"github.com/aronh-dev/GuestSphere/utils"
	"github.com/gin-gonic/gin"
)

// currentUser pulls the authenticated user out of the gin context
func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return models.User{}, false
	}
	return userVal.(models.User), true
}

// parseIDParam parses a numeric path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		utils.BadRequest(c, "Invalid "+name, nil)
		return 0, false
	}
	return uint(id), true
}

// CreateBrandRequest represents the request body for creating a brand
type CreateBrandRequest struct {
	Name        string `json:"name" binding:"required"`
	Username    string `json:"username" binding:"required"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
}

// CreateBrand creates a new brand owned by the requesting user
func CreateBrand(c *gin.Context) {
	utils.LogInfo("CreateBrand called")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if valid, msg := utils.ValidateUsername(req.Username); !valid {
		utils.LogError("Invalid brand username: %s - %s", req.Username, msg)
		utils.BadRequest(c, "Invalid brand username", msg)
		return
	}

	brand := models.Brand{
		Name:        req.Name,
		Username:    req.Username,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		CreatedBy:   user.ID,
	}
	if err := config.DB.Create(&brand).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			utils.LogError("Brand username already exists: %s", req.Username)
			utils.BadRequest(c, "Brand username already taken", nil)
			return
		}
		utils.LogError("Failed to create brand for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create brand", err.Error())
		return
	}

	utils.LogInfo("Successfully created brand ID: %d for user ID: %d", brand.ID, user.ID)
	utils.Created(c, "Brand created successfully", gin.H{"brand": brand})
}

// ListBrands returns every brand the user owns or is a member of
func ListBrands(c *gin.Context) {
	utils.LogInfo("ListBrands called")

	user, ok := currentUser(c)
	if !ok {
		return
	}

	brandIDs, err := utils.GetAccessibleBrandIDs(user.ID)
	if err != nil {
		utils.LogError("Failed to resolve accessible brands for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch brands", nil)
		return
	}
	if len(brandIDs) == 0 {
		utils.Success(c, "Brands fetched successfully", gin.H{"brands": []models.Brand{}})
		return
	}

	var brands []models.Brand
	if err := config.DB.Preload("Members.User").Where("id IN ?", brandIDs).Find(&brands).Error; err != nil {
		utils.LogError("Failed to fetch brands for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch brands", nil)
		return
	}

	utils.Success(c, "Brands fetched successfully", gin.H{"brands": brands})
}

// UpdateBrandRequest represents the request body for updating a brand
type UpdateBrandRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url"`
}

// UpdateBrand updates brand details
func UpdateBrand(c *gin.Context) {
	utils.LogInfo("UpdateBrand called")

	user, ok := currentUser(c)
	if !ok {
		return
	}
	brandID, ok := parseIDParam(c, "brandId")
	if !ok {
		return
	}

	if !utils.HasBrandAccess(user.ID, brandID) {
		utils.LogError("User ID: %d has no access to brand ID: %d", user.ID, brandID)
		utils.Forbidden(c, "You don't have access to this brand")
		return
	}

	var req UpdateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var brand models.Brand
	if err := config.DB.First(&brand, brandID).Error; err != nil {
		utils.NotFound(c, "Brand not found")
		return
	}

	if req.Name != nil {
		brand.Name = *req.Name
	}
	if req.Description != nil {
		brand.Description = *req.Description
	}
	if req.LogoURL != nil {
		brand.LogoURL = *req.LogoURL
	}

	if err := config.DB.Save(&brand).Error; err != nil {
		utils.LogError("Failed to update brand ID: %d: %v", brandID, err)
		utils.InternalServerError(c, "Failed to update brand", err.Error())
		return
	}

	utils.LogInfo("Successfully updated brand ID: %d", brandID)
	utils.Success(c, "Brand updated successfully", gin.H{"brand": brand})
}

// DeleteBrand removes a brand. Only the owner may delete.
func DeleteBrand(c *gin.Context) {
	utils.LogInfo("DeleteBrand called")

	user, ok := currentUser(c)
	if !ok {
		return
	}
	brandID, ok := parseIDParam(c, "brandId")
	if !ok {
		return
	}

	var brand models.Brand
	if err := config.DB.First(&brand, brandID).Error; err != nil {
		utils.NotFound(c, "Brand not found")
		return
	}
	if brand.CreatedBy != user.ID {
		utils.LogError("User ID: %d attempted to delete brand ID: %d owned by user ID: %d", user.ID, brandID, brand.CreatedBy)
		utils.Forbidden(c, "Only the brand owner can delete it")
		return
	}

	if err := config.DB.Delete(&brand).Error; err != nil {
		utils.LogError("Failed to delete brand ID: %d: %v", brandID, err)
		utils.InternalServerError(c, "Failed to delete brand", err.Error())
		return
	}

	utils.LogInfo("Successfully deleted brand ID: %d", brandID)
	utils.Success(c, "Brand deleted successfully", nil)
}

// AddBrandMemberRequest represents the request body for adding a team member
type AddBrandMemberRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}

// AddBrandMember adds a user to the brand's team
func AddBrandMember(c *gin.Context) {
	utils.LogInfo("AddBrandMember called")

	user, ok := currentUser(c)
	if !ok {
		return
	}
	brandID, ok := parseIDParam(c, "brandId")
	if !ok {
		return
	}

	if !utils.HasBrandAccess(user.ID, brandID) {
		utils.Forbidden(c, "You don't have access to this brand")
		return
	}

	var req AddBrandMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var member models.User
	if err := config.DB.First(&member, req.UserID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	role := req.Role
	if role == "" {
		role = "member"
	}
	brandMember := models.BrandMember{
		BrandID: brandID,
		UserID:  req.UserID,
		Role:    role,
	}
	if err := config.DB.Create(&brandMember).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			utils.BadRequest(c, "User is already a member of this brand", nil)
			return
		}
		utils.LogError("Failed to add member to brand ID: %d: %v", brandID, err)
		utils.InternalServerError(c, "Failed to add member", err.Error())
		return
	}

	utils.LogInfo("Added user ID: %d to brand ID: %d", req.UserID, brandID)
	utils.Created(c, "Member added successfully", gin.H{"member": brandMember})
}

// RemoveBrandMember removes a user from the brand's team
func RemoveBrandMember(c *gin.Context) {
	utils.LogInfo("RemoveBrandMember called")

	user, ok := currentUser(c)
	if !ok {
		return
	}
	brandID, ok := parseIDParam(c, "brandId")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if !utils.HasBrandAccess(user.ID, brandID) {
		utils.Forbidden(c, "You don't have access to this brand")
		return
	}

	if err := config.DB.Where("brand_id = ? AND user_id = ?", brandID, memberID).
		Delete(&models.BrandMember{}).Error; err != nil {
		utils.LogError("Failed to remove member from brand ID: %d: %v", brandID, err)
		utils.InternalServerError(c, "Failed to remove member", err.Error())
		return
	}

	utils.LogInfo("Removed user ID: %d from brand ID: %d", memberID, brandID)
	utils.Success(c, "Member removed successfully", nil)
}
