package utils

import (
	"github.com/aronh-dev/GuestSphere/config"
	"github.com/aronh-dev/GuestSphere/models"
)

// HasBrandAccess reports whether the user owns the brand or is a team
// member of it. All brand-scoped mutations go through this check.
func HasBrandAccess(userID, brandID uint) bool {
	var brand models.Brand
	if err := config.DB.First(&brand, brandID).Error; err != nil {
		return false
	}
	if brand.CreatedBy == userID {
		return true
	}

	var count int64
	config.DB.Model(&models.BrandMember{}).
		Where("brand_id = ? AND user_id = ?", brandID, userID).
		Count(&count)
	return count > 0
}

// GetAccessibleBrandIDs returns every brand ID the user owns or belongs to.
func GetAccessibleBrandIDs(userID uint) ([]uint, error) {
	var owned []uint
	if err := config.DB.Model(&models.Brand{}).
		Where("created_by = ?", userID).
		Pluck("id", &owned).Error; err != nil {
		return nil, err
	}

	var member []uint
	if err := config.DB.Model(&models.BrandMember{}).
		Where("user_id = ?", userID).
		Pluck("brand_id", &member).Error; err != nil {
		return nil, err
	}

	seen := make(map[uint]bool, len(owned)+len(member))
	ids := make([]uint, 0, len(owned)+len(member))
	for _, id := range append(owned, member...) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}
