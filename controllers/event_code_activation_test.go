package controllers

import (
	"testing"

	"github.com/aronh-dev/GuestSphere/models"
	"github.com/aronh-dev/GuestSphere/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func countActivations(t *testing.T, db *gorm.DB, templateID, eventID uint) int64 {
	var count int64
	require.NoError(t, db.Model(&models.EventCodeActivation{}).
		Where("code_template_id = ? AND event_id = ?", templateID, eventID).
		Count(&count).Error)
	return count
}

func TestToggleCodeForEvent(t *testing.T) {
	t.Run("enable creates an activation and a settings row", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "owner")
		brand := createTestBrand(t, db, user, "club")
		event := createTestEvent(t, db, brand, "Friday")
		template := createTemplateForUser(t, db, user, "VIP")

		attachment := models.CodeBrandAttachment{
			CodeTemplateID: template.ID,
			BrandID:        brand.ID,
		}
		require.NoError(t, db.Create(&attachment).Error)
		require.NoError(t, db.Model(&attachment).Update("is_global_for_brand", false).Error)

		err := toggleCodeForEvent(event, &ToggleEventCodeRequest{
			CodeTemplateID: template.ID,
			IsEnabled:      true,
		})
		require.NoError(t, err)

		assert.Equal(t, int64(1), countActivations(t, db, template.ID, event.ID))
		assert.Equal(t, int64(1), countSettings(t, db, template.ID, event.ID))
	})

	t.Run("disable under a non-global attachment deletes the activation", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "owner")
		brand := createTestBrand(t, db, user, "club")
		event := createTestEvent(t, db, brand, "Friday")
		template := createTemplateForUser(t, db, user, "VIP")

		attachment := models.CodeBrandAttachment{
			CodeTemplateID: template.ID,
			BrandID:        brand.ID,
		}
		require.NoError(t, db.Create(&attachment).Error)
		require.NoError(t, db.Model(&attachment).Update("is_global_for_brand", false).Error)

		require.NoError(t, toggleCodeForEvent(event, &ToggleEventCodeRequest{
			CodeTemplateID: template.ID,
			IsEnabled:      true,
		}))
		require.NoError(t, toggleCodeForEvent(event, &ToggleEventCodeRequest{
			CodeTemplateID: template.ID,
			IsEnabled:      false,
		}))

		assert.Equal(t, int64(0), countActivations(t, db, template.ID, event.ID))
		assert.Equal(t, int64(0), countSettings(t, db, template.ID, event.ID))
	})

	t.Run("disable under a global attachment keeps an explicit disabled row", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "owner")
		brand := createTestBrand(t, db, user, "club")
		event := createTestEvent(t, db, brand, "Friday")
		template := createTemplateForUser(t, db, user, "VIP")

		attachment := models.CodeBrandAttachment{
			CodeTemplateID:   template.ID,
			BrandID:          brand.ID,
			IsGlobalForBrand: true,
		}
		require.NoError(t, db.Create(&attachment).Error)

		require.NoError(t, toggleCodeForEvent(event, &ToggleEventCodeRequest{
			CodeTemplateID: template.ID,
			IsEnabled:      false,
		}))

		// Without the row the global attachment would count as enabled
		var activation models.EventCodeActivation
		require.NoError(t, db.Where("code_template_id = ? AND event_id = ?", template.ID, event.ID).
			First(&activation).Error)
		assert.False(t, activation.IsEnabled)
		assert.Equal(t, int64(0), countSettings(t, db, template.ID, event.ID))

		codes, err := utils.ResolveEventCodes(event.ID)
		require.NoError(t, err)
		require.Len(t, codes, 1)
		assert.False(t, codes[0].IsEnabled)
	})

	t.Run("toggling a child occurrence targets the series root", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "owner")
		brand := createTestBrand(t, db, user, "club")
		parent := createTestEvent(t, db, brand, "Series Root")
		child := models.Event{
			BrandID:       brand.ID,
			Title:         "Series Root - Week 2",
			ParentEventID: &parent.ID,
			WeekNumber:    2,
		}
		require.NoError(t, db.Create(&child).Error)
		template := createTemplateForUser(t, db, user, "VIP")

		attachment := models.CodeBrandAttachment{
			CodeTemplateID: template.ID,
			BrandID:        brand.ID,
		}
		require.NoError(t, db.Create(&attachment).Error)
		require.NoError(t, db.Model(&attachment).Update("is_global_for_brand", false).Error)

		require.NoError(t, toggleCodeForEvent(&child, &ToggleEventCodeRequest{
			CodeTemplateID: template.ID,
			IsEnabled:      true,
		}))

		assert.Equal(t, int64(1), countActivations(t, db, template.ID, parent.ID))
		assert.Equal(t, int64(0), countActivations(t, db, template.ID, child.ID))
	})

	t.Run("unattached template is rejected", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "owner")
		brand := createTestBrand(t, db, user, "club")
		event := createTestEvent(t, db, brand, "Friday")
		template := createTemplateForUser(t, db, user, "VIP")

		err := toggleCodeForEvent(event, &ToggleEventCodeRequest{
			CodeTemplateID: template.ID,
			IsEnabled:      true,
		})
		require.Error(t, err)
		assert.True(t, utils.IsNotFoundError(err))
	})

	t.Run("enable with overrides stores them on the activation", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "owner")
		brand := createTestBrand(t, db, user, "club")
		event := createTestEvent(t, db, brand, "Friday")
		template := createTemplateForUser(t, db, user, "VIP")

		attachment := models.CodeBrandAttachment{
			CodeTemplateID:   template.ID,
			BrandID:          brand.ID,
			IsGlobalForBrand: true,
		}
		require.NoError(t, db.Create(&attachment).Error)

		maxPax := 2
		require.NoError(t, toggleCodeForEvent(event, &ToggleEventCodeRequest{
			CodeTemplateID: template.ID,
			IsEnabled:      true,
			MaxPaxOverride: &maxPax,
		}))

		codes, err := utils.ResolveEventCodes(event.ID)
		require.NoError(t, err)
		require.Len(t, codes, 1)
		assert.Equal(t, 2, codes[0].MaxPax)
		assert.True(t, codes[0].HasOverrides)
	})
}
