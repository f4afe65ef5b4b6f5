package utils

import (
	"testing"

	"github.com/aronh-dev/GuestSphere/config"
	"github.com/aronh-dev/GuestSphere/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = config.MigrateSchema(db)
	require.NoError(t, err)

	config.DB = db
	return db
}

func createTestBrandWithEvent(t *testing.T, db *gorm.DB) (*models.Brand, *models.Event) {
	user := models.User{Username: "owner", Email: "owner@test.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	brand := models.Brand{Name: "Test Brand", Username: "testbrand", CreatedBy: user.ID}
	require.NoError(t, db.Create(&brand).Error)

	event := models.Event{BrandID: brand.ID, Title: "Test Night"}
	require.NoError(t, db.Create(&event).Error)

	return &brand, &event
}

func createTestTemplate(t *testing.T, db *gorm.DB, name string) *models.CodeTemplate {
	template := models.CodeTemplate{
		UserID:       1,
		Name:         name,
		Condition:    "free before midnight",
		MaxPax:       4,
		DefaultLimit: 50,
		Color:        "FF5722",
		Icon:         "RiVipLine",
		RequireEmail: true,
	}
	require.NoError(t, db.Create(&template).Error)
	return &template
}

func TestSyncCodeTemplateToCodeSettings(t *testing.T) {
	t.Run("creates a new row when nothing matches", func(t *testing.T) {
		db := setupTestDB(t)
		_, event := createTestBrandWithEvent(t, db)
		template := createTestTemplate(t, db, "VIP")

		setting := SyncCodeTemplateToCodeSettings(template.ID, event.ID)
		require.NotNil(t, setting)

		assert.Equal(t, event.ID, setting.EventID)
		require.NotNil(t, setting.CodeTemplateID)
		assert.Equal(t, template.ID, *setting.CodeTemplateID)
		assert.Equal(t, models.CodeSettingTypeCustom, setting.Type)
		assert.Equal(t, "VIP", setting.Name)
		assert.Equal(t, "free before midnight", setting.Condition)
		assert.Equal(t, 4, setting.MaxPax)
		assert.Equal(t, 50, setting.Limit)
		assert.True(t, setting.IsEnabled)
		assert.True(t, setting.IsEditable)
	})

	t.Run("resync updates the linked row in place", func(t *testing.T) {
		db := setupTestDB(t)
		_, event := createTestBrandWithEvent(t, db)
		template := createTestTemplate(t, db, "VIP")

		first := SyncCodeTemplateToCodeSettings(template.ID, event.ID)
		require.NotNil(t, first)

		template.MaxPax = 6
		template.Condition = "free all night"
		require.NoError(t, db.Save(template).Error)

		second := SyncCodeTemplateToCodeSettings(template.ID, event.ID)
		require.NotNil(t, second)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 6, second.MaxPax)
		assert.Equal(t, "free all night", second.Condition)

		var count int64
		require.NoError(t, db.Model(&models.CodeSetting{}).
			Where("event_id = ?", event.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("links an unlinked legacy row with the same name", func(t *testing.T) {
		db := setupTestDB(t)
		_, event := createTestBrandWithEvent(t, db)
		template := createTestTemplate(t, db, "Guest List")

		legacy := models.CodeSetting{
			EventID: event.ID,
			Type:    models.CodeSettingTypeGuest,
			Name:    "Guest List",
			Note:    "kept from before",
			MaxPax:  2,
		}
		require.NoError(t, db.Create(&legacy).Error)

		setting := SyncCodeTemplateToCodeSettings(template.ID, event.ID)
		require.NotNil(t, setting)

		assert.Equal(t, legacy.ID, setting.ID)
		require.NotNil(t, setting.CodeTemplateID)
		assert.Equal(t, template.ID, *setting.CodeTemplateID)
		// Row keeps its pre-template type; only linkage and values change
		assert.Equal(t, models.CodeSettingTypeGuest, setting.Type)
		assert.Equal(t, 4, setting.MaxPax)
		assert.True(t, setting.IsEnabled)
	})

	t.Run("empty template fields keep legacy values on link", func(t *testing.T) {
		db := setupTestDB(t)
		_, event := createTestBrandWithEvent(t, db)

		template := models.CodeTemplate{UserID: 1, Name: "Backstage", MaxPax: 1}
		require.NoError(t, db.Create(&template).Error)

		legacy := models.CodeSetting{
			EventID:   event.ID,
			Type:      models.CodeSettingTypeBackstage,
			Name:      "Backstage",
			Condition: "crew only",
			Limit:     10,
			Color:     "000000",
		}
		require.NoError(t, db.Create(&legacy).Error)

		setting := SyncCodeTemplateToCodeSettings(template.ID, event.ID)
		require.NotNil(t, setting)

		assert.Equal(t, "crew only", setting.Condition)
		assert.Equal(t, 10, setting.Limit)
		assert.Equal(t, "000000", setting.Color)
	})

	t.Run("chosen template color wins over legacy on link", func(t *testing.T) {
		db := setupTestDB(t)
		_, event := createTestBrandWithEvent(t, db)

		template := models.CodeTemplate{UserID: 1, Name: "Backstage", MaxPax: 1, Color: "FF5722"}
		require.NoError(t, db.Create(&template).Error)

		legacy := models.CodeSetting{
			EventID: event.ID,
			Type:    models.CodeSettingTypeBackstage,
			Name:    "Backstage",
			Color:   "000000",
		}
		require.NoError(t, db.Create(&legacy).Error)

		setting := SyncCodeTemplateToCodeSettings(template.ID, event.ID)
		require.NotNil(t, setting)
		assert.Equal(t, "FF5722", setting.Color)
	})

	t.Run("returns nil for an unknown template", func(t *testing.T) {
		db := setupTestDB(t)
		_, event := createTestBrandWithEvent(t, db)

		assert.Nil(t, SyncCodeTemplateToCodeSettings(9999, event.ID))
	})
}

func TestRemoveCodeSettingsForTemplate(t *testing.T) {
	db := setupTestDB(t)
	_, event := createTestBrandWithEvent(t, db)
	template := createTestTemplate(t, db, "VIP")

	require.NotNil(t, SyncCodeTemplateToCodeSettings(template.ID, event.ID))
	assert.True(t, RemoveCodeSettingsForTemplate(template.ID, event.ID))

	var count int64
	require.NoError(t, db.Model(&models.CodeSetting{}).
		Where("event_id = ? AND code_template_id = ?", event.ID, template.ID).
		Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// Removing again is a no-op, not an error
	assert.True(t, RemoveCodeSettingsForTemplate(template.ID, event.ID))
}

func TestMigrateEventCodeSettings(t *testing.T) {
	t.Run("creates, links and skips in one pass", func(t *testing.T) {
		db := setupTestDB(t)
		brand, event := createTestBrandWithEvent(t, db)

		linked := createTestTemplate(t, db, "Already Linked")
		legacy := createTestTemplate(t, db, "Legacy Name")
		fresh := createTestTemplate(t, db, "Brand New")

		for _, template := range []*models.CodeTemplate{linked, legacy, fresh} {
			attachment := models.CodeBrandAttachment{
				CodeTemplateID:   template.ID,
				BrandID:          brand.ID,
				IsGlobalForBrand: true,
			}
			require.NoError(t, db.Create(&attachment).Error)
		}

		// One row already linked, one unlinked row matching by name
		require.NotNil(t, SyncCodeTemplateToCodeSettings(linked.ID, event.ID))
		unlinked := models.CodeSetting{
			EventID: event.ID,
			Type:    models.CodeSettingTypeGuest,
			Name:    "Legacy Name",
		}
		require.NoError(t, db.Create(&unlinked).Error)

		result, err := MigrateEventCodeSettings(event.ID)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 1, result.Migrated)
		assert.Equal(t, 1, result.Created)

		var migrated models.CodeSetting
		require.NoError(t, db.First(&migrated, unlinked.ID).Error)
		require.NotNil(t, migrated.CodeTemplateID)
		assert.Equal(t, legacy.ID, *migrated.CodeTemplateID)
	})

	t.Run("second run skips everything", func(t *testing.T) {
		db := setupTestDB(t)
		brand, event := createTestBrandWithEvent(t, db)
		template := createTestTemplate(t, db, "VIP")

		attachment := models.CodeBrandAttachment{
			CodeTemplateID:   template.ID,
			BrandID:          brand.ID,
			IsGlobalForBrand: true,
		}
		require.NoError(t, db.Create(&attachment).Error)

		first, err := MigrateEventCodeSettings(event.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, first.Created)

		second, err := MigrateEventCodeSettings(event.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, second.Created)
		assert.Equal(t, 0, second.Migrated)
		assert.Equal(t, 1, second.Skipped)
	})

	t.Run("ignores non-global attachments", func(t *testing.T) {
		db := setupTestDB(t)
		brand, event := createTestBrandWithEvent(t, db)
		template := createTestTemplate(t, db, "Per Event Only")

		attachment := models.CodeBrandAttachment{
			CodeTemplateID: template.ID,
			BrandID:        brand.ID,
		}
		require.NoError(t, db.Create(&attachment).Error)
		// default:true tag means a false create needs an explicit update
		require.NoError(t, db.Model(&attachment).Update("is_global_for_brand", false).Error)

		result, err := MigrateEventCodeSettings(event.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Created+result.Migrated+result.Skipped)
	})

	t.Run("unknown event returns an error", func(t *testing.T) {
		setupTestDB(t)

		_, err := MigrateEventCodeSettings(12345)
		require.Error(t, err)
		assert.True(t, IsNotFoundError(err))
	})
}
