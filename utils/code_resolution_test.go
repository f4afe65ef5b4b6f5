package utils

import (
	"testing"

	"github.com/aronh-dev/GuestSphere/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func attachTemplate(t *testing.T, db *gorm.DB, templateID, brandID uint, global bool) {
	attachment := models.CodeBrandAttachment{
		CodeTemplateID: templateID,
		BrandID:        brandID,
	}
	require.NoError(t, db.Create(&attachment).Error)
	// default:true tag means a false create needs an explicit update
	require.NoError(t, db.Model(&attachment).Update("is_global_for_brand", global).Error)
}

func TestResolveEventCodes(t *testing.T) {
	t.Run("global attachment is enabled by default", func(t *testing.T) {
		db := setupTestDB(t)
		brand, event := createTestBrandWithEvent(t, db)
		template := createTestTemplate(t, db, "VIP")
		attachTemplate(t, db, template.ID, brand.ID, true)

		codes, err := ResolveEventCodes(event.ID)
		require.NoError(t, err)
		require.Len(t, codes, 1)

		assert.Equal(t, template.ID, codes[0].CodeTemplateID)
		assert.True(t, codes[0].IsEnabled)
		assert.True(t, codes[0].IsGlobalForBrand)
		assert.Nil(t, codes[0].ActivationID)
		assert.Equal(t, 4, codes[0].MaxPax)
		assert.Equal(t, 50, codes[0].Limit)
	})

	t.Run("non-global attachment is disabled without an activation", func(t *testing.T) {
		db := setupTestDB(t)
		brand, event := createTestBrandWithEvent(t, db)
		template := createTestTemplate(t, db, "VIP")
		attachTemplate(t, db, template.ID, brand.ID, false)

		codes, err := ResolveEventCodes(event.ID)
		require.NoError(t, err)
		require.Len(t, codes, 1)
		assert.False(t, codes[0].IsEnabled)
	})

	t.Run("explicit activation can disable a global attachment", func(t *testing.T) {
		db := setupTestDB(t)
		brand, event := createTestBrandWithEvent(t, db)
		template := createTestTemplate(t, db, "VIP")
		attachTemplate(t, db, template.ID, brand.ID, true)

		activation := models.EventCodeActivation{
			EventID:        event.ID,
			CodeTemplateID: template.ID,
			IsEnabled:      false,
		}
		require.NoError(t, db.Create(&activation).Error)
		// default:true tag means a false create needs an explicit update
		require.NoError(t, db.Model(&activation).Update("is_enabled", false).Error)

		codes, err := ResolveEventCodes(event.ID)
		require.NoError(t, err)
		require.Len(t, codes, 1)
		assert.False(t, codes[0].IsEnabled)
		require.NotNil(t, codes[0].ActivationID)
	})

	t.Run("activation overrides beat template defaults", func(t *testing.T) {
		db := setupTestDB(t)
		brand, event := createTestBrandWithEvent(t, db)
		template := createTestTemplate(t, db, "VIP")
		attachTemplate(t, db, template.ID, brand.ID, true)

		maxPax := 1
		condition := "guest list closes 11pm"
		activation := models.EventCodeActivation{
			EventID:           event.ID,
			CodeTemplateID:    template.ID,
			IsEnabled:         true,
			MaxPaxOverride:    &maxPax,
			ConditionOverride: &condition,
		}
		require.NoError(t, db.Create(&activation).Error)

		codes, err := ResolveEventCodes(event.ID)
		require.NoError(t, err)
		require.Len(t, codes, 1)

		assert.Equal(t, 1, codes[0].MaxPax)
		assert.Equal(t, "guest list closes 11pm", codes[0].Condition)
		assert.Equal(t, 50, codes[0].Limit)
		assert.True(t, codes[0].HasOverrides)

		// Clearing the overrides reverts to template defaults
		require.NoError(t, db.Model(&activation).Updates(map[string]interface{}{
			"max_pax_override":   nil,
			"condition_override": nil,
		}).Error)

		codes, err = ResolveEventCodes(event.ID)
		require.NoError(t, err)
		require.Len(t, codes, 1)
		assert.Equal(t, 4, codes[0].MaxPax)
		assert.Equal(t, "free before midnight", codes[0].Condition)
		assert.False(t, codes[0].HasOverrides)
	})

	t.Run("child occurrence resolves through its parent", func(t *testing.T) {
		db := setupTestDB(t)
		brand, parent := createTestBrandWithEvent(t, db)
		template := createTestTemplate(t, db, "VIP")
		attachTemplate(t, db, template.ID, brand.ID, false)

		child := models.Event{
			BrandID:       brand.ID,
			Title:         "Test Night - Week 2",
			ParentEventID: &parent.ID,
			WeekNumber:    2,
		}
		require.NoError(t, db.Create(&child).Error)

		activation := models.EventCodeActivation{
			EventID:        parent.ID,
			CodeTemplateID: template.ID,
			IsEnabled:      true,
		}
		require.NoError(t, db.Create(&activation).Error)

		codes, err := ResolveEventCodes(child.ID)
		require.NoError(t, err)
		require.Len(t, codes, 1)
		assert.True(t, codes[0].IsEnabled)
	})

	t.Run("unattached templates are omitted", func(t *testing.T) {
		db := setupTestDB(t)
		_, event := createTestBrandWithEvent(t, db)
		createTestTemplate(t, db, "Never Attached")

		codes, err := ResolveEventCodes(event.ID)
		require.NoError(t, err)
		assert.Empty(t, codes)
	})

	t.Run("codes are ordered by sort order", func(t *testing.T) {
		db := setupTestDB(t)
		brand, event := createTestBrandWithEvent(t, db)

		second := createTestTemplate(t, db, "Second")
		require.NoError(t, db.Model(second).Update("sort_order", 2).Error)
		first := createTestTemplate(t, db, "First")
		require.NoError(t, db.Model(first).Update("sort_order", 1).Error)

		attachTemplate(t, db, second.ID, brand.ID, true)
		attachTemplate(t, db, first.ID, brand.ID, true)

		codes, err := ResolveEventCodes(event.ID)
		require.NoError(t, err)
		require.Len(t, codes, 2)
		assert.Equal(t, "First", codes[0].Name)
		assert.Equal(t, "Second", codes[1].Name)
	})
}
