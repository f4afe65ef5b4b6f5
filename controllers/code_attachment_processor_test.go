package controllers

import (
	"testing"

	"github.com/aronh-dev/GuestSphere/config"
	"github.com/aronh-dev/GuestSphere/models"
	"github.com/aronh-dev/GuestSphere/utils"
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

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	user := models.User{Username: username, Email: username + "@test.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestBrand(t *testing.T, db *gorm.DB, owner *models.User, username string) *models.Brand {
	brand := models.Brand{Name: username, Username: username, CreatedBy: owner.ID}
	require.NoError(t, db.Create(&brand).Error)
	return &brand
}

func createTestEvent(t *testing.T, db *gorm.DB, brand *models.Brand, title string) *models.Event {
	event := models.Event{BrandID: brand.ID, Title: title}
	require.NoError(t, db.Create(&event).Error)
	return &event
}

func createTemplateForUser(t *testing.T, db *gorm.DB, user *models.User, name string) *models.CodeTemplate {
	template := models.CodeTemplate{
		UserID:       user.ID,
		Name:         name,
		MaxPax:       4,
		DefaultLimit: 50,
		RequireEmail: true,
	}
	require.NoError(t, db.Create(&template).Error)
	return &template
}

func countSettings(t *testing.T, db *gorm.DB, templateID, eventID uint) int64 {
	var count int64
	require.NoError(t, db.Model(&models.CodeSetting{}).
		Where("code_template_id = ? AND event_id = ?", templateID, eventID).
		Count(&count).Error)
	return count
}

func TestProcessAttachments(t *testing.T) {
	t.Run("global attachment syncs every parent event", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "owner")
		brand := createTestBrand(t, db, user, "club")
		eventA := createTestEvent(t, db, brand, "Friday")
		eventB := createTestEvent(t, db, brand, "Saturday")
		template := createTemplateForUser(t, db, user, "VIP")

		report := ProcessAttachments(template.ID, []AttachmentInput{
			{BrandID: brand.ID, IsGlobalForBrand: true},
		}, user.ID)

		assert.Equal(t, 1, report.BrandsAttached)
		assert.Equal(t, 2, report.EventsSynced)
		assert.Equal(t, 0, report.SyncFailures)
		assert.Equal(t, int64(1), countSettings(t, db, template.ID, eventA.ID))
		assert.Equal(t, int64(1), countSettings(t, db, template.ID, eventB.ID))

		var attachment models.CodeBrandAttachment
		require.NoError(t, db.Where("code_template_id = ? AND brand_id = ?", template.ID, brand.ID).
			First(&attachment).Error)
		assert.True(t, attachment.IsGlobalForBrand)
	})

	t.Run("global mode clears leftover activations", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "owner")
		brand := createTestBrand(t, db, user, "club")
		event := createTestEvent(t, db, brand, "Friday")
		template := createTemplateForUser(t, db, user, "VIP")

		activation := models.EventCodeActivation{EventID: event.ID, CodeTemplateID: template.ID}
		require.NoError(t, db.Create(&activation).Error)

		ProcessAttachments(template.ID, []AttachmentInput{
			{BrandID: brand.ID, IsGlobalForBrand: true},
		}, user.ID)

		var count int64
		require.NoError(t, db.Model(&models.EventCodeActivation{}).
			Where("code_template_id = ?", template.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("non-global with event list activates only those events", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "owner")
		brand := createTestBrand(t, db, user, "club")
		eventA := createTestEvent(t, db, brand, "Friday")
		eventB := createTestEvent(t, db, brand, "Saturday")
		template := createTemplateForUser(t, db, user, "VIP")

		enabled := []uint{eventA.ID}
		report := ProcessAttachments(template.ID, []AttachmentInput{
			{BrandID: brand.ID, IsGlobalForBrand: false, EnabledEvents: &enabled},
		}, user.ID)

		assert.Equal(t, 1, report.EventsSynced)
		assert.Equal(t, int64(1), countSettings(t, db, template.ID, eventA.ID))
		assert.Equal(t, int64(0), countSettings(t, db, template.ID, eventB.ID))

		var activation models.EventCodeActivation
		require.NoError(t, db.Where("code_template_id = ? AND event_id = ?", template.ID, eventA.ID).
			First(&activation).Error)
		assert.True(t, activation.IsEnabled)
	})

	t.Run("non-global attachment is stored non-global and resolves disabled", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "owner")
		brand := createTestBrand(t, db, user, "club")
		event := createTestEvent(t, db, brand, "Friday")
		template := createTemplateForUser(t, db, user, "VIP")

		empty := []uint{}
		ProcessAttachments(template.ID, []AttachmentInput{
			{BrandID: brand.ID, IsGlobalForBrand: false, EnabledEvents: &empty},
		}, user.ID)

		var attachment models.CodeBrandAttachment
		require.NoError(t, db.Where("code_template_id = ? AND brand_id = ?", template.ID, brand.ID).
			First(&attachment).Error)
		assert.False(t, attachment.IsGlobalForBrand)

		codes, err := utils.ResolveEventCodes(event.ID)
		require.NoError(t, err)
		require.Len(t, codes, 1)
		assert.False(t, codes[0].IsEnabled)
	})

	t.Run("events outside the brand are ignored", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "owner")
		brand := createTestBrand(t, db, user, "club")
		other := createTestBrand(t, db, user, "otherclub")
		foreign := createTestEvent(t, db, other, "Foreign")
		template := createTemplateForUser(t, db, user, "VIP")

		enabled := []uint{foreign.ID}
		ProcessAttachments(template.ID, []AttachmentInput{
			{BrandID: brand.ID, IsGlobalForBrand: false, EnabledEvents: &enabled},
		}, user.ID)

		assert.Equal(t, int64(0), countSettings(t, db, template.ID, foreign.ID))
	})

	t.Run("empty event list tears down settings rows", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "owner")
		brand := createTestBrand(t, db, user, "club")
		event := createTestEvent(t, db, brand, "Friday")
		template := createTemplateForUser(t, db, user, "VIP")

		enabled := []uint{event.ID}
		ProcessAttachments(template.ID, []AttachmentInput{
			{BrandID: brand.ID, IsGlobalForBrand: false, EnabledEvents: &enabled},
		}, user.ID)
		require.Equal(t, int64(1), countSettings(t, db, template.ID, event.ID))

		empty := []uint{}
		ProcessAttachments(template.ID, []AttachmentInput{
			{BrandID: brand.ID, IsGlobalForBrand: false, EnabledEvents: &empty},
		}, user.ID)

		assert.Equal(t, int64(0), countSettings(t, db, template.ID, event.ID))
		var count int64
		require.NoError(t, db.Model(&models.EventCodeActivation{}).
			Where("code_template_id = ?", template.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("resubmitting without apply_to_children keeps the stored flag", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "owner")
		brand := createTestBrand(t, db, user, "club")
		event := createTestEvent(t, db, brand, "Friday")
		template := createTemplateForUser(t, db, user, "VIP")

		enabled := []uint{event.ID}
		parentsOnly := false
		ProcessAttachments(template.ID, []AttachmentInput{
			{BrandID: brand.ID, IsGlobalForBrand: false, EnabledEvents: &enabled, ApplyToChildren: &parentsOnly},
		}, user.ID)

		ProcessAttachments(template.ID, []AttachmentInput{
			{BrandID: brand.ID, IsGlobalForBrand: false, EnabledEvents: &enabled},
		}, user.ID)

		var activation models.EventCodeActivation
		require.NoError(t, db.Where("code_template_id = ? AND event_id = ?", template.ID, event.ID).
			First(&activation).Error)
		assert.False(t, activation.ApplyToChildren)
	})

	t.Run("nil event list leaves activations untouched", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "owner")
		brand := createTestBrand(t, db, user, "club")
		event := createTestEvent(t, db, brand, "Friday")
		template := createTemplateForUser(t, db, user, "VIP")

		enabled := []uint{event.ID}
		ProcessAttachments(template.ID, []AttachmentInput{
			{BrandID: brand.ID, IsGlobalForBrand: false, EnabledEvents: &enabled},
		}, user.ID)

		ProcessAttachments(template.ID, []AttachmentInput{
			{BrandID: brand.ID, IsGlobalForBrand: false},
		}, user.ID)

		var count int64
		require.NoError(t, db.Model(&models.EventCodeActivation{}).
			Where("code_template_id = ? AND event_id = ?", template.ID, event.ID).
			Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("dropping a brand tears everything down but leaves other brands alone", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "owner")
		brandA := createTestBrand(t, db, user, "cluba")
		brandB := createTestBrand(t, db, user, "clubb")
		eventA := createTestEvent(t, db, brandA, "Friday A")
		eventB := createTestEvent(t, db, brandB, "Friday B")
		template := createTemplateForUser(t, db, user, "VIP")

		ProcessAttachments(template.ID, []AttachmentInput{
			{BrandID: brandA.ID, IsGlobalForBrand: true},
			{BrandID: brandB.ID, IsGlobalForBrand: true},
		}, user.ID)
		require.Equal(t, int64(1), countSettings(t, db, template.ID, eventA.ID))
		require.Equal(t, int64(1), countSettings(t, db, template.ID, eventB.ID))

		report := ProcessAttachments(template.ID, []AttachmentInput{
			{BrandID: brandB.ID, IsGlobalForBrand: true},
		}, user.ID)

		assert.Equal(t, 1, report.BrandsDetached)
		assert.Equal(t, int64(0), countSettings(t, db, template.ID, eventA.ID))
		assert.Equal(t, int64(1), countSettings(t, db, template.ID, eventB.ID))

		var count int64
		require.NoError(t, db.Model(&models.CodeBrandAttachment{}).
			Where("code_template_id = ?", template.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("inaccessible brands are skipped, not torn down", func(t *testing.T) {
		db := setupTestDB(t)
		owner := createTestUser(t, db, "owner")
		outsider := createTestUser(t, db, "outsider")
		brand := createTestBrand(t, db, owner, "club")
		event := createTestEvent(t, db, brand, "Friday")
		template := createTemplateForUser(t, db, owner, "VIP")

		ProcessAttachments(template.ID, []AttachmentInput{
			{BrandID: brand.ID, IsGlobalForBrand: true},
		}, owner.ID)
		require.Equal(t, int64(1), countSettings(t, db, template.ID, event.ID))

		// Outsider submits an empty desired set; the owner's brand survives
		report := ProcessAttachments(template.ID, []AttachmentInput{
			{BrandID: brand.ID, IsGlobalForBrand: true},
		}, outsider.ID)

		assert.Equal(t, 0, report.BrandsAttached)
		assert.Contains(t, report.SkippedBrandIDs, brand.ID)

		var count int64
		require.NoError(t, db.Model(&models.CodeBrandAttachment{}).
			Where("code_template_id = ?", template.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
		assert.Equal(t, int64(1), countSettings(t, db, template.ID, event.ID))
	})

	t.Run("only parent events are synced in global mode", func(t *testing.T) {
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

		report := ProcessAttachments(template.ID, []AttachmentInput{
			{BrandID: brand.ID, IsGlobalForBrand: true},
		}, user.ID)

		assert.Equal(t, 1, report.EventsSynced)
		assert.Equal(t, int64(1), countSettings(t, db, template.ID, parent.ID))
		assert.Equal(t, int64(0), countSettings(t, db, template.ID, child.ID))
	})
}
