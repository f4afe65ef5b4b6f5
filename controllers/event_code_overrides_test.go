package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aronh-dev/GuestSphere/models"
)

func overridesRequest(t *testing.T, user *models.User, activationID uint, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "activationId", Value: fmt.Sprint(activationID)}}
	c.Set("user", *user)
	return c, w
}

func TestUpdateCodeOverrides(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("updating one override keeps the others", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "owner")
		brand := createTestBrand(t, db, user, "club")
		event := createTestEvent(t, db, brand, "Friday")
		template := createTemplateForUser(t, db, user, "VIP")

		condition := "ladies free"
		activation := models.EventCodeActivation{
			EventID:           event.ID,
			CodeTemplateID:    template.ID,
			ConditionOverride: &condition,
		}
		require.NoError(t, db.Create(&activation).Error)

		c, w := overridesRequest(t, user, activation.ID, `{"max_pax_override": 3}`)
		UpdateCodeOverrides(c)
		require.Equal(t, http.StatusOK, w.Code)

		var stored models.EventCodeActivation
		require.NoError(t, db.First(&stored, activation.ID).Error)
		require.NotNil(t, stored.MaxPaxOverride)
		assert.Equal(t, 3, *stored.MaxPaxOverride)
		require.NotNil(t, stored.ConditionOverride)
		assert.Equal(t, "ladies free", *stored.ConditionOverride)
	})

	t.Run("rejects a max pax override below one", func(t *testing.T) {
		db := setupTestDB(t)
		user := createTestUser(t, db, "owner")
		brand := createTestBrand(t, db, user, "club")
		event := createTestEvent(t, db, brand, "Friday")
		template := createTemplateForUser(t, db, user, "VIP")

		activation := models.EventCodeActivation{EventID: event.ID, CodeTemplateID: template.ID}
		require.NoError(t, db.Create(&activation).Error)

		c, w := overridesRequest(t, user, activation.ID, `{"max_pax_override": 0}`)
		UpdateCodeOverrides(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
