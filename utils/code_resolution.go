package utils

import (
	"sort"

	"github.com/aronh-dev/GuestSphere/config"
	"github.com/aronh-dev/GuestSphere/models"
)

// EffectiveCode is the resolved, override-applied view of one template for
// one event. Computed from the template graph alone; the flat CodeSetting
// table is never consulted, so the settings UI always sees the true state
// even when the bridge is momentarily stale.
type EffectiveCode struct {
	CodeTemplateID   uint   `json:"code_template_id"`
	ActivationID     *uint  `json:"activation_id,omitempty"`
	Name             string `json:"name"`
	Condition        string `json:"condition"`
	Note             string `json:"note"`
	MaxPax           int    `json:"max_pax"`
	Limit            int    `json:"limit"`
	Color            string `json:"color"`
	Icon             string `json:"icon"`
	RequireEmail     bool   `json:"require_email"`
	RequirePhone     bool   `json:"require_phone"`
	SortOrder        int    `json:"sort_order"`
	IsEnabled        bool   `json:"is_enabled"`
	IsGlobalForBrand bool   `json:"is_global_for_brand"`
	ApplyToChildren  bool   `json:"apply_to_children"`
	HasOverrides     bool   `json:"has_overrides"`
}

// ResolveParentEventID maps a generated child occurrence to its series
// root. Activations are only ever stored against parents.
func ResolveParentEventID(event *models.Event) uint {
	if event.IsChildOccurrence() {
		return *event.ParentEventID
	}
	return event.ID
}

// ResolveEventCodes computes the effective code list for one event.
// Precedence: activation overrides beat template defaults; a global
// attachment enables by default but an explicit activation row can still
// disable it for this event. Templates not attached to the event's brand
// are omitted entirely.
func ResolveEventCodes(eventID uint) ([]EffectiveCode, error) {
	db := config.DB

	var event models.Event
	if err := db.First(&event, eventID).Error; err != nil {
		return nil, NotFoundError("Event not found", err)
	}
	parentID := ResolveParentEventID(&event)

	var attachments []models.CodeBrandAttachment
	if err := db.Preload("CodeTemplate").
		Where("brand_id = ?", event.BrandID).
		Find(&attachments).Error; err != nil {
		return nil, WrapError(err, "failed to load brand attachments")
	}

	var activations []models.EventCodeActivation
	if err := db.Where("event_id = ?", parentID).Find(&activations).Error; err != nil {
		return nil, WrapError(err, "failed to load event activations")
	}
	activationByTemplate := make(map[uint]*models.EventCodeActivation, len(activations))
	for i := range activations {
		activationByTemplate[activations[i].CodeTemplateID] = &activations[i]
	}

	codes := make([]EffectiveCode, 0, len(attachments))
	for _, attachment := range attachments {
		template := attachment.CodeTemplate
		if template.ID == 0 {
			continue
		}

		code := EffectiveCode{
			CodeTemplateID:   template.ID,
			Name:             template.Name,
			Condition:        template.Condition,
			Note:             template.Note,
			MaxPax:           template.MaxPax,
			Limit:            template.DefaultLimit,
			Color:            template.Color,
			Icon:             template.Icon,
			RequireEmail:     template.RequireEmail,
			RequirePhone:     template.RequirePhone,
			SortOrder:        template.SortOrder,
			IsEnabled:        attachment.IsGlobalForBrand,
			IsGlobalForBrand: attachment.IsGlobalForBrand,
			ApplyToChildren:  true,
		}

		if activation, ok := activationByTemplate[template.ID]; ok {
			activationID := activation.ID
			code.ActivationID = &activationID
			code.IsEnabled = activation.IsEnabled
			code.ApplyToChildren = activation.ApplyToChildren
			code.HasOverrides = activation.HasOverrides()
			if activation.ConditionOverride != nil {
				code.Condition = *activation.ConditionOverride
			}
			if activation.NoteOverride != nil {
				code.Note = *activation.NoteOverride
			}
			if activation.MaxPaxOverride != nil {
				code.MaxPax = *activation.MaxPaxOverride
			}
			if activation.LimitOverride != nil {
				code.Limit = *activation.LimitOverride
			}
		}

		codes = append(codes, code)
	}

	sort.SliceStable(codes, func(i, j int) bool {
		return codes[i].SortOrder < codes[j].SortOrder
	})
	return codes, nil
}
