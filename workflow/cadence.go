package workflow

import "github.com/gatsolucoes/gat_backend/models"

// DefaultIntervalDays applies to any category missing from the cadence table.
const DefaultIntervalDays = 90

// cadenceDays maps an equipment category to its reinspection interval.
// Values follow the Brazilian fire-safety inspection cadence in force for
// each equipment family.
var cadenceDays = map[models.EquipmentCategory]int{
	models.EquipmentCategoryExtinguisher:   30,
	models.EquipmentCategoryHydrant:        90,
	models.EquipmentCategorySprinkler:      180,
	models.EquipmentCategoryAlarm:          30,
	models.EquipmentCategoryEmergencyLight: 90,
	models.EquipmentCategoryFireDoor:       180,
	models.EquipmentCategoryHose:           90,
	models.EquipmentCategoryPump:           90,
}

// IntervalDays returns the reinspection interval for a category.
func IntervalDays(category models.EquipmentCategory) int {
	if days, ok := cadenceDays[category]; ok {
		return days
	}
	return DefaultIntervalDays
}
