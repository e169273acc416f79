package models

import (
	"context"
	"errors"
	"time"

	"github.com/gatsolucoes/gat_backend/config"
	"github.com/gatsolucoes/gat_backend/utils"
	"gorm.io/gorm"
)

// Inventory is the single equipment register of a branch. A branch without
// an inventory holds no equipment and is skipped by the generation engine.
type Inventory struct {
	ID                   int             `gorm:"primary_key" json:"id"`
	BranchId             int             `gorm:"uniqueIndex;not null" json:"branch_id"`
	TotalEquipments      int             `gorm:"default:0" json:"total_equipments"`
	LastAuditDate        *time.Time      `json:"last_audit_date"`
	NextAuditDate        *time.Time      `json:"next_audit_date"`
	Status               InventoryStatus `gorm:"size:20;default:updated" json:"status"`
	Notes                string          `gorm:"type:text" json:"notes"`
	ExtinguishersCount   int             `gorm:"default:0" json:"extinguishers_count"`
	HydrantsCount        int             `gorm:"default:0" json:"hydrants_count"`
	SprinklersCount      int             `gorm:"default:0" json:"sprinklers_count"`
	AlarmsCount          int             `gorm:"default:0" json:"alarms_count"`
	EmergencyLightsCount int             `gorm:"default:0" json:"emergency_lights_count"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInventory struct {
	BranchId      int             `json:"branch_id" binding:"required"`
	LastAuditDate *time.Time      `json:"last_audit_date"`
	NextAuditDate *time.Time      `json:"next_audit_date"`
	Status        InventoryStatus `json:"status"`
	Notes         string          `json:"notes"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewInventory) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Inventory](ctx, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateResourceId[Branch](ctx, input.BranchId); err != nil {
		return errors.New("branch not found")
	}
	// one inventory per branch
	if err := utils.ValidateUnique[Inventory](ctx, "branch_id", input.BranchId, id); err != nil {
		return errors.New("branch already has an inventory")
	}
	if input.Status != "" && !input.Status.Valid() {
		return errors.New("invalid inventory status")
	}
	return nil
}

func CreateInventory(ctx context.Context, input *NewInventory) (*Inventory, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = InventoryStatusUpdated
	}

	inventory := Inventory{
		BranchId:      input.BranchId,
		LastAuditDate: input.LastAuditDate,
		NextAuditDate: input.NextAuditDate,
		Status:        status,
		Notes:         input.Notes,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&inventory).Error; err != nil {
		return nil, err
	}

	return &inventory, nil
}

func UpdateInventory(ctx context.Context, id int, input *NewInventory) (*Inventory, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	inventory, err := utils.FetchSingleModel[Inventory](ctx, id)
	if err != nil {
		return nil, err
	}

	inventory.BranchId = input.BranchId
	inventory.LastAuditDate = input.LastAuditDate
	inventory.NextAuditDate = input.NextAuditDate
	if input.Status != "" {
		inventory.Status = input.Status
	}
	inventory.Notes = input.Notes

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(inventory).Error; err != nil {
		return nil, err
	}

	return inventory, nil
}

func DeleteInventory(ctx context.Context, id int) error {
	if err := utils.ValidateResourceId[Inventory](ctx, id); err != nil {
		return err
	}

	count, err := utils.ResourceCountWhere[Equipment](ctx, "inventory_id = ?", id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("inventory has equipments")
	}

	db := config.GetDB()
	return db.WithContext(ctx).Delete(&Inventory{}, id).Error
}

// InventoryForBranch returns the branch's inventory, or nil when the branch
// has none (not an error).
func InventoryForBranch(ctx context.Context, db *gorm.DB, branchId int) (*Inventory, error) {
	var inventory Inventory
	err := db.WithContext(ctx).Where("branch_id = ?", branchId).First(&inventory).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inventory, nil
}

// RefreshCounts recomputes the per-category counters from the equipments
// table and persists them.
func (inv *Inventory) RefreshCounts(ctx context.Context) error {
	db := config.GetDB()

	type categoryCount struct {
		Category EquipmentCategory
		Total    int
	}
	var rows []categoryCount
	err := db.WithContext(ctx).Model(&Equipment{}).
		Select("category, COUNT(*) AS total").
		Where("inventory_id = ?", inv.ID).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	inv.TotalEquipments = 0
	inv.ExtinguishersCount = 0
	inv.HydrantsCount = 0
	inv.SprinklersCount = 0
	inv.AlarmsCount = 0
	inv.EmergencyLightsCount = 0

	for _, row := range rows {
		inv.TotalEquipments += row.Total
		switch row.Category {
		case EquipmentCategoryExtinguisher:
			inv.ExtinguishersCount = row.Total
		case EquipmentCategoryHydrant:
			inv.HydrantsCount = row.Total
		case EquipmentCategorySprinkler:
			inv.SprinklersCount = row.Total
		case EquipmentCategoryAlarm:
			inv.AlarmsCount = row.Total
		case EquipmentCategoryEmergencyLight:
			inv.EmergencyLightsCount = row.Total
		}
	}

	return db.WithContext(ctx).Save(inv).Error
}
