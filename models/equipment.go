package models

import (
	"context"
	"errors"
	"time"

	"github.com/gatsolucoes/gat_backend/config"
	"github.com/gatsolucoes/gat_backend/utils"
)

type Equipment struct {
	ID                 int               `gorm:"primary_key" json:"id"`
	InventoryId        int               `gorm:"index;not null" json:"inventory_id"`
	Name               string            `gorm:"size:100;not null" json:"name"`
	Category           EquipmentCategory `gorm:"index;size:50;not null" json:"category"`
	Manufacturer       string            `gorm:"size:100" json:"manufacturer"`
	Model              string            `gorm:"size:100" json:"model"`
	SerialNumber       string            `gorm:"size:100" json:"serial_number"`
	TagNumber          string            `gorm:"size:50" json:"tag_number"`
	ManufacturingDate  *time.Time        `json:"manufacturing_date"`
	InstallationDate   *time.Time        `json:"installation_date"`
	LastInspectionDate *time.Time        `json:"last_inspection_date"`
	NextInspectionDate *time.Time        `json:"next_inspection_date"`
	ExpiryDate         *time.Time        `json:"expiry_date"`
	Status             EquipmentStatus   `gorm:"size:20;default:active" json:"status"`
	Location           string            `gorm:"size:255" json:"location"`
	Capacity           string            `gorm:"size:50" json:"capacity"`
	Notes              string            `gorm:"type:text" json:"notes"`
	Standards          []*Standard       `gorm:"many2many:equipment_standards" json:"standards,omitempty"`
	CreatedAt          time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewEquipment struct {
	InventoryId        int               `json:"inventory_id" binding:"required"`
	Name               string            `json:"name" binding:"required"`
	Category           EquipmentCategory `json:"category" binding:"required"`
	Manufacturer       string            `json:"manufacturer"`
	Model              string            `json:"model"`
	SerialNumber       string            `json:"serial_number"`
	TagNumber          string            `json:"tag_number"`
	ManufacturingDate  *time.Time        `json:"manufacturing_date"`
	InstallationDate   *time.Time        `json:"installation_date"`
	LastInspectionDate *time.Time        `json:"last_inspection_date"`
	ExpiryDate         *time.Time        `json:"expiry_date"`
	Status             EquipmentStatus   `json:"status"`
	Location           string            `json:"location"`
	Capacity           string            `json:"capacity"`
	Notes              string            `json:"notes"`
	StandardIds        []int             `json:"standard_ids"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewEquipment) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Equipment](ctx, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateResourceId[Inventory](ctx, input.InventoryId); err != nil {
		return errors.New("inventory not found")
	}
	if !input.Category.Valid() {
		return errors.New("invalid equipment category")
	}
	if input.Status != "" && !input.Status.Valid() {
		return errors.New("invalid equipment status")
	}
	if len(input.StandardIds) > 0 {
		unqIds := utils.UniqueSlice(input.StandardIds)
		count, err := utils.ResourceCountWhere[Standard](ctx, "id IN ?", unqIds)
		if err != nil {
			return err
		}
		if count != int64(len(unqIds)) {
			return errors.New("standard not found")
		}
	}
	return nil
}

func (input *NewEquipment) fetchStandards(ctx context.Context) ([]*Standard, error) {
	if len(input.StandardIds) == 0 {
		return nil, nil
	}
	return utils.FetchModelsWhere[Standard](ctx, "id IN ?", utils.UniqueSlice(input.StandardIds))
}

func CreateEquipment(ctx context.Context, input *NewEquipment) (*Equipment, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	standards, err := input.fetchStandards(ctx)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = EquipmentStatusActive
	}

	equipment := Equipment{
		InventoryId:        input.InventoryId,
		Name:               input.Name,
		Category:           input.Category,
		Manufacturer:       input.Manufacturer,
		Model:              input.Model,
		SerialNumber:       input.SerialNumber,
		TagNumber:          input.TagNumber,
		ManufacturingDate:  input.ManufacturingDate,
		InstallationDate:   input.InstallationDate,
		LastInspectionDate: input.LastInspectionDate,
		ExpiryDate:         input.ExpiryDate,
		Status:             status,
		Location:           input.Location,
		Capacity:           input.Capacity,
		Notes:              input.Notes,
		Standards:          standards,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&equipment).Error; err != nil {
		return nil, err
	}

	// keep the inventory counters in sync
	if inventory, ferr := utils.FetchSingleModel[Inventory](ctx, input.InventoryId); ferr == nil {
		if cerr := inventory.RefreshCounts(ctx); cerr != nil {
			config.LogError(config.GetLogger(), "equipment.go", "CreateEquipment", "RefreshCounts", equipment.ID, cerr)
		}
	}

	return &equipment, nil
}

func UpdateEquipment(ctx context.Context, id int, input *NewEquipment) (*Equipment, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	equipment, err := utils.FetchSingleModel[Equipment](ctx, id)
	if err != nil {
		return nil, err
	}

	standards, err := input.fetchStandards(ctx)
	if err != nil {
		return nil, err
	}

	previousInventoryId := equipment.InventoryId

	equipment.InventoryId = input.InventoryId
	equipment.Name = input.Name
	equipment.Category = input.Category
	equipment.Manufacturer = input.Manufacturer
	equipment.Model = input.Model
	equipment.SerialNumber = input.SerialNumber
	equipment.TagNumber = input.TagNumber
	equipment.ManufacturingDate = input.ManufacturingDate
	equipment.InstallationDate = input.InstallationDate
	equipment.LastInspectionDate = input.LastInspectionDate
	equipment.ExpiryDate = input.ExpiryDate
	if input.Status != "" {
		equipment.Status = input.Status
	}
	equipment.Location = input.Location
	equipment.Capacity = input.Capacity
	equipment.Notes = input.Notes

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(equipment).Error; err != nil {
		return nil, err
	}
	if input.StandardIds != nil {
		if err := db.WithContext(ctx).Model(equipment).Association("Standards").Replace(standards); err != nil {
			return nil, err
		}
	}

	for _, invId := range utils.UniqueSlice([]int{previousInventoryId, input.InventoryId}) {
		if inventory, ferr := utils.FetchSingleModel[Inventory](ctx, invId); ferr == nil {
			if cerr := inventory.RefreshCounts(ctx); cerr != nil {
				config.LogError(config.GetLogger(), "equipment.go", "UpdateEquipment", "RefreshCounts", invId, cerr)
			}
		}
	}

	return equipment, nil
}

func DeleteEquipment(ctx context.Context, id int) error {
	equipment, err := utils.FetchSingleModel[Equipment](ctx, id)
	if err != nil {
		return err
	}

	count, err := utils.ResourceCountWhere[Inspection](ctx, "equipment_id = ? AND status = ?", id, WorkOrderStatusPending)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("equipment has pending inspections")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Select("Standards").Delete(equipment).Error; err != nil {
		return err
	}

	if inventory, ferr := utils.FetchSingleModel[Inventory](ctx, equipment.InventoryId); ferr == nil {
		if cerr := inventory.RefreshCounts(ctx); cerr != nil {
			config.LogError(config.GetLogger(), "equipment.go", "DeleteEquipment", "RefreshCounts", equipment.InventoryId, cerr)
		}
	}

	return nil
}
