package models

import (
	"context"
	"errors"
	"time"

	"github.com/gatsolucoes/gat_backend/config"
	"github.com/gatsolucoes/gat_backend/utils"
	"github.com/shopspring/decimal"
)

// Maintenance is a maintenance work order. Unlike inspections these are
// never auto-generated; they are opened by coordinators or converted from
// a failed inspection.
type Maintenance struct {
	ID              int               `gorm:"primary_key" json:"id"`
	Title           string            `gorm:"size:200;not null" json:"title"`
	Description     string            `gorm:"type:text" json:"description"`
	MaintenanceType MaintenanceType   `gorm:"size:20;not null;default:corrective" json:"maintenance_type"`
	ScheduledDate   time.Time         `gorm:"index;not null" json:"scheduled_date"`
	CompletedDate   *time.Time        `json:"completed_date"`
	Status          WorkOrderStatus   `gorm:"index;size:20;not null;default:pending" json:"status"`
	Priority        WorkOrderPriority `gorm:"size:20;default:medium" json:"priority"`
	Location        string            `gorm:"size:255" json:"location"`
	EquipmentName   string            `gorm:"column:equipment;size:100" json:"equipment"`
	ClientId        int               `gorm:"index;not null" json:"client_id"`
	TechnicianId    int               `gorm:"index" json:"technician_id"`
	CreatedBy       int               `gorm:"index" json:"created_by"`
	BranchId        int               `gorm:"index" json:"branch_id"`
	EquipmentId     int               `gorm:"index" json:"equipment_id"`
	ContractId      int               `gorm:"index" json:"contract_id"`
	TeamId          int               `gorm:"index" json:"team_id"`
	WorkPerformed   string            `gorm:"type:text" json:"work_performed"`
	PartsUsed       string            `gorm:"type:text" json:"parts_used"`
	LaborCost       decimal.Decimal   `gorm:"type:decimal(10,2);default:0" json:"labor_cost"`
	PartsCost       decimal.Decimal   `gorm:"type:decimal(10,2);default:0" json:"parts_cost"`
	TotalCost       decimal.Decimal   `gorm:"type:decimal(10,2);default:0" json:"total_cost"`
	Observations    string            `gorm:"type:text" json:"observations"`
	Photos          string            `gorm:"type:text" json:"photos"`
	Signature       string            `gorm:"type:text" json:"signature"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewMaintenance struct {
	Title           string            `json:"title" binding:"required"`
	Description     string            `json:"description"`
	MaintenanceType MaintenanceType   `json:"maintenance_type" binding:"required"`
	ScheduledDate   time.Time         `json:"scheduled_date" binding:"required"`
	Status          WorkOrderStatus   `json:"status"`
	Priority        WorkOrderPriority `json:"priority"`
	Location        string            `json:"location"`
	ClientId        int               `json:"client_id" binding:"required"`
	TechnicianId    int               `json:"technician_id"`
	BranchId        int               `json:"branch_id"`
	EquipmentId     int               `json:"equipment_id"`
	ContractId      int               `json:"contract_id"`
	TeamId          int               `json:"team_id"`
	Observations    string            `json:"observations"`
}

type MaintenanceResultInput struct {
	Status        WorkOrderStatus `json:"status" binding:"required"`
	WorkPerformed string          `json:"work_performed"`
	PartsUsed     string          `json:"parts_used"`
	LaborCost     decimal.Decimal `json:"labor_cost"`
	PartsCost     decimal.Decimal `json:"parts_cost"`
	Observations  string          `json:"observations"`
	Photos        string          `json:"photos"`
	Signature     string          `json:"signature"`
	CompletedDate *time.Time      `json:"completed_date"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewMaintenance) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Maintenance](ctx, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateResourceId[Client](ctx, input.ClientId); err != nil {
		return errors.New("client not found")
	}
	if input.BranchId > 0 {
		if err := utils.ValidateResourceId[Branch](ctx, input.BranchId); err != nil {
			return errors.New("branch not found")
		}
	}
	if input.EquipmentId > 0 {
		if err := utils.ValidateResourceId[Equipment](ctx, input.EquipmentId); err != nil {
			return errors.New("equipment not found")
		}
	}
	if input.ContractId > 0 {
		if err := utils.ValidateResourceId[Contract](ctx, input.ContractId); err != nil {
			return errors.New("contract not found")
		}
	}
	if input.TeamId > 0 {
		if err := utils.ValidateResourceId[Team](ctx, input.TeamId); err != nil {
			return errors.New("team not found")
		}
	}
	if !input.MaintenanceType.Valid() {
		return errors.New("invalid maintenance type")
	}
	if input.Status != "" && !input.Status.Valid() {
		return errors.New("invalid maintenance status")
	}
	if input.Priority != "" && !input.Priority.Valid() {
		return errors.New("invalid priority")
	}
	return nil
}

func CreateMaintenance(ctx context.Context, input *NewMaintenance) (*Maintenance, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = WorkOrderStatusPending
	}
	priority := input.Priority
	if priority == "" {
		priority = WorkOrderPriorityMedium
	}

	createdBy, _ := utils.GetUserIdFromContext(ctx)

	var equipmentName string
	if input.EquipmentId > 0 {
		if equipment, err := utils.FetchSingleModel[Equipment](ctx, input.EquipmentId); err == nil {
			equipmentName = equipment.Name
		}
	}

	maintenance := Maintenance{
		Title:           input.Title,
		Description:     input.Description,
		MaintenanceType: input.MaintenanceType,
		ScheduledDate:   utils.DateOnly(input.ScheduledDate),
		Status:          status,
		Priority:        priority,
		Location:        input.Location,
		EquipmentName:   equipmentName,
		ClientId:        input.ClientId,
		TechnicianId:    input.TechnicianId,
		CreatedBy:       createdBy,
		BranchId:        input.BranchId,
		EquipmentId:     input.EquipmentId,
		ContractId:      input.ContractId,
		TeamId:          input.TeamId,
		Observations:    input.Observations,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&maintenance).Error; err != nil {
		return nil, err
	}

	return &maintenance, nil
}

func UpdateMaintenance(ctx context.Context, id int, input *NewMaintenance) (*Maintenance, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	maintenance, err := utils.FetchSingleModel[Maintenance](ctx, id)
	if err != nil {
		return nil, err
	}

	maintenance.Title = input.Title
	maintenance.Description = input.Description
	maintenance.MaintenanceType = input.MaintenanceType
	maintenance.ScheduledDate = utils.DateOnly(input.ScheduledDate)
	if input.Status != "" {
		maintenance.Status = input.Status
	}
	if input.Priority != "" {
		maintenance.Priority = input.Priority
	}
	maintenance.Location = input.Location
	maintenance.ClientId = input.ClientId
	maintenance.TechnicianId = input.TechnicianId
	maintenance.BranchId = input.BranchId
	maintenance.EquipmentId = input.EquipmentId
	maintenance.ContractId = input.ContractId
	maintenance.TeamId = input.TeamId
	maintenance.Observations = input.Observations

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(maintenance).Error; err != nil {
		return nil, err
	}

	return maintenance, nil
}

// RecordMaintenanceResult closes out a maintenance order. TotalCost is
// always recomputed from labor + parts, never taken from the client.
func RecordMaintenanceResult(ctx context.Context, id int, input *MaintenanceResultInput) (*Maintenance, error) {
	if !input.Status.Valid() {
		return nil, errors.New("invalid maintenance status")
	}

	maintenance, err := utils.FetchSingleModel[Maintenance](ctx, id)
	if err != nil {
		return nil, err
	}

	maintenance.Status = input.Status
	maintenance.WorkPerformed = input.WorkPerformed
	maintenance.PartsUsed = input.PartsUsed
	maintenance.LaborCost = input.LaborCost
	maintenance.PartsCost = input.PartsCost
	maintenance.TotalCost = input.LaborCost.Add(input.PartsCost)
	maintenance.Observations = input.Observations
	maintenance.Photos = input.Photos
	maintenance.Signature = input.Signature

	if input.Status == WorkOrderStatusCompleted {
		completed := time.Now()
		if input.CompletedDate != nil {
			completed = *input.CompletedDate
		}
		maintenance.CompletedDate = &completed
	} else {
		maintenance.CompletedDate = input.CompletedDate
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(maintenance).Error; err != nil {
		return nil, err
	}

	return maintenance, nil
}

func DeleteMaintenance(ctx context.Context, id int) error {
	if err := utils.ValidateResourceId[Maintenance](ctx, id); err != nil {
		return err
	}
	db := config.GetDB()
	return db.WithContext(ctx).Delete(&Maintenance{}, id).Error
}
