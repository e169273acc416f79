package models

import (
	"context"
	"errors"
	"time"

	"github.com/gatsolucoes/gat_backend/config"
	"github.com/gatsolucoes/gat_backend/utils"
	"gorm.io/gorm"
)

// Inspection is a scheduled inspection work order. The auto-inspection
// engine only ever inserts pending rows; status transitions and result
// fields are filled by the manual flows.
type Inspection struct {
	ID            int               `gorm:"primary_key" json:"id"`
	Title         string            `gorm:"size:200;not null" json:"title"`
	Description   string            `gorm:"type:text" json:"description"`
	ScheduledDate time.Time         `gorm:"index;not null" json:"scheduled_date"`
	CompletedDate *time.Time        `json:"completed_date"`
	Status        WorkOrderStatus   `gorm:"index;size:20;not null;default:pending" json:"status"`
	Priority      WorkOrderPriority `gorm:"size:20;default:medium" json:"priority"`
	Location      string            `gorm:"size:255" json:"location"`
	EquipmentName string            `gorm:"column:equipment;size:100" json:"equipment"`
	ClientId      int               `gorm:"index;not null" json:"client_id"`
	TechnicianId  int               `gorm:"index" json:"technician_id"`
	CreatedBy     int               `gorm:"index" json:"created_by"`
	BranchId      int               `gorm:"index" json:"branch_id"`
	EquipmentId   int               `gorm:"index" json:"equipment_id"`
	ContractId    int               `gorm:"index" json:"contract_id"`
	TeamId        int               `gorm:"index" json:"team_id"`
	Result        string            `gorm:"type:text" json:"result"`
	Observations  string            `gorm:"type:text" json:"observations"`
	Photos        string            `gorm:"type:text" json:"photos"`
	Signature     string            `gorm:"type:text" json:"signature"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInspection struct {
	Title         string            `json:"title" binding:"required"`
	Description   string            `json:"description"`
	ScheduledDate time.Time         `json:"scheduled_date" binding:"required"`
	Status        WorkOrderStatus   `json:"status"`
	Priority      WorkOrderPriority `json:"priority"`
	Location      string            `json:"location"`
	ClientId      int               `json:"client_id" binding:"required"`
	TechnicianId  int               `json:"technician_id"`
	BranchId      int               `json:"branch_id"`
	EquipmentId   int               `json:"equipment_id"`
	ContractId    int               `json:"contract_id"`
	TeamId        int               `json:"team_id"`
	Observations  string            `json:"observations"`
}

type InspectionResultInput struct {
	Status        WorkOrderStatus `json:"status" binding:"required"`
	Result        string          `json:"result"`
	Observations  string          `json:"observations"`
	Photos        string          `json:"photos"`
	Signature     string          `json:"signature"`
	CompletedDate *time.Time      `json:"completed_date"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewInspection) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Inspection](ctx, id); err != nil {
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
	if input.Status != "" && !input.Status.Valid() {
		return errors.New("invalid inspection status")
	}
	if input.Priority != "" && !input.Priority.Valid() {
		return errors.New("invalid priority")
	}
	return nil
}

func CreateInspection(ctx context.Context, input *NewInspection) (*Inspection, error) {
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

	inspection := Inspection{
		Title:         input.Title,
		Description:   input.Description,
		ScheduledDate: utils.DateOnly(input.ScheduledDate),
		Status:        status,
		Priority:      priority,
		Location:      input.Location,
		EquipmentName: equipmentName,
		ClientId:      input.ClientId,
		TechnicianId:  input.TechnicianId,
		CreatedBy:     createdBy,
		BranchId:      input.BranchId,
		EquipmentId:   input.EquipmentId,
		ContractId:    input.ContractId,
		TeamId:        input.TeamId,
		Observations:  input.Observations,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&inspection).Error; err != nil {
		return nil, err
	}

	return &inspection, nil
}

func UpdateInspection(ctx context.Context, id int, input *NewInspection) (*Inspection, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	inspection, err := utils.FetchSingleModel[Inspection](ctx, id)
	if err != nil {
		return nil, err
	}

	inspection.Title = input.Title
	inspection.Description = input.Description
	inspection.ScheduledDate = utils.DateOnly(input.ScheduledDate)
	if input.Status != "" {
		inspection.Status = input.Status
	}
	if input.Priority != "" {
		inspection.Priority = input.Priority
	}
	inspection.Location = input.Location
	inspection.ClientId = input.ClientId
	inspection.TechnicianId = input.TechnicianId
	inspection.BranchId = input.BranchId
	inspection.EquipmentId = input.EquipmentId
	inspection.ContractId = input.ContractId
	inspection.TeamId = input.TeamId
	inspection.Observations = input.Observations

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(inspection).Error; err != nil {
		return nil, err
	}

	return inspection, nil
}

// RecordInspectionResult closes out a work order. Completing an inspection
// also stamps the equipment's last_inspection_date, which becomes the next
// anchor for auto-generation.
func RecordInspectionResult(ctx context.Context, id int, input *InspectionResultInput) (*Inspection, error) {
	if !input.Status.Valid() {
		return nil, errors.New("invalid inspection status")
	}

	inspection, err := utils.FetchSingleModel[Inspection](ctx, id)
	if err != nil {
		return nil, err
	}

	inspection.Status = input.Status
	inspection.Result = input.Result
	inspection.Observations = input.Observations
	inspection.Photos = input.Photos
	inspection.Signature = input.Signature
	inspection.CompletedDate = input.CompletedDate

	db := config.GetDB()
	if input.Status == WorkOrderStatusCompleted {
		completed := time.Now()
		if input.CompletedDate != nil {
			completed = *input.CompletedDate
		}
		inspection.CompletedDate = &completed

		if inspection.EquipmentId > 0 {
			inspectionDate := utils.DateOnly(completed)
			err := db.WithContext(ctx).Model(&Equipment{}).
				Where("id = ?", inspection.EquipmentId).
				Update("last_inspection_date", inspectionDate).Error
			if err != nil {
				return nil, err
			}
		}
	}

	if err := db.WithContext(ctx).Save(inspection).Error; err != nil {
		return nil, err
	}

	return inspection, nil
}

// PendingInspectionExists reports whether a pending inspection is already
// scheduled for the equipment on the given date. It runs on the handle it is
// given so the auto-generation engine can call it inside its transaction.
func PendingInspectionExists(ctx context.Context, db *gorm.DB, equipmentId int, date time.Time) (int, bool, error) {
	var inspection Inspection
	err := db.WithContext(ctx).
		Select("id").
		Where("equipment_id = ? AND scheduled_date = ? AND status = ?",
			equipmentId, utils.DateOnly(date), WorkOrderStatusPending).
		First(&inspection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return inspection.ID, true, nil
}

// PendingInspectionCount is used by the auto-inspection stats endpoint.
func PendingInspectionCount(ctx context.Context) (int64, error) {
	return utils.ResourceCountWhere[Inspection](ctx, "status = ?", WorkOrderStatusPending)
}

func DeleteInspection(ctx context.Context, id int) error {
	if err := utils.ValidateResourceId[Inspection](ctx, id); err != nil {
		return err
	}
	db := config.GetDB()
	return db.WithContext(ctx).Delete(&Inspection{}, id).Error
}
