package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/gatsolucoes/gat_backend/config"
	"github.com/gatsolucoes/gat_backend/models"
	"github.com/gatsolucoes/gat_backend/utils"
	"gorm.io/gorm"
)

const moduleName = "autoInspection.go"

// ErrInvalidMonthsAhead is the only hard validation failure of the engine.
// Filters that match nothing are not errors, they resolve to an empty scope.
var ErrInvalidMonthsAhead = errors.New("months_ahead must be between 1 and 12")

const (
	defaultMonthsAhead = 3
	minMonthsAhead     = 1
	maxMonthsAhead     = 12
)

type AutoInspectionRequest struct {
	// MonthsAhead is optional: absent means the default horizon. An explicit
	// zero is out of range, not a request for the default.
	MonthsAhead *int `json:"months_ahead"`
	ContractId  int  `json:"contract_id"`
	BranchId    int  `json:"branch_id"`
}

func (req *AutoInspectionRequest) validate() error {
	if req.MonthsAhead == nil {
		months := defaultMonthsAhead
		req.MonthsAhead = &months
	}
	if *req.MonthsAhead < minMonthsAhead || *req.MonthsAhead > maxMonthsAhead {
		return ErrInvalidMonthsAhead
	}
	return nil
}

type GenerateResult struct {
	GeneratedCount int                  `json:"generated_count"`
	Inspections    []*models.Inspection `json:"inspections"`
}

type PreviewRow struct {
	ContractNumber       string                   `json:"contract_number"`
	CompanyName          string                   `json:"company_name"`
	BranchName           string                   `json:"branch_name"`
	EquipmentName        string                   `json:"equipment_name"`
	EquipmentCategory    models.EquipmentCategory `json:"equipment_category"`
	ScheduledDate        time.Time                `json:"scheduled_date"`
	Location             string                   `json:"location"`
	AlreadyExists        bool                     `json:"already_exists"`
	ExistingInspectionId int                      `json:"existing_inspection_id,omitempty"`
}

type PreviewResult struct {
	PreviewCount int          `json:"preview_count"`
	Preview      []PreviewRow `json:"preview"`
}

type ContractCoverage struct {
	ContractId     int    `json:"contract_id"`
	ContractNumber string `json:"contract_number"`
	CompanyName    string `json:"company_name"`
	BranchCount    int    `json:"branch_count"`
	EquipmentCount int    `json:"equipment_count"`
}

type StatsResult struct {
	ActiveContracts         int64              `json:"active_contracts"`
	TotalBranches           int64              `json:"total_branches"`
	TotalEquipments         int64              `json:"total_equipments"`
	PendingInspections      int64              `json:"pending_inspections"`
	ContractsWithEquipments []ContractCoverage `json:"contracts_with_equipments"`
}

// branchScope groups the equipments reachable through one branch.
type branchScope struct {
	Branch     *models.Branch
	Equipments []*models.Equipment
}

// contractScope preserves the contract -> branch -> equipment nesting so the
// engine can attribute every equipment to its owning contract and branch.
type contractScope struct {
	Contract *models.Contract
	Company  *models.Client
	Branches []branchScope
}

// resolveTargets walks active contracts to their company's branches, each
// branch's inventory and the inventory's equipments. A branch without an
// inventory contributes nothing. A branch filter that doesn't belong to a
// contract's company yields an empty branch set for that contract, not an
// error. Equipments are not deduplicated across contracts.
func resolveTargets(ctx context.Context, db *gorm.DB, req *AutoInspectionRequest) ([]contractScope, error) {
	contracts, err := models.ActiveContracts(ctx, db, req.ContractId)
	if err != nil {
		return nil, err
	}

	scopes := make([]contractScope, 0, len(contracts))
	for _, contract := range contracts {
		var company models.Client
		if err := db.WithContext(ctx).First(&company, contract.CompanyId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}

		branchQuery := db.WithContext(ctx).Where("company_id = ?", contract.CompanyId)
		if req.BranchId > 0 {
			branchQuery = branchQuery.Where("id = ?", req.BranchId)
		}
		var branches []*models.Branch
		if err := branchQuery.Find(&branches).Error; err != nil {
			return nil, err
		}

		scope := contractScope{Contract: contract, Company: &company}
		for _, branch := range branches {
			inventory, err := models.InventoryForBranch(ctx, db, branch.ID)
			if err != nil {
				return nil, err
			}
			if inventory == nil {
				continue
			}

			var equipments []*models.Equipment
			err = db.WithContext(ctx).Where("inventory_id = ?", inventory.ID).Find(&equipments).Error
			if err != nil {
				return nil, err
			}

			scope.Branches = append(scope.Branches, branchScope{
				Branch:     branch,
				Equipments: equipments,
			})
		}
		scopes = append(scopes, scope)
	}
	return scopes, nil
}

func inspectionLocation(equipment *models.Equipment, branch *models.Branch) string {
	if equipment.Location != "" {
		return equipment.Location
	}
	return branch.Address
}

// GenerateInspections materializes pending inspections for every due date in
// scope, skipping dates already covered by a pending inspection. All inserts
// commit as one transaction; any failure rolls the whole batch back.
//
// Concurrent invocations are serialized with a best-effort redis lock when
// redis is configured; the duplicate pre-check is not transactionally
// isolated, so two truly simultaneous callers without redis can still
// double-schedule.
func GenerateInspections(ctx context.Context, req *AutoInspectionRequest) (*GenerateResult, error) {
	logger := config.GetLogger()

	if err := req.validate(); err != nil {
		return nil, err
	}

	if locker := config.GetRedisLock(); locker != nil {
		lock, err := locker.Obtain(config.GetRedisContext(), "lock:AutoInspectionGenerate", 60*time.Second, nil)
		if err == nil {
			defer func() {
				_ = lock.Release(config.GetRedisContext())
			}()
		} else if err != redislock.ErrNotObtained {
			config.LogError(logger, moduleName, "GenerateInspections", "Could not obtain generation lock", req, err)
		}
	}

	createdBy, _ := utils.GetUserIdFromContext(ctx)
	today := utils.DateOnly(time.Now())

	result := &GenerateResult{Inspections: []*models.Inspection{}}

	err := config.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scopes, err := resolveTargets(ctx, tx, req)
		if err != nil {
			return err
		}

		for _, scope := range scopes {
			for _, bs := range scope.Branches {
				for _, equipment := range bs.Equipments {
					for _, dueDate := range DueDates(equipment, today, *req.MonthsAhead) {
						_, exists, err := models.PendingInspectionExists(ctx, tx, equipment.ID, dueDate)
						if err != nil {
							return err
						}
						if exists {
							continue
						}

						inspection := &models.Inspection{
							Title: fmt.Sprintf("Inspeção %s - %s", equipment.Name, bs.Branch.Name),
							Description: fmt.Sprintf(
								"Inspeção periódica do equipamento %s conforme contrato %s",
								equipment.Name, scope.Contract.ContractNumber),
							ScheduledDate: dueDate,
							Status:        models.WorkOrderStatusPending,
							Priority:      models.WorkOrderPriorityMedium,
							Location:      inspectionLocation(equipment, bs.Branch),
							EquipmentName: equipment.Name,
							ClientId:      scope.Contract.CompanyId,
							CreatedBy:     createdBy,
							BranchId:      bs.Branch.ID,
							EquipmentId:   equipment.ID,
							ContractId:    scope.Contract.ID,
						}
						if err := tx.Create(inspection).Error; err != nil {
							return err
						}
						result.Inspections = append(result.Inspections, inspection)
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		config.LogError(logger, moduleName, "GenerateInspections", "Transaction", req, err)
		return nil, err
	}

	result.GeneratedCount = len(result.Inspections)
	return result, nil
}

// PreviewInspections runs the same traversal and date computation as
// GenerateInspections without persisting anything, annotating each row with
// whether a pending duplicate already exists.
func PreviewInspections(ctx context.Context, req *AutoInspectionRequest) (*PreviewResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	db := config.GetDB()
	today := utils.DateOnly(time.Now())

	scopes, err := resolveTargets(ctx, db, req)
	if err != nil {
		return nil, err
	}

	result := &PreviewResult{Preview: []PreviewRow{}}
	for _, scope := range scopes {
		for _, bs := range scope.Branches {
			for _, equipment := range bs.Equipments {
				for _, dueDate := range DueDates(equipment, today, *req.MonthsAhead) {
					existingId, exists, err := models.PendingInspectionExists(ctx, db, equipment.ID, dueDate)
					if err != nil {
						return nil, err
					}
					result.Preview = append(result.Preview, PreviewRow{
						ContractNumber:       scope.Contract.ContractNumber,
						CompanyName:          scope.Company.Name,
						BranchName:           bs.Branch.Name,
						EquipmentName:        equipment.Name,
						EquipmentCategory:    equipment.Category,
						ScheduledDate:        dueDate,
						Location:             inspectionLocation(equipment, bs.Branch),
						AlreadyExists:        exists,
						ExistingInspectionId: existingId,
					})
				}
			}
		}
	}

	result.PreviewCount = len(result.Preview)
	return result, nil
}

// AutoInspectionStats summarizes scheduling coverage. Contracts whose
// resolved equipment count is zero are omitted from the per-contract list.
func AutoInspectionStats(ctx context.Context) (*StatsResult, error) {
	db := config.GetDB()

	result := &StatsResult{ContractsWithEquipments: []ContractCoverage{}}

	err := db.WithContext(ctx).Model(&models.Contract{}).
		Where("status = ?", models.ContractStatusActive).
		Count(&result.ActiveContracts).Error
	if err != nil {
		return nil, err
	}

	// branches holding at least one equipment, through their inventory
	inventoriesWithEquipment := db.WithContext(ctx).Model(&models.Equipment{}).Distinct("inventory_id")
	branchesWithEquipment := db.WithContext(ctx).Model(&models.Inventory{}).
		Where("id IN (?)", inventoriesWithEquipment).Distinct("branch_id")
	err = db.WithContext(ctx).Model(&models.Branch{}).
		Where("id IN (?)", branchesWithEquipment).
		Count(&result.TotalBranches).Error
	if err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Model(&models.Equipment{}).Count(&result.TotalEquipments).Error; err != nil {
		return nil, err
	}

	pending, err := models.PendingInspectionCount(ctx)
	if err != nil {
		return nil, err
	}
	result.PendingInspections = pending

	scopes, err := resolveTargets(ctx, db, &AutoInspectionRequest{})
	if err != nil {
		return nil, err
	}
	for _, scope := range scopes {
		equipmentCount := 0
		for _, bs := range scope.Branches {
			equipmentCount += len(bs.Equipments)
		}
		if equipmentCount == 0 {
			continue
		}

		// all of the company's branches, inventory-less ones included
		var branchCount int64
		err := db.WithContext(ctx).Model(&models.Branch{}).
			Where("company_id = ?", scope.Contract.CompanyId).
			Count(&branchCount).Error
		if err != nil {
			return nil, err
		}

		result.ContractsWithEquipments = append(result.ContractsWithEquipments, ContractCoverage{
			ContractId:     scope.Contract.ID,
			ContractNumber: scope.Contract.ContractNumber,
			CompanyName:    scope.Company.Name,
			BranchCount:    int(branchCount),
			EquipmentCount: equipmentCount,
		})
	}

	return result, nil
}
