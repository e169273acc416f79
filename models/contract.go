package models

import (
	"context"
	"errors"
	"time"

	"github.com/gatsolucoes/gat_backend/config"
	"github.com/gatsolucoes/gat_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Contract binds a company to a service agreement. Only contracts with
// status "active" participate in auto-inspection generation.
type Contract struct {
	ID             int             `gorm:"primary_key" json:"id"`
	ContractNumber string          `gorm:"uniqueIndex;size:50;not null" json:"contract_number"`
	Description    string          `gorm:"type:text" json:"description"`
	StartDate      time.Time       `gorm:"not null" json:"start_date"`
	EndDate        *time.Time      `json:"end_date"`
	Value          decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"value"`
	Status         ContractStatus  `gorm:"index;size:20;not null;default:active" json:"status"`
	Terms          string          `gorm:"type:text" json:"terms"`
	Notes          string          `gorm:"type:text" json:"notes"`
	CompanyId      int             `gorm:"index;not null" json:"company_id"`
	TeamId         int             `gorm:"index" json:"team_id"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewContract struct {
	ContractNumber string          `json:"contract_number" binding:"required"`
	Description    string          `json:"description"`
	StartDate      time.Time       `json:"start_date" binding:"required"`
	EndDate        *time.Time      `json:"end_date"`
	Value          decimal.Decimal `json:"value"`
	Status         ContractStatus  `json:"status"`
	Terms          string          `json:"terms"`
	Notes          string          `json:"notes"`
	CompanyId      int             `json:"company_id" binding:"required"`
	TeamId         int             `json:"team_id"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewContract) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Contract](ctx, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateUnique[Contract](ctx, "contract_number", input.ContractNumber, id); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Client](ctx, input.CompanyId); err != nil {
		return errors.New("company not found")
	}
	if input.TeamId > 0 {
		if err := utils.ValidateResourceId[Team](ctx, input.TeamId); err != nil {
			return errors.New("team not found")
		}
	}
	if input.Status != "" && !input.Status.Valid() {
		return errors.New("invalid contract status")
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return errors.New("end_date must not precede start_date")
	}
	if input.Value.IsNegative() {
		return errors.New("value must not be negative")
	}
	return nil
}

func CreateContract(ctx context.Context, input *NewContract) (*Contract, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = ContractStatusActive
	}

	contract := Contract{
		ContractNumber: input.ContractNumber,
		Description:    input.Description,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Value:          input.Value,
		Status:         status,
		Terms:          input.Terms,
		Notes:          input.Notes,
		CompanyId:      input.CompanyId,
		TeamId:         input.TeamId,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&contract).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			return nil, utils.ErrorDuplicate("contract_number")
		}
		return nil, err
	}

	return &contract, nil
}

func UpdateContract(ctx context.Context, id int, input *NewContract) (*Contract, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	contract, err := utils.FetchSingleModel[Contract](ctx, id)
	if err != nil {
		return nil, err
	}

	contract.ContractNumber = input.ContractNumber
	contract.Description = input.Description
	contract.StartDate = input.StartDate
	contract.EndDate = input.EndDate
	contract.Value = input.Value
	if input.Status != "" {
		contract.Status = input.Status
	}
	contract.Terms = input.Terms
	contract.Notes = input.Notes
	contract.CompanyId = input.CompanyId
	contract.TeamId = input.TeamId

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(contract).Error; err != nil {
		return nil, err
	}

	return contract, nil
}

func DeleteContract(ctx context.Context, id int) error {
	if err := utils.ValidateResourceId[Contract](ctx, id); err != nil {
		return err
	}

	count, err := utils.ResourceCountWhere[Inspection](ctx, "contract_id = ?", id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("contract has inspections")
	}

	db := config.GetDB()
	return db.WithContext(ctx).Delete(&Contract{}, id).Error
}

// ActiveContracts returns contracts eligible for auto-generation,
// optionally narrowed to one contract id.
func ActiveContracts(ctx context.Context, db *gorm.DB, contractId int) ([]*Contract, error) {
	query := db.WithContext(ctx).Where("status = ?", ContractStatusActive)
	if contractId > 0 {
		query = query.Where("id = ?", contractId)
	}
	var contracts []*Contract
	if err := query.Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}
