package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gatsolucoes/gat_backend/config"
	"github.com/gatsolucoes/gat_backend/utils"
)

type Branch struct {
	ID        int       `gorm:"primary_key" json:"id"`
	CompanyId int       `gorm:"index;not null" json:"company_id"`
	Name      string    `gorm:"index;size:100;not null" json:"name"`
	Cnpj      string    `gorm:"size:18" json:"cnpj"`
	Address   string    `gorm:"size:255" json:"address"`
	City      string    `gorm:"size:100" json:"city"`
	State     string    `gorm:"size:2" json:"state"`
	ZipCode   string    `gorm:"size:10" json:"zip_code"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Email     string    `gorm:"size:120" json:"email"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBranch struct {
	CompanyId int    `json:"company_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Cnpj      string `json:"cnpj"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Notes     string `json:"notes"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewBranch) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Branch](ctx, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateResourceId[Client](ctx, input.CompanyId); err != nil {
		return errors.New("company not found")
	}
	if len(strings.TrimSpace(input.Cnpj)) > 0 {
		if err := utils.ValidateUnique[Branch](ctx, "cnpj", input.Cnpj, id); err != nil {
			return err
		}
	}
	if len(strings.TrimSpace(input.Email)) > 0 && !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email")
	}
	if len(strings.TrimSpace(input.Phone)) > 0 {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return errors.New("invalid phone number")
		}
	}
	return nil
}

func CreateBranch(ctx context.Context, input *NewBranch) (*Branch, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	branch := Branch{
		CompanyId: input.CompanyId,
		Name:      input.Name,
		Cnpj:      input.Cnpj,
		Address:   input.Address,
		City:      input.City,
		State:     input.State,
		ZipCode:   input.ZipCode,
		Phone:     input.Phone,
		Email:     input.Email,
		Notes:     input.Notes,
		IsActive:  utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&branch).Error; err != nil {
		return nil, err
	}

	return &branch, nil
}

func UpdateBranch(ctx context.Context, id int, input *NewBranch) (*Branch, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	branch, err := utils.FetchSingleModel[Branch](ctx, id)
	if err != nil {
		return nil, err
	}

	branch.CompanyId = input.CompanyId
	branch.Name = input.Name
	branch.Cnpj = input.Cnpj
	branch.Address = input.Address
	branch.City = input.City
	branch.State = input.State
	branch.ZipCode = input.ZipCode
	branch.Phone = input.Phone
	branch.Email = input.Email
	branch.Notes = input.Notes

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(branch).Error; err != nil {
		return nil, err
	}

	return branch, nil
}

func DeleteBranch(ctx context.Context, id int) error {
	if err := utils.ValidateResourceId[Branch](ctx, id); err != nil {
		return err
	}

	count, err := utils.ResourceCountWhere[Inventory](ctx, "branch_id = ?", id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("branch has an inventory")
	}

	db := config.GetDB()
	return db.WithContext(ctx).Delete(&Branch{}, id).Error
}
