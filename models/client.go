package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gatsolucoes/gat_backend/config"
	"github.com/gatsolucoes/gat_backend/utils"
)

// Client is the company the service contracts are signed with. Branches,
// contracts and generated work orders all hang off it.
type Client struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"index;size:100;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:120;not null" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	CpfCnpj   string    `gorm:"size:20" json:"cpf_cnpj"`
	Address   string    `gorm:"size:255" json:"address"`
	City      string    `gorm:"size:100" json:"city"`
	State     string    `gorm:"size:2" json:"state"`
	ZipCode   string    `gorm:"size:10" json:"zip_code"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewClient struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	CpfCnpj string `json:"cpf_cnpj"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Notes   string `json:"notes"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewClient) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Client](ctx, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateUnique[Client](ctx, "email", input.Email, id); err != nil {
		return err
	}
	if len(strings.TrimSpace(input.CpfCnpj)) > 0 {
		if err := utils.ValidateUnique[Client](ctx, "cpf_cnpj", input.CpfCnpj, id); err != nil {
			return err
		}
	}
	if len(strings.TrimSpace(input.Phone)) > 0 {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return errors.New("invalid phone number")
		}
	}
	return nil
}

func CreateClient(ctx context.Context, input *NewClient) (*Client, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	client := Client{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		CpfCnpj:  input.CpfCnpj,
		Address:  input.Address,
		City:     input.City,
		State:    input.State,
		ZipCode:  input.ZipCode,
		Notes:    input.Notes,
		IsActive: utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

func UpdateClient(ctx context.Context, id int, input *NewClient) (*Client, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	client, err := utils.FetchSingleModel[Client](ctx, id)
	if err != nil {
		return nil, err
	}

	client.Name = input.Name
	client.Email = input.Email
	client.Phone = input.Phone
	client.CpfCnpj = input.CpfCnpj
	client.Address = input.Address
	client.City = input.City
	client.State = input.State
	client.ZipCode = input.ZipCode
	client.Notes = input.Notes

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(client).Error; err != nil {
		return nil, err
	}

	return client, nil
}

func DeleteClient(ctx context.Context, id int) error {
	if err := utils.ValidateResourceId[Client](ctx, id); err != nil {
		return err
	}

	// refuse deletion while contracts or branches still reference the company
	count, err := utils.ResourceCountWhere[Contract](ctx, "company_id = ?", id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("client has contracts")
	}
	count, err = utils.ResourceCountWhere[Branch](ctx, "company_id = ?", id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("client has branches")
	}

	db := config.GetDB()
	return db.WithContext(ctx).Delete(&Client{}, id).Error
}
