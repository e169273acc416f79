package models

import (
	"context"
	"errors"
	"time"

	"github.com/gatsolucoes/gat_backend/config"
	"github.com/gatsolucoes/gat_backend/utils"
)

// Standard is a technical regulation (NBR, IT, NR, ABNT) an equipment must
// comply with.
type Standard struct {
	ID              int          `gorm:"primary_key" json:"id"`
	Code            string       `gorm:"uniqueIndex;size:50;not null" json:"code"`
	Name            string       `gorm:"size:200;not null" json:"name"`
	Description     string       `gorm:"type:text" json:"description"`
	Type            StandardType `gorm:"size:20;not null" json:"type"`
	Version         string       `gorm:"size:20" json:"version"`
	PublicationDate *time.Time   `json:"publication_date"`
	RevisionDate    *time.Time   `json:"revision_date"`
	DocumentUrl     string       `gorm:"size:500" json:"document_url"`
	Summary         string       `gorm:"type:text" json:"summary"`
	Scope           string       `gorm:"type:text" json:"scope"`
	Equipments      []*Equipment `gorm:"many2many:equipment_standards" json:"-"`
	CreatedAt       time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewStandard struct {
	Code            string       `json:"code" binding:"required"`
	Name            string       `json:"name" binding:"required"`
	Description     string       `json:"description"`
	Type            StandardType `json:"type" binding:"required"`
	Version         string       `json:"version"`
	PublicationDate *time.Time   `json:"publication_date"`
	RevisionDate    *time.Time   `json:"revision_date"`
	DocumentUrl     string       `json:"document_url"`
	Summary         string       `json:"summary"`
	Scope           string       `json:"scope"`
}

func (input *NewStandard) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Standard](ctx, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateUnique[Standard](ctx, "code", input.Code, id); err != nil {
		return err
	}
	if !input.Type.Valid() {
		return errors.New("invalid standard type")
	}
	return nil
}

func CreateStandard(ctx context.Context, input *NewStandard) (*Standard, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	standard := Standard{
		Code:            input.Code,
		Name:            input.Name,
		Description:     input.Description,
		Type:            input.Type,
		Version:         input.Version,
		PublicationDate: input.PublicationDate,
		RevisionDate:    input.RevisionDate,
		DocumentUrl:     input.DocumentUrl,
		Summary:         input.Summary,
		Scope:           input.Scope,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&standard).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			return nil, utils.ErrorDuplicate("code")
		}
		return nil, err
	}

	return &standard, nil
}

func UpdateStandard(ctx context.Context, id int, input *NewStandard) (*Standard, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	standard, err := utils.FetchSingleModel[Standard](ctx, id)
	if err != nil {
		return nil, err
	}

	standard.Code = input.Code
	standard.Name = input.Name
	standard.Description = input.Description
	standard.Type = input.Type
	standard.Version = input.Version
	standard.PublicationDate = input.PublicationDate
	standard.RevisionDate = input.RevisionDate
	standard.DocumentUrl = input.DocumentUrl
	standard.Summary = input.Summary
	standard.Scope = input.Scope

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(standard).Error; err != nil {
		return nil, err
	}

	return standard, nil
}

func DeleteStandard(ctx context.Context, id int) error {
	standard, err := utils.FetchSingleModel[Standard](ctx, id)
	if err != nil {
		return err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(standard).Association("Equipments").Clear(); err != nil {
		return err
	}
	return db.WithContext(ctx).Delete(standard).Error
}
