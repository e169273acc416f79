package models

import (
	"context"
	"errors"
	"time"

	"github.com/gatsolucoes/gat_backend/config"
	"github.com/gatsolucoes/gat_backend/utils"
)

type Team struct {
	ID             int       `gorm:"primary_key" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	Specialization string    `gorm:"size:100" json:"specialization"`
	IsActive       *bool     `gorm:"not null;default:true" json:"is_active"`
	CoordinatorId  int       `gorm:"index" json:"coordinator_id"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewTeam struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	Specialization string `json:"specialization"`
	CoordinatorId  int    `json:"coordinator_id"`
}

func (input *NewTeam) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Team](ctx, id); err != nil {
			return err
		}
	}
	if input.CoordinatorId > 0 {
		if err := utils.ValidateResourceId[User](ctx, input.CoordinatorId); err != nil {
			return errors.New("coordinator not found")
		}
	}
	return nil
}

func CreateTeam(ctx context.Context, input *NewTeam) (*Team, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	team := Team{
		Name:           input.Name,
		Description:    input.Description,
		Specialization: input.Specialization,
		CoordinatorId:  input.CoordinatorId,
		IsActive:       utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&team).Error; err != nil {
		return nil, err
	}

	return &team, nil
}

func UpdateTeam(ctx context.Context, id int, input *NewTeam) (*Team, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	team, err := utils.FetchSingleModel[Team](ctx, id)
	if err != nil {
		return nil, err
	}

	team.Name = input.Name
	team.Description = input.Description
	team.Specialization = input.Specialization
	team.CoordinatorId = input.CoordinatorId

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(team).Error; err != nil {
		return nil, err
	}

	return team, nil
}

func DeleteTeam(ctx context.Context, id int) error {
	if err := utils.ValidateResourceId[Team](ctx, id); err != nil {
		return err
	}

	count, err := utils.ResourceCountWhere[Technician](ctx, "team_id = ?", id)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("team has technicians")
	}

	db := config.GetDB()
	return db.WithContext(ctx).Delete(&Team{}, id).Error
}
