package models

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gatsolucoes/gat_backend/config"
	"github.com/gatsolucoes/gat_backend/utils"
)

// Technician is the field profile attached to a user with the tecnico role.
// Specializations and certifications are stored as JSON text.
type Technician struct {
	ID                 int       `gorm:"primary_key" json:"id"`
	UserId             int       `gorm:"uniqueIndex;not null" json:"user_id"`
	TeamId             int       `gorm:"index" json:"team_id"`
	RegistrationNumber string    `gorm:"size:50" json:"registration_number"`
	Specializations    string    `gorm:"type:text" json:"specializations"`
	Certifications     string    `gorm:"type:text" json:"certifications"`
	ExperienceYears    int       `json:"experience_years"`
	Notes              string    `gorm:"type:text" json:"notes"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewTechnician struct {
	UserId             int             `json:"user_id" binding:"required"`
	TeamId             int             `json:"team_id"`
	RegistrationNumber string          `json:"registration_number"`
	Specializations    []string        `json:"specializations"`
	Certifications     json.RawMessage `json:"certifications"`
	ExperienceYears    int             `json:"experience_years"`
	Notes              string          `json:"notes"`
}

func (input *NewTechnician) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Technician](ctx, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateResourceId[User](ctx, input.UserId); err != nil {
		return errors.New("user not found")
	}
	// one technician profile per user
	if err := utils.ValidateUnique[Technician](ctx, "user_id", input.UserId, id); err != nil {
		return errors.New("user already has a technician profile")
	}
	if input.TeamId > 0 {
		if err := utils.ValidateResourceId[Team](ctx, input.TeamId); err != nil {
			return errors.New("team not found")
		}
	}
	if len(strings.TrimSpace(input.RegistrationNumber)) > 0 {
		if err := utils.ValidateUnique[Technician](ctx, "registration_number", input.RegistrationNumber, id); err != nil {
			return err
		}
	}
	return nil
}

func (input *NewTechnician) jsonFields() (string, string, error) {
	specializations, err := json.Marshal(input.Specializations)
	if err != nil {
		return "", "", err
	}
	certifications := input.Certifications
	if len(certifications) == 0 {
		certifications = json.RawMessage("[]")
	}
	return string(specializations), string(certifications), nil
}

func CreateTechnician(ctx context.Context, input *NewTechnician) (*Technician, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	specializations, certifications, err := input.jsonFields()
	if err != nil {
		return nil, err
	}

	technician := Technician{
		UserId:             input.UserId,
		TeamId:             input.TeamId,
		RegistrationNumber: input.RegistrationNumber,
		Specializations:    specializations,
		Certifications:     certifications,
		ExperienceYears:    input.ExperienceYears,
		Notes:              input.Notes,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&technician).Error; err != nil {
		return nil, err
	}

	return &technician, nil
}

func UpdateTechnician(ctx context.Context, id int, input *NewTechnician) (*Technician, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	technician, err := utils.FetchSingleModel[Technician](ctx, id)
	if err != nil {
		return nil, err
	}

	specializations, certifications, err := input.jsonFields()
	if err != nil {
		return nil, err
	}

	technician.UserId = input.UserId
	technician.TeamId = input.TeamId
	technician.RegistrationNumber = input.RegistrationNumber
	technician.Specializations = specializations
	technician.Certifications = certifications
	technician.ExperienceYears = input.ExperienceYears
	technician.Notes = input.Notes

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(technician).Error; err != nil {
		return nil, err
	}

	return technician, nil
}

func DeleteTechnician(ctx context.Context, id int) error {
	if err := utils.ValidateResourceId[Technician](ctx, id); err != nil {
		return err
	}
	db := config.GetDB()
	return db.WithContext(ctx).Delete(&Technician{}, id).Error
}
