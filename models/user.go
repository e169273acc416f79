package models

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gatsolucoes/gat_backend/config"
	"github.com/gatsolucoes/gat_backend/utils"
)

type User struct {
	ID           int       `gorm:"primary_key" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:120;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Role         UserRole  `gorm:"size:20;not null;default:tecnico" json:"role"`
	Phone        string    `gorm:"size:20" json:"phone"`
	IsActive     *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Name     string   `json:"name" binding:"required"`
	Role     UserRole `json:"role"`
	Phone    string   `json:"phone"`
}

func (u *User) HasRole(roles ...UserRole) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

// validate input for both create & update. (id = 0 for create)
func (input *NewUser) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[User](ctx, id); err != nil {
			return err
		}
	}
	if err := utils.ValidateUnique[User](ctx, "email", input.Email, id); err != nil {
		return err
	}
	if input.Role != "" && !input.Role.Valid() {
		return errors.New("invalid role")
	}
	if len(strings.TrimSpace(input.Phone)) > 0 {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return errors.New("invalid phone number")
		}
	}
	return nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = UserRoleTechnician
	}

	user := User{
		Email:        input.Email,
		PasswordHash: string(hashed),
		Name:         input.Name,
		Role:         role,
		Phone:        input.Phone,
		IsActive:     utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			return nil, utils.ErrorDuplicate("email")
		}
		return nil, err
	}

	return &user, nil
}

func UpdateUser(ctx context.Context, id int, input *NewUser) (*User, error) {
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	user, err := utils.FetchSingleModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	user.Email = input.Email
	user.Name = input.Name
	user.Phone = input.Phone
	if input.Role != "" {
		user.Role = input.Role
	}
	if input.Password != "" {
		hashed, err := utils.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashed)
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}

	// invalidate cached copy used by the role middleware
	config.DeleteRedisKey(userCacheKey(id))

	return user, nil
}

func DeactivateUser(ctx context.Context, id int) error {
	user, err := utils.FetchSingleModel[User](ctx, id)
	if err != nil {
		return err
	}
	user.IsActive = utils.NewFalse()

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(user).Error; err != nil {
		return err
	}
	config.DeleteRedisKey(userCacheKey(id))
	return nil
}

func userCacheKey(id int) string {
	return "User:" + strconv.Itoa(id)
}

// GetUserCached retrieves a user from redis or db. Cached copies expire with
// the token lifespan so role/active changes propagate on re-login.
func GetUserCached(ctx context.Context, id int) (*User, error) {
	var user User
	exists, err := config.GetRedisObject(userCacheKey(id), &user)
	if err != nil {
		return nil, err
	}

	if !exists {
		db := config.GetDB()
		if err := db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Take(&user).Error; err != nil {
			return nil, utils.ErrorRecordNotFound
		}

		lifespan, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
		if err != nil || lifespan <= 0 {
			lifespan = 24
		}
		if err := config.SetRedisObject(userCacheKey(user.ID), &user, time.Duration(lifespan)*time.Hour); err != nil {
			return nil, err
		}
	}
	return &user, nil
}

func GetUserByEmail(ctx context.Context, email string) (*User, error) {
	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).Where("email = ?", email).Take(&user).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &user, nil
}
