package models

import "gorm.io/gorm"

// MigrateAll runs AutoMigrate for every entity. Used by the cmd tools and
// by package tests running against an in-memory database.
func MigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Client{},
		&Branch{},
		&Contract{},
		&Inventory{},
		&Equipment{},
		&Standard{},
		&Team{},
		&Technician{},
		&Inspection{},
		&Maintenance{},
	)
}
