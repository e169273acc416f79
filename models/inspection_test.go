package models

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gatsolucoes/gat_backend/config"
	"github.com/gatsolucoes/gat_backend/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupModelDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := MigrateAll(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	config.SetDB(db)
	return db
}

func seedInspectionChain(t *testing.T, db *gorm.DB) (*Client, *Branch, *Inventory, *Equipment) {
	t.Helper()

	client := &Client{Name: "Cliente Teste", Email: "teste@example.com", IsActive: utils.NewTrue()}
	if err := db.Create(client).Error; err != nil {
		t.Fatal(err)
	}
	branch := &Branch{CompanyId: client.ID, Name: "Sede", IsActive: utils.NewTrue()}
	if err := db.Create(branch).Error; err != nil {
		t.Fatal(err)
	}
	inventory := &Inventory{BranchId: branch.ID}
	if err := db.Create(inventory).Error; err != nil {
		t.Fatal(err)
	}
	equipment := &Equipment{
		InventoryId: inventory.ID,
		Name:        "Extintor PQS",
		Category:    EquipmentCategoryExtinguisher,
		Status:      EquipmentStatusActive,
	}
	if err := db.Create(equipment).Error; err != nil {
		t.Fatal(err)
	}
	return client, branch, inventory, equipment
}

func TestCompletingInspectionStampsEquipment(t *testing.T) {
	db := setupModelDB(t)
	client, branch, _, equipment := seedInspectionChain(t, db)

	ctx := context.Background()
	inspection, err := CreateInspection(ctx, &NewInspection{
		Title:         "Inspeção Extintor PQS - Sede",
		ScheduledDate: time.Now(),
		ClientId:      client.ID,
		BranchId:      branch.ID,
		EquipmentId:   equipment.ID,
	})
	if err != nil {
		t.Fatalf("create inspection: %v", err)
	}
	if inspection.Status != WorkOrderStatusPending {
		t.Errorf("status = %s, want pending", inspection.Status)
	}
	if inspection.EquipmentName != equipment.Name {
		t.Errorf("equipment snapshot = %q, want %q", inspection.EquipmentName, equipment.Name)
	}

	completed := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	updated, err := RecordInspectionResult(ctx, inspection.ID, &InspectionResultInput{
		Status:        WorkOrderStatusCompleted,
		Result:        "aprovado",
		CompletedDate: &completed,
	})
	if err != nil {
		t.Fatalf("record result: %v", err)
	}
	if updated.CompletedDate == nil {
		t.Fatal("completed_date not set")
	}

	var refreshed Equipment
	if err := db.First(&refreshed, equipment.ID).Error; err != nil {
		t.Fatal(err)
	}
	if refreshed.LastInspectionDate == nil {
		t.Fatal("last_inspection_date not stamped")
	}
	if want := utils.DateOnly(completed); !refreshed.LastInspectionDate.Equal(want) {
		t.Errorf("last_inspection_date = %v, want %v", refreshed.LastInspectionDate, want)
	}
}

func TestDeleteEquipmentBlockedByPendingInspection(t *testing.T) {
	db := setupModelDB(t)
	client, branch, _, equipment := seedInspectionChain(t, db)

	ctx := context.Background()
	if _, err := CreateInspection(ctx, &NewInspection{
		Title:         "Inspeção pendente",
		ScheduledDate: time.Now().AddDate(0, 0, 10),
		ClientId:      client.ID,
		BranchId:      branch.ID,
		EquipmentId:   equipment.ID,
	}); err != nil {
		t.Fatalf("create inspection: %v", err)
	}

	if err := DeleteEquipment(ctx, equipment.ID); err == nil {
		t.Error("delete must fail while a pending inspection exists")
	}
}

func TestPendingInspectionExists(t *testing.T) {
	db := setupModelDB(t)
	client, branch, _, equipment := seedInspectionChain(t, db)

	ctx := context.Background()
	scheduled := utils.DateOnly(time.Now()).AddDate(0, 0, 30)
	inspection, err := CreateInspection(ctx, &NewInspection{
		Title:         "Inspeção agendada",
		ScheduledDate: scheduled,
		ClientId:      client.ID,
		BranchId:      branch.ID,
		EquipmentId:   equipment.ID,
	})
	if err != nil {
		t.Fatalf("create inspection: %v", err)
	}

	id, exists, err := PendingInspectionExists(ctx, db, equipment.ID, scheduled)
	if err != nil {
		t.Fatal(err)
	}
	if !exists || id != inspection.ID {
		t.Errorf("exists=%v id=%d, want true/%d", exists, id, inspection.ID)
	}

	// other dates and non-pending rows don't count
	if _, exists, _ := PendingInspectionExists(ctx, db, equipment.ID, scheduled.AddDate(0, 0, 1)); exists {
		t.Error("different date must not match")
	}
	if err := db.Model(inspection).Update("status", WorkOrderStatusCompleted).Error; err != nil {
		t.Fatal(err)
	}
	if _, exists, _ := PendingInspectionExists(ctx, db, equipment.ID, scheduled); exists {
		t.Error("completed inspection must not match")
	}
}

func TestInventoryRefreshCounts(t *testing.T) {
	db := setupModelDB(t)
	_, _, inventory, _ := seedInspectionChain(t, db)

	for _, category := range []EquipmentCategory{EquipmentCategoryExtinguisher, EquipmentCategoryHydrant, EquipmentCategoryAlarm} {
		if err := db.Create(&Equipment{
			InventoryId: inventory.ID,
			Name:        string(category) + " extra",
			Category:    category,
			Status:      EquipmentStatusActive,
		}).Error; err != nil {
			t.Fatal(err)
		}
	}

	if err := inventory.RefreshCounts(context.Background()); err != nil {
		t.Fatalf("refresh counts: %v", err)
	}
	if inventory.TotalEquipments != 4 {
		t.Errorf("total_equipments = %d, want 4", inventory.TotalEquipments)
	}
	if inventory.ExtinguishersCount != 2 {
		t.Errorf("extinguishers_count = %d, want 2", inventory.ExtinguishersCount)
	}
	if inventory.HydrantsCount != 1 || inventory.AlarmsCount != 1 {
		t.Errorf("hydrants=%d alarms=%d, want 1/1", inventory.HydrantsCount, inventory.AlarmsCount)
	}
}
