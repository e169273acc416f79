package workflow

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gatsolucoes/gat_backend/config"
	"github.com/gatsolucoes/gat_backend/models"
	"github.com/gatsolucoes/gat_backend/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func monthsPtr(n int) *int {
	return &n
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	config.SetDB(db)
	return db
}

type fixture struct {
	Client    *models.Client
	Branch    *models.Branch
	Contract  *models.Contract
	Inventory *models.Inventory
	Equipment *models.Equipment
}

// seedScope creates one full contract -> branch -> inventory -> equipment
// chain. The equipment is an extinguisher last inspected 5 days ago, which
// yields exactly 3 due dates on a 3-month horizon.
func seedScope(t *testing.T, db *gorm.DB, suffix string) *fixture {
	t.Helper()

	client := &models.Client{
		Name:     "Condomínio Aurora " + suffix,
		Email:    "aurora" + suffix + "@example.com",
		IsActive: utils.NewTrue(),
	}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}

	branch := &models.Branch{
		CompanyId: client.ID,
		Name:      "Matriz " + suffix,
		Address:   "Av. Paulista 1000",
		IsActive:  utils.NewTrue(),
	}
	if err := db.Create(branch).Error; err != nil {
		t.Fatalf("seed branch: %v", err)
	}

	contract := &models.Contract{
		ContractNumber: "CT-" + suffix,
		StartDate:      time.Now().AddDate(-1, 0, 0),
		Status:         models.ContractStatusActive,
		CompanyId:      client.ID,
	}
	if err := db.Create(contract).Error; err != nil {
		t.Fatalf("seed contract: %v", err)
	}

	inventory := &models.Inventory{BranchId: branch.ID}
	if err := db.Create(inventory).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	lastInspection := utils.DateOnly(time.Now()).AddDate(0, 0, -5)
	equipment := &models.Equipment{
		InventoryId:        inventory.ID,
		Name:               "Extintor ABC " + suffix,
		Category:           models.EquipmentCategoryExtinguisher,
		LastInspectionDate: &lastInspection,
		Location:           "Hall de entrada",
		Status:             models.EquipmentStatusActive,
	}
	if err := db.Create(equipment).Error; err != nil {
		t.Fatalf("seed equipment: %v", err)
	}

	return &fixture{
		Client:    client,
		Branch:    branch,
		Contract:  contract,
		Inventory: inventory,
		Equipment: equipment,
	}
}

func TestGenerateInspectionsCreatesPending(t *testing.T) {
	db := setupTestDB(t)
	fix := seedScope(t, db, "A")

	ctx := utils.SetUserIdInContext(context.Background(), 42)
	result, err := GenerateInspections(ctx, &AutoInspectionRequest{MonthsAhead: monthsPtr(3)})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.GeneratedCount != 3 {
		t.Fatalf("generated_count = %d, want 3", result.GeneratedCount)
	}

	var inspections []models.Inspection
	if err := db.Order("scheduled_date").Find(&inspections).Error; err != nil {
		t.Fatalf("fetch inspections: %v", err)
	}
	if len(inspections) != 3 {
		t.Fatalf("persisted %d inspections, want 3", len(inspections))
	}

	first := inspections[0]
	if first.Status != models.WorkOrderStatusPending {
		t.Errorf("status = %s, want pending", first.Status)
	}
	if first.Priority != models.WorkOrderPriorityMedium {
		t.Errorf("priority = %s, want medium", first.Priority)
	}
	if want := "Inspeção Extintor ABC A - Matriz A"; first.Title != want {
		t.Errorf("title = %q, want %q", first.Title, want)
	}
	if want := "Inspeção periódica do equipamento Extintor ABC A conforme contrato CT-A"; first.Description != want {
		t.Errorf("description = %q, want %q", first.Description, want)
	}
	if first.ClientId != fix.Client.ID {
		t.Errorf("client_id = %d, want %d", first.ClientId, fix.Client.ID)
	}
	if first.BranchId != fix.Branch.ID || first.EquipmentId != fix.Equipment.ID || first.ContractId != fix.Contract.ID {
		t.Errorf("wrong linkage: branch=%d equipment=%d contract=%d", first.BranchId, first.EquipmentId, first.ContractId)
	}
	if first.TeamId != 0 {
		t.Errorf("team_id = %d, want unset", first.TeamId)
	}
	if first.CreatedBy != 42 {
		t.Errorf("created_by = %d, want 42", first.CreatedBy)
	}
	if first.Location != "Hall de entrada" {
		t.Errorf("location = %q, want equipment location", first.Location)
	}
}

func TestGenerateInspectionsFallsBackToBranchAddress(t *testing.T) {
	db := setupTestDB(t)
	fix := seedScope(t, db, "A")
	if err := db.Model(fix.Equipment).Update("location", "").Error; err != nil {
		t.Fatalf("clear location: %v", err)
	}

	result, err := GenerateInspections(context.Background(), &AutoInspectionRequest{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.GeneratedCount == 0 {
		t.Fatal("expected inspections")
	}
	if got := result.Inspections[0].Location; got != fix.Branch.Address {
		t.Errorf("location = %q, want branch address %q", got, fix.Branch.Address)
	}
}

func TestGenerateInspectionsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	seedScope(t, db, "A")

	ctx := context.Background()
	first, err := GenerateInspections(ctx, &AutoInspectionRequest{MonthsAhead: monthsPtr(3)})
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	if first.GeneratedCount != 3 {
		t.Fatalf("first generated_count = %d, want 3", first.GeneratedCount)
	}

	second, err := GenerateInspections(ctx, &AutoInspectionRequest{MonthsAhead: monthsPtr(3)})
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if second.GeneratedCount != 0 {
		t.Errorf("second generated_count = %d, want 0", second.GeneratedCount)
	}

	var total int64
	db.Model(&models.Inspection{}).Count(&total)
	if total != 3 {
		t.Errorf("total inspections = %d, want 3", total)
	}
}

func TestGenerateInspectionsContractFilter(t *testing.T) {
	db := setupTestDB(t)
	fixA := seedScope(t, db, "A")
	seedScope(t, db, "B")

	result, err := GenerateInspections(context.Background(), &AutoInspectionRequest{
		MonthsAhead: monthsPtr(3),
		ContractId:  fixA.Contract.ID,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.GeneratedCount != 3 {
		t.Fatalf("generated_count = %d, want 3", result.GeneratedCount)
	}
	for _, inspection := range result.Inspections {
		if inspection.ContractId != fixA.Contract.ID {
			t.Errorf("inspection for contract %d leaked into scope", inspection.ContractId)
		}
	}
}

func TestGenerateInspectionsBranchFilter(t *testing.T) {
	db := setupTestDB(t)
	fix := seedScope(t, db, "A")

	// second branch of the same company, with its own inventory and equipment
	other := &models.Branch{
		CompanyId: fix.Client.ID,
		Name:      "Filial Sul",
		IsActive:  utils.NewTrue(),
	}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("seed branch: %v", err)
	}
	otherInventory := &models.Inventory{BranchId: other.ID}
	if err := db.Create(otherInventory).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
	if err := db.Create(&models.Equipment{
		InventoryId: otherInventory.ID,
		Name:        "Hidrante 01",
		Category:    models.EquipmentCategoryHydrant,
		Status:      models.EquipmentStatusActive,
	}).Error; err != nil {
		t.Fatalf("seed equipment: %v", err)
	}

	result, err := GenerateInspections(context.Background(), &AutoInspectionRequest{
		MonthsAhead: monthsPtr(3),
		BranchId:    fix.Branch.ID,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, inspection := range result.Inspections {
		if inspection.BranchId != fix.Branch.ID {
			t.Errorf("inspection for branch %d leaked into scope", inspection.BranchId)
		}
	}
	if result.GeneratedCount != 3 {
		t.Errorf("generated_count = %d, want 3", result.GeneratedCount)
	}
}

func TestGenerateInspectionsSharedCompanyContracts(t *testing.T) {
	db := setupTestDB(t)
	fix := seedScope(t, db, "A")

	// second active contract for the same company: both resolve the same
	// branch and equipment, the duplicate guard keeps one row per date
	second := &models.Contract{
		ContractNumber: "CT-A2",
		StartDate:      time.Now().AddDate(0, -6, 0),
		Status:         models.ContractStatusActive,
		CompanyId:      fix.Client.ID,
	}
	if err := db.Create(second).Error; err != nil {
		t.Fatalf("seed contract: %v", err)
	}

	result, err := GenerateInspections(context.Background(), &AutoInspectionRequest{MonthsAhead: monthsPtr(3)})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.GeneratedCount != 3 {
		t.Errorf("generated_count = %d, want 3", result.GeneratedCount)
	}

	var total int64
	db.Model(&models.Inspection{}).Count(&total)
	if total != 3 {
		t.Errorf("total inspections = %d, want 3", total)
	}
	for _, inspection := range result.Inspections {
		if inspection.ContractId != fix.Contract.ID && inspection.ContractId != second.ID {
			t.Errorf("inspection attributed to unknown contract %d", inspection.ContractId)
		}
	}
}

func TestGenerateInspectionsEmptyScope(t *testing.T) {
	db := setupTestDB(t)
	seedScope(t, db, "A")

	result, err := GenerateInspections(context.Background(), &AutoInspectionRequest{
		MonthsAhead: monthsPtr(3),
		ContractId:  9999,
	})
	if err != nil {
		t.Fatalf("empty scope must not error: %v", err)
	}
	if result.GeneratedCount != 0 {
		t.Errorf("generated_count = %d, want 0", result.GeneratedCount)
	}
}

func TestGenerateInspectionsSkipsInactiveContracts(t *testing.T) {
	db := setupTestDB(t)
	fix := seedScope(t, db, "A")
	if err := db.Model(fix.Contract).Update("status", models.ContractStatusSuspended).Error; err != nil {
		t.Fatalf("suspend contract: %v", err)
	}

	result, err := GenerateInspections(context.Background(), &AutoInspectionRequest{MonthsAhead: monthsPtr(3)})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.GeneratedCount != 0 {
		t.Errorf("generated_count = %d for suspended contract, want 0", result.GeneratedCount)
	}
}

func TestGenerateInspectionsSkipsBranchWithoutInventory(t *testing.T) {
	db := setupTestDB(t)
	fix := seedScope(t, db, "A")
	if err := db.Delete(&models.Equipment{}, fix.Equipment.ID).Error; err != nil {
		t.Fatalf("delete equipment: %v", err)
	}
	if err := db.Delete(&models.Inventory{}, fix.Inventory.ID).Error; err != nil {
		t.Fatalf("delete inventory: %v", err)
	}

	result, err := GenerateInspections(context.Background(), &AutoInspectionRequest{MonthsAhead: monthsPtr(3)})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.GeneratedCount != 0 {
		t.Errorf("generated_count = %d, want 0", result.GeneratedCount)
	}
}

func TestGenerateInspectionsMonthsValidation(t *testing.T) {
	db := setupTestDB(t)
	seedScope(t, db, "A")

	// zero is out of range, not the default; only a missing field defaults
	for _, months := range []int{0, -1, 13, 100} {
		_, err := GenerateInspections(context.Background(), &AutoInspectionRequest{MonthsAhead: &months})
		if err != ErrInvalidMonthsAhead {
			t.Errorf("months_ahead=%d: err = %v, want ErrInvalidMonthsAhead", months, err)
		}
	}

	// boundary values succeed
	for _, months := range []int{1, 12} {
		if _, err := GenerateInspections(context.Background(), &AutoInspectionRequest{MonthsAhead: &months}); err != nil {
			t.Errorf("months_ahead=%d: unexpected err %v", months, err)
		}
	}
}

func TestGenerateInspectionsDefaultsToThreeMonths(t *testing.T) {
	db := setupTestDB(t)
	seedScope(t, db, "A")

	result, err := GenerateInspections(context.Background(), &AutoInspectionRequest{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// extinguisher 5 days past due on a 90-day horizon
	if result.GeneratedCount != 3 {
		t.Errorf("generated_count = %d, want 3", result.GeneratedCount)
	}
}

func TestPreviewGenerateParity(t *testing.T) {
	db := setupTestDB(t)
	seedScope(t, db, "A")

	ctx := context.Background()
	req := &AutoInspectionRequest{MonthsAhead: monthsPtr(3)}

	preview, err := PreviewInspections(ctx, req)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	creatable := 0
	for _, row := range preview.Preview {
		if !row.AlreadyExists {
			creatable++
		}
	}

	generated, err := GenerateInspections(ctx, req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if generated.GeneratedCount != creatable {
		t.Errorf("generated_count = %d, preview creatable = %d", generated.GeneratedCount, creatable)
	}

	// everything is now covered by a pending inspection
	after, err := PreviewInspections(ctx, req)
	if err != nil {
		t.Fatalf("preview after generate: %v", err)
	}
	if after.PreviewCount != preview.PreviewCount {
		t.Errorf("preview_count changed from %d to %d", preview.PreviewCount, after.PreviewCount)
	}
	for _, row := range after.Preview {
		if !row.AlreadyExists {
			t.Errorf("row %s %v should report already_exists after generate", row.EquipmentName, row.ScheduledDate)
		}
		if row.ExistingInspectionId == 0 {
			t.Errorf("row %s %v missing existing inspection id", row.EquipmentName, row.ScheduledDate)
		}
	}
}

func TestPreviewHasNoSideEffects(t *testing.T) {
	db := setupTestDB(t)
	fix := seedScope(t, db, "A")

	preview, err := PreviewInspections(context.Background(), &AutoInspectionRequest{MonthsAhead: monthsPtr(3)})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.PreviewCount != 3 {
		t.Fatalf("preview_count = %d, want 3", preview.PreviewCount)
	}

	row := preview.Preview[0]
	if row.ContractNumber != fix.Contract.ContractNumber {
		t.Errorf("contract_number = %q, want %q", row.ContractNumber, fix.Contract.ContractNumber)
	}
	if row.CompanyName != fix.Client.Name {
		t.Errorf("company_name = %q, want %q", row.CompanyName, fix.Client.Name)
	}
	if row.BranchName != fix.Branch.Name {
		t.Errorf("branch_name = %q, want %q", row.BranchName, fix.Branch.Name)
	}
	if row.EquipmentCategory != models.EquipmentCategoryExtinguisher {
		t.Errorf("equipment_category = %s, want extinguisher", row.EquipmentCategory)
	}

	var count int64
	db.Model(&models.Inspection{}).Count(&count)
	if count != 0 {
		t.Errorf("preview persisted %d inspections", count)
	}
}

func TestAutoInspectionStats(t *testing.T) {
	db := setupTestDB(t)
	fixA := seedScope(t, db, "A")
	seedScope(t, db, "B")

	// extra branch without an inventory: counts toward the contract's branch
	// total but contributes no equipment and is not a covered branch
	spare := &models.Branch{CompanyId: fixA.Client.ID, Name: "Depósito", IsActive: utils.NewTrue()}
	if err := db.Create(spare).Error; err != nil {
		t.Fatalf("seed branch: %v", err)
	}

	// a contract whose company has a branch but no equipment: excluded from
	// the per-contract list, and its branch does not count as covered
	emptyClient := &models.Client{Name: "Sem Equipamentos", Email: "vazio@example.com", IsActive: utils.NewTrue()}
	if err := db.Create(emptyClient).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	emptyBranch := &models.Branch{CompanyId: emptyClient.ID, Name: "Vazia", IsActive: utils.NewTrue()}
	if err := db.Create(emptyBranch).Error; err != nil {
		t.Fatalf("seed branch: %v", err)
	}
	if err := db.Create(&models.Contract{
		ContractNumber: "CT-VAZIO",
		StartDate:      time.Now(),
		Status:         models.ContractStatusActive,
		CompanyId:      emptyClient.ID,
	}).Error; err != nil {
		t.Fatalf("seed contract: %v", err)
	}

	if _, err := GenerateInspections(context.Background(), &AutoInspectionRequest{MonthsAhead: monthsPtr(3)}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	stats, err := AutoInspectionStats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.ActiveContracts != 3 {
		t.Errorf("active_contracts = %d, want 3", stats.ActiveContracts)
	}
	if stats.TotalBranches != 2 {
		t.Errorf("total_branches = %d, want 2", stats.TotalBranches)
	}
	if stats.TotalEquipments != 2 {
		t.Errorf("total_equipments = %d, want 2", stats.TotalEquipments)
	}
	if stats.PendingInspections != 6 {
		t.Errorf("pending_inspections = %d, want 6", stats.PendingInspections)
	}

	if len(stats.ContractsWithEquipments) != 2 {
		t.Fatalf("contracts_with_equipments has %d entries, want 2", len(stats.ContractsWithEquipments))
	}
	for _, coverage := range stats.ContractsWithEquipments {
		switch coverage.ContractNumber {
		case "CT-A":
			// the inventory-less branch still belongs to the company
			if coverage.BranchCount != 2 || coverage.EquipmentCount != 1 {
				t.Errorf("CT-A coverage: branches=%d equipments=%d, want 2/1",
					coverage.BranchCount, coverage.EquipmentCount)
			}
		case "CT-B":
			if coverage.BranchCount != 1 || coverage.EquipmentCount != 1 {
				t.Errorf("CT-B coverage: branches=%d equipments=%d, want 1/1",
					coverage.BranchCount, coverage.EquipmentCount)
			}
		default:
			t.Errorf("unexpected coverage entry %s", coverage.ContractNumber)
		}
	}
}
