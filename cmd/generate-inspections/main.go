// Command generate-inspections runs the auto-inspection generation outside
// the API, for cron jobs and one-off backfills.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/gatsolucoes/gat_backend/config"
	"github.com/gatsolucoes/gat_backend/models"
	"github.com/gatsolucoes/gat_backend/workflow"
)

func main() {
	var (
		months   = flag.Int("months", 3, "horizon in months (1-12)")
		contract = flag.Int("contract", 0, "restrict to one contract id")
		branch   = flag.Int("branch", 0, "restrict to one branch id")
		preview  = flag.Bool("preview", false, "print what would be created without writing")
	)
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	config.ConnectRedis()
	if err := models.MigrateAll(config.GetDB()); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	req := &workflow.AutoInspectionRequest{
		MonthsAhead: months,
		ContractId:  *contract,
		BranchId:    *branch,
	}

	if *preview {
		result, err := workflow.PreviewInspections(ctx, req)
		if err != nil {
			log.Fatalf("preview: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatalf("encode: %v", err)
		}
		return
	}

	result, err := workflow.GenerateInspections(ctx, req)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}
	log.Printf("generated %d inspections", result.GeneratedCount)
}
