package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dealradar/audit-engine/internal/config"
	"github.com/dealradar/audit-engine/internal/service"
	"github.com/dealradar/audit-engine/internal/service/mappers"
	"github.com/dealradar/audit-engine/internal/store"
)

var (
	listDealID  string
	listStageID string
	listStatus  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List audits as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}

		db, err := store.InitDB(cfg)
		if err != nil {
			return err
		}
		dataStore := store.NewStore(db)
		defer dataStore.Close()

		svc := service.NewAuditService(dataStore, nil, nil, nil)
		audits, err := svc.ListAudits(context.Background(), &service.AuditFilter{
			DealID:  listDealID,
			StageID: listStageID,
			Status:  listStatus,
		})
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(mappers.AuditListToApi(audits), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listDealID, "deal-id", "", "filter by deal id")
	listCmd.Flags().StringVar(&listStageID, "stage-id", "", "filter by stage id")
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status")
}
