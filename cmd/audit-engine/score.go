package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	api "github.com/dealradar/audit-engine/api/v1alpha1"
	"github.com/dealradar/audit-engine/internal/catalog"
	"github.com/dealradar/audit-engine/internal/scoring"
)

var (
	scoreCatalogPath string
	scoreLegacy      bool
)

// scoreCmd scores a file of source reports offline, without a database.
// Useful for replaying an audit's reports against a repriced catalog.
var scoreCmd = &cobra.Command{
	Use:   "score [reports.json]",
	Short: "Score source reports from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			signalCatalog catalog.SignalCatalog
			err           error
		)
		switch {
		case scoreCatalogPath != "":
			signalCatalog, err = catalog.LoadSignalCatalog(scoreCatalogPath)
		case scoreLegacy:
			signalCatalog, err = catalog.LegacySignalCatalog()
		default:
			signalCatalog, err = catalog.DefaultSignalCatalog()
		}
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		var reports []api.SourceReport
		if err := json.Unmarshal(data, &reports); err != nil {
			return fmt.Errorf("failed to parse reports: %w", err)
		}

		engine, err := scoring.NewEngine(signalCatalog, zap.NewNop().Sugar())
		if err != nil {
			return err
		}

		result, err := engine.Score(reports)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreCatalogPath, "catalog", "", "path to a signal catalog YAML file")
	scoreCmd.Flags().BoolVar(&scoreLegacy, "legacy", false, "score with the flat v1 catalog")
}
