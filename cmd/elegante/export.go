package main

import (
	"fmt"
	"os"

	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the seeded catalog to an xlsx workbook",
	Long: `Write the catalog (products and collections) to an Excel workbook.

Examples:
  elegante export --out catalog.xlsx`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "catalog.xlsx", "output file")
}

func runExport(cmd *cobra.Command, args []string) error {
	application, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOut, err)
	}
	if err := application.ExportCatalog(cmd.Context(), f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	zlog.Info().Str("file", exportOut).Msg("catalog exported")
	return nil
}
