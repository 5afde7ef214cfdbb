package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SscSPs/budget_ledger/internal/core/domain"
	"github.com/SscSPs/budget_ledger/internal/importer/ofx"
	"github.com/spf13/cobra"
)

func (a *app) importOFXCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "import-ofx <account-id> <files...>",
		Short: "Import transactions from OFX/QFX statements",
		Long: `Post every transaction of one or more OFX/QFX statements on an account.
Payees are matched by name and created when missing.

Examples:
  ledger import-ofx 3f2a... ~/Downloads/checking_jan.qfx
  ledger import-ofx 3f2a... ~/Downloads/checking_*.qfx`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandFiles(args[1:])
			if err != nil {
				return err
			}
			importer := ofx.NewImporter(a.svc)
			txnStatus := domain.TransactionStatus(strings.ToUpper(status))
			for _, path := range files {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", path, err)
				}
				result, err := importer.Import(cmd.Context(), args[0], f, txnStatus)
				_ = f.Close()
				if result != nil {
					fmt.Fprintf(a.out(cmd), "%s: posted %d, skipped %d\n", filepath.Base(path), len(result.Posted), result.Skipped)
				}
				if err != nil {
					return fmt.Errorf("import of %s stopped: %w", path, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", string(domain.Cleared), "status of imported transactions")
	return cmd
}

// expandFiles resolves glob patterns; a pattern matching nothing must name a file.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err != nil {
				return nil, err
			}
			matches = []string{pattern}
		}
		files = append(files, matches...)
	}
	return files, nil
}
