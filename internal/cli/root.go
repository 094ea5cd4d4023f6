// Package cli is the cobra command tree for the sqlitereader binary (C11).
// Every RunE body is a few lines: open the file, build or parse a Query,
// call into sqlitefile, format the result. No evaluation logic lives here.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dkuntz/sqlitereader/internal/config"
	"github.com/dkuntz/sqlitereader/internal/logger"
	"github.com/dkuntz/sqlitereader/internal/sqlitefile"
)

var (
	cfgPath string
	cfg     config.Config
	log     *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:           "sqlitereader",
	Short:         "Read-only query engine for a single on-disk database file",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		log = logger.New(os.Stderr, logger.ParseLevel(cfg.LogLevel))
		return nil
	},
}

// Execute runs the command tree, printing any error to stderr and exiting
// non-zero (§7: a deliberate improvement over the legacy always-exit-0
// behavior).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file (default: $SQLITEREADER_CONFIG or ~/.config/sqlitereader/config.yaml)")
	rootCmd.AddCommand(dbinfoCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(indexesCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(queryCmd)
}

func openDatabase(path string) (*sqlitefile.Database, error) {
	return sqlitefile.Open(path, sqlitefile.WithLogger(log), sqlitefile.WithPreferIndex(cfg.PreferIndex))
}
