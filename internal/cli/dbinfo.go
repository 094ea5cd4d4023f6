package cli

import (
	"github.com/spf13/cobra"
)

var dbinfoCmd = &cobra.Command{
	Use:   "dbinfo <db_path>",
	Short: "Print the file's page size and table count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(args[0])
		if err != nil {
			return err
		}
		defer db.Close()
		return printResult(db.DBInfo())
	},
}
