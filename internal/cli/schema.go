package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema <db_path>",
	Short: "Print every stored CREATE statement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(args[0])
		if err != nil {
			return err
		}
		defer db.Close()
		for _, stmt := range db.SchemaSQL() {
			fmt.Println(stmt)
		}
		return nil
	},
}
