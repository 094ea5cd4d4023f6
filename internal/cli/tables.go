package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables <db_path>",
	Short: "List user table names",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(args[0])
		if err != nil {
			return err
		}
		defer db.Close()
		fmt.Println(strings.Join(db.TableNames(), " "))
		return nil
	},
}
