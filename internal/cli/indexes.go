package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes <db_path>",
	Short: "List index names",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(args[0])
		if err != nil {
			return err
		}
		defer db.Close()
		fmt.Println(strings.Join(db.IndexNames(), " "))
		return nil
	},
}
