package cli

import (
	"github.com/spf13/cobra"

	"github.com/dkuntz/sqlitereader/internal/queryparser"
)

var queryCmd = &cobra.Command{
	Use:   "query <db_path> <SQL>",
	Short: "Evaluate a SELECT statement against the file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(args[0])
		if err != nil {
			return err
		}
		defer db.Close()

		q, err := queryparser.Parse(args[1])
		if err != nil {
			return err
		}
		log.Infof("evaluating query kind=%d table=%s", q.Kind, q.Table)

		result, err := db.Evaluate(q)
		if err != nil {
			return err
		}
		return printResult(result)
	},
}
