package cli

import (
	"fmt"
	"strings"

	"github.com/dkuntz/sqlitereader/internal/sqlitefile"
)

// printResult renders whatever Database.Evaluate returned the way §6
// specifies: dbinfo as two labeled lines, a row count as a bare integer,
// and a row set as one `|`-joined line per row.
func printResult(result any) error {
	switch v := result.(type) {
	case sqlitefile.DBInfoResult:
		fmt.Printf("database page size: %d\n", v.PageSize)
		fmt.Printf("number of tables: %d\n", v.TableCount)
	case int64:
		fmt.Println(v)
	case []sqlitefile.Row:
		for _, row := range v {
			fields := make([]string, len(row.Values))
			for i, val := range row.Values {
				fields[i] = val.String()
			}
			fmt.Println(strings.Join(fields, "|"))
		}
	default:
		return fmt.Errorf("internal error: unrecognized result type %T", result)
	}
	return nil
}
