// Command sqlitereader is a read-only query engine for a single on-disk
// database file. See `sqlitereader --help` for the command surface.
package main

import "github.com/dkuntz/sqlitereader/internal/cli"

func main() {
	cli.Execute()
}
