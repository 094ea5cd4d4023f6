package sqlitefile

import "strings"

// ColumnDef describes one column as declared in a stored CREATE TABLE or
// CREATE INDEX statement. For an index column, DeclType holds the sort
// order ("ASC" or "DESC") rather than a data type.
type ColumnDef struct {
	Name                string
	DeclType            string
	IsIntegerPrimaryKey bool
}

var ddlConstraintKeywords = map[string]bool{
	"PRIMARY": true, "CONSTRAINT": true, "UNIQUE": true, "CHECK": true,
	"FOREIGN": true, "REFERENCES": true, "NOT": true, "NULL": true,
	"DEFAULT": true, "COLLATE": true, "GENERATED": true, "AUTOINCREMENT": true,
}

func isDDLConstraintKeyword(tok string) bool {
	return ddlConstraintKeywords[strings.ToUpper(tok)]
}

// parseCreateTable resolves the ordered column list of a stored
// `CREATE TABLE` statement (C8), handling quoted identifiers, parenthesized
// type modifiers (e.g. DECIMAL(10,2)) that must not fool the top-level
// comma split, and both column-level (`INTEGER PRIMARY KEY`) and
// table-level (`PRIMARY KEY (col)`) primary key declarations.
func parseCreateTable(sql string) ([]ColumnDef, error) {
	t := newDDLTokenizer(sql)
	if t.atEnd() {
		return nil, errf(KindMalformed, "empty CREATE TABLE statement")
	}
	if err := t.mustMatch("CREATE"); err != nil {
		return nil, err
	}
	t.match("TEMP")
	t.match("TEMPORARY")
	if err := t.mustMatch("TABLE"); err != nil {
		return nil, err
	}
	if t.match("IF") {
		if err := t.mustMatch("NOT"); err != nil {
			return nil, err
		}
		if err := t.mustMatch("EXISTS"); err != nil {
			return nil, err
		}
	}
	if _, err := t.mustIdentifier(); err != nil { // table name, already known to the caller
		return nil, err
	}
	if err := t.mustMatch("("); err != nil {
		return nil, err
	}

	var columns []ColumnDef
	var tablePKColumns []string
	for {
		frag, err := collectDDLFragment(t)
		if err != nil {
			return nil, err
		}
		if len(frag) == 0 {
			if err := t.mustMatch(")"); err != nil {
				return nil, err
			}
			break
		}
		switch strings.ToUpper(frag[0]) {
		case "PRIMARY", "CONSTRAINT", "UNIQUE", "CHECK", "FOREIGN":
			if containsFold(frag, "PRIMARY") {
				tablePKColumns = append(tablePKColumns, extractParenIdentifiers(frag)...)
			}
		default:
			col := ColumnDef{Name: frag[0]}
			typeTokens, isPK := splitDDLTypeAndConstraints(frag[1:])
			col.DeclType = strings.Join(typeTokens, " ")
			if isPK && strings.EqualFold(col.DeclType, "INTEGER") {
				col.IsIntegerPrimaryKey = true
			}
			columns = append(columns, col)
		}
		if !t.match(",") {
			if err := t.mustMatch(")"); err != nil {
				return nil, err
			}
			break
		}
	}

	for _, name := range tablePKColumns {
		for i := range columns {
			if strings.EqualFold(columns[i].Name, name) && strings.EqualFold(columns[i].DeclType, "INTEGER") {
				columns[i].IsIntegerPrimaryKey = true
			}
		}
	}
	return columns, nil
}

// parseCreateIndex resolves the target table name and ordered column list
// (with sort order) of a stored `CREATE INDEX` statement (C8). Only the
// first column accelerates point lookups; the rest are retained for
// introspection.
func parseCreateIndex(sql string) (tableName string, columns []ColumnDef, err error) {
	t := newDDLTokenizer(sql)
	if t.atEnd() {
		return "", nil, errf(KindMalformed, "empty CREATE INDEX statement")
	}
	if err := t.mustMatch("CREATE"); err != nil {
		return "", nil, err
	}
	t.match("UNIQUE")
	if err := t.mustMatch("INDEX"); err != nil {
		return "", nil, err
	}
	if t.match("IF") {
		if err := t.mustMatch("NOT"); err != nil {
			return "", nil, err
		}
		if err := t.mustMatch("EXISTS"); err != nil {
			return "", nil, err
		}
	}
	if _, err := t.mustIdentifier(); err != nil { // index name, discarded
		return "", nil, err
	}
	if err := t.mustMatch("ON"); err != nil {
		return "", nil, err
	}
	tableName, err = t.mustIdentifier()
	if err != nil {
		return "", nil, err
	}
	if err := t.mustMatch("("); err != nil {
		return "", nil, err
	}
	for {
		name, err := t.mustIdentifier()
		if err != nil {
			return "", nil, err
		}
		col := ColumnDef{Name: name, DeclType: "ASC"}
		if t.match("COLLATE") {
			if _, err := t.mustIdentifier(); err != nil {
				return "", nil, err
			}
		}
		if t.match("DESC") {
			col.DeclType = "DESC"
		} else {
			t.match("ASC")
		}
		columns = append(columns, col)
		if !t.match(",") {
			if err := t.mustMatch(")"); err != nil {
				return "", nil, err
			}
			break
		}
	}
	return tableName, columns, nil
}

// columnIndex finds the zero-based ordinal of name among columns,
// case-insensitively.
func columnIndex(columns []ColumnDef, name string) (int, bool) {
	for i, c := range columns {
		if strings.EqualFold(c.Name, name) {
			return i, true
		}
	}
	return -1, false
}

// collectDDLFragment reads tokens up to (but not consuming) the next
// top-level comma or closing paren, tracking paren depth so a parenthesized
// type modifier or constraint argument list doesn't fool the split.
func collectDDLFragment(t *ddlTokenizer) ([]string, error) {
	var frag []string
	depth := 0
	for !t.atEnd() {
		tok := t.peek()
		if depth == 0 && (tok == "," || tok == ")") {
			return frag, nil
		}
		if tok == "(" {
			depth++
		} else if tok == ")" {
			depth--
		}
		frag = append(frag, tok)
		t.advance()
	}
	return nil, errf(KindMalformed, "schema DDL %q: unexpected EOF", t.source)
}

// splitDDLTypeAndConstraints splits a column's remaining tokens (after its
// name) into the declared-type tokens and a flag for whether a
// `PRIMARY KEY` constraint appears among the rest.
func splitDDLTypeAndConstraints(tokens []string) (typeTokens []string, isPrimaryKey bool) {
	i := 0
	for i < len(tokens) && !isDDLConstraintKeyword(tokens[i]) {
		typeTokens = append(typeTokens, tokens[i])
		i++
	}
	for j := i; j < len(tokens)-1; j++ {
		if strings.EqualFold(tokens[j], "PRIMARY") && strings.EqualFold(tokens[j+1], "KEY") {
			isPrimaryKey = true
		}
	}
	return typeTokens, isPrimaryKey
}

func containsFold(tokens []string, s string) bool {
	for _, tok := range tokens {
		if strings.EqualFold(tok, s) {
			return true
		}
	}
	return false
}

// extractParenIdentifiers returns the leading identifier of each top-level
// comma-separated group inside the first balanced parenthesized span of
// frag, e.g. ["a", "b"] for `... (a, b desc)`.
func extractParenIdentifiers(frag []string) []string {
	start := -1
	depth := 0
	var names []string
	for i, tok := range frag {
		switch tok {
		case "(":
			if start == -1 {
				start = i + 1
			}
			depth++
		case ")":
			depth--
			if depth == 0 && start != -1 {
				var cur []string
				for j := start; j < i; j++ {
					if frag[j] == "," {
						if len(cur) > 0 {
							names = append(names, cur[0])
							cur = nil
						}
						continue
					}
					cur = append(cur, frag[j])
				}
				if len(cur) > 0 {
					names = append(names, cur[0])
				}
				return names
			}
		}
	}
	return names
}
