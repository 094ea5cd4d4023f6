package sqlitefile

import "strings"

// QueryKind selects which of the three supported operations a Query
// requests.
type QueryKind int

const (
	QueryDBInfo QueryKind = iota
	QueryCountRows
	QuerySelect
)

// Query is the structured value the C10 SQL surface parser hands to the
// evaluator (the CLI's dbinfo command calls DBInfo directly instead). It
// deliberately carries no SQL syntax of its own.
type Query struct {
	Kind    QueryKind
	Table   string
	Columns []string // Select only; "*" expands against the resolved table
	Where   *WhereClause
}

// WhereClause is the evaluator's sole predicate shape: a single column
// equality test.
type WhereClause struct {
	Column string
	Value  Value
}

// DBInfoResult is the answer to a DBInfo query.
type DBInfoResult struct {
	PageSize   uint32
	TableCount int
}

// Evaluate dispatches a Query to the matching operation (C9) and returns
// its result as DBInfoResult, int64 (CountRows), or []Row (Select).
func (db *Database) Evaluate(q Query) (any, error) {
	switch q.Kind {
	case QueryDBInfo:
		return db.DBInfo(), nil
	case QueryCountRows:
		return db.CountRows(q.Table)
	case QuerySelect:
		return db.Select(q.Table, q.Columns, q.Where)
	default:
		return nil, errf(KindUnsupported, "unsupported query kind %d", q.Kind)
	}
}

// DBInfo reports the file's page size and the corrected table count
// (REDESIGN FLAG #1): schema rows of type "table", excluding sqlite_
// internal bookkeeping tables, not a page-level cell count.
func (db *Database) DBInfo() DBInfoResult {
	return DBInfoResult{PageSize: db.pageSize, TableCount: db.TableCount()}
}

// CountRows resolves table and sums leaf cell counts across its whole
// b-tree subtree (REDESIGN FLAG #2), never just the root page's own count.
func (db *Database) CountRows(table string) (int64, error) {
	info, err := db.FindTable(table)
	if err != nil {
		return 0, err
	}
	return db.countTableRows(info.RootPage)
}

// Select resolves table, projects columns (columns == ["*"] expands to
// every declared column), and applies where if present, choosing between
// an index lookup and a full scan (C9).
func (db *Database) Select(table string, columns []string, where *WhereClause) ([]Row, error) {
	info, err := db.FindTable(table)
	if err != nil {
		return nil, err
	}
	projIdx, err := resolveProjection(info.Columns, columns)
	if err != nil {
		return nil, err
	}
	pkIdx := integerPrimaryKeyIndex(info.Columns)

	var rawRows []Row
	switch {
	case where == nil:
		rawRows, err = db.scanTable(info.RootPage, nil)
	case pkIdx >= 0 && strings.EqualFold(where.Column, info.Columns[pkIdx].Name):
		// The predicate targets the rowid-aliased column (§3 invariant 5):
		// the stored record column is NULL, so this can only be answered by
		// a direct rowid lookup, never by scanning or indexing the column.
		rawRows, err = db.selectByRowidAlias(info, where.Value)
	default:
		rawRows, err = db.selectWithPredicate(table, info, where)
	}
	if err != nil {
		return nil, err
	}
	return projectRows(rawRows, info.Columns, pkIdx, projIdx), nil
}

// selectByRowidAlias answers a WHERE clause on an INTEGER PRIMARY KEY
// column with a single direct rowid lookup.
func (db *Database) selectByRowidAlias(info TableInfo, target Value) ([]Row, error) {
	rowid, ok := target.Int()
	if !ok {
		return nil, nil // a rowid is always an integer; anything else matches nothing
	}
	rec, found, err := db.readRecordByRowid(info.RootPage, rowid)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return []Row{{Rowid: rowid, Values: rec.Values}}, nil
}

// selectWithPredicate chooses an index lookup when one exists on the
// predicate column and the literal is text, falling back to a full scan
// with the predicate pushed down to the scanner.
func (db *Database) selectWithPredicate(table string, info TableInfo, where *WhereClause) ([]Row, error) {
	whereIdx, ok := columnIndex(info.Columns, where.Column)
	if !ok {
		return nil, errf(KindNotFound, "column not found: %s", where.Column)
	}

	idx, found, err := db.FindIndex(table, where.Column)
	if err != nil {
		return nil, err
	}
	if found && db.preferIndex && where.Value.Kind == KindText {
		rowids, err := db.searchIndex(idx.RootPage, where.Value)
		if err != nil {
			return nil, err
		}
		return db.fetchByRowids(info.RootPage, rowids)
	}
	return db.scanTable(info.RootPage, &predicate{Column: whereIdx, Value: where.Value})
}

// resolveProjection turns a Select's requested column list ("*" or named
// columns) into ordinal positions within columns.
func resolveProjection(columns []ColumnDef, requested []string) ([]int, error) {
	names := requested
	if len(names) == 1 && names[0] == "*" {
		names = make([]string, len(columns))
		for i, c := range columns {
			names[i] = c.Name
		}
	}
	idx := make([]int, len(names))
	for i, name := range names {
		pos, ok := columnIndex(columns, name)
		if !ok {
			return nil, errf(KindNotFound, "column not found: %s", name)
		}
		idx[i] = pos
	}
	return idx, nil
}

// integerPrimaryKeyIndex returns the ordinal of the column flagged
// IsIntegerPrimaryKey, or -1 if none.
func integerPrimaryKeyIndex(columns []ColumnDef) int {
	for i, c := range columns {
		if c.IsIntegerPrimaryKey {
			return i
		}
	}
	return -1
}

// projectRows substitutes the rowid into the INTEGER PRIMARY KEY column
// (§3 invariant 5) and narrows each row to the requested projection.
func projectRows(rows []Row, columns []ColumnDef, pkIdx int, projIdx []int) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		values := row.Values
		if pkIdx >= 0 && pkIdx < len(values) {
			substituted := append([]Value(nil), values...)
			substituted[pkIdx] = IntValue(row.Rowid)
			values = substituted
		}
		proj := make([]Value, len(projIdx))
		for j, idx := range projIdx {
			if idx < len(values) {
				proj[j] = values[idx]
			} else {
				proj[j] = NullValue()
			}
		}
		out[i] = Row{Rowid: row.Rowid, Values: proj}
	}
	return out
}
