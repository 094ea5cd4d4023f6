// Package queryparser translates the small SQL subset this system
// evaluates into sqlitefile's structured Query value, using a real SQL
// grammar rather than a hand-rolled one (C10).
package queryparser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xwb1989/sqlparser"

	"github.com/dkuntz/sqlitereader/internal/sqlitefile"
)

// Parse translates a SELECT string into a sqlitefile.Query. It supports
// exactly the subset §6 of the spec names: SELECT COUNT(*) FROM t, and
// SELECT col[, col]* | * FROM t [WHERE col = literal].
func Parse(sql string) (sqlitefile.Query, error) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return sqlitefile.Query{}, fmt.Errorf("parsing query %q: %w", sql, err)
	}
	sel, ok := stmt.(*sqlparser.Select)
	if !ok {
		return sqlitefile.Query{}, fmt.Errorf("unsupported statement %q: only SELECT is supported", sql)
	}

	table, err := tableName(sel)
	if err != nil {
		return sqlitefile.Query{}, err
	}

	if isCountStar(sel) {
		return sqlitefile.Query{Kind: sqlitefile.QueryCountRows, Table: table}, nil
	}

	columns, err := columnNames(sel)
	if err != nil {
		return sqlitefile.Query{}, err
	}
	where, err := whereClause(sel)
	if err != nil {
		return sqlitefile.Query{}, err
	}
	return sqlitefile.Query{Kind: sqlitefile.QuerySelect, Table: table, Columns: columns, Where: where}, nil
}

func tableName(sel *sqlparser.Select) (string, error) {
	if len(sel.From) != 1 {
		return "", fmt.Errorf("unsupported query: expected exactly one table, got %d", len(sel.From))
	}
	aliased, ok := sel.From[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return "", fmt.Errorf("unsupported FROM clause")
	}
	tbl, ok := aliased.Expr.(sqlparser.TableName)
	if !ok {
		return "", fmt.Errorf("unsupported FROM clause")
	}
	return tbl.Name.String(), nil
}

// isCountStar recognizes the single aggregate this system supports:
// unqualified COUNT(*) or COUNT(col) as the sole select expression.
func isCountStar(sel *sqlparser.Select) bool {
	if len(sel.SelectExprs) != 1 {
		return false
	}
	aliased, ok := sel.SelectExprs[0].(*sqlparser.AliasedExpr)
	if !ok {
		return false
	}
	fn, ok := aliased.Expr.(*sqlparser.FuncExpr)
	return ok && strings.EqualFold(fn.Name.String(), "count")
}

func columnNames(sel *sqlparser.Select) ([]string, error) {
	if len(sel.SelectExprs) == 1 {
		if _, ok := sel.SelectExprs[0].(*sqlparser.StarExpr); ok {
			return []string{"*"}, nil
		}
	}
	names := make([]string, 0, len(sel.SelectExprs))
	for _, expr := range sel.SelectExprs {
		aliased, ok := expr.(*sqlparser.AliasedExpr)
		if !ok {
			return nil, fmt.Errorf("unsupported select expression %v", sqlparser.String(expr))
		}
		col, ok := aliased.Expr.(*sqlparser.ColName)
		if !ok {
			return nil, fmt.Errorf("unsupported select expression %v", sqlparser.String(expr))
		}
		names = append(names, col.Name.String())
	}
	return names, nil
}

func whereClause(sel *sqlparser.Select) (*sqlitefile.WhereClause, error) {
	if sel.Where == nil {
		return nil, nil
	}
	cmp, ok := sel.Where.Expr.(*sqlparser.ComparisonExpr)
	if !ok || cmp.Operator != sqlparser.EqualStr {
		return nil, fmt.Errorf("unsupported WHERE clause: only column = literal equality is supported")
	}
	col, ok := cmp.Left.(*sqlparser.ColName)
	if !ok {
		return nil, fmt.Errorf("unsupported WHERE clause: left side must be a column")
	}
	val, ok := cmp.Right.(*sqlparser.SQLVal)
	if !ok {
		return nil, fmt.Errorf("unsupported WHERE clause: right side must be a literal")
	}
	v, err := literalValue(val)
	if err != nil {
		return nil, err
	}
	return &sqlitefile.WhereClause{Column: col.Name.String(), Value: v}, nil
}

func literalValue(val *sqlparser.SQLVal) (sqlitefile.Value, error) {
	switch val.Type {
	case sqlparser.StrVal:
		return sqlitefile.TextValue(string(val.Val)), nil
	case sqlparser.IntVal:
		n, err := strconv.ParseInt(string(val.Val), 10, 64)
		if err != nil {
			return sqlitefile.Value{}, fmt.Errorf("parsing integer literal %q: %w", val.Val, err)
		}
		return sqlitefile.IntValue(n), nil
	case sqlparser.FloatVal:
		f, err := strconv.ParseFloat(string(val.Val), 64)
		if err != nil {
			return sqlitefile.Value{}, fmt.Errorf("parsing float literal %q: %w", val.Val, err)
		}
		return sqlitefile.FloatValue(f), nil
	default:
		return sqlitefile.Value{}, fmt.Errorf("unsupported literal type %v", val.Type)
	}
}
