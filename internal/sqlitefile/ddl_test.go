package sqlitefile

import (
	"reflect"
	"testing"
)

func TestParseCreateTable(t *testing.T) {
	cols, err := parseCreateTable(`CREATE TABLE apples (id INTEGER PRIMARY KEY, name TEXT, color TEXT)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []ColumnDef{
		{Name: "id", DeclType: "INTEGER", IsIntegerPrimaryKey: true},
		{Name: "name", DeclType: "TEXT"},
		{Name: "color", DeclType: "TEXT"},
	}
	if !reflect.DeepEqual(cols, want) {
		t.Fatalf("parseCreateTable() = %+v, want %+v", cols, want)
	}
}

func TestParseCreateTableQuotedIdentifiers(t *testing.T) {
	cols, err := parseCreateTable("CREATE TABLE \"my table\" (`col one` TEXT, [col two] INTEGER)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []ColumnDef{
		{Name: "col one", DeclType: "TEXT"},
		{Name: "col two", DeclType: "INTEGER"},
	}
	if !reflect.DeepEqual(cols, want) {
		t.Fatalf("parseCreateTable() = %+v, want %+v", cols, want)
	}
}

func TestParseCreateTableParenthesizedTypeModifier(t *testing.T) {
	cols, err := parseCreateTable(`CREATE TABLE prices (id INTEGER, amount DECIMAL(10,2) NOT NULL)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []ColumnDef{
		{Name: "id", DeclType: "INTEGER"},
		{Name: "amount", DeclType: "DECIMAL ( 10 , 2 )"},
	}
	if !reflect.DeepEqual(cols, want) {
		t.Fatalf("parseCreateTable() = %+v, want %+v", cols, want)
	}
}

func TestParseCreateTableTableLevelPrimaryKey(t *testing.T) {
	cols, err := parseCreateTable(`CREATE TABLE composite (a INTEGER, b INTEGER, PRIMARY KEY (a))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cols[0].IsIntegerPrimaryKey {
		t.Fatalf("expected column a to be flagged as integer primary key: %+v", cols)
	}
	if cols[1].IsIntegerPrimaryKey {
		t.Fatalf("expected column b to not be flagged as primary key: %+v", cols)
	}
}

func TestParseCreateIndex(t *testing.T) {
	table, cols, err := parseCreateIndex(`CREATE INDEX idx_country ON companies (country)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table != "companies" {
		t.Fatalf("table = %q, want companies", table)
	}
	want := []ColumnDef{{Name: "country", DeclType: "ASC"}}
	if !reflect.DeepEqual(cols, want) {
		t.Fatalf("parseCreateIndex() columns = %+v, want %+v", cols, want)
	}
}

func TestParseCreateIndexMultiColumn(t *testing.T) {
	_, cols, err := parseCreateIndex(`CREATE INDEX idx_multi ON t (a, b DESC)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []ColumnDef{
		{Name: "a", DeclType: "ASC"},
		{Name: "b", DeclType: "DESC"},
	}
	if !reflect.DeepEqual(cols, want) {
		t.Fatalf("parseCreateIndex() columns = %+v, want %+v", cols, want)
	}
}
