package sqlitefile

import "testing"

const (
	createWidgetsSQL = `CREATE TABLE widgets (tag TEXT, val INTEGER)`
	createIdxTagSQL  = `CREATE INDEX idx_tag ON widgets (tag)`
)

// buildIndexTestDatabase constructs a five-page file: page 1 is the schema
// root (a widgets table and its idx_tag index), page 2 is the widgets
// table's own leaf, and pages 3-5 form a two-level index b-tree rooted at
// page 3 — an interior-index page whose single cell embeds the separator
// key "b"/rowid 2 directly (exercising REDESIGN FLAG #3's interior-cell
// match), with leaves at pages 4 and 5 on either side of it.
func buildIndexTestDatabase(t *testing.T) *Database {
	t.Helper()
	const pageSize = 4096
	buf := make([]byte, pageSize*5)
	writeFileHeader(buf, pageSize, 5, 1)

	tableSchemaRow := encodeTestRecord([]Value{
		TextValue("table"), TextValue("widgets"), TextValue("widgets"),
		IntValue(2), TextValue(createWidgetsSQL),
	})
	indexSchemaRow := encodeTestRecord([]Value{
		TextValue("index"), TextValue("idx_tag"), TextValue("widgets"),
		IntValue(3), TextValue(createIdxTagSQL),
	})
	writeLeafTablePage(buf, fileHeaderSize, []testLeafCell{
		{rowid: 1, record: tableSchemaRow},
		{rowid: 2, record: indexSchemaRow},
	})

	writeLeafTablePage(buf, pageSize, []testLeafCell{
		{rowid: 1, record: encodeTestRecord([]Value{TextValue("a"), IntValue(10)})},
		{rowid: 2, record: encodeTestRecord([]Value{TextValue("b"), IntValue(20)})},
		{rowid: 3, record: encodeTestRecord([]Value{TextValue("c"), IntValue(30)})},
		{rowid: 4, record: encodeTestRecord([]Value{TextValue("d"), IntValue(40)})},
	})

	writeInteriorIndexPage(buf, pageSize*2, 5, []testInteriorIndexCell{
		{leftChild: 4, record: encodeTestIndexRecord(TextValue("b"), 2)},
	})
	writeLeafIndexPage(buf, pageSize*3, [][]byte{
		encodeTestIndexRecord(TextValue("a"), 1),
	})
	writeLeafIndexPage(buf, pageSize*4, [][]byte{
		encodeTestIndexRecord(TextValue("c"), 3),
		encodeTestIndexRecord(TextValue("d"), 4),
	})

	db, err := newFromReaderAt(memFile(buf))
	if err != nil {
		t.Fatalf("newFromReaderAt: %v", err)
	}
	return db
}

func TestSearchIndexInteriorCellMatch(t *testing.T) {
	db := buildIndexTestDatabase(t)
	rowids, err := db.searchIndex(3, TextValue("b"))
	if err != nil {
		t.Fatalf("searchIndex: %v", err)
	}
	if len(rowids) != 1 || rowids[0] != 2 {
		t.Fatalf("searchIndex(b) = %v, want [2]", rowids)
	}
}

func TestSearchIndexLeftLeaf(t *testing.T) {
	db := buildIndexTestDatabase(t)
	rowids, err := db.searchIndex(3, TextValue("a"))
	if err != nil {
		t.Fatalf("searchIndex: %v", err)
	}
	if len(rowids) != 1 || rowids[0] != 1 {
		t.Fatalf("searchIndex(a) = %v, want [1]", rowids)
	}
}

func TestSearchIndexRightSubtree(t *testing.T) {
	db := buildIndexTestDatabase(t)
	for _, tc := range []struct {
		key  string
		want int64
	}{{"c", 3}, {"d", 4}} {
		rowids, err := db.searchIndex(3, TextValue(tc.key))
		if err != nil {
			t.Fatalf("searchIndex(%s): %v", tc.key, err)
		}
		if len(rowids) != 1 || rowids[0] != tc.want {
			t.Fatalf("searchIndex(%s) = %v, want [%d]", tc.key, rowids, tc.want)
		}
	}
}

func TestSearchIndexNoMatch(t *testing.T) {
	db := buildIndexTestDatabase(t)
	rowids, err := db.searchIndex(3, TextValue("z"))
	if err != nil {
		t.Fatalf("searchIndex: %v", err)
	}
	if len(rowids) != 0 {
		t.Fatalf("searchIndex(z) = %v, want none", rowids)
	}
}

func TestSelectStrategyEquivalence(t *testing.T) {
	where := &WhereClause{Column: "tag", Value: TextValue("d")}

	indexed := buildIndexTestDatabase(t)
	indexedRows, err := indexed.Select("widgets", []string{"tag", "val"}, where)
	if err != nil {
		t.Fatalf("indexed Select: %v", err)
	}

	scanned := buildIndexTestDatabase(t)
	scanned.preferIndex = false
	scannedRows, err := scanned.Select("widgets", []string{"tag", "val"}, where)
	if err != nil {
		t.Fatalf("scanned Select: %v", err)
	}

	if len(indexedRows) != 1 || len(scannedRows) != 1 {
		t.Fatalf("got %d indexed rows, %d scanned rows, want 1 each", len(indexedRows), len(scannedRows))
	}
	for i, row := range indexedRows {
		other := scannedRows[i]
		for j := range row.Values {
			if Compare(row.Values[j], other.Values[j]) != 0 {
				t.Fatalf("row %d column %d: indexed=%v scanned=%v", i, j, row.Values[j], other.Values[j])
			}
		}
	}
	tag, _ := indexedRows[0].Values[0].Text()
	val, _ := indexedRows[0].Values[1].Int()
	if tag != "d" || val != 40 {
		t.Fatalf("row = (%s, %d), want (d, 40)", tag, val)
	}
}
