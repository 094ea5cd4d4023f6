package sqlitefile

import "sort"

// Row pairs a table row's rowid with its decoded column values.
type Row struct {
	Rowid  int64
	Values []Value
}

// predicate is the optional full-scan filter the evaluator pushes down
// into the table scanner: keep a row only if its column at Column equals
// Value.
type predicate struct {
	Column int
	Value  Value
}

// scanTable performs a full depth-first pre-order traversal of the table
// b-tree rooted at root, decoding every leaf row and keeping it if pred is
// nil or the row's predicate column matches pred.Value.
func (db *Database) scanTable(root uint32, pred *predicate) ([]Row, error) {
	var rows []Row
	err := db.walkTableLeaves(root, func(rowid int64, rec Record) error {
		if pred != nil {
			if pred.Column >= len(rec.Values) || Compare(rec.Values[pred.Column], pred.Value) != 0 {
				return nil
			}
		}
		rows = append(rows, Row{Rowid: rowid, Values: rec.Values})
		return nil
	})
	return rows, err
}

// walkTableLeaves walks every leaf cell of the table b-tree rooted at page,
// invoking visit once per (rowid, record) pair in ascending-rowid order for
// a well-formed tree.
func (db *Database) walkTableLeaves(page uint32, visit func(rowid int64, rec Record) error) error {
	header, raw, err := db.readPageHeader(page)
	if err != nil {
		return err
	}
	switch header.kind {
	case pageKindInteriorTable:
		for _, off := range header.cellPointers {
			child, _, err := readInteriorTableCell(raw, int(off))
			if err != nil {
				return err
			}
			if err := db.walkTableLeaves(child, visit); err != nil {
				return err
			}
		}
		return db.walkTableLeaves(header.rightChild, visit)
	case pageKindLeafTable:
		for _, off := range header.cellPointers {
			rowid, rec, err := db.readLeafTableCell(raw, int(off))
			if err != nil {
				return err
			}
			if err := visit(rowid, rec); err != nil {
				return err
			}
		}
		return nil
	default:
		return errf(KindMalformed, "page %d: expected table b-tree page, got kind 0x%02x", page, header.kind)
	}
}

// countTableRows sums leaf cell counts across the entire subtree rooted at
// page, without decoding any records — the non-legacy COUNT(*) fast path
// (REDESIGN FLAG #2: the root page's own cell count alone is wrong for any
// table whose root is an interior page).
func (db *Database) countTableRows(page uint32) (int64, error) {
	header, raw, err := db.readPageHeader(page)
	if err != nil {
		return 0, err
	}
	switch header.kind {
	case pageKindLeafTable:
		return int64(header.cellCount), nil
	case pageKindInteriorTable:
		var total int64
		for _, off := range header.cellPointers {
			child, _, err := readInteriorTableCell(raw, int(off))
			if err != nil {
				return 0, err
			}
			n, err := db.countTableRows(child)
			if err != nil {
				return 0, err
			}
			total += n
		}
		n, err := db.countTableRows(header.rightChild)
		if err != nil {
			return 0, err
		}
		return total + n, nil
	default:
		return 0, errf(KindMalformed, "page %d: expected table b-tree page, got kind 0x%02x", page, header.kind)
	}
}

// fetchByRowids retrieves exactly the rows named by rowids, descending the
// table b-tree once per rowid by scanning each interior page's ordered keys
// for the child to follow and binary-searching the leaf it reaches
// (readRecordByRowid). This is the strategy that keeps the
// indexed SELECT path to O(tree depth * len(rowids)) page reads rather than
// a full scan (§8 scenario S5).
func (db *Database) fetchByRowids(root uint32, rowids []int64) ([]Row, error) {
	sorted := append([]int64(nil), rowids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	rows := make([]Row, 0, len(sorted))
	for _, rowid := range sorted {
		rec, found, err := db.readRecordByRowid(root, rowid)
		if err != nil {
			return nil, err
		}
		if found {
			rows = append(rows, Row{Rowid: rowid, Values: rec.Values})
		}
	}
	return rows, nil
}

// readRecordByRowid descends the table b-tree rooted at page looking for a
// single rowid, using the fact that interior-table cells are ordered
// ascending by the largest rowid in their left subtree.
func (db *Database) readRecordByRowid(page uint32, rowid int64) (Record, bool, error) {
	header, raw, err := db.readPageHeader(page)
	if err != nil {
		return Record{}, false, err
	}
	switch header.kind {
	case pageKindInteriorTable:
		child, err := db.interiorTableChildFor(header, raw, rowid)
		if err != nil {
			return Record{}, false, err
		}
		return db.readRecordByRowid(child, rowid)
	case pageKindLeafTable:
		lo, hi := 0, len(header.cellPointers)-1
		for lo <= hi {
			mid := (lo + hi) / 2
			rid, rec, err := db.readLeafTableCell(raw, int(header.cellPointers[mid]))
			if err != nil {
				return Record{}, false, err
			}
			switch {
			case rid == rowid:
				return rec, true, nil
			case rowid < rid:
				hi = mid - 1
			default:
				lo = mid + 1
			}
		}
		return Record{}, false, nil
	default:
		return Record{}, false, errf(KindMalformed, "page %d: expected table b-tree page, got kind 0x%02x", page, header.kind)
	}
}

// interiorTableChildFor scans an interior table page's cells, in ascending
// key order, for the first whose key (the largest rowid in its left
// subtree) is >= rowid; that cell's left_child is the subtree to descend
// into. If every cell's key is smaller than rowid, the row (if present)
// lives under right_child.
func (db *Database) interiorTableChildFor(header pageHeader, raw []byte, rowid int64) (uint32, error) {
	for _, off := range header.cellPointers {
		child, key, err := readInteriorTableCell(raw, int(off))
		if err != nil {
			return 0, err
		}
		if rowid <= key {
			return child, nil
		}
	}
	return header.rightChild, nil
}

// readPageHeader fetches a page and parses its header in one step, the
// shape every b-tree walker in this file needs.
func (db *Database) readPageHeader(page uint32) (pageHeader, []byte, error) {
	raw, bodyOffset, err := db.readPage(page)
	if err != nil {
		return pageHeader{}, nil, err
	}
	header, err := parsePageHeader(raw, bodyOffset)
	if err != nil {
		return pageHeader{}, nil, wrapf(KindMalformed, err, "page %d", page)
	}
	return header, raw, nil
}

// readInteriorTableCell reads a 4-byte left-child pointer followed by a
// varint rowid key.
func readInteriorTableCell(page []byte, offset int) (child uint32, key int64, err error) {
	if offset+4 > len(page) {
		return 0, 0, errf(KindMalformed, "interior table cell runs past page")
	}
	child = beUint32(page[offset : offset+4])
	k, _, err := getVarint(page[offset+4:])
	if err != nil {
		return 0, 0, wrapf(KindMalformed, err, "reading interior table cell key")
	}
	return child, int64(k), nil
}

// readLeafTableCell reads a leaf-table cell: varint payload_size, varint
// rowid, then the (possibly overflowing) record.
func (db *Database) readLeafTableCell(page []byte, offset int) (rowid int64, rec Record, err error) {
	payloadSize, n, err := getVarint(page[offset:])
	if err != nil {
		return 0, Record{}, wrapf(KindMalformed, err, "reading leaf table cell payload size")
	}
	offset += n
	rid, n, err := getVarint(page[offset:])
	if err != nil {
		return 0, Record{}, wrapf(KindMalformed, err, "reading leaf table cell rowid")
	}
	offset += n

	payload, err := db.readPayload(page, offset, int64(payloadSize), pageKindLeafTable)
	if err != nil {
		return 0, Record{}, err
	}
	rec, err = db.decodeRecord(payload)
	if err != nil {
		return 0, Record{}, err
	}
	return int64(rid), rec, nil
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
