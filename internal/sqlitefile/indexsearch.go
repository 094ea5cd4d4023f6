package sqlitefile

// searchIndex returns every rowid whose index key equals target, per C7.
func (db *Database) searchIndex(root uint32, target Value) ([]int64, error) {
	var rowids []int64
	if err := db.walkIndexForValue(root, target, &rowids); err != nil {
		return nil, err
	}
	return rowids, nil
}

// walkIndexForValue implements the corrected interior-index descent from
// REDESIGN FLAG #3: for every cell on an interior page, recurse into its
// left_child whenever target <= key (not just target < key), and collect
// the rowid embedded in that same cell when target == key, since an
// interior-index cell carries its own (key, rowid) pair in this format, not
// just a child pointer. The first cell whose key is greater than target ends
// the walk of this page, since every later subtree holds larger keys. If no
// cell's key is greater than target, right_child is searched too: it holds
// any keys equal to the last separator as well as all larger ones.
func (db *Database) walkIndexForValue(page uint32, target Value, rowids *[]int64) error {
	header, raw, err := db.readPageHeader(page)
	if err != nil {
		return err
	}
	switch header.kind {
	case pageKindInteriorIndex:
		for _, off := range header.cellPointers {
			child, key, rowid, err := db.readInteriorIndexCell(raw, int(off))
			if err != nil {
				return err
			}
			cmp := Compare(target, key)
			if cmp > 0 {
				continue
			}
			if err := db.walkIndexForValue(child, target, rowids); err != nil {
				return err
			}
			if cmp < 0 {
				return nil
			}
			*rowids = append(*rowids, rowid)
		}
		return db.walkIndexForValue(header.rightChild, target, rowids)
	case pageKindLeafIndex:
		for _, off := range header.cellPointers {
			rec, rowid, err := db.readLeafIndexCell(raw, int(off))
			if err != nil {
				return err
			}
			if len(rec.Values) == 0 {
				continue
			}
			if Compare(rec.Values[0], target) == 0 {
				*rowids = append(*rowids, rowid)
			}
		}
		return nil
	default:
		return errf(KindMalformed, "page %d: expected index b-tree page, got kind 0x%02x", page, header.kind)
	}
}

// readInteriorIndexCell reads a 4-byte left_child, a varint payload_size,
// and the (possibly overflowing) key record. The returned key is the
// record's leading column; the returned rowid is the record's trailing
// column, which the on-disk format stores on every index record (leaf or
// interior) as the referenced table row's rowid.
func (db *Database) readInteriorIndexCell(page []byte, offset int) (child uint32, key Value, rowid int64, err error) {
	if offset+4 > len(page) {
		return 0, Value{}, 0, errf(KindMalformed, "interior index cell runs past page")
	}
	child = beUint32(page[offset : offset+4])
	offset += 4

	payloadSize, n, err := getVarint(page[offset:])
	if err != nil {
		return 0, Value{}, 0, wrapf(KindMalformed, err, "reading interior index cell payload size")
	}
	offset += n

	payload, err := db.readPayload(page, offset, int64(payloadSize), pageKindInteriorIndex)
	if err != nil {
		return 0, Value{}, 0, err
	}
	rec, err := db.decodeRecord(payload)
	if err != nil {
		return 0, Value{}, 0, err
	}
	if len(rec.Values) == 0 {
		return 0, Value{}, 0, errf(KindMalformed, "empty index key record")
	}
	rid, ok := rec.Values[len(rec.Values)-1].Int()
	if !ok {
		return 0, Value{}, 0, errf(KindMalformed, "index record's trailing rowid column is not an integer")
	}
	return child, rec.Values[0], rid, nil
}

// readLeafIndexCell reads a leaf-index cell: varint payload_size, then the
// (possibly overflowing) record whose last column is the referenced table
// row's rowid.
func (db *Database) readLeafIndexCell(page []byte, offset int) (rec Record, rowid int64, err error) {
	payloadSize, n, err := getVarint(page[offset:])
	if err != nil {
		return Record{}, 0, wrapf(KindMalformed, err, "reading leaf index cell payload size")
	}
	offset += n

	payload, err := db.readPayload(page, offset, int64(payloadSize), pageKindLeafIndex)
	if err != nil {
		return Record{}, 0, err
	}
	rec, err = db.decodeRecord(payload)
	if err != nil {
		return Record{}, 0, err
	}
	if len(rec.Values) == 0 {
		return Record{}, 0, errf(KindMalformed, "empty index leaf record")
	}
	rid, ok := rec.Values[len(rec.Values)-1].Int()
	if !ok {
		return Record{}, 0, errf(KindMalformed, "index record's trailing rowid column is not an integer")
	}
	return rec, rid, nil
}
