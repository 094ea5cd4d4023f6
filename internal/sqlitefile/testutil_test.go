package sqlitefile

import (
	"encoding/binary"
	"io"
	"math"
)

// memFile is an io.ReaderAt over an in-memory buffer, standing in for an
// *os.File in tests that hand-build a small database file.
type memFile []byte

func (m memFile) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m)) {
		return 0, io.EOF
	}
	n := copy(p, m[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// encodeVarint encodes v as this format's big-endian varint, sized for the
// small values test fixtures need (well under the 9-byte ceiling).
func encodeVarint(v uint64) []byte {
	if v == 0 {
		return []byte{0}
	}
	var tmp []byte
	for v > 0 {
		tmp = append([]byte{byte(v & 0x7f)}, tmp...)
		v >>= 7
	}
	for i := 0; i < len(tmp)-1; i++ {
		tmp[i] |= 0x80
	}
	return tmp
}

// encodeValue returns the serial type and column body for v, per §3's
// serial-type table. Only covers the variants and sizes this package's
// tests construct (small ints, short text).
func encodeValue(v Value) (serialType uint64, body []byte) {
	switch v.Kind {
	case KindNull:
		return 0, nil
	case KindInt:
		n, _ := v.Int()
		return 1, []byte{byte(n)}
	case KindFloat:
		f, _ := v.Float()
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, math.Float64bits(f))
		return 7, buf
	case KindText:
		s, _ := v.Text()
		return uint64(13 + 2*len(s)), []byte(s)
	case KindBlob:
		b, _ := v.Blob()
		return uint64(12 + 2*len(b)), b
	default:
		return 0, nil
	}
}

// encodeTestRecord builds a record payload (header_size, serial types,
// column bodies) from values, mirroring decodeRecord's expectations.
func encodeTestRecord(values []Value) []byte {
	var types []byte
	var bodies []byte
	for _, v := range values {
		st, body := encodeValue(v)
		types = append(types, encodeVarint(st)...)
		bodies = append(bodies, body...)
	}
	header := append(encodeVarint(uint64(len(types)+1)), types...)
	return append(header, bodies...)
}

type testLeafCell struct {
	rowid  int64
	record []byte
}

// cellPointer converts a cell's absolute offset within buf into the value a
// cell pointer array stores: an offset from the start of the physical page.
// Page 1's body starts fileHeaderSize bytes into its page; every other
// page's body starts at its page start.
func cellPointer(bodyOffset, cellOffset int) uint16 {
	pageStart := bodyOffset
	if bodyOffset == fileHeaderSize {
		pageStart = 0
	}
	return uint16(cellOffset - pageStart)
}

// writeLeafTablePage renders a leaf-table page's header, cell pointer
// array, and cells into buf starting at bodyOffset, placing cells
// contiguously right after the pointer array (simpler than real
// cell-content-area growth, and just as valid for a read-only reader).
func writeLeafTablePage(buf []byte, bodyOffset int, cells []testLeafCell) {
	buf[bodyOffset] = byte(pageKindLeafTable)
	binary.BigEndian.PutUint16(buf[bodyOffset+3:], uint16(len(cells)))

	pointerArrayOffset := bodyOffset + 8
	cellOffset := pointerArrayOffset + 2*len(cells)
	for i, c := range cells {
		binary.BigEndian.PutUint16(buf[pointerArrayOffset+2*i:], cellPointer(bodyOffset, cellOffset))
		data := append(encodeVarint(uint64(len(c.record))), encodeVarint(uint64(c.rowid))...)
		data = append(data, c.record...)
		copy(buf[cellOffset:], data)
		cellOffset += len(data)
	}
}

// writeFileHeader fills in the 100-byte file header fields this package's
// readFileHeader relies on; all other bytes are left zero.
func writeFileHeader(buf []byte, pageSize uint16, pageCount uint32, textEncoding uint32) {
	copy(buf[0:16], "SQLite format 3\x00")
	binary.BigEndian.PutUint16(buf[16:18], pageSize)
	buf[20] = 0 // reserved bytes
	binary.BigEndian.PutUint32(buf[28:32], pageCount)
	binary.BigEndian.PutUint32(buf[56:60], textEncoding)
}

// encodeTestIndexRecord builds an index record payload: the leading key
// column followed by the trailing rowid column every index record carries
// in this format (§3 invariant 4).
func encodeTestIndexRecord(key Value, rowid int64) []byte {
	return encodeTestRecord([]Value{key, IntValue(rowid)})
}

type testInteriorIndexCell struct {
	leftChild uint32
	record    []byte
}

// writeInteriorIndexPage renders an interior-index page's header, cell
// pointer array, and cells (left_child + payload_size + key record) into
// buf starting at bodyOffset.
func writeInteriorIndexPage(buf []byte, bodyOffset int, rightChild uint32, cells []testInteriorIndexCell) {
	buf[bodyOffset] = byte(pageKindInteriorIndex)
	binary.BigEndian.PutUint16(buf[bodyOffset+3:], uint16(len(cells)))
	binary.BigEndian.PutUint32(buf[bodyOffset+8:], rightChild)

	pointerArrayOffset := bodyOffset + 12
	cellOffset := pointerArrayOffset + 2*len(cells)
	for i, c := range cells {
		binary.BigEndian.PutUint16(buf[pointerArrayOffset+2*i:], cellPointer(bodyOffset, cellOffset))
		binary.BigEndian.PutUint32(buf[cellOffset:], c.leftChild)
		data := append(encodeVarint(uint64(len(c.record))), c.record...)
		copy(buf[cellOffset+4:], data)
		cellOffset += 4 + len(data)
	}
}

// writeLeafIndexPage renders a leaf-index page's header, cell pointer array,
// and cells (payload_size + key/rowid record) into buf starting at
// bodyOffset.
func writeLeafIndexPage(buf []byte, bodyOffset int, records [][]byte) {
	buf[bodyOffset] = byte(pageKindLeafIndex)
	binary.BigEndian.PutUint16(buf[bodyOffset+3:], uint16(len(records)))

	pointerArrayOffset := bodyOffset + 8
	cellOffset := pointerArrayOffset + 2*len(records)
	for i, rec := range records {
		binary.BigEndian.PutUint16(buf[pointerArrayOffset+2*i:], cellPointer(bodyOffset, cellOffset))
		data := append(encodeVarint(uint64(len(rec))), rec...)
		copy(buf[cellOffset:], data)
		cellOffset += len(data)
	}
}
