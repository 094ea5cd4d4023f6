package sqlitefile

import (
	"encoding/binary"
	"math"
	"unicode/utf16"
)

// Record is a decoded row (table leaf) or key (index cell): an ordered
// sequence of typed values, one per serial type in the record header.
type Record struct {
	Values []Value
}

// readPayload returns the full logical payload for a cell whose header
// claims payloadSize bytes, starting at offset within page. If the payload
// fits within this page's local-storage threshold for kind it is a plain
// slice of page; otherwise the inline portion is followed by a 4-byte
// overflow page pointer, and the remainder is assembled by walking the
// overflow chain (§3, §4.4 step 4).
func (db *Database) readPayload(page []byte, offset int, payloadSize int64, kind pageKind) ([]byte, error) {
	minLocal, maxLocal := db.overflowThresholds(kind)
	if payloadSize <= maxLocal {
		if offset+int(payloadSize) > len(page) {
			return nil, errf(KindMalformed, "payload runs past end of page")
		}
		return page[offset : offset+int(payloadSize)], nil
	}

	chunkSize, remaining := overflowChunkSize(payloadSize, minLocal, maxLocal, int64(db.usablePageSize))
	if offset+int(chunkSize)+4 > len(page) {
		return nil, errf(KindMalformed, "overflow cell runs past end of page")
	}
	record := make([]byte, 0, payloadSize)
	record = append(record, page[offset:offset+int(chunkSize)]...)
	overflowPage := binary.BigEndian.Uint32(page[offset+int(chunkSize) : offset+int(chunkSize)+4])

	for overflowPage != 0 && remaining > 0 {
		next, data, err := db.readOverflowPage(overflowPage)
		if err != nil {
			return nil, err
		}
		take := remaining
		if int64(len(data)) < take {
			take = int64(len(data))
		}
		record = append(record, data[:take]...)
		remaining -= take
		if remaining > 0 && next == 0 {
			return nil, errf(KindMalformed, "overflow chain ended with %d bytes still missing", remaining)
		}
		overflowPage = next
	}
	return record, nil
}

// overflowChunkSize computes how much of an oversized payload is stored
// inline (chunkSize) versus in the overflow chain (remaining), per the
// standard fixed-point formula for this format.
func overflowChunkSize(payloadSize, minLocal, maxLocal, usablePageSize int64) (chunkSize, remaining int64) {
	threshold := minLocal + (payloadSize-minLocal)%(usablePageSize-4)
	if threshold <= maxLocal {
		return threshold, payloadSize - threshold
	}
	return minLocal, payloadSize - minLocal
}

// readOverflowPage reads one link of an overflow chain: a 4-byte next-page
// pointer (0 = end of chain) followed by page-sized data.
func (db *Database) readOverflowPage(pageNumber uint32) (next uint32, data []byte, err error) {
	page, _, err := db.readPage(pageNumber)
	if err != nil {
		return 0, nil, err
	}
	if len(page) < 4 {
		return 0, nil, errf(KindMalformed, "overflow page %d too small", pageNumber)
	}
	next = binary.BigEndian.Uint32(page[0:4])
	return next, page[4:], nil
}

// decodeRecord parses a fully-assembled payload into its header (serial
// types) and column values, per §3/§4.4 steps 1-3.
func (db *Database) decodeRecord(payload []byte) (Record, error) {
	headerSize, n, err := getVarint(payload)
	if err != nil {
		return Record{}, wrapf(KindMalformed, err, "reading record header size")
	}
	if int(headerSize) > len(payload) {
		return Record{}, errf(KindMalformed, "record header size %d exceeds payload length %d", headerSize, len(payload))
	}

	var serialTypes []uint64
	pos := n
	for pos < int(headerSize) {
		st, consumed, err := getVarint(payload[pos:headerSize])
		if err != nil {
			return Record{}, wrapf(KindMalformed, err, "reading serial type")
		}
		serialTypes = append(serialTypes, st)
		pos += consumed
	}
	if pos != int(headerSize) {
		return Record{}, errf(KindMalformed, "serial types overshot header_size (at %d, want %d)", pos, headerSize)
	}

	values := make([]Value, 0, len(serialTypes))
	bodyPos := int(headerSize)
	for _, st := range serialTypes {
		size := serialTypeBodySize(st)
		if st == 10 || st == 11 {
			return Record{}, errf(KindUnsupported, "reserved serial type %d", st)
		}
		if bodyPos+size > len(payload) {
			return Record{}, errf(KindMalformed, "column body runs past payload (serial type %d)", st)
		}
		body := payload[bodyPos : bodyPos+size]
		v, err := db.decodeValue(st, body)
		if err != nil {
			return Record{}, err
		}
		values = append(values, v)
		bodyPos += size
	}
	return Record{Values: values}, nil
}

// serialTypeBodySize returns the body length in bytes for a serial type, per
// the table in §3. Reserved types 10/11 have no defined body; they are
// given size 1 here, and decodeRecord rejects them before reading a body.
func serialTypeBodySize(serialType uint64) int {
	switch serialType {
	case 0, 8, 9:
		return 0
	case 1:
		return 1
	case 2:
		return 2
	case 3:
		return 3
	case 4:
		return 4
	case 5:
		return 6
	case 6, 7:
		return 8
	case 10, 11:
		return 1
	default:
		return int((serialType - 12) / 2)
	}
}

func (db *Database) decodeValue(serialType uint64, body []byte) (Value, error) {
	switch serialType {
	case 0:
		return NullValue(), nil
	case 1, 2, 3, 4, 5, 6:
		return IntValue(decodeBigEndianSignedInt(body)), nil
	case 7:
		bits := binary.BigEndian.Uint64(body)
		return FloatValue(math.Float64frombits(bits)), nil
	case 8:
		return IntValue(0), nil
	case 9:
		return IntValue(1), nil
	default:
		if serialType%2 == 0 {
			return BlobValue(body), nil
		}
		text, err := db.decodeText(body)
		if err != nil {
			return Value{}, err
		}
		return TextValue(text), nil
	}
}

// decodeBigEndianSignedInt sign-extends a 1,2,3,4,6, or 8-byte big-endian
// two's-complement integer.
func decodeBigEndianSignedInt(body []byte) int64 {
	var v int64
	if len(body) > 0 && body[0]&0x80 != 0 {
		v = -1 // all-ones sign extension
	}
	for _, b := range body {
		v = (v << 8) | int64(b)
	}
	return v
}

// decodeText interprets a column body as text under the file's declared
// encoding (UTF-8, UTF-16LE, or UTF-16BE).
func (db *Database) decodeText(body []byte) (string, error) {
	switch db.textEncoding {
	case 1:
		return string(body), nil
	case 2, 3:
		if len(body)%2 != 0 {
			return "", errf(KindMalformed, "odd-length UTF-16 text body")
		}
		units := make([]uint16, len(body)/2)
		for i := range units {
			if db.textEncoding == 2 {
				units[i] = binary.LittleEndian.Uint16(body[i*2 : i*2+2])
			} else {
				units[i] = binary.BigEndian.Uint16(body[i*2 : i*2+2])
			}
		}
		return string(utf16.Decode(units)), nil
	default:
		return "", errf(KindUnsupported, "unknown text encoding %d", db.textEncoding)
	}
}
