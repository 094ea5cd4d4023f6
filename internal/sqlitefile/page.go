package sqlitefile

import (
	"encoding/binary"
	"io"
	"os"
)

// Logger is the minimal diagnostic sink sqlitefile accepts. internal/logger's
// Logger implements this structurally; callers that don't care about
// diagnostics can leave it nil.
type Logger interface {
	Debugf(format string, args ...any)
}

type discardLogger struct{}

func (discardLogger) Debugf(string, ...any) {}

const fileHeaderSize = 100

// Database is a read-only handle on a single on-disk database file. It reads
// the 100-byte file header and the schema table once, at Open time, and
// reuses both for every query issued against the handle.
type Database struct {
	ra       io.ReaderAt
	closer   io.Closer
	log      Logger
	pageSize uint32
	// usablePageSize is pageSize minus the file header's reserved-bytes
	// count; overflow chunk-size math is defined in terms of it.
	usablePageSize uint32
	pageCount      uint32
	textEncoding   uint32
	schema         []schemaRow
	// preferIndex controls whether Select uses an applicable index or
	// always falls back to a full scan; exposed for benchmarking via
	// internal/config's prefer_index knob.
	preferIndex bool
}

// Option configures a Database at Open time.
type Option func(*Database)

// WithLogger attaches a diagnostic sink. The default, also kept when l is
// nil, is a discard logger.
func WithLogger(l Logger) Option {
	return func(db *Database) {
		if l != nil {
			db.log = l
		}
	}
}

// WithPreferIndex controls whether Select uses an applicable index
// (default true) or always falls back to a full scan, regardless of
// whether an index exists.
func WithPreferIndex(prefer bool) Option {
	return func(db *Database) { db.preferIndex = prefer }
}

// Open reads path's file header and schema table and returns a ready
// Database. The returned Database owns the underlying file and must be
// closed with Close.
func Open(path string, opts ...Option) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapf(KindIO, err, "opening %s", path)
	}
	db, err := newFromReaderAt(f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	db.closer = f
	return db, nil
}

// newFromReaderAt builds a Database over an already-open reader, primarily
// so tests can drive it from an in-memory byte buffer.
func newFromReaderAt(ra io.ReaderAt, opts ...Option) (*Database, error) {
	db := &Database{ra: ra, log: discardLogger{}, preferIndex: true}
	for _, opt := range opts {
		opt(db)
	}
	if err := db.readFileHeader(); err != nil {
		return nil, err
	}
	if err := db.loadSchema(); err != nil {
		return nil, err
	}
	return db, nil
}

// Close releases the underlying file handle, if any. Safe to call even if
// Open or a prior operation failed.
func (db *Database) Close() error {
	if db != nil && db.closer != nil {
		return db.closer.Close()
	}
	return nil
}

func (db *Database) PageSize() uint32 { return db.pageSize }

func (db *Database) readFileHeader() error {
	header := make([]byte, fileHeaderSize)
	if _, err := db.ra.ReadAt(header, 0); err != nil {
		return wrapf(KindIO, err, "reading file header")
	}
	if string(header[0:16]) != "SQLite format 3\x00" {
		return errf(KindMalformed, "not a valid SQLite 3 file")
	}

	pageSize := binary.BigEndian.Uint16(header[16:18])
	switch pageSize {
	case 1:
		db.pageSize = 65536
	case 0:
		return errf(KindMalformed, "invalid page size 0")
	default:
		db.pageSize = uint32(pageSize)
	}

	reservedBytes := header[20]
	db.usablePageSize = db.pageSize - uint32(reservedBytes)
	db.pageCount = binary.BigEndian.Uint32(header[28:32])
	db.textEncoding = binary.BigEndian.Uint32(header[56:60])
	if db.textEncoding == 0 {
		// Databases created without ever writing a text value leave this
		// field zero; treat it as the default, UTF-8.
		db.textEncoding = 1
	}
	return nil
}

// readPage returns the full page-sized byte slice for a 1-based page
// number, and the body offset within it (100 for page 1, 0 otherwise) where
// the page header actually starts.
func (db *Database) readPage(pageNumber uint32) (page []byte, bodyOffset int, err error) {
	if pageNumber < 1 {
		return nil, 0, errf(KindMalformed, "invalid page number %d", pageNumber)
	}
	page = make([]byte, db.pageSize)
	offset := int64(pageNumber-1) * int64(db.pageSize)
	n, err := db.ra.ReadAt(page, offset)
	if err != nil && err != io.EOF {
		return nil, 0, wrapf(KindIO, err, "reading page %d", pageNumber)
	}
	if n == 0 {
		return nil, 0, errf(KindMalformed, "page %d is past the end of the file", pageNumber)
	}
	if pageNumber == 1 {
		bodyOffset = fileHeaderSize
	}
	db.log.Debugf("read page %d (offset %d, bodyOffset %d)", pageNumber, offset, bodyOffset)
	return page, bodyOffset, nil
}

// pageKind enumerates the four b-tree page kinds this format defines.
type pageKind uint8

const (
	pageKindInteriorIndex pageKind = 0x02
	pageKindInteriorTable pageKind = 0x05
	pageKindLeafIndex     pageKind = 0x0a
	pageKindLeafTable     pageKind = 0x0d
)

func (k pageKind) isInterior() bool {
	return k == pageKindInteriorIndex || k == pageKindInteriorTable
}

func (k pageKind) isIndex() bool {
	return k == pageKindInteriorIndex || k == pageKindLeafIndex
}

// pageHeader is the parsed form of C3: the page's kind, its cell count, the
// right-most child pointer (interior kinds only), and the raw cell pointer
// array (offsets relative to the start of the physical page).
type pageHeader struct {
	kind         pageKind
	cellCount    uint16
	rightChild   uint32 // only meaningful when kind.isInterior()
	cellPointers []uint16
}

// parsePageHeader decodes the b-tree page header starting at bodyOffset
// within page, per §3/§4.3.
func parsePageHeader(page []byte, bodyOffset int) (pageHeader, error) {
	if bodyOffset+8 > len(page) {
		return pageHeader{}, errf(KindMalformed, "page too small for header")
	}
	kind := pageKind(page[bodyOffset])
	switch kind {
	case pageKindInteriorIndex, pageKindInteriorTable, pageKindLeafIndex, pageKindLeafTable:
	default:
		return pageHeader{}, errf(KindMalformed, "invalid page kind 0x%02x", kind)
	}

	h := pageHeader{kind: kind}
	h.cellCount = binary.BigEndian.Uint16(page[bodyOffset+3 : bodyOffset+5])

	cellPointerArrayOffset := bodyOffset + 8
	if kind.isInterior() {
		if bodyOffset+12 > len(page) {
			return pageHeader{}, errf(KindMalformed, "page too small for interior header")
		}
		h.rightChild = binary.BigEndian.Uint32(page[bodyOffset+8 : bodyOffset+12])
		cellPointerArrayOffset += 4
	}

	h.cellPointers = make([]uint16, h.cellCount)
	for i := 0; i < int(h.cellCount); i++ {
		off := cellPointerArrayOffset + i*2
		if off+2 > len(page) {
			return pageHeader{}, errf(KindMalformed, "cell pointer array runs past page")
		}
		h.cellPointers[i] = binary.BigEndian.Uint16(page[off : off+2])
	}
	return h, nil
}

// overflowThresholds returns the maximum bytes of a cell's payload that are
// stored inline on the page before an overflow page is used, for the given
// page kind, per the standard fixed-point formulas for this format.
func (db *Database) overflowThresholds(kind pageKind) (minLocal, maxLocal int64) {
	usable := int64(db.usablePageSize)
	minLocal = ((usable-12)*32/255 - 23)
	if kind.isIndex() {
		maxLocal = (usable-12)*64/255 - 23
	} else {
		maxLocal = usable - 35
	}
	return
}
