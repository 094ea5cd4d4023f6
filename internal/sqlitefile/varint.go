package sqlitefile

// getVarint decodes the format's 1-9 byte big-endian variable-length
// integer starting at buf[0]. It returns the decoded value and the number
// of bytes consumed. The first 8 bytes each contribute their low 7 bits,
// high-bit-first, with the high bit acting as a continuation flag; a 9th
// byte (if reached) contributes all 8 bits with no continuation flag.
func getVarint(buf []byte) (value uint64, n int, err error) {
	for n < 8 {
		if n >= len(buf) {
			return 0, 0, errf(KindMalformed, "unexpected EOF while decoding varint")
		}
		b := buf[n]
		n++
		value = (value << 7) | uint64(b&0x7f)
		if b&0x80 == 0 {
			return value, n, nil
		}
	}
	// 9th byte: all 8 bits, no continuation.
	if n >= len(buf) {
		return 0, 0, errf(KindMalformed, "unexpected EOF while decoding varint")
	}
	value = (value << 8) | uint64(buf[n])
	n++
	return value, n, nil
}
