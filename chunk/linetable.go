package chunk

import "encoding/binary"

// lineRecordSize is the fixed width of one run-length record: a
// little-endian u32 line number followed by a u8 run count.
const lineRecordSize = 5

const maxRunCount = 255

// LineTable is a compressed run-length index over a chunk's instruction
// bytes. Consecutive instruction bytes on the same source line share one
// record, capped at 255 per record; a longer run simply appends another
// record with the same line number. This structure is private to the
// chunk — its little-endian encoding is not part of the bytecode's
// big-endian wire format.
type LineTable struct {
	records []byte // lineRecordSize-byte records, appended only
}

// Add records that the next instruction byte belongs to line. If the last
// record already holds line and has not hit the 255 cap, its count is
// incremented in place; otherwise a fresh record is appended.
func (lt *LineTable) Add(line uint32) {
	n := len(lt.records)
	if n > 0 {
		last := lt.records[n-lineRecordSize:]
		lastLine := binary.LittleEndian.Uint32(last[:4])
		lastCount := last[4]
		if lastLine == line && lastCount < maxRunCount {
			last[4] = lastCount + 1
			return
		}
	}
	rec := make([]byte, lineRecordSize)
	binary.LittleEndian.PutUint32(rec[:4], line)
	rec[4] = 1
	lt.records = append(lt.records, rec...)
}

// Get returns the line attributed to instruction byte i, scanning runs from
// the start until the cumulative count exceeds i.
func (lt *LineTable) Get(i int) uint32 {
	cumulative := 0
	for off := 0; off < len(lt.records); off += lineRecordSize {
		rec := lt.records[off : off+lineRecordSize]
		count := int(rec[4])
		cumulative += count
		if cumulative > i {
			return binary.LittleEndian.Uint32(rec[:4])
		}
	}
	return 0
}
