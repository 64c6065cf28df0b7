package pipeline

import (
	"github.com/zeebo/xxh3"

	"reportetl/internal/table"
)

// Fingerprint hashes a report's content, excluding report_generated_at, so
// two runs over an unchanged source log the same value. Cells are rendered
// through the same canonical form joins use, with NUL separators between
// cells and rows (nil renders distinct from the empty string).
func Fingerprint(t *table.Table) uint64 {
	h := xxh3.New()
	sep := []byte{0}
	nilCell := []byte{0xff}
	for _, c := range t.Columns {
		if c == "report_generated_at" {
			continue
		}
		_, _ = h.WriteString(c)
		_, _ = h.Write(sep)
	}
	for _, r := range t.Rows {
		for _, c := range t.Columns {
			if c == "report_generated_at" {
				continue
			}
			if s, ok := table.KeyString(r[c]); ok {
				_, _ = h.WriteString(s)
			} else {
				_, _ = h.Write(nilCell)
			}
			_, _ = h.Write(sep)
		}
		_, _ = h.Write(sep)
	}
	return h.Sum64()
}
