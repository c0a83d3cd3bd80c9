package catalog

import (
	"strings"

	"github.com/spaolacci/murmur3"
)

// IndexDescriptor names an ordered key (one or more columns) and whether
// the backing index manager can answer range probes on that key in
// addition to equality probes.
type IndexDescriptor struct {
	Table        string
	KeyColumns   []string
	SupportsRange bool
}

func NewIndexDescriptor(table string, keyColumns []string) *IndexDescriptor {
	cols := make([]string, len(keyColumns))
	copy(cols, keyColumns)
	return &IndexDescriptor{Table: table, KeyColumns: cols, SupportsRange: true}
}

// indexKey folds an ordered column-name list into the catalog's lookup
// key for the table's index map. Order matters: (a,b) and (b,a) are
// different composite indexes. The key is the comma-joined column names
// followed by "#" and a murmur3 hash of the same ordered list.
func indexKey(cols []string) string {
	h := murmur3.Sum64([]byte(strings.Join(cols, "\x00")))
	return strings.Join(cols, ",") + "#" + uitoa(h)
}

func uitoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	const digits = "0123456789"
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = digits[v%10]
		v /= 10
	}
	return string(buf[i:])
}
