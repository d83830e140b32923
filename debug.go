package store

import (
	"fmt"
	"strings"
)

// DumpFlags controls which sections Dump emits.
type DumpFlags uint64

const (
	DumpHeaders DumpFlags = 1 << iota
	DumpEntries
	DumpStats

	DumpAll = DumpFlags(0xFFFFFFFFFFFFFFFF)
)

var (
	dumpSep1 = strings.Repeat("=", 80)
	dumpSep2 = strings.Repeat("-", 60)
)

func (f DumpFlags) Contains(v DumpFlags) bool { return (f & v) == v }

// Dump renders a human-readable snapshot of every non-empty database,
// useful for interactive debugging and test failure output (adapted from
// the teacher's Tx.Dump, which walked bolt buckets instead of dictionary
// chains).
func (s *Store) Dump(f DumpFlags) string {
	var buf strings.Builder
	for _, db := range s.dbs {
		if db.Main.Len() == 0 {
			continue
		}
		dumpDatabase(&buf, f, db)
	}
	return buf.String()
}

func dumpDatabase(w *strings.Builder, f DumpFlags, db *Database) {
	stats := db.Main.Stats()

	if f.Contains(DumpHeaders) {
		fmt.Fprintln(w, dumpSep1)
		fmt.Fprintf(w, "db%d (%d keys)\n", db.Index, stats.Used)
	}
	if f.Contains(DumpStats) {
		fmt.Fprintf(w, "db%d.stats: t0_size=%d t0_used=%d t1_size=%d t1_used=%d rehashing=%v load_factor=%.3f\n",
			db.Index, stats.T0Size, stats.T0Used, stats.T1Size, stats.T1Used, stats.Rehashing, stats.LoadFactor)
	}

	if f.Contains(DumpEntries) {
		if f.Contains(DumpStats) {
			fmt.Fprintln(w, dumpSep2)
		}
		it := db.Main.NewSafeIterator()
		defer it.Release()
		pos := 0
		for it.Next() {
			pos++
			e := it.Entry()
			expireStr := ""
			if at, ok := db.ExpireAt(e.Key()); ok {
				expireStr = fmt.Sprintf(" (expires %s)", at.Format("2006-01-02T15:04:05Z"))
			}
			fmt.Fprintf(w, "db%d.%d: %s => %s%s\n", db.Index, pos, hexstr(e.Key()), loggableValue(e.Value()), expireStr)
		}
	}
}

func loggableValue(v any) string {
	switch x := v.(type) {
	case []byte:
		return fmt.Sprintf("%q", x)
	case nil:
		return "<none>"
	default:
		return fmt.Sprintf("%v", x)
	}
}

func rpadf(pad rune, format string, args ...any) string {
	s := fmt.Sprintf(format, args...)
	return rpad(s, 80, pad)
}
