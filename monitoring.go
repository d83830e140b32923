package store

// DictStats summarizes a dictionary's occupancy for monitoring and
// capacity-planning purposes (adapted from the teacher's TableStats, which
// reported bolt bucket page/leaf accounting instead of bucket-table
// occupancy).
type DictStats struct {
	Used       int
	T0Size     int
	T0Used     int
	T1Size     int
	T1Used     int
	Rehashing  bool
	LoadFactor float64
}

// Stats reports the dictionary's current occupancy.
func (d *Dict) Stats() DictStats {
	s := DictStats{
		Used:      d.Len(),
		T0Size:    d.t0.size(),
		T0Used:    d.t0.used,
		T1Size:    d.t1.size(),
		T1Used:    d.t1.used,
		Rehashing: d.isRehashing(),
	}
	if s.T0Size > 0 {
		s.LoadFactor = float64(s.T0Used) / float64(s.T0Size)
	}
	return s
}

// StoreStats aggregates per-database occupancy plus the store-wide dirty
// counter, the figures a monitoring endpoint or INFO-equivalent command
// would expose.
type StoreStats struct {
	Databases []DatabaseStats
	Dirty     int64
}

// DatabaseStats summarizes one database's main and expires dictionaries.
type DatabaseStats struct {
	Index   int
	Main    DictStats
	Expires DictStats
}

// Stats reports occupancy across every database.
func (s *Store) Stats() StoreStats {
	out := StoreStats{Dirty: s.DirtySinceSave()}
	for _, db := range s.dbs {
		if db.Main.Len() == 0 && db.Expires.Len() == 0 {
			continue
		}
		out.Databases = append(out.Databases, DatabaseStats{
			Index:   db.Index,
			Main:    db.Main.Stats(),
			Expires: db.Expires.Stats(),
		})
	}
	return out
}
