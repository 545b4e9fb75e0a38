package domain

// RunStatistics accumulates per-file outcomes across a run. Merge is
// commutative and associative, so partial statistics from independent shards
// combine by field-wise addition in any order.
type RunStatistics struct {
	Skipped         int
	Copied          int
	Rewritten       int
	Resized         int
	QualityAdjusted int
	GpsAdded        int
	Reformatted     map[string]int
	Failed          int
}

func (s RunStatistics) Merge(other RunStatistics) RunStatistics {
	out := RunStatistics{
		Skipped:         s.Skipped + other.Skipped,
		Copied:          s.Copied + other.Copied,
		Rewritten:       s.Rewritten + other.Rewritten,
		Resized:         s.Resized + other.Resized,
		QualityAdjusted: s.QualityAdjusted + other.QualityAdjusted,
		GpsAdded:        s.GpsAdded + other.GpsAdded,
		Failed:          s.Failed + other.Failed,
	}
	if len(s.Reformatted) > 0 || len(other.Reformatted) > 0 {
		out.Reformatted = make(map[string]int, len(s.Reformatted)+len(other.Reformatted))
		for format, n := range s.Reformatted {
			out.Reformatted[format] += n
		}
		for format, n := range other.Reformatted {
			out.Reformatted[format] += n
		}
	}
	return out
}

// RecordRewrite folds one rewrite instruction into the counters.
func (s *RunStatistics) RecordRewrite(info *ConvertInfo) {
	s.Rewritten++
	if info == nil {
		return
	}
	if info.Width > 0 {
		s.Resized++
	}
	if info.Quality > 0 {
		s.QualityAdjusted++
	}
	if info.Format != "" {
		if s.Reformatted == nil {
			s.Reformatted = make(map[string]int)
		}
		s.Reformatted[info.Format]++
	}
	if info.Gps != nil {
		s.GpsAdded++
	}
}

// Processed is the number of files that reached a terminal outcome.
func (s RunStatistics) Processed() int {
	return s.Skipped + s.Copied + s.Rewritten + s.Failed
}
