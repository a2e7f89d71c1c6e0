package subtitle

import "time"

// summary of a parsed track, used by the inspect command
type Stats struct {
	Cues      int
	Skipped   int           // blocks dropped by the parser
	Malformed int           // cues whose end precedes their start
	Overlaps  int           // cues starting before the previous cue ended
	Span      time.Duration // latest end time
}

func Analyze(cues []Cue, skipped int) Stats {
	stats := Stats{Cues: len(cues), Skipped: skipped}

	var prev *Cue
	for i := range cues {
		cue := &cues[i]
		if !cue.Valid() {
			stats.Malformed++
			continue
		}
		if cue.EndTime > stats.Span {
			stats.Span = cue.EndTime
		}
		if prev != nil && cue.StartTime < prev.EndTime {
			stats.Overlaps++
		}
		prev = cue
	}

	return stats
}
