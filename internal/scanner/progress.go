package scanner

import "time"

// Progress reports scanning progress.
type Progress struct {
	// CurrentPath is the directory most recently listed.
	CurrentPath string
	// DirsScanned is the total directories listed so far.
	DirsScanned int64
	// EntriesVisited counts every classified node.
	EntriesVisited int64
	// Matches is the number of junk entries found so far.
	Matches int64
	// BytesFound is the total size of the matches.
	BytesFound int64
	// Errors is the count of errors encountered.
	Errors int64
	// Done indicates scanning is complete.
	Done bool
	// StartTime is when the scan began.
	StartTime time.Time
	// Duration is elapsed time.
	Duration time.Duration
}

// ItemsPerSecond returns the scan rate.
func (p Progress) ItemsPerSecond() float64 {
	if p.Duration.Seconds() == 0 {
		return 0
	}
	return float64(p.EntriesVisited) / p.Duration.Seconds()
}
