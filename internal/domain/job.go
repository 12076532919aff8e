// Package domain defines the accounting-side model shared by the store,
// reporter, and calendar packages: job classification and parsers for the
// string encodings sacct uses for durations, memory sizes, and timestamps.
package domain

import (
	"strconv"
	"strings"
	"time"
)

// JobKind classifies a sacct row by its JobID suffix.
type JobKind string

const (
	KindAllocation JobKind = "allocation" // 12345
	KindBatch      JobKind = "batch"      // 12345.batch
	KindExtern     JobKind = "extern"     // 12345.extern
	KindStep       JobKind = "step"       // 12345.0, 12345.1, ...
	KindUnknown    JobKind = "unknown"
)

// SplitJobID returns the parent job ID (the part before the first '.') and
// the kind of the row.
func SplitJobID(jobID string) (root string, kind JobKind) {
	i := strings.IndexByte(jobID, '.')
	if i < 0 {
		return jobID, KindAllocation
	}
	root = jobID[:i]
	switch suffix := jobID[i+1:]; {
	case suffix == "batch":
		kind = KindBatch
	case suffix == "extern":
		kind = KindExtern
	case isDigits(suffix):
		kind = KindStep
	default:
		kind = KindUnknown
	}
	return root, kind
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseMemBytes parses a sacct memory field such as "4000M", "15Gn" or
// "102400K" into bytes. The trailing node/task qualifier (n/c) that sacct
// appends to ReqMem is ignored. Returns false when the field is empty or
// carries no recognised unit.
func ParseMemBytes(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "nc")
	if s == "" {
		return 0, false
	}

	unit := s[len(s)-1]
	digits := s[:len(s)-1]
	// Fractional values ("0.50G") appear in some sacct builds.
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}

	switch unit {
	case 'K', 'k':
		return int64(v * 1024), true
	case 'M', 'm':
		return int64(v * 1024 * 1024), true
	case 'G', 'g':
		return int64(v * 1024 * 1024 * 1024), true
	case 'T', 't':
		return int64(v * 1024 * 1024 * 1024 * 1024), true
	default:
		return 0, false
	}
}

// ParseDurationSeconds parses the sacct elapsed/CPU-time encodings:
//
//	DD-HH:MM:SS
//	HH:MM:SS
//	MM:SS.mmm
//	MM:SS
//
// Returns false for empty or unrecognised values.
func ParseDurationSeconds(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	var days float64
	if i := strings.IndexByte(s, '-'); i >= 0 {
		d, err := strconv.ParseFloat(s[:i], 64)
		if err != nil {
			return 0, false
		}
		days = d
		s = s[i+1:]
	}

	parts := strings.Split(s, ":")
	var hours, minutes, seconds float64
	var err error
	switch len(parts) {
	case 3:
		if hours, err = strconv.ParseFloat(parts[0], 64); err != nil {
			return 0, false
		}
		if minutes, err = strconv.ParseFloat(parts[1], 64); err != nil {
			return 0, false
		}
		if seconds, err = strconv.ParseFloat(parts[2], 64); err != nil {
			return 0, false
		}
	case 2:
		if days != 0 {
			return 0, false
		}
		if minutes, err = strconv.ParseFloat(parts[0], 64); err != nil {
			return 0, false
		}
		if seconds, err = strconv.ParseFloat(parts[1], 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}

	return days*86400 + hours*3600 + minutes*60 + seconds, true
}

// sacctTimeLayout is the timestamp format sacct emits for Submit/Start/End.
const sacctTimeLayout = "2006-01-02T15:04:05"

// ParseTime parses a sacct timestamp. "Unknown", "None" and empty values
// (pending or still-running jobs) return a zero time and false.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "Unknown" || s == "None" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(sacctTimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
