package model

import (
	"fmt"
	"strings"
)

// ScanPolicy selects how far a scan descends below its root.
type ScanPolicy uint8

const (
	// PolicyShallow visits only the direct children of the root.
	PolicyShallow ScanPolicy = iota
	// PolicyDeep recurses into every subdirectory.
	PolicyDeep
)

func (p ScanPolicy) String() string {
	if p == PolicyDeep {
		return "deep"
	}
	return "shallow"
}

// Deep reports whether the policy recurses.
func (p ScanPolicy) Deep() bool { return p == PolicyDeep }

// PolicyFor maps the deep flag used by config and flags to a policy.
func PolicyFor(deep bool) ScanPolicy {
	if deep {
		return PolicyDeep
	}
	return PolicyShallow
}

// ParsePolicy parses "deep" or "shallow".
func ParsePolicy(s string) (ScanPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deep":
		return PolicyDeep, nil
	case "shallow", "":
		return PolicyShallow, nil
	default:
		return PolicyShallow, fmt.Errorf("unknown scan policy %q (want deep or shallow)", s)
	}
}

// StateKind enumerates the scan lifecycle.
type StateKind int

const (
	StateIdle StateKind = iota
	StateScanning
	StateCompleted
	StateCancelled
)

// ScanState is the observable state of a session. Count is only meaningful
// for StateCompleted.
type ScanState struct {
	Kind  StateKind
	Count int
}

func (s ScanState) String() string {
	switch s.Kind {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateCompleted:
		return fmt.Sprintf("completed(%d)", s.Count)
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Idle, Scanning, Completed and Cancelled build states.
func Idle() ScanState               { return ScanState{Kind: StateIdle} }
func Scanning() ScanState           { return ScanState{Kind: StateScanning} }
func Completed(count int) ScanState { return ScanState{Kind: StateCompleted, Count: count} }
func Cancelled() ScanState          { return ScanState{Kind: StateCancelled} }
