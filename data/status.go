// Package data holds the process-wide runtime status read by the health
// endpoint. Values are swapped atomically so readers never block writers.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/symptom-advisor/interfaces"
	"github.com/giygas/symptom-advisor/metrics"
)

// Compile-time check to ensure StatusContainer implements StatusStore
var _ interfaces.StatusStore = (*StatusContainer)(nil)

// probeResult is stored whole so a reader sees time, outcome and error together.
type probeResult struct {
	at        time.Time
	reachable bool
	lastError string
}

// StatusContainer tracks the registry probe and the server start time.
type StatusContainer struct {
	probe           atomic.Pointer[probeResult]
	probing         atomic.Bool
	serverStartTime atomic.Pointer[time.Time]
}

// NewStatusContainer creates a container with no probe recorded yet.
func NewStatusContainer() *StatusContainer {
	return &StatusContainer{}
}

// RecordProbe stores the outcome of a registry probe taken at at.
func (sc *StatusContainer) RecordProbe(at time.Time, err error) {
	result := &probeResult{at: at, reachable: err == nil}
	if err != nil {
		result.lastError = err.Error()
		metrics.RegistryReachable.Set(0)
	} else {
		metrics.RegistryReachable.Set(1)
	}
	sc.probe.Store(result)
}

// LastProbe returns the latest probe. A zero time means no probe has run.
func (sc *StatusContainer) LastProbe() (time.Time, bool, string) {
	p := sc.probe.Load()
	if p == nil {
		return time.Time{}, false, ""
	}
	return p.at, p.reachable, p.lastError
}

// BeginProbe marks the start of a probe.
// Returns true if the probe can proceed, false if another one is in progress
func (sc *StatusContainer) BeginProbe() bool {
	return sc.probing.CompareAndSwap(false, true)
}

// EndProbe marks the end of a probe
func (sc *StatusContainer) EndProbe() {
	sc.probing.Store(false)
}

// IsProbing returns true while a probe is running
func (sc *StatusContainer) IsProbing() bool {
	return sc.probing.Load()
}

// SetServerStartTime sets the server start time
func (sc *StatusContainer) SetServerStartTime(startTime time.Time) {
	sc.serverStartTime.Store(&startTime)
}

// GetServerStartTime returns the server start time, zero if never set
func (sc *StatusContainer) GetServerStartTime() time.Time {
	if t := sc.serverStartTime.Load(); t != nil {
		return *t
	}
	return time.Time{}
}
