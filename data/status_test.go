package data

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewStatusContainer(t *testing.T) {
	sc := NewStatusContainer()

	at, reachable, lastErr := sc.LastProbe()
	if !at.IsZero() || reachable || lastErr != "" {
		t.Errorf("Expected empty probe state, got %v %v %q", at, reachable, lastErr)
	}
	if !sc.GetServerStartTime().IsZero() {
		t.Error("Expected zero server start time")
	}
	if sc.IsProbing() {
		t.Error("Expected no probe in progress")
	}
}

func TestRecordProbe(t *testing.T) {
	sc := NewStatusContainer()
	now := time.Now()

	sc.RecordProbe(now, nil)
	at, reachable, lastErr := sc.LastProbe()
	if !at.Equal(now) || !reachable || lastErr != "" {
		t.Errorf("Expected reachable probe at %v, got %v %v %q", now, at, reachable, lastErr)
	}

	later := now.Add(time.Minute)
	sc.RecordProbe(later, errors.New("registry unavailable: status 503"))
	at, reachable, lastErr = sc.LastProbe()
	if !at.Equal(later) || reachable || lastErr != "registry unavailable: status 503" {
		t.Errorf("Expected failed probe, got %v %v %q", at, reachable, lastErr)
	}
}

func TestServerStartTime(t *testing.T) {
	sc := NewStatusContainer()
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	sc.SetServerStartTime(start)
	if got := sc.GetServerStartTime(); !got.Equal(start) {
		t.Errorf("Expected %v, got %v", start, got)
	}
}

func TestBeginProbeIsExclusive(t *testing.T) {
	sc := NewStatusContainer()

	var wg sync.WaitGroup
	var winners atomic.Int32
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sc.BeginProbe() {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	if winners.Load() != 1 {
		t.Errorf("Expected exactly one probe to start, got %d", winners.Load())
	}
	if !sc.IsProbing() {
		t.Error("Expected probe in progress")
	}

	sc.EndProbe()
	if sc.IsProbing() || !sc.BeginProbe() {
		t.Error("Expected a new probe to start after EndProbe")
	}
}

func TestConcurrentProbeRecording(t *testing.T) {
	sc := NewStatusContainer()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				err = errors.New("down")
			}
			sc.RecordProbe(time.Now(), err)
		}(i)
		go func() {
			defer wg.Done()
			_, reachable, lastErr := sc.LastProbe()
			if reachable && lastErr != "" {
				t.Error("Observed torn probe state")
			}
		}()
	}
	wg.Wait()
}
