// Package health provides health checking functionality for the symptom advisor.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/symptom-advisor/interfaces"
	"github.com/giygas/symptom-advisor/lexicon"
)

// Options describe what the checker reports besides the runtime status.
type Options struct {
	ProbeInterval time.Duration // 0 when the registry probe is disabled
	Translator    string
	VoiceEnabled  bool
}

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	status interfaces.StatusStore
	lex    *lexicon.Lexicon
	opts   Options
	now    func() time.Time
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(status interfaces.StatusStore, lex *lexicon.Lexicon, opts Options) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		status: status,
		lex:    lex,
		opts:   opts,
		now:    time.Now,
	}
}

// HealthCheck reports "healthy" unless the lexicon is empty (unhealthy) or
// the registry probe failed or went stale (degraded). Turns still complete
// while degraded, with "no info found" for every medicine.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	now := h.now()
	probeAt, reachable, lastError := h.status.LastProbe()
	probed := !probeAt.IsZero()
	probeAge := now.Sub(probeAt)

	switch {
	case len(h.lex.Symptoms()) == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case h.opts.ProbeInterval > 0 && probed && !reachable:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	case h.opts.ProbeInterval > 0 && probed && probeAge > 3*h.opts.ProbeInterval:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	registry := map[string]any{
		"probe_enabled": h.opts.ProbeInterval > 0,
		"probing":       h.status.IsProbing(),
	}
	if probed {
		registry["reachable"] = reachable
		registry["last_probe"] = probeAt.Format(time.RFC3339)
		registry["probe_age_minutes"] = math.Round(probeAge.Minutes()*10) / 10
		if lastError != "" {
			registry["last_error"] = lastError
		}
	}

	data = map[string]any{
		"uptime_seconds": h.uptime(now),
		"symptoms":       len(h.lex.Symptoms()),
		"synonyms":       len(h.lex.Synonyms()),
		"brands":         h.lex.BrandCount(),
		"languages":      len(h.lex.Languages()),
		"translator":     h.opts.Translator,
		"voice_enabled":  h.opts.VoiceEnabled,
		"registry":       registry,
	}

	return status, data, httpStatus
}

func (h *HealthCheckerImpl) uptime(now time.Time) float64 {
	start := h.status.GetServerStartTime()
	if start.IsZero() {
		return 0
	}
	return math.Round(now.Sub(start).Seconds())
}
