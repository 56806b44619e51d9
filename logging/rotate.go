package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const filePrefix = "advisor-"

// RotatingFile is an io.Writer that starts a new file every ISO week, and
// again whenever the current file would grow past maxSize. Files older than
// the retention period are removed by a background sweep.
type RotatingFile struct {
	dir       string
	retention time.Duration
	maxSize   int64
	now       func() time.Time

	mu     sync.Mutex
	file   *os.File
	week   string
	size   int64
	cancel context.CancelFunc
	done   chan struct{}
}

// OpenRotatingFile creates dir if needed, opens the file for the current week
// and starts the retention sweep. maxSize <= 0 disables size rotation.
func OpenRotatingFile(dir string, retentionWeeks int, maxSize int64) (*RotatingFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rf := newRotatingFile(dir, retentionWeeks, maxSize, time.Now)

	rf.mu.Lock()
	err := rf.openLocked(weekKey(rf.now()), false)
	rf.mu.Unlock()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	rf.cancel = cancel
	go rf.sweepLoop(ctx, 24*time.Hour)

	return rf, nil
}

func newRotatingFile(dir string, retentionWeeks int, maxSize int64, now func() time.Time) *RotatingFile {
	return &RotatingFile{
		dir:       dir,
		retention: time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxSize:   maxSize,
		now:       now,
		done:      make(chan struct{}),
	}
}

// weekKey formats t as YYYY-Www using the ISO week
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Write appends p to the current file, rotating first when the week changed
// or the write would overflow the size cap.
func (rf *RotatingFile) Write(p []byte) (int, error) {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	week := weekKey(rf.now())
	switch {
	case rf.file == nil || week != rf.week:
		if err := rf.openLocked(week, false); err != nil {
			return 0, err
		}
	case rf.maxSize > 0 && rf.size > 0 && rf.size+int64(len(p)) > rf.maxSize:
		if err := rf.openLocked(week, true); err != nil {
			return 0, err
		}
	}

	n, err := rf.file.Write(p)
	rf.size += int64(n)
	return n, err
}

// openLocked switches to the file for week. When overflow is set the next
// numbered part is used, otherwise the newest part of the week is reopened.
func (rf *RotatingFile) openLocked(week string, overflow bool) error {
	if rf.file != nil {
		_ = rf.file.Close()
		rf.file = nil
	}

	part := rf.latestPart(week)
	if overflow {
		part++
	} else if rf.maxSize > 0 {
		if info, err := os.Stat(rf.partPath(week, part)); err == nil && info.Size() >= rf.maxSize {
			part++
		}
	}

	path := rf.partPath(week, part)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	rf.file = f
	rf.week = week
	rf.size = size
	return nil
}

// partPath names part 0 advisor-<week>.log and later parts advisor-<week>.<n>.log
func (rf *RotatingFile) partPath(week string, part int) string {
	if part == 0 {
		return filepath.Join(rf.dir, filePrefix+week+".log")
	}
	return filepath.Join(rf.dir, fmt.Sprintf("%s%s.%d.log", filePrefix, week, part))
}

func (rf *RotatingFile) latestPart(week string) int {
	matches, _ := filepath.Glob(filepath.Join(rf.dir, filePrefix+week+".*.log"))
	latest := 0
	for _, m := range matches {
		base := strings.TrimSuffix(filepath.Base(m), ".log")
		idx := strings.LastIndexByte(base, '.')
		if idx < 0 {
			continue
		}
		if n, err := strconv.Atoi(base[idx+1:]); err == nil && n > latest {
			latest = n
		}
	}
	return latest
}

// Files lists the log files in the directory, oldest name first.
func (rf *RotatingFile) Files() ([]string, error) {
	entries, err := os.ReadDir(rf.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && isLogFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func isLogFile(name string) bool {
	return strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, ".log")
}

// sweep removes log files last modified before the retention cutoff and
// returns how many were deleted. The file being written is never removed.
func (rf *RotatingFile) sweep() (int, error) {
	entries, err := os.ReadDir(rf.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read log directory: %w", err)
	}

	rf.mu.Lock()
	current := ""
	if rf.file != nil {
		current = filepath.Base(rf.file.Name())
	}
	rf.mu.Unlock()

	cutoff := rf.now().Add(-rf.retention)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !isLogFile(e.Name()) || e.Name() == current {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if os.Remove(filepath.Join(rf.dir, e.Name())) == nil {
			removed++
		}
	}
	return removed, nil
}

func (rf *RotatingFile) sweepLoop(ctx context.Context, every time.Duration) {
	defer close(rf.done)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// console only, the file handler would recurse into Write
			if n, err := rf.sweep(); err != nil {
				fmt.Fprintf(os.Stderr, "log retention sweep failed: %v\n", err)
			} else if n > 0 {
				fmt.Fprintf(os.Stderr, "removed %d expired log files\n", n)
			}
		}
	}
}

// Close stops the sweep and closes the current file.
func (rf *RotatingFile) Close() error {
	if rf.cancel != nil {
		rf.cancel()
		select {
		case <-rf.done:
		case <-time.After(time.Second):
		}
	}

	rf.mu.Lock()
	defer rf.mu.Unlock()
	if rf.file == nil {
		return nil
	}
	err := rf.file.Close()
	rf.file = nil
	return err
}
