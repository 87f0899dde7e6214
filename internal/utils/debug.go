package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	tracePrefix = "trace-"
	traceSuffix = ".log"
)

// tracer owns the trace file of this process. The file is opened on the
// first traced line and reopened when the directory changes.
type tracer struct {
	mu   sync.Mutex
	dir  string
	file *os.File
}

var (
	trace   tracer
	verbose atomic.Bool
)

// ConfigureDebug sets the directory trace files are written to. An empty
// dir disables tracing.
func ConfigureDebug(dir string) {
	trace.mu.Lock()
	defer trace.mu.Unlock()
	if dir != trace.dir {
		trace.closeLocked()
		trace.dir = dir
	}
}

// CloseDebug closes the current trace file. Tracing resumes in a new file
// on the next Debug call.
func CloseDebug() {
	trace.mu.Lock()
	defer trace.mu.Unlock()
	trace.closeLocked()
}

func (t *tracer) closeLocked() {
	if t.file != nil {
		_ = t.file.Close()
		t.file = nil
	}
}

func SetVerbose(enabled bool) {
	verbose.Store(enabled)
}

func IsVerbose() bool {
	return verbose.Load()
}

func logsDir() string {
	trace.mu.Lock()
	defer trace.mu.Unlock()
	return trace.dir
}

// Debug writes one line to the trace file when verbose logging is on.
func Debug(format string, args ...any) {
	if !IsVerbose() {
		return
	}
	trace.mu.Lock()
	defer trace.mu.Unlock()
	if trace.dir == "" {
		return
	}
	if trace.file == nil {
		if err := os.MkdirAll(trace.dir, 0o755); err != nil {
			return
		}
		name := fmt.Sprintf("%s%s-%d%s", tracePrefix, time.Now().Format("20060102-150405"), os.Getpid(), traceSuffix)
		f, err := os.Create(filepath.Join(trace.dir, name))
		if err != nil {
			return
		}
		trace.file = f
	}
	fmt.Fprintf(trace.file, "%s %s\n", time.Now().Format(time.RFC3339), fmt.Sprintf(format, args...))
}

// CleanupLogs keeps the keep newest trace files in the logs directory and
// removes the rest. Other files are left alone; a negative keep disables
// cleanup.
func CleanupLogs(keep int) {
	dir := logsDir()
	if keep < 0 || dir == "" {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	var traces []string
	for _, e := range entries {
		if n := e.Name(); !e.IsDir() && strings.HasPrefix(n, tracePrefix) && strings.HasSuffix(n, traceSuffix) {
			traces = append(traces, n)
		}
	}
	// trace-YYYYMMDD-HHMMSS-pid.log
	sort.Sort(sort.Reverse(sort.StringSlice(traces)))
	for i := keep; i < len(traces); i++ {
		_ = os.Remove(filepath.Join(dir, traces[i]))
	}
}
