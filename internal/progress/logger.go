package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alexander-akhmetov/ttct/internal/dirs"
)

// timestampFormat is the format for log timestamps.
const timestampFormat = "2006-01-02 15:04:05"

// Logger writes a timestamped request log to a file and an optional io.Writer.
// A nil *Logger discards everything, so callers don't need to guard.
type Logger struct {
	mu        sync.Mutex
	file      *os.File
	writer    io.Writer // optional additional writer
	startTime time.Time
	requestID string
	logPath   string
}

// Config holds logger configuration.
type Config struct {
	LogsDir   string    // Directory for log files (default: dirs.LogsDir())
	RequestID string    // Request identifier
	Mode      string    // "tui" or "cli"
	Writer    io.Writer // Optional additional writer for live output
}

// NewLogger creates a logger that writes to a timestamped log file.
// The file is named by logFileName and locked until Close.
func NewLogger(cfg Config) (*Logger, error) {
	logsDir := cfg.LogsDir
	if logsDir == "" {
		logsDir = dirs.LogsDir()
	}

	if err := dirs.Ensure(logsDir, 0o755); err != nil {
		return nil, err
	}

	started := time.Now()
	logPath := filepath.Join(logsDir, logFileName(started, cfg.RequestID))

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	// Lock the file to signal an active session
	if err := lockFile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("acquire file lock: %w", err)
	}
	registerActiveLock(logPath)

	l := &Logger{
		file:      f,
		writer:    cfg.Writer,
		startTime: started,
		requestID: cfg.RequestID,
		logPath:   logPath,
	}

	l.writef("# ttct Request Log\n")
	l.writef("Request: %s\n", cfg.RequestID)
	if cfg.Mode != "" {
		l.writef("Mode: %s\n", cfg.Mode)
	}
	l.writef("Started: %s\n", started.Format(timestampFormat))
	l.writef("%s\n\n", strings.Repeat("-", 60))

	return l, nil
}

// Path returns the log file path.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.logPath
}

// RequestID returns the request identifier.
func (l *Logger) RequestID() string {
	if l == nil {
		return ""
	}
	return l.requestID
}

// Printf writes a timestamped message to the log.
func (l *Logger) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.writef("[%s] %s\n", time.Now().Format(timestampFormat), msg)
}

// Errorf logs an error message.
func (l *Logger) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.writef("[%s] ERROR: %s\n", time.Now().Format(timestampFormat), msg)
}

// Section writes a section header to the log.
func (l *Logger) Section(title string) {
	l.writef("\n--- %s ---\n", title)
}

// SectionSaved logs a successful persistence call.
func (l *Logger) SectionSaved(id string, fields int, valid bool) {
	state := "draft"
	if valid {
		state = "valid"
	}
	l.Printf("Section %s saved (%d fields, %s)", id, fields, state)
}

// SectionCompleted logs a completion notification.
func (l *Logger) SectionCompleted(id, progressText string) {
	l.Printf("Section %s completed: %s", id, progressText)
}

// ValidationFailed logs a blocked forward navigation.
func (l *Logger) ValidationFailed(id string) {
	l.Printf("Section %s validation failed", id)
}

// Navigation logs a screen change.
func (l *Logger) Navigation(target, route string) {
	l.Printf("Navigate %s -> %s", target, route)
}

// SubmitBlocked logs a submission refused for missing sections.
func (l *Logger) SubmitBlocked(missing []string) {
	l.Printf("Submit blocked, missing sections: %s", strings.Join(missing, ", "))
}

// Submitted logs a successful submission to TC.
func (l *Logger) Submitted(progressText string) {
	l.Printf("Request submitted to TC (%s)", progressText)
}

// Exit logs the session summary.
func (l *Logger) Exit(progressText string, submitted bool) {
	if l == nil {
		return
	}
	l.writef("\n%s\n", strings.Repeat("-", 60))
	l.writef("Progress: %s\n", progressText)
	l.writef("Submitted: %v\n", submitted)
	l.writef("Duration: %s\n", l.elapsed())
	l.writef("Completed: %s\n", time.Now().Format(timestampFormat))
}

// Close releases the file lock and closes the log file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}

	_ = unlockFile(l.file)
	unregisterActiveLock(l.logPath)

	err := l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

func (l *Logger) writef(format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		fmt.Fprintf(l.file, format, args...)
	}
	if l.writer != nil {
		fmt.Fprintf(l.writer, format, args...)
	}
}

func (l *Logger) elapsed() string {
	d := time.Since(l.startTime).Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// sanitizeFilename converts a request ID to a safe filename component.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, " ", "-")

	var clean strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			clean.WriteRune(r)
		}
	}
	result := clean.String()

	for strings.Contains(result, "--") {
		result = strings.ReplaceAll(result, "--", "-")
	}
	result = strings.Trim(result, "-")

	if len(result) > 100 {
		result = result[:100]
		result = strings.TrimRight(result, "-")
	}

	if result == "" {
		return "unnamed"
	}
	return result
}
