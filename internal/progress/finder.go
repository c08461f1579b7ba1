package progress

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/alexander-akhmetov/ttct/internal/dirs"
)

// Session logs are named <stamp>-<sanitized request id>.log. The header
// NewLogger writes repeats the raw request id and the session mode.
const logStampLayout = "20060102-150405"

var logNamePattern = regexp.MustCompile(`^(\d{8}-\d{6})-([A-Za-z0-9._-]+)\.log$`)

// LogFile describes one session log on disk.
type LogFile struct {
	Path      string
	RequestID string
	Mode      string // "tui" or "cli", empty when the header is missing
	Started   time.Time
	Open      bool // a running session still holds the file lock
}

func logFileName(started time.Time, requestID string) string {
	return started.Format(logStampLayout) + "-" + sanitizeFilename(requestID) + ".log"
}

// parseLogName splits a log file name into its start time and request id.
func parseLogName(name string) (time.Time, string, bool) {
	m := logNamePattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, "", false
	}
	started, err := time.ParseInLocation(logStampLayout, m[1], time.Local)
	if err != nil {
		return time.Time{}, "", false
	}
	return started, m[2], true
}

// readLogHeader returns the Request and Mode values of the log header. The
// header ends at the first dashed rule.
func readLogHeader(path string) (requestID, mode string) {
	f, err := os.Open(path)
	if err != nil {
		return "", ""
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for i := 0; i < 8 && sc.Scan(); i++ {
		line := sc.Text()
		if strings.HasPrefix(line, "---") {
			break
		}
		if v, ok := strings.CutPrefix(line, "Request: "); ok {
			requestID = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(line, "Mode: "); ok {
			mode = strings.TrimSpace(v)
		}
	}
	return requestID, mode
}

// FindLogs lists the session logs in logsDir, newest first. A non-empty ref
// keeps only logs whose request id starts with it, ignoring case.
func FindLogs(logsDir, ref string) ([]LogFile, error) {
	if logsDir == "" {
		logsDir = dirs.LogsDir()
	}
	entries, err := os.ReadDir(logsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	ref = strings.ToLower(ref)
	var logs []LogFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		started, nameID, ok := parseLogName(entry.Name())
		if !ok {
			continue
		}
		lf := LogFile{
			Path:      filepath.Join(logsDir, entry.Name()),
			RequestID: nameID,
			Started:   started,
		}
		if id, mode := readLogHeader(lf.Path); id != "" {
			lf.RequestID, lf.Mode = id, mode
		}
		if ref != "" && !strings.HasPrefix(strings.ToLower(lf.RequestID), ref) {
			continue
		}
		lf.Open = heldBySession(lf.Path)
		logs = append(logs, lf)
	}

	slices.SortFunc(logs, func(a, b LogFile) int {
		return b.Started.Compare(a.Started)
	})
	return logs, nil
}

// FindLatestLog returns the newest log matching ref, or nil.
func FindLatestLog(logsDir, ref string) (*LogFile, error) {
	logs, err := FindLogs(logsDir, ref)
	if err != nil || len(logs) == 0 {
		return nil, err
	}
	return &logs[0], nil
}

// FindOpenLog returns the log of a running session on exactly requestID, or
// nil when no session has it open.
func FindOpenLog(logsDir, requestID string) (*LogFile, error) {
	logs, err := FindLogs(logsDir, requestID)
	if err != nil {
		return nil, err
	}
	for i := range logs {
		if logs[i].Open && strings.EqualFold(logs[i].RequestID, requestID) {
			return &logs[i], nil
		}
	}
	return nil, nil
}

// heldBySession reports whether this process or another ttct session holds
// the lock NewLogger takes on path.
func heldBySession(path string) bool {
	if IsPathLockedByCurrentProcess(path) {
		return true
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	free, err := TryLockFile(f)
	return err == nil && !free
}
