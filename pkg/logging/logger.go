package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level orders log entries by severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (lv Level) String() string {
	switch lv {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// LevelForVerbosity maps a configured verbosity to the lowest level written.
// Unknown values behave like "normal".
func LevelForVerbosity(verbosity string) Level {
	switch strings.ToLower(verbosity) {
	case "quiet":
		return LevelWarn
	case "verbose", "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// sink is the destination shared by a logger and the component loggers
// derived from it.
type sink struct {
	mu     sync.Mutex
	out    *log.Logger
	min    Level
	file   *os.File
	path   string
	closed bool
}

// Logger writes one line per entry for a single component of a resolution run:
//
//	[2025-01-12 09:30:00.000] [navigation] [INFO] submitted search for SINI25432400
//
// Every component of a run writes to ~/.boxtrace/logs/<session-id>-boxtrace.log.
type Logger struct {
	sessionID string
	component string
	sink      *sink
}

var (
	// Global session ID for the current execution
	sessionID     string
	sessionIDOnce sync.Once

	// logDir is the directory where log files are stored
	logDir string

	initOnce sync.Once
	initErr  error
)

// getSessionID returns or creates the session ID for this execution
func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// initLogDirectory ensures the log directory exists
func initLogDirectory() error {
	initOnce.Do(func() {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			initErr = fmt.Errorf("failed to get home directory: %w", err)
			return
		}

		logDir = filepath.Join(homeDir, ".boxtrace", "logs")
		if err := os.MkdirAll(logDir, 0750); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
		}
	})
	return initErr
}

// NewLogger creates the run logger for component.
//
// If the log file cannot be opened, the returned logger writes to stderr and
// the error is returned alongside it so the caller can report fallback mode.
func NewLogger(component string) (*Logger, error) {
	if err := initLogDirectory(); err != nil {
		return newFallbackLogger(component), err
	}

	path := filepath.Join(logDir, fmt.Sprintf("%s-boxtrace.log", getSessionID()))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return newFallbackLogger(component), err
	}

	return &Logger{
		sessionID: getSessionID(),
		component: component,
		sink: &sink{
			out:  log.New(file, "", 0), // timestamps are formatted per entry
			min:  LevelDebug,
			file: file,
			path: path,
		},
	}, nil
}

// New creates a logger for component that writes every level to w.
func New(component string, w io.Writer) *Logger {
	return &Logger{
		sessionID: getSessionID(),
		component: component,
		sink:      &sink{out: log.New(w, "", 0), min: LevelDebug},
	}
}

// Discard returns a logger that drops everything.
func Discard(component string) *Logger {
	return New(component, io.Discard)
}

func newFallbackLogger(component string) *Logger {
	return New(component, os.Stderr)
}

// Component returns a logger for another component writing to the same
// destination at the same level. Only the logger the destination was opened
// for closes it.
func (l *Logger) Component(component string) *Logger {
	return &Logger{
		sessionID: l.sessionID,
		component: component,
		sink:      l.sink,
	}
}

// SetLevel drops later entries below min, for every component sharing the destination.
func (l *Logger) SetLevel(min Level) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.min = min
}

// Tee mirrors every later entry to w as well.
func (l *Logger) Tee(w io.Writer) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.out.SetOutput(io.MultiWriter(l.sink.out.Writer(), w))
}

func (l *Logger) write(level Level, format string, v ...interface{}) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if level < l.sink.min || l.sink.closed {
		return
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	l.sink.out.Printf("[%s] [%s] [%s] %s", timestamp, l.component, level, fmt.Sprintf(format, v...))
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.write(LevelDebug, format, v...)
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.write(LevelInfo, format, v...)
}

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.write(LevelWarn, format, v...)
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.write(LevelError, format, v...)
}

// SessionID returns the current session ID
func (l *Logger) SessionID() string {
	return l.sessionID
}

// LogPath returns the path to the log file, empty when not logging to a file.
func (l *Logger) LogPath() string {
	return l.sink.path
}

// Close closes the log file. Safe to call multiple times and from any
// component; later entries are dropped.
func (l *Logger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if l.sink.closed || l.sink.file == nil {
		return nil
	}
	l.sink.closed = true
	return l.sink.file.Close()
}
