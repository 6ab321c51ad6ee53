// Package logging provides the leveled test logger used by the runner, the
// browser fixture and the page objects. Output goes to a colored console
// stream, a plain-text log file, or both, depending on configuration.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/kuitang/webcheck/internal/config"
)

// Level is a log severity level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a LOG_LEVEL string to a Level, defaulting to INFO.
func ParseLevel(s string) Level {
	switch s {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARNING":
		return LevelWarning
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

var levelColors = map[Level]*color.Color{
	LevelDebug:   color.New(color.FgCyan),
	LevelInfo:    color.New(color.FgGreen),
	LevelWarning: color.New(color.FgYellow),
	LevelError:   color.New(color.FgRed),
}

// sink is the shared output destination for all loggers in a process.
type sink struct {
	mu      sync.Mutex
	level   Level
	console io.Writer
	file    *os.File
}

var globalSink = &sink{
	level:   LevelInfo,
	console: os.Stdout,
}

// Setup configures the global sink from the framework configuration. It opens
// (and appends to) the log file when file logging is enabled, creating the
// parent directory if needed. Call once per process, before creating loggers.
func Setup(cfg *config.Config) error {
	globalSink.mu.Lock()
	defer globalSink.mu.Unlock()

	globalSink.level = ParseLevel(cfg.LogLevel)

	if cfg.LogToConsole {
		globalSink.console = os.Stdout
	} else {
		globalSink.console = nil
	}

	if globalSink.file != nil {
		_ = globalSink.file.Close()
		globalSink.file = nil
	}
	if cfg.LogToFile {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		globalSink.file = f
	}
	return nil
}

// ClearLogFile truncates the configured log file. Called at session start so
// each run begins with a fresh file.
func ClearLogFile(cfg *config.Config) error {
	if !cfg.LogToFile {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(cfg.LogFilePath, nil, 0o644)
}

// Close releases the log file, if any.
func Close() {
	globalSink.mu.Lock()
	defer globalSink.mu.Unlock()
	if globalSink.file != nil {
		_ = globalSink.file.Close()
		globalSink.file = nil
	}
}

func (s *sink) write(name string, level Level, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if level < s.level {
		return
	}

	now := time.Now()
	if s.console != nil {
		line := fmt.Sprintf("%s | %-8s | %s | %s", now.Format("15:04:05"), level, name, msg)
		if c, ok := levelColors[level]; ok {
			c.Fprintln(s.console, line)
		} else {
			fmt.Fprintln(s.console, line)
		}
	}
	if s.file != nil {
		fmt.Fprintf(s.file, "%s | %s | %-8s | %s\n",
			now.Format("2006-01-02 15:04:05"), name, level, msg)
	}
}

// Logger is a named leveled logger writing to the shared sink.
type Logger struct {
	name string
}

// New returns a logger with the given name (e.g. "runner", "pages.LoginPage").
func New(name string) *Logger {
	if name == "" {
		name = "webcheck"
	}
	return &Logger{name: name}
}

func (l *Logger) Debugf(format string, args ...any) {
	globalSink.write(l.name, LevelDebug, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...any) {
	globalSink.write(l.name, LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...any) {
	globalSink.write(l.name, LevelWarning, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	globalSink.write(l.name, LevelError, fmt.Sprintf(format, args...))
}

// Action records a page interaction at debug level.
func (l *Logger) Action(action, selector string) {
	if selector != "" {
		l.Debugf("action: %s on %q", action, selector)
	} else {
		l.Debugf("action: %s", action)
	}
}

// Step records a named test step at info level.
func (l *Logger) Step(description string) {
	l.Infof("step: %s", description)
}

// Screenshot records a saved screenshot path.
func (l *Logger) Screenshot(path string) {
	l.Infof("screenshot saved: %s", path)
}

// SessionBanner writes the session start banner with browser information.
func SessionBanner(cfg *config.Config) {
	l := New("session")
	l.Infof("================================================================================")
	l.Infof("Starting test session")
	l.Infof("browser=%s device=%s headless=%v env=%s", cfg.Browser, cfg.Device, cfg.Headless, cfg.TestEnv)
	l.Infof("================================================================================")
}

// TestStart records the start of a test case.
func TestStart(name string) {
	New("test." + name).Infof("starting")
}

// TestEnd records the end of a test case with its outcome and duration.
func TestEnd(name, status string, duration time.Duration) {
	l := New("test." + name)
	msg := fmt.Sprintf("%s (%.2fs)", status, duration.Seconds())
	switch status {
	case "PASSED", "SKIPPED":
		l.Infof("%s", msg)
	default:
		l.Errorf("%s", msg)
	}
}
