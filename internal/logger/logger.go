package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
)

// Log levels
const (
	LevelError = iota
	LevelWarning
	LevelInfo
	LevelDebug
)

var (
	info    *log.Logger
	debug   *log.Logger
	warning *log.Logger
	errlog  *log.Logger

	// LogLevel controls which messages are emitted.
	LogLevel = LevelWarning

	useColors = true
)

// Initialize sets up the loggers with the specified outputs. Nil handles
// default to stdout for info/debug/warning and stderr for errors.
func Initialize(infoHandle, debugHandle, warningHandle, errorHandle io.Writer) {
	if infoHandle == nil {
		infoHandle = os.Stdout
	}
	if debugHandle == nil {
		debugHandle = os.Stdout
	}
	if warningHandle == nil {
		warningHandle = os.Stdout
	}
	if errorHandle == nil {
		errorHandle = os.Stderr
	}

	if useColors {
		info = log.New(infoHandle, colorBlue+"INFO: "+colorReset, log.Ldate|log.Ltime)
		debug = log.New(debugHandle, colorPurple+"DEBUG: "+colorReset, log.Ldate|log.Ltime|log.Lshortfile)
		warning = log.New(warningHandle, colorYellow+"WARNING: "+colorReset, log.Ldate|log.Ltime)
		errlog = log.New(errorHandle, colorRed+"ERROR: "+colorReset, log.Ldate|log.Ltime)
	} else {
		info = log.New(infoHandle, "INFO: ", log.Ldate|log.Ltime)
		debug = log.New(debugHandle, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
		warning = log.New(warningHandle, "WARNING: ", log.Ldate|log.Ltime)
		errlog = log.New(errorHandle, "ERROR: ", log.Ldate|log.Ltime)
	}
}

// DisableColors disables colored log prefixes.
func DisableColors() {
	useColors = false
	Initialize(nil, nil, nil, nil)
}

// SetLevel sets the logging level.
func SetLevel(level int) {
	if level >= LevelError && level <= LevelDebug {
		LogLevel = level
	}
}

func Infof(format string, v ...interface{}) {
	if LogLevel >= LevelInfo {
		info.Output(2, fmt.Sprintf(format, v...))
	}
}

func Debugf(format string, v ...interface{}) {
	if LogLevel >= LevelDebug {
		debug.Output(2, fmt.Sprintf(format, v...))
	}
}

func Warningf(format string, v ...interface{}) {
	if LogLevel >= LevelWarning {
		warning.Output(2, fmt.Sprintf(format, v...))
	}
}

func Errorf(format string, v ...interface{}) {
	if LogLevel >= LevelError {
		errlog.Output(2, fmt.Sprintf(format, v...))
	}
}

func init() {
	Initialize(nil, nil, nil, nil)
}
