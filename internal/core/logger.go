package core

import (
	"log"
	"os"
)

// Logger defines the output interface used by FileWhisperer components.
type Logger interface {
	Debug(...interface{})
	Debugf(string, ...interface{})
	Info(...interface{})
	Infof(string, ...interface{})
	Warn(...interface{})
	Warnf(string, ...interface{})
	Error(...interface{})
	Errorf(string, ...interface{})
}

// DefaultLogger is the default logger used by the engine, and wraps the
// standard log library.
type DefaultLogger struct {
	D *log.Logger
	I *log.Logger
	W *log.Logger
	E *log.Logger
}

// NewLogger returns a configured default logger.
func NewLogger() *DefaultLogger {
	return &DefaultLogger{
		D: log.New(os.Stdout, "[DEBUG] ", log.LstdFlags),
		I: log.New(os.Stdout, "[INFO] ", log.LstdFlags),
		W: log.New(os.Stdout, "[WARN] ", log.LstdFlags),
		E: log.New(os.Stderr, "[ERROR] ", log.LstdFlags),
	}
}

// Debug writes to the debug logger
func (d *DefaultLogger) Debug(v ...interface{}) { d.D.Print(v...) }

// Debugf writes to the debug logger
func (d *DefaultLogger) Debugf(f string, v ...interface{}) { d.D.Printf(f, v...) }

// Info writes to the info logger
func (d *DefaultLogger) Info(v ...interface{}) { d.I.Print(v...) }

// Infof writes to the info logger
func (d *DefaultLogger) Infof(f string, v ...interface{}) { d.I.Printf(f, v...) }

// Warn writes to the warning logger
func (d *DefaultLogger) Warn(v ...interface{}) { d.W.Print(v...) }

// Warnf writes to the warning logger
func (d *DefaultLogger) Warnf(f string, v ...interface{}) { d.W.Printf(f, v...) }

// Error writes to the error logger
func (d *DefaultLogger) Error(v ...interface{}) { d.E.Print(v...) }

// Errorf writes to the error logger
func (d *DefaultLogger) Errorf(f string, v ...interface{}) { d.E.Printf(f, v...) }
