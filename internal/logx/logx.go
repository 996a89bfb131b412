package logx

import (
	"fmt"
	"log"
	"sync/atomic"
)

type Logger struct {
	id string
}

func New(id string) *Logger {
	return &Logger{id: id}
}

// With returns a logger whose id is suffixed with sub.
func (l *Logger) With(sub string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{id: l.id + "/" + sub}
}

func (l *Logger) line(level string, msg string) string {
	return fmt.Sprintf("[%s] [%s] %s", l.id, level, msg)
}

// INFO is muted while a progress bar owns the terminal.
var infoMuted atomic.Bool

func Quiet()   { infoMuted.Store(true) }
func Verbose() { infoMuted.Store(false) }

func (l *Logger) Infof(f string, a ...any) {
	if l == nil || infoMuted.Load() {
		return
	}
	log.Println(l.line("INFO", fmt.Sprintf(f, a...)))
}

func (l *Logger) Warnf(f string, a ...any) {
	if l == nil {
		return
	}
	log.Println(l.line("WARN", fmt.Sprintf(f, a...)))
}

func (l *Logger) Errorf(f string, a ...any) {
	if l == nil {
		return
	}
	log.Println(l.line("ERROR", fmt.Sprintf(f, a...)))
}
