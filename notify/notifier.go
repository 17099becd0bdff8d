// Package notify is the toast surface of the app: short user-visible
// status lines with a severity, decoupled from any rendering target.
package notify

import (
	"fmt"

	"github.com/gookit/color"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Notifier interface {
	Notify(level Level, message string)
}

// Console renders toasts as colorized terminal lines.
type Console struct {
	// Colours off keeps output grep-friendly in scripts and CI.
	Colours bool
}

func (c Console) Notify(level Level, message string) {
	if !c.Colours {
		fmt.Printf("[%s] %s\n", level, message)
		return
	}
	switch level {
	case LevelSuccess:
		color.Success.Println(message)
	case LevelError:
		color.Error.Println(message)
	default:
		color.Info.Println(message)
	}
}

// Success, Error and Info mirror the three toast styles of the web client.
func Success(n Notifier, format string, args ...any) {
	n.Notify(LevelSuccess, fmt.Sprintf(format, args...))
}

func Error(n Notifier, format string, args ...any) {
	n.Notify(LevelError, fmt.Sprintf(format, args...))
}

func Info(n Notifier, format string, args ...any) {
	n.Notify(LevelInfo, fmt.Sprintf(format, args...))
}
