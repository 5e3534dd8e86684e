// Package logging provides the categorized, colorized console logger used by
// every fractulus command.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/fractulus/fractulus/pkg/internal/branding"
)

const successField = "success"

// Logger is the logging surface handed to the scaffolding pipeline.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Successf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Options configures a console logger.
type Options struct {
	Out     io.Writer
	Verbose bool
	NoColor bool
}

// ConsoleLogger writes "<icon> <PREFIX>::<namespace>:: <message>" lines.
type ConsoleLogger struct {
	log *logrus.Logger
}

// New creates a ConsoleLogger. Colors are only used when Out is a terminal.
func New(opts Options) *ConsoleLogger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&Formatter{
		Namespace: branding.DisplayName(),
		NoColor:   opts.NoColor || !isTerminal(out),
	})
	l.SetLevel(logrus.InfoLevel)
	if opts.Verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return &ConsoleLogger{log: l}
}

// Discard returns a logger that drops everything.
func Discard() *ConsoleLogger {
	return New(Options{Out: io.Discard, NoColor: true})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *ConsoleLogger) Debugf(format string, args ...interface{}) {
	c.log.Debugf(format, args...)
}

func (c *ConsoleLogger) Infof(format string, args ...interface{}) {
	c.log.Infof(format, args...)
}

func (c *ConsoleLogger) Warnf(format string, args ...interface{}) {
	c.log.Warnf(format, args...)
}

func (c *ConsoleLogger) Successf(format string, args ...interface{}) {
	c.log.WithField(successField, true).Infof(format, args...)
}

// Errorf logs at error level. It never terminates the process.
func (c *ConsoleLogger) Errorf(format string, args ...interface{}) {
	c.log.Errorf(format, args...)
}

type style struct {
	icon   string
	prefix string
	attr   color.Attribute
}

var styles = map[logrus.Level]style{
	logrus.PanicLevel: {"✖", "ERROR", color.FgRed},
	logrus.FatalLevel: {"✖", "ERROR", color.FgRed},
	logrus.ErrorLevel: {"✖", "ERROR", color.FgRed},
	logrus.WarnLevel:  {"⚠", "WARNING", color.FgYellow},
	logrus.InfoLevel:  {"ℹ", "INFO", color.FgHiBlue},
	logrus.DebugLevel: {"", "DEBUG", color.FgWhite},
	logrus.TraceLevel: {"", "DEBUG", color.FgWhite},
}

var successStyle = style{"✔", "SUCCESS", color.FgGreen}

// Formatter renders logrus entries in the fractulus console format.
type Formatter struct {
	Namespace string
	NoColor   bool
}

func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	s := styles[entry.Level]
	if ok, _ := entry.Data[successField].(bool); ok {
		s = successStyle
	}

	prefix := fmt.Sprintf("%s::%s::", s.prefix, f.Namespace)
	if s.icon != "" {
		prefix = s.icon + " " + prefix
	}

	head := color.New(s.attr, color.Bold)
	body := color.New(s.attr)
	if f.NoColor {
		head.DisableColor()
		body.DisableColor()
	} else {
		head.EnableColor()
		body.EnableColor()
	}

	var b bytes.Buffer
	b.WriteString(head.Sprint(prefix))
	b.WriteByte(' ')
	b.WriteString(body.Sprint(entry.Message))
	b.WriteByte('\n')
	return b.Bytes(), nil
}
