package logsvc

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/sigimobiliare/sig/core"
	"github.com/sigimobiliare/sig/core/user"
)

type level string

const (
	levelDebug level = "DEBUG"
	levelInfo  level = "INFO"
	levelWarn  level = "WARN"
	levelError level = "ERROR"
	levelFatal level = "FATAL"
)

// callers of Debug, Info... sit three frames above std.Output
const calldepth = 3

var exitFunc = os.Exit

// RollbarLogger prints every entry to a std logger and forwards it to rollbar when enabled.
// Debug entries are dropped outside of debug mode.
type RollbarLogger struct {
	std   *log.Logger
	debug bool
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std, debug: conf.Debug}
}

// Enable turns rollbar reporting on or off; the std logger always prints.
func (l *RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) { l.log(levelDebug, msg, args) }
func (l *RollbarLogger) Info(msg string, args ...interface{})  { l.log(levelInfo, msg, args) }
func (l *RollbarLogger) Warn(msg string, args ...interface{})  { l.log(levelWarn, msg, args) }
func (l *RollbarLogger) Error(msg string, args ...interface{}) { l.log(levelError, msg, args) }

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(levelFatal, msg, args)
	rollbar.Wait()
	exitFunc(1)
}

func (l *RollbarLogger) log(lvl level, msg string, args []interface{}) {
	if lvl == levelDebug && !l.debug {
		return
	}
	usr, extras := splitUser(args)
	_ = l.std.Output(calldepth, format(lvl, msg, usr, extras))
	report(lvl, msg, usr, extras)
}

// splitUser pulls the first user.User out of args; rollbar takes it as the person, not as an extra.
func splitUser(args []interface{}) (*user.User, []interface{}) {
	var usr *user.User
	extras := make([]interface{}, 0, len(args))
	for _, arg := range args {
		if u, ok := arg.(user.User); ok {
			if usr == nil {
				usr = &u
			}
			continue
		}
		extras = append(extras, arg)
	}
	return usr, extras
}

// format renders "LEVEL msg key=value ... user=a***@x.ro"; map keys are sorted.
func format(lvl level, msg string, usr *user.User, extras []interface{}) string {
	var b strings.Builder
	b.WriteString(string(lvl))
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, arg := range extras {
		switch v := arg.(type) {
		case map[string]interface{}:
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&b, " %s=%v", k, v[k])
			}
		case error:
			fmt.Fprintf(&b, " error=%q", v.Error())
		default:
			fmt.Fprintf(&b, " %v", v)
		}
	}
	if usr != nil {
		b.WriteString(" user=")
		b.WriteString(core.RedactEmail(usr.Email))
	}
	return b.String()
}

func report(lvl level, msg string, usr *user.User, extras []interface{}) {
	if usr != nil {
		rollbar.SetPerson(usr.Email, usr.Email, usr.Email)
	} else {
		rollbar.ClearPerson()
	}
	interfaces := append([]interface{}{msg}, extras...)
	switch lvl {
	case levelDebug:
		rollbar.Debug(interfaces...)
	case levelInfo:
		rollbar.Info(interfaces...)
	case levelWarn:
		rollbar.Warning(interfaces...)
	case levelError:
		rollbar.Error(interfaces...)
	case levelFatal:
		rollbar.Critical(interfaces...)
	}
}
