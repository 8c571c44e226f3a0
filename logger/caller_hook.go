package logger

import (
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// callerHook rewrites entry.Caller to the first frame outside logrus and
// this package, so the caller field names the component that logged.
type callerHook struct {
	skip []string
}

func newCallerHook() *callerHook {
	return &callerHook{skip: []string{"github.com/sirupsen/logrus.", packagePath() + "."}}
}

// packagePath is this package's import path as reported by the runtime.
func packagePath() string {
	pc, _, _, _ := runtime.Caller(0)
	name := runtime.FuncForPC(pc).Name()
	return name[:strings.LastIndex(name, ".")]
}

func (h *callerHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *callerHook) Fire(entry *logrus.Entry) error {
	var pcs [24]uintptr
	n := runtime.Callers(4, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !h.internal(frame.Function) {
			entry.Caller = &frame
			return nil
		}
		if !more {
			return nil
		}
	}
}

func (h *callerHook) internal(fn string) bool {
	for _, prefix := range h.skip {
		if strings.HasPrefix(fn, prefix) {
			return true
		}
	}
	return false
}
