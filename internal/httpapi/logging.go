package httpapi

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, nothing is logged.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// global default, read once
var defaultLogLevel = parseLevel(os.Getenv("IMGCLASSD_REQUEST_LOG"))

// SetDefaultRequestLogLevel overrides the level used when a request carries
// no override.
func SetDefaultRequestLogLevel(s string) { defaultLogLevel = parseLevel(s) }

// DefaultRequestLogLevel returns the level used when a request carries no
// override.
func DefaultRequestLogLevel() LogLevel { return defaultLogLevel }

func requestLogLevel(r *http.Request) LogLevel {
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// reqLog carries the per-request logging decision for one handler.
type reqLog struct {
	r     *http.Request
	lvl   LogLevel
	start time.Time
	op    string
}

func newReqLog(r *http.Request, op string) *reqLog {
	return &reqLog{r: r, lvl: requestLogLevel(r), start: time.Now(), op: op}
}

func (l *reqLog) event(ev *zerolog.Event) *zerolog.Event {
	ev = ev.Str("path", l.r.URL.Path)
	if rid := middleware.GetReqID(l.r.Context()); rid != "" {
		ev = ev.Str("request_id", rid)
	}
	return ev
}

func (l *reqLog) begin(fn func(*zerolog.Event) *zerolog.Event) {
	if zlog == nil || l.lvl < LevelInfo {
		return
	}
	ev := l.event(zlog.Info())
	if fn != nil {
		ev = fn(ev)
	}
	ev.Msg(l.op + " start")
}

func (l *reqLog) end(status int, err error) {
	if zlog == nil || l.lvl == LevelOff {
		return
	}
	if err == nil && l.lvl < LevelInfo {
		return
	}
	ev := zlog.Info()
	if err != nil && status >= 500 {
		ev = zlog.Error()
	}
	l.event(ev).Int("status", status).Dur("dur", time.Since(l.start)).Err(err).Msg(l.op + " end")
}

// debug logs a detail line when the request opted into debug logging.
func (l *reqLog) debug(fn func(*zerolog.Event) *zerolog.Event, msg string) {
	if zlog == nil || l.lvl < LevelDebug {
		return
	}
	fn(l.event(zlog.Debug())).Msg(msg)
}
