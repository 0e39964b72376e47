package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRequestLogLevel(t *testing.T) {
	cases := []struct {
		query, header string
		want          LogLevel
	}{
		{"log=1", "", LevelDebug},
		{"log=error", "", LevelError},
		{"log=off", "debug", LevelOff},
		{"", "info", LevelInfo},
		{"", "nonsense", LevelInfo},
		{"", "", defaultLogLevel},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/x?"+tc.query, nil)
		if tc.header != "" {
			req.Header.Set("X-Log-Level", tc.header)
		}
		if got := requestLogLevel(req); got != tc.want {
			t.Errorf("query=%q header=%q: got %d want %d", tc.query, tc.header, got, tc.want)
		}
	}
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	t.Cleanup(func() { zlog = nil })
	return &buf
}

func TestClassify_LogsStartEndWithRequestID(t *testing.T) {
	buf := captureLogs(t)
	r := NewMux(&mockService{result: sampleResult()})
	req := multipartRequest(t, "/classify?log=debug", "dog.png", []byte("img"), nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	out := buf.String()
	for _, want := range []string{`"message":"classify start"`, `"message":"classify result"`, `"message":"classify end"`, `"request_id":`, `"status":200`} {
		if !strings.Contains(out, want) {
			t.Fatalf("logs missing %s:\n%s", want, out)
		}
	}
}

func TestClassify_ErrorLevelLogsOnlyFailures(t *testing.T) {
	buf := captureLogs(t)
	r := NewMux(&mockService{result: sampleResult()})
	r.ServeHTTP(httptest.NewRecorder(), multipartRequest(t, "/classify?log=error", "dog.png", []byte("img"), nil))
	if buf.Len() != 0 {
		t.Fatalf("expected no logs for success at error level, got %s", buf.String())
	}
	r.ServeHTTP(httptest.NewRecorder(), multipartRequest(t, "/classify?log=error", "", nil, nil))
	if !strings.Contains(buf.String(), `"status":400`) {
		t.Fatalf("expected failure line, got %s", buf.String())
	}
}
