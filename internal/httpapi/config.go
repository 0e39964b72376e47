package httpapi

import "time"

// maxUploadBytes bounds multipart request bodies. Default 10 MiB.
var maxUploadBytes int64 = 10 << 20

// SetMaxUploadBytes configures the maximum request body size.
func SetMaxUploadBytes(n int64) {
	if n <= 0 {
		maxUploadBytes = 10 << 20
		return
	}
	maxUploadBytes = n
}

// requestTimeout bounds one classification request. Zero means no additional
// timeout beyond server/connection timeouts.
var requestTimeout time.Duration

// SetRequestTimeoutSeconds sets the request timeout in seconds (0 disables).
func SetRequestTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	requestTimeout = time.Duration(sec) * time.Second
}

// reportDir is where report artifacts are served from and deleted.
var reportDir = "."

// SetReportDir configures the directory behind /reports/{name}.
func SetReportDir(dir string) {
	if dir == "" {
		dir = "."
	}
	reportDir = dir
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
