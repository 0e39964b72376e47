package httpapi

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"imgclassd/internal/common/fsutil"
)

// reportPath resolves a report name inside reportDir. Only names produced by
// the renderer are accepted.
func reportPath(name string) (string, bool) {
	if !fsutil.IsReportName(name, "pdf") || filepath.Base(name) != name {
		return "", false
	}
	return filepath.Join(reportDir, name), true
}

// downloadReport godoc
// @Summary      Download a report
// @Tags         reports
// @Produce      application/pdf
// @Param        name  path  string  true  "Report file name"
// @Success      200
// @Failure      404  {object}  types.ErrorResponse
// @Router       /reports/{name} [get]
func (h *handlers) downloadReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	path, ok := reportPath(name)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "report not found")
		return
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeJSONError(w, http.StatusNotFound, "report not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeContent(w, r, name, st.ModTime(), f)
}

// deleteReport godoc
// @Summary      Delete a report
// @Tags         reports
// @Param        name  path  string  true  "Report file name"
// @Success      204
// @Failure      404  {object}  types.ErrorResponse
// @Router       /reports/{name} [delete]
func (h *handlers) deleteReport(w http.ResponseWriter, r *http.Request) {
	path, ok := reportPath(chi.URLParam(r, "name"))
	if !ok {
		writeJSONError(w, http.StatusNotFound, "report not found")
		return
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeJSONError(w, http.StatusNotFound, "report not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if zlog != nil {
		zlog.Info().Str("report", path).Msg("report deleted")
	}
	w.WriteHeader(http.StatusNoContent)
}
