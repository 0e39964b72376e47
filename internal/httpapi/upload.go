package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"imgclassd/internal/pipeline"
)

// multipartMemory is the in-memory part of a parsed multipart form; larger
// parts spill to temporary files that the request cleans up.
const multipartMemory = 8 << 20

// readUpload parses the multipart body and returns the "file" field. A
// request without that field yields a nil upload and no error.
func readUpload(w http.ResponseWriter, r *http.Request) (*pipeline.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrNotMultipart):
			return nil, nil
		case errors.As(err, &mbe):
			return nil, err
		default:
			return nil, badRequest{msg: "invalid multipart body: " + err.Error()}
		}
	}
	f, hdr, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, badRequest{msg: "invalid file field: " + err.Error()}
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	uploadBytes.Observe(float64(len(data)))
	return &pipeline.Upload{Name: hdr.Filename, Data: data}, nil
}

// submitOptions reads top_k and report from the form or query string.
func submitOptions(r *http.Request) (pipeline.SubmitOptions, error) {
	var opts pipeline.SubmitOptions
	if v := r.FormValue("top_k"); v != "" {
		k, err := strconv.Atoi(v)
		if err != nil || k < 1 {
			return opts, badRequest{msg: "top_k must be a positive integer"}
		}
		opts.TopK = k
	}
	if v := r.FormValue("report"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, badRequest{msg: "report must be true or false"}
		}
		opts.Report = &b
	}
	return opts, nil
}
