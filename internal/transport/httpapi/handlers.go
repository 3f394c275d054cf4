package httpapi

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"convolens/internal/core/domain"
	"convolens/internal/transport/response"
)

const (
	msgMissingInput = "Please upload a file or provide a YouTube URL."
	multipartMemory = 32 << 20
)

// uploadExtensions are the file types accepted by the analyze form.
var uploadExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".m4a": true, ".mp4": true, ".mov": true, ".mkv": true,
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response.OK(w, "ok", map[string]any{
		"timestamp": time.Now().Unix(),
		"version":   s.version,
	})
}

// analyzeHandler accepts a multipart form with either a file or a url field.
// A file wins when both are present.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			response.Error(w, http.StatusRequestEntityTooLarge, "Upload exceeds the size limit.")
			return
		}
		response.BadRequest(w, "Invalid form: "+err.Error())
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	opts := domain.Options{
		Title:    r.FormValue("title"),
		Language: strings.TrimSpace(r.FormValue("language")),
	}

	var (
		result domain.PipelineResult
		err    error
	)

	file, header, ferr := r.FormFile("file")
	switch {
	case ferr == nil:
		defer file.Close()
		if !uploadExtensions[strings.ToLower(filepath.Ext(header.Filename))] {
			response.BadRequest(w, "Unsupported file type: "+header.Filename)
			return
		}
		result, err = s.pipeline.ProcessUpload(ctx, file, header.Filename, opts)

	case strings.TrimSpace(r.FormValue("url")) != "":
		result, err = s.pipeline.ProcessURL(ctx, strings.TrimSpace(r.FormValue("url")), opts)

	default:
		response.BadRequest(w, msgMissingInput)
		return
	}

	if err != nil {
		s.logger.Error(ctx, "analyze failed: %v", err)
		response.Failure(w, err)
		return
	}

	response.OK(w, "analysis complete", result)
}
