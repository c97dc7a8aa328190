// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdiddy/cardpress/internal/cards"
	"github.com/pdiddy/cardpress/internal/docx"
	"github.com/pdiddy/cardpress/internal/intake"
	"github.com/pdiddy/cardpress/internal/items"
	"github.com/pdiddy/cardpress/internal/logging"
	"github.com/pdiddy/cardpress/internal/pipeline"
)

const (
	msgNotAllowed = "Only .docx and .pdf files allowed"
	msgNoItems    = "No items found"
)

type errorBody struct {
	Detail string `json:"detail"`
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Detail: detail})
}

// handleProcess accepts a multipart upload in field "file" and responds
// with the generated card document.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLogger("server")

	file, header, err := r.FormFile("file")
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Missing upload field \"file\"")
		return
	}
	defer file.Close()

	up, release, err := s.intake.Stage(header.Filename, file)
	if err != nil {
		status, detail := classify(err)
		writeError(w, status, detail)
		return
	}
	defer release()

	outDir, err := os.MkdirTemp(s.tempDir, "cardpress-out-")
	if err != nil {
		logger.Error().Err(err).Msg("creating output directory")
		writeError(w, http.StatusInternalServerError, "Could not create output directory")
		return
	}
	defer os.RemoveAll(outDir)

	name := intake.OutputName(up.Name)
	res, err := s.pipeline.Run(r.Context(), pipeline.Request{
		Input:  up.Path,
		Name:   up.Name,
		Output: filepath.Join(outDir, name),
	})
	if err != nil {
		status, detail := classify(err)
		writeError(w, status, detail)
		return
	}

	f, err := os.Open(res.Output)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", docx.MediaType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.Header().Set("X-Job-Id", res.Job.ID)
	w.Header().Set("X-Item-Count", strconv.Itoa(len(res.Items)))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		logger.Warn().Err(err).Str("job", res.Job.ID).Msg("streaming document interrupted")
	}
}

// classify maps a pipeline error to a status code and a client message.
func classify(err error) (int, string) {
	var (
		ee *items.ExtractionError
		re *cards.RenderError
	)
	switch {
	case errors.Is(err, intake.ErrNotAllowed), errors.Is(err, intake.ErrMismatch), errors.Is(err, items.ErrUnsupported):
		return http.StatusBadRequest, msgNotAllowed
	case errors.Is(err, intake.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "File too large"
	case errors.Is(err, items.ErrNoItems), errors.Is(err, items.ErrAllBlank):
		return http.StatusBadRequest, msgNoItems
	case errors.Is(err, items.ErrNoAPIKey):
		return http.StatusServiceUnavailable, "PDF extraction is not configured"
	case errors.As(err, &ee):
		switch ee.Reason {
		case items.ReasonTooLarge:
			return http.StatusRequestEntityTooLarge, err.Error()
		case items.ReasonUnreadable:
			return http.StatusUnprocessableEntity, err.Error()
		}
		return http.StatusBadGateway, err.Error()
	case errors.As(err, &re):
		return http.StatusUnprocessableEntity, err.Error()
	}
	return http.StatusInternalServerError, err.Error()
}
