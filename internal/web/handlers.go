package web

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mercatto/reconcile/internal/core"
	"github.com/mercatto/reconcile/internal/logging"
)

// handleReconcile runs one reconciliation pipeline over the uploaded export
// files and streams the consolidated workbook back as an attachment.
//
// Multipart form fields:
//   - catalog          (required) product catalog export, ;-separated text
//   - linkage          (required) store-listing linkage export
//   - template         (required) pre-styled output workbook
//   - secondaryListing (optional) retained for forward compatibility
//   - store            free-text store context selecting the hierarchy rule
//
// The uploaded files are staged in a per-request temp directory owned by the
// run; the core releases it when the run finishes, in every outcome.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, 4*maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		s.respondError(w, r, fmt.Errorf("file too large or invalid form: %w", err), http.StatusBadRequest)
		return
	}

	workDir, err := os.MkdirTemp(s.cfg.Upload.TempDir, "reconcile-"+uuid.NewString())
	if err != nil {
		s.respondError(w, r, fmt.Errorf("staging uploads: %w", err), http.StatusInternalServerError)
		return
	}

	in := core.Inputs{
		StoreContext: r.FormValue("store"),
		WorkDir:      workDir,
	}

	uploads := []struct {
		field    string
		dst      *string
		optional bool
	}{
		{"catalog", &in.CatalogFile, false},
		{"linkage", &in.LinkageFile, false},
		{"template", &in.TemplateFile, false},
		{"secondaryListing", &in.SecondaryFile, true},
	}
	for _, u := range uploads {
		path, err := s.stageUpload(r, u.field, workDir, maxSize)
		if err == http.ErrMissingFile {
			if u.optional {
				continue
			}
			err = fmt.Errorf("missing required input: %s", u.field)
		}
		if err != nil {
			// The run never starts, so the handler owns cleanup here.
			os.RemoveAll(workDir)
			s.respondError(w, r, err, http.StatusBadRequest)
			return
		}
		*u.dst = path
	}

	logging.FromContext(r.Context()).Info("reconciliation requested",
		"store", in.StoreContext,
	)

	result, err := s.service.Run(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err, statusForRunError(err))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("X-Row-Count", fmt.Sprintf("%d", result.Rows))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Data)
}

// stageUpload copies one multipart file into the run's work directory and
// returns the staged path. ErrMissingFile passes through so the caller can
// distinguish absent optional fields.
func (s *Server) stageUpload(r *http.Request, field, workDir string, maxSize int64) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return "", err
		}
		return "", fmt.Errorf("reading upload %s: %w", field, err)
	}
	defer file.Close()

	if header.Size > maxSize {
		return "", fmt.Errorf("file too large: %s (%d bytes)", field, header.Size)
	}

	path := filepath.Join(workDir, field+filepath.Ext(header.Filename))
	if err := copyUpload(file, path); err != nil {
		return "", fmt.Errorf("staging %s: %w", field, err)
	}
	return path, nil
}

func copyUpload(src multipart.File, dst string) error {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}

// handleStatus reports the limiter state, for monitoring.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"active_runs": s.service.LimiterStatus(),
	})
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// statusForRunError maps pipeline failures onto HTTP status codes: input
// problems are the client's to fix, everything else is a server fault.
func statusForRunError(err error) int {
	switch core.MapError(err).Code {
	case "ING001", "ING002", "TPL001", "FILE001":
		return http.StatusBadRequest
	case "RUN001":
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
