package handlers

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/a10interiors/a10-backend/internal/uploads"
)

const maxUploadMemory = 32 << 20 // 32MB buffered in memory, rest spills to disk

type UploadHandler struct {
	store uploads.Store
}

func NewUploadHandler(store uploads.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

// Upload accepts a single multipart file and returns its public URL.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}
	defer cleanupMultipart(r)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "No file")
		return
	}
	defer file.Close()

	saved, err := h.store.Save(r.Context(), header.Filename, file)
	if err != nil {
		log.Error().Err(err).Str("filename", header.Filename).Msg("save upload failed")
		writeJSONError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"url": publicURL(r, saved)})
}

// List returns the public paths of stored image assets.
func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list uploads failed")
		writeJSONError(w, http.StatusInternalServerError, "Failed to list uploads")
		return
	}
	if items == nil {
		items = []string{}
	}
	writeJSON(w, http.StatusOK, items)
}

// ImportImages accepts a single image ("file") and/or an archive of images
// ("images_zip") and saves every image-like entry.
func (h *UploadHandler) ImportImages(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}
	defer cleanupMultipart(r)

	saved := []string{}

	if file, header, err := r.FormFile("file"); err == nil {
		p, err := h.store.Save(r.Context(), header.Filename, file)
		file.Close()
		if err != nil {
			log.Error().Err(err).Str("filename", header.Filename).Msg("save upload failed")
			writeJSONError(w, http.StatusInternalServerError, "Upload failed")
			return
		}
		saved = append(saved, p)
	}

	if file, header, err := r.FormFile("images_zip"); err == nil {
		entries, err := h.extractArchive(r.Context(), file, header.Size)
		file.Close()
		if err != nil {
			log.Warn().Err(err).Msg("archive extraction failed")
		}
		saved = append(saved, entries...)
	}

	if len(saved) == 0 {
		writeJSONError(w, http.StatusBadRequest,
			"No images found in upload (supported: jpg, jpeg, png, webp, gif, bmp, svg)")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"uploaded": saved,
		"message":  fmt.Sprintf("Saved %d image(s)", len(saved)),
	})
}

func (h *UploadHandler) extractArchive(ctx context.Context, ra io.ReaderAt, size int64) ([]string, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, err
	}

	var saved []string
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		base := path.Base(entry.Name)
		if !uploads.IsImageName(base) {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			log.Warn().Err(err).Str("entry", entry.Name).Msg("cannot open archive entry")
			continue
		}
		p, err := h.store.Save(ctx, base, rc)
		rc.Close()
		if err != nil {
			log.Warn().Err(err).Str("entry", entry.Name).Msg("cannot save archive entry")
			continue
		}
		saved = append(saved, p)
	}
	return saved, nil
}

// publicURL turns a relative upload path into an absolute URL using the
// request host; object-storage backends already return absolute URLs.
func publicURL(r *http.Request, saved string) string {
	if !strings.HasPrefix(saved, "/") {
		return saved
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + saved
}

// cleanupMultipart removes the temporary files multipart parsing spilled to
// disk. Best effort; failures are swallowed.
func cleanupMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}
