package handlers

import (
	"io"
	"net/http"

	"github.com/a10interiors/a10-backend/internal/services"
)

type ImportHandler struct {
	importer *services.Importer
}

func NewImportHandler(importer *services.Importer) *ImportHandler {
	return &ImportHandler{importer: importer}
}

// ImportProjects ingests an .xlsx spreadsheet of projects, optionally
// accompanied by a zip archive of images referenced by the sheet.
func (h *ImportHandler) ImportProjects(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}
	defer cleanupMultipart(r)

	sheet, _, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Excel file (.xlsx) is required (field name: file)")
		return
	}
	defer sheet.Close()

	var archive io.ReaderAt
	var archiveSize int64
	if zf, header, err := r.FormFile("images_zip"); err == nil {
		defer zf.Close()
		archive = zf
		archiveSize = header.Size
	}

	result, err := h.importer.Import(r.Context(), sheet, archive, archiveSize)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}
