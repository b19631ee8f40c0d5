package services

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/a10interiors/a10-backend/internal/models"
	"github.com/a10interiors/a10-backend/internal/repository"
	"github.com/a10interiors/a10-backend/internal/uploads"
)

// fetchTimeout bounds each individual remote gallery-image download. There is
// no overall budget for the import request itself.
const fetchTimeout = 20 * time.Second

// Importer turns an uploaded spreadsheet (plus an optional image archive)
// into persisted project rows. Rows are processed strictly sequentially and
// independently: one bad row is recorded and skipped, never aborting the
// batch.
type Importer struct {
	projects repository.ProjectRepository
	store    uploads.Store
	fetcher  *http.Client
	logger   zerolog.Logger
}

func NewImporter(projects repository.ProjectRepository, store uploads.Store) *Importer {
	return &Importer{
		projects: projects,
		store:    store,
		fetcher:  &http.Client{Timeout: fetchTimeout},
		logger:   log.With().Str("component", "importer").Logger(),
	}
}

// SetHTTPClient overrides the gallery fetch client, used in tests.
func (imp *Importer) SetHTTPClient(hc *http.Client) {
	if hc != nil {
		imp.fetcher = hc
	}
}

type ImportedItem struct {
	ID    int64  `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// ImportRowError records one failed row. Row numbers are 1-based over the
// data rows, matching the order of the input sheet.
type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
	Title string `json:"title,omitempty"`
}

type ImportResult struct {
	Imported int              `json:"imported"`
	Items    []ImportedItem   `json:"items"`
	Errors   []ImportRowError `json:"errors"`
}

// Import reads the first sheet of the spreadsheet and inserts one project per
// row. archive may be nil; when present its image entries are extracted into
// the upload store and gallery cells can reference them by basename. Only a
// broken spreadsheet is a fatal error.
func (imp *Importer) Import(ctx context.Context, spreadsheet io.Reader, archive io.ReaderAt, archiveSize int64) (*ImportResult, error) {
	if err := imp.projects.EnsureImportColumns(ctx); err != nil {
		return nil, fmt.Errorf("ensure import columns: %w", err)
	}

	zipIndex := imp.buildZipIndex(ctx, archive, archiveSize)

	rows, err := readSheetRows(spreadsheet)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Items: []ImportedItem{}, Errors: []ImportRowError{}}
	for i, rec := range rows {
		rowNum := i + 1

		title := strings.TrimSpace(firstNonEmpty(rec["title"], rec["name"]))
		city := strings.TrimSpace(rec["city"])
		if title == "" || city == "" {
			imp.logger.Warn().Int("row", rowNum).Msg("skipping row missing title/city")
			result.Errors = append(result.Errors, ImportRowError{
				Row:   rowNum,
				Error: "Missing required title or city",
			})
			continue
		}

		gallery := imp.resolveGallery(ctx, rec["gallery"], zipIndex)

		thumbnail := optString(rec["thumbnail"])
		if thumbnail == nil && len(gallery) > 0 {
			thumbnail = &gallery[0]
		}

		slug := rec["slug"]
		if strings.TrimSpace(slug) == "" {
			slug = title
		}

		project := &models.Project{
			Slug:                 models.Slugify(slug),
			Title:                title,
			LocationArea:         rec["location_area"],
			City:                 city,
			Address:              rec["address"],
			Rera:                 optString(rec["rera"]),
			Status:               optString(rec["status"]),
			PropertyType:         optString(rec["property_type"]),
			Configurations:       parseConfigurations(rec["configurations"]),
			Blocks:               optString(rec["blocks"]),
			Units:                optString(rec["units"]),
			Floors:               optString(rec["floors"]),
			LandArea:             optString(rec["land_area"]),
			Description:          optString(rec["description"]),
			Videos:               splitList(rec["videos"]),
			DeveloperName:        optString(rec["developer_name"]),
			DeveloperLogo:        optString(rec["developer_logo"]),
			DeveloperDescription: optString(rec["developer_description"]),
			Highlights:           splitList(rec["highlights"]),
			Amenities:            splitList(rec["amenities"]),
			Gallery:              gallery,
			Thumbnail:            thumbnail,
			BrochureURL:          optString(rec["brochure_url"]),
			ContactPhone:         optString(rec["contact_phone"]),
			ContactEmail:         optString(rec["contact_email"]),
			PriceInfo:            parsePriceInfo(rec["price_info"]),
		}

		id, err := imp.projects.Create(ctx, project)
		if err != nil {
			imp.logger.Error().Err(err).Int("row", rowNum).Str("title", title).Msg("insert failed")
			result.Errors = append(result.Errors, ImportRowError{
				Row:   rowNum,
				Error: err.Error(),
				Title: title,
			})
			continue
		}

		result.Imported++
		result.Items = append(result.Items, ImportedItem{ID: id, Slug: project.Slug, Title: title})
	}

	return result, nil
}

// readSheetRows parses the first sheet unconditionally. The header row is
// lowercased and trimmed; each data row becomes a key->cell map. Unknown
// columns ride along and are ignored downstream.
func readSheetRows(r io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(raw) < 2 {
		return nil, nil
	}

	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]map[string]string, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		rec := make(map[string]string, len(headers))
		for i, key := range headers {
			if key == "" {
				continue
			}
			if i < len(cells) {
				rec[key] = cells[i]
			} else {
				rec[key] = ""
			}
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// buildZipIndex extracts image entries into the upload store and maps each
// original basename to its saved path. A malformed archive is non-fatal: the
// index stays empty and gallery resolution falls back to URL/path handling.
func (imp *Importer) buildZipIndex(ctx context.Context, ra io.ReaderAt, size int64) map[string]string {
	index := make(map[string]string)
	if ra == nil || size <= 0 {
		return index
	}

	zr, err := zip.NewReader(ra, size)
	if err != nil {
		imp.logger.Warn().Err(err).Msg("skipping malformed image archive")
		return index
	}

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
			imp.logger.Warn().Err(err).Str("entry", entry.Name).Msg("cannot open archive entry")
			continue
		}
		saved, err := imp.store.Save(ctx, base, rc)
		rc.Close()
		if err != nil {
			imp.logger.Warn().Err(err).Str("entry", entry.Name).Msg("cannot save archive entry")
			continue
		}
		index[base] = saved
	}
	return index
}

var extLike = regexp.MustCompile(`(?i)\.[a-z]{2,4}$`)

// resolveGallery turns one gallery cell into saved upload-store paths.
// Tokens are URLs (fetched), archive basenames (looked up), existing upload
// paths (normalized), or hostless URLs (opportunistically fetched); anything
// else is dropped. Fetch failures drop the token without failing the row.
func (imp *Importer) resolveGallery(ctx context.Context, raw string, zipIndex map[string]string) []string {
	out := []string{}
	for _, tok := range splitList(raw) {
		switch {
		case strings.HasPrefix(tok, "http://") || strings.HasPrefix(tok, "https://"):
			if saved, err := imp.fetchAndSave(ctx, tok); err != nil {
				imp.logger.Warn().Err(err).Str("url", tok).Msg("gallery fetch failed")
			} else {
				out = append(out, saved)
			}
		case zipIndex[tok] != "":
			out = append(out, zipIndex[tok])
		case strings.HasPrefix(tok, uploads.PathPrefix+"/"):
			out = append(out, tok)
		case strings.HasPrefix(tok, "uploads/"):
			out = append(out, "/"+tok)
		case extLike.MatchString(tok) && !strings.Contains(tok, " "):
			tryURL := "http://" + tok
			if strings.HasPrefix(tok, "//") {
				tryURL = "https:" + tok
			}
			if saved, err := imp.fetchAndSave(ctx, tryURL); err != nil {
				imp.logger.Warn().Err(err).Str("url", tryURL).Msg("gallery fetch failed")
			} else {
				out = append(out, saved)
			}
		}
	}
	return out
}

// fetchAndSave downloads a remote image and persists it, inferring the file
// extension from the response content type (default .jpg).
func (imp *Importer) fetchAndSave(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := imp.fetcher.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	ext := extensionFor(resp.Header.Get("Content-Type"), url)
	return imp.store.Save(ctx, "img"+ext, resp.Body)
}

func extensionFor(contentType, url string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "png"):
		return ".png"
	case strings.Contains(ct, "jpeg"):
		return ".jpg"
	case strings.Contains(ct, "gif"):
		return ".gif"
	}
	if ext := path.Ext(strings.SplitN(url, "?", 2)[0]); ext != "" {
		return ext
	}
	return ".jpg"
}

var listSplitter = regexp.MustCompile(`[,|\n]+`)

// splitList splits a comma/pipe/newline-delimited cell into trimmed,
// non-empty tokens.
func splitList(raw string) []string {
	out := []string{}
	for _, p := range listSplitter.Split(raw, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseConfigurations keeps structured JSON cells as-is; anything else falls
// back to a flat list split on the usual delimiters.
func parseConfigurations(raw string) json.RawMessage {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return json.RawMessage("[]")
	}
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	b, _ := json.Marshal(splitList(trimmed))
	return json.RawMessage(b)
}

func parsePriceInfo(raw string) json.RawMessage {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return json.RawMessage("null")
	}
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	b, _ := json.Marshal(trimmed)
	return json.RawMessage(b)
}

func optString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
