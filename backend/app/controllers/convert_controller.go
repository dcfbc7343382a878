package controllers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"banglaixanh/backend/app/dto"
	"banglaixanh/backend/app/services"
	"banglaixanh/backend/global"
)

const (
	maxUploadBytes = 64 << 20
	maxTextLines   = 5000
	expiredMessage = "Link tải đã hết hạn, vui lòng chuyển đổi lại"
)

type ConvertController struct {
	Conv  *services.ConversionService
	Excel *services.ExcelService
	Zip   *services.ZipService
	Files *services.FileStore
	Links services.LinkStore
}

func NewConvertController(conv *services.ConversionService, excel *services.ExcelService, zip *services.ZipService, files *services.FileStore, links services.LinkStore) *ConvertController {
	return &ConvertController{Conv: conv, Excel: excel, Zip: zip, Files: files, Links: links}
}

func (c *ConvertController) Text(w http.ResponseWriter, r *http.Request) {
	var req dto.TextConvertRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.Addresses) == 0 {
		writeJSONError(w, http.StatusBadRequest, "addresses is empty")
		return
	}
	if len(req.Addresses) > maxTextLines {
		writeJSONError(w, http.StatusRequestEntityTooLarge, "too many addresses, max "+strconv.Itoa(maxTextLines))
		return
	}
	out, err := c.Conv.ConvertLines(r.Context(), req.Addresses)
	if err != nil {
		global.Logger.Error().Err(err).Int("lines", len(req.Addresses)).Msg("convert text")
		writeJSONError(w, http.StatusInternalServerError, "conversion failed")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ConvertExcel converts every uploaded "files" part. The answer is keyed by upload index.
func (c *ConvertController) ConvertExcel(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeJSONError(w, http.StatusBadRequest, "no files uploaded")
		return
	}
	out := make(map[string]dto.ExcelConvertResult, len(headers))
	for i, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "cannot read "+fh.Filename)
			return
		}
		res, err := c.Excel.Convert(r.Context(), fh.Filename, f)
		f.Close()
		if errors.Is(err, services.ErrBadSpreadsheet) {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err != nil {
			global.Logger.Error().Err(err).Str("file", fh.Filename).Msg("convert excel")
			writeJSONError(w, http.StatusInternalServerError, "conversion failed for "+fh.Filename)
			return
		}
		out[strconv.Itoa(i)] = res
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *ConvertController) Download(w http.ResponseWriter, r *http.Request) {
	link, err := c.Links.Get(r.Context(), r.PathValue("token"))
	if errors.Is(err, services.ErrLinkExpired) {
		writeJSONError(w, http.StatusGone, expiredMessage)
		return
	}
	if err != nil {
		global.Logger.Error().Err(err).Msg("resolve download link")
		writeJSONError(w, http.StatusInternalServerError, "cannot resolve link")
		return
	}
	f, err := c.Files.Open(link.File)
	if err != nil {
		writeJSONError(w, http.StatusGone, expiredMessage)
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", attachment(link.Name))
	w.Header().Set("Content-Length", strconv.FormatInt(link.Size, 10))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, f)
}

func (c *ConvertController) DownloadZip(w http.ResponseWriter, r *http.Request) {
	var req dto.ZipRequest
	if err := decodeJSON(r, &req); err != nil || len(req.URLs) == 0 {
		writeJSONError(w, http.StatusBadRequest, "urls is empty")
		return
	}
	links, err := c.Zip.Resolve(r.Context(), req.URLs)
	if errors.Is(err, services.ErrLinkExpired) {
		writeJSONError(w, http.StatusGone, expiredMessage)
		return
	}
	if err != nil {
		global.Logger.Error().Err(err).Msg("resolve zip links")
		writeJSONError(w, http.StatusInternalServerError, "cannot resolve links")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", attachment("converted.zip"))
	err = c.Zip.Write(r.Context(), links, w)
	switch {
	case errors.Is(err, services.ErrLinkExpired):
		// Files are read before the archive starts, so nothing was sent yet.
		w.Header().Del("Content-Disposition")
		writeJSONError(w, http.StatusGone, expiredMessage)
	case err != nil:
		global.Logger.Error().Err(err).Int("files", len(links)).Msg("write zip")
	}
}

func attachment(name string) string {
	name = strings.ReplaceAll(filepath.Base(name), `"`, "")
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}
