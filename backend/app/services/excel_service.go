package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"banglaixanh/backend/app/dto"

	"github.com/xuri/excelize/v2"
)

const (
	headerNewAddress = "Địa chỉ mới"
	headerStatus     = "Trạng thái"
	statusOK         = "Thành công"
	statusUncertain  = "Không chắc chắn"
	statusFailed     = "Lỗi"
	DownloadPath     = "/address-conversion/download/"
)

var ErrBadSpreadsheet = errors.New("cannot read spreadsheet")

// ExcelService converts the address column of uploaded workbooks.
type ExcelService struct {
	conv      *ConversionService
	files     *FileStore
	links     LinkStore
	publicURL string
}

func NewExcelService(conv *ConversionService, files *FileStore, links LinkStore, publicURL string) *ExcelService {
	return &ExcelService{conv: conv, files: files, links: links, publicURL: strings.TrimRight(publicURL, "/")}
}

// Convert reads the first sheet of r, appends the converted address and a
// status next to each row, stores the result and returns its download link.
func (s *ExcelService) Convert(ctx context.Context, filename string, r io.Reader) (dto.ExcelConvertResult, error) {
	var out dto.ExcelConvertResult
	book, err := excelize.OpenReader(r)
	if err != nil {
		return out, fmt.Errorf("%w %q: %v", ErrBadSpreadsheet, filename, err)
	}
	defer book.Close()

	sheet := book.GetSheetName(0)
	rows, err := book.GetRows(sheet)
	if err != nil {
		return out, fmt.Errorf("%w %q: %v", ErrBadSpreadsheet, filename, err)
	}
	if len(rows) == 0 {
		return out, fmt.Errorf("%w %q: sheet is empty", ErrBadSpreadsheet, filename)
	}

	col := addressColumn(rows[0])
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	var lines []string
	var rowIdx []int
	for i := 1; i < len(rows); i++ {
		if col < len(rows[i]) && strings.TrimSpace(rows[i][col]) != "" {
			lines = append(lines, strings.TrimSpace(rows[i][col]))
			rowIdx = append(rowIdx, i)
		}
	}
	results, err := s.conv.ConvertLines(ctx, lines)
	if err != nil {
		return out, err
	}

	if err := setCell(book, sheet, width+1, 1, headerNewAddress); err != nil {
		return out, err
	}
	if err := setCell(book, sheet, width+2, 1, headerStatus); err != nil {
		return out, err
	}
	for k, res := range results {
		row := rowIdx[k] + 1
		if err := setCell(book, sheet, width+1, row, strings.Join(res.NewAddresses, "\n")); err != nil {
			return out, err
		}
		if err := setCell(book, sheet, width+2, row, statusText(res)); err != nil {
			return out, err
		}
	}
	return s.store(ctx, book, filename)
}

func (s *ExcelService) store(ctx context.Context, book *excelize.File, filename string) (dto.ExcelConvertResult, error) {
	var out dto.ExcelConvertResult
	f, stored, err := s.files.Create(".xlsx")
	if err != nil {
		return out, err
	}
	if err := book.Write(f); err != nil {
		f.Close()
		return out, fmt.Errorf("write workbook: %w", err)
	}
	info, err := f.Stat()
	f.Close()
	if err != nil {
		return out, err
	}
	out.ConvertedFileName = convertedName(filename)
	out.FileSize = info.Size()
	token, err := s.links.Put(ctx, Link{File: stored, Name: out.ConvertedFileName, Size: out.FileSize})
	if err != nil {
		return out, fmt.Errorf("register link: %w", err)
	}
	out.ConvertedFileURL = s.publicURL + DownloadPath + token
	return out, nil
}

// addressColumn finds the header that mentions "địa chỉ", defaulting to the first column.
func addressColumn(header []string) int {
	for i, h := range header {
		if strings.Contains(Fold(h), "dia chi") {
			return i
		}
	}
	return 0
}

func statusText(r dto.TextConvertResult) string {
	switch {
	case r.IsError:
		return statusFailed + ": " + r.Message
	case r.IsWarning:
		return statusUncertain + ": " + r.Message
	default:
		return statusOK
	}
}

func convertedName(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "file"
	}
	return base + "_converted.xlsx"
}

func setCell(book *excelize.File, sheet string, col, row int, v string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return book.SetCellValue(sheet, cell, v)
}
