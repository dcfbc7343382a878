// Package fileitem models the files a conversion round-trip works on: uploads that still
// have a local handle and converted outputs that only carry a download link.
package fileitem

import (
	"fmt"
	"math"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	SpreadsheetMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	LegacyExcelMIME = "application/vnd.ms-excel"
)

// Kind is the closed set of preview categories.
type Kind int

const (
	KindOther Kind = iota
	KindImage
	KindSpreadsheet
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindSpreadsheet:
		return "spreadsheet"
	default:
		return "other"
	}
}

// Classify maps a MIME type onto a Kind.
func Classify(mimeType string) Kind {
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(mimeType))
	}
	switch {
	case strings.HasPrefix(mt, "image/"):
		return KindImage
	case mt == SpreadsheetMIME, mt == LegacyExcelMIME, mt == "text/csv",
		mt == "application/vnd.oasis.opendocument.spreadsheet":
		return KindSpreadsheet
	default:
		return KindOther
	}
}

// Item is one uploaded or produced file.
type Item struct {
	ID          string
	Name        string
	Size        int64
	Type        string
	Path        string
	DownloadURL string
}

func (i Item) Kind() Kind { return Classify(i.Type) }

// Local reports whether the item still has a local file to upload.
func (i Item) Local() bool { return i.Path != "" }

func (i Item) Downloadable() bool { return i.DownloadURL != "" }

// NewID builds the per-batch id: creation time plus position in the batch.
func NewID(at time.Time, index int) string {
	return fmt.Sprintf("%d-%d", at.UnixMilli(), index)
}

// TypeByName resolves the MIME type from the file extension.
func TypeByName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".xlsx":
		return SpreadsheetMIME
	case ".xls":
		return LegacyExcelMIME
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// FromPaths stats each path and returns upload items for the batch.
func FromPaths(paths []string, at time.Time) ([]Item, error) {
	items := make([]Item, 0, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", p)
		}
		items = append(items, Item{
			ID:   NewID(at, i),
			Name: info.Name(),
			Size: info.Size(),
			Type: TypeByName(info.Name()),
			Path: abs,
		})
	}
	return items, nil
}

// Paths returns the local handles of the items that still have one.
func Paths(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it.Local() {
			out = append(out, it.Path)
		}
	}
	return out
}

// DownloadURLs returns every non-empty download link, in order.
func DownloadURLs(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it.Downloadable() {
			out = append(out, it.DownloadURL)
		}
	}
	return out
}

// Find returns the item with id.
func Find(items []Item, id string) (Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

var units = []string{"B", "KB", "MB", "GB", "TB"}

// HumanSize renders n with base-1024 units.
func HumanSize(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	f := float64(n)
	i := int(math.Floor(math.Log(f) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}
	size := f / math.Pow(1024, float64(i))
	prec := 1
	if i == 0 {
		prec = 0
	}
	return strconv.FormatFloat(size, 'f', prec, 64) + " " + units[i]
}
