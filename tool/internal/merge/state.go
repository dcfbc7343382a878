// Package merge holds the state of the address merge tool and its transitions.
// Every transition returns a new State; the screen only decides which one to call.
package merge

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"banglaixanh/tool/internal/addressapi"
	"banglaixanh/tool/internal/fileitem"
)

type Mode int

const (
	ModeExcel Mode = iota
	ModeManual
)

func (m Mode) String() string {
	if m == ModeManual {
		return "manual"
	}
	return "excel"
}

const DefaultMaxUploadFiles = 5

var ErrTooManyFiles = errors.New("too many files")

type State struct {
	Mode             Mode
	UploadedFiles    []fileitem.Item
	OutputFiles      []fileitem.Item
	Converting       bool
	OldAddressInput  string
	NewAddressOutput string
	TextResults      []addressapi.TextResult
	Copied           bool

	MaxUploadFiles int

	gen     uint64
	copyGen uint64
	seq     uint64
}

// Request is what a conversion needs to run outside the state.
type Request struct {
	Gen   uint64
	Mode  Mode
	Paths []string
	Lines []string
}

func New(maxUploadFiles int) State {
	if maxUploadFiles <= 0 {
		maxUploadFiles = DefaultMaxUploadFiles
	}
	return State{MaxUploadFiles: maxUploadFiles}
}

// AddFiles appends items up to the upload cap. Items beyond the cap are returned as rejected.
func (s State) AddFiles(items ...fileitem.Item) (State, []fileitem.Item) {
	limit := s.MaxUploadFiles
	if limit <= 0 {
		limit = DefaultMaxUploadFiles
	}
	room := limit - len(s.UploadedFiles)
	if room < 0 {
		room = 0
	}
	accepted := items
	var rejected []fileitem.Item
	if len(items) > room {
		accepted, rejected = items[:room], items[room:]
	}
	files := append([]fileitem.Item(nil), s.UploadedFiles...)
	for _, it := range accepted {
		// Batches built in the same millisecond share ids; suffix until unique.
		base := it.ID
		for it.ID == "" || hasID(files, it.ID) {
			s.seq++
			it.ID = fmt.Sprintf("%s~%d", base, s.seq)
		}
		files = append(files, it)
	}
	s.UploadedFiles = files
	return s, rejected
}

// RemoveFile removes the file with the given id.
func (s State) RemoveFile(id string) State {
	for i, it := range s.UploadedFiles {
		if it.ID == id {
			s.UploadedFiles = slices.Delete(slices.Clone(s.UploadedFiles), i, i+1)
			break
		}
	}
	return s
}

func hasID(items []fileitem.Item, id string) bool {
	return slices.ContainsFunc(items, func(it fileitem.Item) bool { return it.ID == id })
}

// SetMode switches input mode. Files of the previous mode are dropped and any
// in-flight conversion is abandoned.
func (s State) SetMode(m Mode) State {
	if s.Mode == m {
		return s
	}
	s.Mode = m
	s.UploadedFiles = nil
	s.OutputFiles = nil
	s.Converting = false
	s.gen++
	return s
}

func (s State) SetInput(text string) State {
	s.OldAddressInput = text
	return s
}

func (s State) HasInput() bool {
	if s.Mode == ModeExcel {
		return len(s.UploadedFiles) > 0
	}
	return strings.TrimSpace(s.OldAddressInput) != ""
}

// CanConvert is the enablement of the convert action.
func (s State) CanConvert() bool { return s.HasInput() && !s.Converting }

// BeginConvert marks the state as converting and returns the request to run.
// ok is false when there is nothing to convert or a conversion is already running.
func (s State) BeginConvert() (State, Request, bool) {
	if !s.CanConvert() {
		return s, Request{}, false
	}
	s.gen++
	s.Converting = true
	req := Request{Gen: s.gen, Mode: s.Mode}
	if s.Mode == ModeExcel {
		req.Paths = fileitem.Paths(s.UploadedFiles)
	} else {
		req.Lines = SplitLines(s.OldAddressInput)
	}
	return s, req, true
}

// Current reports whether gen belongs to the conversion the state is waiting for.
func (s State) Current(gen uint64) bool { return s.Converting && gen == s.gen }

func (s State) ApplyExcel(gen uint64, outputs []fileitem.Item) State {
	if !s.Current(gen) {
		return s
	}
	s.OutputFiles = outputs
	s.Converting = false
	return s
}

func (s State) ApplyText(gen uint64, results []addressapi.TextResult) State {
	if !s.Current(gen) {
		return s
	}
	s.TextResults = results
	s.NewAddressOutput = Flatten(results)
	s.Converting = false
	return s
}

// Fail ends the conversion without touching any result field.
func (s State) Fail(gen uint64) State {
	if !s.Current(gen) {
		return s
	}
	s.Converting = false
	return s
}

// Copy marks the output as copied and returns the token needed to revert it.
func (s State) Copy() (State, uint64) {
	s.copyGen++
	s.Copied = true
	return s, s.copyGen
}

func (s State) RevertCopy(token uint64) State {
	if token == s.copyGen {
		s.Copied = false
	}
	return s
}

func (s State) HasDataToRestore() bool {
	return len(s.UploadedFiles) > 0 ||
		len(s.OutputFiles) > 0 ||
		s.OldAddressInput != "" ||
		s.NewAddressOutput != "" ||
		len(s.TextResults) > 0 ||
		s.Converting ||
		s.Copied
}

// Restore returns every field to its default. The mode and upload cap are kept.
func (s State) Restore() State {
	return State{
		Mode:           s.Mode,
		MaxUploadFiles: s.MaxUploadFiles,
		gen:            s.gen + 1,
		copyGen:        s.copyGen + 1,
	}
}

// SplitLines splits manual input into addresses, dropping blank lines.
func SplitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Flatten joins the display text of every result, one per line.
func Flatten(results []addressapi.TextResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = r.DisplayText()
	}
	return strings.Join(parts, "\n")
}

// Outputs builds output items from an Excel conversion answer, in upload order.
// Keys are upload indexes; non-numeric keys sort after them by name.
func Outputs(results map[string]addressapi.ExcelResult, link func(string) string) []fileitem.Item {
	out := make([]fileitem.Item, 0, len(results))
	for _, k := range slices.SortedFunc(maps.Keys(results), compareKeys) {
		r := results[k]
		out = append(out, fileitem.Item{
			ID:          k,
			Name:        r.ConvertedFileName,
			Size:        r.FileSize,
			Type:        fileitem.SpreadsheetMIME,
			DownloadURL: link(r.ConvertedFileURL),
		})
	}
	return out
}

func compareKeys(a, b string) int {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return cmp.Compare(ai, bi)
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	}
	return strings.Compare(a, b)
}
