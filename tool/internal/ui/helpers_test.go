package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"banglaixanh/tool/internal/addressapi"
	"banglaixanh/tool/internal/config"

	tea "github.com/charmbracelet/bubbletea"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "ui-test")
	if err != nil {
		panic(err)
	}
	cfg := filepath.Join(dir, "config.yaml")
	_ = os.WriteFile(cfg, []byte("tool:\n  token_path: "+filepath.Join(dir, "tool.token")+"\n"), 0o644)
	config.Init(cfg)
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// spyAPI records calls and answers with canned data.
type spyAPI struct {
	mu    sync.Mutex
	calls map[string]int
	token string

	excel      map[string]addressapi.ExcelResult
	text       []addressapi.TextResult
	units      map[string][]addressapi.Unit
	unitErr    map[string]error
	convertErr error
	upsertErr  error
	upserted   []addressapi.WardMappingRequest
	downloaded []string
}

func newSpy() *spyAPI {
	return &spyAPI{calls: map[string]int{}, units: map[string][]addressapi.Unit{}, unitErr: map[string]error{}}
}

func (s *spyAPI) hit(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
}

func (s *spyAPI) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *spyAPI) Login(_ context.Context, u, p string) (string, error) {
	s.hit("Login")
	if p != "secret" {
		return "", errors.New("bad credentials")
	}
	return "tok-" + u, nil
}

func (s *spyAPI) SetToken(t string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = t
}

func (s *spyAPI) DownloadURL(rel string) string { return "http://api" + rel }

func (s *spyAPI) ProcessExcelFiles(_ context.Context, _ []string) (map[string]addressapi.ExcelResult, error) {
	s.hit("ProcessExcelFiles")
	return s.excel, s.convertErr
}

func (s *spyAPI) ConvertAddressesFromText(_ context.Context, _ []string) ([]addressapi.TextResult, error) {
	s.hit("ConvertAddressesFromText")
	return s.text, s.convertErr
}

func (s *spyAPI) DownloadConvertedFile(_ context.Context, link, filename string) (string, error) {
	s.hit("DownloadConvertedFile")
	s.mu.Lock()
	s.downloaded = append(s.downloaded, link)
	s.mu.Unlock()
	return "/downloads/" + filename, nil
}

func (s *spyAPI) DownloadAllAsZip(_ context.Context, links []string) (string, error) {
	s.hit("DownloadAllAsZip")
	s.mu.Lock()
	s.downloaded = append(s.downloaded, links...)
	s.mu.Unlock()
	return "/downloads/all.zip", nil
}

func (s *spyAPI) unitsFor(name, key string) ([]addressapi.Unit, error) {
	s.hit(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.units[key], s.unitErr[key]
}

func (s *spyAPI) GetOldProvinces(context.Context) ([]addressapi.Unit, error) {
	return s.unitsFor("GetOldProvinces", "old")
}

func (s *spyAPI) GetOldDistricts(_ context.Context, id string) ([]addressapi.Unit, error) {
	return s.unitsFor("GetOldDistricts", "districts:"+id)
}

func (s *spyAPI) GetOldWards(_ context.Context, id string) ([]addressapi.Unit, error) {
	return s.unitsFor("GetOldWards", "oldwards:"+id)
}

func (s *spyAPI) GetProvinces(context.Context) ([]addressapi.Unit, error) {
	return s.unitsFor("GetProvinces", "new")
}

func (s *spyAPI) GetWards(_ context.Context, id string) ([]addressapi.Unit, error) {
	return s.unitsFor("GetWards", "newwards:"+id)
}

func (s *spyAPI) UpsertUserWardMapping(_ context.Context, req addressapi.WardMappingRequest) error {
	s.hit("UpsertUserWardMapping")
	s.mu.Lock()
	s.upserted = append(s.upserted, req)
	s.mu.Unlock()
	return s.upsertErr
}

func testSession(api API) *Session {
	s := NewSession(api, config.AppConfig{MaxUploadFiles: 5})
	s.Clipboard = func(string) error { return nil }
	return s
}

// collect runs cmd, and every command it batches, and returns the messages
// produced within wait. Timers that outlive wait are ignored.
func collect(cmd tea.Cmd, wait time.Duration) []tea.Msg {
	if cmd == nil {
		return nil
	}
	out := make(chan tea.Msg, 128)
	var run func(c tea.Cmd)
	run = func(c tea.Cmd) {
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, bc := range batch {
					if bc != nil {
						run(bc)
					}
				}
				return
			}
			if msg != nil {
				out <- msg
			}
		}()
	}
	run(cmd)

	var msgs []tea.Msg
	deadline := time.After(wait)
	for {
		select {
		case m := <-out:
			msgs = append(msgs, m)
		case <-deadline:
			return msgs
		}
	}
}

func find[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if t, ok := m.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	case "ctrl+a":
		return tea.KeyMsg{Type: tea.KeyCtrlA}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

const wait = 150 * time.Millisecond
