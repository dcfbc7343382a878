package ui

import (
	"context"
	"sync"

	"banglaixanh/tool/internal/addressapi"
	"banglaixanh/tool/internal/auth"
	"banglaixanh/tool/internal/config"

	"github.com/atotto/clipboard"
)

// API is the part of the conversion backend the screens use.
type API interface {
	auth.Authenticator
	SetToken(t string)
	DownloadURL(rel string) string

	ProcessExcelFiles(ctx context.Context, paths []string) (map[string]addressapi.ExcelResult, error)
	ConvertAddressesFromText(ctx context.Context, lines []string) ([]addressapi.TextResult, error)
	DownloadConvertedFile(ctx context.Context, link, filename string) (string, error)
	DownloadAllAsZip(ctx context.Context, links []string) (string, error)

	GetOldProvinces(ctx context.Context) ([]addressapi.Unit, error)
	GetOldDistricts(ctx context.Context, provinceID string) ([]addressapi.Unit, error)
	GetOldWards(ctx context.Context, districtID string) ([]addressapi.Unit, error)
	GetProvinces(ctx context.Context) ([]addressapi.Unit, error)
	GetWards(ctx context.Context, provinceID string) ([]addressapi.Unit, error)
	UpsertUserWardMapping(ctx context.Context, req addressapi.WardMappingRequest) error
}

// Session holds what the screens share: the API client and the lifetime of the open screen.
type Session struct {
	API       API
	Config    config.AppConfig
	Clipboard func(string) error

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	screen uint64
}

// Screen is the lifetime of one opened screen. Answers tagged with another ID are dropped.
type Screen struct {
	ID  uint64
	Ctx context.Context
}

func NewSession(api API, cfg config.AppConfig) *Session {
	s := &Session{API: api, Config: cfg, Clipboard: clipboard.WriteAll}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Enter starts the lifetime of a new screen. Requests made by the previous one are cancelled.
func (s *Session) Enter() Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.screen++
	return Screen{ID: s.screen, Ctx: s.ctx}
}

// Context is the lifetime of the screen currently shown.
func (s *Session) Context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}
