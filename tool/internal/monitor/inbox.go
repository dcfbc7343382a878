// Package monitor watches an inbox directory and reports spreadsheets
// dropped into it, so they can be queued for conversion.
package monitor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"banglaixanh/tool/internal/fileitem"
	"banglaixanh/tool/internal/logger"

	"github.com/fsnotify/fsnotify"
)

const (
	eventQueueSize = 32
	DefaultSettle  = 500 * time.Millisecond
)

// Arrival is a spreadsheet that stopped changing for the settle period.
type Arrival struct {
	Path      string
	Timestamp time.Time
}

// Inbox uses fsnotify to watch a single directory for new spreadsheets.
type Inbox struct {
	watcher *fsnotify.Watcher
	dir     string
	settle  time.Duration

	mu      sync.Mutex
	pending map[string]time.Time

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewInbox watches dir, creating it when missing.
func NewInbox(dir string, settle time.Duration) (*Inbox, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("inbox: empty directory")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	if settle <= 0 {
		settle = DefaultSettle
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(abs); err != nil {
		_ = w.Close()
		return nil, err
	}
	logger.Infof("Watching inbox: %s", abs)
	return &Inbox{
		watcher: w,
		dir:     abs,
		settle:  settle,
		pending: make(map[string]time.Time),
		stop:    make(chan struct{}),
	}, nil
}

func (in *Inbox) Dir() string { return in.dir }

// Arrivals starts the watch loop. The channel closes after Close.
func (in *Inbox) Arrivals() <-chan Arrival {
	out := make(chan Arrival, eventQueueSize)
	in.wg.Add(1)
	go in.loop(out)
	go func() {
		in.wg.Wait()
		close(out)
	}()
	return out
}

func (in *Inbox) loop(out chan<- Arrival) {
	defer in.wg.Done()
	tick := time.NewTicker(in.settle / 2)
	defer tick.Stop()

	for {
		select {
		case <-in.stop:
			return
		case evt, ok := <-in.watcher.Events:
			if !ok {
				return
			}
			in.handleEvent(evt)
		case err, ok := <-in.watcher.Errors:
			if !ok {
				return
			}
			logger.Errorf("Inbox watcher error: %v", err)
		case now := <-tick.C:
			for _, a := range in.flush(now) {
				select {
				case out <- a:
				default:
					logger.Errorf("Inbox backpressure, dropping %s", a.Path)
				}
			}
		}
	}
}

func (in *Inbox) handleEvent(evt fsnotify.Event) {
	path := filepath.Clean(evt.Name)
	if !isSpreadsheet(path) {
		return
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	switch {
	case evt.Op&(fsnotify.Create|fsnotify.Write) != 0:
		in.pending[path] = time.Now()
	case evt.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		delete(in.pending, path)
	}
}

// flush returns the pending paths that have been quiet for the settle period.
func (in *Inbox) flush(now time.Time) []Arrival {
	in.mu.Lock()
	defer in.mu.Unlock()
	var ready []Arrival
	for p, last := range in.pending {
		if now.Sub(last) < in.settle {
			continue
		}
		delete(in.pending, p)
		if info, err := os.Stat(p); err != nil || info.IsDir() {
			continue
		}
		ready = append(ready, Arrival{Path: p, Timestamp: last})
	}
	return ready
}

// Close releases the watcher and stops the loop.
func (in *Inbox) Close() error {
	var closeErr error
	in.once.Do(func() {
		close(in.stop)
		if err := in.watcher.Close(); err != nil {
			closeErr = err
		}
	})
	in.wg.Wait()
	return closeErr
}

// isSpreadsheet skips office lock files such as "~$book.xlsx".
func isSpreadsheet(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".") {
		return false
	}
	return fileitem.TypeByName(base) == fileitem.SpreadsheetMIME
}
