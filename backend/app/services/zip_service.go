package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ZipService bundles stored files behind download links into one archive.
type ZipService struct {
	files *FileStore
	links LinkStore
}

func NewZipService(files *FileStore, links LinkStore) *ZipService {
	return &ZipService{files: files, links: links}
}

// Resolve maps download URLs (or bare tokens) to their links. Any expired
// link fails the whole request with ErrLinkExpired.
func (s *ZipService) Resolve(ctx context.Context, urls []string) ([]Link, error) {
	out := make([]Link, 0, len(urls))
	for _, u := range urls {
		l, err := s.links.Get(ctx, TokenFromURL(u))
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// Write reads the files in parallel and writes them to w in the given order.
func (s *ZipService) Write(ctx context.Context, links []Link, w io.Writer) error {
	bufs := make([][]byte, len(links))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, l := range links {
		g.Go(func() error {
			var b bytes.Buffer
			if err := s.files.copyTo(&b, l.File); errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: %s was swept", ErrLinkExpired, l.Name)
			} else if err != nil {
				return fmt.Errorf("read %s: %w", l.Name, err)
			}
			bufs[i] = b.Bytes()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	used := map[string]int{}
	for i, l := range links {
		fw, err := zw.Create(uniqueName(used, l.Name))
		if err != nil {
			return err
		}
		if _, err := fw.Write(bufs[i]); err != nil {
			return err
		}
	}
	return zw.Close()
}

// TokenFromURL returns the last path segment of a download URL.
func TokenFromURL(u string) string {
	u = strings.TrimRight(strings.TrimSpace(u), "/")
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return path.Base(u)
}

func uniqueName(used map[string]int, name string) string {
	used[name]++
	if n := used[name]; n > 1 {
		ext := path.Ext(name)
		return fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(name, ext), n, ext)
	}
	return name
}
