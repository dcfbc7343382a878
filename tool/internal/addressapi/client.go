// Package addressapi is the console's client for the address conversion backend.
package addressapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"banglaixanh/network"
)

const (
	pathLogin       = "/login"
	pathExcel       = "/address-conversion/excel"
	pathText        = "/address-conversion/text"
	pathDownloadZip = "/address-conversion/download-zip"
	pathMappings    = "/administrative/ward-mappings"
)

var (
	ErrNoFiles       = errors.New("no files to convert")
	ErrNoAddresses   = errors.New("no addresses to convert")
	ErrResultCount   = errors.New("result count does not match input")
	ErrNoDownloads   = errors.New("no download links")
	ErrMissingUnitID = errors.New("missing administrative unit id")
	ErrEmptyToken    = errors.New("empty access token")
)

type Client struct {
	http        *network.Client
	downloadDir string
	now         func() time.Time
}

func New(baseURL string, timeout time.Duration, downloadDir string) (*Client, error) {
	hc, err := network.NewClient(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	if downloadDir == "" {
		downloadDir = "."
	}
	return &Client{http: hc, downloadDir: downloadDir, now: time.Now}, nil
}

func (c *Client) SetToken(t string) { c.http.SetToken(t) }

// DownloadURL builds the absolute link for a relative path returned by the server.
func (c *Client) DownloadURL(rel string) string { return c.http.URL(rel) }

// Login exchanges credentials for a bearer token and starts using it.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out tokenResponse
	if err := c.http.PostJSON(ctx, pathLogin, loginRequest{Username: username, Password: password}, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", ErrEmptyToken
	}
	c.http.SetToken(out.AccessToken)
	return out.AccessToken, nil
}

// ProcessExcelFiles uploads spreadsheets and returns one result per file.
func (c *Client) ProcessExcelFiles(ctx context.Context, paths []string) (map[string]ExcelResult, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	parts := make([]network.FilePart, len(paths))
	for i, p := range paths {
		parts[i] = network.FilePart{Field: "files", Path: p}
	}
	out := map[string]ExcelResult{}
	if err := c.http.PostMultipart(ctx, pathExcel, parts, &out); err != nil {
		return nil, fmt.Errorf("process excel: %w", err)
	}
	return out, nil
}

// ConvertAddressesFromText converts lines; the answer has one entry per line, in order.
func (c *Client) ConvertAddressesFromText(ctx context.Context, lines []string) ([]TextResult, error) {
	if len(lines) == 0 {
		return nil, ErrNoAddresses
	}
	var out []TextResult
	if err := c.http.PostJSON(ctx, pathText, textRequest{Addresses: lines}, &out); err != nil {
		return nil, fmt.Errorf("convert text: %w", err)
	}
	if len(out) != len(lines) {
		return nil, fmt.Errorf("%w: sent %d, got %d", ErrResultCount, len(lines), len(out))
	}
	return out, nil
}

// DownloadConvertedFile saves the file behind link into the download directory.
func (c *Client) DownloadConvertedFile(ctx context.Context, link, filename string) (string, error) {
	if filename == "" {
		filename = lastSegment(link)
	}
	dest := filepath.Join(c.downloadDir, filepath.Base(filename))
	if _, err := c.http.Download(ctx, http.MethodGet, link, nil, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// DownloadAllAsZip asks the server to bundle links into one archive and saves it.
func (c *Client) DownloadAllAsZip(ctx context.Context, links []string) (string, error) {
	if len(links) == 0 {
		return "", ErrNoDownloads
	}
	name := fmt.Sprintf("converted-%s.zip", c.now().Format("20060102-150405"))
	dest := filepath.Join(c.downloadDir, name)
	if _, err := c.http.Download(ctx, http.MethodPost, pathDownloadZip, zipRequest{URLs: links}, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func (c *Client) GetOldProvinces(ctx context.Context) ([]Unit, error) {
	return c.units(ctx, "/administrative/old/provinces")
}

func (c *Client) GetOldDistricts(ctx context.Context, provinceID string) ([]Unit, error) {
	if provinceID == "" {
		return nil, ErrMissingUnitID
	}
	return c.units(ctx, "/administrative/old/provinces/"+url.PathEscape(provinceID)+"/districts")
}

func (c *Client) GetOldWards(ctx context.Context, districtID string) ([]Unit, error) {
	if districtID == "" {
		return nil, ErrMissingUnitID
	}
	return c.units(ctx, "/administrative/old/districts/"+url.PathEscape(districtID)+"/wards")
}

func (c *Client) GetProvinces(ctx context.Context) ([]Unit, error) {
	return c.units(ctx, "/administrative/provinces")
}

func (c *Client) GetWards(ctx context.Context, provinceID string) ([]Unit, error) {
	if provinceID == "" {
		return nil, ErrMissingUnitID
	}
	return c.units(ctx, "/administrative/provinces/"+url.PathEscape(provinceID)+"/wards")
}

// UpsertUserWardMapping persists one manual correspondence.
func (c *Client) UpsertUserWardMapping(ctx context.Context, req WardMappingRequest) error {
	return c.http.PostJSON(ctx, pathMappings, req, nil)
}

func (c *Client) units(ctx context.Context, path string) ([]Unit, error) {
	var out []Unit
	if err := c.http.GetJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func lastSegment(link string) string {
	if u, err := url.Parse(link); err == nil {
		link = u.Path
	}
	link = strings.TrimRight(link, "/")
	if i := strings.LastIndex(link, "/"); i >= 0 {
		return link[i+1:]
	}
	return link
}
