package fetch

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/heartmarshall/gkgfeed/internal/config"
)

const (
	lastUpdateFile            = "lastupdate.txt"
	lastUpdateTranslationFile = "lastupdate-translation.txt"
)

// Client talks to the GDELT v2 file server.
type Client struct {
	baseURL string
	http    *resty.Client
	log     *slog.Logger
}

// NewClient creates a Client from cfg. Requests are retried cfg.Retries
// times on transport errors and 5xx responses.
func NewClient(cfg config.FetchConfig, log *slog.Logger) *Client {
	http := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetRetryCount(cfg.Retries).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || (r != nil && r.StatusCode() >= 500)
		})

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    http,
		log:     log,
	}
}

// LastUpdateURL returns the URL of the latest-files listing.
func (c *Client) LastUpdateURL(translation bool) string {
	if translation {
		return c.baseURL + "/" + lastUpdateTranslationFile
	}
	return c.baseURL + "/" + lastUpdateFile
}

// HistoricalURL returns the archive URL for a 15-minute slot given as
// YYYYMMDDHHMMSS.
func (c *Client) HistoricalURL(date string, translation bool) (string, error) {
	if len(date) != 14 || strings.Trim(date, "0123456789") != "" {
		return "", fmt.Errorf("historical url: date %q must be YYYYMMDDHHMMSS", date)
	}
	if translation {
		return fmt.Sprintf("%s/%s.translation.gkg.csv.zip", c.baseURL, date), nil
	}
	return fmt.Sprintf("%s/%s.gkg.csv.zip", c.baseURL, date), nil
}

// LastUpdate downloads and parses the latest-files listing.
func (c *Client) LastUpdate(ctx context.Context, translation bool) ([]LastUpdateEntry, error) {
	u := c.LastUpdateURL(translation)

	resp, err := c.http.R().SetContext(ctx).Get(u)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", u, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get %s: %s", u, resp.Status())
	}

	return ParseLastUpdate(resp.String()), nil
}

// LatestGKG returns the listing entry of the newest GKG file.
func (c *Client) LatestGKG(ctx context.Context, translation bool) (LastUpdateEntry, error) {
	entries, err := c.LastUpdate(ctx, translation)
	if err != nil {
		return LastUpdateEntry{}, err
	}
	e, err := FindGKG(entries)
	if err != nil {
		return LastUpdateEntry{}, fmt.Errorf("latest gkg: %w", err)
	}
	return e, nil
}

// ErrChecksumMismatch is returned by Download when the body does not hash
// to the expected MD5.
var ErrChecksumMismatch = errors.New("md5 checksum mismatch")

// Download streams rawURL into destDir and returns the written path. The
// file name is the last element of the URL path. When wantMD5 is non-empty
// the body is verified against it and the file is removed on mismatch.
func (c *Client) Download(ctx context.Context, rawURL, destDir, wantMD5 string) (string, error) {
	name, err := fileName(rawURL)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", destDir, err)
	}
	dest := filepath.Join(destDir, name)

	resp, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", rawURL, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return "", fmt.Errorf("get %s: %s", rawURL, resp.Status())
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dest, err)
	}

	hash := md5.New()
	n, err := io.Copy(io.MultiWriter(f, hash), body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("write %s: %w", dest, err)
	}

	if wantMD5 != "" {
		got := hex.EncodeToString(hash.Sum(nil))
		if !strings.EqualFold(got, wantMD5) {
			_ = os.Remove(dest)
			return "", fmt.Errorf("download %s: %w (got %s, want %s)", rawURL, ErrChecksumMismatch, got, wantMD5)
		}
	}

	c.log.Info("downloaded feed file",
		slog.String("url", rawURL),
		slog.String("path", dest),
		slog.Int64("bytes", n),
	)
	return dest, nil
}

// DownloadLatest resolves the newest GKG file and downloads it into
// destDir, verifying the MD5 published in the listing.
func (c *Client) DownloadLatest(ctx context.Context, destDir string, translation bool) (string, error) {
	e, err := c.LatestGKG(ctx, translation)
	if err != nil {
		return "", err
	}
	return c.Download(ctx, e.URL, destDir, e.MD5)
}

// DownloadGKG downloads the GKG archive of the 15-minute slot date
// (YYYYMMDDHHMMSS) into destDir, or the newest one when date is empty.
func (c *Client) DownloadGKG(ctx context.Context, destDir, date string, translation bool) (string, error) {
	if date == "" {
		return c.DownloadLatest(ctx, destDir, translation)
	}
	u, err := c.HistoricalURL(date, translation)
	if err != nil {
		return "", err
	}
	return c.Download(ctx, u, destDir, "")
}

func fileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("url %q has no file name", rawURL)
	}
	return name, nil
}
