package library

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// maxRemoteSize caps the body read from a library URL.
const maxRemoteSize = 16 << 20

// Loader reads libraries from disk or over HTTP.
type Loader struct {
	HTTP *http.Client
}

// NewLoader returns a Loader whose HTTP requests give up after timeout.
// A zero timeout means no limit.
func NewLoader(timeout time.Duration) *Loader {
	return &Loader{HTTP: &http.Client{Timeout: timeout}}
}

// Load reads and parses the library at src, a file path or an http(s)
// URL.
func (l *Loader) Load(ctx context.Context, src string) ([]Entry, error) {
	var (
		data []byte
		err  error
	)
	if isURL(src) {
		data, err = l.fetch(ctx, src)
	} else {
		data, err = os.ReadFile(src)
		if err != nil {
			err = eris.Wrapf(err, "failed to read library %s", src)
		}
	}
	if err != nil {
		return nil, err
	}

	entries, err := Parse(src, data)
	if err != nil {
		return nil, fmt.Errorf("parse library %s: %w", src, err)
	}
	return entries, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := l.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to fetch library %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch library %s failed: %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize))
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read library %s", url)
	}
	return data, nil
}

func isURL(src string) bool {
	s := strings.ToLower(src)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
