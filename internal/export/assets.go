package export

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// maxAssetSize caps how much of an asset is read into the document.
const maxAssetSize = 64 << 20

// AssetResolver turns a filename binding's value into raw bytes: a URL is
// fetched over HTTP with a bounded timeout, anything else is read from
// the filesystem. Failures are reported to the caller, which folds them
// into the warning sink; an unreachable asset never aborts a run.
type AssetResolver struct {
	FS     billy.Filesystem
	Client *http.Client
}

func NewAssetResolver(fs billy.Filesystem) *AssetResolver {
	return &AssetResolver{
		FS:     fs,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch resolves name to content bytes.
func (r *AssetResolver) Fetch(name string) ([]byte, error) {
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return r.fetchURL(name)
	}
	data, err := util.ReadFile(r.FS, name)
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", name, err)
	}
	return data, nil
}

func (r *AssetResolver) fetchURL(url string) ([]byte, error) {
	resp, err := r.Client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch asset %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }() // safe to ignore

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch asset %s: status %s", url, resp.Status)
	}
	// The target system only accepts image payloads from URLs; anything
	// else (an HTML error page, usually) is rejected here.
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("fetch asset %s: content type %q is not an image", url, ct)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize))
	if err != nil {
		return nil, fmt.Errorf("fetch asset %s: %w", url, err)
	}
	return data, nil
}
