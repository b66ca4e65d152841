package firmware

import (
	"encoding/hex"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"golang.org/x/crypto/blake2b"

	"ptr89/internal/search"
)

// Image is a fullflash dump.
type Image struct {
	Path string
	Data []byte

	once   sync.Once
	digest [blake2b.Size256]byte
}

// Load reads the whole file at path.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read firmware %s", path)
	}
	return &Image{Path: path, Data: data}, nil
}

// Digest returns the hex BLAKE2b-256 of the image contents.
func (img *Image) Digest() string {
	img.once.Do(func() {
		img.digest = blake2b.Sum256(img.Data)
	})
	return hex.EncodeToString(img.digest[:])
}

// Fingerprint returns a short form of Digest for log lines.
func (img *Image) Fingerprint() string {
	return img.Digest()[:20]
}

// Memory maps the image at base for searching.
func (img *Image) Memory(base uint32, align int) search.Memory {
	return search.Memory{Base: base, Data: img.Data, Align: align}
}
