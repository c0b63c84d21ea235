package filemgr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// Upload describes a stored image and its thumbnail.
type Upload struct {
	URL      string `json:"url"`
	ThumbURL string `json:"thumbUrl"`
	Name     string `json:"name"`
	MIME     string `json:"mime"`
	Size     int64  `json:"size"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Store writes images under root and hands out URLs below baseURL.
type Store struct {
	root    string
	baseURL string
}

// NewStore serves files from root at baseURL + "/uploads".
func NewStore(root, baseURL string) *Store {
	return &Store{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *Store) Root() string { return s.root }

func (s *Store) dir(entity EntityType, folder string) string {
	return filepath.Join(s.root, string(entity), folder)
}

func (s *Store) url(entity EntityType, folder, name string) string {
	return s.baseURL + path.Join("/uploads", string(entity), folder, name)
}

func isExtensionAllowed(ext string) bool {
	return slices.Contains(AllowedExtensions, ext)
}

func isMIMEAllowed(mimeType string) bool {
	return slices.Contains(AllowedMIMEs, mimeType)
}

// Save validates and stores one image. The original name is only used for
// its extension; stored files get a uuid name.
func (s *Store) Save(entity EntityType, filename string, r io.Reader) (*Upload, error) {
	if !entity.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEntity, entity)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !isExtensionAllowed(ext) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
	}

	buf, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(buf) > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	mimeType := http.DetectContentType(buf)
	if !isMIMEAllowed(mimeType) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMIME, mimeType)
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > maxDimension || bounds.Dy() > maxDimension {
		return nil, fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrNotAnImage, bounds.Dx(), bounds.Dy(), maxDimension, maxDimension)
	}

	id := uuid.New().String()
	name := id + ext
	if err := writeFile(s.dir(entity, photoFolder), name, buf); err != nil {
		return nil, err
	}

	thumbName := id + ".jpg"
	thumb := imaging.Resize(img, ThumbWidth, 0, imaging.Lanczos)
	var tb bytes.Buffer
	if err := jpeg.Encode(&tb, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	if err := writeFile(s.dir(entity, thumbFolder), thumbName, tb.Bytes()); err != nil {
		return nil, err
	}

	log.Printf("[filemgr] stored entity=%s name=%s size=%d mime=%s", entity, name, len(buf), mimeType)
	return &Upload{
		URL:      s.url(entity, photoFolder, name),
		ThumbURL: s.url(entity, thumbFolder, thumbName),
		Name:     name,
		MIME:     mimeType,
		Size:     int64(len(buf)),
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}

func writeFile(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}

// IsClientError reports whether err was caused by the uploaded content.
func IsClientError(err error) bool {
	for _, target := range []error{ErrInvalidEntity, ErrInvalidExtension, ErrInvalidMIME, ErrFileTooLarge, ErrNotAnImage} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
