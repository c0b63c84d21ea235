package filemgr

import "errors"

type EntityType string

const (
	EntityPackage EntityType = "package"
	EntitySite    EntityType = "site"
)

func (e EntityType) Valid() bool {
	return e == EntityPackage || e == EntitySite
}

const (
	MaxUploadSize = 10 << 20
	ThumbWidth    = 400
	maxDimension  = 6000

	photoFolder = "photo"
	thumbFolder = "thumb"
)

var (
	AllowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	AllowedMIMEs      = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

	ErrInvalidEntity    = errors.New("invalid upload entity")
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
	ErrNotAnImage       = errors.New("file is not a decodable image")
)
