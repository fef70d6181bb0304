package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// allowedLogoTypes maps accepted image content types to the stored file extension.
var allowedLogoTypes = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// TournamentLogoKey builds the object key for a tournament logo and rejects non-image uploads.
func TournamentLogoKey(tournamentID int, contentType string) (string, error) {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	ext, ok := allowedLogoTypes[mediaType]
	if !ok {
		return "", fmt.Errorf("unsupported logo content type %q", contentType)
	}
	return path.Join("tournaments", fmt.Sprint(tournamentID), "logo"+ext), nil
}
