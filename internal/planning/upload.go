package planning

import (
	"encoding/base64"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// SelectedFile - выбранное изображение вместе с превью в виде data URL.
type SelectedFile struct {
	Name      string
	MediaType string
	Data      []byte
	DataURL   string
}

// SelectFile проверяет, что файл передан и является изображением по содержимому.
func SelectFile(name string, data []byte) (SelectedFile, error) {
	if len(data) == 0 {
		return SelectedFile{}, ErrNoFile
	}

	mediaType := mimetype.Detect(data).String()
	if !strings.HasPrefix(mediaType, "image/") {
		return SelectedFile{}, ErrNotImage
	}

	// Параметры вида "; charset=" к изображениям не относятся.
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = mediaType[:idx]
	}

	return SelectedFile{
		Name:      filepath.Base(name),
		MediaType: mediaType,
		Data:      data,
		DataURL:   "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

// CheckExtension проверяет расширение файла по списку разрешенных.
func CheckExtension(name string, allowed []string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return ErrUnsupportedFile
	}

	for _, candidate := range allowed {
		if candidate == ext {
			return nil
		}
	}

	return ErrUnsupportedFile
}
