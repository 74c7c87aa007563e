package planning

import (
	"errors"
	"strings"
	"testing"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// TestSelectFileRejectsEmpty проверяет отказ без файла.
func TestSelectFileRejectsEmpty(t *testing.T) {
	if _, err := SelectFile("a.png", nil); !errors.Is(err, ErrNoFile) {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}
}

// TestSelectFileSniffsContent проверяет определение типа по содержимому, а не по имени.
func TestSelectFileSniffsContent(t *testing.T) {
	if _, err := SelectFile("report.png", []byte("plain text pretending to be png")); !errors.Is(err, ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}

	file, err := SelectFile("../uploads/scan.bin", pngHeader)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if file.MediaType != "image/png" {
		t.Fatalf("expected image/png, got %s", file.MediaType)
	}
	if file.Name != "scan.bin" {
		t.Fatalf("expected base name, got %s", file.Name)
	}
	if !strings.HasPrefix(file.DataURL, "data:image/png;base64,") {
		t.Fatalf("unexpected data url %s", file.DataURL)
	}
}

// TestCheckExtension проверяет список разрешенных расширений.
func TestCheckExtension(t *testing.T) {
	allowed := []string{"png", "xlsx"}

	if err := CheckExtension("Report.XLSX", allowed); err != nil {
		t.Fatalf("expected xlsx to be allowed, got %v", err)
	}
	if err := CheckExtension("notes.txt", allowed); !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
	if err := CheckExtension("README", allowed); !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile for missing extension, got %v", err)
	}
}
