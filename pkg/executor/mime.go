package executor

import (
	"mime"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// guessContentType prefers the extension and falls back to sniffing data.
func guessContentType(filename string, data []byte) string {
	if contentType := typeByExtension(filename); contentType != "" {
		return contentType
	}
	return mimetype.Detect(data).String()
}

func guessFileContentType(filename string) string {
	if contentType := typeByExtension(filename); contentType != "" {
		return contentType
	}
	mt, err := mimetype.DetectFile(filename)
	if err != nil {
		return ""
	}
	return mt.String()
}

func typeByExtension(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return ""
	}
	return mime.TypeByExtension(ext)
}
