package helpers

import (
	"mime"
	"path/filepath"
	"strings"
)

// ContentTypeByName guesses a MIME type from the file extension.
func ContentTypeByName(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
