package utils

import (
	"errors"
	"path/filepath"
	"strings"
)

const MaxPDFSize = 16 * 1024 * 1024

var ErrUnsupportedFile = errors.New("only PDF files are supported")

// Kiểm tra phần mở rộng và content-type của file upload, chỉ nhận PDF
func CheckPDFUpload(filename, contentType string) error {
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		return ErrUnsupportedFile
	}
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if ct != "" && ct != "application/pdf" && ct != "application/octet-stream" {
		return ErrUnsupportedFile
	}
	return nil
}
