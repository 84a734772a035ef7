package utils

import (
	"errors"
	"net/http"
	"regexp"
	"testing"
)

func TestCheckPDFUpload(t *testing.T) {
	cases := []struct {
		name, filename, contentType string
		ok                          bool
	}{
		{"pdf", "notes.pdf", "application/pdf", true},
		{"upper ext", "NOTES.PDF", "", true},
		{"octet stream", "notes.pdf", "application/octet-stream", true},
		{"docx", "notes.docx", "application/pdf", false},
		{"wrong content type", "notes.pdf", "text/plain", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckPDFUpload(tc.filename, tc.contentType)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrUnsupportedFile) {
				t.Fatalf("expected ErrUnsupportedFile, got %v", err)
			}
		})
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("user_ABC", "Bài Giảng 1.PDF")
	re := regexp.MustCompile(`^journals/user[_-]abc/[0-9a-f-]{36}-bai-giang-1\.pdf$`)
	if !re.MatchString(key) {
		t.Fatalf("unexpected key: %s", key)
	}
	if ObjectKey("u", "a.pdf") == ObjectKey("u", "a.pdf") {
		t.Fatalf("keys must be unique per upload")
	}
}

func TestStatusOf(t *testing.T) {
	err := NewAppError(http.StatusTeapot, "teapot", errors.New("short and stout"))
	if StatusOf(err) != http.StatusTeapot {
		t.Fatalf("unexpected status: %d", StatusOf(err))
	}
	if StatusOf(errors.New("plain")) != http.StatusInternalServerError {
		t.Fatalf("plain errors map to 500")
	}
}
