package upload

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	apperrors "github.com/familyone/factory-ops/internal"
	"github.com/familyone/factory-ops/pkg/logger"
)

// safeName is the only filename shape the store will ever touch on disk.
var safeName = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

var dataURL = regexp.MustCompile(`^data:(.*?);base64,(.*)$`)

// Store writes uploaded blobs under a single directory and serves them by
// url path /uploads/<name>. Every delete is audit-logged.
type Store struct {
	dir      string
	maxBytes int64
	audit    *AuditLog
	logger   *slog.Logger
}

func NewStore(dir string, maxBytes int64, audit *AuditLog) *Store {
	return &Store{
		dir:      dir,
		maxBytes: maxBytes,
		audit:    audit,
		logger:   logger.LoggerWrapper(),
	}
}

func (s *Store) Dir() string {
	return s.dir
}

// SaveBase64 decodes a data-URL or raw base64 payload and writes it under a
// unique name derived from the provided filename.
func (s *Store) SaveBase64(filename, data string) (string, error) {
	b64 := data
	ext := "bin"
	if m := dataURL.FindStringSubmatch(data); m != nil {
		b64 = m[2]
		if parts := strings.SplitN(m[1], "/", 2); len(parts) == 2 && parts[1] != "" {
			ext = parts[1]
		}
	}

	provided := unsafeChars.ReplaceAllString(filename, "")
	if provided == "" {
		provided = "upload." + ext
	}
	finalName := uniqueName(provided)

	payload, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", apperrors.NewValidationError("invalid base64 data", apperrors.ErrCodeInvalidPayload)
	}
	if s.maxBytes > 0 && int64(len(payload)) > s.maxBytes {
		s.audit.Log(fmt.Sprintf("UPLOAD REJECT too large %s", finalName))
		return "", apperrors.NewPayloadTooLargeError("Payload too large", apperrors.ErrCodeUploadTooLarge)
	}

	path := filepath.Join(s.dir, finalName)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		s.audit.Log(fmt.Sprintf("UPLOAD FAIL %s %v", finalName, err))
		return "", apperrors.NewInternalError("Failed to save file", err).WithCause(err)
	}

	s.audit.Log(fmt.Sprintf("UPLOAD OK %s", finalName))
	return "/uploads/" + finalName, nil
}

// SaveStream copies a raw body to disk, enforcing the size cap as it goes. A
// partial file left by a failed or oversized upload is removed.
func (s *Store) SaveStream(filename, contentType string, body io.Reader, contentLength int64) (string, error) {
	ext := extForContentType(contentType)
	base := unsafeChars.ReplaceAllString(filename, "")
	if base == "" {
		base = "upload." + ext
	}
	finalName := uniqueName(base)

	if s.maxBytes > 0 && contentLength > s.maxBytes {
		s.audit.Log(fmt.Sprintf("STREAM REJECT length>%d name=%s", s.maxBytes, base))
		return "", apperrors.NewPayloadTooLargeError("Payload too large", apperrors.ErrCodeUploadTooLarge)
	}

	path := filepath.Join(s.dir, finalName)
	f, err := os.Create(path)
	if err != nil {
		s.audit.Log(fmt.Sprintf("STREAM EXC %s %v", finalName, err))
		return "", apperrors.NewInternalError("Failed to init stream", err)
	}

	reader := body
	if s.maxBytes > 0 {
		reader = io.LimitReader(body, s.maxBytes+1)
	}

	written, err := io.Copy(f, reader)
	closeErr := f.Close()

	if err != nil || closeErr != nil {
		os.Remove(path)
		s.audit.Log(fmt.Sprintf("STREAM FAIL %s", finalName))
		return "", apperrors.NewInternalError("Failed to save file", err)
	}
	if s.maxBytes > 0 && written > s.maxBytes {
		os.Remove(path)
		s.audit.Log(fmt.Sprintf("STREAM ABORT too large name=%s", base))
		return "", apperrors.NewPayloadTooLargeError("Payload too large", apperrors.ErrCodeUploadTooLarge)
	}

	s.audit.Log(fmt.Sprintf("STREAM OK %s %db", finalName, written))
	return "/uploads/" + finalName, nil
}

// DeleteByURL removes the blob behind a /uploads/ url. Anything that does
// not resolve to a safe name inside the uploads dir is ignored; failures are
// logged and swallowed.
func (s *Store) DeleteByURL(url string) {
	name := blobName(url)
	if name == "" || !safeName.MatchString(name) {
		return
	}

	path := filepath.Join(s.dir, name)
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || rel == "" || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return
	}

	if err := os.Remove(path); err != nil {
		s.audit.Log(fmt.Sprintf("DELETE FAIL %s %v", name, err))
		return
	}
	s.audit.Log(fmt.Sprintf("DELETE OK %s", name))
}

// blobName strips the /uploads/ prefix; other urls are not ours.
func blobName(url string) string {
	switch {
	case strings.HasPrefix(url, "/uploads/"):
		return strings.TrimPrefix(url, "/uploads/")
	case strings.HasPrefix(url, "uploads/"):
		return strings.TrimPrefix(url, "uploads/")
	}
	return ""
}

// uniqueName appends a timestamp+random token before the extension so
// repeated uploads of the same filename never collide.
func uniqueName(base string) string {
	name, ext := base, ""
	if dot := strings.LastIndex(base, "."); dot > 0 {
		name, ext = base[:dot], base[dot:]
	}
	token := fmt.Sprintf("%d_%06x", time.Now().UnixMilli(), rand.Intn(1<<24))
	return name + "_" + token + ext
}

func extForContentType(contentType string) string {
	ct := strings.TrimSpace(strings.Split(contentType, ";")[0])
	switch ct {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	}
	return "bin"
}
