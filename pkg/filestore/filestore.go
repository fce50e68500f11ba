// Package filestore persists uploaded profile photos on the local
// filesystem and hands back the reference string stored as photo_url.
package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const MaxFileSize = 5 << 20 // 5 MB

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type ErrInvalidFile struct {
	Reason string
}

func (e *ErrInvalidFile) Error() string {
	return "invalid file: " + e.Reason
}

type Store struct {
	dir     string
	baseURL string
}

// New creates the upload directory if needed. baseURL is the public prefix
// under which files are served, e.g. "/uploads".
func New(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save writes the photo under a name unique per user and returns its public
// URL. Size and extension are validated before anything touches disk.
func (s *Store) Save(userID int64, filename string, r io.Reader, size int64) (string, error) {
	if size <= 0 {
		return "", &ErrInvalidFile{Reason: "file is empty"}
	}
	if size > MaxFileSize {
		return "", &ErrInvalidFile{Reason: fmt.Sprintf("file exceeds %d bytes", MaxFileSize)}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", &ErrInvalidFile{Reason: "extension must be one of .jpg, .jpeg, .png, .webp"}
	}

	name := fmt.Sprintf("%d_%d%s", userID, time.Now().UnixMilli(), ext)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.CopyN(f, r, size); err != nil && err != io.EOF {
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}

	return s.baseURL + "/" + name, nil
}

// Remove deletes a previously saved photo given its public URL. URLs that do
// not point inside the store are ignored.
func (s *Store) Remove(photoURL string) error {
	if !strings.HasPrefix(photoURL, s.baseURL+"/") {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(photoURL, s.baseURL+"/"))
	if name == "." || name == ".." || name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
