package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// Base URL for serving files
	baseURL = "/uploads"
	// Maximum file size (10MB)
	maxFileSize = 10 * 1024 * 1024
	// Images wider than this are scaled down on upload
	maxImageWidth = 1200
)

var (
	allowedImageExts = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
	}
	allowedAttachmentExts = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".pdf":  true,
	}
)

// Storage keeps uploaded files on local disk. Files under baseDir are public
// and served from /uploads; files under privateDir are only reachable
// through handlers that check ownership.
type Storage struct {
	baseDir    string
	privateDir string
}

func NewStorage(baseDir, privateDir string) *Storage {
	return &Storage{baseDir: baseDir, privateDir: privateDir}
}

func (s *Storage) BaseDir() string {
	return s.baseDir
}

// InitializeStorage creates necessary directories for file storage
func (s *Storage) InitializeStorage() error {
	for _, dir := range []string{filepath.Join(s.baseDir, "products"), filepath.Join(s.privateDir, "expenses")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// SaveImage decodes an uploaded image, scales it down to maxImageWidth when
// wider, and stores it under subDir with a random name. It returns the
// public URL.
func (s *Storage) SaveImage(file *multipart.FileHeader, subDir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", apperrors.Validation("unsupported image format. Allowed formats: jpg, jpeg, png, gif")
	}
	data, err := readUpload(file)
	if err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", apperrors.Validation("file is not a valid image")
	}
	if img.Bounds().Dx() > maxImageWidth {
		img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	}

	name := uuid.NewString() + ext
	fullPath, err := prepare(s.baseDir, subDir, name)
	if err != nil {
		return "", err
	}
	if err := imaging.Save(img, fullPath); err != nil {
		return "", fmt.Errorf("failed to save image %s: %w", fullPath, err)
	}
	return s.url(subDir, name), nil
}

// SaveAttachment stores an image or PDF as-is under subDir of the private
// root and returns the generated file name.
func (s *Storage) SaveAttachment(file *multipart.FileHeader, subDir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedAttachmentExts[ext] {
		return "", apperrors.Validation("unsupported attachment format. Allowed formats: jpg, jpeg, png, gif, pdf")
	}
	data, err := readUpload(file)
	if err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	fullPath, err := prepare(s.privateDir, subDir, name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(fullPath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}
	return name, nil
}

// PrivateFile resolves a name returned by SaveAttachment to its path on
// disk. Names that are not a bare file name are rejected.
func (s *Storage) PrivateFile(subDir, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", apperrors.NotFound("Attachment %s not found", name)
	}
	fullPath := filepath.Join(s.privateDir, filepath.Clean("/"+subDir), name)
	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		return "", apperrors.NotFound("Attachment %s not found", name)
	}
	return fullPath, nil
}

func prepare(root, subDir, name string) (string, error) {
	dir := filepath.Join(root, filepath.Clean("/"+subDir))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return filepath.Join(dir, name), nil
}

func (s *Storage) url(subDir, name string) string {
	return fmt.Sprintf("%s/%s/%s", baseURL, strings.Trim(subDir, "/"), name)
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	if file.Size > maxFileSize {
		return nil, apperrors.Validation("file too large. Maximum size is %d bytes", maxFileSize)
	}
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxFileSize {
		return nil, apperrors.Validation("file too large. Maximum size is %d bytes", maxFileSize)
	}
	return data, nil
}
