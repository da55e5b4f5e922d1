package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a multipart header the way echo's FormFile would.
func fileHeader(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File[field][0]
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 255, A: 255})
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestSaveImageResizesWideImages(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorage(dir, t.TempDir())

	url, err := storage.SaveImage(fileHeader(t, "image", "photo.png", pngBytes(t, 2400, 100)), "products")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/products/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	saved, err := imaging.Open(filepath.Join(dir, "products", filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, maxImageWidth, saved.Bounds().Dx())
	assert.Equal(t, 50, saved.Bounds().Dy())
}

func TestSaveImageRejectsBadInput(t *testing.T) {
	storage := NewStorage(t.TempDir(), t.TempDir())

	_, err := storage.SaveImage(fileHeader(t, "image", "notes.txt", []byte("hi")), "products")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = storage.SaveImage(fileHeader(t, "image", "fake.png", []byte("not a png")), "products")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestSaveAttachmentStaysPrivate(t *testing.T) {
	public, private := t.TempDir(), t.TempDir()
	storage := NewStorage(public, private)

	name, err := storage.SaveAttachment(fileHeader(t, "file", "receipt.pdf", []byte("%PDF-1.4")), "expenses")
	require.NoError(t, err)
	assert.Equal(t, name, filepath.Base(name))

	path, err := storage.PrivateFile("expenses", name)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(private, "expenses", name), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	_, err = os.Stat(filepath.Join(public, "expenses", name))
	assert.True(t, os.IsNotExist(err))
}

func TestPrivateFileRejectsTraversal(t *testing.T) {
	storage := NewStorage(t.TempDir(), t.TempDir())

	for _, name := range []string{"", "..", "../secret.pdf", "a/b.pdf", ".hidden", "missing.pdf"} {
		_, err := storage.PrivateFile("expenses", name)
		assert.True(t, apperrors.IsNotFound(err), name)
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "Books & Co", SanitizeInput("  Books & Co\n"))
	assert.Equal(t, "hello", SanitizeInput("hello<script>alert(1)</script>"))
	assert.Equal(t, []string{"a", "b"}, SanitizeStringArray([]string{" a ", "", "b"}))
	assert.Nil(t, SanitizeOptional(nil))
}
