// internal/services/storage_service_test.go
package services

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takabora/takabora-backend/internal/config"
)

func multipartPhoto(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("photos", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	require.NotEmpty(t, form.File["photos"])

	header := form.File["photos"][0]
	file, err := header.Open()
	require.NoError(t, err)
	return file, header
}

func localStorageService(t *testing.T) *StorageService {
	t.Helper()

	// No AWS credentials, so uploads land on the local disk.
	service, err := NewStorageService(&config.Config{
		Server: config.ServerConfig{Host: "localhost", Port: "8080"},
	})
	require.NoError(t, err)
	return service
}

func TestLocalUploadAndDelete(t *testing.T) {
	service := localStorageService(t)
	defer os.RemoveAll("uploads")

	file, header := multipartPhoto(t, "bottles.jpg", []byte("jpeg-bytes"))
	defer file.Close()

	result, err := service.UploadFile(file, header, ListingPhotoOptions())
	require.NoError(t, err)
	assert.Contains(t, result.URL, "/uploads/listings/")
	assert.Equal(t, result.Key, StorageKeyFromURL(result.URL))

	_, err = os.Stat(filepath.Join("uploads", result.Key))
	assert.NoError(t, err)

	require.NoError(t, service.DeleteFile(result.Key))
	_, err = os.Stat(filepath.Join("uploads", result.Key))
	assert.True(t, os.IsNotExist(err))
}

func TestUploadRejectsDisallowedFiles(t *testing.T) {
	service := localStorageService(t)

	file, header := multipartPhoto(t, "payload.exe", []byte("nope"))
	defer file.Close()
	_, err := service.UploadFile(file, header, ListingPhotoOptions())
	assert.Error(t, err)

	options := ListingPhotoOptions()
	options.MaxSize = 4
	big, bigHeader := multipartPhoto(t, "big.jpg", []byte("too large"))
	defer big.Close()
	_, err = service.UploadFile(big, bigHeader, options)
	assert.Error(t, err)
}

func TestStorageKeyFromURL(t *testing.T) {
	assert.Equal(t, "listings/abc.jpg",
		StorageKeyFromURL("http://localhost:8080/uploads/listings/abc.jpg"))
	assert.Equal(t, "listings/abc.jpg",
		StorageKeyFromURL("https://bucket.s3.us-east-1.amazonaws.com/listings/abc.jpg"))
	assert.Equal(t, "", StorageKeyFromURL("https://elsewhere.example.com/avatar.png"))
}
