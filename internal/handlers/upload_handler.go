package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/01moynul/strongx-golang/internal/apperrors"
)

// MaxUploadBytes caps a single profile image.
const MaxUploadBytes = 5 << 20

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Uploader stores profile images on local disk and hands back a public URL.
type Uploader struct {
	Dir     string
	BaseURL string
}

// UploadFile handles POST /api/uploads
// It saves the image to the uploads folder and returns the URL to put in
// a member, staff or trainer profileImage.
func (u Uploader) UploadFile(c *gin.Context) {
	// 1. Get the file from the request
	file, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(apperrors.Validation("No file uploaded"))
		return
	}
	if file.Size > MaxUploadBytes {
		_ = c.Error(apperrors.Validation("File is larger than 5 MB"))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		_ = c.Error(apperrors.Validation("Only jpg, png and webp images are allowed"))
		return
	}

	// 2. Create the uploads directory if it doesn't exist
	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		_ = c.Error(apperrors.Internal("Failed to prepare upload directory", err))
		return
	}

	// 3. Generate a safe unique filename (uuid + extension)
	newFilename := uuid.NewString() + ext
	savePath := filepath.Join(u.Dir, newFilename)

	// 4. Save the file
	if err := c.SaveUploadedFile(file, savePath); err != nil {
		_ = c.Error(apperrors.Internal("Failed to save file", err))
		return
	}

	// 5. Return the public URL
	publicURL := fmt.Sprintf("%s/uploads/%s", strings.TrimRight(u.BaseURL, "/"), newFilename)
	c.JSON(http.StatusCreated, gin.H{"url": publicURL})
}
