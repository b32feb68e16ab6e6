package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadReceipt handles POST /v1/upload
// It saves a payment-receipt image to a local "uploads" folder and
// returns the URL for the registration or renewal form to reference.
func (h *Handlers) UploadReceipt(c *gin.Context) {
	// 1. Get the file from the request
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	// 2. Receipts must be images
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload an image file"})
		return
	}

	// 3. Create "uploads" directory if it doesn't exist
	uploadPath := "./uploads"
	if _, err := os.Stat(uploadPath); os.IsNotExist(err) {
		os.Mkdir(uploadPath, 0755)
	}

	// 4. Generate a safe unique filename (uuid + extension)
	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	savePath := filepath.Join(uploadPath, newFilename)

	// 5. Save the file
	if err := c.SaveUploadedFile(file, savePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	// 6. Return the public URL
	publicURL := fmt.Sprintf("%s/uploads/%s", h.Cfg.BaseURL, newFilename)

	c.JSON(http.StatusOK, gin.H{
		"url": publicURL,
	})
}
