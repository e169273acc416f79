package main

import (
	"bytes"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gatsolucoes/gat_backend/config"
	"github.com/gatsolucoes/gat_backend/utils"
)

type uploadSignRequest struct {
	FileName   string `json:"fileName"`
	MimeType   string `json:"mimeType"`
	Size       int64  `json:"size"`
	EntityType string `json:"entityType"`
	EntityId   int    `json:"entityId"`
}

type uploadCompleteRequest struct {
	ObjectKey string `json:"objectKey"`
}

const maxUploadSizeBytes int64 = 5 * 1024 * 1024

var imageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// inspections and maintenances carry photos and a signature image
var uploadEntities = map[string]bool{
	"inspections":  true,
	"maintenances": true,
	"equipments":   true,
}

// signUploadHandler issues a signed PUT URL so the mobile client uploads
// work order photos directly to the bucket.
func signUploadHandler(c *gin.Context) {
	logger := config.GetLogger()

	var req uploadSignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if req.FileName == "" || req.MimeType == "" || req.Size <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fileName, mimeType and size are required"})
		return
	}
	if req.Size > maxUploadSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
		return
	}
	if !imageMimeTypes[req.MimeType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
		return
	}

	entity := strings.ToLower(strings.TrimSpace(req.EntityType))
	if !uploadEntities[entity] {
		entity = "uploads"
	}

	ext := strings.ToLower(path.Ext(req.FileName))
	if ext == "" {
		ext = ".jpg"
	}
	objectKey := fmt.Sprintf("%s/%d/%s%s", entity, req.EntityId, uuid.NewString(), ext)

	signed, err := utils.SignUpload(c.Request.Context(), objectKey, req.MimeType, 15*time.Minute)
	if err != nil {
		config.LogError(logger, "uploads.go", "signUploadHandler", "SignUpload", objectKey, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign upload"})
		return
	}

	c.JSON(http.StatusOK, signed)
}

// completeUploadHandler confirms an upload and builds a 200px thumbnail
// next to the original object.
func completeUploadHandler(c *gin.Context) {
	logger := config.GetLogger()

	var req uploadCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.ObjectKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "objectKey is required"})
		return
	}
	if strings.Contains(req.ObjectKey, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid objectKey"})
		return
	}

	ctx := c.Request.Context()

	data, err := utils.DownloadFromGCS(ctx, req.ObjectKey)
	if err != nil {
		config.LogError(logger, "uploads.go", "completeUploadHandler", "DownloadFromGCS", req.ObjectKey, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded object not found"})
		return
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded object is not a valid image"})
		return
	}
	thumbnail := imaging.Resize(img, 200, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumbnail, imaging.JPEG); err != nil {
		config.LogError(logger, "uploads.go", "completeUploadHandler", "Encode thumbnail", req.ObjectKey, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build thumbnail"})
		return
	}

	ext := path.Ext(req.ObjectKey)
	thumbnailKey := strings.TrimSuffix(req.ObjectKey, ext) + "_thumb.jpg"
	if err := utils.UploadToGCS(ctx, thumbnailKey, "image/jpeg", buf.Bytes()); err != nil {
		config.LogError(logger, "uploads.go", "completeUploadHandler", "UploadToGCS", thumbnailKey, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store thumbnail"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"objectKey":          req.ObjectKey,
		"imageUrl":           utils.BuildObjectAccessURL(req.ObjectKey),
		"thumbnailObjectKey": thumbnailKey,
		"thumbnailUrl":       utils.BuildObjectAccessURL(thumbnailKey),
	})
}
