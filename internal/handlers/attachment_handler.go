package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pairlink/pairlink-backend/internal/httpx"
	"github.com/pairlink/pairlink-backend/internal/storage"
)

// AttachmentHandler uploads files to object storage ahead of the message that
// references them. Upload and send are separate steps so the same descriptor
// works over both the HTTP and the room event path.
type AttachmentHandler struct {
	files *storage.FileStore
}

func NewAttachmentHandler(files *storage.FileStore) *AttachmentHandler {
	return &AttachmentHandler{files: files}
}

func (h *AttachmentHandler) Upload(c *fiber.Ctx) error {
	if _, err := httpx.LocalUint(c, "userID"); err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	if h.files == nil {
		return httpx.Error(c, fiber.StatusServiceUnavailable, "storage_unavailable", "File storage is not configured")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return httpx.BadRequest(c, "missing_file", "A file field is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return httpx.Internal(c, "open_upload_failed")
	}
	defer src.Close()

	attachment, err := h.files.Store(c.Context(), src, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrFileTooLarge):
			return httpx.PayloadTooLarge(c, "file_too_large", "File exceeds the maximum allowed size")
		case errors.Is(err, storage.ErrUnsupportedFileType):
			return httpx.UnsupportedMediaType(c, "unsupported_file_type", "File type is not allowed")
		default:
			return httpx.Internal(c, "store_file_failed")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(attachment)
}

func (h *AttachmentHandler) Download(c *fiber.Ctx) error {
	if _, err := httpx.LocalUint(c, "userID"); err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}
	if h.files == nil {
		return httpx.Error(c, fiber.StatusServiceUnavailable, "storage_unavailable", "File storage is not configured")
	}

	// The wildcard carries the full object key, e.g. attachments/<uuid>.png.
	key := c.Params("*")
	if key == "" || strings.Contains(key, "..") {
		return httpx.BadRequest(c, "invalid_path", "Invalid attachment path")
	}

	obj, stat, err := h.files.Open(c.Context(), key)
	if err != nil {
		return httpx.NotFound(c, "attachment_not_found", "Attachment not found")
	}

	c.Set(fiber.HeaderContentType, stat.ContentType)
	if stat.ETag != "" {
		c.Set(fiber.HeaderETag, stat.ETag)
	}
	return c.SendStream(obj, int(stat.Size))
}
