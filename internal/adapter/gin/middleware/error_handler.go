package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "places-service/pkg/errors"
	"places-service/pkg/logger"
)

// UploadedFileKey holds the stored path of the current request's upload.
const UploadedFileKey = "uploadedFile"

// FileRemover deletes stored uploads.
type FileRemover interface {
	Remove(path string) error
}

// ErrorHandler is the single responder for failed requests. Handlers record
// the error with c.Error; the last one decides status and message. The
// upload of a failed or panicking request is removed. Responses already
// written are left alone. Panics are re-raised for Recovery.
func ErrorHandler(files FileRemover, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				removeUpload(c, files, log)
				panic(r)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		reqLog := logger.WithContext(c.Request.Context(), log)
		removeUpload(c, files, log)

		err := c.Errors.Last().Err
		if c.Writer.Written() {
			reqLog.Warn("error after response was written", zap.Error(err))
			return
		}

		status, msg := apperrors.StatusAndMessage(err)
		if status >= 500 {
			reqLog.Error("request failed", zap.Int("status", status), zap.Error(err))
		}
		c.JSON(status, gin.H{"message": msg})
	}
}

func removeUpload(c *gin.Context, files FileRemover, log *zap.Logger) {
	path := c.GetString(UploadedFileKey)
	if path == "" || files == nil {
		return
	}
	if err := files.Remove(path); err != nil {
		logger.WithContext(c.Request.Context(), log).Warn("failed to remove upload of failed request",
			zap.String("path", path), zap.Error(err))
	}
}

// NotFound answers unmatched routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apperrors.NewNotFoundError("route", "Could not find this route."))
	}
}
