package handler

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"places-service/internal/adapter/gin/middleware"
	apperrors "places-service/pkg/errors"
)

// ImageSaver stores uploaded images and returns their path.
type ImageSaver interface {
	Save(fh *multipart.FileHeader) (string, error)
}

var (
	errInvalidInputs = apperrors.NewValidationError("", "Invalid inputs passed, please check your data.")
	errNoImage       = apperrors.NewValidationError("", "No image provided.")
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse is a body carrying only a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// fail hands err to the error handler middleware and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// saveUpload stores the "image" form file and records it so a failed
// request can clean it up.
func saveUpload(c *gin.Context, images ImageSaver) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", errNoImage
	}
	path, err := images.Save(fh)
	if err != nil {
		return "", err
	}
	c.Set(middleware.UploadedFileKey, path)
	return path, nil
}
