package service

import (
	"context"
	"io"
)

// FileUploadService stores item media and returns its public URL.
type FileUploadService interface {
	UploadFile(ctx context.Context, file io.Reader, fileName, contentType, folder string) (string, error)
	Close() error
}
