package testutil

import (
	"context"

	"github.com/pointward/backend/pkg/storage"
)

type MockStorage struct {
	UploadFunc func(context.Context, *storage.UploadObject) (*storage.UploadResponse, error)
}

func (m *MockStorage) Upload(
	ctx context.Context, obj *storage.UploadObject,
) (*storage.UploadResponse, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, obj)
	}

	return &storage.UploadResponse{
		Url:      "https://storage.example.com/" + obj.FileName,
		FileName: obj.FileName,
	}, nil
}
