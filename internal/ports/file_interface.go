package ports

import (
	"context"
	"file-service/internal/model"
	"io"
)

// FileRepository : SQL слой метаданных файлов
type FileRepository interface {
	Create(ctx context.Context, file *model.File) error
	FindByID(ctx context.Context, id, userID int64) (*model.File, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]model.File, int, error)
	Update(ctx context.Context, file *model.File) error
	Delete(ctx context.Context, id, userID int64) error
}

// CacheRepository : Redis слой
type CacheRepository interface {
	SetFile(ctx context.Context, file *model.File) error
	GetFile(ctx context.Context, id int64) (*model.File, error)
	DeleteFile(ctx context.Context, id int64) error
}

// ObjectStorage : хранилище содержимого файлов (S3)
type ObjectStorage interface {
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteObject(ctx context.Context, key string) error
}

type FileService interface {
	Upload(ctx context.Context, userID int64, upload *model.FileUpload) (*model.File, error)
	List(ctx context.Context, userID int64, pageSize, page int) (*model.FilePage, error)
	Get(ctx context.Context, userID, id int64) (*model.File, error)
	Download(ctx context.Context, userID, id int64) (*model.File, io.ReadCloser, error)
	Delete(ctx context.Context, userID, id int64) error
	Replace(ctx context.Context, userID, id int64, upload *model.FileUpload) (*model.File, error)
}
