package service

import (
	"context"
	"errors"
	"file-service/internal/model"
	"file-service/internal/ports"
	"file-service/internal/util"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	ErrFileNotFound     = errors.New("файл не найден")
	ErrFileNotInStorage = errors.New("файл не найден в хранилище")
	ErrInvalidParams    = errors.New("параметры list_size и page должны быть положительными числами")
)

type FileService struct {
	fileRepository  ports.FileRepository
	cacheRepository ports.CacheRepository
	storage         ports.ObjectStorage
}

func NewFileService(
	fileRepository ports.FileRepository,
	cacheRepository ports.CacheRepository,
	storage ports.ObjectStorage,
) *FileService {
	return &FileService{
		fileRepository:  fileRepository,
		cacheRepository: cacheRepository,
		storage:         storage,
	}
}

// Upload : кладёт содержимое в объектное хранилище, затем сохраняет метаданные
func (s *FileService) Upload(ctx context.Context, userID int64, upload *model.FileUpload) (*model.File, error) {
	file := newFileRecord(userID, upload)

	if err := s.storage.PutObject(ctx, file.StorageKey, upload.Body, upload.Size, file.MimeType); err != nil {
		return nil, util.LogError("[FileService] не удалось загрузить файл в хранилище", err)
	}

	if err := s.fileRepository.Create(ctx, file); err != nil {
		if delErr := s.storage.DeleteObject(ctx, file.StorageKey); delErr != nil {
			log.Printf("[FileService] не удалось удалить осиротевший объект %s: %v", file.StorageKey, delErr)
		}
		return nil, util.LogError("[FileService] не удалось сохранить файл в БД", err)
	}

	log.Printf("[FileService] файл %s успешно загружен", file.OriginalName)
	return file, nil
}

// List : страница файлов пользователя, pageSize и page начинаются с 1
func (s *FileService) List(ctx context.Context, userID int64, pageSize, page int) (*model.FilePage, error) {
	if pageSize < 1 || page < 1 {
		return nil, ErrInvalidParams
	}

	files, total, err := s.fileRepository.List(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, util.LogError("[FileService] не удалось получить список файлов", err)
	}

	return &model.FilePage{
		Files:      files,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// Get : метаданные из кэша Redis, при промахе из БД с последующим кэшированием
func (s *FileService) Get(ctx context.Context, userID, id int64) (*model.File, error) {
	cached, err := s.cacheRepository.GetFile(ctx, id)
	if err != nil {
		log.Printf("[FileService] ошибка кэширования: %v", err)
	}
	if cached != nil && cached.UserID == userID {
		return cached, nil
	}

	file, err := s.fileRepository.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, util.LogError("[FileService] не удалось получить файл", err)
	}

	if err := s.cacheRepository.SetFile(ctx, file); err != nil {
		log.Printf("[FileService] ошибка кэширования файла: %v", err)
	}

	return file, nil
}

func (s *FileService) Download(ctx context.Context, userID, id int64) (*model.File, io.ReadCloser, error) {
	file, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	body, err := s.storage.GetObject(ctx, file.StorageKey)
	if err != nil {
		if errors.Is(err, model.ErrObjectNotFound) {
			return nil, nil, ErrFileNotInStorage
		}
		return nil, nil, util.LogError("[FileService] не удалось получить содержимое файла", err)
	}

	return file, body, nil
}

// Delete : удаляет метаданные, затем объект; отсутствие объекта в хранилище только логируется
func (s *FileService) Delete(ctx context.Context, userID, id int64) error {
	file, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.fileRepository.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return ErrFileNotFound
		}
		return util.LogError("[FileService] не удалось удалить файл", err)
	}

	s.evict(ctx, id)

	if err := s.storage.DeleteObject(ctx, file.StorageKey); err != nil {
		log.Printf("[FileService] файл не найден в хранилище: %s", file.StorageKey)
	}

	return nil
}

// Replace : заменяет содержимое и метаданные файла, старый объект удаляется
func (s *FileService) Replace(ctx context.Context, userID, id int64, upload *model.FileUpload) (*model.File, error) {
	oldFile, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	file := newFileRecord(userID, upload)
	file.ID = oldFile.ID

	if err := s.storage.PutObject(ctx, file.StorageKey, upload.Body, upload.Size, file.MimeType); err != nil {
		return nil, util.LogError("[FileService] не удалось загрузить файл в хранилище", err)
	}

	if err := s.fileRepository.Update(ctx, file); err != nil {
		if delErr := s.storage.DeleteObject(ctx, file.StorageKey); delErr != nil {
			log.Printf("[FileService] не удалось удалить осиротевший объект %s: %v", file.StorageKey, delErr)
		}
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, util.LogError("[FileService] не удалось обновить файл", err)
	}

	s.evict(ctx, id)

	if err := s.storage.DeleteObject(ctx, oldFile.StorageKey); err != nil {
		log.Printf("[FileService] старый файл не найден в хранилище: %s", oldFile.StorageKey)
	}

	return file, nil
}

func (s *FileService) evict(ctx context.Context, id int64) {
	if err := s.cacheRepository.DeleteFile(ctx, id); err != nil {
		log.Printf("[FileService] не удалось удалить файл из кэша: %v", err)
	}
}

// newFileRecord : уникальное имя файла на сервере и ключ объекта, упорядоченный по времени загрузки
func newFileRecord(userID int64, upload *model.FileUpload) *model.File {
	now := time.Now().UTC()
	ext := filepath.Ext(upload.OriginalName)

	mimeType := upload.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return &model.File{
		UserID:       userID,
		Filename:     uuid.New().String() + ext,
		OriginalName: upload.OriginalName,
		Extension:    strings.TrimPrefix(ext, "."),
		MimeType:     mimeType,
		Size:         upload.Size,
		StorageKey:   fmt.Sprintf("users/%d/files/%s%s", userID, ulid.Make().String(), ext),
		UploadDate:   now,
	}
}
