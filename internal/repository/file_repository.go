package repository

import (
	"context"
	"database/sql"
	"errors"
	"file-service/config"
	"file-service/internal/model"
	"file-service/internal/util"
)

const fileColumns = `id, user_id, filename, original_name, extension, mime_type, size, storage_key, upload_date`

type FileRepository struct {
	*config.Database
}

func NewFileRepository(database *config.Database) *FileRepository {
	return &FileRepository{database}
}

func (r *FileRepository) Create(ctx context.Context, file *model.File) error {
	query := `INSERT INTO files (user_id, filename, original_name, extension, mime_type, size, storage_key, upload_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := insertReturningID(ctx, r.DB, query,
		file.UserID,
		file.Filename,
		file.OriginalName,
		file.Extension,
		file.MimeType,
		file.Size,
		file.StorageKey,
		file.UploadDate,
	)
	if err != nil {
		return util.LogError("[FileRepo] ошибка вставки данных в БД", err)
	}

	file.ID = id
	return nil
}

// FindByID : файл пользователя; чужой файл неотличим от отсутствующего
func (r *FileRepository) FindByID(ctx context.Context, id, userID int64) (*model.File, error) {
	query := r.Rebind(`SELECT ` + fileColumns + ` FROM files WHERE id = ? AND user_id = ?`)

	var file model.File
	if err := r.GetContext(ctx, &file, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, util.LogError("[FileRepo] ошибка поиска файла", err)
	}
	return &file, nil
}

// List : страница файлов пользователя, новые первыми, и общее количество
func (r *FileRepository) List(ctx context.Context, userID int64, limit, offset int) ([]model.File, int, error) {
	var total int
	countQuery := r.Rebind(`SELECT COUNT(*) FROM files WHERE user_id = ?`)
	if err := r.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, util.LogError("[FileRepo] не удалось посчитать файлы", err)
	}

	query := r.Rebind(`SELECT ` + fileColumns + ` FROM files
		WHERE user_id = ?
		ORDER BY upload_date DESC, id DESC
		LIMIT ? OFFSET ?`)

	files := []model.File{}
	if err := r.SelectContext(ctx, &files, query, userID, limit, offset); err != nil {
		return nil, 0, util.LogError("[FileRepo] не удалось получить список файлов", err)
	}

	return files, total, nil
}

func (r *FileRepository) Update(ctx context.Context, file *model.File) error {
	query := r.Rebind(`UPDATE files
		SET filename = ?, original_name = ?, extension = ?, mime_type = ?, size = ?, storage_key = ?, upload_date = ?
		WHERE id = ? AND user_id = ?`)

	result, err := r.ExecContext(ctx, query,
		file.Filename,
		file.OriginalName,
		file.Extension,
		file.MimeType,
		file.Size,
		file.StorageKey,
		file.UploadDate,
		file.ID,
		file.UserID,
	)
	if err != nil {
		return util.LogError("[FileRepo] не удалось обновить файл", err)
	}

	return requireAffected(result)
}

func (r *FileRepository) Delete(ctx context.Context, id, userID int64) error {
	query := r.Rebind(`DELETE FROM files WHERE id = ? AND user_id = ?`)

	result, err := r.ExecContext(ctx, query, id, userID)
	if err != nil {
		return util.LogError("[FileRepo] не удалось удалить файл", err)
	}

	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[FileRepo] не удалось проверить количество изменённых строк", err)
	}
	if rowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
