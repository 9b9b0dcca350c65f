package model

import (
	"io"
	"time"
)

type File struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	Filename     string    `db:"filename" json:"filename"`
	OriginalName string    `db:"original_name" json:"original_name"`
	Extension    string    `db:"extension" json:"extension"`
	MimeType     string    `db:"mime_type" json:"mime_type"`
	Size         int64     `db:"size" json:"size"`
	StorageKey   string    `db:"storage_key" json:"storage_key"`
	UploadDate   time.Time `db:"upload_date" json:"upload_date"`
}

// FilePage : страница списка файлов
type FilePage struct {
	Files      []File
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// FileUpload : входные данные для загрузки или замены файла
type FileUpload struct {
	OriginalName string
	MimeType     string
	Size         int64
	Body         io.Reader
}
