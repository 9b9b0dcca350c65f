package requestresponse

import (
	"file-service/internal/model"
	"time"
)

// FileResponse : описывает файл для JSON-ответа
type FileResponse struct {
	ID           int64     `json:"id" example:"1"`
	Filename     string    `json:"filename" example:"0f8fad5b-d9cb-469f-a165-70867728950e.jpg"`
	OriginalName string    `json:"originalName" example:"photo.jpg"`
	Extension    string    `json:"extension" example:"jpg"`
	MimeType     string    `json:"mimeType" example:"image/jpeg"`
	Size         int64     `json:"size" example:"102400"`
	UploadDate   time.Time `json:"uploadDate" example:"2025-08-23T12:34:56Z"`
}

// FileResponseFromModel : конвертирует model.File в FileResponse
func FileResponseFromModel(file *model.File) FileResponse {
	return FileResponse{
		ID:           file.ID,
		Filename:     file.Filename,
		OriginalName: file.OriginalName,
		Extension:    file.Extension,
		MimeType:     file.MimeType,
		Size:         file.Size,
		UploadDate:   file.UploadDate,
	}
}

// ListFilesResponse : ответ API со списком файлов
type ListFilesResponse struct {
	Files      []FileResponse `json:"files"`
	Total      int            `json:"total" example:"42"`
	Page       int            `json:"page" example:"1"`
	PageSize   int            `json:"pageSize" example:"10"`
	TotalPages int            `json:"totalPages" example:"5"`
}

func ListFilesResponseFromPage(page *model.FilePage) ListFilesResponse {
	files := make([]FileResponse, 0, len(page.Files))
	for i := range page.Files {
		files = append(files, FileResponseFromModel(&page.Files[i]))
	}

	return ListFilesResponse{
		Files:      files,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
