package handler

import (
	"errors"
	"file-service/internal/model"
	"file-service/internal/model/requestresponse"
	"file-service/internal/ports"
	"file-service/internal/security"
	"file-service/internal/service"
	"file-service/internal/util"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const (
	defaultListSize = 10
	defaultPage     = 1
	// запас на заголовки multipart сверх лимита размера файла
	multipartOverhead = 1 << 20
)

type FileHandler struct {
	ports.FileService
	maxBytes int64
}

func NewFileHandler(fileService ports.FileService, maxBytes int64) *FileHandler {
	return &FileHandler{fileService, maxBytes}
}

// UploadFile godoc
// @Summary Загрузка файла
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Файл"
// @Success 201 {object} requestresponse.FileResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Файл не предоставлен или слишком большой"
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /file/upload [post]
func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	authContext, ok := requireAuth(w, r)
	if !ok {
		return
	}

	upload, cleanup, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer cleanup()

	file, err := h.FileService.Upload(r.Context(), authContext.UserID, upload)
	if err != nil {
		respondFileError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, requestresponse.FileResponseFromModel(file))
}

// ListFiles godoc
// @Summary Список файлов
// @Description Файлы текущего пользователя, новые первыми
// @Tags Files
// @Produce json
// @Param list_size query int false "Размер страницы" default(10)
// @Param page query int false "Номер страницы" default(1)
// @Success 200 {object} requestresponse.ListFilesResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректные параметры"
// @Failure 401 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /file/list [get]
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	authContext, ok := requireAuth(w, r)
	if !ok {
		return
	}

	listSize := queryInt(r, "list_size", defaultListSize)
	page := queryInt(r, "page", defaultPage)

	filePage, err := h.FileService.List(r.Context(), authContext.UserID, listSize, page)
	if err != nil {
		respondFileError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.ListFilesResponseFromPage(filePage))
}

// GetFile godoc
// @Summary Информация о файле
// @Tags Files
// @Produce json
// @Param id path int true "ID файла"
// @Success 200 {object} requestresponse.FileResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /file/{id} [get]
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	authContext, ok := requireAuth(w, r)
	if !ok {
		return
	}

	id, ok := fileID(w, r)
	if !ok {
		return
	}

	file, err := h.FileService.Get(r.Context(), authContext.UserID, id)
	if err != nil {
		respondFileError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.FileResponseFromModel(file))
}

// DownloadFile godoc
// @Summary Скачивание файла
// @Tags Files
// @Produce octet-stream
// @Param id path int true "ID файла"
// @Success 200 {file} file
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /file/download/{id} [get]
func (h *FileHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	authContext, ok := requireAuth(w, r)
	if !ok {
		return
	}

	id, ok := fileID(w, r)
	if !ok {
		return
	}

	file, body, err := h.FileService.Download(r.Context(), authContext.UserID, id)
	if err != nil {
		respondFileError(w, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(file.OriginalName)))
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		log.Printf("[FileHandler] ошибка отправки файла %d: %v", file.ID, err)
	}
}

// DeleteFile godoc
// @Summary Удаление файла
// @Tags Files
// @Produce json
// @Param id path int true "ID файла"
// @Success 200 {object} requestresponse.MessageResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /file/delete/{id} [delete]
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	authContext, ok := requireAuth(w, r)
	if !ok {
		return
	}

	id, ok := fileID(w, r)
	if !ok {
		return
	}

	if err := h.FileService.Delete(r.Context(), authContext.UserID, id); err != nil {
		respondFileError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.MessageResponse{Message: "Файл успешно удален"})
}

// UpdateFile godoc
// @Summary Замена файла
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "ID файла"
// @Param file formData file true "Новый файл"
// @Success 200 {object} requestresponse.FileResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /file/update/{id} [put]
func (h *FileHandler) UpdateFile(w http.ResponseWriter, r *http.Request) {
	authContext, ok := requireAuth(w, r)
	if !ok {
		return
	}

	id, ok := fileID(w, r)
	if !ok {
		return
	}

	upload, cleanup, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer cleanup()

	file, err := h.FileService.Replace(r.Context(), authContext.UserID, id, upload)
	if err != nil {
		respondFileError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.FileResponseFromModel(file))
}

// readUpload : файл из поля "file" multipart-формы с проверкой лимита размера
func (h *FileHandler) readUpload(w http.ResponseWriter, r *http.Request) (*model.FileUpload, func(), bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			util.HandleError(w, http.StatusBadRequest, "FILE_TOO_LARGE", "Файл слишком большой")
			return nil, nil, false
		}
		util.HandleError(w, http.StatusBadRequest, "NO_FILE", "Файл не предоставлен")
		return nil, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		util.HandleError(w, http.StatusBadRequest, "NO_FILE", "Файл не предоставлен")
		return nil, nil, false
	}

	if header.Size > h.maxBytes {
		file.Close()
		util.HandleError(w, http.StatusBadRequest, "FILE_TOO_LARGE", "Файл слишком большой")
		return nil, nil, false
	}

	return uploadFromHeader(file, header), func() {
		file.Close()
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}, true
}

func uploadFromHeader(file multipart.File, header *multipart.FileHeader) *model.FileUpload {
	return &model.FileUpload{
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		Size:         header.Size,
		Body:         file,
	}
}

func requireAuth(w http.ResponseWriter, r *http.Request) (*model.AuthContext, bool) {
	authContext, err := security.GetAuthContext(r.Context())
	if err != nil {
		security.RespondAuthError(w, security.ErrMissingCredential)
		return nil, false
	}
	return authContext, true
}

// fileID : нечисловой id обрабатывается как отсутствующий файл
func fileID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		util.HandleError(w, http.StatusNotFound, "FILE_NOT_FOUND", "Файл не найден")
		return 0, false
	}
	return id, true
}

// queryInt : пустое, нулевое или нечисловое значение заменяется значением по умолчанию
func queryInt(r *http.Request, name string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || value == 0 {
		return fallback
	}
	return value
}

func respondFileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidParams):
		util.HandleError(w, http.StatusBadRequest, "INVALID_PARAMS", "Параметры list_size и page должны быть положительными числами")
	case errors.Is(err, service.ErrFileNotFound):
		util.HandleError(w, http.StatusNotFound, "FILE_NOT_FOUND", "Файл не найден")
	case errors.Is(err, service.ErrFileNotInStorage):
		util.HandleError(w, http.StatusNotFound, "FILE_NOT_FOUND_ON_DISK", "Файл не найден на диске")
	default:
		log.Println(err)
		util.HandleError(w, http.StatusInternalServerError, "SERVER_ERROR", "Ошибка сервера")
	}
}
