package uploads

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"smp_go/internal/httputil"
	"smp_go/internal/middleware"
	"smp_go/models"
	"smp_go/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Допустимые типы содержимого и соответствующий им тип медиа.
var allowedMIME = map[string]string{
	"image/jpeg": models.MediaTypeImage,
	"image/png":  models.MediaTypeImage,
	"image/gif":  models.MediaTypeImage,
	"image/webp": models.MediaTypeImage,
	"video/mp4":  models.MediaTypeVideo,
	"video/webm": models.MediaTypeVideo,
}

type UploadHandler struct {
	DB      *storage.DB
	Dir     string
	MaxSize int64
}

func NewHandler(db *storage.DB, dir string, maxSizeMB int64) *UploadHandler {
	return &UploadHandler{DB: db, Dir: dir, MaxSize: maxSizeMB << 20}
}

// Upload принимает файл и прикрепляет его к посту автора.
// Имя файла на диске — UUID: оригинальное имя не попадает в файловую систему.
func (h *UploadHandler) Upload(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		httputil.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	postID, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		httputil.RespondError(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	post, err := h.DB.GetPostByID(postID)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.RespondError(c, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		log.Printf("[UPLOADS ERROR] Проверка поста %d: %v", postID, err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to upload")
		return
	}
	if post.UserID != userID {
		httputil.RespondError(c, http.StatusForbidden, "Not the post owner")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		httputil.RespondError(c, http.StatusBadRequest, "File is required")
		return
	}
	if file.Size > h.MaxSize {
		httputil.RespondError(c, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File exceeds %d MB limit", h.MaxSize>>20))
		return
	}

	mediaType, ok := allowedMIME[file.Header.Get("Content-Type")]
	if !ok {
		httputil.RespondError(c, http.StatusUnsupportedMediaType, "Unsupported file type")
		return
	}

	filename := uuid.NewString() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(h.Dir, filename)); err != nil {
		log.Printf("[UPLOADS ERROR] Сохранение файла: %v", err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to save file")
		return
	}

	media, err := h.DB.AddMedia(models.Media{
		PostID:    postID,
		MediaType: mediaType,
		URL:       "/files/" + filename,
	})
	if err != nil {
		log.Printf("[UPLOADS ERROR] Привязка медиа к посту %d: %v", postID, err)
		httputil.RespondError(c, http.StatusInternalServerError, "Failed to save file")
		return
	}

	log.Printf("[UPLOADS] Файл %s прикреплён к посту %d", filename, postID)
	c.JSON(http.StatusCreated, media)
}
