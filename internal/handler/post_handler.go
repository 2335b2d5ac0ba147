package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/mux"

	"devconnector/internal/service"
	"devconnector/internal/storage"
)

type TextRequest struct {
	Text string `json:"text" validate:"required,notblank" msg:"Text is required"`
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req TextRequest
	if err := h.bind(r, &req); err != nil {
		h.writeAppError(w, r, err)
		return
	}

	post, err := h.PostService.Create(r.Context(), userID, req.Text)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, post, http.StatusOK)
}

// GetPosts returns every post, newest first.
func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.List(r.Context())
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, posts, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.PostService.Delete(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, MessageResponse{Msg: "Post removed"}, http.StatusOK)
}

func (h *Handlers) LikePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	likes, err := h.PostService.Like(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, likes, http.StatusOK)
}

func (h *Handlers) UnlikePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	likes, err := h.PostService.Unlike(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, likes, http.StatusOK)
}

func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req TextRequest
	if err := h.bind(r, &req); err != nil {
		h.writeAppError(w, r, err)
		return
	}

	comments, err := h.PostService.AddComment(r.Context(), userID, mux.Vars(r)["id"], req.Text)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, comments, http.StatusOK)
}

// DeleteComment answers with the comments left on the post.
func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	comments, err := h.PostService.DeleteComment(r.Context(), userID, vars["id"], vars["comment_id"])
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, comments, http.StatusOK)
}

// UploadImage attaches one image from the multipart field "image". The
// type is sniffed from the content, not taken from the part header.
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadSize)
	if err := r.ParseMultipartForm(h.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			WriteError(w, fmt.Sprintf("File too large (max %d MB)", h.MaxUploadSize/(1024*1024)), http.StatusRequestEntityTooLarge)
			return
		}
		WriteError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, "Image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		WriteError(w, "Could not read image", http.StatusBadRequest)
		return
	}
	if _, ok := storage.ImageExtension(mtype.String()); !ok {
		WriteError(w, "Unsupported file type. Allowed: JPEG, PNG, GIF, WebP", http.StatusBadRequest)
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		h.writeAppError(w, r, err)
		return
	}

	image, err := h.PostService.AddImage(r.Context(), userID, mux.Vars(r)["id"], service.ImageUpload{
		FileName:    header.Filename,
		ContentType: mtype.String(),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, image, http.StatusCreated)
}

func (h *Handlers) DeleteImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	images, err := h.PostService.DeleteImage(r.Context(), userID, vars["id"], vars["image_id"])
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}
	writeSuccess(w, images, http.StatusOK)
}
