package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	commonhttp "github.com/akarpov/content-api/internal/common/http"
	"github.com/akarpov/content-api/internal/common/jwtverify"
	"github.com/akarpov/content-api/internal/common/logger"
	"github.com/akarpov/content-api/internal/post/domain"
	"github.com/akarpov/content-api/internal/post/service"
)

type postRequest struct {
	Name    string `json:"name" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type postResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(post domain.Post) postResponse {
	return postResponse{
		ID:        string(post.ID),
		Name:      post.Name,
		Content:   post.Content,
		CreatedBy: string(post.CreatedBy),
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

type Handler struct {
	posts    *service.PostService
	validate *validator.Validate
	log      *logger.Logger

	create http.HandlerFunc
	update http.HandlerFunc
	remove http.HandlerFunc
}

func NewHandler(posts *service.PostService, guard *jwtverify.Guard, log *logger.Logger) *Handler {
	h := &Handler{
		posts:    posts,
		validate: validator.New(),
		log:      log,
	}

	// Reads are public; every mutation goes through the guard.
	h.create = guard.Require(h.handleCreate)
	h.update = guard.Require(h.handleUpdate)
	h.remove = guard.Require(h.handleDelete)

	return h
}

func (h *Handler) Mount(mux *http.ServeMux) {
	mux.HandleFunc("/api/posts", h.collection)
	mux.HandleFunc("/api/posts/", h.item)
}

func (h *Handler) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) item(w http.ResponseWriter, r *http.Request) {
	id, ok := extractPostID(r.URL.Path)
	if !ok {
		commonhttp.WriteError(w, http.StatusNotFound, "post not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, id)
	case http.MethodPut:
		h.update(w, r)
	case http.MethodDelete:
		h.remove(w, r)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context(), r.URL.Query().Get("createdBy"))
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	responses := make([]postResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, toResponse(post))
	}

	commonhttp.WriteJSON(w, http.StatusOK, responses)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request, id domain.ID) {
	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toResponse(post))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := jwtverify.UserFromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "authentication failed")
		return
	}

	var req postRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("create post failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "please provide all the fields")
		return
	}

	post, err := h.posts.Create(r.Context(), user, service.CreateInput{
		Name:    req.Name,
		Content: req.Content,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toResponse(post))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, _ := extractPostID(r.URL.Path)

	user, ok := jwtverify.UserFromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "authentication failed")
		return
	}

	var req postRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("update post failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "please provide all the fields")
		return
	}

	post, err := h.posts.Update(r.Context(), user, id, service.UpdateInput{
		Name:    req.Name,
		Content: req.Content,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toResponse(post))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := extractPostID(r.URL.Path)

	user, ok := jwtverify.UserFromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "authentication failed")
		return
	}

	if err := h.posts.Delete(r.Context(), user, id); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteMessage(w, http.StatusOK, "post deleted successfully")
}

func extractPostID(path string) (domain.ID, bool) {
	remaining := strings.TrimPrefix(path, "/api/posts/")
	if remaining == "" || strings.Contains(remaining, "/") {
		return "", false
	}
	if err := commonhttp.ValidateUUID(remaining); err != nil {
		return "", false
	}
	return domain.ID(remaining), true
}
