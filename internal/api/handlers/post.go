package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dom/social-network-website/internal/api/middleware"
	"github.com/dom/social-network-website/internal/domain"
	"github.com/dom/social-network-website/internal/service"
	"github.com/google/uuid"
)

type PostHandler struct {
	postService *service.PostService
	logger      *slog.Logger
}

func NewPostHandler(postService *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{postService: postService, logger: logger}
}

type PostAuthor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CommentResponse struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	PostedBy  PostAuthor `json:"postedBy"`
	CreatedAt time.Time  `json:"createdAt"`
}

type PostResponse struct {
	ID        string            `json:"id"`
	Text      string            `json:"text"`
	PostedBy  PostAuthor        `json:"postedBy"`
	HasPhoto  bool              `json:"hasPhoto"`
	Likes     int64             `json:"likes"`
	Liked     bool              `json:"liked"`
	Comments  []CommentResponse `json:"comments"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type LikeRequest struct {
	PostID string `json:"postId"`
}

type CommentRequest struct {
	PostID string `json:"postId"`
	Text   string `json:"text"`
}

type UncommentRequest struct {
	CommentID string `json:"commentId"`
}

// Create makes a new post for the path user, who must be the authenticated
// user.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	pathID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	authorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if authorID != pathID {
		writeError(w, http.StatusForbidden, domain.ErrForbidden.Error())
		return
	}

	input, err := parsePostCreate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.postService.Create(r.Context(), authorID, input)
	if err != nil {
		respondError(w, h.logger, "post.Create", err)
		return
	}

	writeJSON(w, http.StatusCreated, postResponse(post))
}

func (h *PostHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	viewerID, _ := middleware.GetUserID(r.Context())

	posts, err := h.postService.ListByUser(r.Context(), viewerID, userID)
	if err != nil {
		respondError(w, h.logger, "post.ListByUser", err)
		return
	}

	writeJSON(w, http.StatusOK, postResponses(posts))
}

// NewsFeed serves the feed for the path user, who must be the authenticated
// user. A feed is never readable by anyone else.
func (h *PostHandler) NewsFeed(w http.ResponseWriter, r *http.Request) {
	pathID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if userID != pathID {
		writeError(w, http.StatusForbidden, domain.ErrForbidden.Error())
		return
	}

	posts, err := h.postService.NewsFeed(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, "post.NewsFeed", err)
		return
	}

	writeJSON(w, http.StatusOK, postResponses(posts))
}

func (h *PostHandler) Photo(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(w, r, "postID")
	if !ok {
		return
	}

	photo, contentType, err := h.postService.Photo(r.Context(), postID)
	if err != nil {
		respondError(w, h.logger, "post.Photo", err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(photo)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(w, r, "postID")
	if !ok {
		return
	}
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.postService.Delete(r.Context(), actorID, postID); err != nil {
		respondError(w, h.logger, "post.Delete", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}

func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, postID, ok := h.likeTarget(w, r)
	if !ok {
		return
	}

	if err := h.postService.Like(r.Context(), userID, postID); err != nil {
		respondError(w, h.logger, "post.Like", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "post liked"})
}

func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, postID, ok := h.likeTarget(w, r)
	if !ok {
		return
	}

	if err := h.postService.Unlike(r.Context(), userID, postID); err != nil {
		respondError(w, h.logger, "post.Unlike", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "post unliked"})
}

func (h *PostHandler) Comment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	postID, err := uuid.Parse(req.PostID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	comment, err := h.postService.Comment(r.Context(), userID, postID, req.Text)
	if err != nil {
		respondError(w, h.logger, "post.Comment", err)
		return
	}

	writeJSON(w, http.StatusCreated, commentResponse(comment))
}

func (h *PostHandler) Uncomment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req UncommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	commentID, err := uuid.Parse(req.CommentID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	if err := h.postService.Uncomment(r.Context(), userID, commentID); err != nil {
		respondError(w, h.logger, "post.Uncomment", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "comment removed"})
}

func (h *PostHandler) likeTarget(w http.ResponseWriter, r *http.Request) (userID, postID uuid.UUID, ok bool) {
	userID, authed := middleware.GetUserID(r.Context())
	if !authed {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	var req LikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return uuid.Nil, uuid.Nil, false
	}
	postID, err := uuid.Parse(req.PostID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, postID, true
}

// parsePostCreate accepts a multipart form (text + optional photo) or a
// plain JSON body with just text.
func parsePostCreate(r *http.Request) (service.CreatePostInput, error) {
	var input service.CreatePostInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
			return input, err
		}
		input.Text = r.FormValue("text")

		photo, photoType, err := formPhoto(r)
		if err != nil {
			return input, err
		}
		input.Photo = photo
		input.PhotoType = photoType
		return input, nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return input, err
	}
	input.Text = req.Text
	return input, nil
}

func postResponse(post *domain.FeedPost) PostResponse {
	comments := make([]CommentResponse, 0, len(post.Comments))
	for _, comment := range post.Comments {
		comments = append(comments, commentResponse(comment))
	}
	return PostResponse{
		ID:   post.Post.ID.String(),
		Text: post.Post.Text,
		PostedBy: PostAuthor{
			ID:   post.Post.AuthorID.String(),
			Name: post.AuthorName,
		},
		HasPhoto:  post.Post.HasPhoto(),
		Likes:     post.Likes,
		Liked:     post.ViewerLiked,
		Comments:  comments,
		CreatedAt: post.Post.CreatedAt,
		UpdatedAt: post.Post.UpdatedAt,
	}
}

func postResponses(posts []*domain.FeedPost) []PostResponse {
	resp := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		resp = append(resp, postResponse(post))
	}
	return resp
}

func commentResponse(comment *domain.FeedComment) CommentResponse {
	return CommentResponse{
		ID:   comment.Comment.ID.String(),
		Text: comment.Comment.Text,
		PostedBy: PostAuthor{
			ID:   comment.Comment.AuthorID.String(),
			Name: comment.AuthorName,
		},
		CreatedAt: comment.Comment.CreatedAt,
	}
}
