package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dom/social-network-website/internal/api/middleware"
	"github.com/dom/social-network-website/internal/domain"
	"github.com/dom/social-network-website/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxPhotoBytes caps uploaded photo size (form memory buffer too).
const maxPhotoBytes = 10 << 20

type UserHandler struct {
	userService   *service.UserService
	followService *service.FollowService
	logger        *slog.Logger
}

func NewUserHandler(userService *service.UserService, followService *service.FollowService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService:   userService,
		followService: followService,
		logger:        logger,
	}
}

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	About     string    `json:"about,omitempty"`
	HasPhoto  bool      `json:"hasPhoto"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProfileResponse struct {
	UserResponse
	Followers   int64 `json:"followers"`
	Following   int64 `json:"following"`
	IsFollowing bool  `json:"isFollowing"`
}

type FollowRequest struct {
	UserID string `json:"userId"`
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.SignUp(r.Context(), service.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, h.logger, "user.Create", err)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse(user))
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		respondError(w, h.logger, "user.List", err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, userResponse(user))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UserHandler) Read(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}
	viewerID, _ := middleware.GetUserID(r.Context())

	profile, err := h.userService.GetProfile(r.Context(), viewerID, userID)
	if err != nil {
		respondError(w, h.logger, "user.Read", err)
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{
		UserResponse: userResponse(profile.User),
		Followers:    profile.Followers,
		Following:    profile.Following,
		IsFollowing:  profile.IsFollowing,
	})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	input, err := parseUserUpdate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.Update(r.Context(), userID, input)
	if err != nil {
		respondError(w, h.logger, "user.Update", err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse(user))
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	if err := h.userService.Delete(r.Context(), userID); err != nil {
		respondError(w, h.logger, "user.Delete", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

func (h *UserHandler) Photo(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}

	photo, contentType, err := h.userService.Photo(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, "user.Photo", err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(photo)
}

func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	followerID, targetID, ok := h.followPair(w, r)
	if !ok {
		return
	}

	if err := h.followService.Follow(r.Context(), followerID, targetID); err != nil {
		respondError(w, h.logger, "user.Follow", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "successfully followed user"})
}

func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followerID, targetID, ok := h.followPair(w, r)
	if !ok {
		return
	}

	if err := h.followService.Unfollow(r.Context(), followerID, targetID); err != nil {
		respondError(w, h.logger, "user.Unfollow", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "successfully unfollowed user"})
}

func (h *UserHandler) FindPeople(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}

	users, err := h.userService.FindPeople(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, "user.FindPeople", err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, userResponse(user))
	}
	writeJSON(w, http.StatusOK, resp)
}

// requireOwner resolves the {userID} path param and enforces that the
// authenticated subject is that user.
func (h *UserHandler) requireOwner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return uuid.Nil, false
	}
	authID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, false
	}
	if authID != userID {
		writeError(w, http.StatusForbidden, domain.ErrForbidden.Error())
		return uuid.Nil, false
	}
	return userID, true
}

func (h *UserHandler) followPair(w http.ResponseWriter, r *http.Request) (follower, target uuid.UUID, ok bool) {
	followerID, authed := middleware.GetUserID(r.Context())
	if !authed {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	var req FollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return uuid.Nil, uuid.Nil, false
	}
	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return uuid.Nil, uuid.Nil, false
	}
	return followerID, targetID, true
}

// parseUserUpdate accepts either a JSON body or a multipart form with an
// optional photo file.
func parseUserUpdate(r *http.Request) (service.UpdateUserInput, error) {
	var input service.UpdateUserInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
			return input, err
		}
		input.Name = r.FormValue("name")
		input.Email = r.FormValue("email")
		input.Password = r.FormValue("password")
		if _, ok := r.MultipartForm.Value["about"]; ok {
			about := r.FormValue("about")
			input.About = &about
		}

		photo, photoType, err := formPhoto(r)
		if err != nil {
			return input, err
		}
		input.Photo = photo
		input.PhotoType = photoType
		return input, nil
	}

	var req struct {
		Name     string  `json:"name"`
		Email    string  `json:"email"`
		Password string  `json:"password"`
		About    *string `json:"about"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return input, err
	}
	input.Name = req.Name
	input.Email = req.Email
	input.Password = req.Password
	input.About = req.About
	return input, nil
}

// formPhoto reads the optional "photo" file from a parsed multipart form.
func formPhoto(r *http.Request) ([]byte, string, error) {
	file, header, err := r.FormFile("photo")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, "", nil
		}
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
	if err != nil {
		return nil, "", err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

func pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}
