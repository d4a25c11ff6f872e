package handlers

import (
	"errors"
	"net/http"

	"github.com/leejgdh/youtube-dj/internal/api/middleware"
	"github.com/leejgdh/youtube-dj/internal/auth"
	"github.com/leejgdh/youtube-dj/internal/db"
	"go.uber.org/zap"
)

type AuthHandler struct {
	db  *db.Database
	jwt *auth.JWTService
	log *zap.Logger
}

func NewAuthHandler(db *db.Database, jwt *auth.JWTService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, jwt: jwt, log: log.Named("auth")}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, "username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.db.GetUserByUsername(req.Username)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			h.log.Error("load user", zap.String("username", req.Username), zap.Error(err))
		}
		jsonError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if !auth.CheckPassword(req.Password, user.Password) {
		h.log.Warn("failed login", zap.String("username", req.Username), zap.String("remote", r.RemoteAddr))
		jsonError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		h.log.Error("generate token", zap.Error(err))
		jsonError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, loginResponse{
		Token: token,
		User:  userView{ID: user.ID, Username: user.Username, Role: user.Role},
	}, http.StatusOK)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.db.GetUserByID(claims.UserID)
	if err != nil {
		jsonError(w, "user not found", http.StatusNotFound)
		return
	}

	jsonResponse(w, userView{ID: user.ID, Username: user.Username, Role: user.Role}, http.StatusOK)
}
