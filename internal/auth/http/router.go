package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/nickgeorgouses/note-app/internal/auth/service"
	commonhttp "github.com/nickgeorgouses/note-app/internal/common/http"
	"github.com/nickgeorgouses/note-app/internal/common/logger"
)

type authResponse struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    service.UserView `json:"user"`
}

type Handler struct {
	auth    *service.AuthService
	timeout time.Duration
	errors  *commonhttp.ErrorHandler
	log     *logger.Logger
}

func NewHandler(auth *service.AuthService, timeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		auth:    auth,
		timeout: timeout,
		errors:  commonhttp.NewErrorHandler(log),
		log:     log,
	}
}

// Register mounts the auth endpoints under /api/auth.
func (h *Handler) Register(router *mux.Router) {
	api := router.PathPrefix("/api/auth").Subrouter()
	api.Use(commonhttp.WithTimeout(h.timeout))
	api.HandleFunc("/register", h.register).Methods(http.MethodPost)
	api.HandleFunc("/login", h.login).Methods(http.MethodPost)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := commonhttp.DecodeBody(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{"action": "register_decode_failed"}).Warnf("register failed: %v", err)
		h.errors.HandleError(w, r, err)
		return
	}

	result, err := h.auth.Register(r.Context(), req)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, authResponse{
		Message: "User registered successfully",
		Token:   result.Token,
		User:    result.User,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginInput
	if err := commonhttp.DecodeBody(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{"action": "login_decode_failed"}).Warnf("login failed: %v", err)
		h.errors.HandleError(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, authResponse{
		Message: "Login successful!",
		Token:   result.Token,
		User:    result.User,
	})
}
