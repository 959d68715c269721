package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	commonhttp "github.com/nickgeorgouses/note-app/internal/common/http"
	"github.com/nickgeorgouses/note-app/internal/common/jwtverify"
	"github.com/nickgeorgouses/note-app/internal/common/logger"
	"github.com/nickgeorgouses/note-app/internal/note/domain"
	"github.com/nickgeorgouses/note-app/internal/note/service"
)

type listResponse struct {
	Message string        `json:"message"`
	Notes   []domain.Note `json:"notes"`
}

type createResponse struct {
	Message string    `json:"message"`
	NoteID  domain.ID `json:"noteId"`
}

type shareResponse struct {
	Message      string    `json:"message"`
	SharedNoteID domain.ID `json:"sharedNoteId"`
}

type clearResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

type deleteResponse struct {
	Message   string    `json:"message"`
	DeletedID domain.ID `json:"deletedId"`
}

type Handler struct {
	notes   *service.NoteService
	secret  string
	timeout time.Duration
	errors  *commonhttp.ErrorHandler
	log     *logger.Logger
}

func NewHandler(notes *service.NoteService, jwtSecret string, timeout time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		notes:   notes,
		secret:  jwtSecret,
		timeout: timeout,
		errors:  commonhttp.NewErrorHandler(log),
		log:     log,
	}
}

// Register mounts the note endpoints under /api/notes behind bearer token auth.
func (h *Handler) Register(router *mux.Router) {
	api := router.PathPrefix("/api/notes").Subrouter()
	api.Use(jwtverify.Middleware(h.secret, h.log))
	api.Use(commonhttp.WithTimeout(h.timeout))

	api.HandleFunc("", h.list).Methods(http.MethodGet)
	api.HandleFunc("", h.create).Methods(http.MethodPost)
	api.HandleFunc("", h.clear).Methods(http.MethodDelete)
	api.HandleFunc("/{id}", h.update).Methods(http.MethodPut)
	api.HandleFunc("/{id}", h.delete).Methods(http.MethodDelete)
	api.HandleFunc("/{id}/share", h.share).Methods(http.MethodPost)
}

func callerFrom(r *http.Request) (service.Caller, bool) {
	identity, ok := jwtverify.FromContext(r.Context())
	if !ok {
		return service.Caller{}, false
	}
	return service.Caller{UserID: identity.UserID, Username: identity.Username}, true
}

func (h *Handler) unauthorized(w http.ResponseWriter, r *http.Request) {
	commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuthorization,
		"Access denied. No token provided.", nil, commonhttp.TraceIDFromContext(r.Context()))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		h.unauthorized(w, r)
		return
	}

	notes, err := h.notes.List(r.Context(), caller, domain.ParseFilter(r.URL.Query().Get("filter")))
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, listResponse{
		Message: "Notes retrieved successfully!",
		Notes:   notes,
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		h.unauthorized(w, r)
		return
	}

	var req service.NoteInput
	if err := commonhttp.DecodeBody(r, &req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	id, err := h.notes.Create(r.Context(), caller, req)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, createResponse{
		Message: "Note created successfully!",
		NoteID:  id,
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		h.unauthorized(w, r)
		return
	}

	var req service.NoteInput
	if err := commonhttp.DecodeBody(r, &req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	id := domain.ID(mux.Vars(r)["id"])
	if err := h.notes.Update(r.Context(), caller, id, req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, createResponse{
		Message: "Note update successfully!",
		NoteID:  id,
	})
}

func (h *Handler) share(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		h.unauthorized(w, r)
		return
	}

	var req service.ShareInput
	if err := commonhttp.DecodeBody(r, &req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	sharedID, err := h.notes.Share(r.Context(), caller, domain.ID(mux.Vars(r)["id"]), req)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, shareResponse{
		Message:      fmt.Sprintf("Note shared successfully with %s!", req.Username),
		SharedNoteID: sharedID,
	})
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		h.unauthorized(w, r)
		return
	}

	n, err := h.notes.DeleteAll(r.Context(), caller)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, clearResponse{
		Message:      fmt.Sprintf("Cleared %d notes!", n),
		DeletedCount: n,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		h.unauthorized(w, r)
		return
	}

	id := domain.ID(mux.Vars(r)["id"])
	if err := h.notes.Delete(r.Context(), caller, id); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, deleteResponse{
		Message:   "Note deleted successfully!",
		DeletedID: id,
	})
}
