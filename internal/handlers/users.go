package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alfagnish/docai-api/internal/events"
	"github.com/alfagnish/docai-api/internal/users"
	"github.com/go-chi/chi/v5"
)

const (
	msgUserNotFound   = "User not found"
	msgInvalidUserID  = "Invalid user ID"
	msgInvalidPayload = "Invalid request body"
)

// Publisher receives registry change events.
type Publisher interface {
	Publish(events.Event)
}

// UsersHandler provides the user CRUD endpoints backed by a Registry.
type UsersHandler struct {
	registry *users.Registry
	events   Publisher
}

// NewUsersHandler creates a new UsersHandler. pub may be nil.
func NewUsersHandler(registry *users.Registry, pub Publisher) *UsersHandler {
	return &UsersHandler{registry: registry, events: pub}
}

// Routes registers user routes on the given chi router.
func (h *UsersHandler) Routes(r chi.Router) {
	r.Get("/", h.ListUsers)
	r.Post("/", h.CreateUser)
	r.Get("/{id}", h.GetUser)
	r.Put("/{id}", h.UpdateUser)
	r.Delete("/{id}", h.DeleteUser)
}

// userRequest is the accepted body for create and update. Any id the
// caller sends is ignored.
type userRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ListUsers returns all users in insertion order.
func (h *UsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.registry.List())
}

// GetUser returns a single user by id.
func (h *UsersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidUserID)
		return
	}

	u, err := h.registry.Get(id)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

// CreateUser appends a new user with a server-assigned id.
func (h *UsersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	u := h.registry.Create(req.Name, req.Email)
	h.publish(events.UserCreated, u)
	writeData(w, http.StatusCreated, u)
}

// UpdateUser merges the non-empty name and email into an existing user.
func (h *UsersHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidUserID)
		return
	}

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	u, err := h.registry.Update(id, req.Name, req.Email)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}
	h.publish(events.UserUpdated, u)
	writeData(w, http.StatusOK, u)
}

// DeleteUser removes a user and returns the removed record.
func (h *UsersHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidUserID)
		return
	}

	u, err := h.registry.Delete(id)
	if err != nil {
		h.writeRegistryError(w, err)
		return
	}
	h.publish(events.UserDeleted, u)
	writeData(w, http.StatusOK, u)
}

func (h *UsersHandler) writeRegistryError(w http.ResponseWriter, err error) {
	if errors.Is(err, users.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, msgUserNotFound)
		return
	}
	writeMessage(w, http.StatusInternalServerError, err.Error())
}

func (h *UsersHandler) publish(t events.Type, u users.User) {
	if h.events == nil {
		return
	}
	h.events.Publish(events.NewEvent(t, u))
}
