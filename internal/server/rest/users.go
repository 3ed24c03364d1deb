package rest

import (
	"net/http"

	"github.com/dmitrijs2005/levelup/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type registerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Credential string `json:"credential"`
}

type loginRequest struct {
	Email      string `json:"email"`
	Credential string `json:"credential"`
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	u, err := h.Users.Register(r.Context(), req.Name, req.Email, req.Credential)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	res, err := h.Users.Login(r.Context(), req.Email, req.Credential)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var req services.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	u, err := h.Users.CreateUser(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.logger, http.StatusOK)(h.Users.ListUsers(r.Context()))
}

func (h *Handlers) listActiveUsers(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.logger, http.StatusOK)(h.Users.ListActiveUsers(r.Context()))
}

func (h *Handlers) listInactiveUsers(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.logger, http.StatusOK)(h.Users.ListInactiveUsers(r.Context()))
}

func (h *Handlers) getUserByEmail(w http.ResponseWriter, r *http.Request) {
	respond(w, r, h.logger, http.StatusOK)(h.Users.GetUserByEmail(r.Context(), chi.URLParam(r, "email")))
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusOK)(h.Users.GetUser(r.Context(), id))
}

func (h *Handlers) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req services.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, r, h.logger, http.StatusOK)(h.Users.UpdateUser(r.Context(), id, req))
}

func (h *Handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	noContent(w, r, h.logger, h.Users.DeleteUser(r.Context(), id))
}

func (h *Handlers) deactivateUser(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	v, err := h.Lifecycle.DeactivateUser(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.auditAdmin(r, "deactivate_user", id)
	writeJSON(w, http.StatusOK, v)
}

func (h *Handlers) activateUser(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	v, err := h.Lifecycle.ActivateUser(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.auditAdmin(r, "activate_user", id)
	writeJSON(w, http.StatusOK, v)
}
