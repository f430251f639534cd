package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/investigator-sheets/internal/storage"
	"github.com/jwebster45206/investigator-sheets/pkg/sheet"
)

const (
	actionList   = "getCharacterNames"
	actionCreate = "create"
	actionUpdate = "update"

	maxBodyBytes = 1 << 20
)

// sheetRequest is the decoded form of a GET query or POST body
type sheetRequest struct {
	Action    string          `json:"action"`
	Character string          `json:"personaje"`
	Data      json.RawMessage `json:"datos"`
}

type mutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// SheetHandler answers the spreadsheet script protocol on a single endpoint.
// Like the script it stands in for, application failures are reported with
// HTTP 200 and an error payload; only malformed requests get 4xx.
type SheetHandler struct {
	log     *slog.Logger
	storage storage.Storage
}

func NewSheetHandler(log *slog.Logger, storage storage.Storage) *SheetHandler {
	return &SheetHandler{
		log:     log,
		storage: storage,
	}
}

func (h *SheetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req sheetRequest

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Action = q.Get("action")
		req.Character = q.Get("personaje")
		if d := q.Get("datos"); d != "" {
			req.Data = json.RawMessage(d)
		}
	case http.MethodPost:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			h.log.Error("Failed to read request body", "error", err)
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Failed to read request body"})
			return
		}
		if err := json.Unmarshal(body, &req); err != nil {
			h.log.Debug("Invalid request body", "error", err)
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON in request body"})
			return
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch req.Action {
	case actionList:
		h.handleList(w, r)
	case actionCreate:
		h.handleCreate(w, r, req)
	case actionUpdate:
		h.handleUpdate(w, r, req)
	case "":
		if req.Character == "" {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing action or personaje parameter"})
			return
		}
		h.handleGet(w, r, req.Character)
	default:
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("Unknown action %q", req.Action)})
	}
}

func (h *SheetHandler) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := h.storage.ListCharacters(r.Context())
	if err != nil {
		h.log.Error("Failed to list characters", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to list characters"})
		return
	}
	if names == nil {
		names = []string{}
	}
	h.writeJSON(w, http.StatusOK, names)
}

func (h *SheetHandler) handleGet(w http.ResponseWriter, r *http.Request, name string) {
	rec, err := h.storage.GetCharacter(r.Context(), name)
	switch {
	case errors.Is(err, storage.ErrCharacterNotFound):
		h.writeJSON(w, http.StatusOK, errorResponse{Error: fmt.Sprintf("Personaje %q no encontrado", name)})
	case err != nil:
		h.log.Error("Failed to load character", "error", err, "name", name)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to load character"})
	default:
		h.writeJSON(w, http.StatusOK, rec)
	}
}

func (h *SheetHandler) handleCreate(w http.ResponseWriter, r *http.Request, req sheetRequest) {
	if req.Character == "" {
		h.writeJSON(w, http.StatusBadRequest, mutationResponse{Error: "Missing personaje parameter"})
		return
	}

	err := h.storage.CreateCharacter(r.Context(), req.Character)
	switch {
	case errors.Is(err, storage.ErrCharacterExists):
		h.writeJSON(w, http.StatusOK, mutationResponse{Error: fmt.Sprintf("Ya existe un personaje llamado %q", req.Character)})
	case errors.Is(err, storage.ErrInvalidName):
		h.writeJSON(w, http.StatusOK, mutationResponse{Error: "Nombre de personaje no válido"})
	case err != nil:
		h.log.Error("Failed to create character", "error", err, "name", req.Character)
		h.writeJSON(w, http.StatusInternalServerError, mutationResponse{Error: "Failed to create character"})
	default:
		h.log.Info("Character created", "name", req.Character)
		h.writeJSON(w, http.StatusOK, mutationResponse{
			Success: true,
			Message: fmt.Sprintf("Personaje %q creado.", req.Character),
		})
	}
}

func (h *SheetHandler) handleUpdate(w http.ResponseWriter, r *http.Request, req sheetRequest) {
	if req.Character == "" {
		h.writeJSON(w, http.StatusBadRequest, mutationResponse{Error: "Missing personaje parameter"})
		return
	}
	var data sheet.Record
	if len(req.Data) == 0 {
		h.writeJSON(w, http.StatusBadRequest, mutationResponse{Error: "Missing datos parameter"})
		return
	}
	if err := json.Unmarshal(req.Data, &data); err != nil {
		h.log.Debug("Invalid datos payload", "error", err)
		h.writeJSON(w, http.StatusBadRequest, mutationResponse{Error: "Invalid JSON in datos"})
		return
	}

	err := h.storage.UpdateCharacter(r.Context(), req.Character, data)
	switch {
	case errors.Is(err, storage.ErrCharacterNotFound):
		h.writeJSON(w, http.StatusOK, mutationResponse{Error: fmt.Sprintf("Personaje %q no encontrado", req.Character)})
	case err != nil:
		h.log.Error("Failed to update character", "error", err, "name", req.Character)
		h.writeJSON(w, http.StatusInternalServerError, mutationResponse{Error: "Failed to update character"})
	default:
		h.log.Info("Character updated", "name", req.Character, "fields", len(data))
		h.writeJSON(w, http.StatusOK, mutationResponse{
			Success: true,
			Message: fmt.Sprintf("Personaje %q actualizado.", req.Character),
		})
	}
}

func (h *SheetHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.log.Error("Failed to marshal response", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		h.log.Error("Failed to write response", "error", err)
	}
}
