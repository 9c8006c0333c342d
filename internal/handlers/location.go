package handlers

import (
	"Reisekarte/internal/config"
	"Reisekarte/internal/model"
	"Reisekarte/internal/service"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LocationHandler обслуживает JSON API /api/locations.
type LocationHandler struct {
	Locations *service.LocationService
	Auth      *service.AuthService
	Logger    *zap.SugaredLogger
	Config    *config.Config
}

func NewLocationHandler(
	locations *service.LocationService,
	auth *service.AuthService,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *LocationHandler {
	return &LocationHandler{Locations: locations, Auth: auth, Logger: logger, Config: cfg}
}

// locationSummary — элемент списка.
type locationSummary struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date,omitempty"`
	Highlight   string  `json:"highlight,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
	HasImage    bool    `json:"has_image"`
}

func toSummary(loc model.Location) locationSummary {
	return locationSummary{
		ID:          loc.ID,
		Title:       loc.Title,
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
		Description: loc.Description,
		Date:        loc.Date,
		Highlight:   loc.Highlight,
		CountryCode: loc.CountryCode,
		HasImage:    loc.ImageType != "",
	}
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// List отдаёт все локации без бинарных данных, новые первыми.
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	if !requireAPIAuth(w, r) {
		return
	}

	locs, err := h.Locations.List(r.Context())
	if err != nil {
		h.Logger.Errorw("list: service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}

	out := make([]locationSummary, 0, len(locs))
	for _, loc := range locs {
		out = append(out, toSummary(loc))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get отдаёт одну локацию с флагами наличия фото и миниатюры.
func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !requireAPIAuth(w, r) {
		return
	}

	id, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid id"})
		return
	}

	loc, err := h.Locations.Get(r.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "location not found"})
		return
	}
	if err != nil {
		h.Logger.Errorw("get: service error", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}

	resp := map[string]any{
		"id":            loc.ID,
		"title":         loc.Title,
		"latitude":      loc.Latitude,
		"longitude":     loc.Longitude,
		"description":   loc.Description,
		"date":          loc.Date,
		"highlight":     loc.Highlight,
		"country_code":  loc.CountryCode,
		"has_image":     len(loc.ImageData) > 0,
		"has_thumbnail": len(loc.ThumbnailData) > 0,
		"created_at":    loc.CreatedAt,
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create принимает multipart-форму с полями локации и файлом image.
// Лимит на тело запроса ставится до чтения формы — слишком большая
// загрузка отваливается раньше слоя хранения.
func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	maxBody := int64(h.Config.MaxUploadMB)*1024*1024 + 1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{"error": "file too large"})
			return
		}
		h.Logger.Warnw("create: invalid multipart form", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid multipart form"})
		return
	}

	// id сессии мог приехать и внутри формы
	if !isAuthenticated(r) && !h.Auth.Check(r.FormValue("sessionId")) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "unauthorized"})
		return
	}

	in := service.CreateInput{
		Title:       r.FormValue("title"),
		Latitude:    r.FormValue("latitude"),
		Longitude:   r.FormValue("longitude"),
		Description: r.FormValue("description"),
		Date:        r.FormValue("date"),
		Highlight:   r.FormValue("highlight"),
		CountryCode: r.FormValue("country_code"),
	}

	var imageData []byte
	if file, _, err := r.FormFile("image"); err == nil {
		defer file.Close()
		imageData, err = io.ReadAll(file)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "failed to read image"})
			return
		}
	}

	id, err := h.Locations.Create(r.Context(), in, imageData)
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": vErr.Error()})
		return
	case errors.Is(err, service.ErrUnsupportedImage):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unsupported image format"})
		return
	case err != nil:
		h.Logger.Errorw("create: service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "id": id})
}

// updateRequest — частичное обновление (PUT).
type updateRequest struct {
	Title       *string  `json:"title,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Description *string  `json:"description,omitempty"`
	Date        *string  `json:"date,omitempty"`
	Highlight   *string  `json:"highlight,omitempty"`
	CountryCode *string  `json:"country_code,omitempty"`
}

// Update применяет частичное обновление локации.
func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !requireAPIAuth(w, r) {
		return
	}

	id, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid id"})
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
		return
	}

	err = h.Locations.Update(r.Context(), id, service.UpdateInput{
		Title:       req.Title,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Description: req.Description,
		Date:        req.Date,
		Highlight:   req.Highlight,
		CountryCode: req.CountryCode,
	})
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": vErr.Error()})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "location not found"})
	case err != nil:
		h.Logger.Errorw("update: service error", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
	default:
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// Delete удаляет локацию вместе с фото.
func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !requireAPIAuth(w, r) {
		return
	}

	id, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid id"})
		return
	}

	err = h.Locations.Delete(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "location not found"})
	case err != nil:
		h.Logger.Errorw("delete: service error", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
	default:
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// Image стримит оригинал фото с сохранённым Content-Type.
func (h *LocationHandler) Image(w http.ResponseWriter, r *http.Request) {
	h.serveBinary(w, r, h.Locations.Image)
}

// Thumbnail стримит миниатюру 60×60.
func (h *LocationHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	h.serveBinary(w, r, h.Locations.Thumbnail)
}

func (h *LocationHandler) serveBinary(
	w http.ResponseWriter,
	r *http.Request,
	fetch func(ctx context.Context, id int64) ([]byte, string, error),
) {
	if !requireAPIAuth(w, r) {
		return
	}

	id, err := idParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid id"})
		return
	}

	data, contentType, err := fetch(r.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "image not found"})
		return
	}
	if err != nil {
		h.Logger.Errorw("image: service error", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
