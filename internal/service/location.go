package service

import (
	"Reisekarte/internal/model"
	"Reisekarte/internal/repo"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound — запрошенной локации нет.
var ErrNotFound = errors.New("location not found")

// ValidationError — отсутствует или некорректно обязательное поле.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid field: %s", e.Field)
}

// LocationService инкапсулирует бизнес-логику работы с локациями:
// валидацию, пайплайн фото и доступ к репозиторию.
type LocationService struct {
	repo   repo.LocationRepository
	logger *zap.SugaredLogger
}

func NewLocationService(r repo.LocationRepository, logger *zap.SugaredLogger) *LocationService {
	return &LocationService{repo: r, logger: logger}
}

// CreateInput — сырые значения формы создания локации.
type CreateInput struct {
	Title       string
	Latitude    string
	Longitude   string
	Description string
	Date        string
	Highlight   string
	CountryCode string
}

// Create валидирует вход, прогоняет фото через пайплайн и вставляет строку.
// Отказ генерации миниатюры не фатален: локация сохраняется без неё.
func (s *LocationService) Create(ctx context.Context, in CreateInput, imageData []byte) (int64, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return 0, &ValidationError{Field: "title"}
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(in.Latitude), 64)
	if err != nil {
		return 0, &ValidationError{Field: "latitude"}
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(in.Longitude), 64)
	if err != nil {
		return 0, &ValidationError{Field: "longitude"}
	}

	loc := &model.Location{
		Title:       title,
		Latitude:    lat,
		Longitude:   lng,
		Description: in.Description,
		Date:        in.Date,
		Highlight:   in.Highlight,
		CountryCode: in.CountryCode,
	}

	if len(imageData) > 0 {
		processed, err := ProcessUpload(imageData)
		if err != nil {
			return 0, err
		}
		loc.ImageData = processed.Data
		loc.ImageType = processed.ContentType

		thumb, err := MakeThumbnail(processed.Data)
		if err != nil {
			s.logger.Warnw("thumbnail generation failed, saving without it", "title", title, "error", err)
		} else {
			loc.ThumbnailData = thumb
		}
	}

	if err := s.repo.Create(ctx, loc); err != nil {
		return 0, err
	}
	return loc.ID, nil
}

// List возвращает локации без бинарных данных, новые первыми.
func (s *LocationService) List(ctx context.Context) ([]model.Location, error) {
	return s.repo.List(ctx)
}

// Get возвращает полную строку.
func (s *LocationService) Get(ctx context.Context, id int64) (*model.Location, error) {
	loc, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return loc, nil
}

// UpdateInput — частичное обновление; nil-поля не трогаются.
type UpdateInput struct {
	Title       *string
	Latitude    *float64
	Longitude   *float64
	Description *string
	Date        *string
	Highlight   *string
	CountryCode *string
}

// Update применяет частичное обновление существующей локации.
func (s *LocationService) Update(ctx context.Context, id int64, in UpdateInput) error {
	updates := map[string]any{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return &ValidationError{Field: "title"}
		}
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Latitude != nil {
		updates["latitude"] = *in.Latitude
	}
	if in.Longitude != nil {
		updates["longitude"] = *in.Longitude
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Date != nil {
		updates["date"] = *in.Date
	}
	if in.Highlight != nil {
		updates["highlight"] = *in.Highlight
	}
	if in.CountryCode != nil {
		updates["country_code"] = *in.CountryCode
	}
	if len(updates) == 0 {
		return nil
	}

	n, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет локацию вместе с фото (фото живёт в той же строке).
func (s *LocationService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Image возвращает байты фото и их MIME.
func (s *LocationService) Image(ctx context.Context, id int64) ([]byte, string, error) {
	loc, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if len(loc.ImageData) == 0 {
		return nil, "", ErrNotFound
	}
	return loc.ImageData, loc.ImageType, nil
}

// Thumbnail возвращает миниатюру; миниатюры всегда JPEG.
func (s *LocationService) Thumbnail(ctx context.Context, id int64) ([]byte, string, error) {
	loc, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if len(loc.ThumbnailData) == 0 {
		return nil, "", ErrNotFound
	}
	return loc.ThumbnailData, "image/jpeg", nil
}

// BackfillThumbnails достраивает миниатюры для старых строк,
// загруженных до их появления. Ошибки отдельных строк не прерывают обход.
func (s *LocationService) BackfillThumbnails(ctx context.Context) (int, error) {
	locs, err := s.repo.ListMissingThumbnails(ctx)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, loc := range locs {
		thumb, err := MakeThumbnail(loc.ImageData)
		if err != nil {
			s.logger.Warnw("backfill: thumbnail failed", "id", loc.ID, "error", err)
			continue
		}
		if err := s.repo.SaveThumbnail(ctx, loc.ID, thumb); err != nil {
			s.logger.Warnw("backfill: save failed", "id", loc.ID, "error", err)
			continue
		}
		done++
	}
	return done, nil
}

// Count — число локаций для страницы /admin.
func (s *LocationService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// FixDatabase повторно применяет миграцию схемы.
func (s *LocationService) FixDatabase(ctx context.Context) error {
	return s.repo.Fix(ctx)
}

// ResetDatabase пересоздаёт таблицу locations. Все данные теряются.
func (s *LocationService) ResetDatabase(ctx context.Context) error {
	return s.repo.Reset(ctx)
}
