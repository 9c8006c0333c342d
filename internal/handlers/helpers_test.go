package handlers_test

import (
	"Reisekarte/internal/config"
	"Reisekarte/internal/handlers"
	"Reisekarte/internal/model"
	"Reisekarte/internal/repo"
	"Reisekarte/internal/service"
	"Reisekarte/internal/session"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// gormNotFound — ошибка «строки нет» в том виде, как её отдаёт репозиторий.
func gormNotFound() error {
	return gorm.ErrRecordNotFound
}

// Minimal mocks
type mockLocationRepo struct{ mock.Mock }

func (m *mockLocationRepo) List(ctx context.Context) ([]model.Location, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.Location); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockLocationRepo) GetByID(ctx context.Context, id int64) (*model.Location, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Location); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockLocationRepo) Create(ctx context.Context, loc *model.Location) error {
	return m.Called(ctx, loc).Error(0)
}
func (m *mockLocationRepo) Update(ctx context.Context, id int64, updates map[string]any) (int64, error) {
	args := m.Called(ctx, id, updates)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockLocationRepo) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *mockLocationRepo) ListMissingThumbnails(ctx context.Context) ([]model.Location, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.Location); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockLocationRepo) SaveThumbnail(ctx context.Context, id int64, thumb []byte) error {
	return m.Called(ctx, id, thumb).Error(0)
}
func (m *mockLocationRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockLocationRepo) Fix(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *mockLocationRepo) Reset(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var _ repo.LocationRepository = (*mockLocationRepo)(nil)

// --- Helpers ---

// newTestRouter собирает настоящий роутер поверх мока репозитория.
func newTestRouter(t *testing.T, r repo.LocationRepository) (http.Handler, session.Store) {
	t.Helper()
	cfg := &config.Config{
		Port:            "10000",
		AccessCode:      "suuuu",
		MaxUploadMB:     1,
		SessionTTLHours: 24,
	}
	logger := zap.NewNop().Sugar()

	store := session.NewMemoryStore(time.Hour)
	authSvc, err := service.NewAuthService(store, cfg.AccessCode, logger)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	locSvc := service.NewLocationService(r, logger)

	h := handlers.NewHandler(locSvc, authSvc, store, logger, cfg)
	return h.Router, store
}

// authedID создаёт авторизованную сессию и возвращает её id.
func authedID(store session.Store) string {
	return store.Authenticate("test-session").ID
}

// smallPNG — валидный PNG меньше порога конвертации (хранится как есть).
func smallPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < 8; i++ {
		img.Set(i, i, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// multipartBody собирает multipart-форму с полями и опциональным файлом image.
func multipartBody(t *testing.T, fields map[string]string, imageData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if imageData != nil {
		fw, err := mw.CreateFormFile("image", "photo.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := io.Copy(fw, bytes.NewReader(imageData)); err != nil {
			t.Fatalf("copy image: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}
