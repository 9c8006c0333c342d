package repo

import (
	"Reisekarte/internal/model"
	"context"

	"gorm.io/gorm"
)

// summaryColumns — колонки списка без бинарных данных.
var summaryColumns = []string{
	"id", "title", "latitude", "longitude", "description",
	"date", "highlight", "country_code", "image_type", "created_at",
}

// LocationRepository определяет контракт доступа к таблице locations
// для слоя сервиса.
type LocationRepository interface {
	// List возвращает все локации без фото, новые первыми.
	List(ctx context.Context) ([]model.Location, error)

	// GetByID возвращает полную строку вместе с фото и миниатюрой.
	GetByID(ctx context.Context, id int64) (*model.Location, error)

	// Create вставляет строку; сгенерированный id попадает в loc.ID.
	Create(ctx context.Context, loc *model.Location) error

	// Update применяет частичное обновление, возвращает число затронутых строк.
	Update(ctx context.Context, id int64, updates map[string]any) (int64, error)

	// Delete удаляет строку по id; deleted=false если строки не было.
	Delete(ctx context.Context, id int64) (deleted bool, err error)

	// ListMissingThumbnails возвращает строки с фото, но без миниатюры.
	ListMissingThumbnails(ctx context.Context) ([]model.Location, error)

	// SaveThumbnail дозаписывает миниатюру в существующую строку.
	SaveThumbnail(ctx context.Context, id int64, thumb []byte) error

	// Count возвращает число локаций (страница /admin).
	Count(ctx context.Context) (int64, error)

	// Fix повторно применяет миграцию схемы.
	Fix(ctx context.Context) error

	// Reset удаляет таблицу и создаёт её заново. Данные теряются.
	Reset(ctx context.Context) error
}

type locationRepo struct {
	db *gorm.DB
}

// NewLocationRepository создаёт реализацию репозитория для Location.
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepo{db: db}
}

func (r *locationRepo) List(ctx context.Context) ([]model.Location, error) {
	var locs []model.Location
	tx := r.db.WithContext(ctx).
		Select(summaryColumns).
		Order("id DESC").
		Find(&locs)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return locs, nil
}

func (r *locationRepo) GetByID(ctx context.Context, id int64) (*model.Location, error) {
	var loc model.Location
	tx := r.db.WithContext(ctx).First(&loc, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &loc, nil
}

func (r *locationRepo) Create(ctx context.Context, loc *model.Location) error {
	return r.db.WithContext(ctx).Create(loc).Error
}

func (r *locationRepo) Update(ctx context.Context, id int64, updates map[string]any) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&model.Location{}).
		Where("id = ?", id).
		Updates(updates)
	return tx.RowsAffected, tx.Error
}

func (r *locationRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&model.Location{}, id)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *locationRepo) ListMissingThumbnails(ctx context.Context) ([]model.Location, error) {
	var locs []model.Location
	tx := r.db.WithContext(ctx).
		Where("image_data IS NOT NULL AND thumbnail_data IS NULL").
		Find(&locs)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return locs, nil
}

func (r *locationRepo) SaveThumbnail(ctx context.Context, id int64, thumb []byte) error {
	return r.db.WithContext(ctx).
		Model(&model.Location{}).
		Where("id = ?", id).
		Update("thumbnail_data", thumb).Error
}

func (r *locationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	tx := r.db.WithContext(ctx).Model(&model.Location{}).Count(&n)
	return n, tx.Error
}

func (r *locationRepo) Fix(ctx context.Context) error {
	return Migrate(r.db.WithContext(ctx))
}

func (r *locationRepo) Reset(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	if err := db.Migrator().DropTable(&model.Location{}); err != nil {
		return err
	}
	return Migrate(db)
}
