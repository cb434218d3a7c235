package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"homestream/internal/domain"
	"homestream/internal/repository"
)

// GormVideoRepository is the GORM implementation of repository.VideoRepository.
type GormVideoRepository struct {
	db *gorm.DB
}

func NewGormVideoRepository(db *gorm.DB) *GormVideoRepository {
	if db == nil {
		panic("database connection cannot be nil for GormVideoRepository")
	}
	return &GormVideoRepository{db: db}
}

func (r *GormVideoRepository) FindByID(ctx context.Context, id uint) (*domain.Video, error) {
	var video domain.Video
	err := r.db.WithContext(ctx).First(&video, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrVideoNotFound
		}
		return nil, fmt.Errorf("gorm: find video by id %d: %w", id, err)
	}
	return &video, nil
}

func (r *GormVideoRepository) ListAll(ctx context.Context) ([]domain.Video, error) {
	var videos []domain.Video
	if err := r.db.WithContext(ctx).Order("title").Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("gorm: list videos: %w", err)
	}
	return videos, nil
}

func (r *GormVideoRepository) Save(ctx context.Context, video *domain.Video) error {
	if err := r.db.WithContext(ctx).Save(video).Error; err != nil {
		return fmt.Errorf("gorm: save video %q: %w", video.Title, err)
	}
	return nil
}

func (r *GormVideoRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Video{}, id)
	if result.Error != nil {
		return fmt.Errorf("gorm: delete video %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrVideoNotFound
	}
	return nil
}

// GormAnimeRepository is the GORM implementation of repository.AnimeRepository.
type GormAnimeRepository struct {
	db *gorm.DB
}

func NewGormAnimeRepository(db *gorm.DB) *GormAnimeRepository {
	if db == nil {
		panic("database connection cannot be nil for GormAnimeRepository")
	}
	return &GormAnimeRepository{db: db}
}

func (r *GormAnimeRepository) ListSeries(ctx context.Context) ([]domain.AnimeSeries, error) {
	var series []domain.AnimeSeries
	if err := r.db.WithContext(ctx).Order("title").Find(&series).Error; err != nil {
		return nil, fmt.Errorf("gorm: list anime series: %w", err)
	}
	return series, nil
}

func (r *GormAnimeRepository) FindSeriesByID(ctx context.Context, id uint) (*domain.AnimeSeries, error) {
	var series domain.AnimeSeries
	err := r.db.WithContext(ctx).Preload("Episodes").First(&series, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSeriesNotFound
		}
		return nil, fmt.Errorf("gorm: find anime series by id %d: %w", id, err)
	}
	return &series, nil
}

func (r *GormAnimeRepository) SaveSeries(ctx context.Context, series *domain.AnimeSeries) error {
	err := r.db.WithContext(ctx).Save(series).Error
	if err != nil {
		if mapped := mapMySQLError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("gorm: save anime series %q: %w", series.Title, err)
	}
	return nil
}

// DeleteSeries removes the series row; episodes go with it via the foreign
// key's ON DELETE CASCADE.
func (r *GormAnimeRepository) DeleteSeries(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.AnimeSeries{}, id)
	if result.Error != nil {
		return fmt.Errorf("gorm: delete anime series %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrSeriesNotFound
	}
	return nil
}

func (r *GormAnimeRepository) FindEpisodeByID(ctx context.Context, id uint) (*domain.AnimeEpisode, error) {
	var episode domain.AnimeEpisode
	err := r.db.WithContext(ctx).First(&episode, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrEpisodeNotFound
		}
		return nil, fmt.Errorf("gorm: find anime episode by id %d: %w", id, err)
	}
	return &episode, nil
}

func (r *GormAnimeRepository) SaveEpisode(ctx context.Context, episode *domain.AnimeEpisode) error {
	if err := r.db.WithContext(ctx).Save(episode).Error; err != nil {
		return fmt.Errorf("gorm: save anime episode %q: %w", episode.Title, err)
	}
	return nil
}

func (r *GormAnimeRepository) DeleteEpisode(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.AnimeEpisode{}, id)
	if result.Error != nil {
		return fmt.Errorf("gorm: delete anime episode %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrEpisodeNotFound
	}
	return nil
}
