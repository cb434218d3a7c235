package repository

import (
	"context"

	"homestream/internal/domain"
)

// VideoRepository stores standalone catalog videos.
type VideoRepository interface {
	// FindByID returns ErrVideoNotFound when no such video exists.
	FindByID(ctx context.Context, id uint) (*domain.Video, error)
	// ListAll returns every video ordered by title.
	ListAll(ctx context.Context) ([]domain.Video, error)
	Save(ctx context.Context, video *domain.Video) error
	// Delete returns ErrVideoNotFound when nothing was removed.
	Delete(ctx context.Context, id uint) error
}

// AnimeRepository stores series and their episodes.
type AnimeRepository interface {
	// ListSeries returns every series ordered by title, without episodes.
	ListSeries(ctx context.Context) ([]domain.AnimeSeries, error)
	// FindSeriesByID loads a series with its episodes, or ErrSeriesNotFound.
	FindSeriesByID(ctx context.Context, id uint) (*domain.AnimeSeries, error)
	SaveSeries(ctx context.Context, series *domain.AnimeSeries) error
	// DeleteSeries removes the series and all its episodes.
	DeleteSeries(ctx context.Context, id uint) error

	// FindEpisodeByID returns ErrEpisodeNotFound when no such episode exists.
	FindEpisodeByID(ctx context.Context, id uint) (*domain.AnimeEpisode, error)
	SaveEpisode(ctx context.Context, episode *domain.AnimeEpisode) error
	DeleteEpisode(ctx context.Context, id uint) error
}
