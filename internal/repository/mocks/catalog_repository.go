package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"homestream/internal/domain"
)

// VideoRepository is a mock of repository.VideoRepository.
type VideoRepository struct {
	mock.Mock
}

func (m *VideoRepository) FindByID(ctx context.Context, id uint) (*domain.Video, error) {
	args := m.Called(ctx, id)
	var video *domain.Video
	if args.Get(0) != nil {
		video = args.Get(0).(*domain.Video)
	}
	return video, args.Error(1)
}

func (m *VideoRepository) ListAll(ctx context.Context) ([]domain.Video, error) {
	args := m.Called(ctx)
	var videos []domain.Video
	if args.Get(0) != nil {
		videos = args.Get(0).([]domain.Video)
	}
	return videos, args.Error(1)
}

func (m *VideoRepository) Save(ctx context.Context, video *domain.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *VideoRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// AnimeRepository is a mock of repository.AnimeRepository.
type AnimeRepository struct {
	mock.Mock
}

func (m *AnimeRepository) ListSeries(ctx context.Context) ([]domain.AnimeSeries, error) {
	args := m.Called(ctx)
	var series []domain.AnimeSeries
	if args.Get(0) != nil {
		series = args.Get(0).([]domain.AnimeSeries)
	}
	return series, args.Error(1)
}

func (m *AnimeRepository) FindSeriesByID(ctx context.Context, id uint) (*domain.AnimeSeries, error) {
	args := m.Called(ctx, id)
	var series *domain.AnimeSeries
	if args.Get(0) != nil {
		series = args.Get(0).(*domain.AnimeSeries)
	}
	return series, args.Error(1)
}

func (m *AnimeRepository) SaveSeries(ctx context.Context, series *domain.AnimeSeries) error {
	args := m.Called(ctx, series)
	return args.Error(0)
}

func (m *AnimeRepository) DeleteSeries(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *AnimeRepository) FindEpisodeByID(ctx context.Context, id uint) (*domain.AnimeEpisode, error) {
	args := m.Called(ctx, id)
	var episode *domain.AnimeEpisode
	if args.Get(0) != nil {
		episode = args.Get(0).(*domain.AnimeEpisode)
	}
	return episode, args.Error(1)
}

func (m *AnimeRepository) SaveEpisode(ctx context.Context, episode *domain.AnimeEpisode) error {
	args := m.Called(ctx, episode)
	return args.Error(0)
}

func (m *AnimeRepository) DeleteEpisode(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
