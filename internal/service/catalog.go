package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"homestream/internal/domain"
	"homestream/internal/repository"
)

// Selection type tags understood by Resolve. A lobby form submits
// selections as "<kind>-<id>", e.g. "video-7" or "anime-12".
const (
	KindVideo = "video"
	KindAnime = "anime"
)

// CatalogService answers "what does this catalog reference play?" for the
// watch-together core and backs the video/anime CRUD routes.
type CatalogService struct {
	videoRepo repository.VideoRepository
	animeRepo repository.AnimeRepository
}

func NewCatalogService(videoRepo repository.VideoRepository, animeRepo repository.AnimeRepository) *CatalogService {
	if videoRepo == nil || animeRepo == nil {
		panic("repositories cannot be nil for CatalogService")
	}
	return &CatalogService{videoRepo: videoRepo, animeRepo: animeRepo}
}

// Resolve maps a (kind, id) reference to its playable title and URL.
// Returns ErrVideoNotFound for a dangling reference and ErrInvalidSelection
// for an unknown kind.
func (s *CatalogService) Resolve(ctx context.Context, kind string, id uint) (*domain.PlayableItem, error) {
	switch kind {
	case KindVideo:
		video, err := s.videoRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrVideoNotFound) {
				return nil, ErrVideoNotFound
			}
			logrus.WithError(err).WithField("video_id", id).Error("Catalog resolve failed")
			return nil, ErrInternalServer
		}
		return &domain.PlayableItem{Title: video.Title, URL: video.URL}, nil
	case KindAnime:
		episode, err := s.animeRepo.FindEpisodeByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrEpisodeNotFound) {
				return nil, ErrVideoNotFound
			}
			logrus.WithError(err).WithField("episode_id", id).Error("Catalog resolve failed")
			return nil, ErrInternalServer
		}
		return &domain.PlayableItem{Title: episode.Title, URL: episode.URL}, nil
	default:
		return nil, ErrInvalidSelection
	}
}

// ParseSelection splits a lobby selection string like "video-7" into its
// kind and id. The format comes from the lobby's combined dropdown.
func ParseSelection(selection string) (kind string, id uint, err error) {
	part, idStr, found := strings.Cut(selection, "-")
	if !found || (part != KindVideo && part != KindAnime) {
		return "", 0, ErrInvalidSelection
	}
	parsed, convErr := strconv.ParseUint(idStr, 10, 32)
	if convErr != nil {
		return "", 0, ErrInvalidSelection
	}
	return part, uint(parsed), nil
}

// --- CRUD surfaces for the admin routes ---

func (s *CatalogService) ListVideos(ctx context.Context) ([]domain.Video, error) {
	videos, err := s.videoRepo.ListAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list videos")
		return nil, ErrInternalServer
	}
	return videos, nil
}

func (s *CatalogService) AddVideo(ctx context.Context, title, url string) (*domain.Video, error) {
	video := &domain.Video{Title: title, URL: url}
	if err := s.videoRepo.Save(ctx, video); err != nil {
		logrus.WithError(err).WithField("title", title).Error("Failed to save video")
		return nil, ErrInternalServer
	}
	return video, nil
}

func (s *CatalogService) DeleteVideo(ctx context.Context, id uint) error {
	err := s.videoRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return ErrVideoNotFound
		}
		logrus.WithError(err).WithField("video_id", id).Error("Failed to delete video")
		return ErrInternalServer
	}
	return nil
}

func (s *CatalogService) ListSeries(ctx context.Context) ([]domain.AnimeSeries, error) {
	series, err := s.animeRepo.ListSeries(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list anime series")
		return nil, ErrInternalServer
	}
	return series, nil
}

func (s *CatalogService) SeriesDetail(ctx context.Context, id uint) (*domain.AnimeSeries, error) {
	series, err := s.animeRepo.FindSeriesByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSeriesNotFound) {
			return nil, ErrSeriesNotFound
		}
		logrus.WithError(err).WithField("series_id", id).Error("Failed to load anime series")
		return nil, ErrInternalServer
	}
	return series, nil
}

func (s *CatalogService) AddSeries(ctx context.Context, title, imageURL string) (*domain.AnimeSeries, error) {
	series := &domain.AnimeSeries{Title: title, ImageURL: imageURL}
	if err := s.animeRepo.SaveSeries(ctx, series); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, ErrDuplicateName
		}
		logrus.WithError(err).WithField("title", title).Error("Failed to save anime series")
		return nil, ErrInternalServer
	}
	return series, nil
}

func (s *CatalogService) DeleteSeries(ctx context.Context, id uint) error {
	err := s.animeRepo.DeleteSeries(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSeriesNotFound) {
			return ErrSeriesNotFound
		}
		logrus.WithError(err).WithField("series_id", id).Error("Failed to delete anime series")
		return ErrInternalServer
	}
	return nil
}

// AddEpisode attaches an episode to an existing series; the series must
// resolve first so a dangling series id fails loudly rather than inserting
// an orphan row.
func (s *CatalogService) AddEpisode(ctx context.Context, seriesID uint, title, url string) (*domain.AnimeEpisode, error) {
	if _, err := s.animeRepo.FindSeriesByID(ctx, seriesID); err != nil {
		if errors.Is(err, repository.ErrSeriesNotFound) {
			return nil, ErrSeriesNotFound
		}
		logrus.WithError(err).WithField("series_id", seriesID).Error("Failed to verify series for episode")
		return nil, ErrInternalServer
	}
	episode := &domain.AnimeEpisode{Title: title, URL: url, SeriesID: seriesID}
	if err := s.animeRepo.SaveEpisode(ctx, episode); err != nil {
		logrus.WithError(err).WithField("title", title).Error("Failed to save anime episode")
		return nil, ErrInternalServer
	}
	return episode, nil
}

func (s *CatalogService) DeleteEpisode(ctx context.Context, id uint) error {
	err := s.animeRepo.DeleteEpisode(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEpisodeNotFound) {
			return ErrVideoNotFound
		}
		logrus.WithError(err).WithField("episode_id", id).Error("Failed to delete anime episode")
		return ErrInternalServer
	}
	return nil
}
