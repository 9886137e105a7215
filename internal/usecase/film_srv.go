package usecase

import (
	"context"
	"fmt"

	"cinema-pegasus/internal/data/repository"
	"cinema-pegasus/internal/dto/response"
	"cinema-pegasus/pkg/cache"

	"go.uber.org/zap"
)

const (
	cacheKeyFilms  = "films:all"
	cacheKeyGenres = "films:genres"
)

type FilmService interface {
	GetFilms(ctx context.Context) ([]response.FilmResponse, error)
	GetFilm(ctx context.Context, id int64) (*response.FilmResponse, error)
	GetGenres(ctx context.Context) ([]string, error)
}

type filmService struct {
	repo  repository.FilmRepository
	cache cache.Cache
	log   *zap.Logger
}

func NewFilmService(repo repository.FilmRepository, c cache.Cache, log *zap.Logger) FilmService {
	if c == nil {
		c = cache.Noop{}
	}
	return &filmService{
		repo:  repo,
		cache: c,
		log:   log.With(zap.String("service", "film")),
	}
}

func (s *filmService) GetFilms(ctx context.Context) ([]response.FilmResponse, error) {
	var films []response.FilmResponse
	if s.fromCache(ctx, cacheKeyFilms, &films) {
		return films, nil
	}

	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to get films", zap.Error(err))
		return nil, fmt.Errorf("get films: %w", err)
	}

	films = make([]response.FilmResponse, 0, len(rows))
	for _, f := range rows {
		films = append(films, toFilmResponse(f))
	}

	s.toCache(ctx, cacheKeyFilms, films)
	return films, nil
}

func (s *filmService) GetFilm(ctx context.Context, id int64) (*response.FilmResponse, error) {
	key := fmt.Sprintf("films:%d", id)

	var film response.FilmResponse
	if s.fromCache(ctx, key, &film) {
		return &film, nil
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get film", zap.Error(err), zap.Int64("film_id", id))
		return nil, fmt.Errorf("get film: %w", err)
	}
	if row == nil {
		return nil, fmt.Errorf("film %w", ErrNotFound)
	}

	film = toFilmResponse(row)
	s.toCache(ctx, key, film)
	return &film, nil
}

func (s *filmService) GetGenres(ctx context.Context) ([]string, error) {
	var genres []string
	if s.fromCache(ctx, cacheKeyGenres, &genres) {
		return genres, nil
	}

	genres, err := s.repo.Genres(ctx)
	if err != nil {
		s.log.Error("Failed to get genres", zap.Error(err))
		return nil, fmt.Errorf("get genres: %w", err)
	}

	s.toCache(ctx, cacheKeyGenres, genres)
	return genres, nil
}

// cache errors only cost a database round trip
func (s *filmService) fromCache(ctx context.Context, key string, dest any) bool {
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (s *filmService) toCache(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
