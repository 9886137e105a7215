package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type memCache struct {
	entries map[string][]byte
	getErr  error
}

func (c *memCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.entries == nil {
		c.entries = map[string][]byte{}
	}
	c.entries[key] = raw
	return nil
}

func TestFilmService_CachesReads(t *testing.T) {
	st := seededStore(time.Now())
	repo := &fakeFilmRepo{st: st}
	c := &memCache{}
	svc := NewFilmService(repo, c, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		films, err := svc.GetFilms(ctx)
		if err != nil {
			t.Fatalf("GetFilms: %v", err)
		}
		if len(films) != 1 || films[0].Title != "Dune" {
			t.Fatalf("films = %+v", films)
		}
		if films[0].Genres == nil {
			t.Errorf("genres must be an empty list")
		}
	}
	if repo.calls != 1 {
		t.Errorf("repository calls = %d, want 1", repo.calls)
	}

	if _, err := svc.GetFilm(ctx, 1); err != nil {
		t.Fatalf("GetFilm: %v", err)
	}
	if _, err := svc.GetFilm(ctx, 1); err != nil {
		t.Fatalf("GetFilm: %v", err)
	}
	if repo.calls != 2 {
		t.Errorf("repository calls = %d, want 2", repo.calls)
	}
}

func TestFilmService_CacheFailureFallsBackToRepository(t *testing.T) {
	st := seededStore(time.Now())
	repo := &fakeFilmRepo{st: st}
	svc := NewFilmService(repo, &memCache{getErr: errors.New("connection refused")}, zap.NewNop())

	genres, err := svc.GetGenres(context.Background())
	if err != nil {
		t.Fatalf("GetGenres: %v", err)
	}
	if len(genres) != 2 || repo.calls != 1 {
		t.Errorf("genres = %v, calls = %d", genres, repo.calls)
	}
}

func TestFilmService_GetFilmNotFound(t *testing.T) {
	st := seededStore(time.Now())
	svc := NewFilmService(&fakeFilmRepo{st: st}, &memCache{}, zap.NewNop())

	_, err := svc.GetFilm(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestScreeningService(t *testing.T) {
	now := time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)
	st := seededStore(now)
	svc := NewScreeningService(&fakeScreeningRepo{st: st}, func() time.Time { return now }, zap.NewNop())
	ctx := context.Background()

	upcoming, err := svc.GetUpcoming(ctx, 1)
	if err != nil {
		t.Fatalf("GetUpcoming: %v", err)
	}
	if len(upcoming.Screenings) != 3 {
		t.Fatalf("upcoming = %d, want 3", len(upcoming.Screenings))
	}
	// soonest first, the past one left out
	if upcoming.Screenings[0].ID != 13 || upcoming.Screenings[0].Room != "Sala 2" || upcoming.Screenings[0].Price != 6 {
		t.Errorf("first upcoming = %+v", upcoming.Screenings[0])
	}

	all, err := svc.GetByFilm(ctx, 1)
	if err != nil {
		t.Fatalf("GetByFilm: %v", err)
	}
	if len(all) != 4 || all[0].ID != 12 {
		t.Errorf("all screenings = %+v", all)
	}

	none, err := svc.GetByFilm(ctx, 7)
	if err != nil {
		t.Fatalf("GetByFilm: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("screenings = %v, want empty list", none)
	}
}

func TestSeatService(t *testing.T) {
	now := time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)
	st := seededStore(now)
	st.addOrder(1, 10, 2, 4)
	svc := NewSeatService(st.repository(), zap.NewNop())
	ctx := context.Background()

	seats, err := svc.GetSeats(ctx, 10)
	if err != nil {
		t.Fatalf("GetSeats: %v", err)
	}
	if len(seats) != 4 || seats[0].ID != 1 || seats[3].Number != 4 {
		t.Errorf("seats = %+v", seats)
	}

	if _, err := svc.GetSeats(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown screening error = %v, want ErrNotFound", err)
	}

	occupied, err := svc.GetOccupied(ctx, 10)
	if err != nil {
		t.Fatalf("GetOccupied: %v", err)
	}
	if len(occupied) != 2 || occupied[0].Number != 2 || occupied[1].Number != 4 {
		t.Errorf("occupied = %+v", occupied)
	}

	free, err := svc.GetOccupied(ctx, 11)
	if err != nil {
		t.Fatalf("GetOccupied: %v", err)
	}
	if free == nil || len(free) != 0 {
		t.Errorf("occupied = %v, want empty list", free)
	}
}
