package usecase

import (
	"context"
	"fmt"

	"cinema-pegasus/internal/data/entity"
	"cinema-pegasus/internal/data/repository"
)

// CheckSeatsAvailable fails when a candidate seat is requested twice or is
// already in occupied. The first clash in candidate order is reported.
func CheckSeatsAvailable(candidates, occupied []int64) error {
	seen := make(map[int64]struct{}, len(candidates))
	for _, id := range candidates {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: seat %d requested more than once", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	taken := make(map[int64]struct{}, len(occupied))
	for _, id := range occupied {
		taken[id] = struct{}{}
	}

	for _, id := range candidates {
		if _, ok := taken[id]; ok {
			return fmt.Errorf("%w: seat %d", ErrSeatTaken, id)
		}
	}

	return nil
}

// reserveSeats validates candidates against the screening's room and its
// sold seats. Tickets of excludeOrderID do not count as sold.
// The caller must hold the screening lock.
func reserveSeats(
	ctx context.Context,
	repo *repository.Repository,
	screening *entity.Screening,
	candidates []int64,
	excludeOrderID *int64,
) (map[int64]*entity.Seat, error) {
	// duplicates first, before touching the database
	if err := CheckSeatsAvailable(candidates, nil); err != nil {
		return nil, err
	}

	seats, err := repo.Seat.FindByIDs(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("load seats: %w", err)
	}

	byID := make(map[int64]*entity.Seat, len(seats))
	for _, seat := range seats {
		byID[seat.ID] = seat
	}
	for _, id := range candidates {
		seat, ok := byID[id]
		if !ok || seat.RoomID != screening.RoomID {
			return nil, fmt.Errorf("%w: seat %d does not belong to the screening room", ErrInvalidInput, id)
		}
	}

	occupied, err := repo.Ticket.FindOccupiedSeatIDs(ctx, screening.ID, excludeOrderID)
	if err != nil {
		return nil, fmt.Errorf("load occupied seats: %w", err)
	}

	if err := CheckSeatsAvailable(candidates, occupied); err != nil {
		return nil, err
	}

	return byID, nil
}
