package services

import (
	"context"
	"time"

	"booktank/internal/apperrors"
	"booktank/internal/models"
	"booktank/internal/permissions"
	"booktank/internal/repositories"
)

// ReserveInput describes a new reservation over [Start, End).
type ReserveInput struct {
	CustomerID int64
	BookID     int64
	Start      time.Time
	End        time.Time
	Price      int64
}

// ReservePatch describes a partial update. Nil fields are left untouched.
type ReservePatch struct {
	CustomerID *int64
	BookID     *int64
	Start      *time.Time
	End        *time.Time
	Price      *int64
}

// ReserveService books reservations against customers and books. A book never
// holds two reservations whose windows overlap.
type ReserveService struct {
	uow       repositories.UnitOfWork
	publisher EventPublisher
	now       func() time.Time
}

// NewReserveService creates a new ReserveService. publisher may be nil.
func NewReserveService(uow repositories.UnitOfWork, publisher EventPublisher) *ReserveService {
	return &ReserveService{uow: uow, publisher: publisher, now: time.Now}
}

// Create books a reservation. Customers may only reserve for themselves.
func (s *ReserveService) Create(ctx context.Context, actor permissions.Principal, in ReserveInput) (models.Reserve, error) {
	if err := permissions.Authorize(permissions.SelfOrAdmin{Principal: actor, TargetID: in.CustomerID}); err != nil {
		return models.Reserve{}, err
	}
	if in.Price < 0 {
		return models.Reserve{}, apperrors.Validation("price cannot be negative")
	}

	reserve := models.Reserve{
		CustomerID: in.CustomerID,
		BookID:     in.BookID,
		Start:      models.Naive(in.Start),
		End:        models.Naive(in.End),
		Price:      in.Price,
	}
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		if _, err := loadCustomer(tx, reserve.CustomerID); err != nil {
			return err
		}
		if _, err := loadBook(tx, reserve.BookID); err != nil {
			return err
		}
		if err := checkWindow(tx, reserve); err != nil {
			return err
		}
		models.Touch(&reserve.CreatedAt, &reserve.UpdatedAt, s.now())
		return tx.Reserves().Create(&reserve)
	})
	if err != nil {
		return models.Reserve{}, err
	}
	publish(ctx, s.publisher, EventReserveCreated, reserve)
	return reserve, nil
}

// Get returns a reservation visible to actor.
func (s *ReserveService) Get(ctx context.Context, actor permissions.Principal, id int64) (models.Reserve, error) {
	var reserve models.Reserve
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		var err error
		reserve, err = loadReserve(tx, id)
		return err
	})
	if err != nil {
		return models.Reserve{}, err
	}
	if err := permissions.Authorize(permissions.SelfOrAdmin{Principal: actor, TargetID: reserve.CustomerID}); err != nil {
		return models.Reserve{}, err
	}
	return reserve, nil
}

// List returns reservations matching filter. Non-admins only ever see their own.
func (s *ReserveService) List(ctx context.Context, actor permissions.Principal, filter repositories.ReserveFilter) ([]models.Reserve, error) {
	if !actor.IsAdmin() {
		filter.CustomerID = actor.ID
	}
	var reserves []models.Reserve
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		var err error
		reserves, err = tx.Reserves().List(filter)
		return err
	})
	return reserves, err
}

// Update applies patch. Customer and book are re-checked only when they
// change; ordering and overlap are re-checked on the resulting window.
func (s *ReserveService) Update(ctx context.Context, actor permissions.Principal, id int64, patch ReservePatch) (models.Reserve, error) {
	if patch.Price != nil && *patch.Price < 0 {
		return models.Reserve{}, apperrors.Validation("price cannot be negative")
	}

	var reserve models.Reserve
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		r, err := loadReserve(tx, id)
		if err != nil {
			return err
		}
		if err := permissions.Authorize(permissions.SelfOrAdmin{Principal: actor, TargetID: r.CustomerID}); err != nil {
			return err
		}
		if patch == (ReservePatch{}) {
			reserve = r
			return nil
		}

		if patch.CustomerID != nil && *patch.CustomerID != r.CustomerID {
			if err := permissions.Authorize(permissions.SelfOrAdmin{Principal: actor, TargetID: *patch.CustomerID}); err != nil {
				return err
			}
			if _, err := loadCustomer(tx, *patch.CustomerID); err != nil {
				return err
			}
			r.CustomerID = *patch.CustomerID
		}
		if patch.BookID != nil && *patch.BookID != r.BookID {
			if _, err := loadBook(tx, *patch.BookID); err != nil {
				return err
			}
			r.BookID = *patch.BookID
		}
		if patch.Start != nil {
			r.Start = models.Naive(*patch.Start)
		}
		if patch.End != nil {
			r.End = models.Naive(*patch.End)
		}
		if patch.Price != nil {
			r.Price = *patch.Price
		}
		if err := checkWindow(tx, r); err != nil {
			return err
		}
		models.Touch(&r.CreatedAt, &r.UpdatedAt, s.now())
		if err := tx.Reserves().Update(&r); err != nil {
			return err
		}
		reserve = r
		return nil
	})
	if err != nil {
		return models.Reserve{}, err
	}
	if patch != (ReservePatch{}) {
		publish(ctx, s.publisher, EventReserveUpdated, reserve)
	}
	return reserve, nil
}

// Delete removes a reservation. Deleting one that does not exist succeeds.
func (s *ReserveService) Delete(ctx context.Context, actor permissions.Principal, id int64) error {
	var deleted bool
	err := s.uow.Do(ctx, func(tx repositories.Tx) error {
		r, found, err := tx.Reserves().GetByID(id)
		if err != nil || !found {
			return err
		}
		if err := permissions.Authorize(permissions.SelfOrAdmin{Principal: actor, TargetID: r.CustomerID}); err != nil {
			return err
		}
		deleted, err = tx.Reserves().Delete(id)
		return err
	})
	if err != nil {
		return err
	}
	if deleted {
		publish(ctx, s.publisher, EventReserveDeleted, map[string]int64{"id": id})
	}
	return nil
}

func loadReserve(tx repositories.Tx, id int64) (models.Reserve, error) {
	r, found, err := tx.Reserves().GetByID(id)
	if err != nil {
		return r, err
	}
	if !found {
		return r, apperrors.NotFound("reserve")
	}
	return r, nil
}

// checkWindow enforces start < end and that no other reservation of the same
// book overlaps r. The check reads inside the caller's transaction, so two
// concurrent bookings can still both pass under READ COMMITTED.
func checkWindow(tx repositories.Tx, r models.Reserve) error {
	if !r.Start.Before(r.End) {
		return apperrors.Validation("start must be before end")
	}
	clashes, err := tx.Reserves().FindOverlapping(r.BookID, r.Start, r.End, r.ID)
	if err != nil {
		return err
	}
	if len(clashes) > 0 {
		return apperrors.Conflict("reserve", "book is already reserved between %s and %s",
			clashes[0].Start.Format(time.RFC3339), clashes[0].End.Format(time.RFC3339))
	}
	return nil
}
