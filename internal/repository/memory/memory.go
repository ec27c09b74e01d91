// Package memory is an in-process implementation of the repository
// interfaces. It is used when no SQL database is configured and in tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tablebook/internal/model"
	"tablebook/internal/repository"
)

// DB holds every table of the memory backend behind one lock so that
// foreign-key checks see a consistent snapshot.
type DB struct {
	mu           sync.RWMutex
	users        map[uint]model.User
	restaurants  map[uint]model.Restaurant
	reservations map[uint]model.Reservation
	nextID       map[string]uint
	now          func() time.Time
}

// New returns an empty memory database.
func New() *DB {
	return &DB{
		users:        make(map[uint]model.User),
		restaurants:  make(map[uint]model.Restaurant),
		reservations: make(map[uint]model.Reservation),
		nextID:       make(map[string]uint),
		now:          time.Now,
	}
}

// NewStore builds a repository.Store over a fresh memory database.
func NewStore() *repository.Store {
	db := New()
	return &repository.Store{
		Users:        &UserRepository{db: db},
		Restaurants:  &RestaurantRepository{db: db},
		Reservations: &ReservationRepository{db: db},
		Ping:         func(context.Context) error { return nil },
	}
}

func (db *DB) id(table string) uint {
	db.nextID[table]++
	return db.nextID[table]
}

// stamp fills auto timestamps the way GORM does on insert.
func (db *DB) stamp(created, updated *time.Time) {
	now := db.now()
	if created.IsZero() {
		*created = now
	}
	if updated.IsZero() {
		*updated = now
	}
}

// UserRepository implements repository.UserRepository.
type UserRepository struct {
	db *DB
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	if user.ID == 0 {
		user.ID = r.db.id("users")
	}
	r.db.stamp(&user.CreatedAt, &user.UpdatedAt)
	r.db.users[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id uint) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	user, ok := r.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, user := range r.db.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

// RestaurantRepository implements repository.RestaurantRepository.
type RestaurantRepository struct {
	db *DB
}

var _ repository.RestaurantRepository = (*RestaurantRepository)(nil)

func (r *RestaurantRepository) Search(_ context.Context, filter repository.RestaurantFilter, page repository.Page) ([]model.Restaurant, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	matched := make([]model.Restaurant, 0)
	for _, restaurant := range r.db.restaurants {
		if filter.Match(restaurant) {
			matched = append(matched, restaurant)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return repository.RestaurantLess(matched[i], matched[j])
	})

	start, end := page.Window(len(matched))
	items := make([]model.Restaurant, end-start)
	copy(items, matched[start:end])
	return items, int64(len(matched)), nil
}

func (r *RestaurantRepository) FindByID(_ context.Context, id uint) (*model.Restaurant, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	restaurant, ok := r.db.restaurants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &restaurant, nil
}

func (r *RestaurantRepository) DistinctCuisines(_ context.Context) ([]string, error) {
	return r.distinct(func(rest model.Restaurant) string { return rest.Cuisine }), nil
}

func (r *RestaurantRepository) DistinctLocations(_ context.Context) ([]string, error) {
	return r.distinct(func(rest model.Restaurant) string { return rest.Location }), nil
}

func (r *RestaurantRepository) distinct(field func(model.Restaurant) string) []string {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, restaurant := range r.db.restaurants {
		v := field(restaurant)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func (r *RestaurantRepository) Count(_ context.Context) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.db.restaurants)), nil
}

func (r *RestaurantRepository) CreateBatch(_ context.Context, restaurants []model.Restaurant) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range restaurants {
		if restaurants[i].ID == 0 {
			restaurants[i].ID = r.db.id("restaurants")
		} else if restaurants[i].ID > r.db.nextID["restaurants"] {
			r.db.nextID["restaurants"] = restaurants[i].ID
		}
		r.db.stamp(&restaurants[i].CreatedAt, &restaurants[i].UpdatedAt)
		r.db.restaurants[restaurants[i].ID] = restaurants[i]
	}
	return nil
}

// ReservationRepository implements repository.ReservationRepository.
type ReservationRepository struct {
	db *DB
}

var _ repository.ReservationRepository = (*ReservationRepository)(nil)

// Create enforces the same foreign keys as the SQL schema.
func (r *ReservationRepository) Create(_ context.Context, reservation *model.Reservation) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[reservation.UserID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.db.restaurants[reservation.RestaurantID]; !ok {
		return repository.ErrNotFound
	}
	if reservation.Status == "" {
		reservation.Status = model.ReservationStatusConfirmed
	}
	reservation.ID = r.db.id("reservations")
	r.db.stamp(&reservation.CreatedAt, &reservation.UpdatedAt)

	stored := *reservation
	stored.User, stored.Restaurant = nil, nil
	r.db.reservations[stored.ID] = stored
	return nil
}

func (r *ReservationRepository) FindOwned(_ context.Context, userID, id uint) (*model.Reservation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	reservation, ok := r.db.reservations[id]
	if !ok || reservation.UserID != userID {
		return nil, repository.ErrNotFound
	}
	r.preload(&reservation, true)
	return &reservation, nil
}

func (r *ReservationRepository) List(_ context.Context, filter repository.ReservationFilter, page repository.Page) ([]model.Reservation, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	matched := make([]model.Reservation, 0)
	for _, reservation := range r.db.reservations {
		if filter.Match(reservation) {
			matched = append(matched, reservation)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return repository.ReservationLess(matched[i], matched[j])
	})

	start, end := page.Window(len(matched))
	items := make([]model.Reservation, 0, end-start)
	for _, reservation := range matched[start:end] {
		r.preload(&reservation, false)
		items = append(items, reservation)
	}
	return items, int64(len(matched)), nil
}

func (r *ReservationRepository) Update(_ context.Context, userID, id uint, changes repository.ReservationChanges) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	reservation, ok := r.db.reservations[id]
	if !ok || reservation.UserID != userID {
		return repository.ErrNotFound
	}
	changes.Apply(&reservation)
	r.db.reservations[id] = reservation
	return nil
}

func (r *ReservationRepository) CompleteBefore(_ context.Context, date string, updatedAt time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var count int64
	for id, reservation := range r.db.reservations {
		if reservation.Status == model.ReservationStatusConfirmed && reservation.Date < date {
			reservation.Status = model.ReservationStatusCompleted
			reservation.UpdatedAt = updatedAt
			r.db.reservations[id] = reservation
			count++
		}
	}
	return count, nil
}

// preload attaches copies of the related rows. Callers hold the read lock.
func (r *ReservationRepository) preload(reservation *model.Reservation, withUser bool) {
	if restaurant, ok := r.db.restaurants[reservation.RestaurantID]; ok {
		reservation.Restaurant = &restaurant
	}
	if withUser {
		if user, ok := r.db.users[reservation.UserID]; ok {
			reservation.User = &user
		}
	}
}
