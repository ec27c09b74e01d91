package memory_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablebook/internal/model"
	"tablebook/internal/repository"
	"tablebook/internal/repository/memory"
)

func newSeededStore(t *testing.T) (*repository.Store, *model.User) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Restaurants.CreateBatch(ctx, []model.Restaurant{
		{Name: "bistro", Location: "Old Town", Cuisine: "French", Rating: 4.2},
		{Name: "Zest", Location: "Harbour", Cuisine: "Fusion", Rating: 4.2},
		{Name: "Bistro", Location: "Old Town", Cuisine: "French", Rating: 4.2},
	}))
	user := &model.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x"}
	require.NoError(t, store.Users.Create(ctx, user))
	return store, user
}

func TestSearch_PageBeyondEnd(t *testing.T) {
	store, _ := newSeededStore(t)

	items, total, err := store.Restaurants.Search(context.Background(), repository.RestaurantFilter{}, repository.NewPage(math.MaxInt, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Empty(t, items)
}

func TestSearch_NameOrderIgnoresCase(t *testing.T) {
	store, _ := newSeededStore(t)

	items, _, err := store.Restaurants.Search(context.Background(), repository.RestaurantFilter{}, repository.NewPage(1, 10))
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"Bistro", "bistro", "Zest"}, []string{items[0].Name, items[1].Name, items[2].Name})
}

func TestReservations_ListPageBeyondEnd(t *testing.T) {
	store, user := newSeededStore(t)
	ctx := context.Background()
	require.NoError(t, store.Reservations.Create(ctx, &model.Reservation{
		UserID: user.ID, RestaurantID: 1, Date: "2030-01-01", Time: "19:00", PeopleCount: 2,
	}))

	items, total, err := store.Reservations.List(ctx, repository.ReservationFilter{UserID: user.ID}, repository.NewPage(math.MaxInt, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Empty(t, items)
}

func TestReservations_UpdateMissing(t *testing.T) {
	store, user := newSeededStore(t)
	ctx := context.Background()
	reservation := &model.Reservation{UserID: user.ID, RestaurantID: 1, Date: "2030-01-01", Time: "19:00", PeopleCount: 2}
	require.NoError(t, store.Reservations.Create(ctx, reservation))

	people := 5
	changes := repository.ReservationChanges{PeopleCount: &people, UpdatedAt: time.Now()}

	err := store.Reservations.Update(ctx, user.ID, 999, changes)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = store.Reservations.Update(ctx, user.ID+1, reservation.ID, changes)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, store.Reservations.Update(ctx, user.ID, reservation.ID, changes))
	got, err := store.Reservations.FindOwned(ctx, user.ID, reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.PeopleCount)
}
