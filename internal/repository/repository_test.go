package repository_test

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tablebook/internal/db"
	"tablebook/internal/model"
	"tablebook/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	require.NoError(t, db.Migrate(gormDB, false, log))

	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}

func seedCatalog(t *testing.T, repo repository.RestaurantRepository) {
	t.Helper()
	restaurants := []model.Restaurant{
		{Name: "Sakura", Location: "Downtown", Cuisine: "Japanese", Rating: 4.5, PriceRange: "$$$"},
		{Name: "Bella Napoli", Location: "Little Italy", Cuisine: "Italian", Rating: 4.5, PriceRange: "$$"},
		{Name: "Taco Loco", Location: "Mission District", Cuisine: "Mexican", Rating: 3.9, PriceRange: "$"},
		{Name: "Downtown Diner", Location: "Uptown", Cuisine: "American", Rating: 4.1, PriceRange: "$"},
		{Name: "100% Vegan", Location: "Downtown", Cuisine: "Vegan", Rating: 4.8, PriceRange: "$$"},
	}
	require.NoError(t, repo.CreateBatch(context.Background(), restaurants))
}

func TestRestaurantRepository_SearchOrderingAndPagination(t *testing.T) {
	repo := repository.NewRestaurantRepository(newTestDB(t))
	seedCatalog(t, repo)
	ctx := context.Background()

	items, total, err := repo.Search(ctx, repository.RestaurantFilter{}, repository.NewPage(1, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, items, 2)
	assert.Equal(t, "100% Vegan", items[0].Name)
	// equal ratings fall back to name ascending
	assert.Equal(t, "Bella Napoli", items[1].Name)

	var all []string
	for page := 1; page <= 3; page++ {
		items, _, err := repo.Search(ctx, repository.RestaurantFilter{}, repository.NewPage(page, 2))
		require.NoError(t, err)
		for _, r := range items {
			all = append(all, r.Name)
		}
	}
	assert.Equal(t, []string{"100% Vegan", "Bella Napoli", "Sakura", "Downtown Diner", "Taco Loco"}, all)
}

func TestRestaurantRepository_SearchFilters(t *testing.T) {
	repo := repository.NewRestaurantRepository(newTestDB(t))
	seedCatalog(t, repo)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter repository.RestaurantFilter
		want   []string
	}{
		{"text matches name or location", repository.RestaurantFilter{Text: "downtown"}, []string{"100% Vegan", "Sakura", "Downtown Diner"}},
		{"location only", repository.RestaurantFilter{Location: "DOWN"}, []string{"100% Vegan", "Sakura"}},
		{"cuisine", repository.RestaurantFilter{Cuisine: "ital"}, []string{"Bella Napoli"}},
		{"filters are ANDed", repository.RestaurantFilter{Text: "downtown", Cuisine: "japanese"}, []string{"Sakura"}},
		{"percent is literal", repository.RestaurantFilter{Text: "100%"}, []string{"100% Vegan"}},
		{"underscore is literal", repository.RestaurantFilter{Text: "_"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := repo.Search(ctx, tt.filter, repository.NewPage(1, 10))
			require.NoError(t, err)
			var names []string
			for _, r := range items {
				names = append(names, r.Name)
			}
			assert.Equal(t, tt.want, names)
			assert.Equal(t, int64(len(tt.want)), total)
		})
	}
}

func TestRestaurantRepository_DistinctAndFind(t *testing.T) {
	repo := repository.NewRestaurantRepository(newTestDB(t))
	seedCatalog(t, repo)
	ctx := context.Background()

	cuisines, err := repo.DistinctCuisines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"American", "Italian", "Japanese", "Mexican", "Vegan"}, cuisines)

	locations, err := repo.DistinctLocations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Downtown", "Little Italy", "Mission District", "Uptown"}, locations)

	restaurant, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Sakura", restaurant.Name)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestUserRepository(t *testing.T) {
	repo := repository.NewUserRepository(newTestDB(t))
	ctx := context.Background()

	user := &model.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	found, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.FindByID(ctx, user.ID+1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReservationRepository_Lifecycle(t *testing.T) {
	gormDB := newTestDB(t)
	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)
	restaurants := repository.NewRestaurantRepository(gormDB)
	repo := repository.NewReservationRepository(gormDB)
	seedCatalog(t, restaurants)

	owner := &model.User{Name: "Owner", Email: "owner@example.com", PasswordHash: "x"}
	other := &model.User{Name: "Other", Email: "other@example.com", PasswordHash: "x"}
	require.NoError(t, users.Create(ctx, owner))
	require.NoError(t, users.Create(ctx, other))

	first := &model.Reservation{UserID: owner.ID, RestaurantID: 1, Date: "2030-01-01", Time: "19:30", PeopleCount: 4, Status: model.ReservationStatusConfirmed}
	second := &model.Reservation{UserID: owner.ID, RestaurantID: 2, Date: "2030-01-01", Time: "20:00", PeopleCount: 2, Status: model.ReservationStatusConfirmed}
	third := &model.Reservation{UserID: owner.ID, RestaurantID: 3, Date: "2029-06-15", Time: "12:00", PeopleCount: 2, Status: model.ReservationStatusCancelled}
	for _, r := range []*model.Reservation{first, second, third} {
		require.NoError(t, repo.Create(ctx, r))
	}

	found, err := repo.FindOwned(ctx, owner.ID, first.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Restaurant)
	require.NotNil(t, found.User)
	assert.Equal(t, "Sakura", found.Restaurant.Name)
	assert.Equal(t, "owner@example.com", found.User.Email)

	_, err = repo.FindOwned(ctx, other.ID, first.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	items, total, err := repo.List(ctx, repository.ReservationFilter{UserID: owner.ID}, repository.NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 3)
	assert.Equal(t, []uint{second.ID, first.ID, third.ID}, []uint{items[0].ID, items[1].ID, items[2].ID})
	assert.NotNil(t, items[0].Restaurant)

	items, total, err = repo.List(ctx, repository.ReservationFilter{UserID: owner.ID, Status: model.ReservationStatusCancelled}, repository.NewPage(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, third.ID, items[0].ID)

	people := 6
	updatedAt := time.Now().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, repo.Update(ctx, owner.ID, first.ID, repository.ReservationChanges{PeopleCount: &people, UpdatedAt: updatedAt}))
	found, err = repo.FindOwned(ctx, owner.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, found.PeopleCount)
	assert.Equal(t, "2030-01-01", found.Date)
	assert.True(t, found.UpdatedAt.Equal(updatedAt))

	// another user's update does not touch the row
	other6 := 9
	err = repo.Update(ctx, other.ID, first.ID, repository.ReservationChanges{PeopleCount: &other6, UpdatedAt: updatedAt})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	err = repo.Update(ctx, owner.ID, 9999, repository.ReservationChanges{PeopleCount: &other6, UpdatedAt: updatedAt})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	found, err = repo.FindOwned(ctx, owner.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, found.PeopleCount)
}

func TestReservationRepository_ForeignKeys(t *testing.T) {
	gormDB := newTestDB(t)
	repo := repository.NewReservationRepository(gormDB)

	err := repo.Create(context.Background(), &model.Reservation{
		UserID: 42, RestaurantID: 42, Date: "2030-01-01", Time: "19:00", PeopleCount: 2, Status: model.ReservationStatusConfirmed,
	})
	assert.Error(t, err)
}

func TestReservationRepository_CompleteBefore(t *testing.T) {
	gormDB := newTestDB(t)
	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)
	restaurants := repository.NewRestaurantRepository(gormDB)
	repo := repository.NewReservationRepository(gormDB)
	seedCatalog(t, restaurants)

	user := &model.User{Name: "U", Email: "u@example.com", PasswordHash: "x"}
	require.NoError(t, users.Create(ctx, user))

	past := &model.Reservation{UserID: user.ID, RestaurantID: 1, Date: "2026-10-18", Time: "19:00", PeopleCount: 2, Status: model.ReservationStatusConfirmed}
	pastCancelled := &model.Reservation{UserID: user.ID, RestaurantID: 1, Date: "2026-10-17", Time: "19:00", PeopleCount: 2, Status: model.ReservationStatusCancelled}
	today := &model.Reservation{UserID: user.ID, RestaurantID: 1, Date: "2026-10-19", Time: "08:00", PeopleCount: 2, Status: model.ReservationStatusConfirmed}
	for _, r := range []*model.Reservation{past, pastCancelled, today} {
		require.NoError(t, repo.Create(ctx, r))
	}

	n, err := repo.CompleteBefore(ctx, "2026-10-19", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.FindOwned(ctx, user.ID, past.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusCompleted, got.Status)

	got, err = repo.FindOwned(ctx, user.ID, pastCancelled.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusCancelled, got.Status)

	got, err = repo.FindOwned(ctx, user.ID, today.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusConfirmed, got.Status)
}

func TestPage(t *testing.T) {
	assert.Equal(t, repository.Page{Number: 1, Size: 10}, repository.NewPage(0, 0))
	assert.Equal(t, repository.Page{Number: 3, Size: 100}, repository.NewPage(3, 500))

	page := repository.NewPage(3, 4)
	assert.Equal(t, 8, page.Offset())
	assert.Equal(t, int64(3), page.Pages(9))
	assert.Equal(t, int64(0), page.Pages(0))

	start, end := page.Window(10)
	assert.Equal(t, 8, start)
	assert.Equal(t, 10, end)
	start, end = page.Window(5)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, end)

	huge := repository.NewPage(math.MaxInt, 10)
	assert.Equal(t, math.MaxInt/10, huge.Number)
	assert.GreaterOrEqual(t, huge.Offset(), 0)
	start, end = huge.Window(3)
	assert.Equal(t, 3, start)
	assert.Equal(t, 3, end)

	start, end = repository.Page{Number: math.MaxInt, Size: 10}.Window(3)
	assert.Equal(t, 3, start)
	assert.Equal(t, 3, end)
}

func TestRestaurantLess_IgnoresCase(t *testing.T) {
	names := []model.Restaurant{
		{ID: 1, Name: "bistro", Rating: 4},
		{ID: 2, Name: "Zest", Rating: 4},
		{ID: 3, Name: "Bistro", Rating: 4},
		{ID: 4, Name: "alto", Rating: 3},
	}
	sort.Slice(names, func(i, j int) bool { return repository.RestaurantLess(names[i], names[j]) })

	var got []string
	for _, r := range names {
		got = append(got, r.Name)
	}
	assert.Equal(t, []string{"Bistro", "bistro", "Zest", "alto"}, got)
}

func TestRestaurantRepository_NameOrderIgnoresCase(t *testing.T) {
	gormDB := newTestDB(t)
	ctx := context.Background()
	repo := repository.NewRestaurantRepository(gormDB)
	require.NoError(t, repo.CreateBatch(ctx, []model.Restaurant{
		{Name: "bistro", Location: "A", Cuisine: "French", Rating: 4},
		{Name: "Zest", Location: "A", Cuisine: "Fusion", Rating: 4},
		{Name: "Bistro", Location: "A", Cuisine: "French", Rating: 4},
	}))

	items, _, err := repo.Search(ctx, repository.RestaurantFilter{}, repository.NewPage(1, 10))
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"Bistro", "bistro", "Zest"}, []string{items[0].Name, items[1].Name, items[2].Name})
}
