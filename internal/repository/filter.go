package repository

import (
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"tablebook/internal/model"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page selects a window of a result set. Page numbers start at 1.
type Page struct {
	Number int
	Size   int
}

// NewPage normalises user supplied paging values.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	// keep (number-1)*size representable
	if limit := math.MaxInt / size; number > limit {
		number = limit
	}
	return Page{Number: number, Size: size}
}

// Offset returns the number of rows skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Pages returns ceil(total/size).
func (p Page) Pages(total int64) int64 {
	if p.Size <= 0 {
		return 0
	}
	return (total + int64(p.Size) - 1) / int64(p.Size)
}

// Window returns the [start, end) bounds of this page within n items.
func (p Page) Window(n int) (int, int) {
	start := p.Offset()
	if start < 0 || start > n {
		start = n
	}
	end := start + p.Size
	if end > n {
		end = n
	}
	return start, end
}

// RestaurantFilter narrows a catalog search. Empty fields do not filter.
type RestaurantFilter struct {
	Text     string // name or location
	Location string
	Cuisine  string
}

// scope translates the filter into bound LIKE predicates.
func (f RestaurantFilter) scope(db *gorm.DB) *gorm.DB {
	if text := strings.TrimSpace(f.Text); text != "" {
		pattern := likePattern(text)
		db = db.Where("(LOWER(name) LIKE ? ESCAPE '!' OR LOWER(location) LIKE ? ESCAPE '!')", pattern, pattern)
	}
	if location := strings.TrimSpace(f.Location); location != "" {
		db = db.Where("LOWER(location) LIKE ? ESCAPE '!'", likePattern(location))
	}
	if cuisine := strings.TrimSpace(f.Cuisine); cuisine != "" {
		db = db.Where("LOWER(cuisine) LIKE ? ESCAPE '!'", likePattern(cuisine))
	}
	return db
}

// Match evaluates the filter against a single restaurant.
func (f RestaurantFilter) Match(r model.Restaurant) bool {
	if text := strings.TrimSpace(f.Text); text != "" && !containsFold(r.Name, text) && !containsFold(r.Location, text) {
		return false
	}
	if location := strings.TrimSpace(f.Location); location != "" && !containsFold(r.Location, location) {
		return false
	}
	if cuisine := strings.TrimSpace(f.Cuisine); cuisine != "" && !containsFold(r.Cuisine, cuisine) {
		return false
	}
	return true
}

// Names compare case-insensitively so every backend agrees regardless of
// the database collation. The raw name breaks ties between case variants.
const restaurantOrder = "rating DESC, LOWER(name) ASC, name ASC, id ASC"

// RestaurantLess orders restaurants by rating descending, then name ascending
// ignoring case.
func RestaurantLess(a, b model.Restaurant) bool {
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	if la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name); la != lb {
		return la < lb
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID < b.ID
}

// ReservationFilter narrows a user's reservation list.
type ReservationFilter struct {
	UserID uint
	// Status is ignored when empty.
	Status model.ReservationStatus
}

func (f ReservationFilter) scope(db *gorm.DB) *gorm.DB {
	db = db.Where("user_id = ?", f.UserID)
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	return db
}

// Match evaluates the filter against a single reservation.
func (f ReservationFilter) Match(r model.Reservation) bool {
	if r.UserID != f.UserID {
		return false
	}
	return f.Status == "" || r.Status == f.Status
}

const reservationOrder = "date DESC, time DESC, id DESC"

// ReservationLess orders reservations newest first by date then time.
func ReservationLess(a, b model.Reservation) bool {
	if a.Date != b.Date {
		return a.Date > b.Date
	}
	if a.Time != b.Time {
		return a.Time > b.Time
	}
	return a.ID > b.ID
}

// ReservationChanges is a partial update. Nil fields keep their stored value.
type ReservationChanges struct {
	Date            *string
	Time            *string
	PeopleCount     *int
	SpecialRequests *string
	Status          *model.ReservationStatus
	UpdatedAt       time.Time
}

// Empty reports whether no column would change apart from the timestamp.
func (c ReservationChanges) Empty() bool {
	return c.Date == nil && c.Time == nil && c.PeopleCount == nil && c.SpecialRequests == nil && c.Status == nil
}

func (c ReservationChanges) columns() map[string]interface{} {
	cols := map[string]interface{}{"updated_at": c.UpdatedAt}
	if c.Date != nil {
		cols["date"] = *c.Date
	}
	if c.Time != nil {
		cols["time"] = *c.Time
	}
	if c.PeopleCount != nil {
		cols["people_count"] = *c.PeopleCount
	}
	if c.SpecialRequests != nil {
		cols["special_requests"] = *c.SpecialRequests
	}
	if c.Status != nil {
		cols["status"] = *c.Status
	}
	return cols
}

// Apply copies the supplied fields onto r.
func (c ReservationChanges) Apply(r *model.Reservation) {
	if c.Date != nil {
		r.Date = *c.Date
	}
	if c.Time != nil {
		r.Time = *c.Time
	}
	if c.PeopleCount != nil {
		r.PeopleCount = *c.PeopleCount
	}
	if c.SpecialRequests != nil {
		r.SpecialRequests = *c.SpecialRequests
	}
	if c.Status != nil {
		r.Status = *c.Status
	}
	r.UpdatedAt = c.UpdatedAt
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
