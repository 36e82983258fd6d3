// Package dashboard derives the staff dashboard from the live order list and
// applies staff status changes with optimistic rollback.
package dashboard

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/example/chiya/internal/models"
)

// DateLayout is the format of selected and history dates.
const DateLayout = "2006-01-02"

// DefaultRecencyWindow is how long a new order stays highlighted.
const DefaultRecencyWindow = 10 * time.Minute

var ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")

// Filter is the staff's current selection.
type Filter struct {
	Date     string // YYYY-MM-DD; empty means today
	Search   string
	Location *time.Location
}

// OrderCard is an order as shown on the dashboard.
type OrderCard struct {
	models.Order
	IsNewOrUpdated bool `json:"is_new_or_updated"`
	CanMarkPaid    bool `json:"can_mark_paid"`
	CanMarkDone    bool `json:"can_mark_done"`
}

// Views is everything the dashboard renders for one filter.
type Views struct {
	SelectedDate string `json:"selected_date"`
	Search       string `json:"search"`

	TotalOrders    int   `json:"total_orders"`
	PendingCount   int   `json:"pending_count"`
	CompletedCount int   `json:"completed_count"`
	TotalRevenue   int64 `json:"total_revenue"`

	DateFiltered []OrderCard `json:"-"`
	Filtered     []OrderCard `json:"orders"`
	Pending      []OrderCard `json:"pending"`
	Completed    []OrderCard `json:"completed"`
	AllActive    []OrderCard `json:"all_active"`
	Cash         []OrderCard `json:"cash"`
	Online       []OrderCard `json:"online"`

	HistoryDates []string `json:"history_dates"`
}

// Today returns the current date in loc.
func Today(now time.Time, loc *time.Location) string {
	return now.In(orLocal(loc)).Format(DateLayout)
}

// ParseDate checks a YYYY-MM-DD date. Empty input is allowed.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", ErrInvalidDate
	}
	return s, nil
}

// IsNewOrUpdated reports whether o was updated at all or created within window of now.
func IsNewOrUpdated(o models.Order, now time.Time, window time.Duration) bool {
	if o.UpdatedAt != nil {
		return true
	}
	return now.Sub(o.CreatedAt) <= window
}

// Derive computes every dashboard view. It has no side effects, so the same
// inputs always produce the same views.
func Derive(orders []models.Order, f Filter, now time.Time, window time.Duration) Views {
	loc := orLocal(f.Location)
	selected := f.Date
	if selected == "" {
		selected = Today(now, loc)
	}
	query := strings.ToLower(strings.TrimSpace(f.Search))

	v := Views{
		SelectedDate: selected,
		Search:       strings.TrimSpace(f.Search),
		DateFiltered: []OrderCard{},
		Filtered:     []OrderCard{},
		Pending:      []OrderCard{},
		Completed:    []OrderCard{},
		AllActive:    []OrderCard{},
		Cash:         []OrderCard{},
		Online:       []OrderCard{},
	}

	dates := map[string]struct{}{selected: {}}
	for _, o := range orders {
		day := o.CreatedAt.In(loc).Format(DateLayout)
		dates[day] = struct{}{}
		if day == selected {
			v.DateFiltered = append(v.DateFiltered, cardOf(o, now, window))
		}
	}
	sortCards(v.DateFiltered)

	for _, card := range v.DateFiltered {
		switch card.PaymentStatus {
		case models.PaymentStatusPending:
			v.Pending = append(v.Pending, card)
		case models.PaymentStatusCompleted:
			v.Completed = append(v.Completed, card)
			v.TotalRevenue += card.TotalAmount
		}

		if !matchesSearch(card.Order, query) {
			continue
		}
		v.Filtered = append(v.Filtered, card)
		if !card.IsCompleted() {
			v.AllActive = append(v.AllActive, card)
		}
		switch card.PaymentMethod {
		case models.PaymentMethodCash:
			v.Cash = append(v.Cash, card)
		case models.PaymentMethodOnline:
			v.Online = append(v.Online, card)
		}
	}

	v.TotalOrders = len(v.DateFiltered)
	v.PendingCount = len(v.Pending)
	v.CompletedCount = len(v.Completed)

	v.HistoryDates = make([]string, 0, len(dates))
	for day := range dates {
		v.HistoryDates = append(v.HistoryDates, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(v.HistoryDates)))

	return v
}

func cardOf(o models.Order, now time.Time, window time.Duration) OrderCard {
	return OrderCard{
		Order:          o,
		IsNewOrUpdated: IsNewOrUpdated(o, now, window),
		CanMarkPaid:    canMarkPaid(&o),
		CanMarkDone:    canMarkDone(&o),
	}
}

func canMarkPaid(o *models.Order) bool {
	return o.PaymentStatus == models.PaymentStatusPending && !o.IsCompleted()
}

func canMarkDone(o *models.Order) bool {
	return !o.IsCompleted()
}

// matchesSearch expects query already lowercased and trimmed.
func matchesSearch(o models.Order, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(o.CustomerName), query) {
		return true
	}
	table := strings.ToLower(strings.TrimSpace(o.TableNumber))
	return strings.Contains(table, query) || strings.Contains("table "+table, query)
}

// less orders open before completed, highlighted before plain, then newest first.
func less(a, b OrderCard) bool {
	if ac, bc := a.IsCompleted(), b.IsCompleted(); ac != bc {
		return !ac
	}
	if a.IsNewOrUpdated != b.IsNewOrUpdated {
		return a.IsNewOrUpdated
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

func sortCards(cards []OrderCard) {
	sort.SliceStable(cards, func(i, j int) bool { return less(cards[i], cards[j]) })
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
