// Package listing holds the client-side view over all applications:
// filtering, sorting and paging of a snapshot fetched in one call.
package listing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/blockedby/application-tracker/internal/logger"
	"github.com/blockedby/application-tracker/internal/models"
)

// DefaultPageSize is the initial number of rows per page.
const DefaultPageSize = 10

// PageSizeOptions are the accepted page sizes.
var PageSizeOptions = []int{5, 10, 25, 50}

var (
	ErrUnknownColumn   = errors.New("unknown column")
	ErrInvalidPageSize = errors.New("invalid page size")
)

// Lister fetches every application.
type Lister interface {
	ListAll(ctx context.Context) ([]models.Application, error)
}

// Column is a sortable displayed column.
type Column string

// Column constants, in display order.
const (
	ColumnNone            Column = ""
	ColumnCompanyName     Column = "companyName"
	ColumnJobTitle        Column = "jobTitle"
	ColumnCountry         Column = "country"
	ColumnStatus          Column = "status"
	ColumnApplicationDate Column = "applicationDate"
	ColumnPublicationDate Column = "publicationDate"
	ColumnJobLink         Column = "jobLink"
)

// Columns returns the displayed columns in order.
func Columns() []Column {
	return []Column{
		ColumnCompanyName,
		ColumnJobTitle,
		ColumnCountry,
		ColumnStatus,
		ColumnApplicationDate,
		ColumnPublicationDate,
		ColumnJobLink,
	}
}

// ParseColumn validates a column name.
func ParseColumn(s string) (Column, error) {
	c := Column(s)
	if c == ColumnNone || slices.Contains(Columns(), c) {
		return c, nil
	}
	return ColumnNone, fmt.Errorf("%w: %s", ErrUnknownColumn, s)
}

// Direction is the sort direction.
type Direction int

// Direction constants.
const (
	Asc Direction = iota
	Desc
)

// Listing is a filtered, sorted, paged view of an application snapshot.
type Listing struct {
	lister Lister
	log    *logger.Logger
	locale string

	mu       sync.RWMutex
	rows     []models.Application
	loading  bool
	filter   string
	sortCol  Column
	sortDir  Direction
	page     int
	pageSize int
}

// Option configures a Listing.
type Option func(*Listing)

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(l *Listing) { l.log = log }
}

// WithLocale sets the locale of displayed status labels. The filter matches
// the label as well as the raw status.
func WithLocale(locale string) Option {
	return func(l *Listing) { l.locale = locale }
}

// WithPageSize sets the initial page size.
func WithPageSize(n int) Option {
	return func(l *Listing) {
		if slices.Contains(PageSizeOptions, n) {
			l.pageSize = n
		}
	}
}

// New creates an empty listing backed by lister.
func New(lister Lister, opts ...Option) *Listing {
	l := &Listing{
		lister:   lister,
		log:      logger.Get(),
		rows:     []models.Application{},
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load replaces the snapshot with a fresh fetch. On failure the listing is
// left empty.
func (l *Listing) Load(ctx context.Context) error {
	l.mu.Lock()
	l.loading = true
	l.mu.Unlock()

	apps, err := l.lister.ListAll(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false

	if err != nil {
		l.rows = []models.Application{}
		l.page = 0
		l.log.Error().Err(err).Msg("load applications failed")
		return fmt.Errorf("load applications: %w", err)
	}

	l.rows = append([]models.Application{}, apps...)
	l.clampPage()
	l.log.Debug().Int("rows", len(l.rows)).Msg("applications loaded")
	return nil
}

// Loading reports whether a Load is outstanding.
func (l *Listing) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

// SetFilter sets the free-text filter and returns to the first page.
func (l *Listing) SetFilter(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filter = strings.ToLower(strings.TrimSpace(s))
	l.page = 0
}

// Locale returns the locale of displayed status labels.
func (l *Listing) Locale() string {
	return l.locale
}

// Filter returns the normalized filter text.
func (l *Listing) Filter() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.filter
}

// SetSort orders rows by column. ColumnNone keeps the fetch order.
func (l *Listing) SetSort(col Column, dir Direction) error {
	if _, err := ParseColumn(string(col)); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sortCol = col
	l.sortDir = dir
	return nil
}

// SetPage selects a zero-based page, clamped to the available range.
func (l *Listing) SetPage(i int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.page = i
	l.clampPage()
}

// CurrentPage returns the zero-based page index.
func (l *Listing) CurrentPage() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.page
}

// SetPageSize changes the page size and returns to the first page.
func (l *Listing) SetPageSize(n int) error {
	if !slices.Contains(PageSizeOptions, n) {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, n)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pageSize = n
	l.page = 0
	return nil
}

// PageSize returns the number of rows per page.
func (l *Listing) PageSize() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.pageSize
}

// Total returns the number of rows in the snapshot.
func (l *Listing) Total() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.rows)
}

// Filtered returns the rows matching the filter, in sort order.
func (l *Listing) Filtered() []models.Application {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.view()
}

// Page returns the rows of the current page.
func (l *Listing) Page() []models.Application {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rows := l.view()
	start := l.page * l.pageSize
	if start >= len(rows) {
		return []models.Application{}
	}
	end := min(start+l.pageSize, len(rows))
	return rows[start:end]
}

// PageCount returns the number of pages of the filtered rows.
func (l *Listing) PageCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return pageCount(len(l.view()), l.pageSize)
}

func pageCount(n, size int) int {
	return int(math.Ceil(float64(n) / float64(size)))
}

// clampPage must run with mu held.
func (l *Listing) clampPage() {
	last := pageCount(len(l.view()), l.pageSize) - 1
	if l.page > last {
		l.page = last
	}
	if l.page < 0 {
		l.page = 0
	}
}

// view must run with mu held.
func (l *Listing) view() []models.Application {
	out := make([]models.Application, 0, len(l.rows))
	for _, app := range l.rows {
		if Matches(app, l.filter, l.locale) {
			out = append(out, app)
		}
	}
	if l.sortCol == ColumnNone {
		return out
	}

	col, dir := l.sortCol, l.sortDir
	slices.SortStableFunc(out, func(a, b models.Application) int {
		c := strings.Compare(sortKey(a, col), sortKey(b, col))
		if dir == Desc {
			return -c
		}
		return c
	})
	return out
}

// Matches reports whether the lower-cased filter is a substring of the
// company name, job title, country, status or status label of app.
func Matches(app models.Application, filter, locale string) bool {
	if filter == "" {
		return true
	}
	for _, v := range []string{app.CompanyName, app.JobTitle, app.Country, string(app.Status), app.Status.Label(locale)} {
		if strings.Contains(strings.ToLower(v), filter) {
			return true
		}
	}
	return false
}

// sortKey is empty for missing values so they come first ascending.
func sortKey(app models.Application, col Column) string {
	switch col {
	case ColumnCompanyName:
		return strings.ToLower(app.CompanyName)
	case ColumnJobTitle:
		return strings.ToLower(app.JobTitle)
	case ColumnCountry:
		return strings.ToLower(app.Country)
	case ColumnStatus:
		return strings.ToLower(string(app.Status))
	case ColumnApplicationDate:
		if app.ApplicationDate.IsZero() {
			return ""
		}
		return app.ApplicationDate.String()
	case ColumnPublicationDate:
		if app.PublicationDate == nil {
			return ""
		}
		return app.PublicationDate.String()
	case ColumnJobLink:
		return strings.ToLower(app.JobLink)
	}
	return ""
}
