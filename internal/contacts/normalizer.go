// Package contacts validates and deduplicates the contact chips (names,
// emails, domains, phones) entered on the application form.
package contacts

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/nyaruka/phonenumbers"

	"github.com/blockedby/application-tracker/internal/logger"
	"github.com/blockedby/application-tracker/internal/models"
)

// DefaultFlagTTL is how long a rejected value stays in its error flag.
const DefaultFlagTTL = 2500 * time.Millisecond

// DefaultRegion is used for phone parsing when no country is selected.
const DefaultRegion = "FR"

// chip validation errors
var (
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrInvalidDomain = errors.New("invalid domain")
	ErrInvalidPhone  = errors.New("invalid phone number")
	ErrUnknownField  = errors.New("unknown contact field")
)

var (
	emailRegex  = regexp.MustCompile(`^[\w.-]+@([\w-]+\.)+[\w-]{2,}$`)
	domainRegex = regexp.MustCompile(`^([\w-]+\.)+[\w-]{2,}$`)
)

// Field identifies one of the contact lists.
type Field int

// Field constants name the four contact lists.
const (
	FieldNames Field = iota
	FieldEmails
	FieldDomains
	FieldPhones
)

// String returns the JSON name of the list.
func (f Field) String() string {
	switch f {
	case FieldNames:
		return "names"
	case FieldEmails:
		return "emails"
	case FieldDomains:
		return "domains"
	case FieldPhones:
		return "phones"
	default:
		return "unknown"
	}
}

// flag holds the last rejected value and the timer that clears it.
type flag struct {
	value string
	timer *time.Timer
}

// Normalizer owns the contact lists of a draft.
type Normalizer struct {
	mu    sync.Mutex
	lists map[Field][]string
	flags map[Field]*flag

	region   func() string
	ttl      time.Duration
	onChange func()
	log      *logger.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithFlagTTL overrides the error flag lifetime.
func WithFlagTTL(d time.Duration) Option {
	return func(n *Normalizer) { n.ttl = d }
}

// WithRegion sets the source of the default phone region,
// typically the country currently selected on the form.
func WithRegion(region func() string) Option {
	return func(n *Normalizer) { n.region = region }
}

// WithOnChange registers a callback invoked whenever an error flag is set
// or cleared. It is called without the lock held.
func WithOnChange(fn func()) Option {
	return func(n *Normalizer) { n.onChange = fn }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(n *Normalizer) { n.log = log }
}

// New creates an empty Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		lists: make(map[Field][]string, 4),
		flags: make(map[Field]*flag, 3),
		ttl:   DefaultFlagTTL,
		log:   logger.Get(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Add admits raw into the list identified by field.
// Blank input is ignored. A rejected value is kept in the field's error flag
// for the configured TTL and the matching Err* is returned.
func (n *Normalizer) Add(field Field, raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	switch field {
	case FieldEmails:
		if !emailRegex.MatchString(trimmed) {
			n.reject(field, trimmed)
			return ErrInvalidEmail
		}
		n.mu.Lock()
		n.push(FieldEmails, trimmed)
		n.push(FieldDomains, DomainOf(trimmed))
		n.mu.Unlock()

	case FieldDomains:
		if !domainRegex.MatchString(trimmed) {
			n.reject(field, trimmed)
			return ErrInvalidDomain
		}
		n.mu.Lock()
		n.push(FieldDomains, trimmed)
		n.mu.Unlock()

	case FieldPhones:
		formatted, region, ok := n.formatPhone(trimmed)
		if !ok {
			n.reject(field, trimmed)
			return ErrInvalidPhone
		}
		n.log.Debug().Str("region", region).Str("phone", formatted).Msg("valid phone number")
		n.mu.Lock()
		n.push(FieldPhones, formatted)
		n.mu.Unlock()

	case FieldNames:
		n.mu.Lock()
		n.push(FieldNames, trimmed)
		n.mu.Unlock()

	default:
		return ErrUnknownField
	}

	return nil
}

// Remove deletes the entry at index. Out-of-range indexes are ignored.
func (n *Normalizer) Remove(field Field, index int) {
	n.mu.Lock()
	defer n.mu.Unlock()

	list := n.lists[field]
	if index < 0 || index >= len(list) {
		return
	}
	n.lists[field] = append(list[:index:index], list[index+1:]...)
}

// List returns a copy of one contact list.
func (n *Normalizer) List(field Field) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.lists[field]...)
}

// Contacts returns a copy of all four lists.
func (n *Normalizer) Contacts() models.Contacts {
	n.mu.Lock()
	defer n.mu.Unlock()

	return models.Contacts{
		Names:   append([]string{}, n.lists[FieldNames]...),
		Emails:  append([]string{}, n.lists[FieldEmails]...),
		Domains: append([]string{}, n.lists[FieldDomains]...),
		Phones:  append([]string{}, n.lists[FieldPhones]...),
	}
}

// ReplaceDomains overwrites the domains list.
func (n *Normalizer) ReplaceDomains(domains []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lists[FieldDomains] = nil
	for _, d := range domains {
		n.push(FieldDomains, d)
	}
}

// Invalid returns the value currently held in the field's error flag,
// or "" when there is none.
func (n *Normalizer) Invalid(field Field) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if f := n.flags[field]; f != nil {
		return f.value
	}
	return ""
}

// Reset clears every list and pending error flag. Observers are notified
// when a flag was cleared.
func (n *Normalizer) Reset() {
	n.mu.Lock()
	cleared := len(n.flags) > 0
	for field, f := range n.flags {
		f.timer.Stop()
		delete(n.flags, field)
	}
	n.lists = make(map[Field][]string, 4)
	n.mu.Unlock()

	if cleared {
		n.notify()
	}
}

// push appends v unless already present. Caller holds mu.
func (n *Normalizer) push(field Field, v string) {
	for _, existing := range n.lists[field] {
		if existing == v {
			return
		}
	}
	n.lists[field] = append(n.lists[field], v)
}

// reject stores value in the field's flag and schedules its removal,
// cancelling the timer of any earlier rejection.
func (n *Normalizer) reject(field Field, value string) {
	n.mu.Lock()
	if prev := n.flags[field]; prev != nil {
		prev.timer.Stop()
	}
	f := &flag{value: value}
	f.timer = time.AfterFunc(n.ttl, func() { n.clear(field, f) })
	n.flags[field] = f
	n.mu.Unlock()

	n.log.Debug().Str("field", field.String()).Str("value", value).Msg("rejected contact")
	n.notify()
}

func (n *Normalizer) clear(field Field, f *flag) {
	n.mu.Lock()
	if n.flags[field] != f {
		n.mu.Unlock()
		return
	}
	delete(n.flags, field)
	n.mu.Unlock()

	n.notify()
}

func (n *Normalizer) notify() {
	if n.onChange != nil {
		n.onChange()
	}
}

func (n *Normalizer) formatPhone(raw string) (formatted, region string, ok bool) {
	defaultRegion := DefaultRegion
	if n.region != nil {
		if r := strings.ToUpper(strings.TrimSpace(n.region())); r != "" {
			defaultRegion = r
		}
	}

	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", "", false
	}

	region = phonenumbers.GetRegionCodeForNumber(num)
	if region == "" {
		region = defaultRegion
	}
	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL), region, true
}

// DomainOf returns everything after the last '@' of an email.
func DomainOf(email string) string {
	return email[strings.LastIndex(email, "@")+1:]
}

// DeriveDomains returns the distinct, non-empty domains of emails
// in first-seen order.
func DeriveDomains(emails []string) []string {
	var out []string
	seen := make(map[string]bool, len(emails))
	for _, e := range emails {
		if e == "" {
			continue
		}
		d := DomainOf(e)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
