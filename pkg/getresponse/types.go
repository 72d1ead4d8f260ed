package getresponse

import (
	"fmt"
	"strings"
	"time"
)

// Opt is an optional attribute read from an API payload. Valid is false when
// the key was missing and also when the API sent an explicit null; the two
// cases are not told apart.
type Opt[T any] struct {
	Value T
	Valid bool
}

// Some returns a set Opt holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{Value: v, Valid: true}
}

// Get returns the value and whether it is set.
func (o Opt[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

// Or returns the value, or fallback when unset.
func (o Opt[T]) Or(fallback T) T {
	if !o.Valid {
		return fallback
	}
	return o.Value
}

func (o Opt[T]) String() string {
	if !o.Valid {
		return "<unset>"
	}
	return fmt.Sprint(o.Value)
}

// Result is the outcome of a call that returns a single resource.
//
// Pending is set when the API answered 202 Accepted: the operation was taken
// but the resource is not materialized yet, so Value is nil. Value is also nil
// for a success reply without a body.
type Result[T any] struct {
	Status  int
	Pending bool
	Value   *T
}

// SubscriberType partitions a contact's relationship to a campaign.
type SubscriberType string

const (
	Subscribed  SubscriberType = "subscribed"
	Undelivered SubscriberType = "undelivered"
	Removed     SubscriberType = "removed"
	Unconfirmed SubscriberType = "unconfirmed"
)

// SubscriberTypes lists every subscriber type in the order searches use by default.
var SubscriberTypes = []SubscriberType{Subscribed, Undelivered, Removed, Unconfirmed}

func (s SubscriberType) Valid() bool {
	switch s {
	case Subscribed, Undelivered, Removed, Unconfirmed:
		return true
	}
	return false
}

// ListOptions controls a paginated listing. A zero Page fetches every page;
// a zero PerPage leaves the page size to the API (or to Params).
type ListOptions struct {
	Page    int
	PerPage int
	Params  Params
}

// timeLayouts are tried in order. The API sends "2014-02-12T15:19:21+0000".
var timeLayouts = []string{
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05.000-0700",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseTime parses an API timestamp with offset.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse time string: %q", s)
}
