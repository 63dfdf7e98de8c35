// Package composite describes the compositing rule forwarded verbatim to the
// imagery service: which collection to draw from, the time window, the
// reducer, and optional cloud filtering. The service executes the rule; this
// package only validates and serialises it.
package composite

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Rule represents a collection filter plus compositing instructions.
type Rule struct {
	Collection    Collection
	Start         time.Time
	End           time.Time
	Reducer       Reducer
	CloudMask     bool
	MaxCloudCover float64
	Additional    map[string][]string
}

// New returns a Rule with sensible defaults.
func New() Rule {
	return Rule{
		Reducer:       ReducerMean,
		MaxCloudCover: -1,
		Additional:    make(map[string][]string),
	}
}

// Set assigns a custom rule parameter value.
func (r *Rule) Set(key, value string) {
	if r.Additional == nil {
		r.Additional = make(map[string][]string)
	}
	r.Additional[key] = []string{value}
}

// Add appends a value to a multi-value rule parameter.
func (r *Rule) Add(key, value string) {
	if r.Additional == nil {
		r.Additional = make(map[string][]string)
	}
	r.Additional[key] = append(r.Additional[key], value)
}

// Encode serialises the rule into the parameter set expected by the service.
func (r Rule) Encode() (url.Values, error) {
	if r.Collection == "" {
		return nil, fmt.Errorf("collection must be provided")
	}
	if !r.Start.IsZero() && r.End.IsZero() {
		return nil, fmt.Errorf("end time must be provided when start time is set")
	}
	if !r.End.IsZero() && r.Start.After(r.End) {
		return nil, fmt.Errorf("start time must be before end time")
	}
	if r.MaxCloudCover > 100 {
		return nil, fmt.Errorf("max cloud cover must not exceed 100, got %v", r.MaxCloudCover)
	}

	values := make(url.Values)
	values.Set("collection", r.Collection.String())

	reducer := r.Reducer
	if reducer == "" {
		reducer = ReducerMean
	}
	values.Set("reducer", reducer.String())

	if !r.Start.IsZero() {
		values.Set("startTime", r.Start.UTC().Format(time.RFC3339))
	}
	if !r.End.IsZero() {
		values.Set("endTime", r.End.UTC().Format(time.RFC3339))
	}
	if r.CloudMask {
		values.Set("cloudMask", "true")
	}
	if r.MaxCloudCover >= 0 {
		values.Set("maxCloudCover", strconv.FormatFloat(r.MaxCloudCover, 'f', -1, 64))
	}

	for k, vals := range r.Additional {
		for _, v := range vals {
			values.Add(k, v)
		}
	}

	return values, nil
}
