package composite

import "time"

// Builder provides a fluent way to construct a Rule.
type Builder struct {
	rule Rule
}

// RuleBuilder creates a new Builder with default Rule values.
func RuleBuilder() Builder {
	return Builder{rule: New()}
}

// Collection selects the source image collection.
func (b Builder) Collection(c Collection) Builder {
	b.rule.Collection = c
	return b
}

// StartTime sets the inclusive start of the compositing window.
func (b Builder) StartTime(t time.Time) Builder {
	b.rule.Start = t
	return b
}

// EndTime sets the inclusive end of the compositing window.
func (b Builder) EndTime(t time.Time) Builder {
	b.rule.End = t
	return b
}

// Reducer selects the temporal reducer (mean by default).
func (b Builder) Reducer(r Reducer) Builder {
	b.rule.Reducer = r
	return b
}

// CloudMask enables per-pixel cloud and snow masking before reduction.
func (b Builder) CloudMask() Builder {
	b.rule.CloudMask = true
	return b
}

// MaxCloudCover discards scenes whose reported cloud cover exceeds pct.
func (b Builder) MaxCloudCover(pct float64) Builder {
	b.rule.MaxCloudCover = pct
	return b
}

// Set assigns a custom rule parameter value.
func (b Builder) Set(key, value string) Builder {
	b.rule.Set(key, value)
	return b
}

// Add appends a custom rule parameter value.
func (b Builder) Add(key, value string) Builder {
	b.rule.Add(key, value)
	return b
}

// Build returns the composed Rule.
func (b Builder) Build() Rule {
	return b.rule
}
