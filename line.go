package rtsignal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Terminus names a route end point (provenance or destination)
type Terminus string

// Deviation names a temporary route deviation announced with a line
type Deviation string

// Line identifies a detected transit route instance.
//
// Two lines are equal iff route, provenance, destination and the set of deviations match.
// The deviation set is kept as a canonical sorted key so Line stays comparable and can be
// used directly as a map key.
type Line struct {
	route uint16
	from  Terminus
	to    Terminus
	devs  string
}

// NoLine is the "nothing detected" sentinel
var NoLine Line

func newLine(route uint16, from, to Terminus, deviations []Deviation) Line {
	names := lo.Uniq(lo.Map(deviations, func(d Deviation, _ int) string {
		return string(d)
	}))
	sort.Strings(names)
	return Line{
		route: route,
		from:  from,
		to:    to,
		devs:  strings.Join(names, ","),
	}
}

// Route returns the route number
func (l Line) Route() uint16 {
	return l.route
}

// From returns the provenance terminus
func (l Line) From() Terminus {
	return l.from
}

// To returns the destination terminus
func (l Line) To() Terminus {
	return l.to
}

// Deviations returns the deviations in canonical order
func (l Line) Deviations() []Deviation {
	if l.devs == "" {
		return nil
	}
	return lo.Map(strings.Split(l.devs, ","), func(s string, _ int) Deviation {
		return Deviation(s)
	})
}

// HasDeviation reports whether the line announces the given deviation
func (l Line) HasDeviation(d Deviation) bool {
	return lo.Contains(l.Deviations(), d)
}

// IsValid returns false for NoLine
func (l Line) IsValid() bool {
	return l != NoLine
}

// Key returns the canonical hashable key route:from>to[dev,...]
func (l Line) Key() string {
	return fmt.Sprintf("%d:%s>%s[%s]", l.route, l.from, l.to, l.devs)
}

func (l Line) String() string {
	if !l.IsValid() {
		return "none"
	}
	return l.Key()
}
