package rtsignal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// RouteSpec configures one route of the site
type RouteSpec struct {
	Route uint16 `yaml:"route"`
	// Name is an alternative token for special lines (d1, EX1...)
	Name      string    `yaml:"name,omitempty"`
	Mode      Mode      `yaml:"mode"`
	Direction Direction `yaml:"direction,omitempty"`
}

// DeviationSpec configures one deviation. A deviation with a Direction extends that
// leg of the plan; Extension overrides the default extra dwell when non-zero.
type DeviationSpec struct {
	Name      Deviation     `yaml:"name"`
	Direction Direction     `yaml:"direction,omitempty"`
	Extension time.Duration `yaml:"extension,omitempty"`
}

// LineInfo is everything the automaton needs to know about a line
type LineInfo struct {
	Line       Line
	Mode       Mode
	Direction  Direction
	Deviations []DeviationSpec
}

// Registry maps route numbers to modes and validates catalog names
type Registry struct {
	routes     map[uint16]RouteSpec
	names      map[string]uint16
	termini    map[Terminus]struct{}
	deviations map[Deviation]DeviationSpec
}

// NewRegistry builds a registry from the site catalogs
func NewRegistry(routes []RouteSpec, termini []Terminus, deviations []DeviationSpec) (*Registry, error) {
	r := &Registry{
		routes:     make(map[uint16]RouteSpec, len(routes)),
		names:      make(map[string]uint16),
		termini:    make(map[Terminus]struct{}, len(termini)),
		deviations: make(map[Deviation]DeviationSpec, len(deviations)),
	}

	for _, spec := range routes {
		if spec.Route == 0 {
			return nil, NewConfigurationError("routes", "route number 0 is reserved")
		}
		if _, exists := r.routes[spec.Route]; exists {
			return nil, NewConfigurationError("routes", fmt.Sprintf("route %d declared twice", spec.Route))
		}
		if !spec.Mode.IsValid() {
			return nil, NewConfigurationError("routes", fmt.Sprintf("route %d has invalid mode %s", spec.Route, spec.Mode))
		}
		if spec.Mode == ModeIndividual && spec.Direction == NoDirection {
			return nil, NewConfigurationError("routes", fmt.Sprintf("individual route %d needs a direction", spec.Route))
		}
		if spec.Name != "" {
			key := strings.ToLower(spec.Name)
			if _, exists := r.names[key]; exists {
				return nil, NewConfigurationError("routes", fmt.Sprintf("route name %s declared twice", spec.Name))
			}
			r.names[key] = spec.Route
		}
		r.routes[spec.Route] = spec
	}

	for _, t := range termini {
		r.termini[t] = struct{}{}
	}

	for _, spec := range deviations {
		if spec.Name == "" {
			return nil, NewConfigurationError("deviations", "deviation without name")
		}
		if spec.Extension < 0 {
			return nil, NewConfigurationError("deviations", fmt.Sprintf("deviation %s has negative extension", spec.Name))
		}
		r.deviations[spec.Name] = spec
	}

	return r, nil
}

// MakeLine builds a Line from raw detection data. It returns NoLine and a *LineError
// when the route has no mode or a name is missing from the catalogs.
func (r *Registry) MakeLine(route uint16, from, to Terminus, deviations ...Deviation) (Line, error) {
	if _, ok := r.routes[route]; !ok {
		return NoLine, NewInvalidLineError(route)
	}
	for _, t := range []Terminus{from, to} {
		if _, ok := r.termini[t]; !ok {
			return NoLine, NewUnknownTerminusError(t)
		}
	}
	for _, d := range deviations {
		if _, ok := r.deviations[d]; !ok {
			return NoLine, NewUnknownDeviationError(d)
		}
	}
	return newLine(route, from, to, deviations), nil
}

// ResolveRoute turns a decimal route number or a special line name into a route number
func (r *Registry) ResolveRoute(token string) (uint16, error) {
	token = strings.TrimSpace(token)
	if n, err := strconv.ParseUint(token, 10, 16); err == nil {
		return uint16(n), nil
	}
	if route, ok := r.names[strings.ToLower(token)]; ok {
		return route, nil
	}
	return 0, &LineError{
		Code:    ErrCodeInvalidLine,
		Input:   token,
		Message: fmt.Sprintf("'%s' is neither a route number nor a special line", token),
	}
}

// Describe returns the mode, direction and applicable deviations of line
func (r *Registry) Describe(line Line) (LineInfo, error) {
	if !line.IsValid() {
		return LineInfo{}, &LineError{Code: ErrCodeInvalidLine, Input: line.String(), Message: "no line"}
	}
	spec, ok := r.routes[line.Route()]
	if !ok {
		return LineInfo{}, NewInvalidLineError(line.Route())
	}
	info := LineInfo{
		Line:      line,
		Mode:      spec.Mode,
		Direction: spec.Direction,
	}
	for _, d := range line.Deviations() {
		dev, ok := r.deviations[d]
		if !ok {
			return LineInfo{}, NewUnknownDeviationError(d)
		}
		info.Deviations = append(info.Deviations, dev)
	}
	return info, nil
}

// Mode returns the mode of line
func (r *Registry) Mode(line Line) (Mode, error) {
	spec, ok := r.routes[line.Route()]
	if !ok || !line.IsValid() {
		return 0, NewInvalidLineError(line.Route())
	}
	return spec.Mode, nil
}

// Direction returns the configured direction of line's route
func (r *Registry) Direction(line Line) (Direction, error) {
	spec, ok := r.routes[line.Route()]
	if !ok || !line.IsValid() {
		return NoDirection, NewInvalidLineError(line.Route())
	}
	return spec.Direction, nil
}

// Extension returns the longest extension one of line's deviations grants to dir.
// The bool is false when no deviation targets dir. A zero duration with true means
// the timing default applies.
func (r *Registry) Extension(line Line, dir Direction) (time.Duration, bool) {
	info, err := r.Describe(line)
	if err != nil {
		return 0, false
	}
	return info.Extension(dir, 0)
}

// Extension is the longest extension among deviations targeting dir. Deviations
// without an explicit extension count as fallback.
func (i LineInfo) Extension(dir Direction, fallback time.Duration) (time.Duration, bool) {
	if dir == NoDirection {
		return 0, false
	}
	matching := lo.Filter(i.Deviations, func(d DeviationSpec, _ int) bool {
		return d.Direction == dir
	})
	if len(matching) == 0 {
		return 0, false
	}
	return lo.Max(lo.Map(matching, func(d DeviationSpec, _ int) time.Duration {
		if d.Extension == 0 {
			return fallback
		}
		return d.Extension
	})), true
}

// Routes returns the configured routes ordered by number
func (r *Registry) Routes() []RouteSpec {
	routes := lo.Values(r.routes)
	sort.Slice(routes, func(i, j int) bool { return routes[i].Route < routes[j].Route })
	return routes
}

// HasTerminus reports whether t is in the catalog
func (r *Registry) HasTerminus(t Terminus) bool {
	_, ok := r.termini[t]
	return ok
}
