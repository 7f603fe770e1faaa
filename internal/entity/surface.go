// Package entity exposes host entity records to mod scripts through typed,
// validated and phase-gated accessors.
//
// Every accessor follows the same order: phase policy, argument validation,
// entity resolution, then the host read or write. Any failure returns a
// *scripterr.Error before the host is touched.
//
// INVARIANTS:
//   - Getters are denied in None and BeforeSceneLoad.
//   - Setters are allowed in SceneLoad only, except variable writers
//     (SceneLoad, Life, Move), currency writers (SceneLoad, Life) and
//     UpdateWaypoint (denied in None and BeforeSceneLoad).
//   - Growth only appends. The first new index equals the prior count.
package entity

import (
	"log/slog"

	"github.com/roach88/ida/internal/handle"
	"github.com/roach88/ida/internal/host"
	"github.com/roach88/ida/internal/phase"
	"github.com/roach88/ida/internal/scripterr"
)

// LifeHandlers receives life handler attachments. The bridge facade owns the
// handler map; the surface only forwards.
type LifeHandlers interface {
	SetLifeHandler(object int, ref handle.Ref)
}

// Surface is the accessor surface over one host.
type Surface struct {
	host     host.Host
	guard    *phase.Guard
	flags    *Flags
	handlers LifeHandlers
	logger   *slog.Logger
}

// Option configures a Surface.
type Option func(*Surface)

// WithLogger sets the logger used for accessor warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Surface) { s.logger = l }
}

// WithLifeHandlers sets the receiver of handleLifeScript attachments.
func WithLifeHandlers(h LifeHandlers) Option {
	return func(s *Surface) { s.handlers = h }
}

// New creates a surface. flags must be sized to the host object maximum.
func New(h host.Host, g *phase.Guard, flags *Flags, opts ...Option) *Surface {
	s := &Surface{
		host:   h,
		guard:  g,
		flags:  flags,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Flags returns the object flag array.
func (s *Surface) Flags() *Flags { return s.flags }

// Host returns the underlying host.
func (s *Surface) Host() host.Host { return s.host }

func (s *Surface) check(p phase.Policy) error {
	return s.guard.Check(p)
}

func (s *Surface) objectRef(i int) (*host.Object, error) {
	obj, ok := s.host.Objects().At(i)
	if !ok {
		return nil, scripterr.Reference("Object not found with index: %d", i)
	}
	return obj, nil
}

func (s *Surface) zoneRef(i int) (*host.Zone, error) {
	z, ok := s.host.Zones().At(i)
	if !ok {
		return nil, scripterr.Reference("Zone not found with index: %d", i)
	}
	return z, nil
}

func (s *Surface) waypointRef(i int) (*host.Waypoint, error) {
	w, ok := s.host.Waypoints().At(i)
	if !ok {
		return nil, scripterr.Reference("Waypoint not found with index: %d", i)
	}
	return w, nil
}

// Vec3 validates a three-component int32 vector.
func Vec3(name string, v []int64) ([3]int32, error) {
	var out [3]int32
	if err := checkArray(name, v, 3); err != nil {
		return out, err
	}
	for i := range out {
		out[i] = int32(v[i])
	}
	return out, nil
}

func checkArray(name string, v []int64, n int) error {
	if len(v) != n {
		return scripterr.Argument("%s must be an array of %d integers, got %d elements", name, n, len(v))
	}
	for _, x := range v {
		if err := scripterr.CheckInt32(name+" element", x); err != nil {
			return err
		}
	}
	return nil
}

func toSlice(v [3]int32) []int32 {
	return []int32{v[0], v[1], v[2]}
}
