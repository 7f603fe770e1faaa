package entity

import (
	"github.com/roach88/ida/internal/phase"
	"github.com/roach88/ida/internal/scripterr"
)

// AddObjects appends objects to the scene and returns the first new index.
// count is optional and defaults to 1. New objects are initialised by the
// host and tagged FlagNew.
func (s *Surface) AddObjects(count ...int64) (int, error) {
	if err := s.check(phase.Setter); err != nil {
		return 0, err
	}
	table := s.host.Objects()
	first := table.Len()
	n, err := growCount("objects", table.Max(), first, count)
	if err != nil {
		return 0, err
	}
	if err := table.Grow(n); err != nil {
		return 0, scripterr.Capacity("%v", err)
	}
	for i := first; i < first+n; i++ {
		s.host.InitObject(i)
		s.flags.Set(i, FlagNew)
	}
	return first, nil
}

// AddZones appends zero-filled zones and returns the first new index.
func (s *Surface) AddZones(count ...int64) (int, error) {
	if err := s.check(phase.Setter); err != nil {
		return 0, err
	}
	table := s.host.Zones()
	first := table.Len()
	n, err := growCount("zones", table.Max(), first, count)
	if err != nil {
		return 0, err
	}
	if err := table.Grow(n); err != nil {
		return 0, scripterr.Capacity("%v", err)
	}
	return first, nil
}

// AddWaypoints appends zero-filled waypoints and returns the first new index.
func (s *Surface) AddWaypoints(count ...int64) (int, error) {
	if err := s.check(phase.Setter); err != nil {
		return 0, err
	}
	table := s.host.Waypoints()
	first := table.Len()
	n, err := growCount("waypoints", table.Max(), first, count)
	if err != nil {
		return 0, err
	}
	if err := table.Grow(n); err != nil {
		return 0, scripterr.Capacity("%v", err)
	}
	return first, nil
}

func growCount(what string, limit, current int, count []int64) (int, error) {
	remaining := limit - current
	if remaining < 1 {
		return 0, scripterr.Capacity("No more %s can be added to the scene. The maximum is reached: %d", what, limit)
	}
	if len(count) == 0 {
		return 1, nil
	}
	if err := scripterr.CheckRange("count", count[0], 1, int64(remaining)); err != nil {
		return 0, err
	}
	return int(count[0]), nil
}
