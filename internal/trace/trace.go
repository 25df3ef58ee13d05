// Package trace records the position history of every body for rendering.
package trace

import "gonum.org/v1/gonum/spatial/r2"

// Log keeps one append-only position history per body, oldest first.
//
// With a zero limit the history grows without bound for the whole session,
// so memory use is proportional to elapsed ticks. A positive limit keeps
// only the newest limit points per body.
type Log struct {
	points [][]r2.Vec
	limit  int
}

func New(n, limit int) *Log {
	if limit < 0 {
		limit = 0
	}
	return &Log{points: make([][]r2.Vec, n), limit: limit}
}

// Record appends p to the history of body i.
func (l *Log) Record(i int, p r2.Vec) {
	if i < 0 || i >= len(l.points) {
		return
	}
	pts := append(l.points[i], p)
	if l.limit > 0 && len(pts) > l.limit {
		// shift in place so the backing array does not creep forward
		n := copy(pts, pts[len(pts)-l.limit:])
		pts = pts[:n]
	}
	l.points[i] = pts
}

// Points returns the history of body i, oldest first. The slice is owned by
// the log and is only valid until the next Record.
func (l *Log) Points(i int) []r2.Vec {
	if i < 0 || i >= len(l.points) {
		return nil
	}
	return l.points[i]
}

func (l *Log) Len(i int) int {
	return len(l.Points(i))
}

// Bodies returns the number of per-body histories.
func (l *Log) Bodies() int {
	return len(l.points)
}

// Total returns the number of points across all bodies.
func (l *Log) Total() int {
	n := 0
	for _, pts := range l.points {
		n += len(pts)
	}
	return n
}

func (l *Log) Limit() int {
	return l.limit
}

// Reset drops every recorded point.
func (l *Log) Reset() {
	for i := range l.points {
		l.points[i] = l.points[i][:0]
	}
}
