package storage

import "github.com/tandria/orbitlab/internal/orbit"

// Snapshot captures the world's bodies at the given tick as a Frame.
func Snapshot(tick int, bodies []*orbit.Body) Frame {
	frame := Frame{Tick: tick, Bodies: make([]BodySample, 0, len(bodies))}
	for i, b := range bodies {
		frame.Bodies = append(frame.Bodies, BodySample{
			Body: float64(i),
			X:    b.Pos.X,
			Y:    b.Pos.Y,
			VX:   b.Vel.X,
			VY:   b.Vel.Y,
			Mass: b.Mass,
		})
	}
	return frame
}
