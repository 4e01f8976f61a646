package inject

// absoluteMax is the top of the normalized range used by absolute mouse input.
const absoluteMax = 65535

// scaleAbsolute maps coordinate v on an axis starting at origin with extent
// pixels into [0, absoluteMax]. Coordinates past either edge pin to that edge.
func scaleAbsolute(v, origin, extent int) int32 {
	if extent <= 1 {
		extent = 2
	}
	scaled := (int64(v) - int64(origin)) * absoluteMax / int64(extent-1)
	switch {
	case scaled < 0:
		return 0
	case scaled > absoluteMax:
		return absoluteMax
	}
	return int32(scaled)
}
