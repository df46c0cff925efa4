package pinview

import "github.com/rs/zerolog"

// debugMaxMarkers is the proxy count above which debug mode warns. Picking
// is a linear scan over every proxy.
const debugMaxMarkers = 256

func debugCheckMarkerCount(log zerolog.Logger, n int) {
	if n > debugMaxMarkers {
		log.Warn().Int("markers", n).Int("threshold", debugMaxMarkers).
			Msg("marker count exceeds threshold")
	}
}

// debugStats holds per-frame draw metrics. Only populated in debug mode.
type debugStats struct {
	triangles int
	culled    int
	markers   int
	occluded  int
	drawCalls int
}

func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	s.log.Debug().
		Int("triangles", stats.triangles).
		Int("culled", stats.culled).
		Int("markers", stats.markers).
		Int("occluded", stats.occluded).
		Int("drawCalls", stats.drawCalls).
		Msg("draw")
}
