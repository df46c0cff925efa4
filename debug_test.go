package pinview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

func TestDebugCheckMarkerCount(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	debugCheckMarkerCount(log, debugMaxMarkers)
	if buf.Len() != 0 {
		t.Errorf("warned at threshold: %s", buf.String())
	}
	debugCheckMarkerCount(log, debugMaxMarkers+1)
	if !strings.Contains(buf.String(), `"level":"warn"`) ||
		!strings.Contains(buf.String(), `"markers":257`) {
		t.Errorf("log = %s", buf.String())
	}
}

func TestDebugLogOnlyInDebugMode(t *testing.T) {
	var buf bytes.Buffer
	s := NewScene(DefaultConfig(), WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

	s.debugLog(debugStats{triangles: 12})
	if buf.Len() != 0 {
		t.Fatalf("logged outside debug mode: %s", buf.String())
	}
	s.SetDebugMode(true)
	s.debugLog(debugStats{triangles: 12, culled: 6, drawCalls: 2})
	if !strings.Contains(buf.String(), `"triangles":12`) {
		t.Errorf("log = %s", buf.String())
	}
}

func TestDebugWarnsOnManyMarkers(t *testing.T) {
	var buf bytes.Buffer
	s := NewScene(DefaultConfig(), WithLogger(zerolog.New(&buf).Level(zerolog.WarnLevel)))
	s.SetDebugMode(true)
	for i := 0; i <= debugMaxMarkers; i++ {
		s.Viewer().AddHotspot(mgl64.Vec3{float64(i), 0, 0}, MarkerOptions{})
	}
	if !strings.Contains(buf.String(), "marker count exceeds threshold") {
		t.Errorf("no warning logged: %s", buf.String())
	}
}
