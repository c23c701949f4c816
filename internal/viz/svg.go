package viz

import (
	"fmt"
	"os"
	"strings"

	"github.com/tandria/orbitlab/internal/orbit"
)

const (
	svgWidth  = 1920.0
	svgHeight = 1080.0
)

// WorldSVG renders the current simulation state as a standalone SVG: stars,
// fading trail polylines (true per-segment alpha, which the terminal canvas
// can't do), and body discs at ln(mass) radius.
func WorldSVG(w *orbit.World, stars *orbit.Starfield) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#000000"/>
`, svgWidth, svgHeight, svgWidth, svgHeight))

	cx, cy := svgWidth/2, svgHeight/2

	if stars != nil {
		sb.WriteString(`<g fill="#ffffff">` + "\n")
		for _, s := range stars.Stars {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.2f"/>`+"\n",
				cx+s.Pos.X, cy+s.Pos.Y, s.Magnitude))
		}
		sb.WriteString("</g>\n")
	}

	for _, b := range w.Bodies {
		col := fmt.Sprintf("#%02x%02x%02x", b.Color.R, b.Color.G, b.Color.B)

		// trail is most-recent-first; draw oldest segments faintest
		n := len(b.Trail)
		for i := n - 1; i >= 1; i-- {
			a, bb := b.Trail[i], b.Trail[i-1]
			alpha := float64(n-i) / float64(n)
			sb.WriteString(fmt.Sprintf(
				`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="%.3f"/>`+"\n",
				cx+a.X, cy+a.Y, cx+bb.X, cy+bb.Y, col, alpha))
		}

		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.2f" fill="%s"/>`+"\n",
			cx+b.Pos.X, cy+b.Pos.Y, b.RenderRadius(), col))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// SaveSVG writes a snapshot of the world to path.
func SaveSVG(path string, w *orbit.World, stars *orbit.Starfield) error {
	return os.WriteFile(path, []byte(WorldSVG(w, stars)), 0644)
}
