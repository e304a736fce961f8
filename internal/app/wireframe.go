package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

type edgeKey [2]rl.Vector3

// drawWireframe outlines every surface facet once per shared edge
func (app *App) drawWireframe() {
	color := rl.NewColor(100, 100, 100, 200)
	drawn := make(map[edgeKey]bool, len(app.Environment.triangles)*3)

	for _, tri := range app.Environment.triangles {
		v1, v2, v3 := toRL(tri.V1), toRL(tri.V2), toRL(tri.V3)
		for _, edge := range [3]edgeKey{{v1, v2}, {v2, v3}, {v3, v1}} {
			if drawn[edge] || drawn[edgeKey{edge[1], edge[0]}] {
				continue
			}
			drawn[edge] = true
			rl.DrawLine3D(edge[0], edge[1], color)
		}
	}
}
