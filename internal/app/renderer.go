package app

import (
	"image"
	"math"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/armeasure/internal/scene"
	"github.com/philipparndt/armeasure/internal/xr"
	"github.com/philipparndt/armeasure/pkg/geometry"
)

func toRL(v geometry.Vector3) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// trianglesToRaylibMesh converts surface facets to a mesh with baked lighting
func trianglesToRaylibMesh(tris []geometry.Triangle) rl.Mesh {
	vertexCount := len(tris) * 3
	mesh := rl.Mesh{
		VertexCount:   int32(vertexCount),
		TriangleCount: int32(len(tris)),
	}

	vertices := make([]float32, 0, vertexCount*3)
	normals := make([]float32, 0, vertexCount*3)
	colors := make([]uint8, 0, vertexCount*4)

	lightDir := geometry.NewVector3(-0.5, -1.0, -0.5).Normalize()

	for _, tri := range tris {
		normal := tri.SurfaceNormal()

		// Surfaces are seen from both sides, light them that way too
		light := math.Max(0.3, math.Abs(normal.Dot(lightDir)))
		r := uint8(160 * light * 0.55)
		g := uint8(160 * light * 0.6)
		b := uint8(160 * light * 0.7)

		for _, v := range [3]geometry.Vector3{tri.V1, tri.V2, tri.V3} {
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, float32(normal.X), float32(normal.Y), float32(normal.Z))
			colors = append(colors, r, g, b, 255)
		}
	}

	if vertexCount > 0 {
		mesh.Vertices = &vertices[0]
		mesh.Normals = &normals[0]
		mesh.Colors = &colors[0]
	}

	rl.UploadMesh(&mesh, false)
	return mesh
}

// Render implements scene.Renderer. It is called by the coordinator inside
// the 3D pass of the current frame.
func (app *App) Render(prims []scene.Primitive) error {
	for _, p := range prims {
		switch p.Kind {
		case scene.KindMarker:
			rl.DrawSphere(toRL(p.Position()), float32(p.Size), p.Color)

		case scene.KindLine:
			rl.DrawCylinderEx(toRL(p.From), toRL(p.To), float32(p.Size), float32(p.Size), 8, p.Color)

		case scene.KindLabel:
			if p.Texture == nil {
				continue
			}
			rl.DrawBillboard(app.Camera.camera, app.labelTexture(p.Texture), toRL(p.Position()), float32(p.Height), rl.White)

		case scene.KindPlane:
			// Quads lie in their local XY plane
			w, h := p.Width/2, p.Height/2
			a := toRL(p.Transform.TransformPoint(geometry.NewVector3(-w, -h, 0)))
			b := toRL(p.Transform.TransformPoint(geometry.NewVector3(w, -h, 0)))
			c := toRL(p.Transform.TransformPoint(geometry.NewVector3(w, h, 0)))
			d := toRL(p.Transform.TransformPoint(geometry.NewVector3(-w, h, 0)))
			// Both windings so the quad shows from either side
			rl.DrawTriangle3D(a, b, c, p.Color)
			rl.DrawTriangle3D(a, c, d, p.Color)
			rl.DrawTriangle3D(c, b, a, p.Color)
			rl.DrawTriangle3D(d, c, a, p.Color)
		}
	}
	return nil
}

// labelTexture uploads a label image once and reuses it
func (app *App) labelTexture(img *image.RGBA) rl.Texture2D {
	if app.UI.textures == nil {
		app.UI.textures = make(map[*image.RGBA]rl.Texture2D)
	}
	if tex, ok := app.UI.textures[img]; ok {
		return tex
	}

	b := img.Bounds()
	tex := rl.LoadTextureFromImage(&rl.Image{
		Data:    unsafe.Pointer(&img.Pix[0]),
		Width:   int32(b.Dx()),
		Height:  int32(b.Dy()),
		Mipmaps: 1,
		Format:  rl.UncompressedR8g8b8a8,
	})
	app.UI.textures[img] = tex
	return tex
}

func (app *App) unloadTextures() {
	for _, tex := range app.UI.textures {
		rl.UnloadTexture(tex)
	}
	app.UI.textures = nil
}

// snapshot returns this frame's tracking frame, or nil while tracking is paused
func (app *App) snapshot() xr.Frame {
	if !app.Device.tracking {
		return nil
	}
	return app.Device.device.Snapshot()
}

// drawDevice draws the handheld and its gaze ray up to the first surface
func (app *App) drawDevice() {
	pose := app.Device.device.Viewer()
	pos := toRL(pose.Position)
	size := float32(math.Max(float64(app.Environment.size)*0.02, 0.03))

	rl.DrawCube(pos, size, size, size, rl.NewColor(255, 200, 80, 255))
	rl.DrawCubeWires(pos, size, size, size, rl.Black)

	if !app.View.showGaze {
		return
	}
	ray := geometry.Ray{Origin: pose.Position, Direction: pose.Forward()}
	end := ray.At(float64(app.Environment.size))
	for _, tri := range app.Environment.triangles {
		if dist, ok := tri.Intersect(ray); ok && ray.At(dist).Distance(pose.Position) < end.Distance(pose.Position) {
			end = ray.At(dist)
		}
	}
	rl.DrawLine3D(pos, toRL(end), rl.NewColor(255, 200, 80, 180))
}
