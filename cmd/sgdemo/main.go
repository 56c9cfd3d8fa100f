// Command sgdemo renders a small scene through the webgpu view backend and
// reports per-frame statistics.
//
// By default it runs on the noop device, so it works without a GPU. With
// -gpu it opens the best hal backend available (Vulkan on most systems).
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/scenegraph"
	"github.com/gogpu/scenegraph/backend/webgpu"
	"github.com/gogpu/scenegraph/scene"
)

func main() {
	var (
		frames  = flag.Int("frames", 3, "number of frames to render")
		width   = flag.Int("width", 800, "window width")
		height  = flag.Int("height", 600, "window height")
		gpu     = flag.Bool("gpu", false, "open a real GPU instead of the noop device")
		verbose = flag.Bool("v", false, "debug logging")
		fly     = flag.Float64("fly", 5e5, "camera travel per frame in world units")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	scenegraph.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	dev, err := openDevice(*gpu)
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}
	defer dev.Close()

	win, ren := buildScene(*width, *height)
	view, err := webgpu.NewView(win, webgpu.WithDevice(dev))
	if err != nil {
		log.Fatalf("Failed to create view: %v", err)
	}
	defer view.Release()

	ctx := context.Background()
	for i := range *frames {
		stats, err := view.Render(ctx)
		if err != nil {
			log.Fatalf("Frame %d failed: %v", i, err)
		}
		r := view.Children()[0].(*webgpu.Renderer)
		log.Printf("frame %d: %d passes, %d render passes, %d volumes, %d nodes created, center %.0f, took %v",
			i, len(stats.Passes), view.RenderPasses(), stats.Volumes, stats.Created,
			r.StabilizedCenter(), stats.Duration)

		// Flying far away moves the stabilized frame along with the camera.
		ren.Camera().Translate(mgl64.Vec3{*fly, 0, 0})
	}

	s := dev.Stats()
	log.Printf("device %q: %d buffers, %d writes, %d textures, %d shaders, %d submits",
		dev.AdapterInfo().Name, s.Buffers, s.Writes, s.Textures, s.Shaders, s.Submits)
}

func openDevice(gpu bool) (*webgpu.Device, error) {
	if gpu {
		return webgpu.OpenBest()
	}
	return webgpu.OpenNoop()
}

func buildScene(width, height int) (*scene.RenderWindow, *scene.Renderer) {
	win := scene.NewRenderWindow(width, height)

	ren := scene.NewRenderer()
	ren.SetBackground([4]float64{0.1, 0.2, 0.4, 1})
	win.AddRenderer(ren)

	cam := ren.Camera()
	cam.SetPosition(mgl64.Vec3{0, 0, 10})
	cam.SetClippingRange(0.1, 1000)

	tri := scene.NewActor(scene.NewMapper(
		mgl64.Vec3{-1, -1, 0}, mgl64.Vec3{1, -1, 0}, mgl64.Vec3{0, 1, 0},
	))
	ren.AddViewProp(tri)

	glass := scene.NewActor(scene.NewMapper(
		mgl64.Vec3{0, 0, 1}, mgl64.Vec3{2, 0, 1}, mgl64.Vec3{1, 2, 1},
	))
	glass.SetOpacity(0.4)
	ren.AddViewProp(glass)

	vol := scene.NewVolume(scene.NewVolumeMapper([3]int{16, 16, 16}))
	vol.SetPosition(mgl64.Vec3{-8, -8, -20})
	ren.AddViewProp(vol)

	label := scene.NewTextActor("scenegraph")
	label.SetDisplayPosition(10, 10)
	label.SetFontSize(18)
	ren.AddViewProp(label)

	return win, ren
}
