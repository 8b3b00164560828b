package render

import (
	"context"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/mrigankad/raytracer-core/color"
	"github.com/mrigankad/raytracer-core/scratch"
)

// PixelFunc shades one pixel's sample. x, y are pixel coordinates; sample is
// the sample index within the pixel (< spp); arena is this worker's private
// scratch.Arena and rng its private RNG source, both reused across every
// pixel the worker handles. The caller supplies this — ray generation and the
// light-transport integrator loop are external collaborators that sit
// on top of this package's tile-dispatch harness, not inside it.
type PixelFunc func(x, y, sample int, arena *scratch.Arena, rng *rand.Rand) color.RGB

// Tile is one rectangular unit of dispatch; tiles partition the framebuffer
// into disjoint, non-overlapping pixel ranges so workers never write the
// same pixel.
type Tile struct {
	Index          int
	X0, Y0, X1, Y1 int // half-open: [X0,X1) x [Y0,Y1)
}

// tiles partitions a width x height image into tileSize x tileSize (or
// smaller, at the edges) rectangles in row-major scan order.
func tiles(width, height, tileSize int) []Tile {
	if tileSize <= 0 {
		tileSize = 32
	}
	var out []Tile
	idx := 0
	for y := 0; y < height; y += tileSize {
		y1 := y + tileSize
		if y1 > height {
			y1 = height
		}
		for x := 0; x < width; x += tileSize {
			x1 := x + tileSize
			if x1 > width {
				x1 = width
			}
			out = append(out, Tile{Index: idx, X0: x, Y0: y, X1: x1, Y1: y1})
			idx++
		}
	}
	return out
}

// Renderer dispatches tiles across a fixed-size worker pool. The zero value is
// usable; Workers <= 0 defaults to runtime.GOMAXPROCS(0).
type Renderer struct {
	Workers  int
	TileSize int

	// OnTile, when non-nil, is invoked from worker goroutines after each
	// tile finishes, with the running completed count and the total tile
	// count. It feeds the embedding API's progress callback and must
	// be safe to call concurrently.
	OnTile func(completed, total int)

	cancelled atomic.Bool
}

// New returns a Renderer with the given worker count (<=0 picks
// GOMAXPROCS) and tile size (<=0 picks 32).
func New(workers, tileSize int) *Renderer {
	return &Renderer{Workers: workers, TileSize: tileSize}
}

// Cancel requests that in-flight and not-yet-started tiles stop as soon as
// possible. It is safe to call concurrently with RenderTiles and
// idempotent.
func (r *Renderer) Cancel() { r.cancelled.Store(true) }

// Cancelled reports whether Cancel has been called on this Renderer.
func (r *Renderer) Cancelled() bool { return r.cancelled.Load() }

// RenderTiles dispatches width x height at spp samples per pixel across
// Workers goroutines, each with its own scratch.Arena and seeded
// math/rand.Rand source. baseSeed plus a tile's index determine that
// tile's RNG seed, so per-pixel sample order is deterministic within a
// tile given a fixed thread count and seed, while the order tiles complete
// in (and hence which worker renders which tile under contention) is not.
// Cancellation — via ctx or r.Cancel — is polled between tiles; a
// cancelled render returns the partially filled framebuffer alongside
// context.Canceled rather than an incomplete-but-silent result.
func (r *Renderer) RenderTiles(ctx context.Context, width, height, spp int, baseSeed uint64, shade PixelFunc) (*Framebuffer, error) {
	fb := NewFramebuffer(width, height)
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	work := tiles(width, height, r.TileSize)
	jobs := make(chan Tile)

	var completed atomic.Int64
	total := len(work)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tile := range jobs {
				if r.cancelled.Load() || ctx.Err() != nil {
					continue
				}
				r.renderTile(tile, fb, spp, baseSeed, shade)
				if r.OnTile != nil {
					r.OnTile(int(completed.Add(1)), total)
				}
			}
		}()
	}

dispatch:
	for _, t := range work {
		if r.cancelled.Load() || ctx.Err() != nil {
			break dispatch
		}
		select {
		case jobs <- t:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if r.cancelled.Load() {
		return fb, context.Canceled
	}
	if err := ctx.Err(); err != nil {
		return fb, err
	}
	return fb, nil
}

// renderTile shades every pixel of tile at spp samples each, using a
// private Arena and RNG seeded deterministically from (baseSeed,
// tile.Index) so repeated renders of the same tile with the same seed are
// bit-reproducible.
func (r *Renderer) renderTile(tile Tile, fb *Framebuffer, spp int, baseSeed uint64, shade PixelFunc) {
	arena := scratch.New(0, 0)
	rng := rand.New(rand.NewSource(int64(baseSeed ^ tileSeedMix(tile.Index))))

	for y := tile.Y0; y < tile.Y1; y++ {
		for x := tile.X0; x < tile.X1; x++ {
			var accum color.RGB
			for s := 0; s < spp; s++ {
				accum = accum.Add(shade(x, y, s, arena, rng))
			}
			if spp > 0 {
				accum = accum.Mul(1 / float32(spp))
			}
			fb.Set(x, y, accum)
		}
	}
}

// tileSeedMix spreads small sequential tile indices across the 64-bit seed
// space (Murmur3-style finalizer) so adjacent tiles don't share near-
// identical RNG streams.
func tileSeedMix(index int) uint64 {
	h := uint64(index) + 0x9e3779b97f4a7c15
	h = (h ^ (h >> 30)) * 0xbf58476d1ce4e5b9
	h = (h ^ (h >> 27)) * 0x94d049bb133111eb
	return h ^ (h >> 31)
}
