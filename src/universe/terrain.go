package universe

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

const (
	terrainOctaves     = 4
	terrainFrequency   = 0.04
	terrainPersistence = 0.5
	terrainRelief      = 0.4 //share of the height the ground may take
	sandDensity        = 0.08
	waterDensity       = 0.04
)

//SettleTerrain fills the viewport with a noise shaped wooden ground
//and sprinkles sand and water in the upper half, it returns the number of cells placed
func SettleTerrain(s *Simulation, r *RNG) int {
	width, height := DefWidth, DefHeight
	if w, ok := s.Window(); ok {
		width, height = int(w.Width), int(w.Height)
	}
	noise := opensimplex.NewNormalized(int64(r.IntN(1 << 31)))

	placed := 0
	paint := func(x, y int, c Cell) {
		if err := s.Paint(Vec2{X: x, Y: y}, c); err == nil {
			placed++
		}
	}
	for x := 0; x < width; x++ {
		relief := octaveNoise(noise, float64(x), 0, terrainOctaves, terrainFrequency, terrainPersistence)
		ground := height - 1 - int(relief*terrainRelief*float64(height))
		for y := ground; y < height; y++ {
			paint(x, y, Wood)
		}
		for y := 0; y < height/2 && y < ground; y++ {
			switch v := r.Float64(); {
			case v < sandDensity:
				paint(x, y, Sand)
			case v < sandDensity+waterDensity:
				paint(x, y, Water)
			}
		}
	}
	return placed
}

//octaveNoise generates fractal noise by layering multiple frequencies
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
