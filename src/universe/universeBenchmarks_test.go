package universe

import (
	"testing"
)

const (
	width  = 200
	height = 200
)

var testTemplate = Template{
	Name: "ts1",
	Layers: []Layer{
		{Material: Wood, Rects: [][]int{{0, 150, 200, 2}}},
		{Material: Sand, Rects: [][]int{{20, 0, 160, 40}}},
		{Material: Water, Rects: [][]int{{20, 60, 160, 20}}},
		{Material: Fire, Coordinates: [][]int{{100, 149}}},
	},
}

func universeStep(u Universe, b *testing.B) {
	u.AddTemplate(testTemplate)
	stateCh := u.StateCh()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		u.Clear()
		<-stateCh //wait for finish
		if err := u.SettleTemplate("ts1"); err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		u.Step()
		for {
			st := <-stateCh
			if st.RunningMode == RunningStateManual {
				break
			}
		}
	}
	u.Close()
}

func universeRun(u Universe, b *testing.B) {
	u.AddTemplate(testTemplate)
	stateCh := u.StateCh()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		u.Clear()
		<-stateCh //wait for finish
		if err := u.SettleTemplate("ts1"); err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		u.Run()
		for {
			st := <-stateCh
			if st.RunningMode == RunningStateFinished {
				break
			}
		}
	}
	u.Close()
}

func newStateCh() chan Status {
	return make(chan Status, 10)
}

func newUniverseOptions() *Options {
	o := DefaultUniverseOptions
	o.Interval = 0
	o.Width = width
	o.Height = height
	o.Seed = 1
	o.MaxSteps = 100
	return &o
}

func Benchmark_Step(b *testing.B) {
	universeStep(NewBaseUniverse(newUniverseOptions(), newStateCh(), nil), b)
}

func Benchmark_Universe(b *testing.B) {
	universeRun(NewBaseUniverse(newUniverseOptions(), newStateCh(), nil), b)
}
