package universe

type Universe interface {
	Status() Status
	Options() Options
	Area() Area
	StateCh() chan Status
	AddTemplate(tmpl Template)
	Templates() []Template
	SettleTemplate(name string) error
	SettleWithRandomData()
	Paint(p Vec2, c Cell) error
	PaintMany(ps []Vec2, c Cell) error
	Erase(p Vec2) error
	Resize(width int, height int)
	RegisterViewer(v Viewer)
	Run()
	Stop()
	Toggle()
	Step()
	Clear()
	Close()
}

var _ Universe = (*BaseUniverse)(nil)
