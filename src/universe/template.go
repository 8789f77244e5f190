package universe

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//ErrUnknownTemplate is returned when settling a template that isn't registered
var ErrUnknownTemplate = errors.New("unknown template")

//go:embed templates.yaml
var builtinTemplates []byte

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name   string  `yaml:"name"`
	Descr  string  `yaml:"descr"`
	Layers []Layer `yaml:"layers"`
}

//Layer is a set of positions painted with one material
type Layer struct {
	Material    Cell    `yaml:"material"`
	Coordinates [][]int `yaml:"coordinates"` //array of [x,y] coordinates
	Rects       [][]int `yaml:"rects"`       //array of [x,y,width,height] filled rectangles
}

//Points expands the layer into positions
func (l Layer) Points() ([]Vec2, error) {
	var ps []Vec2
	for i, c := range l.Coordinates {
		if len(c) != 2 {
			return nil, fmt.Errorf("coordinate %d: want [x, y], got %v", i, c)
		}
		ps = append(ps, Vec2{X: c[0], Y: c[1]})
	}
	for i, r := range l.Rects {
		if len(r) != 4 {
			return nil, fmt.Errorf("rect %d: want [x, y, width, height], got %v", i, r)
		}
		for y := r[1]; y < r[1]+r[3]; y++ {
			for x := r[0]; x < r[0]+r[2]; x++ {
				ps = append(ps, Vec2{X: x, Y: y})
			}
		}
	}
	return ps, nil
}

//Validate checks the template can be settled
func (t Template) Validate() error {
	if t.Name == "" {
		return errors.New("template without a name")
	}
	for i, l := range t.Layers {
		if l.Material == Border {
			return fmt.Errorf("template %s layer %d: %w", t.Name, i, ErrBorderNotPlaceable)
		}
		if _, err := l.Points(); err != nil {
			return fmt.Errorf("template %s layer %d: %w", t.Name, i, err)
		}
	}
	return nil
}

//Settle paints all the layers in order, positions already occupied keep their cell
func (t Template) Settle(c MaterialCanvas) error {
	for i, l := range t.Layers {
		ps, err := l.Points()
		if err != nil {
			return fmt.Errorf("template %s layer %d: %w", t.Name, i, err)
		}
		if err := c.PaintMany(ps, l.Material); err != nil {
			return fmt.Errorf("template %s layer %d: %w", t.Name, i, err)
		}
	}
	return nil
}

//ParseTemplates decodes a YAML list of templates
func ParseTemplates(data []byte) ([]Template, error) {
	var tmpls []Template
	if err := yaml.Unmarshal(data, &tmpls); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	for _, t := range tmpls {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return tmpls, nil
}

//LoadTemplates reads a YAML template file
func LoadTemplates(path string) ([]Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	tmpls, err := ParseTemplates(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tmpls, nil
}

//BuiltinTemplates returns the templates shipped with the binary
func BuiltinTemplates() []Template {
	tmpls, err := ParseTemplates(builtinTemplates)
	if err != nil {
		panic(err)
	}
	return tmpls
}

//UnmarshalYAML reads a material by name
func (c *Cell) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseCell(name)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

//MarshalYAML writes a material by name
func (c Cell) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

func sortedTemplates(m map[string]Template) []Template {
	tmpls := make([]Template, 0, len(m))
	for _, t := range m {
		tmpls = append(tmpls, t)
	}
	sort.Slice(tmpls, func(i, j int) bool { return tmpls[i].Name < tmpls[j].Name })
	return tmpls
}

func unknownTemplate(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
}
