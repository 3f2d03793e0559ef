// Package scene reads a map description from YAML, decodes the images it
// names and builds the grid and tokens it describes.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kjkrol/feywild/pkg/hex"
)

var ErrInvalid = errors.New("scene: invalid")

// File is the on-disk scene description. Image paths are relative to the
// directory of the scene file.
type File struct {
	Grid      Grid       `yaml:"grid"`
	Tiles     []string   `yaml:"tiles"`
	Tokens    []Token    `yaml:"tokens,omitempty"`
	Instances []Instance `yaml:"instances,omitempty"`
}

type Grid struct {
	Rows        int    `yaml:"rows"`
	Cols        int    `yaml:"cols"`
	Orientation string `yaml:"orientation,omitempty"`
	// Contents holds one row of tile indices per grid row; -1 leaves a cell
	// empty. Omitted contents fill the grid with tile 0.
	Contents [][]int `yaml:"contents,omitempty"`
}

type Token struct {
	Name  string `yaml:"name"`
	Image string `yaml:"image"`
	Size  int    `yaml:"size,omitempty"`
	Scale bool   `yaml:"scale,omitempty"`
	Mask  string `yaml:"mask,omitempty"`
	// Corner anchors the token on a hex corner instead of the tile centre.
	Corner *int `yaml:"corner,omitempty"`
}

type Instance struct {
	Token string `yaml:"token"`
	Col   int    `yaml:"col"`
	Row   int    `yaml:"row"`
}

// Parse decodes and validates a scene description. Unknown keys are errors.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("scene: parse: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// ReadFile parses the scene at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks the description without touching any image.
func (f *File) Validate() error {
	g := f.Grid
	if g.Rows <= 0 || g.Cols <= 0 {
		return invalid("grid %dx%d", g.Rows, g.Cols)
	}
	if _, err := hex.ParseOrientation(g.Orientation); err != nil {
		return invalid("%v", err)
	}
	if len(f.Tiles) == 0 {
		return invalid("no tiles")
	}
	if g.Contents != nil {
		if len(g.Contents) != g.Rows {
			return invalid("%d content rows for %d grid rows", len(g.Contents), g.Rows)
		}
		for r, row := range g.Contents {
			if len(row) != g.Cols {
				return invalid("content row %d has %d cells, want %d", r, len(row), g.Cols)
			}
			for c, tile := range row {
				if tile < hex.EmptyCell || tile >= len(f.Tiles) {
					return invalid("cell (%d,%d) uses tile %d of %d", c, r, tile, len(f.Tiles))
				}
			}
		}
	}

	names := make(map[string]bool, len(f.Tokens))
	for i, t := range f.Tokens {
		if t.Name == "" || t.Image == "" {
			return invalid("token %d needs a name and an image", i)
		}
		if names[t.Name] {
			return invalid("token %q defined twice", t.Name)
		}
		names[t.Name] = true
		if _, err := hex.ParseMask(t.Mask); err != nil {
			return invalid("token %q: %v", t.Name, err)
		}
		if t.Size < 0 {
			return invalid("token %q: size %d", t.Name, t.Size)
		}
		if t.Corner != nil && (*t.Corner < 0 || *t.Corner > 5) {
			return invalid("token %q: corner %d", t.Name, *t.Corner)
		}
	}
	for i, in := range f.Instances {
		if !names[in.Token] {
			return invalid("instance %d uses unknown token %q", i, in.Token)
		}
		if in.Row < 0 || in.Row >= g.Rows || in.Col < 0 || in.Col >= g.Cols {
			return invalid("instance %d at (%d,%d) is off the grid", i, in.Col, in.Row)
		}
	}
	return nil
}

// Orientation returns the parsed grid orientation.
func (f *File) Orientation() hex.Orientation {
	o, _ := hex.ParseOrientation(f.Grid.Orientation)
	return o
}

// Contents flattens the grid contents row-major, or returns nil when the
// file leaves them out.
func (f *File) Contents() []int {
	if f.Grid.Contents == nil {
		return nil
	}
	out := make([]int, 0, f.Grid.Rows*f.Grid.Cols)
	for _, row := range f.Grid.Contents {
		out = append(out, row...)
	}
	return out
}

// TokenOptions converts the description of token i.
func (f *File) TokenOptions(i int) hex.TokenOptions {
	t := f.Tokens[i]
	mask, _ := hex.ParseMask(t.Mask)
	opts := hex.TokenOptions{NominalSize: t.Size, Scale: t.Scale, Mask: mask}
	if t.Corner != nil {
		opts.Anchor = hex.AnchorCorner(*t.Corner)
	}
	return opts
}

// Write stores f as YAML at path.
func (f *File) Write(path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("scene: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("scene: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
