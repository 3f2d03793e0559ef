package scene

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kjkrol/feywild/pkg/fgl"
	"github.com/kjkrol/feywild/pkg/hex"
)

// Scene is a parsed description with its images decoded, ready to be built
// once a GL context exists.
type Scene struct {
	File   *File
	Dir    string
	Tiles  []*fgl.Pixels
	Tokens []*fgl.Pixels
}

type Option func(*loader)

type loader struct {
	progress io.Writer
}

// WithProgress draws a progress bar on w while images are decoded.
func WithProgress(w io.Writer) Option {
	return func(l *loader) {
		l.progress = w
	}
}

// Load reads the scene file at path and decodes every image it names.
func Load(path string, opts ...Option) (*Scene, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadAssets(f, filepath.Dir(path), opts...)
}

// LoadAssets decodes the images of f, resolving relative paths against dir.
func LoadAssets(f *File, dir string, opts ...Option) (*Scene, error) {
	var l loader
	for _, opt := range opts {
		opt(&l)
	}

	var bar *progressbar.ProgressBar
	if l.progress != nil {
		bar = progressbar.NewOptions(len(f.Tiles)+len(f.Tokens),
			progressbar.OptionSetWriter(l.progress),
			progressbar.OptionSetDescription("loading scene"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Close()
	}

	s := &Scene{File: f, Dir: dir}
	load := func(what, path string) (*fgl.Pixels, error) {
		px, err := DecodeFile(s.resolve(path))
		if err != nil {
			return nil, fmt.Errorf("scene: %s %s: %w", what, path, err)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
		return px, nil
	}
	for _, path := range f.Tiles {
		px, err := load("tile", path)
		if err != nil {
			return nil, err
		}
		s.Tiles = append(s.Tiles, px)
	}
	for _, t := range f.Tokens {
		px, err := load("token", t.Image)
		if err != nil {
			return nil, err
		}
		s.Tokens = append(s.Tokens, px)
	}
	fgl.Logger().Info("scene: loaded", "dir", dir, "tiles", len(s.Tiles), "tokens", len(s.Tokens),
		"instances", len(f.Instances))
	return s, nil
}

func (s *Scene) resolve(path string) string {
	if filepath.IsAbs(path) || s.Dir == "" {
		return path
	}
	return filepath.Join(s.Dir, path)
}

// Decode reads one image in any registered format and returns its pixels and
// the format name.
func Decode(r io.Reader) (*fgl.Pixels, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}
	return fgl.Normalize(img), format, nil
}

func DecodeFile(path string) (*fgl.Pixels, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	px, format, err := Decode(f)
	if err != nil {
		return nil, err
	}
	fgl.Logger().Debug("scene: decoded", "path", path, "format", format,
		"width", px.Width, "height", px.Height, "pixels", px.Format.String())
	return px, nil
}

// Build uploads the scene: a grid of its tiles and a token manager holding
// every token and instance. Nothing is left allocated on failure.
func (s *Scene) Build(drv fgl.Driver) (*hex.Grid, *hex.TokenManager, error) {
	f := s.File
	grid, err := hex.NewGrid(drv, hex.GridConfig{
		Rows:        f.Grid.Rows,
		Cols:        f.Grid.Cols,
		Orientation: f.Orientation(),
		Tiles:       s.Tiles,
		Contents:    f.Contents(),
	})
	if err != nil {
		return nil, nil, err
	}

	tokens := make([]*hex.Token, 0, len(s.Tokens))
	release := func() {
		for _, t := range tokens {
			t.Release()
		}
		grid.Release()
	}
	for i, px := range s.Tokens {
		t, err := hex.NewToken(drv, px, f.TokenOptions(i))
		if err != nil {
			release()
			return nil, nil, fmt.Errorf("scene: token %q: %w", f.Tokens[i].Name, err)
		}
		tokens = append(tokens, t)
	}
	mgr, handles, err := hex.NewTokenManager(drv, grid.Layout(), tokens...)
	if err != nil {
		release()
		return nil, nil, err
	}

	byName := make(map[string]hex.TokenHandle, len(handles))
	for i, h := range handles {
		byName[f.Tokens[i].Name] = h
	}
	instances := make([]hex.TokenInstance, len(f.Instances))
	for i, in := range f.Instances {
		instances[i] = hex.TokenInstance{At: hex.Coord{Col: in.Col, Row: in.Row}, Token: byName[in.Token]}
	}
	if err := mgr.AppendInstances(instances...); err != nil {
		mgr.Release()
		grid.Release()
		return nil, nil, err
	}
	return grid, mgr, nil
}
