package scene_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/kjkrol/feywild/internal/scene"
	"github.com/kjkrol/feywild/pkg/fgl"
	"github.com/kjkrol/feywild/pkg/fgl/fgltest"
	"github.com/kjkrol/feywild/pkg/hex"
)

const mapYAML = `
grid:
  rows: 2
  cols: 3
  orientation: flat-up
  contents:
    - [0, 1, -1]
    - [1, 0, 0]
tiles:
  - tiles/grass.png
  - tiles/water.bmp
tokens:
  - name: knight
    image: knight.png
    scale: true
  - name: tree
    image: tree.png
    size: 48
    mask: behind
    corner: 2
instances:
  - {token: tree, col: 0, row: 0}
  - {token: knight, col: 2, row: 1}
  - {token: tree, col: 1, row: 1}
`

func writeImage(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if strings.HasSuffix(path, ".bmp") {
		err = bmp.Encode(f, img)
	} else {
		err = png.Encode(f, img)
	}
	if err != nil {
		t.Fatal(err)
	}
}

func writeScene(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "tiles", "grass.png"), 32, 32, color.NRGBA{G: 200, A: 255})
	writeImage(t, filepath.Join(dir, "tiles", "water.bmp"), 32, 28, color.NRGBA{B: 200, A: 255})
	writeImage(t, filepath.Join(dir, "knight.png"), 20, 40, color.NRGBA{R: 255, A: 255})
	writeImage(t, filepath.Join(dir, "tree.png"), 16, 16, color.NRGBA{G: 90, A: 128})
	path := filepath.Join(dir, "map.yaml")
	if err := os.WriteFile(path, []byte(mapYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_DecodesEveryImage(t *testing.T) {
	var progress bytes.Buffer
	s, err := scene.Load(writeScene(t), scene.WithProgress(&progress))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Tiles) != 2 || len(s.Tokens) != 2 {
		t.Fatalf("decoded %d tiles, %d tokens", len(s.Tiles), len(s.Tokens))
	}
	water := s.Tiles[1]
	if water.Width != 32 || water.Height != 28 || water.Format != fgl.RGBA8 {
		t.Errorf("water tile %dx%d %s", water.Width, water.Height, water.Format)
	}
	if p := water.Pixel(0, 0); p[2] != 200 || p[3] != 255 {
		t.Errorf("water pixel = %v", p)
	}
	if p := s.Tokens[1].Pixel(3, 3); p[1] != 90 || p[3] != 128 {
		t.Errorf("tree pixel = %v", p)
	}
	if progress.Len() == 0 {
		t.Error("no progress written")
	}
}

func TestScene_Build(t *testing.T) {
	s, err := scene.Load(writeScene(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	drv := fgltest.New()
	grid, tokens, err := s.Build(drv)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if grid.Rows() != 2 || grid.Cols() != 3 || grid.TileCount() != 2 || grid.TileSize() != 32 {
		t.Errorf("grid %dx%d, %d tiles of %d", grid.Rows(), grid.Cols(), grid.TileCount(), grid.TileSize())
	}
	if grid.Layout().Orientation != hex.FlatUp {
		t.Errorf("orientation = %s", grid.Layout().Orientation)
	}
	want := []int{0, 1, -1, 1, 0, 0}
	for i, v := range grid.Contents() {
		if v != want[i] {
			t.Errorf("contents = %v, want %v", grid.Contents(), want)
			break
		}
	}

	if n := len(tokens.Instances()); n != 3 {
		t.Fatalf("instances = %d", n)
	}
	tree, err := tokens.Token(1)
	if err != nil {
		t.Fatal(err)
	}
	opts := tree.Options()
	if opts.NominalSize != 48 || opts.Mask != hex.MaskBehind || opts.Anchor != hex.AnchorCorner(2) {
		t.Errorf("tree options = %+v", opts)
	}
	if got := tokens.FindInstancesAt(hex.Coord{Col: 2, Row: 1}); len(got) != 1 || got[0].Token != 0 {
		t.Errorf("knight instances = %+v", got)
	}

	tokens.Release()
	grid.Release()
	if n := drv.LiveCount(fgl.KindTexture); n != 0 {
		t.Errorf("%d textures live", n)
	}
}

func TestParse_Defaults(t *testing.T) {
	f, err := scene.Parse([]byte("grid: {rows: 2, cols: 2}\ntiles: [a.png]\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Orientation() != hex.PointUp {
		t.Errorf("orientation = %s", f.Orientation())
	}
	if f.Contents() != nil {
		t.Errorf("contents = %v", f.Contents())
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty grid":        "grid: {rows: 0, cols: 2}\ntiles: [a.png]\n",
		"no tiles":          "grid: {rows: 1, cols: 1}\n",
		"orientation":       "grid: {rows: 1, cols: 1, orientation: round}\ntiles: [a.png]\n",
		"short contents":    "grid: {rows: 2, cols: 1, contents: [[0]]}\ntiles: [a.png]\n",
		"unknown tile":      "grid: {rows: 1, cols: 1, contents: [[3]]}\ntiles: [a.png]\n",
		"duplicate token":   "grid: {rows: 1, cols: 1}\ntiles: [a.png]\ntokens: [{name: x, image: x.png}, {name: x, image: y.png}]\n",
		"unknown mask":      "grid: {rows: 1, cols: 1}\ntiles: [a.png]\ntokens: [{name: x, image: x.png, mask: halo}]\n",
		"bad corner":        "grid: {rows: 1, cols: 1}\ntiles: [a.png]\ntokens: [{name: x, image: x.png, corner: 6}]\n",
		"unknown instance":  "grid: {rows: 1, cols: 1}\ntiles: [a.png]\ninstances: [{token: ghost, col: 0, row: 0}]\n",
		"instance off grid": "grid: {rows: 1, cols: 1}\ntiles: [a.png]\ntokens: [{name: x, image: x.png}]\ninstances: [{token: x, col: 1, row: 0}]\n",
	}
	for name, doc := range cases {
		if _, err := scene.Parse([]byte(doc)); !errors.Is(err, scene.ErrInvalid) {
			t.Errorf("%s: err = %v", name, err)
		}
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := scene.Parse([]byte("grid: {rows: 1, cols: 1, depth: 3}\ntiles: [a.png]\n"))
	if err == nil {
		t.Error("unknown key accepted")
	}
}

func TestLoad_MissingImage(t *testing.T) {
	path := writeScene(t)
	if err := os.Remove(filepath.Join(filepath.Dir(path), "tree.png")); err != nil {
		t.Fatal(err)
	}
	_, err := scene.Load(path)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v", err)
	}
}

func TestFile_WriteRoundTrips(t *testing.T) {
	f, err := scene.ReadFile(writeScene(t))
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "copy", "map.yaml")
	if err := f.Write(out); err != nil {
		t.Fatalf("Write: %v", err)
	}
	back, err := scene.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if back.Grid.Orientation != "flat-up" || len(back.Instances) != 3 || *back.Tokens[1].Corner != 2 {
		t.Errorf("round trip lost data: %+v", back)
	}
}
