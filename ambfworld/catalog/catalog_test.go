package catalog

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/schollz/progressbar/v3"
	"github.com/smell-of-curry/ambf-world/ambfworld/world"
)

const validWorld = `enclosure size: {length: 4, width: 4, height: 2}
lights: [light1]
cameras: []
max iterations: 10
gravity: {x: 0, y: 0, z: -9.81}
light1:
  location: {x: 0, y: 0, z: 2}
  direction: {x: 0, y: 0, z: -1}
  spot exponent: 0.3
  cutoff angle: 0.7
`

func newLoader(opts world.Options) *world.Loader {
	return world.NewLoader(slog.New(slog.DiscardHandler), opts)
}

func TestReadAll(t *testing.T) {
	fsys := fstest.MapFS{
		"worlds/b.yaml":        {Data: []byte(validWorld)},
		"worlds/nested/a.yml":  {Data: []byte(validWorld)},
		"worlds/broken.yaml":   {Data: []byte("lights: [light1]\n")},
		"worlds/README.md":     {Data: []byte("# not a descriptor")},
		"elsewhere/skip.yaml":  {Data: []byte(validWorld)},
		"worlds/nested/x.json": {Data: []byte("{}")},
	}

	c, err := ReadAll(fsys, "worlds", newLoader(world.Options{}), nil)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	want := []string{"worlds/b.yaml", "worlds/broken.yaml", "worlds/nested/a.yml"}
	if got := c.Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Paths() = %v; want %v", got, want)
	}

	failed := c.Failed()
	if len(failed) != 1 || failed[0].Path != "worlds/broken.yaml" {
		t.Fatalf("Failed() = %v; want worlds/broken.yaml", failed)
	}
	var merr *world.MissingFieldError
	if !errors.As(failed[0].Err, &merr) || merr.Field != "enclosure size" {
		t.Fatalf("broken.yaml err = %v; want missing enclosure size", failed[0].Err)
	}

	e, ok := c.Find("worlds/nested/a.yml")
	if !ok || !e.OK() || e.World == nil || len(e.World.Lights) != 1 {
		t.Fatalf("Find(a.yml) = %+v, %v", e, ok)
	}
	if _, ok := c.Find("worlds/missing.yaml"); ok {
		t.Fatalf("Find(missing.yaml) ok=true; want false")
	}
}

func TestReadAll_AdvisoryWarnings(t *testing.T) {
	fsys := fstest.MapFS{
		"w.yaml": {Data: []byte(validWorld[:len(validWorld)-len("  cutoff angle: 0.7\n")] + "  cutoff angle: 3.0\n")},
	}

	c, err := ReadAll(fsys, ".", newLoader(world.Options{Advisory: true}), nil)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	e, ok := c.Find("w.yaml")
	if !ok || !e.OK() || len(e.Warnings) != 1 || e.Warnings[0].Field != "light1.cutoff angle" {
		t.Fatalf("entry = %+v; want one cutoff angle warning", e)
	}
}

func TestReadAll_ProgressBar(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte(validWorld)},
		"b.yaml": {Data: []byte(validWorld)},
	}
	bar := progressbar.NewOptions(1, progressbar.OptionSetWriter(io.Discard))

	if _, err := ReadAll(fsys, ".", newLoader(world.Options{}), bar); err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if bar.GetMax() != 2 || bar.State().CurrentPercent != 1 {
		t.Fatalf("bar max=%d percent=%v; want 2 files done", bar.GetMax(), bar.State().CurrentPercent)
	}
}

func TestReadAll_MissingRoot(t *testing.T) {
	if _, err := ReadAll(fstest.MapFS{}, "nope", newLoader(world.Options{}), nil); err == nil {
		t.Fatalf("ReadAll(missing root) err=nil; want error")
	}
}

func TestNew_SortsAndCopies(t *testing.T) {
	in := []Entry{{Path: "b"}, {Path: "a"}}
	c := New(in)
	if in[0].Path != "b" {
		t.Fatalf("New reordered its input")
	}
	if got := c.Paths(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("Paths() = %v; want [a b]", got)
	}
}
