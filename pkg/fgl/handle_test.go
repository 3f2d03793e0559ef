package fgl_test

import (
	"errors"
	"testing"

	"github.com/kjkrol/feywild/pkg/fgl"
	"github.com/kjkrol/feywild/pkg/fgl/fgltest"
)

func TestHandles_BatchAllocationIsUnique(t *testing.T) {
	for _, n := range []int{1, 2, 7, 64} {
		drv := fgltest.New()
		bufs := fgl.NewVertexBuffers(drv, n)
		if len(bufs) != n {
			t.Fatalf("n=%d: got %d buffers", n, len(bufs))
		}
		seen := make(map[uint32]bool)
		for _, b := range bufs {
			if b.ID() == 0 || seen[b.ID()] {
				t.Fatalf("n=%d: duplicate or zero id %d", n, b.ID())
			}
			seen[b.ID()] = true
		}

		bufs[0].Release()
		if drv.Live(fgl.KindBuffer, bufs[0].ID()) || bufs[0].Live() {
			t.Errorf("n=%d: released buffer still live", n)
		}
		for _, b := range bufs[1:] {
			if !b.Live() || !drv.Live(fgl.KindBuffer, b.ID()) {
				t.Errorf("n=%d: buffer %d invalidated by releasing a sibling", n, b.ID())
			}
		}
	}
}

func TestHandles_BatchAllocationUsesOneDriverCall(t *testing.T) {
	drv := fgltest.New()
	before := drv.Calls()
	fgl.NewVertexArrays(drv, 5)
	if got := drv.Calls() - before; got != 1 {
		t.Errorf("expected 1 driver call, got %d", got)
	}
}

func TestHandles_ReleaseIsIdempotent(t *testing.T) {
	drv := fgltest.New()
	tex := fgl.NewTexture2D(drv, 4, 4, fgl.RGBA8)
	id := tex.ID()
	tex.Release()
	tex.Release()
	if drv.DoubleDeletes != 0 {
		t.Errorf("expected no double delete, got %d", drv.DoubleDeletes)
	}
	if got := drv.Deleted(fgl.KindTexture); len(got) != 1 || got[0] != id {
		t.Errorf("expected texture %d deleted once, got %v", id, got)
	}
}

func TestHandles_RetainDefersDelete(t *testing.T) {
	drv := fgltest.New()
	rb := fgl.NewRenderBuffer(drv)
	id := rb.ID()
	rb.Retain()

	rb.Release()
	if !drv.Live(fgl.KindRenderBuffer, id) {
		t.Fatal("renderbuffer deleted while still retained")
	}
	rb.Release()
	if drv.Live(fgl.KindRenderBuffer, id) {
		t.Error("renderbuffer not deleted after last release")
	}
}

func TestHandles_RetainAfterReleasePanics(t *testing.T) {
	drv := fgltest.New()
	b := fgl.NewVertexBuffer(drv)
	b.Release()
	defer func() {
		err, _ := recover().(error)
		if !errors.Is(err, fgl.ErrReleased) {
			t.Errorf("expected ErrReleased panic, got %v", err)
		}
	}()
	b.Retain()
}

func TestHandles_AllocationFailurePanics(t *testing.T) {
	drv := fgltest.New()
	drv.FailAllocations = true
	defer func() {
		err, _ := recover().(error)
		if !errors.Is(err, fgl.ErrAllocation) {
			t.Errorf("expected ErrAllocation panic, got %v", err)
		}
	}()
	fgl.NewFrameBuffers(drv, 3)
	t.Error("allocation failure did not panic")
}

func TestHandles_OperationsOnReleasedHandleFail(t *testing.T) {
	drv := fgltest.New()
	b := fgl.NewVertexBuffer(drv)
	b.Release()
	before := drv.Calls()
	if err := fgl.AllocWith(b, []float32{1}, fgl.Static, fgl.Draw); !errors.Is(err, fgl.ErrReleased) {
		t.Errorf("expected ErrReleased, got %v", err)
	}
	if drv.Calls() != before {
		t.Error("driver called for a released buffer")
	}
}
