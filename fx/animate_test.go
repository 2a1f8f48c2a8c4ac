package fx_test

import (
	"sync"
	"testing"

	"ambientfx/fx"
)

func TestAnimateFlag(t *testing.T) {
	f := fx.NewAnimateFlag(true)
	if !f.Animating() {
		t.Fatalf("Expected the initial state to be kept")
	}
	if f.Toggle() || f.Animating() {
		t.Errorf("Expected toggle to pause")
	}
	if !f.Toggle() || !f.Animating() {
		t.Errorf("Expected toggle to resume")
	}
	f.Set(false)
	if f.Animating() {
		t.Errorf("Expected Set(false) to pause")
	}

	var _ fx.AnimateSource = f
}

func TestAnimateFlagConcurrentToggle(t *testing.T) {
	f := fx.NewAnimateFlag(true)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				f.Toggle()
			}
		}()
	}
	wg.Wait()
	if !f.Animating() {
		t.Errorf("Expected an even number of toggles to leave the flag on")
	}
}
