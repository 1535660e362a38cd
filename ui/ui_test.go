package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/game"
	"github.com/pthm-cable/gridsoup/systems"
)

func TestControlStateSpeedClamps(t *testing.T) {
	s := NewControlState(0)
	if s.StepsPerUpdate != 1 {
		t.Fatalf("NewControlState(0).StepsPerUpdate = %d, want 1", s.StepsPerUpdate)
	}
	s.Slower()
	if s.StepsPerUpdate != 1 {
		t.Errorf("Slower below 1 gave %d", s.StepsPerUpdate)
	}
	for range MaxStepsPerUpdate + 5 {
		s.Faster()
	}
	if s.StepsPerUpdate != MaxStepsPerUpdate {
		t.Errorf("Faster past cap gave %d", s.StepsPerUpdate)
	}
}

func TestControlStateStepsThisFrame(t *testing.T) {
	s := NewControlState(3)
	if n := s.StepsThisFrame(); n != 3 {
		t.Errorf("running: got %d steps, want 3", n)
	}

	s.TogglePause()
	if n := s.StepsThisFrame(); n != 0 {
		t.Errorf("paused: got %d steps, want 0", n)
	}

	s.RequestStep()
	if n := s.StepsThisFrame(); n != 1 {
		t.Errorf("single step: got %d steps, want 1", n)
	}
	if n := s.StepsThisFrame(); n != 0 {
		t.Errorf("step request not consumed: got %d", n)
	}
}

func TestOverlayRegistry(t *testing.T) {
	reg := NewOverlayRegistry()

	opts := reg.RenderOptions()
	if !opts.GridLines || !opts.EnergyBars || opts.SpawnRegions {
		t.Errorf("default render options = %+v", opts)
	}

	if !reg.Toggle(OverlaySpawnRegions) {
		t.Error("toggling spawn regions on returned false")
	}
	if !reg.RenderOptions().SpawnRegions {
		t.Error("spawn regions not reflected in render options")
	}

	id, on, ok := reg.HandleKeyPress(rl.KeyE)
	if !ok || id != OverlayEnergyBars || on {
		t.Errorf("HandleKeyPress(E) = %q, %v, %v", id, on, ok)
	}
	if _, _, ok := reg.HandleKeyPress(rl.KeyZ); ok {
		t.Error("unbound key toggled an overlay")
	}
	if reg.Toggle("missing") {
		t.Error("unknown overlay toggled on")
	}
}

func TestLookup(t *testing.T) {
	agents := []game.AgentView{
		{ID: 3, Kind: components.KindPrey, X: 1, Y: 1},
		{ID: 7, Kind: components.KindPredator, X: 2, Y: 5},
	}

	data := Lookup(2, 5, game.CellView{Content: systems.ContentAgent, Kind: components.KindPredator, AgentID: 7}, agents)
	if data.Agent == nil || data.Agent.ID != 7 {
		t.Errorf("Lookup agent = %+v, want ID 7", data.Agent)
	}

	data = Lookup(0, 0, game.CellView{Content: systems.ContentFood}, agents)
	if data.Agent != nil {
		t.Errorf("food cell resolved to agent %+v", data.Agent)
	}
}

func TestDefaultThemeFitsRows(t *testing.T) {
	th := DefaultTheme()
	if th.Row < th.TextSize || th.Row < th.TitleSize {
		t.Errorf("row height %d smaller than text %d/%d", th.Row, th.TextSize, th.TitleSize)
	}
	if th.BarHeight >= th.Row {
		t.Errorf("bar height %d does not fit a %d row", th.BarHeight, th.Row)
	}
}
