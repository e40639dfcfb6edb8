package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/backdrop/internal/raster"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.FPS != 60 {
		t.Errorf("expected fps 60, got %d", cfg.FPS)
	}
	if cfg.Particles.Density != 15000 {
		t.Errorf("expected density 15000, got %f", cfg.Particles.Density)
	}
	if cfg.Rain.FontSize != 14 {
		t.Errorf("expected font size 14, got %f", cfg.Rain.FontSize)
	}
	if cfg.Rain.ResetThreshold != 0.975 {
		t.Errorf("expected reset threshold 0.975, got %f", cfg.Rain.ResetThreshold)
	}
	if cfg.Prefs.Backend != "file" {
		t.Errorf("expected file prefs backend, got %s", cfg.Prefs.Backend)
	}
}

func TestSaveLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backdrop.yaml")
	if err := os.WriteFile(path, []byte("fps: 30\nrain:\n  color: \"#ffb000\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.FPS != 30 {
		t.Errorf("expected fps 30, got %d", cfg.FPS)
	}
	if cfg.Rain.Color != "#ffb000" {
		t.Errorf("expected amber rain, got %s", cfg.Rain.Color)
	}
	if cfg.Particles.Density != 15000 {
		t.Error("unset fields should keep their defaults")
	}

	out := filepath.Join(t.TempDir(), "saved.yaml")
	if err := Save(out, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	again, err := Load(out)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if again.FPS != 30 || again.Rain.Color != "#ffb000" {
		t.Errorf("saved config did not survive reload: %+v", again)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestResolveAppliesEnv(t *testing.T) {
	t.Setenv("BACKDROP_FPS", "24")
	t.Setenv("BACKDROP_PREFS_BACKEND", "sqlite")
	t.Setenv("BACKDROP_DATA_DIR", "/tmp/backdrop-test")

	cfg, err := Resolve("")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cfg.FPS != 24 {
		t.Errorf("expected fps 24 from env, got %d", cfg.FPS)
	}
	if cfg.Prefs.Backend != "sqlite" {
		t.Errorf("expected sqlite backend from env, got %s", cfg.Prefs.Backend)
	}
	if cfg.DataDir != "/tmp/backdrop-test" {
		t.Errorf("expected data dir from env, got %s", cfg.DataDir)
	}
	if cfg.Rain.FontSize != 14 {
		t.Error("env overlay should not reset unrelated fields")
	}
}

func TestResolveRejectsBadEnv(t *testing.T) {
	t.Setenv("BACKDROP_FPS", "fast")
	if _, err := Resolve(""); err == nil {
		t.Error("expected error for non-numeric fps")
	}
}

func TestEngineOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Particles.Palette = []string{"#ffffff"}
	cfg.Rain.Fade = 0.1

	po := cfg.ParticleOptions()
	if len(po.Palette) != 1 || po.Palette[0] != raster.White {
		t.Errorf("unexpected palette %v", po.Palette)
	}
	if po.LinkDistance != 100 {
		t.Errorf("expected link distance 100, got %f", po.LinkDistance)
	}

	ro := cfg.RainOptions()
	if ro.Fade != 0.1 {
		t.Errorf("expected fade 0.1, got %f", ro.Fade)
	}
	if ro.GlyphBase != 0x30A0 || ro.GlyphRange != 96 {
		t.Errorf("unexpected glyph block %U+%d", ro.GlyphBase, ro.GlyphRange)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("particles", "dense")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Particles.Density != 6000 {
		t.Errorf("expected density 6000, got %f", cfg.Particles.Density)
	}
	if DefaultConfig().Particles.Density != 15000 {
		t.Error("preset leaked into defaults")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("particles", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "hero"); cfg != nil {
		t.Error("expected nil for nonexistent engine")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("rain")
	want := []string{"amber", "cta", "drizzle", "storm"}
	if len(presets) != len(want) {
		t.Fatalf("expected %v, got %v", want, presets)
	}
	for i := range want {
		if presets[i] != want[i] {
			t.Errorf("expected %v, got %v", want, presets)
		}
	}

	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent engine")
	}
}
