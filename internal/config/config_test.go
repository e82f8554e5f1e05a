package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lassandro/go-altair/internal/bus"
	"github.com/lassandro/go-altair/internal/card"
	"github.com/lassandro/go-altair/internal/config"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "altair.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeTemp(t, `
[emulator]
pseudo_bdos_enabled = true
start_with_pc_at = 256

[[card]]
slot = 0
type = "ram"
at = 0
range = 65536

[[card]]
slot = 1
type = "rom"
at = 61440
range = 256
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Emulator.PseudoBDOSEnabled {
		t.Error("pseudo_bdos_enabled: have false, want true")
	}
	if cfg.Emulator.StartWithPCAt != 256 {
		t.Errorf("start_with_pc_at: have %d, want %d", cfg.Emulator.StartWithPCAt, 256)
	}
	if len(cfg.Cards) != 2 {
		t.Fatalf("card count: have %d, want 2", len(cfg.Cards))
	}
}

func TestLoadCollectsEveryValidationError(t *testing.T) {
	path := writeTemp(t, `
[[card]]
slot = 99
type = "ram"
at = 0

[[card]]
slot = 1
type = "bogus"
at = 0
range = 16

[[card]]
slot = 2
type = "rom"
at = 0
`)

	_, err := config.Load(path)
	if err == nil {
		t.Fatal("expected a validation error")
	}

	msg := err.Error()
	for _, want := range []string{"slot 99", "unknown card type", "requires at least one"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message missing %q:\n%s", want, msg)
		}
	}
}

func TestLoadRejectsMissingType(t *testing.T) {
	path := writeTemp(t, `
[[card]]
slot = 0
at = 0
range = 16
`)

	_, err := config.Load(path)
	if err == nil {
		t.Fatal("expected a validation error for missing type")
	}
}

func TestSerialCardRequiresOnlyAt(t *testing.T) {
	path := writeTemp(t, `
[[card]]
slot = 0
type = "serial"
at = 16
`)

	if _, err := config.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestBuildBusInsertsConfiguredCards(t *testing.T) {
	path := writeTemp(t, `
[[card]]
slot = 3
type = "ram"
at = 0
range = 4096

[[card]]
slot = 4
type = "rom"
at = 61440
range = 16
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	b, err := cfg.BuildBus()
	if err != nil {
		t.Fatalf("BuildBus: %v", err)
	}

	if slot := b.SlotByAddr(0); slot != 3 {
		t.Errorf("ram slot: have %d, want 3", slot)
	}
	if slot := b.SlotByAddr(0xF000); slot != 4 {
		t.Errorf("rom slot: have %d, want 4", slot)
	}
}

func TestLoadBinariesWritesResetVectorAndRejectsOutOfRange(t *testing.T) {
	dir := t.TempDir()
	binPath := filepath.Join(dir, "prog.bin")
	if err := os.WriteFile(binPath, []byte{0x3E, 0x55, 0x76}, 0o644); err != nil {
		t.Fatalf("write program: %v", err)
	}

	b := &bus.Bus{}
	ram := card.NewRAM(0, 1<<16, 0)
	if err := b.Insert(ram, 0, false); err != nil {
		t.Fatalf("insert ram: %v", err)
	}

	if _, err := config.LoadBinaries(b, []config.FileLoad{{Path: binPath, Address: 0x0100}}, 0, false); err != nil {
		t.Fatalf("LoadBinaries: %v", err)
	}

	if b.Read(0, false) != 0xC3 {
		t.Errorf("reset vector opcode: have %#02x, want JMP %#02x", b.Read(0, false), 0xC3)
	}
	if lo, hi := b.Read(1, false), b.Read(2, false); lo != 0x00 || hi != 0x01 {
		t.Errorf("reset vector target: have %#02x%02x, want 0x0100", hi, lo)
	}
	if b.Read(0x0100, false) != 0x3E {
		t.Errorf("loaded byte: have %#02x, want %#02x", b.Read(0x0100, false), 0x3E)
	}

	oversized := config.FileLoad{Path: binPath, Address: 0xFFFF}
	if _, err := config.LoadBinaries(b, []config.FileLoad{oversized}, 0, false); err == nil {
		t.Fatal("expected an out-of-range load error")
	}
}
