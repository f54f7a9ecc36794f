package target

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadCatalogue(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(c.Profiles) == 0 {
		t.Fatal("catalogue is empty")
	}

	for _, p := range c.Profiles {
		if p.Name == "" {
			t.Error("profile with empty name")
		}
		if p.BufferName == "" || p.CopyFunc == "" || p.BreakSymbol == "" {
			t.Errorf("profile %s is missing required symbols", p.Name)
		}
		if p.ChunkSize <= 0 {
			t.Errorf("profile %s has non-positive chunk size %d", p.Name, p.ChunkSize)
		}
	}
}

func TestGet(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	p, ok := c.Get("stm32u5-dk")
	if !ok {
		t.Fatal("stm32u5-dk not found")
	}
	if p.ChunkSize != 65536 {
		t.Errorf("chunk size = %d, want 65536", p.ChunkSize)
	}
	if !p.Verified {
		t.Error("stm32u5-dk should be verified")
	}

	if _, ok := c.Get("no-such-board"); ok {
		t.Error("unexpected hit for unknown profile")
	}
}

func TestNames(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	names := c.Names()
	if len(names) != len(c.Profiles) {
		t.Fatalf("Names() returned %d entries for %d profiles", len(names), len(c.Profiles))
	}
	for i, p := range c.Profiles {
		if names[i] != p.Name {
			t.Errorf("Names()[%d] = %s, want %s", i, names[i], p.Name)
		}
	}
}

func TestUnknownTargetError(t *testing.T) {
	err := error(&UnknownTargetError{Name: "bogus", Available: []string{"a", "b"}})

	var ute *UnknownTargetError
	if !errors.As(err, &ute) {
		t.Fatal("errors.As failed")
	}
	msg := err.Error()
	if !strings.Contains(msg, "bogus") || !strings.Contains(msg, "- a") {
		t.Errorf("error message missing details: %s", msg)
	}
}
