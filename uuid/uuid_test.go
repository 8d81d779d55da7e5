package uuid_test

import (
	"strings"
	"testing"

	"github.com/DimK19/vibettp/uuid"
)

func TestNewV4(t *testing.T) {
	id := uuid.NewV4()

	if id.Version() != 4 {
		t.Errorf("expected version 4, got %d", id.Version())
	}
	if id[8]&0xc0 != 0x80 {
		t.Errorf("expected variant 10, got %08b", id[8])
	}
}

func TestString(t *testing.T) {
	s := uuid.NewV4().String()

	if len(s) != 36 {
		t.Fatalf("expected 36 characters, got %d", len(s))
	}
	if s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		t.Errorf("misplaced separators in %q", s)
	}
	if strings.ToLower(s) != s {
		t.Errorf("expected lowercase hex in %q", s)
	}
}

func TestUniqueness(t *testing.T) {
	if uuid.NewV4() == uuid.NewV4() {
		t.Error("two v4 ids collided")
	}
}
