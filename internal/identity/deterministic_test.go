package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestAreaUUIDIsStable(t *testing.T) {
	first := AreaUUID("home")
	if first == uuid.Nil {
		t.Fatal("expected non-nil uuid")
	}
	if AreaUUID(" HOME ") != first {
		t.Fatal("expected normalised area keys to share an id")
	}
	if AreaUUID("footer") == first {
		t.Fatal("expected distinct areas to have distinct ids")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if UUID("  ") != uuid.Nil {
		t.Fatal("expected nil uuid for blank key")
	}
}
