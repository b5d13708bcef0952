package present

import (
	"errors"
	"strings"
	"testing"
)

func TestInvariantErrorMatching(t *testing.T) {
	e := &InvariantError{Op: "acquire", Msg: "acquire next image", Err: ErrSurfaceLost}

	if !errors.Is(e, ErrInvariant) {
		t.Error("errors.Is(e, ErrInvariant) = false")
	}
	if !errors.Is(e, ErrSurfaceLost) {
		t.Error("errors.Is(e, ErrSurfaceLost) = false")
	}
	if errors.Is(e, ErrSurfaceOutdated) {
		t.Error("errors.Is(e, ErrSurfaceOutdated) = true")
	}

	var target *InvariantError
	if !errors.As(e, &target) || target.Op != "acquire" {
		t.Errorf("errors.As = %v, %+v", target != nil, target)
	}
}

func TestInvariantErrorMessage(t *testing.T) {
	tests := []struct {
		err  *InvariantError
		want string
	}{
		{&InvariantError{Op: "initialize", Msg: "nil owner"}, "present: initialize: nil owner"},
		{&InvariantError{Op: "acquire", Msg: "acquire next image", Err: ErrSurfaceLost}, "present: acquire: acquire next image: present: surface lost"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestAssertHelpers(t *testing.T) {
	assert(true, "op", "never")
	assertOK(nil, "op", "never")

	ie := mustPanic(t, func() { assert(false, "op", "value %d", 3) })
	if ie.Msg != "value 3" || ie.Err != nil {
		t.Errorf("assert panic = %+v", ie)
	}

	ie = mustPanic(t, func() { assertOK(errInjected, "op", "step") })
	if !errors.Is(ie, errInjected) || !strings.Contains(ie.Error(), "step") {
		t.Errorf("assertOK panic = %v", ie)
	}
}
