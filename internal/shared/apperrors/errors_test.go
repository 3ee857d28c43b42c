package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("booking: %w", Newf(KindInsufficientInventory, "Only %d seats available in this row", 5))

	if !errors.Is(err, ErrInsufficientInventory) {
		t.Error("should match its kind")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("should not match another kind")
	}
	if KindOf(err) != KindInsufficientInventory {
		t.Errorf("KindOf = %s", KindOf(err))
	}
	if got := Newf(KindInsufficientInventory, "Only %d seats available in this row", 5).Error(); got != "Only 5 seats available in this row" {
		t.Errorf("message = %q", got)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := Wrap(KindInternal, "An error occurred", cause)

	if !errors.Is(err, cause) {
		t.Error("cause should be reachable")
	}
	if err.Error() != "An error occurred" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestKindOfPlainError(t *testing.T) {
	if KindOf(errors.New("x")) != KindInternal {
		t.Error("plain errors are internal")
	}
	if (&Error{Kind: KindContention}).Error() != "CONTENTION" {
		t.Error("empty message falls back to kind")
	}
}
