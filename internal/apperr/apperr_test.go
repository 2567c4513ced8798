package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKinds(t *testing.T) {
	if !errors.Is(NotFound("story not found: %s", "abc"), ErrNotFound) {
		t.Fatal("NotFound should match ErrNotFound")
	}
	if !errors.Is(InvalidArgs("name cannot be empty"), ErrInvalidArgs) {
		t.Fatal("InvalidArgs should match ErrInvalidArgs")
	}
	if !errors.Is(Internal("boom"), ErrInternal) {
		t.Fatal("Internal should match ErrInternal")
	}
}

func TestWrapClassifiesUnknownAsInternal(t *testing.T) {
	err := Wrap(errors.New("driver exploded"))
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected internal, got %v", err)
	}
}

func TestWrapKeepsTaxonomyErrors(t *testing.T) {
	nf := NotFound("task not found")
	if got := Wrap(nf); !errors.Is(got, ErrNotFound) {
		t.Fatalf("expected not found preserved, got %v", got)
	}
	wrapped := fmt.Errorf("fetch story: %w", nf)
	if got := Wrap(wrapped); !errors.Is(got, ErrNotFound) {
		t.Fatalf("expected wrapped not found preserved, got %v", got)
	}
	if Wrap(nil) != nil {
		t.Fatal("Wrap(nil) should be nil")
	}
}

func TestMessages(t *testing.T) {
	err := InvalidArgs("name cannot be empty", "name is too long")
	msgs := Messages(err)
	if len(msgs) != 2 || msgs[0] != "name cannot be empty" {
		t.Fatalf("unexpected messages: %v", msgs)
	}
	msgs = Messages(errors.New("plain"))
	if len(msgs) != 1 || msgs[0] != "plain" {
		t.Fatalf("unexpected messages: %v", msgs)
	}
}
