package assistant

import "testing"

func TestFromReturnsSiriForKnownName(t *testing.T) {
	a := From("Siri", "http://unused")
	if a.Name() != "Siri" {
		t.Fatalf("expected Siri, got %q", a.Name())
	}
}

func TestFromReturnsSiriForUnknownName(t *testing.T) {
	a := From("cortana", "http://unused")
	if a.Name() != "Siri" {
		t.Fatalf("expected Siri as the fallback, got %q", a.Name())
	}
}

func TestFromReturnsSiriForEmptyName(t *testing.T) {
	a := From("", "http://unused")
	if a.Name() != "Siri" {
		t.Fatalf("expected Siri as the default, got %q", a.Name())
	}
}

func TestSetupIsNoop(t *testing.T) {
	if err := NewSiri("http://unused").Setup(); err != nil {
		t.Fatalf("expected Setup to be a no-op, got %v", err)
	}
}
