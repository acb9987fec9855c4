package health

import (
	"context"
	"testing"

	"github.com/clonder/varys/internal/recognise"
)

func TestRecogniserCheckerFailsWithoutLoadedModel(t *testing.T) {
	c := RecogniserChecker(&recognise.Recogniser{})
	if c.Name != "recogniser" {
		t.Errorf("name = %q, want %q", c.Name, "recogniser")
	}
	if err := c.Check(context.Background()); err == nil {
		t.Error("expected an error for a recogniser with no model loaded")
	}
}
