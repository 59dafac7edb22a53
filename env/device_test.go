//go:build gba

package env_test

import (
	"testing"

	"github.com/clktmr/gbaenv/env"
	gbatesting "github.com/clktmr/gbaenv/testing"
)

func TestMain(m *testing.M) { gbatesting.TestMain(m) }

func TestDetect(t *testing.T) {
	t.Log("detected", gbatesting.Detected)
	if got := env.Detect(); got != gbatesting.Detected {
		t.Fatalf("second detection returned %v, first %v", got, gbatesting.Detected)
	}
}
