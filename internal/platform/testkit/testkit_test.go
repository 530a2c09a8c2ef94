package testkit

import (
	"os"
	"testing"
)

func TestMustPanic(t *testing.T) {
	MustPanic(t, func() { panic("boom") })
}

func TestMustContain(t *testing.T) {
	MustContain(t, `{"level":"warn","component":"engine"}`, `"component":"engine"`)
}

func TestSetEnv(t *testing.T) {
	SetEnv(t, map[string]string{"TK_A": "1", "TK_B": "2"})
	if os.Getenv("TK_A") != "1" || os.Getenv("TK_B") != "2" {
		t.Fatalf("SetEnv did not apply")
	}
}

func TestMustSpan(t *testing.T) {
	MustSpan(t, "유엔(UN) 활동", 0, 6, "유엔(UN)")
}

func TestWriteFile(t *testing.T) {
	p := WriteFile(t, "rules.yaml", "version: 1\n")
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "version: 1\n" {
		t.Fatalf("WriteFile round trip failed: %v %q", err, b)
	}
}

var threshold = 0.9

func TestSwapRestores(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Serial(t)
		Swap(t, &threshold, 0.5)
		if threshold != 0.5 {
			t.Fatalf("threshold = %v", threshold)
		}
	})
	if threshold != 0.9 {
		t.Fatalf("threshold not restored: %v", threshold)
	}
}
