package fonts

import (
	"encoding/base64"
	"sync"
	"testing"
)

func TestFaceForEveryStyle(t *testing.T) {
	for _, s := range styles {
		t.Run(s.String(), func(t *testing.T) {
			face, err := Face(s, 12)
			if err != nil {
				t.Fatalf("Face(%s) error: %v", s, err)
			}
			defer face.Close()
			if h := face.Metrics().Height; h <= 0 {
				t.Errorf("Metrics().Height = %v, want > 0", h)
			}
		})
	}
}

func TestMeasureScalesWithSize(t *testing.T) {
	small := Measure(Regular, 10, "ALMLP157")
	large := Measure(Regular, 20, "ALMLP157")
	if small <= 0 {
		t.Fatalf("Measure() = %v, want > 0", small)
	}
	if diff := large - 2*small; diff > 0.01 || diff < -0.01 {
		t.Errorf("Measure at 20pt = %v, want %v", large, 2*small)
	}
	if got := Measure(Bold, 10, ""); got != 0 {
		t.Errorf("Measure(\"\") = %v, want 0", got)
	}
}

func TestMeasureMonoIsFixedPitch(t *testing.T) {
	a := Measure(Mono, 10, "iiii")
	b := Measure(Mono, 10, "WWWW")
	if a != b {
		t.Errorf("mono widths differ: %v vs %v", a, b)
	}
}

func TestMeasureConcurrent(t *testing.T) {
	want := Measure(Regular, 8, "TO BE PROVIDED")
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Measure(Regular, 8, "TO BE PROVIDED"); got != want {
				t.Errorf("Measure() = %v, want %v", got, want)
			}
		}()
	}
	wg.Wait()
}

func TestTTFBase64(t *testing.T) {
	enc := TTFBase64(Bold)
	dec, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(dec) != len(TTF(Bold)) {
		t.Errorf("decoded length = %d, want %d", len(dec), len(TTF(Bold)))
	}
	if TTFBase64(Bold) != enc {
		t.Error("TTFBase64 should be stable")
	}
}

func TestMetrics(t *testing.T) {
	ascent, descent := Metrics(Regular, 10)
	if ascent <= 0 || descent <= 0 {
		t.Fatalf("Metrics() = (%v, %v), want positive", ascent, descent)
	}
	if ascent+descent > 15 {
		t.Errorf("ascent+descent = %v, too tall for a 10pt face", ascent+descent)
	}
}
