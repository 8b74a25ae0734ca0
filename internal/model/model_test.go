package model

import (
	"encoding/json"
	"testing"
)

func TestFingerprint_NativeIDWins(t *testing.T) {
	a := Event{ID: "us7000abcd", Time: 1_700_000_000_000, Mag: 5.4}
	b := Event{ID: "us7000abcd", Time: 1_700_000_999_000, Mag: 3.1} // different time/mag, same id
	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("same id must collapse: %q vs %q", a.Fingerprint(), b.Fingerprint())
	}
	if a.Fingerprint() != "us7000abcd" {
		t.Errorf("id fingerprint: got %q", a.Fingerprint())
	}
}

func TestFingerprint_MinuteBucket(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Event
		wantEqual bool
	}{
		{
			name:      "same minute, same rounded magnitude",
			a:         Event{Time: 1_700_000_010_000, Mag: 4.44},
			b:         Event{Time: 1_700_000_020_000, Mag: 4.41},
			wantEqual: true,
		},
		{
			name:      "same minute, different magnitude",
			a:         Event{Time: 1_700_000_010_000, Mag: 4.4},
			b:         Event{Time: 1_700_000_010_000, Mag: 4.6},
			wantEqual: false,
		},
		{
			name:      "minutes apart",
			a:         Event{Time: 1_700_000_000_000, Mag: 4.4},
			b:         Event{Time: 1_700_000_000_000 + 120_000, Mag: 4.4},
			wantEqual: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Fingerprint() == tt.b.Fingerprint()
			if got != tt.wantEqual {
				t.Errorf("fingerprints %q / %q: equal=%v, want %v",
					tt.a.Fingerprint(), tt.b.Fingerprint(), got, tt.wantEqual)
			}
		})
	}
}

func TestMagHistogram_MarshalPreservesOrder(t *testing.T) {
	h := MagHistogram{
		{Key: "M-1", Count: 1},
		{Key: "M2", Count: 7},
		{Key: "M10", Count: 2}, // lexical sort would put this before M2
	}
	b, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"M-1":1,"M2":7,"M10":2}`
	if string(b) != want {
		t.Errorf("marshal: got %s, want %s", b, want)
	}
}

func TestMagHistogram_EmptyMarshalsAsObject(t *testing.T) {
	b, err := json.Marshal(MagHistogram{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "{}" {
		t.Errorf("empty histogram: got %s, want {}", b)
	}
}
