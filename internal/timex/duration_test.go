package timex

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"string form", `"90s"`, 90 * time.Second, false},
		{"integer nanoseconds", `1000000000`, time.Second, false},
		{"bad string", `"ninety"`, 0, true},
		{"bad type", `true`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && d.Duration != tt.want {
				t.Errorf("got %v, want %v", d.Duration, tt.want)
			}
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{time.Minute})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `"1m0s"` {
		t.Errorf("got %s", b)
	}
}
