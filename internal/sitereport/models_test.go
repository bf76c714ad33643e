package sitereport

import (
	"testing"
	"time"
)

func TestStoredTime_Scan(t *testing.T) {
	tests := []struct {
		name     string
		src      interface{}
		expected StoredTime
	}{
		{"text", "2019-04-01 10:00:00", "2019-04-01 10:00:00"},
		{"bytes", []byte("2020-05-01 10:00:00"), "2020-05-01 10:00:00"},
		{"zero date text", "0000-00-00 00:00:00", "0000-00-00 00:00:00"},
		{"decoded time", time.Date(2019, 4, 1, 10, 0, 0, 0, time.UTC), "2019-04-01 10:00:00"},
		{"null", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StoredTime
			if err := got.Scan(tt.src); err != nil {
				t.Fatalf("Scan(%v): %v", tt.src, err)
			}
			if got != tt.expected {
				t.Errorf("Scan(%v) = %q, want %q", tt.src, got, tt.expected)
			}
		})
	}
}

func TestStoredTime_ScanRejectsNumbers(t *testing.T) {
	var got StoredTime
	if err := got.Scan(int64(1554112800)); err == nil {
		t.Error("Expected error for integer date value")
	}
}
