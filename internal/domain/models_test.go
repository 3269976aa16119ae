package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestExternalID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    ExternalID
		wantErr bool
	}{
		{in: `424242`, want: "424242"},
		{in: `"424242"`, want: "424242"},
		{in: `null`, want: ""},
		{in: `4.2`, wantErr: true},
		{in: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		var got ExternalID
		err := json.Unmarshal([]byte(tt.in), &got)
		if (err != nil) != tt.wantErr {
			t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("Unmarshal(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParsePlatform(t *testing.T) {
	if p, err := ParsePlatform("max"); err != nil || p != PlatformMax {
		t.Errorf("ParsePlatform(max) = %q, %v", p, err)
	}
	if _, err := ParsePlatform("Telegram"); !errors.Is(err, ErrUnknownPlatform) {
		t.Errorf("ParsePlatform(Telegram) error = %v, want ErrUnknownPlatform", err)
	}
}
