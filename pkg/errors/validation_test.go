package errors

import (
	"math"
	"strings"
	"testing"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"plain", "43", 43, false},
		{"decimal", "4.60", 4.60, false},
		{"padded", "  6.35 ", 6.35, false},
		{"negative", "-1", -1, false},

		{"empty", "", 0, true},
		{"blank", "   ", 0, true},
		{"letters", "abc", 0, true},
		{"trailing junk", "4.6mm", 0, true},
		{"nan", "NaN", 0, true},
		{"inf", "+Inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFloat("radius", tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFloat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !Is(err, ErrCodeParse) {
					t.Errorf("ParseFloat(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeParse)
				}
				if !strings.Contains(err.Error(), "radius") {
					t.Errorf("error should name the field: %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseFloat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"22", 22, false},
		{" 3 ", 3, false},
		{"0", 0, false},
		{"2.5", 0, true},
		{"", 0, true},
		{"x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseInt("links", tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseInt(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseInt(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"positive", 6.35, false},
		{"zero", 0, true},
		{"negative", -2, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("length", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePositive(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "ring.layout.json", false},
		{"absolute", "/tmp/ring.json", false},
		{"nested", "out/ring.json", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"null byte", "ring\x00.json", true},
		{"newline", "ring\n.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
