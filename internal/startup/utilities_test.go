package startup

import (
	"testing"
)

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		want         bool
	}{
		{name: "Returns default when empty", defaultValue: true, want: true},
		{name: "Returns default false when empty", defaultValue: false, want: false},
		{name: "true", envValue: "true", want: true},
		{name: "false", envValue: "false", defaultValue: true, want: false},
		{name: "1", envValue: "1", want: true},
		{name: "0", envValue: "0", defaultValue: true, want: false},
		{name: "Invalid keeps default", envValue: "maybe", defaultValue: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.envValue)
			if got := getEnvBool("TEST_BOOL", tt.defaultValue); got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvPositiveFloat(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		want     float64
	}{
		{name: "Empty uses default", envValue: "", want: 50},
		{name: "Integer", envValue: "100", want: 100},
		{name: "Fraction", envValue: "12.5", want: 12.5},
		{name: "Zero rejected", envValue: "0", want: 50},
		{name: "Negative rejected", envValue: "-3", want: 50},
		{name: "NaN rejected", envValue: "NaN", want: 50},
		{name: "Inf rejected", envValue: "+Inf", want: 50},
		{name: "Garbage rejected", envValue: "fast", want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_FLOAT", tt.envValue)
			if got := getEnvPositiveFloat("TEST_FLOAT", 50); got != tt.want {
				t.Errorf("getEnvPositiveFloat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnabledString(t *testing.T) {
	if enabledString(true) != "ENABLED" || enabledString(false) != "DISABLED" {
		t.Error("enabledString returned unexpected values")
	}
}

func BenchmarkGetEnv(b *testing.B) {
	b.Setenv("BENCH_ENV", "value")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		getEnv("BENCH_ENV", "default")
	}
}

func BenchmarkGetEnvPositiveFloat(b *testing.B) {
	b.Setenv("BENCH_FLOAT", "50")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		getEnvPositiveFloat("BENCH_FLOAT", 1)
	}
}
