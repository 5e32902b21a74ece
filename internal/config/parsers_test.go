package config

import (
	"testing"
	"time"
)

func TestAsInt(t *testing.T) {
	tests := []struct {
		input interface{}
		want  int
	}{
		{123, 123},
		{" 456 ", 456},
		{int64(789), 789},
		{float64(10.0), 10},
		{nil, 0},
	}

	for _, tt := range tests {
		got, err := asInt(tt.input)
		if err != nil {
			t.Errorf("asInt(%v) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("asInt(%v) = %d, want %d", tt.input, got, tt.want)
		}
	}

	if _, err := asInt([]int{1}); err == nil {
		t.Error("asInt([]int) error = nil, want unsupported type")
	}
}

func TestAsBool(t *testing.T) {
	tests := []struct {
		input interface{}
		want  bool
	}{
		{true, true},
		{"true", true},
		{"1", true},
		{"false", false},
		{nil, false},
	}

	for _, tt := range tests {
		got, err := asBool(tt.input)
		if err != nil {
			t.Errorf("asBool(%v) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("asBool(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestAsDuration(t *testing.T) {
	tests := []struct {
		input interface{}
		want  time.Duration
	}{
		{"250ms", 250 * time.Millisecond},
		{3, 3 * time.Second},
		{1.5, 1500 * time.Millisecond},
		{time.Minute, time.Minute},
		{"", 0},
	}

	for _, tt := range tests {
		got, err := asDuration(tt.input)
		if err != nil {
			t.Errorf("asDuration(%v) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("asDuration(%v) = %s, want %s", tt.input, got, tt.want)
		}
	}

	if _, err := asDuration("soon"); err == nil {
		t.Error("asDuration(\"soon\") error = nil, want parse error")
	}
}

func TestLookupSettingLowercases(t *testing.T) {
	settings := map[string]interface{}{"retrybackoff": "1s"}
	got, ok := lookupSetting(settings, "retryBackoff")
	if !ok || got != "1s" {
		t.Errorf("lookupSetting() = %v, %v; want 1s, true", got, ok)
	}
}

func TestApplyConfigSettingsErrors(t *testing.T) {
	cfg := Defaults()
	err := applyConfigSettings(cfg, map[string]interface{}{"total": []string{"x"}})
	if err == nil {
		t.Fatal("applyConfigSettings() error = nil, want type error")
	}
}
