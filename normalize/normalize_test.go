package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"utf8 bytes", []byte("héllo"), "héllo"},
		{"invalid utf8 falls back to latin-1", []byte{0x68, 0xE9, 0x6C}, "hél"},
		{"time", time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), "2020-01-02T03:04:05Z"},
		{"zero time", time.Time{}, ""},
		{"int", 42, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestTextNeverPanics(t *testing.T) {
	inputs := []any{nil, "", []byte(nil), []byte{0xFF, 0xFE, 0x00}, 3.14, struct{ X int }{1}, []any{nil}}
	for _, in := range inputs {
		assert.NotPanics(t, func() { _ = Text(in) })
	}
}

func TestAddressList(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"scalar", "a@x.com", "a@x.com"},
		{"string slice", []string{"a@x.com", " b@x.com ", ""}, "a@x.com, b@x.com"},
		{"any slice", []any{"a@x.com", nil, "c@x.com"}, "a@x.com, c@x.com"},
		{"all blank", []string{"", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddressList(tt.in))
		})
	}
}

func TestDisplayAndEmail(t *testing.T) {
	tests := []struct {
		name        string
		display     string
		email       string
		wantDisplay string
		wantEmail   string
	}{
		{"email embedded in display", "Jane Doe <jane@x.com>", "", "Jane Doe", "jane@x.com"},
		{"explicit email wins", "Jane Doe", "jane@x.com", "Jane Doe", "jane@x.com"},
		{"email only", "", "jane@x.com", "jane@x.com", "jane@x.com"},
		{"annotation stripped", "Jane Doe <jane@x.com>", "other@x.com", "Jane Doe", "other@x.com"},
		{"both blank", "", "", "", ""},
		// Stripping the annotation would leave nothing, so the display text
		// keeps its original form.
		{"display is only an address token", "<jane@x.com>", "", "<jane@x.com>", "jane@x.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			display, email := DisplayAndEmail(tt.display, tt.email)
			assert.Equal(t, tt.wantDisplay, display)
			assert.Equal(t, tt.wantEmail, email)
		})
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"illegal characters", `Report: Q1/Q2?.msg`, 0, "Report_ Q1_Q2_.msg"},
		{"surrounding junk", "  .report.  ", 0, "report"},
		{"truncation", "aaaaaaaaaa", 4, "aaaa"},
		{"backslash and pipe", `a\b|c`, 0, "a_b_c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.in, tt.maxLen))
		})
	}
}
