package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeID(t *testing.T) {
	id := NewID()

	got, ok := NormalizeID(id)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	got, ok = NormalizeID("  " + "5F0C2B4E-8D55-4A8B-9A43-8E6F3C1B7D21 ")
	assert.True(t, ok)
	assert.Equal(t, "5f0c2b4e-8d55-4a8b-9a43-8e6f3c1b7d21", got)

	_, ok = NormalizeID("64b7f0c2e1")
	assert.False(t, ok)
}

func TestSameID(t *testing.T) {
	id := "5f0c2b4e-8d55-4a8b-9a43-8e6f3c1b7d21"

	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "identical", a: id, b: id, want: true},
		{name: "case differs", a: id, b: "5F0C2B4E-8D55-4A8B-9A43-8E6F3C1B7D21", want: true},
		{name: "braced form", a: id, b: "{" + id + "}", want: true},
		{name: "different ids", a: id, b: NewID(), want: false},
		{name: "malformed requester", a: id, b: "not-an-id", want: false},
		{name: "both malformed", a: "x", b: "x", want: false},
		{name: "empty", a: "", b: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameID(tt.a, tt.b))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.com "))
}
