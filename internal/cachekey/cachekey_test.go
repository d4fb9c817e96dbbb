package cachekey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive_Stable(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
	}{
		{
			name: "tracking params",
			a:    "https://platform.example/reel/XYZ123",
			b:    "https://platform.example/reel/XYZ123?utm_source=share&utm_medium=copy_link",
		},
		{
			name: "fragment",
			a:    "https://platform.example/reel/XYZ123",
			b:    "https://platform.example/reel/XYZ123#comments",
		},
		{
			name: "trailing slash inside code path",
			a:    "https://platform.example/p/ABC/",
			b:    "https://platform.example/p/ABC/?igsh=xyz",
		},
		{
			name: "reel vs reels",
			a:    "https://platform.example/reel/XYZ123",
			b:    "https://platform.example/reels/XYZ123",
		},
		{
			name: "no content code, query stripped",
			a:    "https://videos.example/watch/555",
			b:    "https://videos.example/watch/555?t=30#details",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, Derive(tc.a), Derive(tc.b))
		})
	}
}

func TestDerive_Distinct(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
	}{
		{
			name: "different codes",
			a:    "https://platform.example/reel/XYZ123",
			b:    "https://platform.example/reel/XYZ124",
		},
		{
			name: "different paths without codes",
			a:    "https://videos.example/watch/555",
			b:    "https://videos.example/watch/556",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotEqual(t, Derive(tc.a), Derive(tc.b))
		})
	}
}

func TestDerive_Shape(t *testing.T) {
	key := Derive("https://platform.example/reel/XYZ123")
	require.Len(t, key, 32)
	for _, c := range key {
		assert.Contains(t, "0123456789abcdef", string(c))
	}
}
