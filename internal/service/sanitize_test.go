package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Dune", "Dune"},
		{"tags", "<i>Frank</i> Herbert", "Frank Herbert"},
		{"script", "<script>alert(1)</script>Dune", "Dune"},
		{"entity encoded script", "&lt;script&gt;alert(1)&lt;/script&gt;", ""},
		{"entity encoded tag", "&lt;b&gt;bold&lt;/b&gt;", "bold"},
		{"double encoded tag", "&amp;lt;img src=x onerror=alert(1)&amp;gt;x", "x"},
		{"ampersand", "Spice & sand", "Spice & sand"},
		{"comparison", "1 < 2", "1 < 2"},
		{"quotes", `"it's"`, `"it's"`},
		{"whitespace", "  <p> hi </p>  ", "hi"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sanitize(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, sanitize(got))
		})
	}
}
