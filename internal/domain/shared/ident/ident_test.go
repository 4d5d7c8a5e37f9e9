package ident

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	cases := []struct {
		id    string
		valid bool
	}{
		{"E1", true},
		{"665f1c2e9b1d4a0012ab34cd", true},
		{"b5a3c0de-8c1a-4f7e-9d5b-2f6c1e0a9b77", true},
		{"", false},
		{"  ", false},
		{"undefined", false},
		{"Null", false},
		{"a/b", false},
		{" E1", false},
		{strings.Repeat("x", 65), false},
	}
	for _, tc := range cases {
		err := Check(tc.id)
		if tc.valid {
			assert.NoError(t, err, tc.id)
		} else {
			assert.ErrorIs(t, err, ErrInvalid, tc.id)
		}
	}
}
