package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "true", input: "true", expected: true},
		{name: "mixed case true", input: "True", expected: true},
		{name: "one", input: "1", expected: true},
		{name: "yes", input: "yes", expected: true},
		{name: "on", input: "on", expected: true},
		{name: "padded", input: "  true  ", expected: true},
		{name: "false", input: "false", expected: false},
		{name: "zero", input: "0", expected: false},
		{name: "empty", input: "", expected: false},
		{name: "garbage", input: "banana", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truthy(tt.input))
		})
	}
}
