package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogNursingCmd_SideChecks(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{"side is required", nil, `required flag(s) "side" not set`},
		{"unknown side", []string{"--side", "middle"}, `invalid --side "middle"`},
		{"empty side", []string{"--side", ""}, `invalid --side ""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newLogNursingCmd()
			cmd.SetArgs(tt.args)
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})

			err := cmd.Execute()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
