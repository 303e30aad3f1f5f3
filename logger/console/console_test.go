// ABOUTME: Tests for the charmbracelet console backend
// ABOUTME: Checks level filtering and key-value output
package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(Params{Output: &buf})

	l.Debug("hidden")
	l.Info("network imported", "nodes", 12)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "network imported")
	assert.Contains(t, out, "nodes=12")
}

func TestConsoleDebugEnabled(t *testing.T) {
	var buf bytes.Buffer
	l := New(Params{Output: &buf, Debug: true})

	l.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}
