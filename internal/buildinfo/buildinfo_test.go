package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBuildData(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })
	Version = "v1.2.3"

	var buf bytes.Buffer
	PrintBuildData(&buf)

	assert.Contains(t, buf.String(), "Build version: v1.2.3\n")
	assert.Contains(t, buf.String(), "Build date: N/A\n")
	assert.Contains(t, buf.String(), "Build commit: N/A\n")
}
