package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Out: &buf}
	r.Start(2)
	r.Update(1, "a.yml")
	r.Update(2, "b.yml")
	r.Finish()

	assert.Equal(t, "Importing 2 catalog file(s)\n[1/2] a.yml\n[2/2] b.yml\nImport complete\n", buf.String())
}

func TestNewReporterCI(t *testing.T) {
	t.Setenv("CI", "true")
	assert.IsType(t, &CIReporter{}, NewReporter())
}

func TestTerminalReporterWithoutStart(t *testing.T) {
	r := &TerminalReporter{}
	assert.NotPanics(t, func() {
		r.Update(1, "x")
		r.Finish()
	})
}
