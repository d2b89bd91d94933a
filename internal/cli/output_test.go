package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTableWriter(&buf, "NAME", "TYPE")
	tbl.Row("Kitchen", "Speaker")
	tbl.Row("MacBook Pro", "Computer")
	tbl.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "NAME         TYPE", lines[0])
	assert.Equal(t, "Kitchen      Speaker", lines[1])
	assert.Equal(t, "MacBook Pro  Computer", lines[2])
}

func TestTableWithoutHeaders(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTableWriter(&buf)
	tbl.Row("a", "b")
	tbl.Flush()

	assert.Equal(t, "a  b\n", buf.String())
}

func TestBar(t *testing.T) {
	assert.Equal(t, "──────────", Bar(0, 10))
	assert.Equal(t, "━━━━━─────", Bar(50, 10))
	assert.Equal(t, "━━━━━━━━━━", Bar(100, 10))
	assert.Equal(t, "━━━━━━━━━━", Bar(250, 10), "clamped to width")
	assert.Equal(t, "──────────", Bar(-5, 10))
}

func TestFormatProgress(t *testing.T) {
	assert.Equal(t, "━━━━────", FormatProgress(90*time.Second, 180*time.Second, 8))
	assert.Equal(t, "────────", FormatProgress(10*time.Second, 0, 8), "unknown duration")
}

func TestStatusIcon(t *testing.T) {
	assert.Equal(t, "●", StatusIcon(true))
	assert.Equal(t, "○", StatusIcon(false))
}

func TestCurrentBuildKeepsLinkerValues(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.3"
	b := currentBuild()
	assert.Equal(t, "v1.2.3", b.Version)
	assert.NotEmpty(t, b.GoVersion)
	assert.Contains(t, b.Platform, "/")
}
