package main

import (
	"bytes"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/siting-cli/internal/ledger"
)

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	runs := []ledger.Run{
		{
			Artifact:  "block groups",
			Source:    "cache",
			Rows:      1338,
			StartedAt: now,
			Duration:  120 * time.Millisecond,
		},
		{
			Artifact:  "census schools",
			Forced:    true,
			ErrorKind: "data_unavailable",
			Error:     "tiger: all 4 county downloads failed",
			StartedAt: now.Add(-time.Hour),
			Duration:  3 * time.Second,
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	out := buf.String()
	assert.Contains(t, out, "ARTIFACT")
	assert.Contains(t, out, "SOURCE")
	assert.Contains(t, out, "block groups")
	assert.Contains(t, out, "1338")
	assert.Contains(t, out, "2025-06-15 10:30:00")
	assert.Contains(t, out, "- (forced)")
	assert.Contains(t, out, "data_unavailable: tiger: all 4 county downloads failed")
}

func TestFormatRunsList_Empty(t *testing.T) {
	var buf bytes.Buffer
	formatRunsList(&buf, nil)
	assert.Equal(t, "No runs recorded.\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
	assert.Equal(t, "a b", truncate("a\n b", 10))

	// "é" is two bytes; a byte cut at 5 would split it.
	got := truncate("abcdéfghij", 8)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "abcd...", got)
}
