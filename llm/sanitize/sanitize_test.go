package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Rejection
// ---------------------------------------------------------------------------

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty string", ""},
		{"whitespace only", "   \n\t  "},
		{"html only", "<div><br/></div>"},
		{"html and whitespace", "<p>   </p>\n<span>\t</span>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok := Validate(tt.text, 100)
			assert.False(t, ok)
			assert.Empty(t, out)
		})
	}
}

// ---------------------------------------------------------------------------
// Cleaning
// ---------------------------------------------------------------------------

func TestValidate_StripsTagsAndCollapsesWhitespace(t *testing.T) {
	out, ok := Validate("<b>Process</b> is \n\n  in   control.\t", 100)
	require.True(t, ok)
	assert.Equal(t, "Process is in control.", out)
}

func TestValidate_WithinLimitReturnedAsIs(t *testing.T) {
	text := "The chart shows one point beyond the upper control limit."
	out, ok := Validate(text, len(text))
	require.True(t, ok)
	assert.Equal(t, text, out)
}

// ---------------------------------------------------------------------------
// Sentence-safe truncation
// ---------------------------------------------------------------------------

func TestValidate_TruncatesAtSentenceBoundary(t *testing.T) {
	text := "First sentence. Second sentence is long and will be cut somewhere."

	out, ok := Validate(text, 20)
	require.True(t, ok)
	assert.Equal(t, "First sentence.", out)
	assert.LessOrEqual(t, len([]rune(out)), 20)
	assert.False(t, strings.HasSuffix(out, "..."))
	assert.Zero(t, strings.Count(out, "*")%2)
}

func TestValidate_KeepsBoldCloserWithTerminator(t *testing.T) {
	text := "**Key point.** Now more detail follows here, well past the cut."

	out, ok := Validate(text, 16)
	require.True(t, ok)
	assert.Equal(t, "**Key point.**", out)
	assert.Zero(t, strings.Count(out, "*")%2)
}

func TestValidate_QuestionAndExclamationTerminate(t *testing.T) {
	out, ok := Validate("Is the shift real? Review the last eight points for a run.", 25)
	require.True(t, ok)
	assert.Equal(t, "Is the shift real?", out)

	out, ok = Validate("Stop the line! The process mean has shifted by two sigma.", 20)
	require.True(t, ok)
	assert.Equal(t, "Stop the line!", out)
}

func TestValidate_WordBoundaryFallback(t *testing.T) {
	// No sentence terminator anywhere before the limit.
	out, ok := Validate("supercalifragilistic expialidocious and beyond", 25)
	require.True(t, ok)
	assert.Equal(t, "supercalifragilistic", out)
	assert.False(t, strings.HasSuffix(out, "..."))
}

func TestValidate_HardCutWhenNoBoundaryExists(t *testing.T) {
	out, ok := Validate(strings.Repeat("x", 40), 10)
	require.True(t, ok)
	assert.Equal(t, strings.Repeat("x", 10), out)
}

// ---------------------------------------------------------------------------
// Emphasis balancing after truncation
// ---------------------------------------------------------------------------

func TestValidate_BalancesEmphasisAfterSentenceCut(t *testing.T) {
	text := "*Important note. Check limits* and more trailing text here."

	out, ok := Validate(text, 20)
	require.True(t, ok)
	assert.Equal(t, "Important note.", out)
	assert.Zero(t, strings.Count(out, "*")%2)
}

func TestValidate_BalancesEmphasisAfterWordCut(t *testing.T) {
	text := "Review *all datapoints collected since the last recalibration run"

	out, ok := Validate(text, 30)
	require.True(t, ok)
	assert.Zero(t, strings.Count(out, "*")%2)
	assert.LessOrEqual(t, len([]rune(out)), 30)
}

// ---------------------------------------------------------------------------
// ValidateLength
// ---------------------------------------------------------------------------

func TestValidateLength(t *testing.T) {
	assert.True(t, ValidateLength("short", 10))
	assert.True(t, ValidateLength("exactly-10", 10))
	assert.False(t, ValidateLength("this is eleven!", 10))
	// Rune-based, not byte-based.
	assert.True(t, ValidateLength("σχεδιάγραμμα", 12))
}

func TestValidate_NonPositiveLimitUsesDefault(t *testing.T) {
	text := strings.Repeat("a", DefaultMaxChars)
	out, ok := Validate(text, 0)
	require.True(t, ok)
	assert.Equal(t, text, out)
}
