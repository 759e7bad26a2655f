package textindex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const invoiceText = "Invoice Total: $42.00 dated 2024-01-01"

func TestContainsText_CaseSensitivity(t *testing.T) {
	x := newTestIndex()
	loadText(t, x, "This is a sample document.")

	tests := []struct {
		needle        string
		caseSensitive bool
		want          bool
	}{
		{"sample", true, true},
		{"SAMPLE", false, true},
		{"SAMPLE", true, false},
		{"Sample", true, false},
		{"Sample", false, true},
		{"This", true, true},
		{"this", true, false},
		{"this", false, true},
		{"missing", false, false},
		{"sample document.", false, true},
	}
	for _, tt := range tests {
		got := x.ContainsText(tt.needle, tt.caseSensitive)
		assert.Equal(t, tt.want, got, "needle=%q caseSensitive=%v", tt.needle, tt.caseSensitive)
	}
}

func TestContainsText_EmptyNeedleRejected(t *testing.T) {
	x := newTestIndex()
	loadText(t, x, "anything")

	assert.False(t, x.ContainsText("", false))
	assert.False(t, x.ContainsText("", true))
}

func TestContainsAnyOf_Invoice(t *testing.T) {
	x := newTestIndex()
	loadText(t, x, invoiceText)

	res := x.ContainsAnyOf([]string{"invoice", "total", "amount", "date"}, false)
	assert.True(t, res.Found)
	assert.Equal(t, []TermResult{
		{Text: "invoice", Found: true, Position: 0},
		{Text: "total", Found: true, Position: 8},
		{Text: "amount", Found: false, Position: -1},
		// "date" is a prefix of "dated".
		{Text: "date", Found: true, Position: 22},
	}, res.Results)
}

func TestContainsAnyOf_PreservesOrder(t *testing.T) {
	x := newTestIndex()
	loadText(t, x, invoiceText)

	needles := []string{"zzz", "2024", "Invoice", "nope", "$42"}
	res := x.ContainsAnyOf(needles, true)
	require.Len(t, res.Results, len(needles))
	for i, n := range needles {
		assert.Equal(t, n, res.Results[i].Text)
	}
	assert.Equal(t, []bool{false, true, true, false, true}, []bool{
		res.Results[0].Found, res.Results[1].Found, res.Results[2].Found,
		res.Results[3].Found, res.Results[4].Found,
	})
	assert.Equal(t, 15, res.Results[4].Position)
}

func TestContainsAnyOf_NoneFound(t *testing.T) {
	x := newTestIndex()
	loadText(t, x, invoiceText)

	res := x.ContainsAnyOf([]string{"INVOICE", "receipt"}, true)
	assert.False(t, res.Found)
	for _, r := range res.Results {
		assert.False(t, r.Found)
		assert.Equal(t, -1, r.Position)
	}
}

func TestContainsAnyOf_EmptyInputs(t *testing.T) {
	x := newTestIndex()
	loadText(t, x, invoiceText)

	res := x.ContainsAnyOf(nil, false)
	assert.False(t, res.Found)
	assert.Empty(t, res.Results)

	res = x.ContainsAnyOf([]string{"", "total"}, false)
	assert.True(t, res.Found)
	assert.Equal(t, TermResult{Text: "", Found: false, Position: -1}, res.Results[0])
	assert.Equal(t, TermResult{Text: "total", Found: true, Position: 8}, res.Results[1])
}

func TestContainsAnyOf_CharacterOffsets(t *testing.T) {
	x := newTestIndex()
	loadText(t, x, "naïve café menu")

	res := x.ContainsAnyOf([]string{"café", "menu"}, false)
	assert.Equal(t, 6, res.Results[0].Position)
	assert.Equal(t, 11, res.Results[1].Position)
}

func TestSearchWithContext_NonOverlapping(t *testing.T) {
	x := newTestIndex()

	loadText(t, x, "aaaa")
	matches := x.SearchWithContext("aa", DefaultContextLength, false)
	require.Len(t, matches, 2)
	assert.Equal(t, 0, matches[0].Position)
	assert.Equal(t, 2, matches[1].Position)

	loadText(t, x, "aaa")
	matches = x.SearchWithContext("aa", DefaultContextLength, false)
	require.Len(t, matches, 1)
	assert.Equal(t, 0, matches[0].Position)
}

func TestSearchWithContext_Windows(t *testing.T) {
	x := newTestIndex()
	loadText(t, x, "Hello World hello")

	matches := x.SearchWithContext("HELLO", 3, false)
	require.Len(t, matches, 2)

	assert.Equal(t, Match{
		Text:          "HELLO",
		Position:      0,
		Context:       "Hello Wo",
		BeforeContext: "",
		AfterContext:  " Wo",
	}, matches[0])
	assert.Equal(t, Match{
		Text:          "HELLO",
		Position:      12,
		Context:       "ld hello",
		BeforeContext: "ld ",
		AfterContext:  "",
	}, matches[1])
}

func TestSearchWithContext_CaseSensitive(t *testing.T) {
	x := newTestIndex()
	loadText(t, x, "Hello World hello")

	matches := x.SearchWithContext("hello", DefaultContextLength, true)
	require.Len(t, matches, 1)
	assert.Equal(t, 12, matches[0].Position)
	assert.Equal(t, "Hello World hello", matches[0].Context)
	assert.Equal(t, "Hello World ", matches[0].BeforeContext)
}

func TestSearchWithContext_BoundsAtEdges(t *testing.T) {
	x := newTestIndex()
	loadText(t, x, "sample at the very start and a sample at the end")

	matches := x.SearchWithContext("sample", DefaultContextLength, false)
	require.Len(t, matches, 2)
	assert.Equal(t, "", matches[0].BeforeContext)
	assert.Equal(t, " at the end", matches[1].AfterContext)
	for _, m := range matches {
		assert.Equal(t, x.FullText(), m.Context)
		assert.Equal(t, m.Context, m.BeforeContext+"sample"+m.AfterContext)
	}
}

func TestSearchWithContext_ZeroAndNegativeContext(t *testing.T) {
	x := newTestIndex()
	loadText(t, x, invoiceText)

	for _, n := range []int{0, -10} {
		matches := x.SearchWithContext("TOTAL", n, false)
		require.Len(t, matches, 1)
		assert.Equal(t, "Total", matches[0].Context)
		assert.Empty(t, matches[0].BeforeContext)
		assert.Empty(t, matches[0].AfterContext)
	}
}

func TestSearchWithContext_Unicode(t *testing.T) {
	x := newTestIndex()
	loadText(t, x, "Ünïcödé straße ÜBER")

	matches := x.SearchWithContext("über", 2, false)
	require.Len(t, matches, 1)
	assert.Equal(t, 15, matches[0].Position)
	assert.Equal(t, "e ", matches[0].BeforeContext)
	assert.Equal(t, "e ÜBER", matches[0].Context)

	matches = x.SearchWithContext("STRASSE", 2, false)
	assert.Empty(t, matches)

	matches = x.SearchWithContext("ünïcödé", 1, false)
	require.Len(t, matches, 1)
	assert.Equal(t, "Ünïcödé ", matches[0].Context)
}

func TestSearchWithContext_EmptyNeedleRejected(t *testing.T) {
	x := newTestIndex()
	loadText(t, x, "abc")
	assert.Empty(t, x.SearchWithContext("", DefaultContextLength, false))
}

func TestSearchWithContext_NoMatches(t *testing.T) {
	x := newTestIndex()
	loadText(t, x, "abc")
	matches := x.SearchWithContext("xyz", DefaultContextLength, false)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestPresentNeedleProperties(t *testing.T) {
	text := "The Quick brown fox jumps over the lazy dog. THE END of the Story."
	x := newTestIndex()
	loadText(t, x, text)

	for _, n := range []string{"Quick", "fox", "THE", "the", "Story.", "lazy dog", text} {
		assert.True(t, x.ContainsText(n, true), n)
		assert.True(t, x.ContainsText(strings.ToUpper(n), false), n)

		matches := x.SearchWithContext(n, DefaultContextLength, true)
		require.NotEmpty(t, matches, n)
		for _, m := range matches {
			assert.Contains(t, m.Context, n)
		}
	}
}

func TestFold_PreservesRuneCount(t *testing.T) {
	for _, s := range []string{"ÀÉÎÕÜ", "İstanbul", "Kelvin", "plain", "bad\xffbyte"} {
		assert.Equal(t, len([]rune(s)), len([]rune(fold(s, false))), s)
	}
}

func TestSearch_InvalidUTF8Needle(t *testing.T) {
	x := newTestIndex()
	loadText(t, x, "café")

	// 0xA9 is the continuation byte of "é"; it must not match inside it.
	for _, caseSensitive := range []bool{true, false} {
		assert.False(t, x.ContainsText("\xa9", caseSensitive))
		assert.Empty(t, x.SearchWithContext("\xa9", DefaultContextLength, caseSensitive))

		res := x.ContainsAnyOf([]string{"\xa9", "é"}, caseSensitive)
		assert.Equal(t, TermResult{Text: "\xa9", Found: false, Position: -1}, res.Results[0])
		assert.Equal(t, TermResult{Text: "é", Found: true, Position: 3}, res.Results[1])
	}
}

func TestSearch_InvalidUTF8Text(t *testing.T) {
	x := newTestIndex()
	loadText(t, x, "ab\xff\xfecd")

	matches := x.SearchWithContext("cd", 1, true)
	require.Len(t, matches, 1)
	assert.Equal(t, 4, matches[0].Position)
	assert.Equal(t, "\ufffdcd", matches[0].Context)

	res := x.ContainsAnyOf([]string{"cd"}, false)
	assert.Equal(t, 4, res.Results[0].Position)
}
