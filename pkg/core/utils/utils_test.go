package utils

import (
	"testing"
)

func TestParseStringListStrictJSON(t *testing.T) {
	got, err := ParseStringList(`["AAPL", "MSFT"]`)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "AAPL" || got[1] != "MSFT" {
		t.Errorf("got %v", got)
	}
}

func TestParseStringListFencedAndBroken(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"json fence", "```json\n[\"A\", \"B\", \"C\"]\n```", 3},
		{"bare fence", "```\n[\"A\", \"B\"]\n```", 2},
		{"trailing comma", `["A", "B",]`, 2},
		{"single quotes", `['A', 'B']`, 2},
		{"unclosed bracket", `["A", "B"`, 2},
	}
	for _, c := range cases {
		got, err := ParseStringList(c.raw)
		if err != nil {
			t.Errorf("%s: %v", c.name, err)
			continue
		}
		if len(got) != c.want {
			t.Errorf("%s: got %v, want %d items", c.name, got, c.want)
		}
	}
}

func TestParseStringListRejectsGarbage(t *testing.T) {
	if _, err := ParseStringList("I'm sorry, I cannot list tickers."); err == nil {
		t.Error("prose should not parse as a string list")
	}
}

func TestParseHJSONToStruct(t *testing.T) {
	var out struct {
		WACC  float64 `json:"wacc"`
		Years int     `json:"years"`
	}
	// Unquoted keys and comments are the point of HJSON.
	data := `{
  // override sheet
  wacc: 0.085
  years: 7
}`
	if err := ParseHJSONToStruct(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.WACC != 0.085 || out.Years != 7 {
		t.Errorf("got %+v", out)
	}
}

func TestCleanMarkdown(t *testing.T) {
	in := "```markdown\n# Report\n\nbody\n```"
	if got := CleanMarkdown(in); got != "# Report\n\nbody" {
		t.Errorf("got %q", got)
	}
	// Content without fences passes through untouched.
	if got := CleanMarkdown("  plain  "); got != "plain" {
		t.Errorf("got %q", got)
	}
}

func TestValidateMarkdown(t *testing.T) {
	if !ValidateMarkdown("# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n") {
		t.Error("well-formed markdown should validate")
	}
}
