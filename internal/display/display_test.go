package display

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestBar(t *testing.T) {
	tests := map[string]struct {
		cur, max float64
		width    int
		exp      string
	}{
		"empty":       {cur: 0, max: 100, width: 4, exp: "[----]"},
		"half":        {cur: 50, max: 100, width: 4, exp: "[##--]"},
		"full":        {cur: 100, max: 100, width: 4, exp: "[####]"},
		"overflow":    {cur: 300, max: 100, width: 4, exp: "[####]"},
		"zero max":    {cur: 5, max: 0, width: 3, exp: "[---]"},
		"zero width":  {cur: 5, max: 10, width: 0, exp: "[]"},
		"rounds down": {cur: 10, max: 100, width: 4, exp: "[----]"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "bar", Bar(tt.cur, tt.max, tt.width), tt.exp)
		})
	}
}

func TestRender(t *testing.T) {
	tests := map[string]struct {
		tmpl   string
		data   any
		exp    string
		expErr string
	}{
		"field": {
			tmpl: "Hello {{ .Name }}",
			data: struct{ Name string }{"Wren"},
			exp:  "Hello Wren",
		},
		"sprig": {
			tmpl: `{{ join ", " .Tags | upper }}`,
			data: map[string]any{"Tags": []string{"hungry", "wet"}},
			exp:  "HUNGRY, WET",
		},
		"bar helper": {
			tmpl: "{{ bar 1.0 2.0 2 }}",
			exp:  "[#-]",
		},
		"parse error": {
			tmpl:   "{{ .Name ",
			expErr: "parsing template",
		},
		"exec error": {
			tmpl:   "{{ .Missing.Deeper }}",
			data:   struct{}{},
			expErr: "executing template",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Render(tt.tmpl, tt.data)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "output", got, tt.exp)
		})
	}
}

func TestWrapWidth(t *testing.T) {
	got := WrapWidth("the quick brown fox", 10)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 10 {
			t.Errorf("line %q longer than 10", line)
		}
	}
	testutil.AssertEqual(t, "unwrapped", WrapWidth("abc def", 0), "abc def")
	testutil.AssertEqual(t, "capitalize", Capitalize("wren"), "Wren")
}
