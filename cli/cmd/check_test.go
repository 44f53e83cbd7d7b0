package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

const checkResource = `a = { missing }
b = { -brnd }
-brand = Acme
ok = Fine
`

func TestCheck_Clean(t *testing.T) {
	t.Parallel()

	ctx, out := testContext(t, writeFiles(t, "ok.ftl", "ok = Fine\n")...)

	if err := (&Check{Output: "text"}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if out.Len() != 0 {
		t.Errorf("output = %q, want empty", out.String())
	}
}

func TestCheck_Text(t *testing.T) {
	t.Parallel()

	paths := writeFiles(t, "app.ftl", checkResource)
	ctx, out := testContext(t, paths...)

	err := (&Check{Output: "text"}).Run(ctx)
	if !errors.Is(err, ErrDiagnostics) {
		t.Fatalf("Run() error = %v, want ErrDiagnostics", err)
	}

	for _, want := range []string{
		paths[0] + ": UnknownMessage: message \"missing\" referenced by \"a\" does not exist",
		"UnknownTerm: term \"-brnd\" referenced by \"b\" does not exist",
		`did you mean "-brand"?`,
		"2 problems",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestCheck_Where(t *testing.T) {
	t.Parallel()

	ctx, out := testContext(t, writeFiles(t, "app.ftl", checkResource)...)

	err := (&Check{Output: "json", Where: `kind == "UnknownTerm" && suggestion != ""`}).Run(ctx)
	if !errors.Is(err, ErrDiagnostics) {
		t.Fatalf("Run() error = %v, want ErrDiagnostics", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}

	if len(got) != 1 || got[0]["kind"] != "UnknownTerm" || got[0]["identifier"] != "b" ||
		got[0]["reference"] != "-brnd" || got[0]["stage"] != "validation" {
		t.Errorf("diagnostics = %v", got)
	}
}

func TestCheck_WhereFiltersAll(t *testing.T) {
	t.Parallel()

	ctx, out := testContext(t, writeFiles(t, "app.ftl", checkResource)...)

	if err := (&Check{Output: "json", Where: `stage == "syntax"`}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := strings.TrimSpace(out.String()); got != "[]" {
		t.Errorf("output = %q, want []", got)
	}
}

func TestCheck_InvalidWhere(t *testing.T) {
	t.Parallel()

	ctx, _ := testContext(t, writeFiles(t, "app.ftl", checkResource)...)

	for _, where := range []string{`kind ==`, `line + 1`, `nope == 1`} {
		if err := (&Check{Output: "text", Where: where}).Run(ctx); !errors.Is(err, ErrWhere) {
			t.Errorf("Run(--where %q) error = %v, want ErrWhere", where, err)
		}
	}
}

func TestCheck_YAML(t *testing.T) {
	t.Parallel()

	ctx, out := testContext(t, writeFiles(t, "bad.ftl", "ok = Fine\nhello\n")...)

	err := (&Check{Output: "yaml"}).Run(ctx)
	if !errors.Is(err, ErrDiagnostics) {
		t.Fatalf("Run() error = %v, want ErrDiagnostics", err)
	}

	var got []struct {
		Stage  string `yaml:"stage"`
		Kind   string `yaml:"kind"`
		Line   int    `yaml:"line"`
		Column int    `yaml:"column"`
	}
	if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}

	if len(got) != 1 || got[0].Stage != "syntax" || got[0].Kind != "ExpectedToken" ||
		got[0].Line != 2 || got[0].Column != 6 {
		t.Errorf("diagnostics = %+v", got)
	}
}

func TestCheck_Strict(t *testing.T) {
	t.Parallel()

	ctx, out := testContext(t, writeFiles(t, "bad.ftl", "hello\nworld\n")...)

	err := (&Check{Output: "text", Strict: true}).Run(ctx)
	if !errors.Is(err, ErrDiagnostics) {
		t.Fatalf("Run() error = %v, want ErrDiagnostics", err)
	}

	for _, want := range []string{`expected token "="`, "  1 | hello", "1 problem\n"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}

	if strings.Contains(out.String(), "world") {
		t.Errorf("strict mode reported more than the first error:\n%s", out)
	}
}

func TestCheck_NoValidate(t *testing.T) {
	t.Parallel()

	ctx, out := testContext(t, writeFiles(t, "app.ftl", checkResource)...)

	if err := (&Check{Output: "text", NoValidate: true}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v\n%s", err, out)
	}
}
