package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolve(t *testing.T) {
	src := `
log_level: debug
where: Label == "app.py"
no-history: true
history-keep: 50
log:
  format: json
`

	r, err := resolve(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	cfg, ok := r.(config)
	if !ok {
		t.Fatalf("resolve() = %T, want config", r)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-format", "json"},
		{"where", `Label == "app.py"`},
		{"no-history", true},
		{"history-keep", "50"},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := cfg.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: tt.flag}})
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}
}

func TestResolve_Invalid(t *testing.T) {
	for _, src := range []string{"", "key: [unclosed", "- just\n- a list\n"} {
		r, err := resolve(strings.NewReader(src))
		if err != nil {
			t.Fatalf("resolve(%q) error = %v", src, err)
		}

		if cfg, _ := r.(config); len(cfg) != 0 {
			t.Errorf("resolve(%q) = %v, want empty", src, cfg)
		}
	}
}

func TestResolve_Kong(t *testing.T) {
	r, err := resolve(strings.NewReader("history_keep: 7\neditor: hx\n"))
	if err != nil {
		t.Fatal(err)
	}

	var cli struct {
		Editor      string
		HistoryKeep int `default:"500"`
		Where       string
	}

	parser, err := kong.New(&cli, kong.Resolvers(r))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--editor=code"}); err != nil {
		t.Fatal(err)
	}

	if cli.Editor != "code" {
		t.Errorf("Editor = %q, want flag value %q", cli.Editor, "code")
	}

	if cli.HistoryKeep != 7 {
		t.Errorf("HistoryKeep = %d, want 7", cli.HistoryKeep)
	}

	if cli.Where != "" {
		t.Errorf("Where = %q, want empty", cli.Where)
	}
}
