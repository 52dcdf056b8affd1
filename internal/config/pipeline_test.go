package config

import (
	"strings"
	"testing"
)

func TestParsePipeline(t *testing.T) {
	t.Parallel()

	t.Run("full hook entry", func(t *testing.T) {
		t.Parallel()
		p, err := parsePipeline(strings.NewReader(`
fail_fast: true
exclude: vendor/
hooks:
  - id: trailing-whitespace
    name: trim trailing whitespace
    entry: trim-ws
    args: ["--fix"]
    language: system
    types: [text]
    require_serial: true
    log_file: ws.log
`))
		if err != nil {
			t.Fatalf("parsePipeline() = %v", err)
		}
		if !p.FailFast {
			t.Error("FailFast should be true")
		}
		if p.Exclude != "vendor/" {
			t.Errorf("Exclude = %q", p.Exclude)
		}
		if len(p.Hooks) != 1 {
			t.Fatalf("len(Hooks) = %d", len(p.Hooks))
		}
		h := p.Hooks[0]
		if h.ID != "trailing-whitespace" || h.Entry != "trim-ws" || !h.RequireSerial {
			t.Errorf("hook parsed incorrectly: %+v", h)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()
		_, err := parsePipeline(strings.NewReader(`
hooks:
  - id: a
    entry: a
    no_such_field: true
`))
		if err == nil {
			t.Fatal("parsePipeline should reject unknown fields")
		}
	})

	t.Run("empty document rejected", func(t *testing.T) {
		t.Parallel()
		_, err := parsePipeline(strings.NewReader(""))
		if err == nil {
			t.Fatal("parsePipeline should reject an empty document")
		}
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Pipeline {
		return &Pipeline{Hooks: []HookConfig{{ID: "a", Entry: "true"}}}
	}

	tests := []struct {
		name    string
		mutate  func(*Pipeline)
		wantErr string
	}{
		{"valid", func(p *Pipeline) {}, ""},
		{"no hooks", func(p *Pipeline) { p.Hooks = nil }, "no hooks"},
		{"missing id", func(p *Pipeline) { p.Hooks[0].ID = "" }, "id is required"},
		{"missing entry", func(p *Pipeline) { p.Hooks[0].Entry = "" }, "entry is required"},
		{"duplicate id", func(p *Pipeline) { p.Hooks = append(p.Hooks, HookConfig{ID: "a", Entry: "x"}) }, "duplicate id"},
		{"unknown language", func(p *Pipeline) { p.Hooks[0].Language = "cobol" }, "unknown language"},
		{"bad include pattern", func(p *Pipeline) { p.Hooks[0].Files = "([" }, "invalid pattern"},
		{"bad exclude pattern", func(p *Pipeline) { p.Hooks[0].Exclude = "*" }, "invalid pattern"},
		{"bad top-level exclude", func(p *Pipeline) { p.Exclude = "(" }, "invalid pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := valid()
			tt.mutate(p)
			err := p.validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	f := false
	p := &Pipeline{Hooks: []HookConfig{
		{ID: "a", Entry: "true"},
		{ID: "b", Entry: "false", Language: "fail", PassFilenames: &f},
	}}

	hooks := p.Resolve()
	if len(hooks) != 2 {
		t.Fatalf("len(hooks) = %d", len(hooks))
	}
	if hooks[0].Language != "system" {
		t.Errorf("default language = %q, want system", hooks[0].Language)
	}
	if !hooks[0].PassFilenames {
		t.Error("pass_filenames should default to true")
	}
	if hooks[1].PassFilenames {
		t.Error("explicit pass_filenames: false should stick")
	}
	if hooks[1].Language != "fail" {
		t.Errorf("language = %q, want fail", hooks[1].Language)
	}
}
