package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"

	sprig "github.com/Masterminds/sprig/v3"
	"github.com/yuzolabs/pixelprobe/internal/probe"
)

// DefaultBlock is the built-in per-case block: name and status on one line,
// the observed body, then a fixed-width divider. The writer appends the
// trailing newline so blocks stay human-diffable.
const DefaultBlock = `[{{ .Case }}] status={{ .Status }}
{{ .Body }}
{{ repeat 60 "-" }}`

// Renderer writes one formatted block per Result. Compiled once; safe to
// reuse across the whole run.
type Renderer struct {
	w    io.Writer
	tmpl *template.Template
}

// NewRenderer compiles the override template when non-empty, otherwise the
// built-in block. Environment and filesystem helpers are stripped from the
// function map so a configured template cannot read outside the Result.
func NewRenderer(w io.Writer, override string) (*Renderer, error) {
	if w == nil {
		return nil, errors.New("report: nil writer")
	}
	source := strings.TrimSpace(override)
	name := "block"
	if source == "" {
		source = DefaultBlock
		name = "default-block"
	}

	funcs := sprig.TxtFuncMap()
	restricted := []string{
		"env",
		"expandenv",
		"readDir",
		"mustReadDir",
		"readFile",
		"mustReadFile",
		"glob",
	}
	for _, fn := range restricted {
		delete(funcs, fn)
	}

	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=zero").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("report: compile %q: %w", name, err)
	}
	return &Renderer{w: w, tmpl: tmpl}, nil
}

// Render executes the block template for one result and writes it followed by
// a newline.
func (r *Renderer) Render(res probe.Result) error {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, res); err != nil {
		return fmt.Errorf("report: execute block: %w", err)
	}
	buf.WriteByte('\n')
	if _, err := r.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("report: write block: %w", err)
	}
	return nil
}
