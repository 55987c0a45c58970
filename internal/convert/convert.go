package convert

// Package convert turns a filled docx package into the caller's requested
// format through an optional office-suite subprocess, degrading to the
// native package when conversion is unavailable or fails. Conversion
// problems never surface as request failures; they only narrow the outcome.

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"docgen/internal/config"
	"docgen/internal/model"
)

// Converter converts a docx package to a target format.
type Converter interface {
	// Available reports whether the converter can be invoked at all.
	Available() bool
	// Convert runs the conversion; it must respect ctx and its own timeout.
	Convert(ctx context.Context, pkg []byte, target model.Format) ([]byte, error)
}

// LibreOffice shells out to a headless office-suite binary (soffice).
type LibreOffice struct {
	command string
	timeout time.Duration
}

// NewLibreOffice builds a converter from config. An empty command disables it.
func NewLibreOffice(cfg config.ConverterConfig) *LibreOffice {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LibreOffice{command: cfg.Command, timeout: timeout}
}

// Available checks that the configured binary resolves on PATH.
func (l *LibreOffice) Available() bool {
	if l.command == "" {
		return false
	}
	_, err := exec.LookPath(l.command)
	return err == nil
}

// Convert writes the package to a scratch directory, invokes the subprocess
// with a bounded timeout and reads the converted file back.
func (l *LibreOffice) Convert(ctx context.Context, pkg []byte, target model.Format) ([]byte, error) {
	dir, err := os.MkdirTemp("", "docgen-convert-")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "input.docx")
	if err := os.WriteFile(in, pkg, 0o600); err != nil {
		return nil, fmt.Errorf("write input: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, l.command, "--headless", "--convert-to", string(target), "--outdir", dir, in)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("converter subprocess: %w (output: %s)", err, out)
	}

	converted, err := os.ReadFile(filepath.Join(dir, "input."+target.Ext()))
	if err != nil {
		return nil, fmt.Errorf("read converted output: %w", err)
	}
	return converted, nil
}

// Chain is the conversion fallback chain. It always delivers exactly one
// artifact: the converted bytes when conversion succeeds, otherwise the
// filled package itself with the Fallback advisory set.
type Chain struct {
	converter Converter
}

// NewChain wires the chain; converter may be nil when conversion is disabled.
func NewChain(c Converter) *Chain {
	return &Chain{converter: c}
}

// Deliver resolves the filled package into a deliverable artifact. A caller
// that explicitly wants the native editable format skips conversion
// entirely.
func (c *Chain) Deliver(ctx context.Context, filled []byte, want model.Format, baseName string) *model.Artifact {
	if want != model.FormatPDF {
		return artifact(filled, model.FormatDocx, baseName, false)
	}

	if c.converter == nil || !c.converter.Available() {
		logJSON(map[string]any{
			"component": "convert",
			"event":     "conversion_unavailable",
			"target":    string(want),
		})
		return artifact(filled, model.FormatDocx, baseName, true)
	}

	converted, err := c.converter.Convert(ctx, filled, want)
	if err != nil {
		// Treated identically to unavailable; the render still succeeds.
		logJSON(map[string]any{
			"component":     "convert",
			"event":         "conversion_failed",
			"target":        string(want),
			"error_message": err.Error(),
		})
		return artifact(filled, model.FormatDocx, baseName, true)
	}
	return artifact(converted, model.FormatPDF, baseName, false)
}

func artifact(data []byte, f model.Format, baseName string, fallback bool) *model.Artifact {
	return &model.Artifact{
		Bytes:       data,
		ContentType: f.ContentType(),
		Filename:    baseName + "." + f.Ext(),
		Fallback:    fallback,
	}
}

func logJSON(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		data["level"] = "warn"
	}
	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal convert log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
