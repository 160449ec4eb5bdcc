// Package manifest reads HCL icon manifests and imports the icons they list.
//
//	icon "arrow" {
//	  source = "icons/arrow.svg"
//	}
//
//	icon "logo" {
//	  source = "https://example.com/logo.svg"
//	}
//
// Relative local sources resolve against the manifest's directory, which is
// also available to expressions as the absolute path manifest_dir.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/ankek/terraform-provider-iconset/internal/validation"
)

// Entry is one icon block.
type Entry struct {
	Name   string
	Source string
	Range  hcl.Range
}

var manifestSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "icon", LabelNames: []string{"name"}},
	},
}

var iconSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "source", Required: true},
	},
}

// ParseFile reads and parses the manifest at path.
func ParseFile(path string) ([]Entry, error) {
	if err := validation.ValidateInputPath(path, false); err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(src, path)
}

// Parse parses manifest source. filename is used for diagnostics and to
// resolve relative sources.
func Parse(src []byte, filename string) ([]Entry, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("HCL parse errors: %s", diags.Error())
	}

	content, diags := file.Body.Content(manifestSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse body: %s", diags.Error())
	}

	dir, err := filepath.Abs(filepath.Dir(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest directory: %w", err)
	}
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"manifest_dir": cty.StringVal(dir),
		},
	}

	var entries []Entry
	seen := make(map[string]hcl.Range)
	for _, block := range content.Blocks {
		name := strings.TrimSpace(block.Labels[0])
		if name == "" {
			return nil, fmt.Errorf("%s: icon name cannot be empty", block.DefRange)
		}
		if first, ok := seen[name]; ok {
			return nil, fmt.Errorf("%s: duplicate icon %q (first declared at %s)", block.DefRange, name, first)
		}
		seen[name] = block.DefRange

		ref, err := blockSource(block, evalCtx)
		if err != nil {
			return nil, err
		}
		if !validation.IsRemoteRef(ref) && !filepath.IsAbs(ref) {
			ref = filepath.Join(dir, ref)
		}

		entries = append(entries, Entry{Name: name, Source: ref, Range: block.DefRange})
	}
	return entries, nil
}

func blockSource(block *hcl.Block, evalCtx *hcl.EvalContext) (string, error) {
	body, diags := block.Body.Content(iconSchema)
	if diags.HasErrors() {
		return "", fmt.Errorf("icon %q: %s", block.Labels[0], diags.Error())
	}

	attr := body.Attributes["source"]
	val, diags := attr.Expr.Value(evalCtx)
	if diags.HasErrors() {
		return "", fmt.Errorf("icon %q: %s", block.Labels[0], diags.Error())
	}
	if val.IsNull() || !val.IsKnown() || val.Type() != cty.String {
		return "", fmt.Errorf("%s: icon %q: source must be a string", attr.Range, block.Labels[0])
	}

	ref := strings.TrimSpace(val.AsString())
	if ref == "" {
		return "", fmt.Errorf("%s: icon %q: source cannot be empty", attr.Range, block.Labels[0])
	}
	return ref, nil
}
