package main

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// writeOutput renders v as indented JSON or as YAML. YAML keys follow the
// JSON field names.
func writeOutput(w io.Writer, format string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "output: encode json")
	}

	switch format {
	case "", "json":
		_, err := w.Write(buf.Bytes())
		return eris.Wrap(err, "output: write")
	case "yaml":
		// JSON is valid YAML; decoding into a node keeps key order.
		var node yaml.Node
		if err := yaml.Unmarshal(buf.Bytes(), &node); err != nil {
			return eris.Wrap(err, "output: decode json as yaml")
		}
		blockStyle(&node)
		ye := yaml.NewEncoder(w)
		ye.SetIndent(2)
		if err := ye.Encode(&node); err != nil {
			return eris.Wrap(err, "output: encode yaml")
		}
		return eris.Wrap(ye.Close(), "output: flush yaml")
	default:
		return eris.Errorf("output: unknown format %q", format)
	}
}

// blockStyle drops the flow and quoting styles inherited from JSON.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
