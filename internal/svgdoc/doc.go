// Package svgdoc parses SVG markup into a small element tree that supports
// attribute manipulation and child traversal, and serialises the tree back to
// text deterministically. It is the structured form the ingestion pipeline
// mutates and the renderer re-validates.
package svgdoc
