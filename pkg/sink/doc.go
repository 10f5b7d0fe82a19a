// Package sink serializes positioned primitives into output artifacts.
//
// Two formats are supported:
//
//   - SVG, the primary output, built as an element tree via beevik/etree
//     so escaping and indentation are handled uniformly.
//   - JSON, a lossless dump of the primitive sequence for tooling,
//     caching and round-trip tests.
//
// Sinks are pure projections of their inputs: rendering the same
// primitives twice produces byte-identical artifacts.
package sink
