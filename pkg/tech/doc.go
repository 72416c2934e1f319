// Package tech holds the design-rule configuration of a process: per-layer
// widths and spacings, enclosure and extension rules between layer pairs,
// named contact stacks, and the routing layer order.
//
// A Config is loaded once from YAML or TOML, validated, and then shared
// read-only by every generator. Lookups of unlisted layer pairs return zero;
// lookups of unknown layer or stack names are configuration errors.
package tech
