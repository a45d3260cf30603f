// Package scenario runs scripted record-store sessions without a console.
//
// A scenario is a YAML file naming a store configuration, a list of steps
// (set, find, update, delete) with their expected outcomes, and assertions
// over the final store. Run executes every step against a fresh store,
// records a trace, and reports each unexpected outcome or failed assertion.
//
// Traces are deterministic: sequence numbers come from a per-run counter and
// slots are listed in position order, so a trace can be pinned in a golden
// file with RunWithGolden.
package scenario
