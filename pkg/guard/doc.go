// Package guard implements the Breakdown Guard (C5, §4.5): the triple-check
// load path that, for a single hot key under concurrent load, invokes the
// origin loader exactly once per lease and write-throughs the result.
package guard
