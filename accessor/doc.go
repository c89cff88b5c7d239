// Package accessor implements lazy walkers over panda file entity records:
// class, field, method, code, proto, debug-info and method-handle. Each
// accessor owns a cursor into the backing *panda.File and advances through
// optional tagged sections only on first demand, remembering byte offsets
// rather than parsed values (spec.md §9 "Tagged optional sections").
package accessor
