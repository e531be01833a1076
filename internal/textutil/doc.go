// Package textutil provides text helpers shared by the catalog, enrichment,
// and presentation layers.
//
// Title matching folds case and Unicode compatibility forms so that search
// input like "amelie" or "ＡＭＥＬＩＥ" finds catalog entries without changing
// the exact-match semantics of recommendation lookups. Truncation operates on
// runes so multi-byte plots are never split mid-character.
package textutil
