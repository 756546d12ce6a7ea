// Package romaji converts Japanese text to a compact romaji string suitable
// for file names.
//
// Readings come from the kagome morphological analyzer backed by the IPA
// dictionary. Each token reading is romanized with the passport variant of
// Hepburn:
//
//	東京タワー -> トウキョウ タワー -> tokyo tawa -> tokyotawa
//
// Loading the dictionary is expensive, so the analyzer is built lazily on
// first use and shared by every caller of the same Transliterator. Shared
// returns the process-wide instance.
package romaji
