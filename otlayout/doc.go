/*
Package otlayout applies GSUB and GPOS lookups to an album.Album: it
dispatches a lookup's subtables by lookup type, matches coverage and
contextual rules while honoring lookup flags (via Locator), and folds
substitutions and positioning adjustments back into the album.

Package otlayout knows nothing about feature selection or script/
language resolution; it is handed a concrete lookup index to apply and
applies it. Picking which lookups apply, in which order, is the job of
the Pattern built by package otshape.

Governed by a 3-Clause BSD license. License file may be found in the
root folder of this module.
*/
package otlayout
