/*
Package ot exposes the binary structure of the OpenType layout tables —
GDEF, GSUB, GPOS — without parsing a font file itself. It is a low-level
package: a caller hands it the raw bytes of a table (however it got
them — a parsed sfnt.Font, a memory-mapped file, a test fixture) and ot
gives back bounds-checked navigation: Coverage and ClassDef lookups,
ScriptList/FeatureList/LookupList traversal, and the Lookup/subtable
byte views that lookup-type handlers parse in package otlayout.

Package ot will not interpret a lookup's subtable bytes; the specific
format of a GSUB or GPOS subtable is format- and lookup-type-dependent,
and that interpretation lives with the code that applies it.

A font with no GDEF table, or a Coverage/ClassDef table this package
cannot make sense of, is not a fatal condition: every navigation method
degrades to "nothing found" rather than panicking, and a FontFormatError
is logged for diagnostics.

Governed by a 3-Clause BSD license. License file may be found in the
root folder of this module.
*/
package ot
