// Package extractors turns uploaded file bytes into plain text.
//
// Each sub-package implements driven.TextExtractor for one family of
// file extensions. The Registry picks an extractor by the extension of
// the uploaded filename; RegisterDefaults wires every built-in one.
package extractors
