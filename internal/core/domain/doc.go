// Package domain holds the types shared by every layer: owners, chunk
// records and their metadata, scored and ranked matches, retrieved
// context, answers, stats and settings, plus the sentinel errors the
// services return.
//
// It imports only the standard library.
package domain
