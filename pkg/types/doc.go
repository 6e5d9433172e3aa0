// Package types defines the entity types, state constants, standard errors,
// and configuration for the Waymark project store. The completion tree is
// Project → CompletionPath → Milestone → Task → Item; completion is monotonic
// and rolls up bottom-to-top.
package types
