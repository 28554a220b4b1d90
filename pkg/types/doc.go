// Package types defines the configuration, category definitions, the
// key-value persistence interface, and the standard errors shared by the
// tally packages.
package types
