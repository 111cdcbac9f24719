// Package parallel provides the work-stealing pool used to split software
// rendering into horizontal bands.
package parallel
