// Package severity classifies scores into named, colored ranges.
//
// A Table is an ordered list of ranges with inclusive floor and ceiling
// bounds. Classify returns the first range containing the score, or
// Undefined when none does (including NaN scores).
package severity
