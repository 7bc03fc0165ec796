// Package relationships canonicalizes, deduplicates and filters the
// relationships of a model.
//
// Filtering runs in a fixed order: endpoint normalization, deduplication by
// unordered endpoint pair (first occurrence wins), the check against the
// tables present in the model, the optional keep-list, then the optional
// date-table drop. If a non-empty input filters down to
// nothing the result is an *pbimodel.EmptyResultError listing every pair
// that was detected, and nothing should be written.
package relationships
