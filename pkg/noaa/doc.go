// Package noaa implements queries to NOAA CO-OPS to retrieve tide predictions.
// A query is built from a DateSelection and QueryOptions (see BuildQuery) and
// asks for the high/low extremes at one station. A successful query returns
// the predictions exactly as NOAA sent them: timestamp, height as a numeric
// string, and whether it is a high or low tide.
package noaa
