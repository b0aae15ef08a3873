// Package dataset loads the salary CSV and derives the per-chart tables.
//
// A SalaryTable is the whole file keyed by year: an overall column, one
// column per sector, and the _inf_adj and _in_dollars variants of each.
// Reshape cuts a DerivedTable out of it by suffix (stripping the suffix
// from the labels), by the nominal column layout, or not at all.
//
// The Loader reads the file once and hands the same table to every caller;
// construct one per process and pass it to whoever needs the data.
package dataset
