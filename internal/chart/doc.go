// Package chart renders salary series as line charts with gonum/plot.
//
// Both renderers return an in-memory Image and never touch the filesystem.
// The y axis always starts at zero.
package chart
