// Package exporter writes report data and pages to files.
//
// CSVWriter writes derived tables as UTF-8 CSV with a BOM so spreadsheet
// tools detect the encoding. WorkbookExporter puts several tables into one
// XLSX workbook. PDFExporter prints a rendered page through headless
// Chrome.
//
// Relative paths resolve into the configured reports directory.
package exporter
