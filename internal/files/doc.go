// Package files lists and resolves the artifacts the exporters leave in the
// reports directory: HTML pages, CSV tables, workbooks and PDFs.
//
//	d := files.NewDiscovery(paths.ReportsDir)
//	all, err := d.List()
//	pdfs := files.FilterByKind(all, files.KindPDF)
package files
