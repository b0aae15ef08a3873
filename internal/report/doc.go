// Package report builds the salary report page.
//
// A Definition lists sections of narrative and chart blocks. A Driver loads
// the dataset once per build, reshapes it for each chart, renders the
// charts and returns a Page. WriteHTML turns a Page into a standalone
// document.
package report
