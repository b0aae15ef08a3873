package report

import (
	"fmt"
	"time"

	"salarypulse/internal/chart"
	"salarypulse/internal/dataset"
)

// Page is a fully built report. It holds no reference to the source table.
type Page struct {
	Title       string        `json:"title"`
	Intro       string        `json:"intro,omitempty"`
	Sections    []PageSection `json:"sections"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// PageSection is a built section.
type PageSection struct {
	Header   string    `json:"header"`
	Elements []Element `json:"elements"`
}

// Element is one built block. Markdown elements carry Text; chart
// elements carry Image and, for multi charts, the plotted Table.
type Element struct {
	Kind    BlockKind             `json:"kind"`
	Text    string                `json:"text,omitempty"`
	Caption *chart.Caption        `json:"caption,omitempty"`
	Image   *chart.Image          `json:"image,omitempty"`
	Table   *dataset.DerivedTable `json:"-"`
}

// Chart returns the image at section/block, or nil when that element is
// not a chart or does not exist.
func (p *Page) Chart(section, block int) *chart.Image {
	if section < 0 || section >= len(p.Sections) {
		return nil
	}
	elems := p.Sections[section].Elements
	if block < 0 || block >= len(elems) {
		return nil
	}
	return elems[block].Image
}

// Tables returns the plotted table of every multi chart, keyed
// "s<section>_b<block>".
func (p *Page) Tables() map[string]*dataset.DerivedTable {
	tables := make(map[string]*dataset.DerivedTable)
	for i, s := range p.Sections {
		for j, e := range s.Elements {
			if e.Table != nil {
				tables[TableKey(i, j)] = e.Table
			}
		}
	}
	return tables
}

// TableKey names the table of the chart at section/block.
func TableKey(section, block int) string {
	return fmt.Sprintf("s%d_b%d", section+1, block+1)
}
