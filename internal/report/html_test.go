package report

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salarypulse/internal/shared/testutil"
)

// html/template escapes the "+" of the MIME type inside attributes.
var svgImage = regexp.MustCompile(`<img[^>]+src="data:image/svg(\+|&#43;)xml;base64,`)

func TestWriteHTML(t *testing.T) {
	driver, _, _ := newTestDriver(t, testutil.DefaultSalaryFixture().WriteCSV(t))
	page, err := driver.Build(context.Background(), DefaultDefinition())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, page))
	html := buf.String()

	assert.Contains(t, html, "<title>Salary dynamics from 2000 to 2023</title>")
	assert.Contains(t, html, "<h2>Nominal salary</h2>")
	assert.Contains(t, html, "<strong>rising</strong>")
	assert.Contains(t, html, "<li>Mining and finance stand out favourably</li>")
	assert.Len(t, svgImage.FindAllString(html, -1), 6)
	assert.NotContains(t, html, "ZgotmplZ")

	// Sections appear in definition order.
	order := []string{"Nominal salary", "Salary adjusted for inflation", "Salary in US dollars", "Summary"}
	last := -1
	for _, header := range order {
		idx := strings.Index(html, "<h2>"+header+"</h2>")
		require.Greater(t, idx, last, header)
		last = idx
	}
}

func TestWriteHTMLEscapesHeaders(t *testing.T) {
	page := &Page{
		Title:    "A <b> title",
		Sections: []PageSection{{Header: "<script>", Elements: []Element{{Kind: BlockMarkdown, Text: "plain"}}}},
	}

	out, err := RenderHTML(page)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>")
	assert.Contains(t, string(out), "&lt;script&gt;")
	assert.Contains(t, string(out), "<p>plain</p>")
}
