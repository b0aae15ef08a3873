package report

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"salarypulse/internal/chart"
	"salarypulse/internal/dataset"
	apierrors "salarypulse/internal/errors"
)

// BlockKind selects what a block emits.
type BlockKind string

const (
	BlockMarkdown BlockKind = "markdown"
	BlockSingle   BlockKind = "single"
	BlockMulti    BlockKind = "multi"
)

// Definition is the ordered content of a report.
type Definition struct {
	Title    string    `yaml:"title" validate:"required"`
	Intro    string    `yaml:"intro,omitempty"`
	Sections []Section `yaml:"sections" validate:"required,min=1,dive"`
}

// Section is a header followed by blocks.
type Section struct {
	Header string  `yaml:"header" validate:"required"`
	Blocks []Block `yaml:"blocks" validate:"dive"`
}

// Block is one narrative paragraph or chart.
//
// Single charts plot Y against X from the loaded table; X defaults to year.
// Multi charts plot a reshaped table: Pattern nil is the whole table and an
// empty Pattern the nominal columns. Limit keeps the first Limit columns.
// Caption holds three strings as written in YAML.
type Block struct {
	Kind        BlockKind `yaml:"kind" validate:"required,oneof=markdown single multi"`
	Text        string    `yaml:"text,omitempty" validate:"required_if=Kind markdown"`
	X           string    `yaml:"x,omitempty"`
	Y           string    `yaml:"y,omitempty" validate:"required_if=Kind single"`
	Pattern     *string   `yaml:"pattern,omitempty"`
	KeepOverall bool      `yaml:"keep_overall,omitempty"`
	Limit       int       `yaml:"limit,omitempty" validate:"gte=0"`
	Palette     string    `yaml:"palette,omitempty"`
	Caption     []any     `yaml:"caption,omitempty"`
}

// Selection returns the reshape a multi block asks for.
func (b Block) Selection(nominal []string) dataset.Selection {
	return dataset.Selection{Pattern: b.Pattern, KeepOverall: b.KeepOverall, Nominal: nominal}
}

// XColumn returns the x series name, year when unset.
func (b Block) XColumn() string {
	if b.X == "" {
		return dataset.YearColumn
	}
	return b.X
}

// Charts counts chart blocks.
func (d *Definition) Charts() int {
	n := 0
	for _, s := range d.Sections {
		for _, b := range s.Blocks {
			if b.Kind != BlockMarkdown {
				n++
			}
		}
	}
	return n
}

var validate = validator.New()

// Validate checks structure only. Column names and palettes are checked
// against the data at build time.
func (d *Definition) Validate() error {
	if err := validate.Struct(d); err != nil {
		return apierrors.NewConfigError("invalid report definition", err)
	}
	return nil
}

// LoadDefinition reads a YAML report definition.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apierrors.NewConfigError(fmt.Sprintf("failed to read report definition %s", path), err)
	}
	return ParseDefinition(data)
}

// ParseDefinition decodes and validates a YAML report definition.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.UnmarshalStrict(data, &def); err != nil {
		return nil, apierrors.NewConfigError("failed to parse report definition", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	for i, s := range def.Sections {
		for j, b := range s.Blocks {
			if _, err := chart.ParseCaption(b.Caption); err != nil {
				return nil, &BuildError{Section: i, Header: s.Header, Block: j, Err: err}
			}
		}
	}
	return &def, nil
}

// Encode writes the definition as YAML, the format LoadDefinition reads.
func (d *Definition) Encode() ([]byte, error) {
	return yaml.Marshal(d)
}

func caption(title, x, y string) []any {
	return []any{title, x, y}
}

// DefaultDefinition is the salary dynamics report for 2000 to 2023.
func DefaultDefinition() *Definition {
	nominal := dataset.Pattern("")
	inflation := dataset.Pattern(dataset.SuffixInflationAdjusted)
	dollars := dataset.Pattern(dataset.SuffixDollars)

	return &Definition{
		Title: "Salary dynamics from 2000 to 2023",
		Intro: "The accompanying notebook carries more written analysis.",
		Sections: []Section{
			{
				Header: "Nominal salary",
				Blocks: []Block{
					{Kind: BlockMarkdown, Text: "Nominal salaries across the economy are clearly **rising**."},
					{Kind: BlockSingle, Y: dataset.OverallColumn,
						Caption: caption("Across the economy", "Year", "Nominal salary")},
					{Kind: BlockMulti, Pattern: nominal, KeepOverall: false,
						Caption: caption("Nominal salaries by sector", "Year", "Nominal salary")},
					{Kind: BlockMarkdown, Text: "* Nominal salaries in the selected sectors are clearly rising too\n" +
						"* Mining and finance stand out favourably"},
					{Kind: BlockMarkdown, Text: "**Section takeaway**: salaries are rising and everything looks great."},
				},
			},
			{
				Header: "Salary adjusted for inflation",
				Blocks: []Block{
					{Kind: BlockMulti, Pattern: inflation, KeepOverall: true, Palette: "crest",
						Caption: caption("Inflation-adjusted salary (with overall)", "Year", "Salary")},
					{Kind: BlockMarkdown, Text: "* The economy-wide average growth is far less impressive\n" +
						"* Growth over the whole period is smaller than the nominal chart suggests\n" +
						"* Some years show a decline"},
					{Kind: BlockMarkdown, Text: "Take the lowest salaries as of 2023. They show **modest growth**."},
					{Kind: BlockMulti, Pattern: inflation, KeepOverall: false, Limit: 5, Palette: "viridis",
						Caption: caption("Inflation-adjusted salary", "Year", "Salary")},
					{Kind: BlockMarkdown, Text: "**Section takeaway** after inflation:\n\n" +
						"* catering and hospitality salaries barely grow in real terms after 2008\n" +
						"* education shows the most modest growth\n" +
						"* inflation-adjusted salaries grow only slightly\n" +
						"* finance salaries outpace the rest after inflation"},
				},
			},
			{
				Header: "Salary in US dollars",
				Blocks: []Block{
					{Kind: BlockSingle, Y: dataset.OverallColumn + dataset.SuffixDollars,
						Caption: caption("Across the economy", "Year", "Salary in USD")},
					{Kind: BlockMarkdown, Text: "**Economy-wide salary in USD**:\n\n" +
						"* grows clearly until 2008, visually close to exponential\n" +
						"* growth from 2008 to 2023 is marginal"},
					{Kind: BlockMulti, Pattern: dollars, KeepOverall: true,
						Caption: caption("Salary in USD", "Year", "Salary")},
					{Kind: BlockMarkdown, Text: "Every sector **follows the dynamics** of the economy-wide " +
						"average, since the exchange rate is the same for all."},
				},
			},
			{
				Header: "Summary",
				Blocks: []Block{
					{Kind: BlockMarkdown, Text: "* Nominal salaries are rising\n" +
						"* Real salaries show far less inspiring growth\n" +
						"* Salaries in dollars reveal the impact of major events more clearly\n" +
						"* Earnings grew substantially from 2000 to 2008\n" +
						"* Growth from 2008 to 2023 is modest"},
				},
			},
		},
	}
}
