package chart

import (
	"fmt"

	apierrors "salarypulse/internal/errors"
)

// Caption is the title and axis labels of a chart. A nil *Caption leaves
// the chart uncaptioned.
type Caption struct {
	Title  string `yaml:"title" json:"title"`
	XLabel string `yaml:"x_label" json:"x_label"`
	YLabel string `yaml:"y_label" json:"y_label"`
}

// NewCaption returns a caption with all three texts set.
func NewCaption(title, xLabel, yLabel string) *Caption {
	return &Caption{Title: title, XLabel: xLabel, YLabel: yLabel}
}

// ParseCaption converts an untyped list, as decoded from YAML or JSON, into
// a Caption. The list must hold exactly three strings. A nil list means no
// caption.
func ParseCaption(values []any) (*Caption, error) {
	if values == nil {
		return nil, nil
	}
	if len(values) != 3 {
		return nil, apierrors.NewInvalidCaptionError(
			fmt.Sprintf("caption needs 3 elements (title, x label, y label), got %d", len(values)))
	}
	texts := make([]string, 3)
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, apierrors.NewInvalidCaptionError(
				fmt.Sprintf("caption element %d is %T, want string", i, v))
		}
		texts[i] = s
	}
	return NewCaption(texts[0], texts[1], texts[2]), nil
}
