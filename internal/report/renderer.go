// Package report prints one aligned, colored line per repository outcome.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/temirov/sammy/internal/utils"
)

const (
	nameColumnWidthConstant       = 35
	branchColumnWidthConstant     = 10
	columnTemplateConstant        = "%-*s"
	separatorConstant             = "| "
	lineTerminatorConstant        = "\n"
	successColorConstant          = "2"
	warningColorConstant          = "3"
	failureColorConstant          = "1"
	writerMissingMessageConstant  = "report writer not configured"
	unsupportedColorModeTemplate  = "unsupported color mode: %s"
	colorModeAutoStringConstant   = "auto"
	colorModeAlwaysStringConstant = "always"
	colorModeNeverStringConstant  = "never"
)

// ErrWriterNotConfigured indicates the renderer was constructed without an output writer.
var ErrWriterNotConfigured = errors.New(writerMissingMessageConstant)

// Category groups outcomes by how they are colored.
type Category int

const (
	// CategorySuccess marks outcomes that need no attention.
	CategorySuccess Category = iota
	// CategoryWarning marks outcomes the operator may want to act on.
	CategoryWarning
	// CategoryFailure marks outcomes where the expected state could not be reached.
	CategoryFailure
)

// ColorMode selects whether status messages carry terminal colors.
type ColorMode string

// Supported color modes.
const (
	ColorModeAuto   ColorMode = ColorMode(colorModeAutoStringConstant)
	ColorModeAlways ColorMode = ColorMode(colorModeAlwaysStringConstant)
	ColorModeNever  ColorMode = ColorMode(colorModeNeverStringConstant)
)

// ColorModeChoices lists the accepted color mode values.
func ColorModeChoices() []string {
	return []string{colorModeAutoStringConstant, colorModeAlwaysStringConstant, colorModeNeverStringConstant}
}

// Line is the rendering unit for one repository.
type Line struct {
	Name       string
	Branch     string
	ShowBranch bool
	Message    string
	Category   Category
}

// Renderer writes report lines to a single writer. It is meant to be driven from one goroutine.
type Renderer struct {
	writer        io.Writer
	categoryStyle map[Category]lipgloss.Style
}

// NewRenderer constructs a renderer writing to writer with the requested color mode.
func NewRenderer(writer io.Writer, colorMode ColorMode) (*Renderer, error) {
	if writer == nil {
		return nil, ErrWriterNotConfigured
	}

	flushingWriter := utils.NewFlushingWriter(writer)
	styleRenderer := lipgloss.NewRenderer(writer)
	switch strings.ToLower(strings.TrimSpace(string(colorMode))) {
	case "", colorModeAutoStringConstant:
	case colorModeAlwaysStringConstant:
		styleRenderer.SetColorProfile(termenv.ANSI)
	case colorModeNeverStringConstant:
		styleRenderer.SetColorProfile(termenv.Ascii)
	default:
		return nil, fmt.Errorf(unsupportedColorModeTemplate, colorMode)
	}

	return &Renderer{
		writer: flushingWriter,
		categoryStyle: map[Category]lipgloss.Style{
			CategorySuccess: styleRenderer.NewStyle().Foreground(lipgloss.Color(successColorConstant)),
			CategoryWarning: styleRenderer.NewStyle().Foreground(lipgloss.Color(warningColorConstant)),
			CategoryFailure: styleRenderer.NewStyle().Foreground(lipgloss.Color(failureColorConstant)),
		},
	}, nil
}

// Render writes a single line.
func (renderer *Renderer) Render(line Line) error {
	_, writeError := io.WriteString(renderer.writer, renderer.Format(line)+lineTerminatorConstant)
	return writeError
}

// Format returns the line text without the trailing newline.
func (renderer *Renderer) Format(line Line) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf(columnTemplateConstant, nameColumnWidthConstant, line.Name))
	if line.ShowBranch {
		builder.WriteString(fmt.Sprintf(columnTemplateConstant, branchColumnWidthConstant, line.Branch))
	}
	builder.WriteString(separatorConstant)
	builder.WriteString(renderer.styleFor(line.Category).Render(line.Message))
	return builder.String()
}

func (renderer *Renderer) styleFor(category Category) lipgloss.Style {
	if style, exists := renderer.categoryStyle[category]; exists {
		return style
	}
	return renderer.categoryStyle[CategoryFailure]
}
