package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdpos/internal/logging"
	goldmarkparser "github.com/yaklabco/gomdpos/pkg/parser/goldmark"
	"github.com/yaklabco/gomdpos/pkg/token"
)

const formatJSON = "json"

// typeInfo describes a token type in `gomdpos types` output.
type typeInfo struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Attrs       []string `json:"attrs,omitempty"`
}

// tokenTypes lists every token type the lexer emits, with the attributes
// filters and reports expose for it.
//
//nolint:gochecknoglobals // Read-only lookup table.
var tokenTypes = []typeInfo{
	{token.TypeSpace, "blank lines between blocks", nil},
	{token.TypeHeading, "ATX or setext heading", []string{"depth"}},
	{token.TypeParagraph, "paragraph", nil},
	{token.TypeCode, "fenced or indented code block", []string{"lang", "fenced"}},
	{token.TypeBlockquote, "block quote", nil},
	{token.TypeList, "ordered or bullet list", []string{"ordered", "loose", "start"}},
	{token.TypeListItem, "list item", []string{"task", "checked"}},
	{token.TypeHr, "thematic break", nil},
	{token.TypeHTML, "raw HTML block or inline tag", []string{"block"}},
	{token.TypeTable, "GFM table", nil},
	{token.TypeTableCell, "GFM table cell", []string{"header", "align"}},
	{token.TypeText, "plain text run", nil},
	{token.TypeEscape, "backslash escape", nil},
	{token.TypeStrong, "strong emphasis", nil},
	{token.TypeEm, "emphasis", nil},
	{token.TypeDel, "GFM strikethrough", nil},
	{token.TypeCodeSpan, "inline code", nil},
	{token.TypeBr, "hard line break", nil},
	{token.TypeLink, "inline link or autolink", []string{"href", "title"}},
	{token.TypeImage, "image", []string{"href", "title"}},
	{token.TypeCheckbox, "GFM task list checkbox", []string{"checked"}},
	{goldmarkparser.TaggedBlockName, `":tag:" block, with --tagged-blocks`, []string{"tag"}},
}

func newTypesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List token types",
		Long: `List the token types gomdpos reports, with the attributes each one carries.
Attributes are available to --filter expressions as attrs["name"].`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format == formatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(tokenTypes); err != nil {
					return fmt.Errorf("encoding types: %w", err)
				}
				return nil
			}

			logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{})
			logger.SetLevel(log.InfoLevel)
			for _, ti := range tokenTypes {
				attrs := "-"
				if len(ti.Attrs) > 0 {
					attrs = strings.Join(ti.Attrs, ",")
				}
				logger.Info(ti.Type,
					logging.FieldAttrs, attrs,
					logging.FieldDescription, ti.Description,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}
