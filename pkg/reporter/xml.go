package reporter

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/yaklabco/gomdpos/pkg/analysis"
	"github.com/yaklabco/gomdpos/pkg/token"
)

const xmlIndent = 2

// XMLRenderer writes the report as an XML document:
//
//	<report version="1.0.0">
//	  <summary files="1" .../>
//	  <file path="a.md">
//	    <token type="heading" depth="0">
//	      <location><start offset="0" line="0" column="0"/><end .../></location>
//	      <raw># A</raw>
//	      <token type="text" depth="1">...</token>
//	    </token>
//	  </file>
//	</report>
type XMLRenderer struct {
	opts Options
}

// NewXMLRenderer creates a new XML renderer.
func NewXMLRenderer(opts Options) *XMLRenderer {
	return &XMLRenderer{opts: opts}
}

// Render implements Renderer.
func (r *XMLRenderer) Render(_ context.Context, report *analysis.Report) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("report")
	root.CreateAttr("version", report.Version)
	root.CreateAttr("timestamp", report.Timestamp.Format(time.RFC3339))

	summary := root.CreateElement("summary")
	summary.CreateAttr("files", strconv.Itoa(report.Totals.Files))
	summary.CreateAttr("failed", strconv.Itoa(report.Totals.FilesFailed))
	summary.CreateAttr("tokens", strconv.Itoa(report.Totals.Tokens))
	summary.CreateAttr("reported", strconv.Itoa(report.Totals.Reported))
	summary.CreateAttr("violations", strconv.Itoa(report.Totals.Violations))

	for _, file := range report.Files {
		el := root.CreateElement("file")
		el.CreateAttr("path", file.Path)
		if file.Error != "" {
			el.CreateElement("error").SetText(file.Error)
			continue
		}
		for _, n := range file.Tokens {
			addNode(el, n)
		}
		for _, v := range file.Violations {
			el.CreateElement("violation").SetText(v)
		}
	}

	if len(report.ByType) > 0 {
		types := root.CreateElement("types")
		for _, ta := range report.ByType {
			el := types.CreateElement("type")
			el.CreateAttr("name", ta.Type)
			el.CreateAttr("count", strconv.Itoa(ta.Count))
			el.CreateAttr("files", strconv.Itoa(len(ta.Files)))
		}
	}

	if !r.opts.Compact {
		doc.Indent(xmlIndent)
	}
	if _, err := doc.WriteTo(r.opts.Writer); err != nil {
		return fmt.Errorf("write XML: %w", err)
	}
	return nil
}

func addNode(parent *etree.Element, n analysis.Node) {
	el := parent.CreateElement("token")
	el.CreateAttr("type", n.Type)
	el.CreateAttr("depth", strconv.Itoa(n.Depth))
	for _, k := range slices.Sorted(maps.Keys(n.Attrs)) {
		attr := el.CreateElement("attr")
		attr.CreateAttr("name", k)
		attr.CreateAttr("value", n.Attrs[k])
	}
	if n.Location != nil {
		addLocation(el, *n.Location)
	}
	el.CreateElement("raw").SetText(n.Raw)
	for _, c := range n.Children {
		addNode(el, c)
	}
}

func addLocation(parent *etree.Element, loc token.Location) {
	el := parent.CreateElement("location")
	addPoint(el, "start", loc.Start)
	addPoint(el, "end", loc.End)
	for _, line := range loc.Lines {
		l := el.CreateElement("line")
		addPoint(l, "start", line.Start)
		addPoint(l, "end", line.End)
	}
}

func addPoint(parent *etree.Element, tag string, p token.Point) {
	el := parent.CreateElement(tag)
	el.CreateAttr("offset", strconv.Itoa(p.Offset))
	el.CreateAttr("line", strconv.Itoa(p.Line))
	el.CreateAttr("column", strconv.Itoa(p.Column))
}
