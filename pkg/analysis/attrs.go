package analysis

import (
	"strconv"

	"github.com/yaklabco/gomdpos/pkg/token"
)

// Attrs returns the variant-specific fields of tok as strings, for output
// formats and filters. Tokens without such fields return nil.
func Attrs(tok token.Token) map[string]string {
	attrs := map[string]string{}
	set := func(k, v string) {
		if v != "" {
			attrs[k] = v
		}
	}
	flag := func(k string, v bool) {
		if v {
			attrs[k] = "true"
		}
	}

	switch t := tok.(type) {
	case *token.Heading:
		set("depth", strconv.Itoa(t.Depth))
	case *token.Code:
		set("lang", t.Lang)
		flag("fenced", t.Fenced)
	case *token.List:
		flag("ordered", t.Ordered)
		flag("loose", t.Loose)
		if t.Ordered {
			set("start", strconv.Itoa(t.Start))
		}
	case *token.ListItem:
		flag("task", t.Task)
		flag("checked", t.Checked)
	case *token.TableCell:
		flag("header", t.Header)
		set("align", string(t.Align))
	case *token.Link:
		set("href", t.Href)
		set("title", t.Title)
	case *token.Image:
		set("href", t.Href)
		set("title", t.Title)
	case *token.Checkbox:
		flag("checked", t.Checked)
	case *token.HTML:
		flag("block", t.Block)
	case *token.Extension:
		for k, v := range t.Attrs {
			set(k, v)
		}
	}

	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
