package token_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdpos/pkg/token"
)

func text(raw string) *token.Text {
	return &token.Text{Base: token.Base{RawText: raw}, Text: raw}
}

func sampleTree() []token.Token {
	table := &token.Table{
		Base: token.Base{RawText: "| a |\n|---|\n| 1 |"},
		Header: []*token.TableCell{
			{Base: token.Base{RawText: "a"}, Inline: token.Inline{Tokens: []token.Token{text("a")}}, Header: true},
		},
		Rows: [][]*token.TableCell{{
			{Base: token.Base{RawText: "1"}, Inline: token.Inline{Tokens: []token.Token{text("1")}}},
		}},
	}
	list := &token.List{
		Base: token.Base{RawText: "- x"},
		Items: []*token.ListItem{{
			Base:   token.Base{RawText: "- x"},
			Inline: token.Inline{Tokens: []token.Token{text("x")}},
		}},
	}
	ext := &token.Extension{
		Base: token.Base{RawText: ":t:\ny\n:"},
		Name: "taggedBlock",
		Fields: []token.Field{
			{Name: "content", Tokens: []token.Token{text("y")}},
		},
	}
	return []token.Token{table, list, ext}
}

func TestWalk_Order(t *testing.T) {
	t.Parallel()

	var got []string
	err := token.Walk(sampleTree(), func(tok token.Token, depth int) error {
		got = append(got, tok.Type()+":"+tok.Raw())
		return nil
	})
	require.NoError(t, err)

	want := []string{
		"table:| a |\n|---|\n| 1 |",
		"table_cell:a", "text:a",
		"table_cell:1", "text:1",
		"list:- x",
		"list_item:- x", "text:x",
		"taggedBlock::t:\ny\n:",
		"text:y",
	}
	assert.Equal(t, want, got)
}

func TestWalk_Depth(t *testing.T) {
	t.Parallel()

	depths := map[string]int{}
	_ = token.Walk(sampleTree(), func(tok token.Token, depth int) error {
		depths[tok.Type()+":"+tok.Raw()] = depth
		return nil
	})

	assert.Equal(t, 0, depths["list:- x"])
	assert.Equal(t, 1, depths["list_item:- x"])
	assert.Equal(t, 2, depths["text:x"])
	assert.Equal(t, 1, depths["text:y"])
}

func TestWalk_StopsOnError(t *testing.T) {
	t.Parallel()

	stop := errors.New("stop")
	visited := 0
	err := token.Walk(sampleTree(), func(token.Token, int) error {
		visited++
		if visited == 2 {
			return stop
		}
		return nil
	})

	require.ErrorIs(t, err, stop)
	assert.Equal(t, 2, visited)
}

func TestCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10, token.Count(sampleTree()))
	assert.Equal(t, 0, token.Count(nil))
}

func TestFindAll(t *testing.T) {
	t.Parallel()

	found := token.FindAll(sampleTree(), token.TypeText)
	require.Len(t, found, 4)
	assert.Equal(t, "a", found[0].Raw())
	assert.Equal(t, "y", found[3].Raw())
}

func TestTable_Cells(t *testing.T) {
	t.Parallel()

	tbl := sampleTree()[0].(*token.Table)
	cells := tbl.Cells()
	require.Len(t, cells, 2)
	assert.Equal(t, "a", cells[0].Raw())
	assert.Equal(t, "1", cells[1].Raw())
}
