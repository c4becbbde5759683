// Package xmlgen renders token streams and parse trees in the XML layout the
// course's comparison tools expect.
package xmlgen

import (
	"strings"

	"github.com/kartiknair/jackc/pkg/ast"
	"github.com/kartiknair/jackc/pkg/token"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func writeLeaf(b *strings.Builder, indent int, kind, text string) {
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString("<" + kind + "> ")
	b.WriteString(escaper.Replace(text))
	b.WriteString(" </" + kind + ">\n")
}

// Tokens lists every token except EOF inside a single <tokens> element.
func Tokens(tokens []token.Token) string {
	var b strings.Builder
	b.WriteString("<tokens>\n")
	for _, t := range tokens {
		if t.Kind == token.EOF {
			continue
		}
		writeLeaf(&b, 0, t.Kind.Category(), t.Lexeme)
	}
	b.WriteString("</tokens>\n")
	return b.String()
}

func writeNode(b *strings.Builder, indent int, n *ast.Node) {
	if n.IsLeaf() {
		writeLeaf(b, indent, n.Kind, n.Text)
		return
	}

	pad := strings.Repeat("  ", indent)
	b.WriteString(pad + "<" + n.Kind + ">\n")
	for _, child := range n.Children {
		writeNode(b, indent+1, child)
	}
	b.WriteString(pad + "</" + n.Kind + ">\n")
}

// Tree renders the labeled parse tree of class. Empty rules such as an empty
// parameterList still get an opening and a closing line.
func Tree(class *ast.Class) string {
	var b strings.Builder
	writeNode(&b, 0, ast.Tree(class))
	return b.String()
}
