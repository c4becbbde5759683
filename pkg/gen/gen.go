package gen

import (
	"github.com/kartiknair/jackc/pkg/ast"
	vmgen "github.com/kartiknair/jackc/pkg/gen/vm"
	xmlgen "github.com/kartiknair/jackc/pkg/gen/xml"
	"github.com/kartiknair/jackc/pkg/token"
)

func VM(c *ast.Class) (string, error) {
	return vmgen.Gen(c)
}

func TokensXML(tokens []token.Token) string {
	return xmlgen.Tokens(tokens)
}

func TreeXML(c *ast.Class) string {
	return xmlgen.Tree(c)
}
