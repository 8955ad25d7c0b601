package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	sheetLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:px|em|%)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	sheetParser = participle.MustBuild[Sheet](
		participle.Lexer(sheetLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment"),
	)
)

// Sheet is the root AST node for a style sheet document.
type Sheet struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"Newline* 'sheet' @Ident"`
	Version string         `parser:"@Ident"`
	Decls   []*Decl        `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Decl is a top-level declaration (font/style/material/atlas/defaults).
type Decl struct {
	Font     *NamedBlock `parser:"  'font' @@"`
	Style    *NamedBlock `parser:"| 'style' @@"`
	Material *NamedBlock `parser:"| 'material' @@"`
	Atlas    *AtlasDecl  `parser:"| @@"`
	Defaults *Block      `parser:"| 'defaults' @@"`
}

// Kind returns the human-readable declaration type.
func (d *Decl) Kind() string {
	switch {
	case d == nil:
		return "unknown"
	case d.Font != nil:
		return "font"
	case d.Style != nil:
		return "style"
	case d.Material != nil:
		return "material"
	case d.Atlas != nil:
		return "atlas"
	case d.Defaults != nil:
		return "defaults"
	default:
		return "unknown"
	}
}

// NamedBlock is a named declaration followed by an assignment block.
type NamedBlock struct {
	Name  string `parser:"@Ident"`
	Block *Block `parser:"@@"`
}

// AtlasDecl declares a sprite atlas; its body mixes assignments and
// sprite declarations.
type AtlasDecl struct {
	Name  string       `parser:"'atlas' @Ident"`
	Items []*AtlasItem `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// AtlasItem is either a sprite declaration or an atlas-level assignment.
type AtlasItem struct {
	Sprite *NamedBlock `parser:"  'sprite' @@"`
	Assign *Assignment `parser:"| @@"`
}

// Block is a delimited list of assignments.
type Block struct {
	Assignments []*Assignment `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Get returns the value assigned to key, or nil.
func (b *Block) Get(key string) *Value {
	if b == nil {
		return nil
	}
	for _, a := range b.Assignments {
		if strings.EqualFold(a.Key, key) {
			return a.Value
		}
	}
	return nil
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Key   string `parser:"@Ident"`
	Value *Value `parser:"':' Newline* @@"`
}

// Value represents generic property values.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Ident  *string        `parser:"| @Ident"`
	Array  *ArrayValue    `parser:"| @@"`
}

// ArrayValue captures `[ ... ]` lists.
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// Text returns the value as a plain string, whatever scalar form it took.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// Float parses the value as a number; px/em/% suffixes are stripped.
func (v *Value) Float() (float64, bool) {
	if v == nil || v.Number == nil {
		return 0, false
	}
	s := *v.Number
	for _, suffix := range []string{"px", "em", "%"} {
		s = strings.TrimSuffix(s, suffix)
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// Bool reports whether the value is the ident `true`.
func (v *Value) Bool() bool {
	return v != nil && v.Ident != nil && strings.EqualFold(*v.Ident, "true")
}

// List returns array elements, or a single-element slice for scalars.
func (v *Value) List() []*Value {
	switch {
	case v == nil:
		return nil
	case v.Array != nil:
		return v.Array.Values
	default:
		return []*Value{v}
	}
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a sheet document from an io.Reader.
func Parse(r io.Reader) (*Sheet, error) {
	return sheetParser.Parse("", r)
}

// ParseString parses a sheet document from a string.
func ParseString(input string) (*Sheet, error) {
	return sheetParser.ParseString("", input)
}
