package rdf

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// rdfType is emitted for the "a" keyword.
const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// ParseTurtle parses a Turtle document into a new graph. Prefix and base
// directives in the document are recorded on the graph so a later
// serialization can reuse them.
func ParseTurtle(input string) (*Graph, error) {
	p := &turtleParser{
		src:   []rune(input),
		line:  1,
		graph: NewGraph(),
	}
	if err := p.parseDocument(); err != nil {
		return nil, err
	}
	return p.graph, nil
}

// turtleParser is a recursive-descent parser over the Turtle grammar,
// covering the subset ontology tooling produces: directives, predicate
// object lists, literals with language tags and datatypes, numeric and
// boolean shorthand, blank node property lists, and collections.
type turtleParser struct {
	src   []rune
	pos   int
	line  int
	base  string
	graph *Graph
	bnode int
}

func (p *turtleParser) errf(format string, args ...any) error {
	return fmt.Errorf("turtle: line %d: %s", p.line, fmt.Sprintf(format, args...))
}

func (p *turtleParser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *turtleParser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *turtleParser) peekAt(offset int) rune {
	if p.pos+offset >= len(p.src) {
		return 0
	}
	return p.src[p.pos+offset]
}

func (p *turtleParser) next() rune {
	if p.eof() {
		return 0
	}
	c := p.src[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
	}
	return c
}

// skipWS consumes whitespace and # comments.
func (p *turtleParser) skipWS() {
	for !p.eof() {
		c := p.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			p.next()
		case c == '#':
			for !p.eof() && p.peek() != '\n' {
				p.next()
			}
		default:
			return
		}
	}
}

func (p *turtleParser) expect(c rune) error {
	p.skipWS()
	if p.peek() != c {
		return p.errf("expected %q, found %q", c, p.peek())
	}
	p.next()
	return nil
}

func (p *turtleParser) parseDocument() error {
	for {
		p.skipWS()
		if p.eof() {
			return nil
		}
		if err := p.parseStatement(); err != nil {
			return err
		}
	}
}

func (p *turtleParser) parseStatement() error {
	if p.peek() == '@' {
		return p.parseAtDirective()
	}
	if word, after := p.peekWord(); after != ':' {
		switch {
		case strings.EqualFold(word, "prefix"):
			return p.parseSparqlPrefix()
		case strings.EqualFold(word, "base"):
			return p.parseSparqlBase()
		}
	}
	if err := p.parseTriples(); err != nil {
		return err
	}
	return p.expect('.')
}

// peekWord returns the run of letters at the cursor and the rune that
// follows it, without consuming anything.
func (p *turtleParser) peekWord() (string, rune) {
	i := p.pos
	for i < len(p.src) && unicode.IsLetter(p.src[i]) {
		i++
	}
	word := string(p.src[p.pos:i])
	if i < len(p.src) {
		return word, p.src[i]
	}
	return word, 0
}

func (p *turtleParser) skipWord() {
	for !p.eof() && unicode.IsLetter(p.peek()) {
		p.next()
	}
}

func (p *turtleParser) parseAtDirective() error {
	p.next() // consume '@'
	word, _ := p.peekWord()
	switch word {
	case "prefix":
		p.skipWord()
		if err := p.parsePrefixBinding(); err != nil {
			return err
		}
		return p.expect('.')
	case "base":
		p.skipWord()
		if err := p.parseBaseBinding(); err != nil {
			return err
		}
		return p.expect('.')
	default:
		return p.errf("unknown directive @%s", word)
	}
}

func (p *turtleParser) parseSparqlPrefix() error {
	p.skipWord()
	return p.parsePrefixBinding()
}

func (p *turtleParser) parseSparqlBase() error {
	p.skipWord()
	return p.parseBaseBinding()
}

func (p *turtleParser) parsePrefixBinding() error {
	p.skipWS()
	prefix, err := p.readPrefixName()
	if err != nil {
		return err
	}
	p.skipWS()
	iri, err := p.readIRIRef()
	if err != nil {
		return err
	}
	p.graph.Bind(prefix, iri)
	return nil
}

func (p *turtleParser) parseBaseBinding() error {
	p.skipWS()
	iri, err := p.readIRIRef()
	if err != nil {
		return err
	}
	p.base = iri
	return nil
}

// readPrefixName reads a PNAME_NS up to and including the colon, returning
// the prefix without it.
func (p *turtleParser) readPrefixName() (string, error) {
	var sb strings.Builder
	for !p.eof() {
		c := p.peek()
		if c == ':' {
			p.next()
			return sb.String(), nil
		}
		if !isNameChar(c) && c != '.' {
			break
		}
		sb.WriteRune(p.next())
	}
	return "", p.errf("expected prefix name ending in ':'")
}

func (p *turtleParser) parseTriples() error {
	p.skipWS()
	if p.peek() == '[' {
		subject, err := p.parseBlankNodePropertyList()
		if err != nil {
			return err
		}
		p.skipWS()
		if p.peek() == '.' {
			return nil // bare property list statement
		}
		return p.parsePredicateObjectList(subject)
	}
	subject, err := p.parseSubject()
	if err != nil {
		return err
	}
	return p.parsePredicateObjectList(subject)
}

func (p *turtleParser) parseSubject() (Term, error) {
	p.skipWS()
	switch c := p.peek(); {
	case c == '<':
		iri, err := p.readIRIRef()
		if err != nil {
			return Term{}, err
		}
		return IRI(iri), nil
	case c == '_':
		return p.readBlankNodeLabel()
	case c == '(':
		return p.parseCollection()
	default:
		iri, err := p.readPrefixedName()
		if err != nil {
			return Term{}, err
		}
		return IRI(iri), nil
	}
}

func (p *turtleParser) parsePredicateObjectList(subject Term) error {
	for {
		predicate, err := p.parseVerb()
		if err != nil {
			return err
		}
		if err := p.parseObjectList(subject, predicate); err != nil {
			return err
		}
		p.skipWS()
		if p.peek() != ';' {
			return nil
		}
		for p.peek() == ';' {
			p.next()
			p.skipWS()
		}
		if c := p.peek(); c == '.' || c == ']' || c == 0 {
			return nil // trailing semicolon
		}
	}
}

func (p *turtleParser) parseVerb() (Term, error) {
	p.skipWS()
	if p.peek() == 'a' {
		switch p.peekAt(1) {
		case ' ', '\t', '\r', '\n', '<', '[', '(', '"', '\'', '#':
			p.next()
			return IRI(rdfType), nil
		}
	}
	if p.peek() == '<' {
		iri, err := p.readIRIRef()
		if err != nil {
			return Term{}, err
		}
		return IRI(iri), nil
	}
	iri, err := p.readPrefixedName()
	if err != nil {
		return Term{}, err
	}
	return IRI(iri), nil
}

func (p *turtleParser) parseObjectList(subject, predicate Term) error {
	for {
		object, err := p.parseObject()
		if err != nil {
			return err
		}
		p.graph.AddTriple(subject, predicate, object)
		p.skipWS()
		if p.peek() != ',' {
			return nil
		}
		p.next()
	}
}

func (p *turtleParser) parseObject() (Term, error) {
	p.skipWS()
	switch c := p.peek(); {
	case c == '<':
		iri, err := p.readIRIRef()
		if err != nil {
			return Term{}, err
		}
		return IRI(iri), nil
	case c == '"' || c == '\'':
		return p.parseLiteral()
	case c == '[':
		return p.parseBlankNodePropertyList()
	case c == '(':
		return p.parseCollection()
	case c == '_':
		return p.readBlankNodeLabel()
	case c == '+' || c == '-' || unicode.IsDigit(c) || (c == '.' && unicode.IsDigit(p.peekAt(1))):
		return p.parseNumericLiteral()
	default:
		word, after := p.peekWord()
		if after != ':' && (word == "true" || word == "false") {
			p.skipWord()
			return TypedLiteral(word, XSDBoolean), nil
		}
		iri, err := p.readPrefixedName()
		if err != nil {
			return Term{}, err
		}
		return IRI(iri), nil
	}
}

func (p *turtleParser) parseBlankNodePropertyList() (Term, error) {
	p.next() // consume '['
	node := p.newBlank()
	p.skipWS()
	if p.peek() == ']' {
		p.next()
		return node, nil
	}
	if err := p.parsePredicateObjectList(node); err != nil {
		return Term{}, err
	}
	if err := p.expect(']'); err != nil {
		return Term{}, err
	}
	return node, nil
}

func (p *turtleParser) parseCollection() (Term, error) {
	p.next() // consume '('
	p.skipWS()
	if p.peek() == ')' {
		p.next()
		return IRI(RDFNil), nil
	}
	var head, prev Term
	for {
		object, err := p.parseObject()
		if err != nil {
			return Term{}, err
		}
		cell := p.newBlank()
		if prev == (Term{}) {
			head = cell
		} else {
			p.graph.AddTriple(prev, IRI(RDFRest), cell)
		}
		p.graph.AddTriple(cell, IRI(RDFFirst), object)
		prev = cell
		p.skipWS()
		if p.peek() == ')' {
			p.next()
			p.graph.AddTriple(prev, IRI(RDFRest), IRI(RDFNil))
			return head, nil
		}
	}
}

func (p *turtleParser) newBlank() Term {
	p.bnode++
	return Blank("genid" + strconv.Itoa(p.bnode))
}

func (p *turtleParser) readBlankNodeLabel() (Term, error) {
	if p.peek() != '_' || p.peekAt(1) != ':' {
		return Term{}, p.errf("expected blank node label")
	}
	p.next()
	p.next()
	var sb strings.Builder
	for !p.eof() {
		c := p.peek()
		if c == '.' {
			if isNameChar(p.peekAt(1)) {
				sb.WriteRune(p.next())
				continue
			}
			break
		}
		if !isNameChar(c) {
			break
		}
		sb.WriteRune(p.next())
	}
	if sb.Len() == 0 {
		return Term{}, p.errf("empty blank node label")
	}
	return Blank(sb.String()), nil
}

func (p *turtleParser) parseLiteral() (Term, error) {
	lexical, err := p.readString()
	if err != nil {
		return Term{}, err
	}
	switch p.peek() {
	case '@':
		p.next()
		var sb strings.Builder
		for !p.eof() {
			c := p.peek()
			if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '-' {
				sb.WriteRune(p.next())
				continue
			}
			break
		}
		if sb.Len() == 0 {
			return Term{}, p.errf("empty language tag")
		}
		return LangLiteral(lexical, sb.String()), nil
	case '^':
		if p.peekAt(1) != '^' {
			return Term{}, p.errf("expected '^^' before datatype")
		}
		p.next()
		p.next()
		var datatype string
		if p.peek() == '<' {
			datatype, err = p.readIRIRef()
		} else {
			datatype, err = p.readPrefixedName()
		}
		if err != nil {
			return Term{}, err
		}
		return TypedLiteral(lexical, datatype), nil
	default:
		return Literal(lexical), nil
	}
}

// readString reads a short or long quoted string with escapes resolved.
func (p *turtleParser) readString() (string, error) {
	quote := p.next()
	long := false
	if p.peek() == quote && p.peekAt(1) == quote {
		p.next()
		p.next()
		long = true
	} else if p.peek() == quote {
		// empty short string
		p.next()
		return "", nil
	}
	var sb strings.Builder
	for {
		if p.eof() {
			return "", p.errf("unterminated string literal")
		}
		c := p.peek()
		if c == quote {
			if !long {
				p.next()
				return sb.String(), nil
			}
			if p.peekAt(1) == quote && p.peekAt(2) == quote {
				p.next()
				p.next()
				p.next()
				return sb.String(), nil
			}
			sb.WriteRune(p.next())
			continue
		}
		if !long && (c == '\n' || c == '\r') {
			return "", p.errf("newline in string literal")
		}
		if c == '\\' {
			p.next()
			r, err := p.readEscape()
			if err != nil {
				return "", err
			}
			sb.WriteRune(r)
			continue
		}
		sb.WriteRune(p.next())
	}
}

func (p *turtleParser) readEscape() (rune, error) {
	c := p.next()
	switch c {
	case 't':
		return '\t', nil
	case 'b':
		return '\b', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 'f':
		return '\f', nil
	case '"':
		return '"', nil
	case '\'':
		return '\'', nil
	case '\\':
		return '\\', nil
	case 'u':
		return p.readHexRune(4)
	case 'U':
		return p.readHexRune(8)
	default:
		return 0, p.errf("invalid escape sequence \\%c", c)
	}
}

func (p *turtleParser) readHexRune(digits int) (rune, error) {
	var sb strings.Builder
	for i := 0; i < digits; i++ {
		sb.WriteRune(p.next())
	}
	v, err := strconv.ParseUint(sb.String(), 16, 32)
	if err != nil {
		return 0, p.errf("invalid unicode escape %q", sb.String())
	}
	return rune(v), nil
}

// readIRIRef reads an <...> IRI reference and resolves it against the base.
func (p *turtleParser) readIRIRef() (string, error) {
	if p.peek() != '<' {
		return "", p.errf("expected '<', found %q", p.peek())
	}
	p.next()
	var sb strings.Builder
	for {
		if p.eof() {
			return "", p.errf("unterminated IRI reference")
		}
		c := p.next()
		switch {
		case c == '>':
			return p.resolveIRI(sb.String()), nil
		case c == '\\':
			r, err := p.readEscape()
			if err != nil {
				return "", err
			}
			sb.WriteRune(r)
		case c == '\n' || c == '\r' || c == ' ' || c == '<' || c == '"':
			return "", p.errf("invalid character %q in IRI reference", c)
		default:
			sb.WriteRune(c)
		}
	}
}

// resolveIRI resolves a possibly relative IRI against the document base.
// Ontology files keep absolute IRIs, so only the simple relative forms
// are handled.
func (p *turtleParser) resolveIRI(iri string) string {
	if p.base == "" || hasScheme(iri) {
		return iri
	}
	if strings.HasPrefix(iri, "#") {
		if i := strings.IndexByte(p.base, '#'); i >= 0 {
			return p.base[:i] + iri
		}
		return p.base + iri
	}
	if i := strings.LastIndexByte(p.base, '/'); i >= 0 {
		return p.base[:i+1] + iri
	}
	return p.base + iri
}

func hasScheme(iri string) bool {
	for i, c := range iri {
		switch {
		case c == ':':
			return i > 0
		case unicode.IsLetter(c), i > 0 && (unicode.IsDigit(c) || c == '+' || c == '-' || c == '.'):
			// still inside a scheme candidate
		default:
			return false
		}
	}
	return false
}

// readPrefixedName reads a PNAME_LN or PNAME_NS and expands it against the
// bound prefixes.
func (p *turtleParser) readPrefixedName() (string, error) {
	var prefix strings.Builder
	for !p.eof() {
		c := p.peek()
		if c == ':' {
			break
		}
		if !isNameChar(c) {
			return "", p.errf("expected prefixed name, found %q", c)
		}
		prefix.WriteRune(p.next())
	}
	if p.peek() != ':' {
		return "", p.errf("expected ':' in prefixed name %q", prefix.String())
	}
	p.next()
	namespace, ok := p.graph.prefixes[prefix.String()]
	if !ok {
		return "", p.errf("undefined prefix %q", prefix.String())
	}
	local, err := p.readLocalName()
	if err != nil {
		return "", err
	}
	return namespace + local, nil
}

// readLocalName reads a PN_LOCAL, honoring %-encoding, backslash escapes,
// and interior dots.
func (p *turtleParser) readLocalName() (string, error) {
	var sb strings.Builder
	for !p.eof() {
		c := p.peek()
		switch {
		case c == '%':
			sb.WriteRune(p.next())
			for i := 0; i < 2; i++ {
				if !isHexDigit(p.peek()) {
					return "", p.errf("invalid %% escape in local name")
				}
				sb.WriteRune(p.next())
			}
		case c == '\\':
			p.next()
			if p.eof() {
				return "", p.errf("dangling escape in local name")
			}
			sb.WriteRune(p.next())
		case c == '.':
			if !isLocalContinuation(p.peekAt(1)) {
				return sb.String(), nil
			}
			sb.WriteRune(p.next())
		case isNameChar(c) || c == ':':
			sb.WriteRune(p.next())
		default:
			return sb.String(), nil
		}
	}
	return sb.String(), nil
}

func isNameChar(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '-'
}

func isLocalContinuation(c rune) bool {
	return isNameChar(c) || c == ':' || c == '%' || c == '\\' || c == '.'
}

func isHexDigit(c rune) bool {
	return unicode.IsDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (p *turtleParser) parseNumericLiteral() (Term, error) {
	var sb strings.Builder
	if c := p.peek(); c == '+' || c == '-' {
		sb.WriteRune(p.next())
	}
	decimal := false
	double := false
	for !p.eof() {
		c := p.peek()
		switch {
		case unicode.IsDigit(c):
			sb.WriteRune(p.next())
		case c == '.' && unicode.IsDigit(p.peekAt(1)) && !decimal && !double:
			decimal = true
			sb.WriteRune(p.next())
		case (c == 'e' || c == 'E') && !double:
			double = true
			sb.WriteRune(p.next())
			if s := p.peek(); s == '+' || s == '-' {
				sb.WriteRune(p.next())
			}
		default:
			goto done
		}
	}
done:
	lexical := sb.String()
	switch {
	case double:
		return TypedLiteral(lexical, XSDDouble), nil
	case decimal:
		return TypedLiteral(lexical, XSDDecimal), nil
	default:
		return TypedLiteral(lexical, XSDInteger), nil
	}
}
