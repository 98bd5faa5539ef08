package css

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

type Option func(*Parser)

func WithTracer(tracer Tracer) Option {
	return func(p *Parser) {
		if tracer == nil {
			tracer = NoopTracer()
		}
		p.tracer = tracer
	}
}

func WithMode(mode Mode) Option {
	return func(p *Parser) {
		p.mode = mode
	}
}

// Parser builds a Selector from the tokens of a selector. The compiled
// selectors are not cached; use Compile for that.
type Parser struct {
	source string
	tokens []Token
	pos    int

	mode   Mode
	tracer Tracer
}

func NewParser(str string, options ...Option) *Parser {
	p := Parser{
		source: str,
		tokens: Tokenize(str),
		tracer: NoopTracer(),
	}
	for _, o := range options {
		o(&p)
	}
	return &p
}

// Parse compiles str without going through the cache.
func Parse(str string, mode Mode, options ...Option) (*Selector, error) {
	options = append([]Option{WithMode(mode)}, options...)
	return NewParser(str, options...).Parse()
}

func (p *Parser) Parse() (*Selector, error) {
	p.enter("selector")
	defer p.leave("selector")

	sel, err := p.parseSelector(p.mode.initialAxis(), false)
	if err != nil {
		p.tracer.Error("selector", err)
		return nil, err
	}
	if !p.done() {
		err = p.syntaxError("unexpected token " + p.curr().Literal)
		p.tracer.Error("selector", err)
		return nil, err
	}
	return sel, nil
}

func (p *Parser) parseSelector(axis Axis, arg bool) (*Selector, error) {
	p.enter("paths")
	defer p.leave("paths")

	var (
		sel = Selector{
			Mode: p.mode,
		}
		offset  = p.offset()
		initial = axis
		path    Path
		pending = true
	)
	p.skipSpace()
	if arg {
		axis = p.leadingCombinator(axis)
		p.skipSpace()
	}
Loop:
	for !p.done() {
		step, err := p.parseStep(axis)
		if err != nil {
			return nil, err
		}
		path = append(path, step)
		pending = false

		axis = AxisDescendant
		p.skipSpace()
		switch tok := p.curr(); {
		case tok.is(">"):
			axis, pending = AxisChild, true
		case tok.is("~"):
			axis, pending = AxisFollowingSibling, true
		case tok.is("+"):
			axis, pending = AxisFirstFollowingSibling, true
		case tok.is(","):
			if arg {
				break Loop
			}
			sel.Paths = append(sel.Paths, path)
			path, axis, pending = nil, initial, true
		case tok.is(")"):
			break Loop
		default:
			if tok.Type != Ident && !p.startStep() {
				break Loop
			}
			continue
		}
		p.next()
		p.skipSpace()
	}
	if pending || len(path) == 0 {
		return nil, p.syntaxError("selector expected")
	}
	sel.Paths = append(sel.Paths, path)
	sel.Source = strings.TrimSpace(p.source[offset:p.offset()])
	return &sel, nil
}

// leadingCombinator lets a selector given as argument start with a
// combinator, e.g. :has(> p).
func (p *Parser) leadingCombinator(axis Axis) Axis {
	switch tok := p.curr(); {
	case tok.is(">"):
		axis = AxisChild
	case tok.is("~"):
		axis = AxisFollowingSibling
	case tok.is("+"):
		axis = AxisFirstFollowingSibling
	default:
		return axis
	}
	p.next()
	return axis
}

func (p *Parser) startStep() bool {
	tok := p.curr()
	return tok.is("*") || tok.is("#") || tok.is(".") || tok.is("[") || tok.is(":")
}

func (p *Parser) parseStep(axis Axis) (Step, error) {
	p.enter("step")
	defer p.leave("step")

	name, ok := p.readIdent(true, true)
	if !ok {
		return Step{}, p.syntaxError("name expected")
	}
	if p.curr().is("::") {
		ax, ok := lookupAxis(name)
		if !ok {
			return Step{}, p.syntaxError("unsupported axis: " + name)
		}
		p.next()
		axis = ax
		if name, ok = p.readIdent(true, true); !ok {
			return Step{}, p.syntaxError("name expected")
		}
	}
	step := createStep(p.normalizeName(name), axis)
	for !p.done() {
		var err error
		switch tok := p.curr(); {
		case tok.is("#"):
			err = p.parseShortcut(&step, "id", "=")
		case tok.is("."):
			err = p.parseShortcut(&step, "class", "~=")
		case tok.is("["):
			err = p.parseAttr(&step)
		case tok.is(":"):
			err = p.parsePseudo(&step)
		default:
			return finishStep(step), nil
		}
		if err != nil {
			return step, err
		}
	}
	return finishStep(step), nil
}

func (p *Parser) normalizeName(name string) string {
	if name == "*" {
		return ""
	}
	name = unescape(name)
	if p.mode.XML() {
		return name
	}
	return strings.ToLower(name)
}

// finishStep replaces the first-* axes by their base axis and a condition on
// the position along the axis. Conditions are then ordered by tier.
func finishStep(step Step) Step {
	switch step.Axis {
	case AxisFirstFollowingSibling:
		step.Axis = AxisFollowingSibling
		step.Conds = slices.Insert(step.Conds, 0, Condition(axisFirst{}))
	case AxisFirstPrecedingSibling:
		step.Axis = AxisPrecedingSibling
		step.Conds = slices.Insert(step.Conds, 0, Condition(axisFirst{}))
	}
	slices.SortStableFunc(step.Conds, func(a, b Condition) int {
		return a.Tier() - b.Tier()
	})
	return step
}

func (p *Parser) parseShortcut(step *Step, attr, op string) error {
	p.next()
	value, ok := p.readIdent(false, false)
	if !ok {
		return p.syntaxError(attr + " expected")
	}
	step.Conds = append(step.Conds, attrCond{
		name:  attr,
		op:    op,
		value: unescape(value),
	})
	return nil
}

func (p *Parser) parseAttr(step *Step) error {
	p.enter("attribute")
	defer p.leave("attribute")

	p.next()
	p.skipSpace()
	name, ok := p.readIdent(false, false)
	if !ok {
		return p.syntaxError("attribute name expected")
	}
	name = unescape(name)
	if !p.mode.XML() {
		name = strings.ToLower(name)
	}
	cond := attrCond{
		name: name,
	}
	p.skipSpace()
	if tok := p.curr(); tok.Type == Other && strings.HasSuffix(tok.Literal, "=") {
		p.next()
		p.skipSpace()
		cond.op = tok.Literal
		if cond.value, ok = p.readValue(); !ok {
			return p.syntaxError("attribute value expected")
		}
		p.skipSpace()
	}
	if !p.curr().is("]") {
		return p.syntaxError("missing closing bracket")
	}
	p.next()
	step.Conds = append(step.Conds, cond)
	return nil
}

func (p *Parser) parsePseudo(step *Step) error {
	p.enter("pseudo")
	defer p.leave("pseudo")

	p.next()
	offset := p.offset()
	name, ok := p.readIdent(false, false)
	if !ok {
		return p.syntaxError("pseudo class name expected")
	}
	args, err := p.parseArgs(name)
	if err != nil {
		return err
	}
	return p.addPseudo(step, name, args, offset)
}

func (p *Parser) parseArgs(name string) ([]argument, error) {
	if !p.curr().is("(") {
		return nil, nil
	}
	p.next()
	p.skipSpace()
	if p.curr().is(")") {
		p.next()
		return nil, nil
	}
	var list []argument
	for {
		arg, err := p.parseArgument(name)
		if err != nil {
			return nil, err
		}
		list = append(list, arg)
		p.skipSpace()
		if !p.curr().is(",") {
			break
		}
		p.next()
		p.skipSpace()
	}
	if !p.curr().is(")") {
		return nil, p.syntaxError("missing closing parenthesis")
	}
	p.next()
	return list, nil
}

func (p *Parser) parseArgument(name string) (argument, error) {
	p.enter("argument")
	defer p.leave("argument")

	var arg argument
	switch tok := p.curr(); {
	case tok.Type == ComplexNumber:
		nth, err := parseNth(tok.Literal)
		if err != nil {
			return arg, p.syntaxError(err.Error())
		}
		p.next()
		arg.value = nth
	case tok.Type == Literal:
		p.next()
		arg.value = unescape(tok.Literal[1 : len(tok.Literal)-1])
	case tok.Type == Ident && isNumber(tok.Literal):
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return arg, p.syntaxError(tok.Literal + ": invalid number")
		}
		p.next()
		arg.value = f
	case tok.Type == Ident && isNthPseudo(name) && isNthKeyword(tok.Literal):
		p.next()
		if strings.EqualFold(tok.Literal, "odd") {
			arg.value = Nth{A: 2, B: 1}
		} else {
			arg.value = Nth{A: 2, B: 0}
		}
	case tok.Type == Ident && isNthPseudo(name) && nthIdent.MatchString(tok.Literal):
		nth, err := parseNth(p.readNthIdent())
		if err != nil {
			return arg, p.syntaxError(err.Error())
		}
		arg.value = nth
	case tok.Type == Ident && isRaw(name):
		p.next()
		arg.value = tok.Literal
	default:
		sel, err := p.parseSelector(AxisSelf, true)
		if err != nil {
			return arg, err
		}
		arg.sel = sel
	}
	return arg, nil
}

var numberPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

func isNumber(str string) bool {
	return numberPattern.MatchString(str)
}

func isNthPseudo(pseudo string) bool {
	return strings.HasPrefix(strings.ToLower(pseudo), "nth-")
}

func isNthKeyword(str string) bool {
	return strings.EqualFold(str, "odd") || strings.EqualFold(str, "even")
}

// nthIdent matches the An+B forms without coefficient digits that the
// tokenizer gives as identifiers: n, -n, n-1, -n-1.
var nthIdent = regexp.MustCompile(`(?i)^-?n(-\d+)?$`)

// readNthIdent collects an An+B form starting with an identifier, including an
// offset given with a separate sign as in -n + 3.
func (p *Parser) readNthIdent() string {
	str := p.curr().Literal
	p.next()
	if strings.Contains(strings.TrimPrefix(str, "-"), "-") {
		return str
	}
	mark := p.pos
	p.skipSpace()
	if sign := p.curr(); sign.is("+") || sign.is("-") {
		p.next()
		p.skipSpace()
		if tok := p.curr(); tok.Type == Ident && isDigits(tok.Literal) {
			p.next()
			return str + sign.Literal + tok.Literal
		}
	}
	p.pos = mark
	return str
}

func isDigits(str string) bool {
	if str == "" {
		return false
	}
	for i := 0; i < len(str); i++ {
		if !isDigit(str[i]) {
			return false
		}
	}
	return true
}

func (p *Parser) addPseudo(step *Step, name string, args []argument, offset int) error {
	switch pseudo := strings.ToLower(name); pseudo {
	case "from":
		n, err := p.intArg(pseudo, args, offset)
		if err != nil {
			return err
		}
		step.From = max(n, 1)
	case "limit":
		n, err := p.intArg(pseudo, args, offset)
		if err != nil {
			return err
		}
		if n > 0 {
			step.Limit = n
		} else {
			step.Limit = Unlimited
		}
	case "root":
		step.Conds = append(step.Conds, rootCond{})
	case "first-child", "last-child", "only-child", "first-of-type", "last-of-type", "only-of-type":
		cond := childCond{
			typed: strings.HasSuffix(pseudo, "-of-type"),
		}
		switch {
		case strings.HasPrefix(pseudo, "first-"):
			cond.kind = childFirst
		case strings.HasPrefix(pseudo, "last-"):
			cond.kind = childLast
		default:
			cond.kind = childOnly
		}
		step.Conds = append(step.Conds, cond)
	case "nth-child", "nth-last-child", "nth-of-type", "nth-last-of-type":
		nth, err := p.nthArg(pseudo, args, offset)
		if err != nil {
			return err
		}
		cond := childCond{
			kind:  childNth,
			typed: strings.HasSuffix(pseudo, "-of-type"),
			nth:   nth,
		}
		if strings.HasPrefix(pseudo, "nth-last-") {
			cond.kind = childNthLast
		}
		step.Conds = append(step.Conds, cond)
	case "not", "has", "any":
		if len(args) == 0 {
			return syntaxError(p.source, pseudo+": selector expected", offset)
		}
		cond := selectCond{
			kind: selectAny,
		}
		if pseudo == "not" {
			cond.kind = selectNot
		} else if pseudo == "has" {
			cond.kind = selectHas
		}
		for _, a := range args {
			if a.sel == nil {
				return syntaxError(p.source, pseudo+": selector expected", offset)
			}
			cond.list = append(cond.list, a.sel)
		}
		step.Conds = append(step.Conds, cond)
	case "disabled", "enabled", "checked", "link", "visited", "input":
		step.Conds = append(step.Conds, fixedCond(pseudo))
	default:
		step.Conds = append(step.Conds, funcCond{
			name: funcName(name),
			args: args,
		})
	}
	return nil
}

func (p *Parser) intArg(pseudo string, args []argument, offset int) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	f, ok := args[0].value.(float64)
	if !ok {
		return 0, syntaxError(p.source, pseudo+": number expected", offset)
	}
	return int(f), nil
}

func (p *Parser) nthArg(pseudo string, args []argument, offset int) (Nth, error) {
	if len(args) == 0 {
		return Nth{}, syntaxError(p.source, pseudo+": argument expected", offset)
	}
	switch v := args[0].value.(type) {
	case Nth:
		return v, nil
	case float64:
		return Nth{B: int(v)}, nil
	default:
		return Nth{}, syntaxError(p.source, pseudo+": number expected", offset)
	}
}

// readIdent reads a name. A star is accepted when asterisk is set; when empty
// is set, a missing name in front of a condition gives a star.
func (p *Parser) readIdent(asterisk, empty bool) (string, bool) {
	tok := p.curr()
	switch {
	case tok.Type == Ident:
		p.next()
		return tok.Literal, true
	case asterisk && tok.is("*"):
		p.next()
		return "*", true
	case empty && p.startStep():
		return "*", true
	default:
		return "", false
	}
}

func (p *Parser) readValue() (string, bool) {
	tok := p.curr()
	switch tok.Type {
	case Literal:
		p.next()
		return unescape(tok.Literal[1 : len(tok.Literal)-1]), true
	case Ident:
		p.next()
		return unescape(tok.Literal), true
	default:
		return "", false
	}
}

func (p *Parser) skipSpace() {
	for p.curr().Type == Space {
		p.next()
	}
}

func (p *Parser) curr() Token {
	if p.done() {
		return Token{Type: Other, Offset: len(p.source)}
	}
	return p.tokens[p.pos]
}

func (p *Parser) next() {
	if !p.done() {
		p.pos++
	}
}

func (p *Parser) done() bool {
	return p.pos >= len(p.tokens)
}

func (p *Parser) offset() int {
	return p.curr().Offset
}

func (p *Parser) syntaxError(cause string) error {
	return syntaxError(p.source, cause, p.offset())
}

func (p *Parser) enter(rule string) {
	p.tracer.Enter(fmt.Sprintf("%s(%d)", rule, p.offset()))
}

func (p *Parser) leave(rule string) {
	p.tracer.Leave(rule)
}
