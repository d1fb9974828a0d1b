package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fossabot/squiggly/filter"
	"github.com/fossabot/squiggly/function"
)

// Parser parses filter expressions into filter node trees.
type Parser struct {
	lexer    *Lexer
	current  Token
	registry *function.Registry
}

// Parse parses input and returns the root-level active filter set. Function
// names are resolved (including aliases) against registry; pass nil to skip
// binding, in which case names are kept as written.
func Parse(input string, registry *function.Registry) ([]*filter.Node, error) {
	p := &Parser{lexer: NewLexer(input), registry: registry}
	p.advance()

	if p.current.Type == TokenEOF {
		return []*filter.Node{}, nil
	}

	nodes, err := p.parseNodes()
	if err != nil {
		return nil, err
	}
	if p.current.Type != TokenEOF {
		return nil, p.errorf("unexpected %q", p.current.Value)
	}
	return nodes, nil
}

func (p *Parser) advance() {
	p.current = p.lexer.NextToken()
}

func (p *Parser) accept(t TokenType) bool {
	if p.current.Type != t {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) expect(t TokenType, what string) (Token, error) {
	if p.current.Type != t {
		return Token{}, p.errorf("expected %s but got %q", what, p.current.Value)
	}
	tok := p.current
	p.advance()
	return tok, nil
}

func (p *Parser) errorf(format string, args ...any) error {
	pos := fmt.Sprintf("%d:%d: ", p.current.Line, p.current.Column)
	return fmt.Errorf(pos+format, args...)
}

func (p *Parser) parseNodes() ([]*filter.Node, error) {
	var nodes []*filter.Node
	for {
		node, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
		if !p.accept(TokenComma) {
			return nodes, nil
		}
	}
}

func (p *Parser) parseNode() (*filter.Node, error) {
	origin := filter.Origin{Line: p.current.Line, Column: p.current.Column}
	cfg := filter.Config{Origin: origin}

	cfg.Negated = p.accept(TokenDash)

	name, deep, err := p.parseName()
	if err != nil {
		return nil, err
	}
	cfg.Name = name
	cfg.Deep = deep

	if deep {
		cfg.MinDepth, cfg.MaxDepth, err = p.parseDepthRange()
		if err != nil {
			return nil, err
		}
	}

	for p.accept(TokenAt) {
		call, err := p.parseCall()
		if err != nil {
			return nil, err
		}
		cfg.KeyFunctions = append(cfg.KeyFunctions, call)
	}
	for p.accept(TokenPipe) {
		call, err := p.parseCall()
		if err != nil {
			return nil, err
		}
		cfg.ValueFunctions = append(cfg.ValueFunctions, call)
	}

	if p.accept(TokenLBrace) {
		cfg.Nested = true
		if p.current.Type != TokenRBrace {
			cfg.Children, err = p.parseNodes()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(TokenRBrace, "'}'"); err != nil {
			return nil, err
		}
	}

	return filter.New(cfg), nil
}

// parseName classifies a name token: *, **, $var, glob, or exact literal.
// The second return reports whether the node is deep.
func (p *Parser) parseName() (filter.Name, bool, error) {
	if p.accept(TokenDollar) {
		tok, err := p.expect(TokenIdent, "variable name")
		if err != nil {
			return filter.Name{}, false, err
		}
		name, err := filter.NewVariableName(tok.Value)
		if err != nil {
			return filter.Name{}, false, p.errorf("%v", err)
		}
		return name, false, nil
	}

	tok, err := p.expect(TokenIdent, "a name")
	if err != nil {
		return filter.Name{}, false, err
	}

	switch {
	case tok.Value == filter.AnyShallowID:
		return filter.AnyShallowName(), false, nil
	case strings.Trim(tok.Value, "*") == "" && len(tok.Value) >= 2:
		return filter.AnyDeepName(), true, nil
	case strings.ContainsAny(tok.Value, "*?"):
		name, err := filter.NewPatternName(tok.Value)
		if err != nil {
			return filter.Name{}, false, p.errorf("%v", err)
		}
		return name, false, nil
	default:
		name, err := filter.NewExactName(tok.Value)
		if err != nil {
			return filter.Name{}, false, p.errorf("%v", err)
		}
		return name, false, nil
	}
}

// parseDepthRange parses an optional [min:max] after **. max is exclusive.
func (p *Parser) parseDepthRange() (minDepth, maxDepth *int, err error) {
	if !p.accept(TokenLBracket) {
		return nil, nil, nil
	}
	if p.current.Type == TokenNumber {
		v, err := p.parseIntToken()
		if err != nil {
			return nil, nil, err
		}
		minDepth = &v
	}
	if _, err := p.expect(TokenColon, "':'"); err != nil {
		return nil, nil, err
	}
	if p.current.Type == TokenNumber {
		v, err := p.parseIntToken()
		if err != nil {
			return nil, nil, err
		}
		maxDepth = &v
	}
	if _, err := p.expect(TokenRBracket, "']'"); err != nil {
		return nil, nil, err
	}
	return minDepth, maxDepth, nil
}

func (p *Parser) parseIntToken() (int, error) {
	tok, err := p.expect(TokenNumber, "an integer")
	if err != nil {
		return 0, err
	}
	v, convErr := strconv.Atoi(tok.Value)
	if convErr != nil {
		return 0, p.errorf("invalid depth %q", tok.Value)
	}
	return v, nil
}

func (p *Parser) parseCall() (*function.Node, error) {
	tok, err := p.expect(TokenIdent, "a function name")
	if err != nil {
		return nil, err
	}
	if strings.ContainsAny(tok.Value, "*?") {
		return nil, p.errorf("invalid function name %q", tok.Value)
	}

	name := tok.Value
	if p.registry != nil {
		entry, err := p.registry.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("%d:%d: %w", tok.Line, tok.Column, err)
		}
		name = entry.Name
	}

	var args []function.Arg
	if p.accept(TokenLParen) {
		if p.current.Type != TokenRParen {
			args, err = p.parseArgs()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(TokenRParen, "')'"); err != nil {
			return nil, err
		}
	}

	return function.NewNode(name, args...), nil
}

func (p *Parser) parseArgs() ([]function.Arg, error) {
	var args []function.Arg
	for {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.accept(TokenComma) {
			return args, nil
		}
	}
}

func (p *Parser) parseArg() (function.Arg, error) {
	switch p.current.Type {
	case TokenString:
		v := p.current.Value
		p.advance()
		return function.LiteralArg(v), nil

	case TokenNumber:
		return p.parseNumberArg(false)

	case TokenDash:
		p.advance()
		return p.parseNumberArg(true)

	case TokenRegex:
		source := p.current.Value
		pattern, err := compilePattern(source)
		if err != nil {
			return function.Arg{}, p.errorf("invalid pattern %q: %v", source, err)
		}
		p.advance()
		return function.LiteralArg(pattern), nil

	case TokenDollar:
		p.advance()
		tok, err := p.expect(TokenIdent, "variable name")
		if err != nil {
			return function.Arg{}, err
		}
		return function.VariableArg(tok.Value), nil

	case TokenIdent:
		switch p.current.Value {
		case "true":
			p.advance()
			return function.LiteralArg(true), nil
		case "false":
			p.advance()
			return function.LiteralArg(false), nil
		case "null":
			p.advance()
			return function.LiteralArg(nil), nil
		}
		call, err := p.parseCall()
		if err != nil {
			return function.Arg{}, err
		}
		return function.CallArg(call), nil

	default:
		return function.Arg{}, p.errorf("expected an argument but got %q", p.current.Value)
	}
}

func compilePattern(source string) (*regexp.Regexp, error) {
	return regexp.Compile(source)
}

func (p *Parser) parseNumberArg(negative bool) (function.Arg, error) {
	tok, err := p.expect(TokenNumber, "a number")
	if err != nil {
		return function.Arg{}, err
	}
	v, convErr := strconv.ParseFloat(tok.Value, 64)
	if convErr != nil {
		return function.Arg{}, p.errorf("invalid number %q", tok.Value)
	}
	if negative {
		v = -v
	}
	return function.LiteralArg(v), nil
}
