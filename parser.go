package tinybasic

import (
	"fmt"
	"log/slog"
)

//
// The recursive descent parser.  Like the scanner it handles one
// line at a time, and the grammar is small enough that each
// statement gets its own method.  Errors abort the line; there is
// no recovery and no need for any, since the unit of work is a
// single line
//

type Parser struct {
	tokens     []Token
	tokenLen   int
	current    int
	lineNumber int
	out        func(string)
	log        *slog.Logger
}

func NewParser(log *slog.Logger, out func(string)) *Parser {
	if log == nil {
		log = slog.Default()
	}
	if out == nil {
		out = func(s string) { fmt.Print(s) }
	}
	return &Parser{log: log, out: out}
}

//
// Parse the token stream for one line.  The last token must be
// the CRLF sentinel the scanner always appends
//

func (p *Parser) ParseTokens(tokens []Token) ([]Node, error) {
	p.tokens = tokens
	p.tokenLen = len(tokens)
	p.current = 0
	p.lineNumber = 0

	p.log.Debug("parsing", "tokens", tokensToString(tokens))

	var statements []Node
	for !p.atEnd() {
		statement, err := p.line()
		if err != nil {
			return nil, err
		}
		statements = append(statements, statement)
	}

	return statements, nil
}

//
// Recursive descent methods
//

func (p *Parser) line() (Node, error) {
	current := p.tokens[p.current]
	if p.match(LINE_NUMBER) {
		// Set this before the range check so the error carries the
		// line number being parsed.
		p.lineNumber = current.Line
		if current.Line <= 0 || current.Line > maxLineNumber {
			return nil, p.reportError(fmt.Sprintf(
				"Error #009: Line number '%d' not allowed.", current.Line))
		}
		return &LineNumber{
			nodeBase: nodeBase{Line: current.Line, Column: current.Column},
			Value:    current.Line,
		}, nil
	}
	return p.statement()
}

func (p *Parser) statement() (Node, error) {
	switch {
	case p.match(PRINT):
		return p.printStatement()
	case p.match(REM):
		return p.remStatement()
	case p.match(LET):
		return p.letStatement()
	case p.match(GOTO):
		return p.goStatement(GOTO)
	case p.match(GOSUB):
		return p.goStatement(GOSUB)
	case p.match(RETURN):
		if err := p.verifyLineFinished(); err != nil {
			return nil, err
		}
		prev := p.previous()
		return &ReturnStmt{nodeBase{prev.Line, prev.Column}}, nil
	case p.match(END):
		if err := p.verifyLineFinished(); err != nil {
			return nil, err
		}
		prev := p.previous()
		return &EndStmt{nodeBase{prev.Line, prev.Column}}, nil
	case p.match(LIST):
		return p.listStatement()
	case p.match(IF):
		return p.ifStatement()
	case p.match(CLEAR):
		if err := p.verifyLineFinished(); err != nil {
			return nil, err
		}
		prev := p.previous()
		return &ClearStmt{nodeBase{prev.Line, prev.Column}}, nil
	case p.match(INPUT):
		return p.inputStatement()
	case p.match(RUN):
		return p.runStatement()
	}

	// A LET-less assignment like "A=1"?
	if p.check(IDENTIFIER) {
		return p.letStatement()
	}

	return p.expression()
}

func (p *Parser) expression() (Node, error) {
	return p.term()
}

func (p *Parser) term() (Node, error) {
	expression, err := p.factor()
	if err != nil {
		return nil, err
	}

	// A loop rather than a single check so chains like A+10+B+Q
	// parse left associative.
	for p.match(PLUS, MINUS) {
		operator := p.previous()
		rhs, err := p.factor()
		if err != nil {
			return nil, err
		}
		expression = &Binary{
			nodeBase: nodeBase{operator.Line, operator.Column},
			Lhs:      expression,
			Operator: operator,
			Rhs:      rhs,
		}
	}

	return expression, nil
}

func (p *Parser) factor() (Node, error) {
	expression, err := p.unary()
	if err != nil {
		return nil, err
	}

	for p.match(STAR, SLASH) {
		operator := p.previous()
		rhs, err := p.unary()
		if err != nil {
			return nil, err
		}
		expression = &Binary{
			nodeBase: nodeBase{operator.Line, operator.Column},
			Lhs:      expression,
			Operator: operator,
			Rhs:      rhs,
		}
	}

	return expression, nil
}

func (p *Parser) unary() (Node, error) {
	if p.match(PLUS, MINUS) {
		operator := p.previous()
		rhs, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{
			nodeBase: nodeBase{operator.Line, operator.Column},
			Operator: operator,
			Expr:     rhs,
		}, nil
	}
	return p.primary()
}

func (p *Parser) primary() (Node, error) {
	currToken := p.peek()
	switch {
	case p.match(NUMBER):
		// Wrap literals into the signed 16-bit range right away, so
		// 65535 is -1 everywhere downstream.
		return &Literal{
			nodeBase: nodeBase{currToken.Line, currToken.Column},
			Value:    shortInt(currToken.Number),
		}, nil
	case p.match(IDENTIFIER):
		return &Variable{
			nodeBase: nodeBase{currToken.Line, currToken.Column},
			Name:     currToken.Lexeme,
		}, nil
	case p.match(RND):
		return p.randomExpression()
	case p.match(USR):
		return p.usrExpression()
	case p.match(COMMA, SEMICOLON):
		return &PrintSeparator{
			nodeBase:  nodeBase{currToken.Line, currToken.Column},
			Separator: currToken.Lexeme,
		}, nil
	case p.match(LEFT_PAREN):
		expression, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(RIGHT_PAREN, fmt.Sprintf(
			"Error #296: Syntax error - expected a closing parenthesis, got '%s.",
			p.peek().Lexeme)); err != nil {
			return nil, err
		}
		return &Group{
			nodeBase: nodeBase{currToken.Line, currToken.Column},
			Expr:     expression,
		}, nil
	}

	return nil, p.reportError(fmt.Sprintf(
		"Error #293: Syntax error - unexpected expression '%s'.",
		p.peek().Lexeme))
}

func (p *Parser) randomExpression() (Node, error) {
	previous := p.previous()
	if _, err := p.consume(LEFT_PAREN,
		"Error #293: Syntax error - missing left parenthesis to "+
			"the RND function."); err != nil {
		return nil, err
	}
	expression, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(RIGHT_PAREN,
		"Error #293: Syntax error - missing left parenthesis to "+
			"the RND function."); err != nil {
		return nil, err
	}
	return &RandomExpr{
		nodeBase: nodeBase{previous.Line, previous.Column},
		Expr:     expression,
	}, nil
}

func (p *Parser) usrExpression() (Node, error) {
	if _, err := p.consume(LEFT_PAREN,
		"Error #293: Syntax error - missing left parenthesis to "+
			"the USR function."); err != nil {
		return nil, err
	}
	previous := p.previous()

	address, err := p.expression()
	if err != nil {
		return nil, err
	}
	var xReg, aReg Node

	if p.match(COMMA) {
		if xReg, err = p.expression(); err != nil {
			return nil, err
		}
		if p.match(COMMA) {
			if aReg, err = p.expression(); err != nil {
				return nil, err
			}
		}
	}

	if _, err := p.consume(RIGHT_PAREN,
		"Error #293: Syntax error - missing right parenthesis to "+
			"the USR function."); err != nil {
		return nil, err
	}
	return &UsrExpr{
		nodeBase: nodeBase{previous.Line, previous.Column},
		Address:  address,
		XReg:     xReg,
		AReg:     aReg,
	}, nil
}

//
// Statement processing
//

func (p *Parser) printStatement() (Node, error) {
	previous := p.previous()
	var args []Node
	currToken := p.peek()

	// A bare PRINT just prints a CRLF.
	if currToken.Kind == CRLF {
		p.advance()
		return &PrintStmt{
			nodeBase: nodeBase{previous.Line, previous.Column},
			Args:     args,
		}, nil
	}

	if currToken.Kind == COMMA || currToken.Kind == SEMICOLON ||
		currToken.Kind == COLON {
		return nil, p.reportError(
			"Error #339: Separators or colons cannot be the first item " +
				"in a PRINT statement.")
	}

	for currToken.Kind != CRLF && currToken.Kind != COLON {
		var value Node
		var err error
		if p.match(STRING) {
			value = &StringLiteral{
				nodeBase: nodeBase{currToken.Line, currToken.Column},
				Value:    currToken.Text,
			}
		} else if value, err = p.expression(); err != nil {
			return nil, err
		}
		args = append(args, value)
		currToken = p.peek()
	}

	// A trailing colon issued an X-OFF to pause paper tape readers.
	// Eat it quietly.
	p.match(COLON)

	if err := p.verifyLineFinished(); err != nil {
		return nil, err
	}

	return &PrintStmt{
		nodeBase: nodeBase{previous.Line, previous.Column},
		Args:     args,
	}, nil
}

func (p *Parser) remStatement() (Node, error) {
	// "REM", "REM blah", "111 REM", and "111 REM blah" are all
	// valid lines.
	previous := p.previous()
	commentText := ""
	if p.peek().Kind == COMMENT {
		commentToken := p.advance()
		commentText = commentToken.Text
	}

	if err := p.verifyLineFinished(); err != nil {
		return nil, err
	}

	return &RemComment{
		nodeBase: nodeBase{previous.Line, previous.Column},
		Comment:  commentText,
	}, nil
}

func (p *Parser) letStatement() (Node, error) {
	// A LET-less assignment at the start of a line has no previous
	// token to anchor on, so use the variable itself.
	previous := p.peek()
	if p.current > 0 {
		previous = p.previous()
	}
	// If the line ends at the LET, this check gives a better error
	// message than the consume below.
	if p.peek().Kind == CRLF {
		return nil, p.reportError(fmt.Sprintf(
			"Error #018: LET is missing a variable name but found '%s'.",
			p.peek().Lexeme))
	}

	varToken, err := p.consume(IDENTIFIER, fmt.Sprintf(
		"Error #018: LET is missing a variable name but found '%s'.",
		p.peek().Lexeme))
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(EQUAL, fmt.Sprintf(
		"Error #020: LET is missing an '=' but found '%s'.",
		p.peek().Lexeme)); err != nil {
		return nil, err
	}

	// Catch 'LET A=' with nothing on the right.
	if p.peek().Kind == CRLF {
		return nil, p.reportError(
			"Error #023: Improper syntax in LET, no right-side expression.")
	}

	value, err := p.expression()
	if err != nil {
		return nil, err
	}

	variable := &Variable{
		nodeBase: nodeBase{varToken.Line, varToken.Column},
		Name:     varToken.Lexeme,
	}
	assign := &Assignment{
		nodeBase: nodeBase{previous.Line, previous.Column},
		Variable: variable,
		Expr:     value,
	}

	if err := p.verifyLineFinished(); err != nil {
		return nil, err
	}

	return &LetStmt{
		nodeBase: nodeBase{previous.Line, previous.Column},
		Assign:   assign,
	}, nil
}

func (p *Parser) goStatement(kind TokenKind) (Node, error) {
	previous := p.previous()
	cmdName := "GOSUB"
	if kind == GOTO {
		cmdName = "GOTO"
	}

	if p.peek().Kind == CRLF {
		return nil, p.reportError(fmt.Sprintf(
			"Error #037: Missing line number for '%s'.", cmdName))
	}

	expression, err := p.expression()
	if err != nil {
		return nil, err
	}

	if err := p.verifyLineFinished(); err != nil {
		return nil, err
	}

	if kind == GOTO {
		return &GotoStmt{
			nodeBase: nodeBase{previous.Line, previous.Column},
			Target:   expression,
		}, nil
	}
	return &GosubStmt{
		nodeBase: nodeBase{previous.Line, previous.Column},
		Target:   expression,
	}, nil
}

func (p *Parser) listStatement() (Node, error) {
	previous := p.previous()
	var start, end Node
	var err error

	if p.peek().Kind != CRLF {
		if start, err = p.expression(); err != nil {
			return nil, err
		}
		if p.peek().Kind == COMMA {
			p.advance()
			if end, err = p.expression(); err != nil {
				return nil, err
			}
		}
	}

	if err := p.verifyLineFinished(); err != nil {
		return nil, err
	}

	return &ListStmt{
		nodeBase: nodeBase{previous.Line, previous.Column},
		Start:    start,
		End:      end,
	}, nil
}

func (p *Parser) ifStatement() (Node, error) {
	previous := p.previous()
	lhs, err := p.expression()
	if err != nil {
		return nil, err
	}

	operator := p.peek()
	if !p.match(EQUAL, NOT_EQUAL, LESS, LESS_EQUAL, GREATER, GREATER_EQUAL) {
		return nil, p.reportError(fmt.Sprintf(
			"Error #330: IF is missing the relational operator but found '%s'.",
			operator.Lexeme))
	}

	rhs, err := p.expression()
	if err != nil {
		return nil, err
	}

	// THEN is optional.
	p.match(THEN)

	branch, err := p.statement()
	if err != nil {
		return nil, err
	}

	if err := p.verifyLineFinished(); err != nil {
		return nil, err
	}

	return &IfStmt{
		nodeBase: nodeBase{previous.Line, previous.Column},
		Lhs:      lhs,
		Operator: operator,
		Rhs:      rhs,
		Branch:   branch,
	}, nil
}

func (p *Parser) inputStatement() (Node, error) {
	previous := p.previous()
	currVar := p.peek()
	if currVar.Kind == CRLF {
		return nil, p.reportError(
			"Error #104: INPUT expected a variable name but found '\n'.")
	}

	var variables []*Variable

	if currVar.Kind != IDENTIFIER {
		return nil, p.reportError(fmt.Sprintf(
			"Error #104: INPUT expected a variable name but found  '%s'.",
			currVar.Lexeme))
	}
	for p.match(IDENTIFIER) {
		variables = append(variables, &Variable{
			nodeBase: nodeBase{currVar.Line, currVar.Column},
			Name:     currVar.Lexeme,
		})
		if !p.match(COMMA) {
			break
		}
		currVar = p.peek()
		if currVar.Kind != IDENTIFIER {
			return nil, p.reportError(fmt.Sprintf(
				"Error #104: INPUT expected a variable name but found  '%s'.",
				currVar.Lexeme))
		}
	}

	if err := p.verifyLineFinished(); err != nil {
		return nil, err
	}

	return &InputStmt{
		nodeBase:  nodeBase{previous.Line, previous.Column},
		Variables: variables,
	}, nil
}

func (p *Parser) runStatement() (Node, error) {
	previous := p.previous()
	var expressions []Node

	if p.peek().Kind == CRLF {
		p.advance()
		return &RunStmt{
			nodeBase: nodeBase{previous.Line, previous.Column},
			Args:     expressions,
		}, nil
	}

	// The elusive "100 RUN a,b,10" inside a program line. Warn and
	// ignore everything after the RUN.
	if p.lineNumber > 0 {
		p.out(fmt.Sprintf(
			"WARN #002: RUN parameters not supported in programs, only in "+
				"direct execution: Line [%d].\n", p.lineNumber))
		for p.peek().Kind != CRLF {
			p.advance()
		}
		return &RunStmt{
			nodeBase: nodeBase{previous.Line, previous.Column},
			Args:     expressions,
		}, nil
	}

	// Direct execution with parameters for INPUT to consume.
	for p.peek().Kind != CRLF {
		if p.peek().Kind == COMMA {
			p.advance()
			// An extraneous trailing comma?
			if p.atEnd() {
				return nil, p.reportError("Error #296: Syntax error")
			}
			continue
		}
		currExpression, err := p.expression()
		if err != nil {
			return nil, err
		}
		expressions = append(expressions, currExpression)
	}

	return &RunStmt{
		nodeBase: nodeBase{previous.Line, previous.Column},
		Args:     expressions,
	}, nil
}

//
// Token position and matching helpers
//

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}

func (p *Parser) advance() Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) atEnd() bool {
	return p.current == p.tokenLen-1
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind TokenKind, message string) (Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return Token{}, p.reportError(message)
}

func (p *Parser) check(kind TokenKind) bool {
	if p.atEnd() {
		return false
	}
	return p.peek().Kind == kind
}

// Every statement has to be the last thing on its line.
func (p *Parser) verifyLineFinished() error {
	if p.peek().Kind == CRLF {
		return nil
	}
	return p.reportError(fmt.Sprintf(
		"Expected the end of the line but found %q.", p.peek().Lexeme))
}

func (p *Parser) reportError(message string) *BasicError {
	token := p.peek()
	return syntaxError(token.Line, token.Column, message)
}
