package cif

import (
	"fmt"
	"strings"
)

// ParseError reports an unparseable stretch of input.
type ParseError struct {
	Line    int
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("cif parse error (line %d): %s", e.Line, e.Message)
}

// Parse reads a document from text. The grammar subset covers block
// headers, data items with inline, next-line, or semicolon-field values,
// loops, quoted values, and comments.
func Parse(text string) (*Document, error) {
	p := &parser{lines: strings.Split(text, "\n")}
	return p.parse()
}

type parser struct {
	lines []string
	pos   int
}

func (p *parser) parse() (*Document, error) {
	doc := NewDocument()
	var block *Block
	for !p.done() {
		line := strings.TrimSpace(p.peek())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			p.next()
		case strings.HasPrefix(strings.ToLower(line), "data_"):
			block = NewBlock(line[len("data_"):])
			doc.AddBlock(block)
			p.next()
		case strings.HasPrefix(line, "_"):
			if block == nil {
				return nil, &ParseError{Line: p.pos + 1, Message: "data item before any data_ block"}
			}
			if err := p.parseItem(block); err != nil {
				return nil, err
			}
		case strings.EqualFold(line, "loop_"):
			if block == nil {
				return nil, &ParseError{Line: p.pos + 1, Message: "loop before any data_ block"}
			}
			if err := p.parseLoop(block); err != nil {
				return nil, err
			}
		default:
			return nil, &ParseError{Line: p.pos + 1, Message: fmt.Sprintf("unexpected content %q", line)}
		}
	}
	return doc, nil
}

func (p *parser) done() bool { return p.pos >= len(p.lines) }
func (p *parser) peek() string {
	return p.lines[p.pos]
}
func (p *parser) next() string {
	line := p.lines[p.pos]
	p.pos++
	return line
}

// parseItem reads one "_name value" item. The value may sit on the same
// line, on the following line, or in a semicolon text field.
func (p *parser) parseItem(block *Block) error {
	startLine := p.pos + 1
	fields := splitValues(strings.TrimSpace(p.next()))
	name := fields[0]
	switch len(fields) {
	case 1:
		value, err := p.parseDetachedValue(startLine)
		if err != nil {
			return err
		}
		block.Set(name, value)
		return nil
	case 2:
		block.Set(name, fields[1])
		return nil
	default:
		return &ParseError{Line: startLine, Message: fmt.Sprintf("item %s has %d values", name, len(fields)-1)}
	}
}

// parseDetachedValue reads a value that follows its tag on a later line:
// either a semicolon text field or a single value line.
func (p *parser) parseDetachedValue(tagLine int) (string, error) {
	for !p.done() {
		line := p.next()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(line, ";") {
			return p.parseTextField(strings.TrimPrefix(line, ";"))
		}
		fields := splitValues(trimmed)
		if len(fields) != 1 || strings.HasPrefix(fields[0], "_") {
			return "", &ParseError{Line: p.pos, Message: "expected a single value"}
		}
		return fields[0], nil
	}
	return "", &ParseError{Line: tagLine, Message: "item has no value"}
}

// parseTextField collects lines until the closing semicolon.
func (p *parser) parseTextField(first string) (string, error) {
	var sb strings.Builder
	sb.WriteString(first)
	for !p.done() {
		line := p.next()
		if strings.HasPrefix(line, ";") {
			return sb.String(), nil
		}
		sb.WriteString("\n")
		sb.WriteString(line)
	}
	return "", &ParseError{Line: p.pos, Message: "unterminated text field"}
}

func (p *parser) parseLoop(block *Block) error {
	p.next() // loop_
	loop := NewLoop()
	var names []string
	for !p.done() {
		line := strings.TrimSpace(p.peek())
		if !strings.HasPrefix(line, "_") {
			break
		}
		names = append(names, splitValues(line)[0])
		p.next()
	}
	if len(names) == 0 {
		return &ParseError{Line: p.pos, Message: "loop without column names"}
	}

	var values []string
	for !p.done() {
		raw := p.peek()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			p.next()
			continue
		}
		if strings.HasPrefix(line, "_") || strings.EqualFold(line, "loop_") ||
			strings.HasPrefix(strings.ToLower(line), "data_") {
			break
		}
		if strings.HasPrefix(raw, ";") {
			p.next()
			field, err := p.parseTextField(strings.TrimPrefix(raw, ";"))
			if err != nil {
				return err
			}
			values = append(values, field)
			continue
		}
		values = append(values, splitValues(line)...)
		p.next()
	}
	if len(names) == 0 || len(values)%len(names) != 0 {
		return &ParseError{Line: p.pos, Message: fmt.Sprintf("loop has %d values for %d columns", len(values), len(names))}
	}

	rows := len(values) / len(names)
	for i, name := range names {
		col := make([]string, rows)
		for r := 0; r < rows; r++ {
			col[r] = values[r*len(names)+i]
		}
		if err := loop.AddColumn(name, col); err != nil {
			return &ParseError{Line: p.pos, Message: err.Error()}
		}
	}
	block.AddLoop(loop)
	return nil
}

// splitValues splits a line into whitespace-separated values, honoring
// single and double quotes and dropping trailing comments.
func splitValues(line string) []string {
	var fields []string
	i := 0
	for i < len(line) {
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i >= len(line) {
			break
		}
		if line[i] == '#' {
			break
		}
		if line[i] == '\'' || line[i] == '"' {
			quote := line[i]
			i++
			start := i
			for i < len(line) && line[i] != quote {
				i++
			}
			fields = append(fields, line[start:i])
			if i < len(line) {
				i++ // closing quote
			}
			continue
		}
		start := i
		for i < len(line) && line[i] != ' ' && line[i] != '\t' {
			i++
		}
		fields = append(fields, line[start:i])
	}
	return fields
}
