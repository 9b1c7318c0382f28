package cif

import (
	"strings"
)

// Write renders a document back to text. Items keep file order; values
// that need protection are quoted, multi-line values become semicolon
// text fields.
func Write(doc *Document) string {
	var sb strings.Builder
	for i, block := range doc.Blocks() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("data_")
		sb.WriteString(block.Name)
		sb.WriteString("\n")
		writeBlock(&sb, block)
	}
	return sb.String()
}

func writeBlock(sb *strings.Builder, block *Block) {
	for _, e := range block.entries {
		if e.loop != nil {
			writeLoop(sb, e.loop)
			continue
		}
		if strings.Contains(e.value, "\n") {
			sb.WriteString(e.name)
			sb.WriteString("\n;")
			sb.WriteString(e.value)
			sb.WriteString("\n;\n")
			continue
		}
		sb.WriteString(e.name)
		sb.WriteString(" ")
		sb.WriteString(quoteValue(e.value))
		sb.WriteString("\n")
	}
}

func writeLoop(sb *strings.Builder, loop *Loop) {
	sb.WriteString("loop_\n")
	for _, name := range loop.Names() {
		sb.WriteString("  ")
		sb.WriteString(name)
		sb.WriteString("\n")
	}
	for r := 0; r < loop.Rows(); r++ {
		for i, name := range loop.Names() {
			if i > 0 {
				sb.WriteString(" ")
			}
			vals, _ := loop.Column(name)
			sb.WriteString(quoteValue(vals[r]))
		}
		sb.WriteString("\n")
	}
}

// quoteValue protects values the reader would otherwise split or
// mistake for syntax. Empty values travel as "?".
func quoteValue(v string) string {
	if v == "" {
		return "?"
	}
	if !strings.ContainsAny(v, " \t'\"#") && !strings.HasPrefix(v, "_") &&
		!strings.HasPrefix(v, ";") && !strings.EqualFold(v, "loop_") &&
		!strings.HasPrefix(strings.ToLower(v), "data_") {
		return v
	}
	if !strings.Contains(v, "'") {
		return "'" + v + "'"
	}
	return `"` + v + `"`
}
