package parse

// ReadItems reads every line of src and returns its items.
func ReadItems(src Source) ([]Item, error) {
	lines, err := ReadLines(src)
	if err != nil {
		return nil, err
	}
	var items []Item
	for line, text := range lines {
		items = AppendLine(items, src, line, text)
	}
	return items, nil
}

// AppendLine tokenizes text, the 0-based line of src, and appends its items.
// A NewLineItem ends the line unless it ends with a line command.
func AppendLine(items []Item, src Source, line int, text string) []Item {
	tok := NewTokenizer(src, line, text)
	start := len(items)
	for tok.HasNext() {
		tok.Advance()
		pos := Position{Source: src, Line: line, Column: tok.Column()}
		switch tok.Type() {
		case TokenSpace:
			items = append(items, NewSpaceItem(pos, tok.Token()))
		case TokenCommand:
			items = append(items, readCommand(tok, pos))
		default:
			items = append(items, NewTextItem(pos, tok.Token()))
		}
	}
	if len(items) > start {
		if cmd, ok := items[len(items)-1].(*CommandItem); ok && !cmd.Inline {
			return items
		}
	}
	end := Position{Source: src, Line: line, Column: len([]rune(text))}
	return append(items, NewNewLineItem(end))
}

// readCommand consumes the tokens of a command starting after its "@".
func readCommand(tok *Tokenizer, pos Position) *CommandItem {
	inline := false
	tok.Advance()
	if tok.Type() == TokenOpenBrace {
		inline = true
		tok.Advance()
	}
	name := tok.Token()

	var options []Item
	for tok.HasNext() {
		tok.Advance()
		optPos := Position{Source: tok.Source(), Line: tok.Line(), Column: tok.Column()}
		switch tok.Type() {
		case TokenCloseBrace:
			if inline {
				return NewCommandItem(pos, name, inline, options)
			}
			options = append(options, NewTextItem(optPos, tok.Token()))
		case TokenSpace:
			options = append(options, NewSpaceItem(optPos, tok.Token()))
		case TokenString:
			options = append(options, NewStringItem(optPos, tok.Token()))
		default:
			options = append(options, NewTextItem(optPos, tok.Token()))
		}
	}
	return NewCommandItem(pos, name, inline, options)
}
