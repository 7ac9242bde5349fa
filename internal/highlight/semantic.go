package highlight

import "github.com/tidwall/gjson"

// SemanticTokens decodes an LSP textDocument/semanticTokens response
// into spans. The payload's data array encodes tokens as quintuples of
// deltaLine, deltaStart, length, tokenType and modifiers; token types
// index into legend. lineStart maps a line number to its byte offset
// so the relative wire positions become absolute spans. Tokens with an
// out-of-legend type are dropped.
func SemanticTokens(payload string, legend []string, lineStart func(line int) int) []Span {
	data := gjson.Get(payload, "data").Array()

	var spans []Span
	line, col := 0, 0
	for i := 0; i+4 < len(data); i += 5 {
		deltaLine := int(data[i].Int())
		deltaStart := int(data[i+1].Int())
		length := int(data[i+2].Int())
		tokenType := int(data[i+3].Int())

		if deltaLine > 0 {
			line += deltaLine
			col = deltaStart
		} else {
			col += deltaStart
		}
		if length <= 0 || tokenType < 0 || tokenType >= len(legend) {
			continue
		}
		start := lineStart(line) + col
		spans = append(spans, Span{Start: start, End: start + length, Key: legend[tokenType]})
	}
	return spans
}
