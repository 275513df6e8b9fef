// Package css bridges the inspector's byte-offset source ranges and LSP's
// line/UTF-16-character positions.
package css

import (
	"strings"

	"devcss.dev/inspector/internal/position"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// lineStarts returns the byte offset of the start of each line in content.
func lineStarts(content string) []int {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineBounds(content string, starts []int, line int) (int, int) {
	lineEnd := len(content)
	if line+1 < len(starts) {
		lineEnd = starts[line+1] - 1
		if lineEnd < starts[line] {
			lineEnd = starts[line]
		}
	}
	return starts[line], lineEnd
}

// OffsetToPosition converts a byte offset into content to an LSP position
// (0-based line, UTF-16 code unit character).
func OffsetToPosition(content string, offset uint32) protocol.Position {
	starts := lineStarts(content)

	line := 0
	for i := len(starts) - 1; i >= 0; i-- {
		if int(offset) >= starts[i] {
			line = i
			break
		}
	}

	lineStart, lineEnd := lineBounds(content, starts, line)
	lineText := content[lineStart:min(lineEnd, len(content))]

	byteCol := int(offset) - lineStart
	if byteCol < 0 {
		byteCol = 0
	}
	if byteCol > len(lineText) {
		byteCol = len(lineText)
	}

	return protocol.Position{
		Line:      protocol.UInteger(line), //nolint:gosec
		Character: protocol.UInteger(position.ByteOffsetToUTF16(lineText, byteCol)), //nolint:gosec
	}
}

// RangeToProtocol converts a [start, end) byte range into content to an LSP range.
func RangeToProtocol(content string, start, end uint32) protocol.Range {
	return protocol.Range{
		Start: OffsetToPosition(content, start),
		End:   OffsetToPosition(content, end),
	}
}

// PositionToOffset converts an LSP position back to a byte offset into content.
func PositionToOffset(content string, pos protocol.Position) uint32 {
	starts := lineStarts(content)
	line := int(pos.Line)
	if line < 0 {
		line = 0
	}
	if line >= len(starts) {
		return uint32(len(content)) //nolint:gosec
	}

	lineStart, lineEnd := lineBounds(content, starts, line)
	lineText := content[lineStart:min(lineEnd, len(content))]

	byteCol := position.UTF16ToByteOffset(lineText, int(pos.Character))
	return uint32(lineStart + byteCol) //nolint:gosec
}

// ContainsOffset reports whether offset falls inside the half-open [start, end) range.
func ContainsOffset(start, end, offset uint32) bool {
	return offset >= start && offset < end
}

// LineCount returns the number of lines content occupies (at least 1).
func LineCount(content string) int {
	return strings.Count(content, "\n") + 1
}
