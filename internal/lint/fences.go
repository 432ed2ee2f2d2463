package lint

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-article/pkg/interfaces"
)

// checkFences scans the raw source line by line tracking fence state. An open
// fence at end of input means an unterminated code block; goldmark silently
// swallows the rest of the document in that case, so the renderer alone will
// not catch it.
func checkFences(source []byte) []interfaces.Issue {
	var issues []interfaces.Issue

	var (
		openChar byte
		openLen  int
		openLine int
	)
	inFence := false

	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()

		char, length, indent, info, ok := fenceMarker(text)
		if !ok {
			continue
		}

		if !inFence {
			inFence = true
			openChar = char
			openLen = length
			openLine = line
			continue
		}

		// A closing fence uses the same character, at least the opening
		// length, carries no info string, and is not indented further than
		// the allowed three spaces. A differing fence inside an open fence
		// is literal content.
		if char == openChar && length >= openLen && info == "" && indent <= 3 {
			inFence = false
		}
	}

	if inFence {
		issues = append(issues, interfaces.Issue{
			Rule:     RuleFences,
			Severity: interfaces.SeverityError,
			Line:     openLine,
			Message:  fmt.Sprintf("code fence opened on line %d is never closed", openLine),
		})
	}

	return issues
}

// fenceMarker reports whether the line is a fence delimiter, returning the
// fence character, run length, leading indent, and trailing info string.
func fenceMarker(line string) (char byte, length, indent int, info string, ok bool) {
	i := 0
	for i < len(line) && line[i] == ' ' {
		i++
	}
	indent = i
	if indent > 3 || i >= len(line) {
		return 0, 0, 0, "", false
	}

	char = line[i]
	if char != '`' && char != '~' {
		return 0, 0, 0, "", false
	}

	start := i
	for i < len(line) && line[i] == char {
		i++
	}
	length = i - start
	if length < 3 {
		return 0, 0, 0, "", false
	}

	info = strings.TrimSpace(line[i:])
	// An info string containing the fence character is not a valid fence.
	if strings.ContainsRune(info, rune(char)) {
		return 0, 0, 0, "", false
	}
	return char, length, indent, info, true
}
