package frontend

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Choose presents items as a numbered menu and returns the selected item.
// An empty answer picks the first item.
func Choose(r io.Reader, w io.Writer, prompt string, items []string) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("nothing to choose from")
	}
	reader := bufio.NewReader(r)

	fmt.Fprintf(w, "%s\n", prompt)
	for i, item := range items {
		fmt.Fprintf(w, "  %d) %s\n", i+1, item)
	}
	fmt.Fprintf(w, "Enter number [1-%d] (default 1): ", len(items))

	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading selection: %w", err)
	}
	answer := strings.TrimSpace(line)
	if answer == "" {
		return items[0], nil
	}

	// The item itself is accepted as well as its number.
	for _, item := range items {
		if strings.EqualFold(answer, item) {
			return item, nil
		}
	}
	num, err := strconv.Atoi(answer)
	if err != nil || num < 1 || num > len(items) {
		return "", fmt.Errorf("invalid selection %q: choose 1-%d", answer, len(items))
	}
	return items[num-1], nil
}
