package deptools

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

var pathEscaper = strings.NewReplacer(
	`\`, `\\`,
	` `, `\ `,
	`#`, `\#`,
	`$`, `$$`)

// WriteDepFile creates a new gcc-style depfile and populates it with content
// indicating that target depends on deps.
func WriteDepFile(filename, target string, deps []string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	err = writeDeps(f, target, deps)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

func writeDeps(w io.Writer, target string, deps []string) error {
	buf := bufio.NewWriter(w)

	escaped := make([]string, len(deps))
	for i, dep := range deps {
		escaped[i] = pathEscaper.Replace(dep)
	}

	if len(escaped) == 0 {
		fmt.Fprintf(buf, "%s:\n", pathEscaper.Replace(target))
	} else {
		fmt.Fprintf(buf, "%s: \\\n %s\n", pathEscaper.Replace(target),
			strings.Join(escaped, " \\\n "))
	}

	return buf.Flush()
}
