// Command squiggly applies a field-selection filter to a JSON document.
//
//	squiggly -f 'id,name,address{city,zip}' -i in.json -o out.json
//
// Input and output files ending in .zst are read and written
// zstd-compressed. With no -i/-o the command filters stdin to stdout.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/fossabot/squiggly"
	"github.com/fossabot/squiggly/function"
)

type varFlags map[string]string

func (v varFlags) String() string { return "" }

func (v varFlags) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return fmt.Errorf("expected name=value, got %q", s)
	}
	v[name] = value
	return nil
}

func main() {
	expr := flag.String("f", "", "filter expression (required)")
	input := flag.String("i", "", "input file (default stdin; .zst reads zstd)")
	output := flag.String("o", "", "output file (default stdout; .zst writes zstd)")
	secure := flag.Bool("secure", false, "treat the filter as untrusted input")
	vars := varFlags{}
	flag.Var(vars, "var", "variable binding name=value (repeatable)")
	flag.Parse()

	if *expr == "" {
		flag.Usage()
		os.Exit(2)
	}

	env := function.Normal
	if *secure {
		env = function.Secure
	}
	f, err := parseFilter(*expr, env)
	if err != nil {
		log.Fatalf("Invalid filter: %v", err)
	}

	doc, err := readInput(*input)
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	out, err := f.ApplyWith(doc, function.VarMap(vars))
	if err != nil {
		log.Fatalf("Failed to apply filter: %v", err)
	}

	if err := writeOutput(*output, out); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
}

func parseFilter(expr string, env function.Environment) (*squiggly.Filter, error) {
	if env == function.Secure {
		return squiggly.ParseSecure(expr)
	}
	return squiggly.Parse(expr)
}

func readInput(name string) ([]byte, error) {
	var data []byte
	var err error
	if name == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(name, ".zst") {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(data, nil)
	}
	return data, nil
}

func writeOutput(name string, data []byte) error {
	if strings.HasSuffix(name, ".zst") {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return err
		}
		defer enc.Close()
		data = enc.EncodeAll(data, make([]byte, 0, len(data)))
	}

	if name == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(name, data, 0644)
}
