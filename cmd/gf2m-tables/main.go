package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ppopth/gf2m/field"
	"github.com/ppopth/gf2m/tables"

	"github.com/schollz/progressbar/v3"
)

func main() {
	var (
		degree = flag.Int("m", 8, "field degree, at most 20")
		poly   = flag.String("poly", "", "reducing polynomial in hexadecimal, default polynomial when empty")
		dir    = flag.String("dir", "tables", "output directory")
		quiet  = flag.Bool("q", false, "do not show progress")
	)
	flag.Parse()

	f, err := newField(*degree, *poly)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var opts []tables.Option
	if !*quiet {
		bar := progressbar.Default(int64(1)<<*degree - 1)
		opts = append(opts, tables.WithProgress(func(done, total int) {
			bar.Set(done)
		}))
	}

	t, err := tables.Generate(f, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Writing tables to disk...")
	if err := t.Save(*dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s, generator %d\n", f, t.Generator)
	fmt.Printf("  %s\n  %s\n", tables.ExpFile(*dir, t.M), tables.LogFile(*dir, t.M))
}

func newField(m int, poly string) (*field.BinaryField, error) {
	if m > tables.MaxDegree {
		return nil, fmt.Errorf("tables are limited to m <= %d", tables.MaxDegree)
	}
	if poly == "" {
		return field.NewBinaryField(m)
	}
	p, ok := new(big.Int).SetString(strings.TrimPrefix(poly, "0x"), 16)
	if !ok {
		return nil, fmt.Errorf("bad polynomial %q", poly)
	}
	return field.NewBinaryFieldWithPolynomial(m, p)
}
