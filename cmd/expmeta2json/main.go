package main

import (
	"flag"
	"fmt"
	"os"

	expmeta "github.com/perfmeta/expmeta"
)

func main() {
	var (
		schema  bool
		lenient bool
		yamlIn  bool
		debug   bool
	)
	flag.BoolVar(&schema, "schema", false, "print the document JSON Schema to stdout and exit")
	flag.BoolVar(&lenient, "lenient", false, "ignore unknown fields instead of rejecting them")
	flag.BoolVar(&yamlIn, "yaml", false, "treat the input file as YAML")
	flag.BoolVar(&debug, "debug", false, "enable debug output on stderr")
	flag.Usage = usage
	flag.Parse()

	if schema {
		if flag.NArg() != 0 {
			usage()
			os.Exit(2)
		}
		out, err := expmeta.ExportSchemaJSON()
		if err != nil {
			fatalf("schema export: %v", err)
		}
		os.Stdout.Write(out)
		return
	}

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	path := flag.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fatalf("reading %s: %v", path, err)
	}
	logf(debug, "read %d bytes from %s", len(data), path)

	opt := expmeta.Options{}
	if lenient {
		opt.UnknownFields = expmeta.UnknownLenient
	}

	var out []byte
	if yamlIn {
		out, err = expmeta.ConvertYAML(data, opt)
	} else {
		out, err = expmeta.Convert(data, opt)
	}
	if err != nil {
		if iss, ok := expmeta.AsIssues(err); ok {
			fmt.Fprintf(os.Stderr, "%s: %d violation(s)\n", path, len(iss))
			for _, it := range iss {
				if it.Hint != "" {
					fmt.Fprintf(os.Stderr, "  %s: %s: %s (%s)\n", it.Path, it.Code, it.Message, it.Hint)
				} else {
					fmt.Fprintf(os.Stderr, "  %s: %s: %s\n", it.Path, it.Code, it.Message)
				}
			}
			os.Exit(1)
		}
		fatalf("%s: %v", path, err)
	}
	logf(debug, "document valid, %d bytes of JSON", len(out))
	os.Stdout.Write(out)
}

func usage() {
	fmt.Fprintln(os.Stderr, "expmeta2json converts an experiment metadata file into canonical JSON.\n\nUsage:\n  expmeta2json [-lenient] [-yaml] [-debug] <file>\n  expmeta2json -schema\n\nExactly one of <file> or -schema is required.")
}

func logf(debug bool, format string, a ...any) {
	if debug {
		fmt.Fprintf(os.Stderr, format+"\n", a...)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
