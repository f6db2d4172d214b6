package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/polyxml"
	"github.com/wippyai/polyxml/examples/sample"
)

func main() {
	var (
		inFile      = flag.String("in", "", "Document to inspect")
		configFile  = flag.String("config", "", "TOML file overriding serializer options")
		showSample  = flag.Bool("sample", false, "Print the sample document and exit")
		roundTrip   = flag.Bool("roundtrip", false, "Decode as a list of sample classes and encode again")
		showSchema  = flag.Bool("schema", false, "Print the WIT description of the sample types")
		interactive = flag.Bool("i", false, "Browse the document in a TUI")
		verbose     = flag.Bool("v", false, "Log decoding and registry activity to stderr")
	)
	flag.Parse()

	if *inFile == "" && !*showSample && !*showSchema && !*roundTrip && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: polyxml -in <doc.xml> [-roundtrip] [-config opts.toml] [-v]")
		fmt.Fprintln(os.Stderr, "       polyxml -sample")
		fmt.Fprintln(os.Stderr, "       polyxml -schema")
		fmt.Fprintln(os.Stderr, "       polyxml [-in <doc.xml>] -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()
		polyxml.SetLogger(log)
	}

	if err := run(*inFile, *configFile, *showSample, *roundTrip, *showSchema, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(inFile, configFile string, showSample, roundTrip, showSchema, interactive bool) error {
	opts, err := loadOptions(configFile)
	if err != nil {
		return err
	}
	s, err := polyxml.New(opts)
	if err != nil {
		return fmt.Errorf("create serializer: %w", err)
	}
	p := newPrinter()

	switch {
	case showSample:
		return runSample(p, s)
	case showSchema:
		return runSchema(p, s)
	}

	title := inFile
	var data []byte
	if inFile != "" {
		data, err = os.ReadFile(inFile)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
	} else {
		title = "sample"
		if data, err = polyxml.Marshal(s, sample.GenerateSample1()); err != nil {
			return fmt.Errorf("serialize: %w", err)
		}
	}

	if interactive {
		return runInteractive(title, data)
	}
	if roundTrip {
		return runRoundTrip(p, s, data)
	}
	return runInspect(p, data)
}
