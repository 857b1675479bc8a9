// Команда analyze проверяет один извлечённый сертификат по документу
// спецификаций, не поднимая сервис.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"

	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/domain/service/analysis"
	"calibration_analyzer/internal/domain/value"
	"calibration_analyzer/internal/infrastructure/specsource"
	"calibration_analyzer/internal/report"
	"calibration_analyzer/internal/server"
	"calibration_analyzer/pkg/contextx"
	"calibration_analyzer/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var errUsage = errors.New("usage")

type options struct {
	certificate  string
	specs        string
	instructions string
	format       string
	colored      bool
	logLevel     string
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(2) //nolint:mnd // usage
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logx.NewLogger(os.Stderr, opts.logLevel, "")
	ctx = contextx.WithLogger(ctx, log)

	if err := run(ctx, opts, os.Stdin, os.Stdout); err != nil {
		log.Error("analysis failed", logx.Error(err))
		cancel()
		os.Exit(1) //nolint:gocritic
	}
}

func parseFlags(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.StringVar(&opts.certificate, "certificate", "-", "extracted certificate JSON, - for stdin")
	fs.StringVar(&opts.specs, "specs", "", "specification document (.json, .yaml, .yml)")
	fs.StringVar(&opts.instructions, "instructions", "", "custom instructions for the summary")
	fs.StringVar(&opts.format, "format", "text", "output format: text or json")
	fs.BoolVar(&opts.colored, "color", !color.NoColor, "colorize the text report")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level")

	if err := fs.Parse(args); err != nil {
		return options{}, err //nolint:wrapcheck
	}

	if opts.format != "text" && opts.format != "json" {
		return options{}, fmt.Errorf("%w: unknown format %q", errUsage, opts.format)
	}

	return opts, nil
}

func run(ctx context.Context, opts options, stdin io.Reader, stdout io.Writer) error {
	raw, err := readCertificate(opts.certificate, stdin)
	if err != nil {
		return err
	}

	var resolver analysis.SpecificationResolver

	if opts.specs != "" {
		static, err := specsource.NewStaticResolverFromFile(opts.specs)
		if err != nil {
			return fmt.Errorf("specsource.NewStaticResolverFromFile: %w", err)
		}

		resolver = static
	}

	result, err := analysis.NewService(resolver).Analyze(ctx, raw, opts.instructions)
	if err != nil {
		return fmt.Errorf("analysis.Analyze: %w", err)
	}

	return write(stdout, opts, result)
}

func readCertificate(path string, stdin io.Reader) (value.RawCertificate, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return value.RawCertificate{}, fmt.Errorf("read certificate: %w", err)
	}

	raw, err := value.DecodeRawCertificate(data)
	if err != nil {
		return value.RawCertificate{}, fmt.Errorf("value.DecodeRawCertificate: %w", err)
	}

	return raw, nil
}

func write(w io.Writer, opts options, result entity.AnalysisResult) error {
	if opts.format == "text" {
		return report.NewPrinter(opts.colored).Render(w, result) //nolint:wrapcheck
	}

	body, err := json.MarshalIndent(server.NewRESTAnalysisResult(result), "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	if _, err := fmt.Fprintln(w, string(body)); err != nil {
		return fmt.Errorf("fmt.Fprintln: %w", err)
	}

	return nil
}
