// Command docextract prints the text the web app would extract from local files and
// can optionally run one instruction against them.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/kirillkom/legal-doc-simplifier/internal/bootstrap"
	"github.com/kirillkom/legal-doc-simplifier/internal/config"
	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
	"github.com/kirillkom/legal-doc-simplifier/internal/core/usecase"
	"github.com/kirillkom/legal-doc-simplifier/internal/infrastructure/extractor"
	"github.com/kirillkom/legal-doc-simplifier/internal/observability/logging"
)

var (
	mode        = flag.String("mode", "", "Run an instruction after extraction: answer-question, summarize, suggest-questions or action-items")
	question    = flag.String("question", "", "Question for -mode=answer-question")
	temperature = flag.Float64("temp", 0.2, "Sampling temperature in [0,1]")
	quiet       = flag.Bool("quiet", false, "Do not print extracted text")
	logLevel    = flag.String("log-level", "warn", "Log level for extractor diagnostics")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: docextract [flags] file...\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New(os.Stderr, "docextract", *logLevel)
	if err := run(ctx, logger, os.Stdout, flag.Args()); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, out io.Writer, paths []string) error {
	header := color.New(color.FgCyan, color.Bold).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()
	failed := color.New(color.FgRed).SprintFunc()

	textExtractor := extractor.New(logger)
	var texts []string
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		text, err := textExtractor.Extract(ctx, path, data)
		format := domain.FormatFromFilename(path)
		switch {
		case err != nil:
			fmt.Fprintf(out, "%s %s\n", header("==> "+path), failed(err.Error()))
			continue
		case format == domain.FormatUnsupported:
			fmt.Fprintf(out, "%s %s\n", header("==> "+path), warn("unsupported format, skipped"))
			continue
		}

		texts = append(texts, text)
		fmt.Fprintf(out, "%s (%s, %d chars)\n", header("==> "+path), format, len(text))
		if !*quiet {
			fmt.Fprintln(out, text)
		}
	}

	if *mode == "" {
		return nil
	}
	if len(texts) == 0 {
		return fmt.Errorf("no readable documents for -mode=%s", *mode)
	}
	return instruct(ctx, out, texts, header, failed)
}

func instruct(ctx context.Context, out io.Writer, texts []string, header, failed func(a ...any) string) error {
	instruction := domain.InstructionMode(*mode)
	if instruction == domain.ModeAnswerQuestion && strings.TrimSpace(*question) == "" {
		return fmt.Errorf("-question is required for -mode=%s", instruction)
	}

	if err := godotenv.Load(); err != nil {
		slog.Debug("dotenv_not_loaded", "error", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	prompts, err := usecase.NewPromptBuilder(cfg.UILayout)
	if err != nil {
		return err
	}
	prompt, err := prompts.Build(instruction, texts, *question)
	if err != nil {
		return err
	}

	generator, err := bootstrap.NewGenerator(ctx, cfg, nil)
	if err != nil {
		return err
	}
	gen := usecase.NewModelGateway(generator, cfg.LLMModel, nil).GenerateForMode(ctx, instruction, prompt, *temperature)

	fmt.Fprintf(out, "\n%s\n", header("==> "+string(instruction)))
	if !gen.OK() {
		fmt.Fprintln(out, failed(gen.Display()))
		return nil
	}
	fmt.Fprintln(out, gen.Display())
	return nil
}
