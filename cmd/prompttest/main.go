package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"latexme/internal/bootstrap"
	"latexme/internal/llm"
	"latexme/internal/prompt"
	"latexme/internal/shared/config"
)

type options struct {
	experiencePath string
	jdPath         string
	question       string
	policy         string
	guidelinesPath string
	send           bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "prompttest",
		Short:         "Compose LaTeXMe prompts and optionally send them to the configured provider",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.experiencePath, "experience", "", "path to a raw experience text file (default: built-in sample)")
	root.PersistentFlags().StringVar(&opts.jdPath, "jd", "", "path to a job description text file (default: built-in sample)")
	root.PersistentFlags().BoolVar(&opts.send, "send", false, "send the prompt to the configured provider and print the result")

	resume := &cobra.Command{
		Use:   "resume",
		Short: "Compose the resume prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, prompt.KindResume)
		},
	}
	resume.Flags().StringVar(&opts.policy, "policy", "", "content policy: strict or embellish (default from CONTENT_POLICY)")
	resume.Flags().StringVar(&opts.guidelinesPath, "guidelines", "", "path to a recruiter guidelines file (default: built-in)")

	ask := &cobra.Command{
		Use:   "ask",
		Short: "Compose the question-answering prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, prompt.KindAnswer)
		},
	}
	ask.Flags().StringVar(&opts.question, "question", "", "question to ask about the candidate's fit")

	root.AddCommand(resume, ask)
	return root
}

func run(cmd *cobra.Command, opts *options, kind prompt.Kind) error {
	cfg := config.Load()

	in, err := buildInput(cfg, opts, kind)
	if err != nil {
		return err
	}
	text, err := prompt.Compose(kind, in)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !opts.send {
		_, err = fmt.Fprintln(out, text)
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	gateway, err := bootstrap.BuildLLM(ctx, cfg)
	if err != nil {
		return err
	}
	variant := llm.VariantDocument
	if kind == prompt.KindAnswer {
		variant = llm.VariantAnswer
	}
	result, err := gateway.Generate(ctx, text, variant)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, result)
	return err
}

func buildInput(cfg config.Config, opts *options, kind prompt.Kind) (prompt.Input, error) {
	experience, err := readOr(opts.experiencePath, prompt.SampleExperience())
	if err != nil {
		return prompt.Input{}, err
	}
	jd, err := readOr(opts.jdPath, prompt.SampleJobDescription())
	if err != nil {
		return prompt.Input{}, err
	}
	in := prompt.Input{RawExperience: experience, JobDescription: jd}

	if kind == prompt.KindAnswer {
		if strings.TrimSpace(opts.question) == "" {
			return prompt.Input{}, fmt.Errorf("--question is required")
		}
		in.Question = opts.question
		return in, nil
	}

	policyName := opts.policy
	if policyName == "" {
		policyName = cfg.ContentPolicy
	}
	if in.Policy, err = prompt.ParsePolicy(policyName); err != nil {
		return prompt.Input{}, err
	}
	guidelinesPath := opts.guidelinesPath
	if guidelinesPath == "" {
		guidelinesPath = cfg.GuidelinesFile
	}
	if in.Guidelines, err = readOr(guidelinesPath, prompt.DefaultGuidelines()); err != nil {
		return prompt.Input{}, err
	}
	return in, nil
}

func readOr(path, fallback string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
