// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/treehill/reverso"
	"github.com/treehill/reverso/config"
)

type app struct {
	configPath string
	from       string
	to         string
	target     bool

	stdin io.Reader
}

// run executes the command line in args and returns the process exit
// code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin}
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		red := color.New(color.FgRed)
		_, _ = red.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reverso",
		Short:         "Translate text and HTML with the Reverso API",
		Version:       reverso.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML configuration file")
	root.PersistentFlags().StringVar(&a.from, "from", "", "source language code (empty to detect)")
	root.PersistentFlags().StringVar(&a.to, "to", "", "target language code")

	root.AddCommand(a.translateCmd("text", "Translate plain text", false))
	root.AddCommand(a.translateCmd("html", "Translate an HTML document", true))
	root.AddCommand(a.languagesCmd())
	return root
}

func (a *app) translator() (*reverso.Translator, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	return reverso.NewFromConfig(cfg)
}

func (a *app) translateCmd(name, short string, html bool) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [TEXT...]",
		Short: short,
		Long:  short + ". With no TEXT, the input is read from standard input.",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := a.input(args)
			if err != nil {
				return err
			}
			t, err := a.translator()
			if err != nil {
				return err
			}
			translate := t.TranslateText
			if html {
				translate = t.TranslateHTML
			}
			res, err := translate(cmd.Context(), input, a.from, a.to, nil)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			if err == nil && res.Truncated {
				_, err = fmt.Fprintf(cmd.ErrOrStderr(), "warning: translation truncated, %d words left\n", res.WordsLeft)
			}
			return err
		},
	}
}

func (a *app) languagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List supported source or target languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := a.translator()
			if err != nil {
				return err
			}
			langs, err := t.Languages(cmd.Context(), a.target)
			if err != nil {
				return err
			}
			for _, l := range langs {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), l); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&a.target, "target", false, "list target languages instead of source languages")
	return cmd
}

func (a *app) input(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}
