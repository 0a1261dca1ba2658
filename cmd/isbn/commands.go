package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/yourusername/open-isbn/pkg/auth"
	"github.com/yourusername/open-isbn/pkg/config"
	"github.com/yourusername/open-isbn/pkg/isbn"
)

func NewRootCommand(fs afero.Fs, in io.Reader, out io.Writer) *cobra.Command {
	o := &GlobalOptions{fs: fs, in: in, out: out}

	c := &cobra.Command{
		Use:           "isbn",
		Short:         "Parse and validate ISO 2108 book numbers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			return o.Complete()
		},
	}
	c.SetIn(in)
	c.SetOut(out)
	o.BindFlags(c.PersistentFlags())

	c.AddCommand(
		newParseCommand(o),
		newValidateCommand(o),
		newCheckDigitCommand(o),
		newTokenCommand(o),
	)
	return c
}

func newParseCommand(o *GlobalOptions) *cobra.Command {
	asJSON := false

	c := &cobra.Command{
		Use:   "parse [TEXT...]",
		Short: "Decompose ISBNs into their elements",
		RunE: func(c *cobra.Command, args []string) error {
			inputs, err := o.inputs(args)
			if err != nil {
				return err
			}
			failed := false
			enc := json.NewEncoder(o.out)
			for _, text := range inputs {
				res := o.parser.ParseResult(text)
				if !res.OK() {
					failed = true
				}
				if asJSON {
					if err := enc.Encode(res); err != nil {
						return err
					}
					continue
				}
				if res.OK() {
					id := *res.ISBN
					fmt.Fprintf(o.out, "%s  %s  %s\n", okLabel("OK  "), o.render(id), dim(res.Agency))
				} else {
					fmt.Fprintf(o.out, "%s  %s  %s\n", failLabel("FAIL"), text, dim(res.Error))
				}
			}
			if failed {
				return errFailures
			}
			return nil
		},
	}
	c.Flags().BoolVar(&asJSON, "json", asJSON, "Print one JSON result per line")
	return c
}

func newValidateCommand(o *GlobalOptions) *cobra.Command {
	checksumOnly := false

	c := &cobra.Command{
		Use:   "validate [TEXT...]",
		Short: "Report whether each input is a valid ISBN",
		RunE: func(c *cobra.Command, args []string) error {
			inputs, err := o.inputs(args)
			if err != nil {
				return err
			}
			failed := false
			for _, text := range inputs {
				var ok bool
				if checksumOnly {
					ok = o.parser.ValidateChecksum(text)
				} else {
					ok = o.parser.IsValid(text)
				}
				if ok {
					fmt.Fprintf(o.out, "%s  %s\n", okLabel("OK  "), text)
				} else {
					failed = true
					fmt.Fprintf(o.out, "%s  %s\n", failLabel("FAIL"), text)
				}
			}
			if failed {
				return errFailures
			}
			return nil
		},
	}
	c.Flags().BoolVar(&checksumOnly, "checksum-only", checksumOnly, "Check the check digit without consulting the range table")
	return c
}

func newCheckDigitCommand(o *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check-digit DIGITS...",
		Short: "Compute the check character for 9 or 12 digits",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			failed := false
			for _, digits := range args {
				check, err := isbn.ComputeCheckDigit(digits)
				if err != nil {
					failed = true
					fmt.Fprintf(o.out, "%s  %s  %s\n", failLabel("FAIL"), digits, dim(err.Error()))
					continue
				}
				fmt.Fprintf(o.out, "%s%s\n", digits, check)
			}
			if failed {
				return errFailures
			}
			return nil
		},
	}
}

func newTokenCommand(o *GlobalOptions) *cobra.Command {
	var (
		username = "cli"
		role     = "user"
		ttl      = 24 * time.Hour
	)

	c := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the gateway API",
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := config.Load(o.fs)
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return fmt.Errorf("GATEWAY_JWT_SECRET is not set")
			}
			token, err := auth.NewTokenService(cfg.JWTSecret).GenerateToken(username, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(o.out, token)
			return nil
		},
	}
	c.Flags().StringVar(&username, "username", username, "Subject of the token")
	c.Flags().StringVar(&role, "role", role, "Role claim")
	c.Flags().DurationVar(&ttl, "ttl", ttl, "Token lifetime")
	return c
}
