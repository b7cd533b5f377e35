package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/enverbisevac/cbn"
	"github.com/enverbisevac/cbn/errors"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

type app struct {
	v   *viper.Viper
	log logr.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{
		v:   viper.New(),
		log: logr.Discard(),
	}

	cmd := &cobra.Command{
		Use:           "cbn",
		Short:         "Paint the shared Colour by Numbers LED matrix",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfigFile(); err != nil {
				return err
			}
			a.log = newLogger(cmd.ErrOrStderr(), a.v.GetInt("verbose"))
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.InvalidArgument("%s", err.Error()).Source(err)
	})

	flags := cmd.PersistentFlags()
	flags.String("base-url", cbn.DefaultBaseURL, "service base URL")
	flags.Duration("timeout", cbn.DefaultTimeout, "bound on every request")
	flags.String("language", cbn.DefaultLanguage.String(), "Accept-Language tag sent to the service")
	flags.String("user-agent", cbn.DefaultUserAgent, "User-Agent sent to the service")
	flags.String("config", "", "config file (yaml, json or toml)")
	flags.CountP("verbose", "v", "increase log verbosity (-vv logs response bodies)")

	for _, name := range []string{"base-url", "timeout", "language", "user-agent", "config", "verbose"} {
		a.bindFlag(name, flags.Lookup(name))
	}

	a.v.SetEnvPrefix("CBN")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	cmd.AddCommand(
		newLockCommand(a),
		newPaintCommand(a),
		newSchemaCommand(),
		newVersionCommand(),
	)
	return cmd
}

func (a *app) bindFlag(name string, flag *pflag.Flag) {
	if flag == nil {
		panic(fmt.Sprintf("flag %q not found", name))
	}
	if err := a.v.BindPFlag(name, flag); err != nil {
		panic(err)
	}
}

func (a *app) loadConfigFile() error {
	path := strings.TrimSpace(a.v.GetString("config"))
	if path == "" {
		return nil
	}
	a.v.SetConfigFile(path)
	if err := a.v.ReadInConfig(); err != nil {
		return errors.InvalidArgument("read config file %q", path).Source(err)
	}
	return nil
}

// client builds a service client from flags, environment and config file.
func (a *app) client() (*cbn.Client, error) {
	raw := a.v.GetString("language")
	tag, err := language.Parse(raw)
	if err != nil {
		return nil, errors.InvalidArgument("invalid language %q", raw).Source(err)
	}

	return cbn.New(a.v.GetString("base-url"),
		cbn.WithTimeout(a.v.GetDuration("timeout")),
		cbn.WithLanguage(tag),
		cbn.WithUserAgent(a.v.GetString("user-agent")),
		cbn.WithLogger(a.log),
		cbn.WithDebug(a.v.GetInt("verbose") > 1),
	)
}

func (a *app) context(ctx context.Context) context.Context {
	return logr.NewContext(ctx, a.log.WithName("cbn"))
}

func newLogger(w io.Writer, verbosity int) logr.Logger {
	stdr.SetVerbosity(verbosity)
	return stdr.New(log.New(w, "", log.LstdFlags))
}
