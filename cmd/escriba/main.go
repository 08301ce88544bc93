// Command escriba generates Brazilian real-estate documents from JSON
// payloads: one subcommand per document kind.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/escribadocs/escriba/pkg/docgen"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "escriba",
		Short:         "Gera documentos imobiliários a partir de modelos",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default: ./escriba.yaml)")
	flags.String("templates", "templates", "template directory")
	flags.String("out", "out", "output directory")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	_ = v.BindPFlag("templates", flags.Lookup("templates"))
	_ = v.BindPFlag("out", flags.Lookup("out"))
	_ = v.BindPFlag("log-level", flags.Lookup("log-level"))

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		v.SetEnvPrefix("ESCRIBA")
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()
		if cfg, _ := flags.GetString("config"); cfg != "" {
			v.SetConfigFile(cfg)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("read config: %w", err)
			}
		}
		return nil
	}

	root.AddCommand(
		newGenerateCmd(v, "corretagem", "Gera contrato de corretagem",
			func(svc *docgen.Service, cmd *cobra.Command, data []byte) (string, error) {
				var p docgen.BrokerageContractPayload
				if err := json.Unmarshal(data, &p); err != nil {
					return "", fmt.Errorf("decode payload: %w", err)
				}
				return svc.BrokerageContract(cmd.Context(), p)
			}),
		newGenerateCmd(v, "visita", "Gera declaração de visita",
			func(svc *docgen.Service, cmd *cobra.Command, data []byte) (string, error) {
				var p docgen.VisitDeclarationPayload
				if err := json.Unmarshal(data, &p); err != nil {
					return "", fmt.Errorf("decode payload: %w", err)
				}
				return svc.VisitDeclaration(cmd.Context(), p)
			}),
		newGenerateCmd(v, "promessa", "Gera promessa de compra e venda",
			func(svc *docgen.Service, cmd *cobra.Command, data []byte) (string, error) {
				var p docgen.SalePromisePayload
				if err := json.Unmarshal(data, &p); err != nil {
					return "", fmt.Errorf("decode payload: %w", err)
				}
				return svc.SalePromise(cmd.Context(), p)
			}),
		newGenerateCmd(v, "laudo", "Gera laudo de avaliação (PPTX)",
			func(svc *docgen.Service, cmd *cobra.Command, data []byte) (string, error) {
				var p docgen.AppraisalPayload
				if err := json.Unmarshal(data, &p); err != nil {
					return "", fmt.Errorf("decode payload: %w", err)
				}
				return svc.AppraisalReport(cmd.Context(), p)
			}),
	)
	return root
}

type generateFunc func(svc *docgen.Service, cmd *cobra.Command, payload []byte) (string, error)

func newGenerateCmd(v *viper.Viper, use, short string, run generateFunc) *cobra.Command {
	var payloadPath string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(v.GetString("log-level"))
			if err != nil {
				return err
			}
			defer logger.Sync()

			data, err := readPayload(payloadPath)
			if err != nil {
				return err
			}
			svc := docgen.New(docgen.Options{
				TemplateDir: v.GetString("templates"),
				OutputDir:   v.GetString("out"),
				Logger:      logger,
			})
			out, err := run(svc, cmd, data)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&payloadPath, "payload", "p", "-", "JSON payload file (- for stdin)")
	return cmd
}

func readPayload(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return data, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("bad log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
