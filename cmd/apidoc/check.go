package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/apidoc/internal/config"
	"github.com/dgallion1/apidoc/internal/ir"
)

func newCheckCmd() *cobra.Command {
	var (
		cfgPath string
		source  string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Lint an API reference file without rendering",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if source != "" {
				cfg.SourceDir = source
			}

			pkg, err := ir.Load(cfg.SourceDir, cfg.IRName)
			if err != nil {
				return err
			}

			issues := ir.Lint(pkg)
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(issues); err != nil {
					return err
				}
			} else {
				for _, is := range issues {
					loc := is.Module
					if is.Fqn != "" {
						loc = is.Fqn
					}
					fmt.Printf("%s: %s: %s\n", is.Severity, loc, is.Message)
				}
			}

			counts := map[string]int{}
			for _, mod := range pkg.Modules {
				for _, item := range mod.Items {
					counts[string(item.ItemKind())]++
				}
			}

			errs := ir.Count(issues, ir.SeverityError)
			warns := ir.Count(issues, ir.SeverityWarning)
			logger.Info("check complete",
				"modules", len(pkg.Modules), "items", counts,
				"errors", errs, "warnings", warns)
			if errs > 0 {
				return fmt.Errorf("%d error(s) found", errs)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file path")
	cmd.Flags().StringVarP(&source, "source", "s", "", "directory holding the API reference file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit issues as JSON")

	return cmd
}
