// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/parmahealth/parma/cmd/config"
	"github.com/parmahealth/parma/internal/json"
	"github.com/parmahealth/parma/pkg/anonymizer"
)

const trueStr = "true"

var errInvalidRules = errors.New("anonymization rules are invalid")

// parent command for validation subcommands
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate different parts of the parma configuration",
	}
}

func newValidateRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rules",
		Short:   "Validates the anonymization rules without reading any data",
		PreRunE: validateRulesFlagBinding,
		RunE:    validateRules,
		Example: `
	parma validate rules -f rules.yaml
	parma validate rules -c parma.yaml --json
	`,
	}

	cmd.Flags().StringP("rules-file", "f", "", "Path to a YAML file containing the anonymization rules to validate")
	cmd.Flags().Bool("json", false, "Output the validation status in JSON format")
	return cmd
}

func validateRulesFlagBinding(cmd *cobra.Command, _ []string) error {
	bindRulesFlags(cmd)
	return nil
}

func validateRules(cmd *cobra.Command, _ []string) error {
	sp, _ := pterm.DefaultSpinner.WithWriter(cmd.ErrOrStderr()).WithText("validating anonymization rules...").Start()

	err := func() error {
		pipelineConfig, err := config.ParsePipelineConfig()
		if err != nil {
			return fmt.Errorf("parsing anonymization rules: %w", err)
		}

		rules := pipelineConfig.Anonymizer
		if rules.HasNoRules() {
			sp.Success("no anonymization rules to validate")
			return nil
		}

		status := newRulesStatus(&rules, anonymizer.Validate(&rules))
		if status.Valid {
			sp.Success("anonymization rules are valid")
		} else {
			sp.Warning("validation identified issues: ", strings.Join(status.Errors, ", "))
		}

		if err := print(cmd, status); err != nil {
			return fmt.Errorf("failed to format rules validation status: %w", err)
		}

		if !status.Valid {
			return errInvalidRules
		}
		return nil
	}()
	if err != nil && !errors.Is(err, errInvalidRules) {
		sp.Fail(err.Error())
	}

	return err
}

// RulesStatus is the outcome of the rules validation.
type RulesStatus struct {
	Rules  int      `json:"rules"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

func newRulesStatus(cfg *anonymizer.Config, errs []*anonymizer.ConfigurationError) *RulesStatus {
	status := &RulesStatus{
		Rules: len(cfg.Rules),
		Valid: len(errs) == 0,
	}
	for _, err := range errs {
		status.Errors = append(status.Errors, err.Error())
	}
	return status
}

func (s *RulesStatus) PrettyPrint() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Rules: %d\n", s.Rules)
	fmt.Fprintf(&sb, "Valid: %t\n", s.Valid)
	if len(s.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range s.Errors {
			fmt.Fprintf(&sb, " - %s\n", e)
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

type printer interface {
	PrettyPrint() string
}

func print(cmd *cobra.Command, p printer) error {
	str := p.PrettyPrint()
	if cmd.Flags().Lookup("json").Value.String() == trueStr {
		jsonData, err := json.MarshalIndent(p, "", "\t")
		if err != nil {
			return err
		}
		str = string(jsonData)
	}

	fmt.Fprintln(cmd.OutOrStdout(), str)
	return nil
}
