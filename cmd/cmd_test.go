// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/parmahealth/parma/internal/json"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// the commands share the global viper instance, so these tests can't run in
// parallel.

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()

	var out bytes.Buffer
	cmd := Prepare()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestAnonymizeCmd(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out", "patients.csv")

	_, err := execute(t, "anonymize",
		"--input", "testdata/patients.csv",
		"--output", output,
		"--rules-file", "testdata/rules.yaml",
		"--workers", "2",
	)
	require.NoError(t, err)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	// sha256("salty|test_user")
	require.Equal(t, "name,age,ssn\n"+
		"Alice,30-39,e9c4920213f42ef1863c3c452365d251654a0eec0c8b83d333d5abef06eaa85c\n"+
		"Bob,20-29,\n", string(content))
}

func TestAnonymizeCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name:    "error - invalid input format",
			args:    []string{"anonymize", "--input", "in.xml", "--input-format", "xml", "--output", "out.csv"},
			wantErr: errInvalidInputFormat,
		},
		{
			name:    "error - invalid output format",
			args:    []string{"anonymize", "--input", "testdata/patients.csv", "--output", "out.parquet", "--output-format", "parquet"},
			wantErr: errInvalidOutputFormat,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, tc.args...)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestEncodeCmd(t *testing.T) {
	output := filepath.Join(t.TempDir(), "patients.toon")

	_, err := execute(t, "encode", "--input", "testdata/patients.csv", "--output", output)
	require.NoError(t, err)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Equal(t, `{"s":["name","age","ssn","notes"],"d":[["Alice",34,"test_user","allergic"],["Bob",25,null,null]]}`+"\n", string(content))

	_, err = execute(t, "encode")
	require.ErrorIs(t, err, errNoInput)
}

func TestValidateRulesCmd(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		out, err := execute(t, "validate", "rules", "-f", "testdata/rules.yaml")
		require.NoError(t, err)
		require.Equal(t, "Rules: 3\nValid: true\n", out)
	})

	t.Run("ok - json", func(t *testing.T) {
		out, err := execute(t, "validate", "rules", "-f", "testdata/rules.yaml", "--json")
		require.NoError(t, err)

		status := RulesStatus{}
		require.NoError(t, json.Unmarshal([]byte(out), &status))
		require.Equal(t, RulesStatus{Rules: 3, Valid: true}, status)
	})

	t.Run("ok - no rules", func(t *testing.T) {
		out, err := execute(t, "validate", "rules")
		require.NoError(t, err)
		require.Empty(t, out)
	})

	t.Run("error - invalid rules", func(t *testing.T) {
		out, err := execute(t, "validate", "rules", "-f", "testdata/invalid_rules.yaml", "--json")
		require.ErrorIs(t, err, errInvalidRules)

		status := RulesStatus{}
		require.NoError(t, json.Unmarshal([]byte(out), &status))
		require.Equal(t, 2, status.Rules)
		require.False(t, status.Valid)
		require.Len(t, status.Errors, 2)
	})
}

func TestRulesStatus_PrettyPrint(t *testing.T) {
	t.Parallel()

	status := &RulesStatus{Rules: 2, Errors: []string{"rule 0: unsupported action"}}
	require.Equal(t, "Rules: 2\nValid: false\nErrors:\n - rule 0: unsupported action", status.PrettyPrint())
}
