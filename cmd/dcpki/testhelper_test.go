package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
)

// executeCommand executes a Cobra command with the given args and returns output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err = root.Execute()
	return buf.String(), err
}

// resetGenFlags resets gen command flags to their default values.
// Cobra retains flag values between test runs.
func resetGenFlags() {
	genOutDir = "chains"
	genProfile = ""
	genOrg = ""
	genOU = ""
	genDays = 0
	genPassphrase = ""
	genCmd.SilenceUsage = false
}

func resetVerifyFlags() {
	verifyOutDir = "chains"
	verifyCmd.SilenceUsage = false
}

func resetInfoFlags() {
	infoOutDir = "chains"
	infoJSON = false
	infoCmd.SilenceUsage = false
}

// assertNoError fails the test if err is not nil.
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assertError fails the test if err is nil.
func assertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
