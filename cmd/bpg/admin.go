package main

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/blueprint/internal/capability"
	"github.com/matsen/blueprint/internal/config"
)

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminPassphraseCmd)
	adminCmd.AddCommand(adminAllowCmd)
	adminCmd.AddCommand(adminCheckCmd)
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage who may use edit mode",
	Long: `Manage the admin section of ~/.config/bpg/config.yml.

Edit mode (--edit) needs ` + capability.EnvAdminKey + ` to match the stored passphrase
hash when one is set. An email allowlist narrows that further: ` + capability.EnvAdminEmail + `
must also be on it. An allowlist without a passphrase trusts the claimed
email. Both may be set in a .env file. When neither is configured, --edit
is allowed.`,
}

var adminPassphraseCmd = &cobra.Command{
	Use:   "passphrase",
	Short: "Set the edit passphrase (read from stdin)",
	Args:  cobra.NoArgs,
	RunE:  runAdminPassphrase,
}

var adminAllowCmd = &cobra.Command{
	Use:   "allow <email>",
	Short: "Add an email to the edit allowlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminAllow,
}

var adminCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report whether the current environment unlocks edit mode",
	Args:  cobra.NoArgs,
	RunE:  runAdminCheck,
}

// AdminCheckResult is the response for the admin check command.
type AdminCheckResult struct {
	Configured bool `json:"configured"`
	Editable   bool `json:"editable"`
}

func runAdminPassphrase(cmd *cobra.Command, args []string) error {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		exitWithError(ExitError, "reading passphrase from stdin: %v", err)
	}
	hash, err := capability.HashPassphrase(strings.TrimRight(line, "\r\n"))
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	global := mustLoadGlobalConfig()
	global.Admin.PassphraseHash = hash
	if err := config.SaveGlobalConfig(global); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Println("Passphrase updated")
	} else {
		outputJSON(StatusResponse{Status: "updated", Path: config.GlobalConfigPath()})
	}
	return nil
}

func runAdminAllow(cmd *cobra.Command, args []string) error {
	email := strings.ToLower(strings.TrimSpace(args[0]))
	if !strings.Contains(email, "@") {
		exitWithError(ExitDataError, "invalid email %q", args[0])
	}

	global := mustLoadGlobalConfig()
	status := "unchanged"
	if !slices.Contains(global.Admin.Emails, email) {
		global.Admin.Emails = append(global.Admin.Emails, email)
		if err := config.SaveGlobalConfig(global); err != nil {
			exitWithError(ExitError, "%v", err)
		}
		status = "added"
	}

	if humanOutput {
		fmt.Printf("%s: %s\n", email, status)
	} else {
		outputJSON(UpdateResponse{Status: status, Key: "admin.emails", Value: email})
	}
	return nil
}

func runAdminCheck(cmd *cobra.Command, args []string) error {
	gate := capability.NewGate(mustLoadGlobalConfig().Admin)
	res := AdminCheckResult{Configured: gate.Configured()}
	res.Editable = !res.Configured || gate.Editable(credentials())

	if humanOutput {
		state := "locked"
		if res.Editable {
			state = "available"
		}
		fmt.Printf("%s edit mode %s\n", statusIcon(res.Editable), state)
		if !res.Configured {
			styleSubtle.Println("  no admin credentials configured")
		}
	} else {
		outputJSON(res)
	}
	return nil
}
