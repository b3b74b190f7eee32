// cmd/agroctl/main.go
//
// Operator CLI: schema migrations and admin accounts.
//
//	agroctl migrate
//	agroctl admin create --email a@b.c --name "Office" --role editor
//	agroctl admin passwd --email a@b.c
//
// Passwords come from --password, $AGROCMS_ADMIN_PASSWORD, or the first line of
// stdin, in that order.  Configuration is loaded exactly like cmd/web.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "agroctl",
	Short:         "Administer an AgroCMS installation",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
