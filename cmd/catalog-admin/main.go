// Command catalog-admin runs the storefront administration API.
//
// @title                       Catalog Admin API
// @version                     1.0
// @description                 Authentication and catalog administration for the storefront.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "catalog-admin",
	Short:         "Storefront administration API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("catalog-admin: " + err.Error() + "\n")
		os.Exit(1)
	}
}
