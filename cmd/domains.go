package cmd

import (
	"os"

	"frafos.com/kbsearch/awsauth"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	Describe   bool
	domainsCmd = &cobra.Command{
		Use:   "domains",
		Short: "List the Elasticsearch domains of the account",
		Args:  cobra.NoArgs,
		RunE:  runDomains,
	}
)

func init() {
	domainsCmd.Flags().BoolVar(&Describe, "describe", false,
		"show endpoint and version of every domain")
}

func runDomains(cmd *cobra.Command, args []string) error {
	creds, err := resolveCredentials(cmd.Context())
	if err != nil {
		return err
	}
	if !creds.Signed() {
		return errors.New("listing domains needs AWS credentials, use --credentials file or env")
	}

	domains, err := awsauth.ListDomains(cmd.Context(), awsauth.NewDomainsClient(creds), Describe)
	if err != nil {
		return err
	}
	awsauth.PrintDomains(os.Stdout, domains, Describe)
	return nil
}
