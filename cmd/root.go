package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"frafos.com/kbsearch/awsauth"
	"frafos.com/kbsearch/config"
	"frafos.com/kbsearch/es"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultZoid = 2

var (
	CredentialSource string
	Profile          string
	Host             string
	Region           string
	Zoid             int
	Index            string
	Verbose          int
	ConfigPath       string

	settings  *config.Source
	logger    = zap.NewNop()
	startTime time.Time

	rootCmd = &cobra.Command{
		Use:               "kbsearch",
		Short:             "Search and manage knowledge-base indices on AWS Elasticsearch",
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: elapsed,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&CredentialSource, "credentials", "c",
		string(awsauth.SourceFile), "credential source: file, env or none")
	rootCmd.PersistentFlags().StringVar(&Profile, "profile", "",
		"profile of the shared credentials file")
	rootCmd.PersistentFlags().StringVar(&Host, "host", "",
		"Elasticsearch domain hostname ($"+config.HostKey+")")
	rootCmd.PersistentFlags().StringVar(&Region, "region", "",
		"AWS region ($"+config.RegionKey+", default "+awsauth.DefaultRegion+")")
	rootCmd.PersistentFlags().IntVarP(&Zoid, "zoid", "z", defaultZoid,
		"bot id, selects the bot<zoid> index")
	rootCmd.PersistentFlags().StringVar(&Index, "index", "",
		"index name, overrides --zoid")
	rootCmd.PersistentFlags().IntVarP(&Verbose, "verbose", "v", 1,
		"verbosity of output")
	rootCmd.PersistentFlags().StringVar(&ConfigPath, "config", config.DefaultPropertiesPath(),
		"properties file with default settings")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(createIndexCmd)
	rootCmd.AddCommand(deleteIndexCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(domainsCmd)
}

// fill the flags left unset from the environment and the config files
func setup(cmd *cobra.Command, args []string) error {
	startTime = time.Now()
	logger = config.NewLogger(Verbose)

	s, err := config.Load(ConfigPath, config.DefaultDotenvFile,
		cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	settings = s

	flags := cmd.Flags()
	if !flags.Changed("credentials") {
		CredentialSource = settings.GetDefault(config.CredentialsKey, CredentialSource)
	}
	if !flags.Changed("host") {
		Host = settings.Get(config.HostKey)
	}
	if !flags.Changed("region") {
		Region = settings.Region()
	}
	if !flags.Changed("profile") {
		Profile = settings.Get(config.ProfileKey)
	}

	logger.Debug("settings",
		zap.String("credentials", CredentialSource),
		zap.String("host", Host),
		zap.String("region", Region),
		zap.String("index", targetIndex(nil)))
	return nil
}

func elapsed(cmd *cobra.Command, args []string) {
	fmt.Fprintf(cmd.OutOrStdout(), "Elapsed time: %d seconds\n", int(time.Since(startTime).Seconds()))
	_ = logger.Sync()
}

// index named by the first argument, then --index, then --zoid
func targetIndex(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if Index != "" {
		return Index
	}
	return es.IndexName(Zoid)
}

func resolveCredentials(ctx context.Context) (*awsauth.Credentials, error) {
	source, err := awsauth.ParseSource(CredentialSource)
	if err != nil {
		return nil, err
	}
	getenv := os.Getenv
	if settings != nil {
		getenv = settings.Get
	}
	return awsauth.Resolve(ctx, awsauth.Options{
		Source:  source,
		Profile: Profile,
		Region:  Region,
		Getenv:  getenv,
	})
}

// create a signed es client bound to the domain
func newClient(ctx context.Context) (*es.EsClient, *awsauth.Credentials, error) {
	creds, err := resolveCredentials(ctx)
	if err != nil {
		return nil, nil, err
	}

	addr, err := config.Endpoint(Host, !creds.Signed())
	if err != nil {
		return nil, nil, err
	}

	transport, err := awsauth.NewTransport(creds, http.DefaultTransport)
	if err != nil {
		return nil, nil, err
	}

	client, err := es.NewEsClient(es.Config{
		Address:   addr,
		Transport: transport,
		Logger:    logger,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("client ready", zap.String("address", addr),
		zap.String("credentials", string(creds.Source)),
		zap.String("region", creds.Config.Region))
	return client, creds, nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}
