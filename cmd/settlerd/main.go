package main

import (
	"context"
	_ "net/http/pprof"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/textileio/cli"
	golog "github.com/textileio/go-log/v2"
	"github.com/textileio/settlement-core/cmd/common"
	"github.com/textileio/settlement-core/cmd/settlerd/queue"
	"github.com/textileio/settlement-core/cmd/settlerd/service"
	"github.com/textileio/settlement-core/cmd/settlerd/settler"
	"github.com/textileio/settlement-core/finalizer"
	"github.com/textileio/settlement-core/logging"
	"github.com/textileio/settlement-core/msgbroker"
	"github.com/textileio/settlement-core/msgbroker/gpubsub"
)

var (
	daemonName = "settlerd"
	log        = golog.Logger(daemonName)
	v          = viper.New()

	// secrets are masked in the logged config.
	secrets = []string{"stripe-secret-key", "gpubsub-api-key", "postgres-uri"}
)

func init() {
	flags := []cli.Flag{
		{Name: "postgres-uri", DefValue: "", Description: "PostgreSQL URI of the auction store"},
		{Name: "redis-url", DefValue: "redis://127.0.0.1:6379/0", Description: "Redis URL of the job queue"},
		{Name: "stripe-secret-key", DefValue: "", Description: "Stripe secret key"},
		{Name: "max-retry-count", DefValue: 100, Description: "Max attempts of a settlement job"},
		{Name: "application-fee-rate", DefValue: "0.15", Description: "Platform fee rate of every charge"},
		{Name: "currency", DefValue: "usd", Description: "Currency of charges"},
		{Name: "tick-interval", DefValue: time.Second, Description: "Delay between scans for settleable auctions"},
		{Name: "start-delay", DefValue: time.Second, Description: "Delay before the first scan"},
		{Name: "grace-period", DefValue: time.Second * 20, Description: "Time after an auction end before it's settled"},
		{Name: "scan-page-size", DefValue: 100, Description: "Page size when scanning for settleable auctions"},
		{Name: "drain-timeout", DefValue: time.Second * 30, Description: "Max wait for in-flight jobs on shutdown"},
		{Name: "retry-failed-charges", DefValue: false, Description: "Retry declined bids in later settlement attempts"},
		{Name: "retry-in-doubt-charges", DefValue: true, Description: "Retry bids with unrecorded charge outcomes"},
		{Name: "queue-concurrency", DefValue: 1, Description: "Settlement jobs processed in parallel"},
		{Name: "queue-prefix", DefValue: "settler:", Description: "Prefix of the job queue redis keys"},
		{Name: "queue-lease-duration", DefValue: time.Second * 30, Description: "Lease duration of settlement jobs"},
		{Name: "queue-retention", DefValue: time.Hour * 24, Description: "Dedup window of finished settlement jobs"},
		{Name: "gpubsub-project-id", DefValue: "", Description: "Google PubSub project id"},
		{Name: "gpubsub-api-key", DefValue: "", Description: "Google PubSub API key"},
		{Name: "msgbroker-topic-prefix", DefValue: "", Description: "Topic prefix to use for msg broker topics"},
		{Name: "msgbroker-max-outstanding", DefValue: 10, Description: "Settlement requests handled concurrently"},
		{Name: "metrics-addr", DefValue: ":9090", Description: "Prometheus listen address"},
		{Name: "log-debug", DefValue: false, Description: "Enable debug level logging"},
		{Name: "log-json", DefValue: false, Description: "Enable structured logging"},
		{Name: "log-levels", DefValue: "", Description: "Per-system log levels, e.g. settler/queue=debug,stripegw=warn"},
	}

	cli.ConfigureCLI(v, "SETTLER", flags, rootCmd.Flags())
}

var rootCmd = &cobra.Command{
	Use:   daemonName,
	Short: "settlerd charges the winning bids of ended auctions",
	Long:  "settlerd charges the winning bids of ended auctions",
	PersistentPreRun: func(c *cobra.Command, args []string) {
		cli.ExpandEnvVars(v, v.AllSettings())
		err := cli.ConfigureLogging(v, []string{
			daemonName,
			"settler",
			"settler/queue",
			"settler/store",
			"settler/service",
			"stripegw",
			"gpubsub",
		})
		cli.CheckErrf("setting log levels: %v", err)
		err = logging.ApplyLogLevels(v.GetString("log-levels"))
		cli.CheckErrf("setting per-system log levels: %v", err)
	},
	Run: func(c *cobra.Command, args []string) {
		settings, err := cli.MarshalConfig(v, !v.GetBool("log-json"), secrets...)
		cli.CheckErr(err)
		log.Infof("loaded config: %s", string(settings))

		err = common.SetupInstrumentation(v.GetString("metrics-addr"))
		cli.CheckErrf("booting instrumentation: %v", err)

		fin := finalizer.NewFinalizer()
		ctx, cancel := context.WithCancel(context.Background())
		fin.Add(finalizer.NewContextCloser(cancel))

		var mb msgbroker.MsgBroker
		if projectID := v.GetString("gpubsub-project-id"); projectID != "" {
			pubsub, err := gpubsub.New(
				projectID,
				v.GetString("gpubsub-api-key"),
				v.GetString("msgbroker-topic-prefix"),
				daemonName)
			cli.CheckErrf("creating google pubsub client: %v", err)
			fin.Add(pubsub)
			mb = pubsub
		} else {
			log.Warn("no message broker configured, settlement events won't be published")
		}

		config := service.Config{
			PostgresURI:     v.GetString("postgres-uri"),
			RedisURL:        v.GetString("redis-url"),
			StripeSecretKey: v.GetString("stripe-secret-key"),

			MaxOutstandingRequests: v.GetInt("msgbroker-max-outstanding"),

			QueueOptions: []queue.Option{
				queue.WithPrefix(v.GetString("queue-prefix")),
				queue.WithConcurrency(v.GetInt("queue-concurrency")),
				queue.WithLeaseDuration(v.GetDuration("queue-lease-duration")),
				queue.WithRetention(v.GetDuration("queue-retention")),
			},
			SettlerOptions: []settler.Option{
				settler.WithMaxRetryCount(v.GetInt("max-retry-count")),
				settler.WithApplicationFeeRate(v.GetFloat64("application-fee-rate")),
				settler.WithCurrency(v.GetString("currency")),
				settler.WithTickInterval(v.GetDuration("tick-interval")),
				settler.WithStartDelay(v.GetDuration("start-delay")),
				settler.WithGracePeriod(v.GetDuration("grace-period")),
				settler.WithPageSize(v.GetInt("scan-page-size")),
				settler.WithDrainTimeout(v.GetDuration("drain-timeout")),
				settler.WithRetryFailedCharges(v.GetBool("retry-failed-charges")),
				settler.WithRetryInDoubtCharges(v.GetBool("retry-in-doubt-charges")),
			},
		}
		serv, err := service.New(config, mb)
		cli.CheckErrf("creating service: %v", err)
		fin.Add(serv)

		err = serv.Start(ctx)
		cli.CheckErrf("starting service: %v", err)

		cli.HandleInterrupt(func() {
			cli.CheckErr(fin.Cleanupf("closing service: %v", nil))
		})
	},
}

func main() {
	cli.CheckErrf("loading .env: %v", common.LoadDotEnv())
	cli.CheckErr(rootCmd.Execute())
}
