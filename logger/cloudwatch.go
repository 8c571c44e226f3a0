package logger

import (
	"context"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// CloudWatch accepts at most this many datums per PutMetricData call.
const maxDatumsPerPut = 1000

var cwClient *cloudwatch.Client
var cwNamespace = "MacroFlow"

// InitCloudWatch initialises the CloudWatch client using the provided region
// and namespace. If region is empty it falls back to AWS_REGION. When the
// client cannot be created metrics publishing stays disabled.
func InitCloudWatch(ctx context.Context, region, namespace string) {
	log := GetLogger().WithComponent("cloudwatch")

	if region == "" {
		region = os.Getenv("AWS_REGION")
	}

	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.WithError(err).Warn("failed to load AWS configuration; CloudWatch metrics disabled")
		return
	}

	cwClient = cloudwatch.NewFromConfig(cfg)
	if namespace != "" {
		cwNamespace = namespace
	}

	log.WithFields(Fields{"region": region, "namespace": cwNamespace}).Info("initialized CloudWatch client")
}

// publishMetrics sends metric data to CloudWatch when the client has been
// initialised.
func publishMetrics(ctx context.Context, data []cwtypes.MetricDatum) {
	log := GetLogger().WithComponent("cloudwatch")
	if cwClient == nil {
		log.Debug("CloudWatch client not initialized; skipping metric publish")
		return
	}
	if len(data) == 0 {
		return
	}

	for start := 0; start < len(data); start += maxDatumsPerPut {
		end := start + maxDatumsPerPut
		if end > len(data) {
			end = len(data)
		}
		batch := data[start:end]
		if _, err := cwClient.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(cwNamespace),
			MetricData: batch,
		}); err != nil {
			log.WithError(err).Warn("failed to publish CloudWatch metrics")
			return
		}

		names := make([]string, 0, len(batch))
		for _, datum := range batch {
			if datum.MetricName != nil {
				names = append(names, *datum.MetricName)
			}
		}
		log.WithField("metrics", strings.Join(names, ",")).Debug("published metrics to CloudWatch")
	}
}
