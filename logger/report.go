package logger

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

type componentStat struct {
	warns  int64
	errors int64
}

type providerStat struct {
	requests     int64
	observations int64
}

var (
	components sync.Map // map[string]*componentStat
	providers  sync.Map // map[string]*providerStat
)

func componentFor(name string) *componentStat {
	v, _ := components.LoadOrStore(name, &componentStat{})
	return v.(*componentStat)
}

func providerFor(name string) *providerStat {
	v, _ := providers.LoadOrStore(name, &providerStat{})
	return v.(*providerStat)
}

func recordWarn(component string) {
	atomic.AddInt64(&componentFor(component).warns, 1)
}

func recordError(component string) {
	atomic.AddInt64(&componentFor(component).errors, 1)
}

// RecordProviderRequest counts one HTTP request against a provider and the
// observations it returned.
func RecordProviderRequest(provider string, observations int) {
	ps := providerFor(provider)
	atomic.AddInt64(&ps.requests, 1)
	atomic.AddInt64(&ps.observations, int64(observations))
}

// ProviderRequests returns the request count recorded for provider.
func ProviderRequests(provider string) int64 {
	return atomic.LoadInt64(&providerFor(provider).requests)
}

// LogReport logs the accumulated counters and publishes them to CloudWatch.
func LogReport(ctx context.Context, log *Log) {
	componentData := map[string]map[string]int64{}
	components.Range(func(k, v any) bool {
		cs := v.(*componentStat)
		componentData[k.(string)] = map[string]int64{
			"warns":  atomic.LoadInt64(&cs.warns),
			"errors": atomic.LoadInt64(&cs.errors),
		}
		return true
	})
	providerData := map[string]map[string]int64{}
	providers.Range(func(k, v any) bool {
		ps := v.(*providerStat)
		providerData[k.(string)] = map[string]int64{
			"requests":     atomic.LoadInt64(&ps.requests),
			"observations": atomic.LoadInt64(&ps.observations),
		}
		return true
	})

	log.WithComponent("report").WithFields(Fields{
		"goroutines": runtime.NumGoroutine(),
		"components": componentData,
		"providers":  providerData,
	}).Info("run report")

	var data []cwtypes.MetricDatum
	for _, name := range sortedKeys(providerData) {
		stats := providerData[name]
		dims := []cwtypes.Dimension{{Name: aws.String("provider"), Value: aws.String(name)}}
		data = append(data,
			cwtypes.MetricDatum{MetricName: aws.String("ProviderRequests"), Unit: cwtypes.StandardUnitCount, Dimensions: dims, Value: aws.Float64(float64(stats["requests"]))},
			cwtypes.MetricDatum{MetricName: aws.String("ProviderObservations"), Unit: cwtypes.StandardUnitCount, Dimensions: dims, Value: aws.Float64(float64(stats["observations"]))},
		)
	}
	for _, name := range sortedKeys(componentData) {
		stats := componentData[name]
		dims := []cwtypes.Dimension{{Name: aws.String("component"), Value: aws.String(name)}}
		data = append(data,
			cwtypes.MetricDatum{MetricName: aws.String("Warnings"), Unit: cwtypes.StandardUnitCount, Dimensions: dims, Value: aws.Float64(float64(stats["warns"]))},
			cwtypes.MetricDatum{MetricName: aws.String("Errors"), Unit: cwtypes.StandardUnitCount, Dimensions: dims, Value: aws.Float64(float64(stats["errors"]))},
		)
	}

	publishMetrics(ctx, data)
}

func sortedKeys(m map[string]map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
