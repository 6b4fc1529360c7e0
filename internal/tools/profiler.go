// In file: internal/tools/profiler.go
package tools

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ToolProfile tracks latency and reliability metrics for one tool.
type ToolProfile struct {
	ToolName        string    `json:"tool_name" redis:"tool_name"`
	AvgLatencyMS    int64     `json:"avg_latency_ms" redis:"avg_latency_ms"`
	TotalSuccesses  int64     `json:"total_successes" redis:"total_successes"`
	TotalFailures   int64     `json:"total_failures" redis:"total_failures"`
	ErrorRate       float64   `json:"error_rate" redis:"error_rate"`
	LastFailureKind string    `json:"last_failure_kind,omitempty" redis:"last_failure_kind"`
	LastInvokedAt   time.Time `json:"last_invoked_at" redis:"last_invoked_at"`
}

// Profiler records invocation outcomes in Redis hashes, one per tool.
// It satisfies Recorder, so it can be attached to an Invoker with WithRecorder.
type Profiler struct {
	rdb *redis.Client
}

var _ Recorder = (*Profiler)(nil)

func NewProfiler(rdb *redis.Client) *Profiler {
	return &Profiler{rdb: rdb}
}

func (p *Profiler) profileKey(toolName string) string {
	return fmt.Sprintf("toolprofile:%s", toolName)
}

// GetProfile reads a tool's profile. A tool that was never invoked has an empty profile.
func (p *Profiler) GetProfile(ctx context.Context, toolName string) (*ToolProfile, error) {
	data, err := p.rdb.HGetAll(ctx, p.profileKey(toolName)).Result()
	if err != nil {
		return nil, err
	}

	profile := &ToolProfile{ToolName: toolName}
	profile.AvgLatencyMS, _ = strconv.ParseInt(data["avg_latency_ms"], 10, 64)
	profile.TotalSuccesses, _ = strconv.ParseInt(data["total_successes"], 10, 64)
	profile.TotalFailures, _ = strconv.ParseInt(data["total_failures"], 10, 64)
	profile.ErrorRate, _ = strconv.ParseFloat(data["error_rate"], 64)
	profile.LastFailureKind = data["last_failure_kind"]
	profile.LastInvokedAt, _ = time.Parse(time.RFC3339Nano, data["last_invoked_at"])
	return profile, nil
}

// RecordSuccess folds the latency into an exponential moving average and bumps the success counter.
func (p *Profiler) RecordSuccess(ctx context.Context, toolName string, latency time.Duration) {
	key := p.profileKey(toolName)
	const alpha = 0.1

	err := p.rdb.Watch(ctx, func(tx *redis.Tx) error {
		currentStr, err := tx.HGet(ctx, key, "avg_latency_ms").Result()
		if err != nil && err != redis.Nil {
			return err
		}
		newLatency := latency.Milliseconds()
		if current, parseErr := strconv.ParseInt(currentStr, 10, 64); parseErr == nil {
			newLatency = int64(alpha*float64(latency.Milliseconds()) + (1.0-alpha)*float64(current))
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "avg_latency_ms", newLatency)
			return nil
		})
		return err
	}, key)
	if err != nil {
		log.Printf("Error updating latency for tool %s: %v", toolName, err)
	}

	pipe := p.rdb.Pipeline()
	successes := pipe.HIncrBy(ctx, key, "total_successes", 1)
	failures := pipe.HGet(ctx, key, "total_failures")
	pipe.HSet(ctx, key, "tool_name", toolName, "last_invoked_at", time.Now().Format(time.RFC3339Nano))
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		log.Printf("Error in success update pipeline for tool %s: %v", toolName, err)
		return
	}

	totalFailures, _ := strconv.ParseInt(failures.Val(), 10, 64)
	p.updateErrorRate(ctx, key, successes.Val(), totalFailures)
}

// RecordFailure bumps the failure counter and remembers the failure kind.
func (p *Profiler) RecordFailure(ctx context.Context, toolName string, kind Kind) {
	key := p.profileKey(toolName)
	pipe := p.rdb.Pipeline()
	failures := pipe.HIncrBy(ctx, key, "total_failures", 1)
	successes := pipe.HGet(ctx, key, "total_successes")
	pipe.HSet(ctx, key, "tool_name", toolName, "last_failure_kind", string(kind), "last_invoked_at", time.Now().Format(time.RFC3339Nano))
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		log.Printf("Error in failure update pipeline for tool %s: %v", toolName, err)
		return
	}

	totalSuccesses, _ := strconv.ParseInt(successes.Val(), 10, 64)
	p.updateErrorRate(ctx, key, totalSuccesses, failures.Val())
}

func (p *Profiler) updateErrorRate(ctx context.Context, key string, successes, failures int64) {
	total := successes + failures
	if total == 0 {
		return
	}
	if err := p.rdb.HSet(ctx, key, "error_rate", float64(failures)/float64(total)).Err(); err != nil {
		log.Printf("Error updating error rate for %s: %v", key, err)
	}
}
