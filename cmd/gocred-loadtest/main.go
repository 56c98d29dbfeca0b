package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	mrand "math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	goCred "github.com/MrEthical07/goCred"
	"github.com/MrEthical07/goCred/userstore"
)

type userState struct {
	identifier string
	password   string
	mu         sync.Mutex
	token      string
}

func main() {
	var (
		users       = flag.Int("users", 200, "number of users to register")
		concurrency = flag.Int("concurrency", 16, "number of concurrent workers")
		ops         = flag.Int("ops", 2000, "operations per phase (login + authenticate)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "gocred-lt", "redis key prefix")
		argonMemory = flag.Uint("argon-memory", 19456, "argon2id memory in KiB")
		argonTime   = flag.Uint("argon-time", 2, "argon2id iterations")
	)
	flag.Parse()

	if *users <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "users, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			logger.Fatal("failed to start miniredis", zap.Error(err))
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		logger.Info("using miniredis", zap.String("addr", addr))
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		cleanup = func() { _ = client.Close() }
		logger.Info("using redis", zap.String("addr", addr))
	}
	defer cleanup()

	cfg := goCred.DefaultConfig()
	cfg.Password.Key = randomKey()
	cfg.Password.Memory = uint32(*argonMemory)
	cfg.Password.Time = uint32(*argonTime)
	cfg.Token.Key = randomKey()
	cfg.Store.RedisPrefix = *prefix
	// Load generation must not trip the login limiter.
	cfg.Security.EnableLoginThrottle = false
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true

	store := userstore.NewRedis(client, *prefix)
	engine, err := goCred.New().
		WithConfig(cfg).
		WithUserProvider(store).
		WithLogger(logger).
		Build()
	if err != nil {
		logger.Fatal("build engine", zap.Error(err))
	}

	states := make([]userState, *users)
	logger.Info("registering users", zap.Int("users", *users))
	startSeed := time.Now()
	runID := time.Now().UnixNano()
	for i := range states {
		states[i].identifier = fmt.Sprintf("lt-%d-%d", runID, i)
		states[i].password = fmt.Sprintf("password-%d", i)
		if _, err := engine.Register(ctx, states[i].identifier, states[i].password); err != nil {
			logger.Fatal("register failed", zap.Error(err))
		}
	}
	logger.Info("registered", zap.Duration("took", time.Since(startSeed).Round(time.Millisecond)))

	loginStats := runPhase(states, *ops, *concurrency, func(s *userState) error {
		res, err := engine.Login(ctx, s.identifier, s.password)
		if err != nil {
			return err
		}
		s.token = res.Token
		return nil
	})

	authStats := runPhase(states, *ops, *concurrency, func(s *userState) error {
		if s.token == "" {
			return goCred.ErrUnauthorized
		}
		res, err := engine.Authenticate(ctx, s.token)
		if err != nil {
			return err
		}
		s.token = res.Token
		return nil
	})

	fmt.Println("---- results ----")
	printStats("login", loginStats)
	printStats("authenticate", authStats)

	snapshot := engine.MetricsSnapshot()
	fmt.Printf("hash latency buckets (<=5ms..+Inf): %v\n", snapshot.Histograms[goCred.MetricHashLatency])
}

// runPhase spreads ops calls of fn over random users. fn runs with the
// user's lock held.
func runPhase(states []userState, ops, concurrency int, fn func(*userState) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := mrand.New(mrand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				state := &states[r.Intn(len(states))]

				state.mu.Lock()
				t0 := time.Now()
				err := fn(state)
				d := time.Since(t0)
				state.mu.Unlock()

				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func randomKey() []byte {
	key := make([]byte, 64)
	if _, err := rand.Read(key); err != nil {
		panic(err)
	}
	return key
}
