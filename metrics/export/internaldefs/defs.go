package internaldefs

import (
	goCred "github.com/MrEthical07/goCred"
)

// CounterDef names one engine counter.
type CounterDef struct {
	ID   goCred.MetricID
	Name string
	Help string
}

// HistogramDef names one engine histogram.
type HistogramDef struct {
	ID   goCred.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in MetricID order.
var CounterDefs = []CounterDef{
	{ID: goCred.MetricLoginSuccess, Name: "gocred_login_success_total", Help: "Logins that issued a token."},
	{ID: goCred.MetricLoginFailure, Name: "gocred_login_failure_total", Help: "Logins rejected as invalid credentials."},
	{ID: goCred.MetricLoginRateLimited, Name: "gocred_login_rate_limited_total", Help: "Logins rejected by the rate limiter."},
	{ID: goCred.MetricPasswordRehash, Name: "gocred_password_rehash_total", Help: "Stored hashes rewritten with the default scheme on login."},
	{ID: goCred.MetricPasswordRehashFailure, Name: "gocred_password_rehash_failure_total", Help: "Failed rehash write-backs."},
	{ID: goCred.MetricPasswordSet, Name: "gocred_password_set_total", Help: "Passwords replaced through SetPassword."},
	{ID: goCred.MetricAccountCreated, Name: "gocred_account_created_total", Help: "Accounts created through Register."},
	{ID: goCred.MetricTokenIssued, Name: "gocred_token_issued_total", Help: "Session tokens issued."},
	{ID: goCred.MetricTokenValidated, Name: "gocred_token_validated_total", Help: "Session tokens accepted."},
	{ID: goCred.MetricTokenExpired, Name: "gocred_token_expired_total", Help: "Correctly signed tokens rejected for expiry."},
	{ID: goCred.MetricTokenRejected, Name: "gocred_token_rejected_total", Help: "Malformed, forged or revoked tokens."},
	{ID: goCred.MetricTokenRevoked, Name: "gocred_token_revoked_total", Help: "Token salt rotations."},
	{ID: goCred.MetricAuditDropped, Name: "gocred_audit_dropped_total", Help: "Audit events lost on a full audit buffer."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: goCred.MetricHashLatency, Name: "gocred_hash_latency_seconds", Help: "Password hash and validate latency."},
}

// HistogramUpperBounds are the finite bucket bounds in seconds. The last
// engine bucket is +Inf.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// HistogramBoundSuffix names each bucket, +Inf included, for exporters that
// publish one gauge per bucket.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// BucketCount is the number of engine buckets, +Inf included.
const BucketCount = 8

// NormalizeBuckets copies raw into a fixed array, truncating or zero
// filling as needed.
func NormalizeBuckets(raw []uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals; the last
// element is the sample count.
func CumulativeBuckets(raw [BucketCount]uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
