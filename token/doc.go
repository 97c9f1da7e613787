// Package token estimates the token cost of text spans for chunk budgeting.
//
// Two counters are provided: a tiktoken-backed counter for exact counts when
// an encoding is available, and a CJK-aware character estimator used as a
// fallback. Counters never fail at the call site; initialization errors
// degrade to the estimator.
package token
